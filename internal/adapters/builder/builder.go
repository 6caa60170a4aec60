package builder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/creack/pty"

	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// ShellBuilder runs the contract build command through the shell
type ShellBuilder struct {
	log         *slog.Logger
	projectRoot string
	stream      io.Writer
}

// NewShellBuilder creates a new builder. With --debug the build output is
// streamed to stdout; otherwise it is only shown when the build fails.
func NewShellBuilder(cfg *config.RuntimeConfig, log *slog.Logger) *ShellBuilder {
	b := &ShellBuilder{
		log:         log.With("component", "ShellBuilder"),
		projectRoot: cfg.ProjectRoot,
	}
	if cfg.Debug {
		b.stream = os.Stdout
	}
	return b
}

// Build runs command in the project root
func (b *ShellBuilder) Build(ctx context.Context, command string) error {
	if strings.TrimSpace(command) == "" {
		return fmt.Errorf("no build command configured")
	}

	start := time.Now()
	b.log.Debug("running contract build", "command", command, "dir", b.projectRoot)

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = b.projectRoot
	cmd.Env = os.Environ()

	// Start with PTY for proper color handling
	ptyFile, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("failed to start pty: %w", err)
	}
	defer func() {
		_ = ptyFile.Close()
	}()

	var output bytes.Buffer
	var dst io.Writer = &output
	if b.stream != nil {
		dst = io.MultiWriter(&output, b.stream)
	}

	// Reading a pty whose child exited returns EIO on Linux
	if _, err := io.Copy(dst, ptyFile); err != nil && !errors.Is(err, syscall.EIO) {
		b.log.Debug("error reading build output", "error", err)
	}

	if err := cmd.Wait(); err != nil {
		b.log.Error("contract build failed", "error", err, "duration", time.Since(start))
		return fmt.Errorf("contract build failed: %w\nOutput: %s", err, strings.TrimSpace(output.String()))
	}

	b.log.Debug("contract build completed", "duration", time.Since(start))
	return nil
}

var _ usecase.ContractBuilder = (*ShellBuilder)(nil)
