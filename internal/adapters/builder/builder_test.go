package builder

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
)

func newTestBuilder(t *testing.T) (*ShellBuilder, string) {
	t.Helper()
	dir := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewShellBuilder(&config.RuntimeConfig{ProjectRoot: dir}, log), dir
}

func TestShellBuilder_RunsInProjectRoot(t *testing.T) {
	b, dir := newTestBuilder(t)

	err := b.Build(context.Background(), "printf wasm > contract.wasm.gz")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "contract.wasm.gz"))
	require.NoError(t, err)
	assert.Equal(t, "wasm", string(data))
}

func TestShellBuilder_FailureIncludesOutput(t *testing.T) {
	b, _ := newTestBuilder(t)

	err := b.Build(context.Background(), "echo 'error[E0425]: cannot find value'; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contract build failed")
	assert.Contains(t, err.Error(), "cannot find value")
}

func TestShellBuilder_StreamsWhenDebug(t *testing.T) {
	b, _ := newTestBuilder(t)
	var out bytes.Buffer
	b.stream = &out

	require.NoError(t, b.Build(context.Background(), "echo compiling raffle"))
	assert.Contains(t, out.String(), "compiling raffle")
}

func TestShellBuilder_EmptyCommand(t *testing.T) {
	b, _ := newTestBuilder(t)
	assert.Error(t, b.Build(context.Background(), "  "))
}
