package progress

import (
	"log/slog"

	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
	"github.com/trebuchet-org/raffle-cli/internal/usecase"
)

// NewProgressSink returns a spinner for interactive runs and a logging sink
// for --non-interactive and --json runs
func NewProgressSink(cfg *config.RuntimeConfig, log *slog.Logger) usecase.ProgressSink {
	if cfg.NonInteractive || cfg.JSON {
		return NewLogSink(log)
	}
	return NewDeploySpinner()
}
