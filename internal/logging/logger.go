package logging

import (
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/google/wire"
	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
)

// Environment variables read by NewLogger
const (
	EnvLogLevel  = "RAFFLE_LOG_LEVEL"
	EnvLogFormat = "RAFFLE_LOG_FORMAT"
)

var LoggingSet = wire.NewSet(
	NewLogger,
)

// NewLogger creates the stderr logger. --debug overrides RAFFLE_LOG_LEVEL and
// adds source locations.
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       levelFromEnv(os.Getenv(EnvLogLevel)),
		ReplaceAttr: replaceAttr,
	}
	if cfg != nil && cfg.Debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	return slog.New(newHandler(os.Stderr, os.Getenv(EnvLogFormat), opts))
}

// newHandler picks the handler for RAFFLE_LOG_FORMAT; anything but "json" is text
func newHandler(w io.Writer, format string, opts *slog.HandlerOptions) slog.Handler {
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		if len(groups) == 0 {
			return slog.Attr{}
		}
	case slog.SourceKey:
		if source, ok := a.Value.Any().(*slog.Source); ok {
			source.File = shortPath(source.File)
		}
	}
	return a
}

func levelFromEnv(val string) slog.Level {
	switch strings.ToLower(val) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// shortPath trims a source path to be relative to the module
func shortPath(file string) string {
	if idx := strings.Index(file, "raffle-cli/"); idx != -1 {
		return file[idx+len("raffle-cli/"):]
	}

	_, self, _, _ := runtime.Caller(0)
	if dir := moduleDir(self); dir != "" && strings.HasPrefix(file, dir) {
		return strings.TrimPrefix(file[len(dir):], "/")
	}

	if idx := strings.LastIndex(file, "/"); idx != -1 {
		return file[idx+1:]
	}
	return file
}

// moduleDir strips internal/logging/logger.go from this file's path
func moduleDir(self string) string {
	idx := strings.LastIndex(self, "/internal/logging/")
	if idx == -1 {
		return ""
	}
	return self[:idx]
}
