package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trebuchet-org/raffle-cli/internal/domain/config"
)

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		value    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.expected, levelFromEnv(tt.value))
		})
	}
}

func TestNewLoggerDebugFlag(t *testing.T) {
	t.Setenv("RAFFLE_LOG_LEVEL", "error")

	log := NewLogger(&config.RuntimeConfig{Debug: true})
	assert.True(t, log.Enabled(context.Background(), slog.LevelDebug))

	log = NewLogger(&config.RuntimeConfig{})
	assert.False(t, log.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, log.Enabled(context.Background(), slog.LevelError))
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/usecase/deploy_contract.go", shortPath("/home/dev/src/raffle-cli/internal/usecase/deploy_contract.go"))
	assert.Equal(t, "main.go", shortPath("/elsewhere/main.go"))
}

func TestNewHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	opts := &slog.HandlerOptions{ReplaceAttr: replaceAttr}

	slog.New(newHandler(&buf, "JSON", opts)).Info("deployed", "codeId", "7")
	assert.Contains(t, buf.String(), `"codeId":"7"`)
	assert.NotContains(t, buf.String(), `"time"`)

	buf.Reset()
	slog.New(newHandler(&buf, "", opts)).Info("deployed", "codeId", "7")
	assert.Contains(t, buf.String(), "codeId=7")
	assert.NotContains(t, buf.String(), "time=")
}

func TestModuleDir(t *testing.T) {
	assert.Equal(t, "/src/module", moduleDir("/src/module/internal/logging/logger.go"))
	assert.Empty(t, moduleDir("/src/logger.go"))
}
