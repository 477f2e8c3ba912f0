package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{"Debug", "debug", slog.LevelDebug},
		{"UpperInfo", "INFO", slog.LevelInfo},
		{"Warn", "warn", slog.LevelWarn},
		{"WarningAlias", "warning", slog.LevelWarn},
		{"Error", " error ", slog.LevelError},
		{"UnknownToInfo", "verbose", slog.LevelInfo},
		{"EmptyToInfo", "", slog.LevelInfo},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseLevel(tc.input))
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("JSONByDefault", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, config.LoggingConfig{Level: "warn"})
		require.NotNil(t, logger)

		assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
		assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))

		logger.Warn("movement store slow", "latency_ms", 1200)
		assert.Contains(t, buf.String(), `"msg":"movement store slow"`)
		assert.Contains(t, buf.String(), `"latency_ms":1200`)
	})

	t.Run("TextFormat", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, config.LoggingConfig{Level: "debug", Format: "text"})

		assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
		logger.Debug("seeding month", "month", 3)
		assert.Contains(t, buf.String(), "msg=\"seeding month\"")
		assert.Contains(t, buf.String(), "month=3")
	})
}

func TestCorrelationIDContext(t *testing.T) {
	assert.Empty(t, CorrelationID(context.Background()))

	ctx := WithCorrelationID(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", CorrelationID(ctx))
}
