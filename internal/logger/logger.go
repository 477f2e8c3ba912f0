package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/PierrardFacundo/GestionFinanzasapp/internal/config"
)

// NewLogger creates the process logger writing to stdout
func NewLogger(cfg *config.Config) *slog.Logger {
	return New(os.Stdout, cfg.Logging)
}

// New builds a slog.Logger for the given output using the configured level and format
func New(w io.Writer, cfg config.LoggingConfig) *slog.Logger {
	level := ParseLevel(cfg.Level)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	logger := slog.New(handler)

	logger.Info("logger initialized", "level", level, "format", strings.ToLower(cfg.Format))

	return logger
}

// ParseLevel maps a textual level to slog, falling back to info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
