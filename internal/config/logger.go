package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/DanielPopoola/ficmart-checkout/internal/telemetry"
)

// NewLogger builds the service logger. Records carry trace_id and span_id
// when logged with a context that holds a span.
func (c *LoggerConfig) NewLogger() *slog.Logger {
	return c.newLogger(os.Stdout)
}

func (c *LoggerConfig) newLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.level()}

	var handler slog.Handler
	if c.Format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(telemetry.NewContextHandler(handler))
}

func (c *LoggerConfig) level() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
