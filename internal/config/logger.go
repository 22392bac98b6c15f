package config

import (
	"io"
	"log/slog"
)

// NewLogger builds a slog logger from a level name (debug, info, warn,
// error) and a format name (text or json). Unknown names fall back to info
// and text.
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	var h slog.Handler
	opts := &slog.HandlerOptions{}

	switch level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	switch format {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		h = slog.NewTextHandler(w, opts)
	}

	return slog.New(h)
}
