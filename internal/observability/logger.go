// Package observability wires structured logging and Prometheus metrics for
// the evaluation service.
package observability

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the process logger: text output in development, JSON in
// production. The returned logger is also installed as slog's default.
func NewLogger(level string, dev bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var h slog.Handler
	if dev {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	lg := slog.New(h)
	slog.SetDefault(lg)
	return lg
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
