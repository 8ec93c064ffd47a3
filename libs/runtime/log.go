package runtime

import (
	"io"
	"log/slog"
	"os"
)

func NewLogger(service string) *slog.Logger {
	return NewLoggerTo(service, os.Stdout)
}

// NewLoggerTo writes JSON logs to w. The TUI owns stdout, so the
// interactive binary logs to a file (or discards) instead.
func NewLoggerTo(service string, w io.Writer) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(h).With("service", service)
}
