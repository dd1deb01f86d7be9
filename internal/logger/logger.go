package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a JSON logger writing to stdout. Development mode lowers the
// level to debug and records source locations.
func New(development bool) *slog.Logger {
	return NewWithWriter(os.Stdout, development)
}

func NewWithWriter(w io.Writer, development bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if development {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// Discard is used by tests that do not assert on log output.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
