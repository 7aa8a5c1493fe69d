// Package obslog wraps log/slog for the small amount of informational
// logging the loader emits about its own progress — never required
// for correctness, since the core packages are otherwise synchronous
// and free of side effects beyond their return values.
package obslog

import (
	"log/slog"
	"os"
)

// Logger is the logger type pkgs/database accepts (an alias of
// *slog.Logger), so a caller can pass any slog.Logger without this
// package dictating handler configuration. It must not be nil; use
// Discard for silence.
type Logger = *slog.Logger

// Default returns the process-wide default logger.
func Default() Logger {
	return slog.Default()
}

// Discard returns a logger that drops everything, for callers that
// want to opt out of load-progress diagnostics entirely.
func Discard() Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

// NewText builds a text-handler logger writing to stderr at the given
// level, the form cmd/nyan uses for its own diagnostics.
func NewText(level slog.Level) Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
