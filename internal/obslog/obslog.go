// Package obslog centralizes structured logging for the engine on top of
// log/slog, so every component logs through the same handler and field
// conventions (run_id, component, n) instead of each owning its own
// logger setup.
package obslog

import (
	"io"
	"log/slog"
	"os"
)

// New returns a JSON-handler logger writing to os.Stderr at the given
// level, tagged with component as a constant attribute.
func New(component string, level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("component", component)
}

// Nop returns a logger that discards everything, for callers that don't
// want to wire one in (tests, one-off tools).
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 100}))
}
