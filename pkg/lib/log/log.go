// Package log provides a minimal slog wrapper: a per-component logger
// that always reads the current slog.Default(), so swapping the
// process-wide handler (e.g. for tests) takes effect for every
// already-constructed component logger.
package log

import (
	"log/slog"
	"os"
)

// LazyLogger tags every record with a "component" attribute, resolving
// slog.Default() fresh on each call rather than capturing it at
// construction time.
type LazyLogger struct {
	component string
}

func (l *LazyLogger) Debug(msg string, args ...any) {
	slog.Default().With("component", l.component).Debug(msg, args...)
}

func (l *LazyLogger) Info(msg string, args ...any) {
	slog.Default().With("component", l.component).Info(msg, args...)
}

func (l *LazyLogger) Warn(msg string, args ...any) {
	slog.Default().With("component", l.component).Warn(msg, args...)
}

func (l *LazyLogger) Error(msg string, args ...any) {
	slog.Default().With("component", l.component).Error(msg, args...)
}

// Logger returns a LazyLogger tagged with component.
func Logger(component string) *LazyLogger {
	return &LazyLogger{component: component}
}

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))
}
