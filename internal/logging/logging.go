// Package logging provides the structured logger contract used throughout
// hcplanner, following the shape of go.viam.com/rdk/logging: a small
// interface backed by zap, so callers can inject a test logger without
// depending on zap directly.
package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// Logger is the structured logging contract consumed by the planner, pool,
// and graph builder.
type Logger interface {
	Debug(args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Info(args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warn(args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Error(args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

// NewDevelopmentLogger returns a console-encoded, debug-level logger named
// for the given component.
func NewDevelopmentLogger(name string) Logger {
	z, err := zap.NewDevelopment()
	if err != nil {
		// zap.NewDevelopment only fails if stdout/stderr can't be opened;
		// fall back to a no-op core rather than panic in library code.
		z = zap.NewNop()
	}
	return z.Sugar().Named(name)
}

// NewTestLogger returns a logger that writes to the test's own output,
// interleaving cleanly with `go test -v`.
func NewTestLogger(tb testing.TB) Logger {
	return zaptest.NewLogger(tb).Sugar()
}

// NewNopLogger discards everything; useful as a safe default.
func NewNopLogger() Logger {
	return zap.NewNop().Sugar()
}
