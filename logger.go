package multisource

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/multisource/effect"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for multisource and the effect package.
// By default nothing is logged. Pass nil to restore silent behavior.
//
// Log levels used:
//   - [slog.LevelDebug]: cache hits, stat failures, skipped slots
//   - [slog.LevelInfo]: effect loaded or reloaded, slot re-resolved
//   - [slog.LevelWarn]: offscreen target allocation failures
//   - [slog.LevelError]: effect compile failures
//
// Example:
//
//	multisource.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	effect.SetLogger(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
