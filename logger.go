package ggwin

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gg"
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
// SetLogger can be called while a frame loop is logging.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for ggwin, its backends and platform
// adapters. By default ggwin produces no log output.
//
// The logger is also handed to gg via [gg.SetLogger], so drawing engine
// diagnostics (GPU adapter selection, CPU fallback) end up in the same place.
// Pass nil to restore the silent default.
//
// Log levels used by ggwin:
//   - [slog.LevelDebug]: per-frame data (present timings, buffer sizes)
//   - [slog.LevelInfo]: lifecycle events (device enumerated, context profile chosen)
//   - [slog.LevelWarn]: non-fatal issues (rejected resizes, release errors)
func SetLogger(l *slog.Logger) {
	gg.SetLogger(l)
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by ggwin.
// Backend and platform packages call this to share the configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
