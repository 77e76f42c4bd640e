// Package logging holds the process-wide logger for the overlay pipeline.
//
// By default nothing is logged. Applications that want diagnostics call
// SetLogger with a configured slog.Logger; the hot path itself never logs
// per frame, only recoverable failures (degenerate configuration,
// non-invertible matrices, non-standard rotation angles) reach the logger.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards all records. Enabled returns false so callers skip
// attribute formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := slog.New(nopHandler{})
	loggerPtr.Store(l)
}

// SetLogger replaces the active logger. Pass nil to restore the silent
// default. Safe for concurrent use with Logger.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the active logger. Never nil.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
