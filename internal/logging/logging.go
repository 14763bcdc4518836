// Package logging holds the process-wide logger shared by the compositor
// and its sub-packages. The root package exposes it through SetLogger and
// Logger; surface and scroll read it here to avoid an import cycle.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip
// attribute formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// Nop returns a logger that produces no output.
func Nop() *slog.Logger { return slog.New(nopHandler{}) }

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(Nop())
}

// Set replaces the shared logger. A nil logger restores silence.
func Set(l *slog.Logger) {
	if l == nil {
		l = Nop()
	}
	current.Store(l)
}

// L returns the shared logger.
func L() *slog.Logger {
	return current.Load()
}
