package compositor

import (
	"log/slog"

	"github.com/gogpu/compositor/internal/logging"
)

// SetLogger configures the logger for the compositor and its sub-packages.
// By default nothing is logged. Pass nil to restore silence.
//
// SetLogger is safe for concurrent use.
//
// Log levels used:
//   - [slog.LevelDebug]: per-update decisions (reasons, rebuilds, flushes)
//   - [slog.LevelInfo]: entering and leaving compositing mode, backends
//   - [slog.LevelWarn]: surface allocation failures, broken invariants
//
// Example:
//
//	compositor.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger. The surface and scroll packages log
// through the same instance.
func Logger() *slog.Logger {
	return logging.L()
}
