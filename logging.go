package zheap

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// NewLogger returns a colorized, human-readable slog.Logger suitable for
// the collector's lifecycle events (cycle start/stop, background-thread
// start/stop, OOM).
func NewLogger() *slog.Logger {
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: slog.LevelInfo,
	}))
}
