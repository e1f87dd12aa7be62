package quill

import (
	"context"
	"log/slog"
)

// nopHandler is a slog.Handler that discards all records. Enabled returns
// false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// logger is the package logger. Plain var: quill is single-threaded.
var logger = newNopLogger()

// SetLogger configures the logger used by panels and widgets.
// By default quill produces no log output. Pass nil to restore that.
//
// Levels used:
//   - [slog.LevelDebug]: per-tick frame stats when a panel is in debug mode
//   - [slog.LevelWarn]: widgets skipped during batching
//   - [slog.LevelError]: widget fill failures, widgets with no panel root
//
// Example:
//
//	quill.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	logger = l
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return logger
}
