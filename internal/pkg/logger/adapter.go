package logger

import (
	"context"
	"log/slog"

	"asset_gateway/internal/app/port"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

// slogAdapter implements port.Logger on top of an slog.Logger whose handler writes
// into the zap core, so application services and infrastructure share one sink.
type slogAdapter struct {
	l *slog.Logger
}

// NewSlogAdapter creates a port.Logger backed by the given zap logger.
func NewSlogAdapter(z *zap.Logger) port.Logger {
	return &slogAdapter{l: slog.New(zapslog.NewHandler(z.Core()))}
}

// Info logs an informational message.
func (a *slogAdapter) Info(msg string, args ...any) {
	a.l.Info(msg, args...)
}

func (a *slogAdapter) Debug(msg string, args ...any) {
	if a.l.Enabled(context.Background(), slog.LevelDebug) {
		a.l.Debug(msg, args...)
	}
}

func (a *slogAdapter) Warn(msg string, args ...any) {
	a.l.Warn(msg, args...)
}

func (a *slogAdapter) Error(msg string, args ...any) {
	a.l.Error(msg, args...)
}

// With returns a logger that adds args to every entry.
func (a *slogAdapter) With(args ...any) port.Logger {
	return &slogAdapter{l: a.l.With(args...)}
}

// Nop returns a port.Logger that discards everything; handy in tests.
func Nop() port.Logger {
	return NewSlogAdapter(zap.NewNop())
}
