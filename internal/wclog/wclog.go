// Package wclog is the structured logging facade shared by socket, storage,
// and connector. It wraps zap so call sites never depend on the concrete
// logger implementation.
package wclog

import (
	"go.uber.org/zap"
)

// Logger is the minimal surface the rest of this module depends on.
type Logger interface {
	Debugw(msg string, kv ...any)
	Warnw(msg string, kv ...any)
	Errorw(msg string, kv ...any)
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// New returns a production zap logger wrapped as a Logger.
func New() Logger {
	l, err := zap.NewProduction()
	if err != nil {
		// Fall back to a no-op core rather than panicking: logging must
		// never be the reason a connection attempt fails.
		l = zap.NewNop()
	}
	return &zapLogger{sugar: l.Sugar()}
}

// NewNop returns a Logger that discards everything, for tests.
func NewNop() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

func (z *zapLogger) Debugw(msg string, kv ...any) { z.sugar.Debugw(msg, kv...) }
func (z *zapLogger) Warnw(msg string, kv ...any)  { z.sugar.Warnw(msg, kv...) }
func (z *zapLogger) Errorw(msg string, kv ...any) { z.sugar.Errorw(msg, kv...) }
