package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type zapLogger struct {
	l *zap.Logger
}

// NewZapLogger builds a production zap logger writing JSON lines to stderr.
// Verbose lowers the level to debug.
func NewZapLogger(verbose bool) (Logger, func(), error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.DisableStacktrace = true
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	l, err := config.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build zap logger: %w", err)
	}
	return FromZap(l), func() { _ = l.Sync() }, nil
}

// FromZap adapts an existing zap logger.
func FromZap(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return zapLogger{l: l}
}

func (z zapLogger) Info(msg string, obj any)  { z.l.Info(msg, fields(obj)...) }
func (z zapLogger) Warn(msg string, obj any)  { z.l.Warn(msg, fields(obj)...) }
func (z zapLogger) Debug(msg string, obj any) { z.l.Debug(msg, fields(obj)...) }
func (z zapLogger) Error(msg string, obj any) { z.l.Error(msg, fields(obj)...) }

func fields(obj any) []zap.Field {
	switch v := obj.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make([]zap.Field, 0, len(v))
		for key, value := range v {
			if err, ok := value.(error); ok {
				out = append(out, zap.NamedError(key, err))
				continue
			}
			out = append(out, zap.Any(key, value))
		}
		return out
	case error:
		return []zap.Field{zap.Error(v)}
	default:
		return []zap.Field{zap.Any("obj", v)}
	}
}
