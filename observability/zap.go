package observability

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZapLogger builds a production-ready structured Logger writing to the
// process error stream.
func NewZapLogger(level string) (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}
	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return WrapZap(base), nil
}

// WrapZap adapts an existing zap logger to the Logger interface.
func WrapZap(l *zap.Logger) Logger {
	return zapLogger{l: l}
}

type zapLogger struct {
	l *zap.Logger
}

func (z zapLogger) Debug(msg string, fields ...Field) { z.l.Debug(msg, toZap(fields)...) }
func (z zapLogger) Info(msg string, fields ...Field)  { z.l.Info(msg, toZap(fields)...) }
func (z zapLogger) Warn(msg string, fields ...Field)  { z.l.Warn(msg, toZap(fields)...) }
func (z zapLogger) Error(msg string, fields ...Field) { z.l.Error(msg, toZap(fields)...) }

func (z zapLogger) With(fields ...Field) Logger {
	return zapLogger{l: z.l.With(toZap(fields)...)}
}

func toZap(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value().(type) {
		case string:
			out = append(out, zap.String(f.Key(), v))
		case int:
			out = append(out, zap.Int(f.Key(), v))
		case int64:
			out = append(out, zap.Int64(f.Key(), v))
		case bool:
			out = append(out, zap.Bool(f.Key(), v))
		case error:
			out = append(out, zap.NamedError(f.Key(), v))
		default:
			out = append(out, zap.Any(f.Key(), v))
		}
	}
	return out
}
