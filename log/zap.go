package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a zap sugared logger to the package Logger interface.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// Compile-time assertion: *ZapLogger implements Logger.
var _ Logger = (*ZapLogger)(nil)

// NewZapLogger builds a production JSON logger at the given level.
func NewZapLogger(level Level) (*ZapLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(level))
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	return &ZapLogger{sugar: logger.Sugar()}, nil
}

// Wrap adapts an existing zap logger, e.g. a zaptest logger in tests.
func Wrap(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{sugar: logger.Sugar()}
}

func (l *ZapLogger) must() *zap.SugaredLogger {
	if l == nil || l.sugar == nil {
		return zap.NewNop().Sugar()
	}

	return l.sugar
}

// Debug logs a message at debug level.
func (l *ZapLogger) Debug(args ...any) { l.must().Debug(args...) }

// Debugf logs a formatted message at debug level.
func (l *ZapLogger) Debugf(format string, args ...any) { l.must().Debugf(format, args...) }

// Info logs a message at info level.
func (l *ZapLogger) Info(args ...any) { l.must().Info(args...) }

// Infof logs a formatted message at info level.
func (l *ZapLogger) Infof(format string, args ...any) { l.must().Infof(format, args...) }

// Warn logs a message at warn level.
func (l *ZapLogger) Warn(args ...any) { l.must().Warn(args...) }

// Warnf logs a formatted message at warn level.
func (l *ZapLogger) Warnf(format string, args ...any) { l.must().Warnf(format, args...) }

// Error logs a message at error level.
func (l *ZapLogger) Error(args ...any) { l.must().Error(args...) }

// Errorf logs a formatted message at error level.
func (l *ZapLogger) Errorf(format string, args ...any) { l.must().Errorf(format, args...) }

// WithFields returns a logger with the given key/value pairs attached.
//
//nolint:ireturn
func (l *ZapLogger) WithFields(keysAndValues ...any) Logger {
	return &ZapLogger{sugar: l.must().With(keysAndValues...)}
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	return l.must().Sync()
}

func zapLevel(level Level) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.InfoLevel
	}
}
