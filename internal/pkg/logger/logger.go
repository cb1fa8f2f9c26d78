package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

// Init builds the global logger. "production" gets the JSON encoder at info
// level, "test" discards everything, anything else is a development console.
func Init(env string) {
	var (
		l   *zap.Logger
		err error
	)

	switch env {
	case "production":
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		l, err = cfg.Build()
	case "test":
		l = zap.NewNop()
	default:
		l, err = zap.NewDevelopment()
	}

	if err != nil {
		l = zap.NewNop()
	}
	log = l
}

// L returns the underlying logger, for libraries that need a *zap.Logger or
// a bridged *log.Logger.
func L() *zap.Logger {
	return log
}

func Debug(msg string, fields ...zap.Field) {
	log.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	log.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	log.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	log.Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	log.Fatal(msg, fields...)
}

// Sync flushes buffered entries; call before exit.
func Sync() {
	_ = log.Sync()
}
