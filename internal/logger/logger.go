package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timeLayout = "2006/01/02 15:04:05"

// New builds the process logger. Development mode logs colored, human-readable lines
// at debug level; production mode logs JSON at info level.
func New(development bool) (*zap.Logger, error) {
	var config zap.Config
	if development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
	return config.Build()
}

// Nop returns a logger that drops everything, for tests and tools.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// Sync flushes buffered entries. Errors from syncing stderr on some platforms are ignored.
func Sync(l *zap.Logger) {
	_ = l.Sync()
}
