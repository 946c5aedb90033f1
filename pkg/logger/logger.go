// pkg/logger/logger.go

package logger

import (
	"os"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

// DefaultConsoleEncoderConfig returns the console encoder used for CI output.
func DefaultConsoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

// ParseLogLevel maps a LOG_LEVEL string onto a zap level, defaulting to Info.
func ParseLogLevel(raw string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewFallbackLogger builds a console-only logger for early startup.
func NewFallbackLogger() *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(DefaultConsoleEncoderConfig()),
		zapcore.Lock(os.Stderr),
		ParseLogLevel(os.Getenv("LOG_LEVEL")),
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// Initialize sets up the global zap and otelzap loggers. Console output goes
// to stderr so command output on stdout stays machine-readable.
func Initialize() {
	log = NewFallbackLogger()
	zap.ReplaceGlobals(log)
	otelzap.ReplaceGlobals(otelzap.New(log))
}

// InitFallback installs a logger only if none is configured yet.
func InitFallback() {
	if log != nil {
		return
	}
	Initialize()
}

// L returns the process-wide logger.
func L() *zap.Logger {
	if log == nil {
		InitFallback()
	}
	return log
}

// Sync flushes buffered log entries. Sync errors on stderr are ignored,
// stderr is not seekable on most platforms.
func Sync() error {
	if log == nil {
		return nil
	}
	err := log.Sync()
	if err != nil && (strings.Contains(err.Error(), "invalid argument") ||
		strings.Contains(err.Error(), "inappropriate ioctl")) {
		return nil
	}
	return err
}
