// loggerconfig.go
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LogOutputJSON          = "json"
	LogOutputHumanReadable = "human-readable"
)

// BuildLogger creates and returns a new zap-backed logger instance.
// JSON encoding is the default; LogOutputHumanReadable switches to a colored
// console encoder. The function panics if the logger cannot be initialized.
func BuildLogger(logLevel LogLevel, logOutputFormat string) Logger {

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if logOutputFormat == LogOutputHumanReadable {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config := zap.Config{
		Level:             zap.NewAtomicLevelAt(convertToZapLevel(logLevel)),
		Development:       false,
		Encoding:          "json",
		DisableCaller:     true,
		DisableStacktrace: true,
		Sampling:          nil,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
	}

	if logOutputFormat == LogOutputHumanReadable {
		config.Encoding = "console"
	}

	zapLogger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return &defaultLogger{
		logger:   zapLogger,
		logLevel: logLevel,
	}
}

// BuildNopLogger returns a Logger that discards everything. Intended for tests
// and for callers that wire their own logging.
func BuildNopLogger() Logger {
	return &defaultLogger{
		logger:   zap.NewNop(),
		logLevel: LogLevelNone,
	}
}

// convertToZapLevel converts the custom LogLevel to a zapcore.Level
func convertToZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LogLevelDebug:
		return zap.DebugLevel
	case LogLevelInfo:
		return zap.InfoLevel
	case LogLevelWarn:
		return zap.WarnLevel
	case LogLevelError:
		return zap.ErrorLevel
	case LogLevelPanic:
		return zap.PanicLevel
	case LogLevelFatal:
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}
