// logger_test.go
package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestParseLogLevelFromString(t *testing.T) {
	tests := []struct {
		name     string
		levelStr string
		want     LogLevel
	}{
		{name: "debug", levelStr: "debug", want: LogLevelDebug},
		{name: "legacy debug name", levelStr: "LogLevelDebug", want: LogLevelDebug},
		{name: "warn", levelStr: "warn", want: LogLevelWarn},
		{name: "error", levelStr: "error", want: LogLevelError},
		{name: "unknown defaults to info", levelStr: "verbose", want: LogLevelInfo},
		{name: "empty defaults to info", levelStr: "", want: LogLevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevelFromString(tt.levelStr))
		})
	}
}

func TestErrorReturnsError(t *testing.T) {
	log := BuildNopLogger()
	err := log.Error("something broke", zap.String("detail", "x"))
	assert.EqualError(t, err, "something broke")
}

func TestSetLevelAndGetLogLevel(t *testing.T) {
	log := BuildNopLogger()
	log.SetLevel(LogLevelWarn)
	assert.Equal(t, LogLevelWarn, log.GetLogLevel())
}

func TestWithPreservesLevel(t *testing.T) {
	log := BuildNopLogger()
	log.SetLevel(LogLevelDebug)
	child := log.With(zap.String("component", "signer"))
	assert.Equal(t, LogLevelDebug, child.GetLogLevel())
}
