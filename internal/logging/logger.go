package logging

import (
	"encoding/hex"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger   *zap.Logger
	loggerMu sync.RWMutex
)

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "UPNPCTL_LOG_LEVEL"

// maxDumpBytes caps hex and ascii dumps of packets and bodies.
const maxDumpBytes = 256

// Initialize creates a new logger with the specified level.
// If level is empty, it checks UPNPCTL_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		SetLogger(zap.NewNop())
		return nil
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	l, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	SetLogger(l)

	return nil
}

// InitializeFromEnv initializes the logger from the UPNPCTL_LOG_LEVEL
// environment variable.
func InitializeFromEnv() error {
	return Initialize("")
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l == nil {
		// Silent until initialized so library use never prints unexpectedly.
		return zap.NewNop()
	}
	return l
}

// Or returns l when non-nil, else the global logger. Components take an
// optional *zap.Logger and resolve it through here.
func Or(l *zap.Logger) *zap.Logger {
	if l != nil {
		return l
	}
	return GetLogger()
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogSSDP logs a sent or received SSDP datagram
func LogSSDP(l *zap.Logger, direction, iface, remote string, payload []byte) {
	l = Or(l)
	if !l.Core().Enabled(zapcore.DebugLevel) {
		return
	}
	l.Debug("SSDP datagram",
		zap.String("direction", direction),
		zap.String("interface", iface),
		zap.String("remote_addr", remote),
		zap.Int("length", len(payload)),
		zap.String("ascii", asciiDump(payload)),
	)
}

// LogHTTPRequest logs an outgoing HTTP request
func LogHTTPRequest(l *zap.Logger, method, url string, headers map[string]string) {
	Or(l).Debug("HTTP request sent",
		zap.String("method", method),
		zap.String("url", url),
		zap.Any("headers", headers),
	)
}

// LogHTTPResponse logs a received HTTP response
func LogHTTPResponse(l *zap.Logger, url string, statusCode int, body []byte) {
	Or(l).Debug("HTTP response received",
		zap.String("url", url),
		zap.Int("status_code", statusCode),
		zap.Int("length", len(body)),
	)
}

// LogSOAPState logs a transition of an action invocation
func LogSOAPState(l *zap.Logger, action, state string, fields ...zap.Field) {
	fields = append([]zap.Field{
		zap.String("action", action),
		zap.String("state", state),
	}, fields...)
	Or(l).Debug("SOAP invocation", fields...)
}

// LogRawBytes logs raw bytes (useful for debugging vendor XML)
func LogRawBytes(l *zap.Logger, label string, data []byte) {
	Or(l).Debug(label,
		zap.Int("length", len(data)),
		zap.String("hex", hexDump(data)),
		zap.String("ascii", asciiDump(data)),
	)
}

func hexDump(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) > maxDumpBytes {
		return hex.EncodeToString(data[:maxDumpBytes]) + "..."
	}
	return hex.EncodeToString(data)
}

func asciiDump(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) > maxDumpBytes {
		data = data[:maxDumpBytes]
	}

	result := make([]byte, len(data))
	for i, b := range data {
		if b >= 32 && b <= 126 {
			result[i] = b
		} else {
			result[i] = '.'
		}
	}
	return string(result)
}

// Sync flushes any buffered log entries
func Sync() {
	_ = GetLogger().Sync()
}
