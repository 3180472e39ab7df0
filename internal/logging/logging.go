// Package logging provides the application logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a leveled, structured logger for the application.
type Logger struct {
	s *zap.SugaredLogger
}

// NewLogger creates a new Logger. With verbose set, debug messages are
// emitted as well.
func NewLogger(verbose bool) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		l = zap.NewNop()
	}
	return &Logger{s: l.Sugar()}
}

// NewNopLogger returns a logger that discards everything. Useful in tests.
func NewNopLogger() *Logger {
	return &Logger{s: zap.NewNop().Sugar()}
}

// Info logs an informational message with optional key/value pairs.
func (l *Logger) Info(msg string, args ...interface{}) {
	l.s.Infow(msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.s.Warnw(msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...interface{}) {
	l.s.Errorw(msg, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.s.Debugw(msg, args...)
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() {
	_ = l.s.Sync()
}
