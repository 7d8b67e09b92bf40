// Package logger provides element-lifecycle logging for deluge flows with
// pluggable backends (slog, zerolog, standard log).
package logger

import (
	"context"
	"fmt"
	"log"
)

// LogLevel represents logging levels (Debug < Info < Warn < Error)
type LogLevel int

const (
	// DebugLevel is for detailed debugging information
	DebugLevel LogLevel = iota
	// InfoLevel is for general informational messages
	InfoLevel
	// WarnLevel is for warning messages that are not errors
	WarnLevel
	// ErrorLevel is for error messages
	ErrorLevel
)

// Attribute represents a structured logging attribute for key-value pairs
type Attribute struct {
	Key   string
	Value any
}

// Attr creates an Attribute
func Attr(key string, value any) Attribute {
	return Attribute{Key: key, Value: value}
}

// Adapter defines the contract for logging backends (zerolog, slog, standard log, etc.)
type Adapter interface {
	Log(ctx context.Context, level LogLevel, msg string, attrs ...Attribute) // Structured logging with level
	IsLevelEnabled(ctx context.Context, level LogLevel) bool                 // Performance check - skip work if disabled
	Printf(format string, v ...any)                                          // Simple printf-style logging
}

// Logger wraps any Adapter backend and provides the main API
type Logger struct {
	backend Adapter
}

// New creates a Logger with a custom backend (zerolog, slog, etc.)
func New(backend Adapter) *Logger {
	return &Logger{backend: backend}
}

// Default creates a Logger using the standard library log package (simple, no levels)
func Default() *Logger {
	return New(NewStandardAdapter(log.Default()))
}

// Log emits one structured entry if the level is enabled on the backend.
func (l *Logger) Log(ctx context.Context, level LogLevel, msg string, attrs ...Attribute) {
	if l.backend.IsLevelEnabled(ctx, level) {
		l.backend.Log(ctx, level, msg, attrs...)
	}
}

// Printf emits a level-agnostic formatted entry.
func (l *Logger) Printf(format string, v ...any) {
	l.backend.Printf(format, v...)
}

// StandardAdapter adapts the standard library *log.Logger. It has no level
// filtering: everything is printed.
type StandardAdapter struct {
	logger *log.Logger
}

// NewStandardAdapter creates a new adapter for the standard log package
func NewStandardAdapter(logger *log.Logger) *StandardAdapter {
	return &StandardAdapter{logger: logger}
}

// Log implements Adapter by flattening attributes into the message
func (a *StandardAdapter) Log(_ context.Context, level LogLevel, msg string, attrs ...Attribute) {
	var attrStr string
	for _, attr := range attrs {
		attrStr += fmt.Sprintf(" %s=%v", attr.Key, attr.Value)
	}
	a.logger.Printf("[%s] %s%s", levelName(level), msg, attrStr)
}

// IsLevelEnabled always returns true for the standard logger
func (a *StandardAdapter) IsLevelEnabled(_ context.Context, _ LogLevel) bool {
	return true
}

// Printf implements simple printf-style logging
func (a *StandardAdapter) Printf(format string, v ...any) {
	a.logger.Printf(format, v...)
}

func levelName(level LogLevel) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "INFO"
	}
}
