// Package log provides a structured logging interface for statlearn estimators.
//
// The interface is a minimal, slog-compatible surface so that estimators do not
// depend on a concrete backend. The default backend is zerolog (see
// NewZerologProvider); tests use TestLogger to capture output in memory.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("EM").With(
//	    log.EstimatorIDKey, "em-001",
//	)
//	logger.Info("Training started",
//	    log.OperationKey, log.OperationFit,
//	    log.SamplesKey, 1000,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// All methods take a message followed by alternating key-value pairs.
// Error additionally accepts an error value as the first field; backends
// render it under the "error" key.
type Logger interface {
	// Debug logs a debug-level message. Estimators use it for per-iteration
	// cost traces.
	Debug(msg string, fields ...any)

	// Info logs an info-level message.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message.
	Warn(msg string, fields ...any)

	// Error logs an error-level message.
	//
	// Example:
	//   logger.Error("EM fit failed",
	//       err,
	//       log.OperationKey, log.OperationFit,
	//   )
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	// Estimators check it before building per-iteration debug payloads.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates loggers. It lets callers swap the backend, for
// example a TestLoggerProvider in tests.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum level for loggers created afterwards.
	SetLevel(level Level)
}
