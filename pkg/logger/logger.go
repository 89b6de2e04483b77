// Package logger is the structured logging facade shared by the resolver
// and the CLI. Commands print their results on stdout, so log entries go
// to stderr or wherever Config.Output points.
package logger

import (
	"context"
	"io"
)

// Logger is implemented by the zap backend and the no-op test logger.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a logger that carries fields on every entry.
	With(fields ...Field) Logger

	// WithContext returns a logger annotated with the trace and span IDs
	// in ctx, when ctx carries a valid span.
	WithContext(ctx context.Context) Logger

	// Sync flushes buffered entries.
	Sync() error
}

// Field is one structured key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Error creates a field holding err under the "error" key.
func Error(err error) Field {
	return Field{Key: "error", Value: err}
}

// Any creates a field with an arbitrary value.
func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Level controls which entries are emitted.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// ParseLevel maps a configuration string to a Level. Unknown strings fall
// back to InfoLevel.
func ParseLevel(s string) Level {
	switch Level(s) {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return Level(s)
	default:
		return InfoLevel
	}
}

// Format selects the output encoding.
type Format string

const (
	// JSONFormat emits one JSON object per entry.
	JSONFormat Format = "json"
	// ConsoleFormat emits human-readable lines with colored levels.
	ConsoleFormat Format = "console"
)

// ParseFormat maps a configuration string to a Format. Unknown strings fall
// back to JSONFormat.
func ParseFormat(s string) Format {
	if Format(s) == ConsoleFormat {
		return ConsoleFormat
	}
	return JSONFormat
}

// Config holds logger construction settings.
type Config struct {
	Level  Level
	Format Format

	// Output receives encoded entries. Nil means os.Stderr.
	Output io.Writer
}
