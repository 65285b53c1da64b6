package interfaces

import "context"

// Logger is the leveled logging contract used across the press runtime. The
// method set matches github.com/goliatone/go-logger, so that package plugs in
// directly without an adapter.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out named loggers. An implementation may scope child
// loggers per name or return a single shared instance.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is an optional extension for loggers that can bind persistent
// structured fields, returning a derived logger that emits them with every
// entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
