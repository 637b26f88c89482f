package interfaces

// Logger is the minimal structured logging contract the service codes
// against. Implementations live outside internal packages so the backing
// logger can be swapped without touching callers.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a child logger carrying fields on every line it emits.
	With(fields ...Field) Logger
}

// Field is a key/value pair attached to a log line.
type Field struct {
	Key   string
	Value any
}
