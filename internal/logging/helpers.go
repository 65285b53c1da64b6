package logging

import (
	"maps"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// WithFields returns a logger that carries the given structured fields on
// every entry. Loggers that do not implement the FieldsLogger extension are
// returned unchanged, as are nil loggers and empty field maps.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	scoped, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	return scoped.WithFields(maps.Clone(fields))
}
