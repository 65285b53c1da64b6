// Package storage defines the artifact storage contract used by the site
// assembler. Providers interpret op identifiers (for example "site.write")
// rather than SQL, which keeps filesystem and in-memory implementations
// interchangeable with database-backed ones.
package storage

import "context"

// Provider encapsulates the operations required by go-press writers. Query
// reads previously written artifacts (such as the build manifest); Exec
// applies mutations (ensure_dir, write, remove).
type Provider interface {
	Query(ctx context.Context, op string, args ...any) (Rows, error)
	Exec(ctx context.Context, op string, args ...any) (Result, error)
}

// Config captures the runtime configuration for a storage provider.
type Config struct {
	Name     string
	Driver   string
	Root     string
	ReadOnly bool
	Options  map[string]any
}

// Rows iterates artifact payloads returned by Query.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
}

// Result reports the outcome of an Exec call.
type Result interface {
	RowsAffected() (int64, error)
	LastInsertId() (int64, error)
}
