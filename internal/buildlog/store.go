// Package buildlog persists a history of site builds to a local SQLite
// database, giving the CLI a queryable record of what was generated and when.
package buildlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Record captures the outcome of one build run.
type Record struct {
	bun.BaseModel `bun:"table:build_records"`

	ID            int64     `bun:",pk,autoincrement"`
	StartedAt     time.Time `bun:"started_at,notnull"`
	DurationMS    int64     `bun:"duration_ms,notnull"`
	PagesBuilt    int       `bun:"pages_built,notnull"`
	PagesSkipped  int       `bun:"pages_skipped,notnull"`
	AssetsBuilt   int       `bun:"assets_built,notnull"`
	AssetsSkipped int       `bun:"assets_skipped,notnull"`
	Posts         int       `bun:"posts,notnull"`
	Succeeded     bool      `bun:"succeeded,notnull"`
	Error         string    `bun:"error"`
}

// Store reads and writes build records.
type Store struct {
	db *bun.DB
}

// Open creates a store backed by the SQLite database at path, creating parent
// directories and the schema as needed.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("buildlog: path required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("buildlog: create directory: %w", err)
		}
	}

	sqldb, err := sql.Open("sqlite3", path+"?_fk=1")
	if err != nil {
		return nil, fmt.Errorf("buildlog: open database: %w", err)
	}

	return newStore(ctx, sqldb)
}

// OpenInMemory creates an ephemeral store, used by tests and dry runs.
func OpenInMemory(ctx context.Context) (*Store, error) {
	sqldb, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("buildlog: open database: %w", err)
	}
	return newStore(ctx, sqldb)
}

func newStore(ctx context.Context, sqldb *sql.DB) (*Store, error) {
	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := db.NewCreateTable().Model((*Record)(nil)).IfNotExists().Exec(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("buildlog: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Append inserts a build record.
func (s *Store) Append(ctx context.Context, record *Record) error {
	if record == nil {
		return fmt.Errorf("buildlog: record required")
	}
	if record.StartedAt.IsZero() {
		record.StartedAt = time.Now().UTC()
	}
	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return fmt.Errorf("buildlog: append record: %w", err)
	}
	return nil
}

// Recent returns the most recent build records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 10
	}
	var records []*Record
	err := s.db.NewSelect().
		Model(&records).
		Order("started_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("buildlog: list records: %w", err)
	}
	return records, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
