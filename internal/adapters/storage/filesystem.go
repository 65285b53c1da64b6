// Package storage provides filesystem-backed implementations of the artifact
// storage contract used by the site assembler.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-press/pkg/storage"
)

// Op identifiers understood by the filesystem provider.
const (
	OpEnsureDir = "site.ensure_dir"
	OpWrite     = "site.write"
	OpRead      = "site.read"
	OpRemove    = "site.remove"
)

// NewFilesystem returns a storage.Provider that writes site artifacts to
// disk under root. The base argument should match the configured output
// directory so duplicated prefixes are trimmed from incoming paths.
func NewFilesystem(root, base string) storage.Provider {
	return &filesystemProvider{root: root, base: normalizeSlashPath(base)}
}

type filesystemProvider struct {
	root string
	base string
}

func (s *filesystemProvider) Query(_ context.Context, op string, args ...any) (storage.Rows, error) {
	if op != OpRead || len(args) == 0 {
		return nil, nil
	}
	target := s.normalizePath(args[0])
	data, err := os.ReadFile(s.abs(target))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fileRows{data: data}, nil
}

func (s *filesystemProvider) Exec(_ context.Context, op string, args ...any) (storage.Result, error) {
	switch op {
	case OpEnsureDir:
		if len(args) == 0 {
			return emptyResult{}, fmt.Errorf("ensure_dir requires path")
		}
		path := s.normalizePath(args[0])
		return emptyResult{}, os.MkdirAll(s.abs(path), 0o755)
	case OpWrite:
		if len(args) < 2 {
			return emptyResult{}, fmt.Errorf("write requires path and reader")
		}
		path := s.normalizePath(args[0])
		reader, ok := args[1].(io.Reader)
		if !ok || reader == nil {
			return emptyResult{}, fmt.Errorf("write expects io.Reader content")
		}
		full := s.abs(path)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return emptyResult{}, err
		}
		file, err := os.Create(full)
		if err != nil {
			return emptyResult{}, err
		}
		defer file.Close()
		if _, err := io.Copy(file, reader); err != nil {
			return emptyResult{}, err
		}
		return emptyResult{}, nil
	case OpRemove:
		if len(args) == 0 {
			return emptyResult{}, fmt.Errorf("remove requires path")
		}
		path := s.normalizePath(args[0])
		err := os.RemoveAll(s.abs(path))
		if errors.Is(err, os.ErrNotExist) {
			return emptyResult{}, nil
		}
		return emptyResult{}, err
	default:
		return emptyResult{}, nil
	}
}

func (s *filesystemProvider) abs(rel string) string {
	if rel == "" {
		return s.root
	}
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// normalizePath strips leading and trailing separators and the configured
// base prefix so relative and absolute output directories resolve to the
// same provider-rooted path.
func (s *filesystemProvider) normalizePath(arg any) string {
	path, _ := arg.(string)
	path = normalizeSlashPath(path)
	switch {
	case s.base == "":
		return path
	case path == s.base:
		return ""
	case strings.HasPrefix(path, s.base+"/"):
		return path[len(s.base)+1:]
	}
	return path
}

func normalizeSlashPath(p string) string {
	p = strings.Trim(filepath.ToSlash(filepath.Clean(p)), "/")
	if p == "." {
		return ""
	}
	return p
}

type emptyResult struct{}

func (emptyResult) RowsAffected() (int64, error) { return 0, nil }
func (emptyResult) LastInsertId() (int64, error) { return 0, nil }

type fileRows struct {
	data []byte
	read bool
}

func (r *fileRows) Next() bool {
	if r.read {
		return false
	}
	r.read = true
	return true
}

func (r *fileRows) Scan(dest ...any) error {
	if len(dest) == 0 {
		return fmt.Errorf("scan requires destination")
	}
	bytesDest, ok := dest[0].(*[]byte)
	if !ok {
		return fmt.Errorf("unsupported scan destination %T", dest[0])
	}
	*bytesDest = append((*bytesDest)[:0], r.data...)
	return nil
}

func (r *fileRows) Close() error {
	return nil
}
