package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFilesystemWriteAndRead(t *testing.T) {
	root := t.TempDir()
	provider := NewFilesystem(root, "public")

	ctx := context.Background()

	if _, err := provider.Exec(ctx, OpWrite, "posts/hello/index.html", strings.NewReader("<html></html>")); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "posts", "hello", "index.html"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "<html></html>" {
		t.Fatalf("unexpected payload %q", data)
	}

	rows, err := provider.Query(ctx, OpRead, "posts/hello/index.html")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if rows == nil || !rows.Next() {
		t.Fatalf("expected one row")
	}
	var payload []byte
	if err := rows.Scan(&payload); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if string(payload) != "<html></html>" {
		t.Fatalf("unexpected payload %q", payload)
	}
	_ = rows.Close()
}

func TestFilesystemTrimsBasePrefix(t *testing.T) {
	root := t.TempDir()
	provider := NewFilesystem(root, "public")

	if _, err := provider.Exec(context.Background(), OpWrite, "public/index.html", strings.NewReader("x")); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "index.html")); err != nil {
		t.Fatalf("expected base prefix trimmed: %v", err)
	}
}

func TestFilesystemTrimsAbsoluteBasePrefix(t *testing.T) {
	root := t.TempDir()
	provider := NewFilesystem(root, root)
	ctx := context.Background()

	// Callers derive artifact paths from the configured output directory
	// with the leading separator trimmed.
	prefix := strings.Trim(filepath.ToSlash(root), "/")

	if _, err := provider.Exec(ctx, OpWrite, prefix+"/index.html", strings.NewReader("x")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "index.html")); err != nil {
		t.Fatalf("artifact should land inside the output directory: %v", err)
	}

	if _, err := provider.Exec(ctx, OpRemove, prefix); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "index.html")); !os.IsNotExist(err) {
		t.Fatalf("expected output tree removed")
	}
}

func TestFilesystemReadMissing(t *testing.T) {
	provider := NewFilesystem(t.TempDir(), "")

	rows, err := provider.Query(context.Background(), OpRead, "missing.html")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if rows != nil {
		t.Fatalf("expected nil rows for missing file")
	}
}

func TestFilesystemRemove(t *testing.T) {
	root := t.TempDir()
	provider := NewFilesystem(root, "")
	ctx := context.Background()

	if _, err := provider.Exec(ctx, OpWrite, "tags/go/index.html", strings.NewReader("x")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := provider.Exec(ctx, OpRemove, "tags"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "tags")); !os.IsNotExist(err) {
		t.Fatalf("expected directory removed")
	}

	// Removing a missing path is a no-op.
	if _, err := provider.Exec(ctx, OpRemove, "tags"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
}

func TestFilesystemEnsureDir(t *testing.T) {
	root := t.TempDir()
	provider := NewFilesystem(root, "")

	if _, err := provider.Exec(context.Background(), OpEnsureDir, "static/images"); err != nil {
		t.Fatalf("ensure_dir: %v", err)
	}
	info, err := os.Stat(filepath.Join(root, "static", "images"))
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory created: %v", err)
	}
}
