package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

func TestScaffoldPostHandlerCreatesFile(t *testing.T) {
	dir := t.TempDir()

	var reported string
	h := NewScaffoldPostHandler(nil, func(path string) { reported = path })

	msg := ScaffoldPostCommand{
		Title:   "Hello World",
		Dir:     dir,
		Summary: "A first post.",
		Tags:    []string{"go", "intro"},
		Date:    time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	}
	if err := h.Execute(context.Background(), msg); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := filepath.Join(dir, "hello-world.md")
	if reported != want {
		t.Fatalf("sink path = %q, want %q", reported, want)
	}
	if h.Path() != want {
		t.Fatalf("Path() = %q, want %q", h.Path(), want)
	}

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read scaffold: %v", err)
	}
	body := string(data)
	for _, fragment := range []string{
		"title: Hello World",
		"2024-03-05",
		"summary: A first post.",
		"- go",
		"- intro",
	} {
		if !strings.Contains(body, fragment) {
			t.Fatalf("scaffold missing %q:\n%s", fragment, body)
		}
	}
	if !strings.HasPrefix(body, "---\n") {
		t.Fatalf("scaffold should open with front matter delimiter:\n%s", body)
	}
}

func TestScaffoldPostHandlerRejectsMissingTitle(t *testing.T) {
	h := NewScaffoldPostHandler(nil, nil)

	err := h.Execute(context.Background(), ScaffoldPostCommand{Dir: t.TempDir()})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestScaffoldPostHandlerRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "hello-world.md")
	if err := os.WriteFile(existing, []byte("original"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	h := NewScaffoldPostHandler(nil, nil)
	err := h.Execute(context.Background(), ScaffoldPostCommand{Title: "Hello World", Dir: dir})
	if err == nil {
		t.Fatal("expected overwrite rejection")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatalf("read existing: %v", err)
	}
	if string(data) != "original" {
		t.Fatal("existing file was modified")
	}
}
