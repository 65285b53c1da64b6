package themes

import (
	"testing"

	gotheme "github.com/goliatone/go-theme"
)

type stubLoader struct {
	manifests map[string]*gotheme.Manifest
}

func (s stubLoader) Load(themePath string) (*gotheme.Manifest, error) {
	if manifest, ok := s.manifests[themePath]; ok {
		return manifest, nil
	}
	return nil, &manifestNotFoundError{path: themePath}
}

type manifestNotFoundError struct {
	path string
}

func (e *manifestNotFoundError) Error() string {
	return "no manifest at " + e.path
}

func TestSelectorSelect(t *testing.T) {
	manifest := &gotheme.Manifest{Name: "default", Version: "1.0.0"}

	selector := NewSelector(Config{
		Dir:          "themes",
		DefaultTheme: "default",
	}, stubLoader{manifests: map[string]*gotheme.Manifest{
		"themes/default": manifest,
	}})

	selection, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if selection.Theme != "default" {
		t.Fatalf("expected default theme, got %s", selection.Theme)
	}
}

func TestSelectorSelect_MissingManifest(t *testing.T) {
	selector := NewSelector(Config{Dir: "themes", DefaultTheme: "ghost"}, stubLoader{})

	if _, err := selector.Select("", ""); err == nil {
		t.Fatalf("expected error for missing manifest")
	}
}

func TestSelectorSelect_NoDefault(t *testing.T) {
	selector := NewSelector(Config{Dir: "themes"}, stubLoader{})

	if _, err := selector.Select("", ""); err == nil {
		t.Fatalf("expected error when nothing is selected")
	}
}

func TestSelectorManifestCached(t *testing.T) {
	manifest := &gotheme.Manifest{Name: "default", Version: "1.0.0"}
	loader := &countingLoader{manifest: manifest}

	selector := NewSelector(Config{Dir: "themes", DefaultTheme: "default"}, loader)

	for range 3 {
		if _, err := selector.Select("default", ""); err != nil {
			t.Fatalf("Select: %v", err)
		}
	}
	if loader.calls != 1 {
		t.Fatalf("expected manifest loaded once, got %d", loader.calls)
	}
}

type countingLoader struct {
	manifest *gotheme.Manifest
	calls    int
}

func (l *countingLoader) Load(string) (*gotheme.Manifest, error) {
	l.calls++
	return l.manifest, nil
}

func TestBuildContext_NilSelection(t *testing.T) {
	ctx := BuildContext(nil, Config{})

	if ctx.AssetURL("style.css") != "" {
		t.Fatalf("expected empty asset url")
	}
	if got := ctx.Template("post", "fallback.html"); got != "fallback.html" {
		t.Fatalf("expected fallback template, got %s", got)
	}
	if ctx.Tokens == nil || ctx.Partials == nil {
		t.Fatalf("expected non-nil lookup maps")
	}
}
