package di

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-press/internal/runtimeconfig"
	"github.com/goliatone/go-press/internal/site"
	gotheme "github.com/goliatone/go-theme"
)

type stubManifestLoader struct {
	manifest *gotheme.Manifest
}

func (s stubManifestLoader) Load(string) (*gotheme.Manifest, error) {
	return s.manifest, nil
}

func scaffoldWorkspace(t *testing.T) runtimeconfig.Config {
	t.Helper()
	root := t.TempDir()

	contentDir := filepath.Join(root, "content")
	templateDir := filepath.Join(root, "themes", "default", "templates")
	for _, dir := range []string{contentDir, templateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	post := "---\nTitle: Hello World\ndate: 2024-03-05\n---\n\nLead paragraph.\n"
	if err := os.WriteFile(filepath.Join(contentDir, "hello-world.md"), []byte(post), 0o644); err != nil {
		t.Fatalf("write post: %v", err)
	}

	templates := map[string]string{
		"post.html":  "<html><body><h1>{{ .Page.Post.Title }}</h1>{{ .Page.Post.BodyHTML }}</body></html>",
		"index.html": "<html><body>{{ range .Page.Posts }}<a href=\"{{ .Permalink }}\">{{ .Title }}</a>{{ end }}</body></html>",
		"tag.html":   "<html><body><h1>{{ .Page.Tag }}</h1></body></html>",
	}
	for name, body := range templates {
		if err := os.WriteFile(filepath.Join(templateDir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write template %s: %v", name, err)
		}
	}

	cfg := runtimeconfig.DefaultConfig()
	cfg.BaseURL = "http://example.com"
	cfg.Site.Title = "Example Press"
	cfg.Content.Dir = contentDir
	cfg.Themes.Dir = filepath.Join(root, "themes")
	cfg.Output.Dir = filepath.Join(root, "public")
	cfg.Output.StaticDir = ""
	cfg.Output.CopyAssets = false
	cfg.Logging.Level = "error"
	return cfg
}

func TestContainerAssemblesAndBuilds(t *testing.T) {
	cfg := scaffoldWorkspace(t)

	container, err := New(cfg, WithThemeManifestLoader(stubManifestLoader{
		manifest: &gotheme.Manifest{Name: "default", Version: "1.0.0"},
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if container.Content() == nil || container.Site() == nil || container.Permalinks() == nil {
		t.Fatal("container left services unassembled")
	}

	result, err := container.Site().Build(context.Background(), site.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.PagesBuilt == 0 {
		t.Fatal("expected pages to be written")
	}

	index, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "index.html"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if !strings.Contains(string(index), "Hello World") {
		t.Fatalf("index missing post link:\n%s", index)
	}
	if _, err := os.Stat(filepath.Join(cfg.Output.Dir, "posts", "hello-world", "index.html")); err != nil {
		t.Fatalf("post page missing: %v", err)
	}
}

func TestContainerRejectsInvalidConfig(t *testing.T) {
	cfg := scaffoldWorkspace(t)
	cfg.Site.Title = ""

	if _, err := New(cfg); err == nil {
		t.Fatal("expected validation error")
	}
}
