package press

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gotheme "github.com/goliatone/go-theme"
)

type staticManifestLoader struct{}

func (staticManifestLoader) Load(string) (*gotheme.Manifest, error) {
	return &gotheme.Manifest{Name: "default", Version: "1.0.0"}, nil
}

func newTestConfig(t *testing.T) Config {
	t.Helper()
	root := t.TempDir()

	contentDir := filepath.Join(root, "content")
	templateDir := filepath.Join(root, "themes", "default", "templates")
	for _, dir := range []string{contentDir, templateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	posts := map[string]string{
		"hello-world.md":  "---\nTitle: Hello World\ndate: 2024-03-05\ntags:\n  - go\n---\n\nLead paragraph.\n\n<!--more-->\n\nBody continues.\n",
		"release-note.md": "---\nTitle: Release Note\ndate: 2024-04-01\nSummary: Short summary.\n---\n\nRelease details.\n",
	}
	for name, body := range posts {
		if err := os.WriteFile(filepath.Join(contentDir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	templates := map[string]string{
		"post.html":  "<html><body><h1>{{ .Page.Post.Title }}</h1>{{ .Page.Post.BodyHTML }}</body></html>",
		"index.html": "<html><body>{{ range .Page.Posts }}<article><a href=\"{{ .Permalink }}\">{{ .Title }}</a>{{ .Lead }}</article>{{ end }}</body></html>",
		"tag.html":   "<html><body><h1>{{ .Page.Tag }}</h1>{{ range .Page.Posts }}<a href=\"{{ .Permalink }}\">{{ .Title }}</a>{{ end }}</body></html>",
	}
	for name, body := range templates {
		if err := os.WriteFile(filepath.Join(templateDir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write template %s: %v", name, err)
		}
	}

	cfg := DefaultConfig()
	cfg.BaseURL = "http://example.com"
	cfg.Site.Title = "Example Press"
	cfg.Content.Dir = contentDir
	cfg.Themes.Dir = filepath.Join(root, "themes")
	cfg.Output.Dir = filepath.Join(root, "public")
	cfg.Output.StaticDir = ""
	cfg.Output.CopyAssets = false
	cfg.Logging.Level = "error"
	cfg.BuildLog.Enabled = true
	cfg.BuildLog.Path = filepath.Join(root, ".press", "buildlog.db")
	return cfg
}

func newTestModule(t *testing.T, cfg Config) *Module {
	t.Helper()
	module, err := New(cfg, WithThemeManifestLoader(staticManifestLoader{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { module.Close() })
	return module
}

func TestModuleBuildWritesSite(t *testing.T) {
	cfg := newTestConfig(t)
	module := newTestModule(t, cfg)

	ctx := context.Background()
	result, err := module.Build(ctx, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Posts != 2 {
		t.Fatalf("posts = %d, want 2", result.Posts)
	}

	index, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "index.html"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	body := string(index)
	if !strings.Contains(body, "Hello World") || !strings.Contains(body, "Release Note") {
		t.Fatalf("index missing posts:\n%s", body)
	}
	if strings.Index(body, "Release Note") > strings.Index(body, "Hello World") {
		t.Fatal("index should list newest post first")
	}

	post, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "posts", "hello-world", "index.html"))
	if err != nil {
		t.Fatalf("read post: %v", err)
	}
	if !strings.Contains(string(post), "Body continues.") {
		t.Fatalf("post missing body:\n%s", post)
	}

	if _, err := os.Stat(filepath.Join(cfg.Output.Dir, "tags", "go", "index.html")); err != nil {
		t.Fatalf("tag page missing: %v", err)
	}

	records, err := module.BuildLog().Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 1 || !records[0].Succeeded {
		t.Fatalf("expected one successful build record, got %+v", records)
	}
}

func TestModuleCheckReportsCorpus(t *testing.T) {
	cfg := newTestConfig(t)
	module := newTestModule(t, cfg)

	corpus, err := module.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(corpus.Posts) != 2 {
		t.Fatalf("posts = %d, want 2", len(corpus.Posts))
	}
}

func TestModuleCleanRemovesOutput(t *testing.T) {
	cfg := newTestConfig(t)
	module := newTestModule(t, cfg)

	ctx := context.Background()
	if _, err := module.Build(ctx, BuildOptions{}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := module.Clean(ctx); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Output.Dir, "index.html")); !os.IsNotExist(err) {
		t.Fatalf("expected output removed, stat err = %v", err)
	}
}

func TestModuleRejectsInvalidConfig(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Site.Title = ""

	if _, err := New(cfg); err == nil {
		t.Fatal("expected validation error")
	}
}
