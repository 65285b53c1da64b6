package site

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-press/internal/adapters/storage"
	"github.com/goliatone/go-press/internal/content"
	markdownpkg "github.com/goliatone/go-press/internal/markdown"
	"github.com/goliatone/go-press/internal/shortcode"
	"github.com/goliatone/go-press/internal/themes"
)

func newTestSite(t *testing.T, root string, cfg Config) Service {
	t.Helper()

	md, err := markdownpkg.NewService(markdownpkg.Config{
		BasePath:       filepath.Join("testdata", "content"),
		DefaultSection: "posts",
		Recursive:      true,
	}, nil)
	if err != nil {
		t.Fatalf("markdown.NewService: %v", err)
	}

	registry := shortcode.NewRegistry(shortcode.NewValidator())
	if err := shortcode.RegisterBuiltIns(registry, nil); err != nil {
		t.Fatalf("RegisterBuiltIns: %v", err)
	}
	sc := shortcode.NewService(registry, shortcode.NewRenderer(registry, shortcode.NewValidator()))

	permalinks, err := NewPermalinks(cfg.BaseURL, nil)
	if err != nil {
		t.Fatalf("NewPermalinks: %v", err)
	}

	contentSvc := content.NewService(content.Config{}, md, sc, content.WithPermalink(permalinks.Post))

	renderer, err := themes.NewGoTemplateRenderer(filepath.Join("testdata", "templates"))
	if err != nil {
		t.Fatalf("NewGoTemplateRenderer: %v", err)
	}

	return NewService(cfg, Dependencies{
		Content:    contentSvc,
		Renderer:   renderer,
		Storage:    storage.NewFilesystem(root, cfg.OutputDir),
		Permalinks: permalinks,
	})
}

func testConfig() Config {
	return Config{
		OutputDir:       "public",
		BaseURL:         "http://example.com",
		Title:           "Example Press",
		Description:     "A test site",
		StaticDir:       filepath.Join("testdata", "static"),
		CopyAssets:      true,
		GenerateSitemap: true,
		GenerateRobots:  true,
		GenerateFeeds:   true,
		Workers:         2,
	}
}

func readOutput(t *testing.T, root string, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

func TestBuild_WritesPagesAndArtifacts(t *testing.T) {
	root := t.TempDir()
	svc := newTestSite(t, root, testConfig())

	result, err := svc.Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// 3 posts + index + 2 tag pages.
	if result.PagesBuilt != 6 {
		t.Fatalf("expected 6 pages built, got %d", result.PagesBuilt)
	}
	if result.Posts != 3 {
		t.Fatalf("expected 3 posts in corpus, got %d", result.Posts)
	}

	post := readOutput(t, root, "posts/hello-world/index.html")
	if !strings.Contains(post, "<h1>Hello World</h1>") {
		t.Fatalf("post page missing title: %q", post)
	}
	if !strings.Contains(post, "lead paragraph") || !strings.Contains(post, "rest of the article") {
		t.Fatalf("post page should contain the full body: %q", post)
	}
	if strings.Contains(post, "<!--more-->") {
		t.Fatalf("excerpt marker leaked into output")
	}

	index := readOutput(t, root, "index.html")
	if !strings.Contains(index, `href="/posts/hello-world/"`) {
		t.Fatalf("index missing post link: %q", index)
	}
	if !strings.Contains(index, "lead paragraph") {
		t.Fatalf("index should show the excerpt: %q", index)
	}
	if strings.Contains(index, "rest of the article") {
		t.Fatalf("index leaked content after the excerpt marker: %q", index)
	}
	// Release Notes comes first: newest date wins.
	if strings.Index(index, "Release Notes") > strings.Index(index, "Hello World") {
		t.Fatalf("expected newest-first ordering: %q", index)
	}

	tagPage := readOutput(t, root, "tags/go/index.html")
	if !strings.Contains(tagPage, "Hello World") || !strings.Contains(tagPage, "Release Notes") {
		t.Fatalf("tag page missing tagged posts: %q", tagPage)
	}

	sitemap := readOutput(t, root, "sitemap.xml")
	if !strings.Contains(sitemap, "<loc>http://example.com/posts/hello-world/</loc>") {
		t.Fatalf("sitemap missing post location: %q", sitemap)
	}

	robots := readOutput(t, root, "robots.txt")
	if !strings.Contains(robots, "Sitemap: http://example.com/sitemap.xml") {
		t.Fatalf("robots missing sitemap reference: %q", robots)
	}

	feed := readOutput(t, root, "feed.xml")
	if !strings.Contains(feed, "<title>Release Notes</title>") {
		t.Fatalf("rss feed missing item: %q", feed)
	}
	if _, err := os.Stat(filepath.Join(root, "feed.atom.xml")); err != nil {
		t.Fatalf("atom feed not written: %v", err)
	}

	css := readOutput(t, root, "css/site.css")
	if !strings.Contains(css, "sans-serif") {
		t.Fatalf("static asset not copied: %q", css)
	}

	if _, err := os.Stat(filepath.Join(root, manifestFileName)); err != nil {
		t.Fatalf("build manifest not written: %v", err)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	ctx := context.Background()
	pages := []string{"index.html", "posts/hello-world/index.html", "tags/go/index.html"}

	rootA := t.TempDir()
	if _, err := newTestSite(t, rootA, testConfig()).Build(ctx, BuildOptions{}); err != nil {
		t.Fatalf("first build: %v", err)
	}
	rootB := t.TempDir()
	if _, err := newTestSite(t, rootB, testConfig()).Build(ctx, BuildOptions{}); err != nil {
		t.Fatalf("second build: %v", err)
	}

	for _, page := range pages {
		a := readOutput(t, rootA, page)
		b := readOutput(t, rootB, page)
		if a != b {
			t.Fatalf("output for %s differs between builds", page)
		}
	}
}

func TestBuild_IncrementalSkipsUnchanged(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	cfg := testConfig()
	cfg.Incremental = true
	svc := newTestSite(t, root, cfg)

	first, err := svc.Build(ctx, BuildOptions{})
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	if first.PagesBuilt != 6 || first.PagesSkipped != 0 {
		t.Fatalf("unexpected first build counts: %+v", first)
	}

	second, err := svc.Build(ctx, BuildOptions{})
	if err != nil {
		t.Fatalf("second build: %v", err)
	}
	if second.PagesBuilt != 0 {
		t.Fatalf("expected all pages skipped, built %d", second.PagesBuilt)
	}
	if second.PagesSkipped != 6 {
		t.Fatalf("expected 6 pages skipped, got %d", second.PagesSkipped)
	}
	if second.AssetsSkipped == 0 {
		t.Fatalf("expected static assets skipped on incremental rebuild")
	}

	forced, err := svc.Build(ctx, BuildOptions{Force: true})
	if err != nil {
		t.Fatalf("forced build: %v", err)
	}
	if forced.PagesBuilt != 6 {
		t.Fatalf("force should rebuild every page, built %d", forced.PagesBuilt)
	}
}

func TestBuild_SectionsFilter(t *testing.T) {
	root := t.TempDir()
	svc := newTestSite(t, root, testConfig())

	result, err := svc.Build(context.Background(), BuildOptions{Sections: []string{"posts"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// 2 posts + index + 2 tag pages; the guides entry stays out.
	if result.PagesBuilt != 5 {
		t.Fatalf("expected 5 pages built, got %d", result.PagesBuilt)
	}
	if _, err := os.Stat(filepath.Join(root, "posts", "setup", "index.html")); !os.IsNotExist(err) {
		t.Fatalf("guides post should not be written, stat err: %v", err)
	}
}

func TestBuild_DryRunWritesNothing(t *testing.T) {
	root := t.TempDir()
	svc := newTestSite(t, root, testConfig())

	result, err := svc.Build(context.Background(), BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.PagesBuilt == 0 {
		t.Fatalf("dry run should still render pages")
	}
	if len(result.Rendered) == 0 || result.Rendered[0].HTML == "" {
		t.Fatalf("dry run should report rendered output")
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("dry run wrote %d entries to disk", len(entries))
	}
}

func TestClean_RemovesOutputTree(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	svc := newTestSite(t, root, testConfig())

	if _, err := svc.Build(ctx, BuildOptions{}); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := svc.Clean(ctx); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "index.html")); !os.IsNotExist(err) {
		t.Fatalf("expected output removed, stat err: %v", err)
	}
}

func TestBuild_CleanBuildRemovesStaleArtifacts(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig()
	cfg.CleanBuild = true
	svc := newTestSite(t, root, cfg)

	stale := filepath.Join(root, "stale.html")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatalf("seed stale file: %v", err)
	}

	if _, err := svc.Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale artifact removed before build")
	}
	readOutput(t, root, "index.html")
}

func TestBuild_RequiresRenderer(t *testing.T) {
	svc := NewService(testConfig(), Dependencies{})
	if _, err := svc.Build(context.Background(), BuildOptions{}); err != ErrRendererRequired {
		t.Fatalf("expected ErrRendererRequired, got %v", err)
	}
}
