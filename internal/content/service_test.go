package content

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	markdownpkg "github.com/goliatone/go-press/internal/markdown"
	"github.com/goliatone/go-press/internal/shortcode"
)

func newTestService(t *testing.T, dir string, cfg Config) *Service {
	t.Helper()

	md, err := markdownpkg.NewService(markdownpkg.Config{
		BasePath:       filepath.Join("testdata", dir),
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

	return NewService(cfg, md, sc)
}

func TestLoadCorpus_ExcerptScenario(t *testing.T) {
	svc := newTestService(t, "blog", Config{})

	corpus, err := svc.LoadCorpus(context.Background())
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}

	post, ok := corpus.Lookup("hello-world")
	if !ok {
		t.Fatalf("expected hello-world in corpus")
	}

	if !post.HasExcerpt {
		t.Fatalf("expected excerpt marker to be detected")
	}

	excerpt := string(post.ExcerptHTML)
	body := string(post.BodyHTML)

	if !strings.Contains(excerpt, "lead paragraph") {
		t.Fatalf("excerpt missing lead text: %q", excerpt)
	}
	if strings.Contains(excerpt, "rest of the article") {
		t.Fatalf("excerpt leaked content after the marker: %q", excerpt)
	}

	if !strings.Contains(body, "lead paragraph") || !strings.Contains(body, "rest of the article") {
		t.Fatalf("post body should contain both halves: %q", body)
	}

	for _, html := range []string{excerpt, body} {
		if strings.Contains(html, markdownpkg.ExcerptMarker) {
			t.Fatalf("marker must never reach rendered output: %q", html)
		}
	}
}

func TestLoadCorpus_ShortcodesRendered(t *testing.T) {
	svc := newTestService(t, "blog", Config{})

	corpus, err := svc.LoadCorpus(context.Background())
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}

	post, _ := corpus.Lookup("hello-world")
	body := string(post.BodyHTML)

	if !strings.Contains(body, `<img src="/images/cover.png"`) {
		t.Fatalf("expected figure shortcode rendered: %q", body)
	}
	if !strings.Contains(body, `<a href="/posts/release-notes/">the release notes</a>`) {
		t.Fatalf("expected ref shortcode resolved: %q", body)
	}
	if strings.Contains(body, "{{<") {
		t.Fatalf("shortcode syntax leaked into output: %q", body)
	}
}

func TestLoadCorpus_OrderingAndTags(t *testing.T) {
	svc := newTestService(t, "blog", Config{})

	corpus, err := svc.LoadCorpus(context.Background())
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}

	if len(corpus.Posts) != 2 {
		t.Fatalf("expected 2 posts (draft skipped), got %d", len(corpus.Posts))
	}
	if corpus.Posts[0].Slug != "release-notes" {
		t.Fatalf("expected newest post first, got %s", corpus.Posts[0].Slug)
	}

	if got := len(corpus.ByTag["intro"]); got != 2 {
		t.Fatalf("expected 2 posts tagged intro, got %d", got)
	}
	if tags := corpus.Tags(); len(tags) != 2 || tags[0] != "intro" {
		t.Fatalf("unexpected tag list %v", tags)
	}
}

func TestLoadCorpus_IncludeDrafts(t *testing.T) {
	svc := newTestService(t, "blog", Config{IncludeDrafts: true})

	corpus, err := svc.LoadCorpus(context.Background())
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	if _, ok := corpus.Lookup("wip"); !ok {
		t.Fatalf("expected draft included")
	}
}

func TestLoadCorpus_MissingDateNamesFile(t *testing.T) {
	svc := newTestService(t, "missing_date", Config{})

	_, err := svc.LoadCorpus(context.Background())
	if err == nil {
		t.Fatalf("expected failure for missing date")
	}
	if !errors.Is(err, ErrDateRequired) {
		t.Fatalf("expected ErrDateRequired, got %v", err)
	}

	var docErr *DocumentError
	if !errors.As(err, &docErr) {
		t.Fatalf("expected DocumentError, got %T", err)
	}
	if !strings.Contains(docErr.Path, "no-date.md") {
		t.Fatalf("error should name the offending file, got %q", docErr.Path)
	}
}

func TestLoadCorpus_MissingTitle(t *testing.T) {
	svc := newTestService(t, "missing_title", Config{})

	_, err := svc.LoadCorpus(context.Background())
	if !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if !strings.Contains(err.Error(), "no-title.md") {
		t.Fatalf("error should name the file: %v", err)
	}
}

func TestLoadCorpus_DanglingRefFailsBuild(t *testing.T) {
	svc := newTestService(t, "dangling", Config{})

	_, err := svc.LoadCorpus(context.Background())
	if !errors.Is(err, ErrUnknownRef) {
		t.Fatalf("expected ErrUnknownRef, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad-ref.md") {
		t.Fatalf("error should name the referring file: %v", err)
	}
}

func TestLoadCorpus_DuplicateSlug(t *testing.T) {
	svc := newTestService(t, "duplicate", Config{})

	_, err := svc.LoadCorpus(context.Background())
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Fatalf("expected ErrDuplicateSlug, got %v", err)
	}

	var dup *DuplicateSlugError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateSlugError, got %T", err)
	}
	if dup.Slug != "shared-slug" {
		t.Fatalf("unexpected slug %q", dup.Slug)
	}
}

func TestLoadCorpus_StrictFences(t *testing.T) {
	svc := newTestService(t, "badfence", Config{StrictFences: true})

	_, err := svc.LoadCorpus(context.Background())
	if !errors.Is(err, ErrFenceLint) {
		t.Fatalf("expected ErrFenceLint, got %v", err)
	}

	// Lenient mode downgrades the finding to a warning.
	svc = newTestService(t, "badfence", Config{})
	if _, err := svc.LoadCorpus(context.Background()); err != nil {
		t.Fatalf("expected lenient load to succeed, got %v", err)
	}
}

func TestLoadCorpus_SectionSchema(t *testing.T) {
	schema := map[string]any{
		"$schema":  "https://json-schema.org/draft/2020-12/schema",
		"type":     "object",
		"required": []any{"category"},
		"properties": map[string]any{
			"category": map[string]any{"type": "string"},
		},
	}

	svc := newTestService(t, "blog", Config{
		Schemas: map[string]map[string]any{"posts": schema},
	})

	if _, err := svc.LoadCorpus(context.Background()); err == nil {
		t.Fatalf("expected schema validation failure for posts without category")
	}
}

func TestLoadCorpus_Deterministic(t *testing.T) {
	svc := newTestService(t, "blog", Config{})

	first, err := svc.LoadCorpus(context.Background())
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	second, err := svc.LoadCorpus(context.Background())
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}

	if len(first.Posts) != len(second.Posts) {
		t.Fatalf("post counts differ between runs")
	}
	for i := range first.Posts {
		a, b := first.Posts[i], second.Posts[i]
		if a.Slug != b.Slug || a.BodyHTML != b.BodyHTML || a.ExcerptHTML != b.ExcerptHTML {
			t.Fatalf("post %d differs between identical runs", i)
		}
		if a.ID != b.ID {
			t.Fatalf("post identity must be deterministic")
		}
	}
}
