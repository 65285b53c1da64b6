package site

import (
	"strings"
	"testing"
	"time"
)

func TestBuildSitemap(t *testing.T) {
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	pages := []RenderedPage{
		{Route: "/posts/zebra/", Metadata: DependencyMetadata{LastModified: now}},
		{Route: "/posts/apple/"},
		{Route: "/posts/apple/"},
		{Route: ""},
	}

	sitemap := buildSitemap("http://example.com/", pages, now)

	if strings.Count(sitemap, "<loc>http://example.com/posts/apple/</loc>") != 1 {
		t.Fatalf("duplicate routes must collapse: %q", sitemap)
	}
	if !strings.Contains(sitemap, "<loc>http://example.com/</loc>") {
		t.Fatalf("empty route should map to the site root: %q", sitemap)
	}
	apple := strings.Index(sitemap, "posts/apple")
	zebra := strings.Index(sitemap, "posts/zebra")
	if apple == -1 || zebra == -1 || apple > zebra {
		t.Fatalf("entries should be sorted by location: %q", sitemap)
	}
	if !strings.Contains(sitemap, "<lastmod>2024-04-01T12:00:00Z</lastmod>") {
		t.Fatalf("missing lastmod: %q", sitemap)
	}
}

func TestBuildRobots(t *testing.T) {
	robots := buildRobots("http://example.com", true)
	if !strings.Contains(robots, "User-agent: *") {
		t.Fatalf("missing user-agent: %q", robots)
	}
	if !strings.Contains(robots, "Sitemap: http://example.com/sitemap.xml") {
		t.Fatalf("missing sitemap line: %q", robots)
	}

	robots = buildRobots("", false)
	if strings.Contains(robots, "Sitemap:") {
		t.Fatalf("sitemap line should be omitted: %q", robots)
	}
}

func TestMergeRenderedForSitemap(t *testing.T) {
	manifest := newBuildManifest()
	manifest.setPage(manifestPage{
		Kind:   string(KindPost),
		Name:   "cached",
		Route:  "/posts/cached/",
		Output: "public/posts/cached/index.html",
		Hash:   "h1",
	})

	buildCtx := &BuildContext{
		Pages: []*PageData{
			{Kind: KindPost, Name: "fresh", Route: "/posts/fresh/"},
			{Kind: KindPost, Name: "cached", Route: "/posts/cached/"},
		},
	}
	rendered := []RenderedPage{
		{Kind: KindPost, Name: "fresh", Route: "/posts/fresh/"},
	}

	merged := mergeRenderedForSitemap(buildCtx, rendered, manifest)
	if len(merged) != 2 {
		t.Fatalf("expected 2 sitemap entries, got %d", len(merged))
	}
	routes := map[string]bool{}
	for _, page := range merged {
		routes[page.Route] = true
	}
	if !routes["/posts/fresh/"] || !routes["/posts/cached/"] {
		t.Fatalf("skipped pages must still appear in the sitemap: %v", routes)
	}
}
