package site

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-press/internal/content"
	"github.com/goliatone/go-press/internal/themes"
	slug "github.com/goliatone/go-slug"
)

var errContentServiceRequired = errors.New("site: content service is required")

// PageKind identifies which template an output page renders with.
type PageKind string

const (
	// KindPost is a single post page.
	KindPost PageKind = "post"
	// KindIndex is the front page listing all posts.
	KindIndex PageKind = "index"
	// KindTag is a listing page for one tag.
	KindTag PageKind = "tag"
)

// BuildContext aggregates the resolved data required to execute a build.
type BuildContext struct {
	GeneratedAt time.Time
	Corpus      *content.Corpus
	Pages       []*PageData
	Options     BuildOptions
}

// PageData describes one output page awaiting rendering.
type PageData struct {
	Kind     PageKind
	Name     string
	Title    string
	Route    string
	Template string
	Post     *content.Post
	Posts    []*content.Post
	Tag      string
	Metadata DependencyMetadata
}

// DependencyMetadata tracks hashes and timestamps for incremental builds.
type DependencyMetadata struct {
	Sources      map[string]string
	Hash         string
	LastModified time.Time
}

func (s *service) loadContext(ctx context.Context, opts BuildOptions) (*BuildContext, error) {
	if s.deps.Content == nil {
		return nil, errContentServiceRequired
	}

	corpus, err := s.deps.Content.LoadCorpus(ctx)
	if err != nil {
		return nil, err
	}

	posts := filterSections(corpus.Posts, opts.Sections)
	themeCtx := s.themeContext()
	themeStamp := themeCtx.Name + "|" + themeCtx.Variant

	pages := make([]*PageData, 0, len(posts)+len(corpus.ByTag)+1)
	for _, post := range posts {
		template := themeCtx.Template(string(KindPost), "post.html")
		pages = append(pages, &PageData{
			Kind:     KindPost,
			Name:     post.Slug,
			Title:    post.Title,
			Route:    post.Permalink,
			Template: template,
			Post:     post,
			Metadata: postMetadata(post, template, themeStamp),
		})
	}

	indexTemplate := themeCtx.Template(string(KindIndex), "index.html")
	pages = append(pages, &PageData{
		Kind:     KindIndex,
		Name:     "index",
		Title:    s.cfg.Title,
		Route:    "/",
		Template: indexTemplate,
		Posts:    posts,
		Metadata: listMetadata("index", posts, indexTemplate, themeStamp),
	})

	tagTemplate := themeCtx.Template(string(KindTag), "tag.html")
	for _, tag := range corpus.Tags() {
		tagged := filterSections(corpus.ByTag[tag], opts.Sections)
		if len(tagged) == 0 {
			continue
		}
		tagSlug, err := slug.Normalize(tag)
		if err != nil {
			return nil, fmt.Errorf("site: tag %q: %w", tag, err)
		}
		route, err := s.deps.Permalinks.Tag(tagSlug)
		if err != nil {
			return nil, err
		}
		pages = append(pages, &PageData{
			Kind:     KindTag,
			Name:     tagSlug,
			Title:    tag,
			Route:    route,
			Template: tagTemplate,
			Posts:    tagged,
			Tag:      tag,
			Metadata: listMetadata("tag:"+tagSlug, tagged, tagTemplate, themeStamp),
		})
	}

	return &BuildContext{
		GeneratedAt: s.now(),
		Corpus:      corpus,
		Pages:       pages,
		Options:     opts,
	}, nil
}

func filterSections(posts []*content.Post, sections []string) []*content.Post {
	if len(sections) == 0 {
		return posts
	}
	allowed := make(map[string]struct{}, len(sections))
	for _, section := range sections {
		key := strings.ToLower(strings.TrimSpace(section))
		if key != "" {
			allowed[key] = struct{}{}
		}
	}
	filtered := make([]*content.Post, 0, len(posts))
	for _, post := range posts {
		if _, ok := allowed[strings.ToLower(post.Section)]; ok {
			filtered = append(filtered, post)
		}
	}
	return filtered
}

func postMetadata(post *content.Post, template, themeStamp string) DependencyMetadata {
	sources := map[string]string{
		"post": joinParts(
			post.Slug,
			post.Title,
			hex.EncodeToString(post.Checksum),
			post.LastModified.UTC().Format(time.RFC3339Nano),
		),
		"template": template,
		"theme":    themeStamp,
	}
	return DependencyMetadata{
		Sources:      sources,
		Hash:         hashSources(sources),
		LastModified: post.LastModified,
	}
}

func listMetadata(name string, posts []*content.Post, template, themeStamp string) DependencyMetadata {
	entries := make([]string, 0, len(posts))
	var lastModified time.Time
	for _, post := range posts {
		entries = append(entries, joinParts(post.Slug, hex.EncodeToString(post.Checksum)))
		if post.LastModified.After(lastModified) {
			lastModified = post.LastModified
		}
	}
	sources := map[string]string{
		"list":     joinParts(name, hashStrings(entries)),
		"template": template,
		"theme":    themeStamp,
	}
	return DependencyMetadata{
		Sources:      sources,
		Hash:         hashSources(sources),
		LastModified: lastModified,
	}
}

func (s *service) themeContext() themes.Context {
	if s.themeCtx != nil {
		return *s.themeCtx
	}
	built := themes.BuildContext(s.selection(), s.cfg.Theming)
	s.themeCtx = &built
	return built
}

func joinParts(parts ...string) string {
	return strings.Join(parts, "|")
}

func hashStrings(values []string) string {
	if len(values) == 0 {
		return ""
	}
	hasher := sha256.New()
	for _, value := range values {
		hasher.Write([]byte(value))
		hasher.Write([]byte{0})
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

func hashSources(sources map[string]string) string {
	if len(sources) == 0 {
		return ""
	}
	keys := make([]string, 0, len(sources))
	for key := range sources {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	hasher := sha256.New()
	for _, key := range keys {
		hasher.Write([]byte(key))
		hasher.Write([]byte("="))
		hasher.Write([]byte(sources[key]))
		hasher.Write([]byte{0})
	}
	return hex.EncodeToString(hasher.Sum(nil))
}
