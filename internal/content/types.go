package content

import (
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// Post is the fully resolved unit of publishable content. Bodies are rendered
// HTML; the raw Markdown stays behind in the source tree.
type Post struct {
	ID           uuid.UUID
	Title        string
	Slug         string
	Summary      string
	Tags         []string
	Author       string
	Section      string
	Date         time.Time
	Draft        bool
	SourcePath   string
	Permalink    string
	BodyHTML     template.HTML
	ExcerptHTML  template.HTML
	HasExcerpt   bool
	LastModified time.Time
	Checksum     []byte
	FrontMatter  interfaces.FrontMatter
}

// Lead returns the text shown for the post on listing pages: the explicit
// summary when present, otherwise the rendered excerpt.
func (p *Post) Lead() template.HTML {
	if strings.TrimSpace(p.Summary) != "" {
		return template.HTML("<p>" + template.HTMLEscapeString(p.Summary) + "</p>")
	}
	return p.ExcerptHTML
}

// Corpus is the complete set of loaded posts with lookup indexes.
type Corpus struct {
	Posts  []*Post
	BySlug map[string]*Post
	ByTag  map[string][]*Post
}

// NewCorpus indexes the supplied posts and orders them newest first. Posts
// sharing a date fall back to slug order so builds stay deterministic.
func NewCorpus(posts []*Post) *Corpus {
	sorted := append([]*Post(nil), posts...)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].Slug < sorted[j].Slug
	})

	bySlug := make(map[string]*Post, len(sorted))
	byTag := make(map[string][]*Post)
	for _, post := range sorted {
		bySlug[post.Slug] = post
		for _, tag := range post.Tags {
			key := strings.ToLower(strings.TrimSpace(tag))
			if key == "" {
				continue
			}
			byTag[key] = append(byTag[key], post)
		}
	}

	return &Corpus{
		Posts:  sorted,
		BySlug: bySlug,
		ByTag:  byTag,
	}
}

// Tags returns the tag names present in the corpus in alphabetical order.
func (c *Corpus) Tags() []string {
	tags := make([]string, 0, len(c.ByTag))
	for tag := range c.ByTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Lookup returns the post registered under slug.
func (c *Corpus) Lookup(slug string) (*Post, bool) {
	post, ok := c.BySlug[strings.ToLower(strings.TrimSpace(slug))]
	return post, ok
}
