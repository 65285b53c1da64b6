package content

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-press/internal/identity"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/internal/markdown"
	"github.com/goliatone/go-press/internal/shortcode"
	"github.com/goliatone/go-press/internal/validation"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// Config controls corpus loading behaviour.
type Config struct {
	// IncludeDrafts keeps documents marked draft: true in the corpus.
	IncludeDrafts bool
	// StrictFences turns fence lint findings into build errors instead of warnings.
	StrictFences bool
	// DefaultSection is applied to documents without a section directory.
	DefaultSection string
	// Schemas maps section names to JSON schemas validated against each
	// document's custom front matter fields.
	Schemas map[string]map[string]any
	// Parser carries the Markdown render options used for bodies and excerpts.
	Parser interfaces.ParseOptions
}

// Service loads Markdown documents, validates their metadata, and produces a
// fully rendered corpus of posts.
type Service struct {
	cfg        Config
	markdown   interfaces.MarkdownService
	shortcodes *shortcode.Service
	permalink  func(slug string) (string, error)
	logger     interfaces.Logger
}

// Option customises service construction.
type Option func(*Service)

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPermalink supplies the function mapping a slug to its published URL.
// Cross-reference shortcodes resolve through it.
func WithPermalink(fn func(slug string) (string, error)) Option {
	return func(s *Service) {
		if fn != nil {
			s.permalink = fn
		}
	}
}

// NewService constructs a content service over the supplied Markdown and
// shortcode services.
func NewService(cfg Config, md interfaces.MarkdownService, shortcodes *shortcode.Service, opts ...Option) *Service {
	svc := &Service{
		cfg:        cfg,
		markdown:   md,
		shortcodes: shortcodes,
		permalink: func(slug string) (string, error) {
			return "/posts/" + slug + "/", nil
		},
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// LoadCorpus loads every document under the content root, validates metadata,
// and renders bodies and excerpts to HTML. Validation runs across the whole
// tree before any rendering so a single pass reports every broken document,
// each error naming its source file.
func (s *Service) LoadCorpus(ctx context.Context) (*Corpus, error) {
	docs, err := s.markdown.LoadDirectory(ctx, ".", interfaces.LoadOptions{})
	if err != nil {
		return nil, err
	}

	posts := make([]*Post, 0, len(docs))
	var problems []error

	seen := map[string]string{}
	for _, doc := range docs {
		post, err := s.buildPost(doc)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		if post == nil {
			continue
		}

		if other, dup := seen[post.Slug]; dup {
			problems = append(problems, &DuplicateSlugError{
				Slug:  post.Slug,
				Path:  doc.FilePath,
				Other: other,
			})
			continue
		}
		seen[post.Slug] = doc.FilePath

		posts = append(posts, post)
	}

	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}

	corpus := NewCorpus(posts)

	// Permalinks are assigned before rendering so ref shortcodes can link to
	// any post in the corpus, including ones later in the tree.
	for _, post := range corpus.Posts {
		href, err := s.permalink(post.Slug)
		if err != nil {
			problems = append(problems, NewDocumentError(post.SourcePath, err))
			continue
		}
		post.Permalink = href
	}
	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}

	for _, post := range corpus.Posts {
		if err := s.renderPost(ctx, corpus, post); err != nil {
			problems = append(problems, err)
		}
	}
	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}

	logging.WithFields(s.logger, map[string]any{
		"posts": len(corpus.Posts),
		"tags":  len(corpus.ByTag),
	}).Info("content.corpus_loaded")

	return corpus, nil
}

// buildPost validates a document's metadata and returns the unrendered post.
// Skipped drafts return (nil, nil).
func (s *Service) buildPost(doc *interfaces.Document) (*Post, error) {
	fm := doc.FrontMatter

	if strings.TrimSpace(fm.Title) == "" {
		return nil, NewDocumentError(doc.FilePath, ErrTitleRequired)
	}
	if fm.Date.IsZero() {
		return nil, NewDocumentError(doc.FilePath, ErrDateRequired)
	}

	if fm.Draft && !s.cfg.IncludeDrafts {
		logging.WithFields(s.logger, map[string]any{
			"path": doc.FilePath,
		}).Debug("content.draft_skipped")
		return nil, nil
	}

	postSlug, err := s.resolveSlug(doc)
	if err != nil {
		return nil, err
	}

	if issues := markdown.LintFences(doc.Body); len(issues) > 0 {
		if s.cfg.StrictFences {
			return nil, NewDocumentError(doc.FilePath, fmt.Errorf("%w: %v", ErrFenceLint, issues))
		}
		for _, issue := range issues {
			logging.WithFields(s.logger, map[string]any{
				"path":  doc.FilePath,
				"issue": issue.String(),
			}).Warn("content.fence_lint")
		}
	}

	if schema, ok := s.cfg.Schemas[doc.Section]; ok {
		if err := validation.ValidatePayload(schema, fm.Custom); err != nil {
			return nil, NewDocumentError(doc.FilePath, err)
		}
	}

	section := doc.Section
	if section == "" {
		section = s.cfg.DefaultSection
	}

	return &Post{
		ID:           identity.PostUUID(postSlug),
		Title:        fm.Title,
		Slug:         postSlug,
		Summary:      fm.Summary,
		Tags:         append([]string(nil), fm.Tags...),
		Author:       fm.Author,
		Section:      section,
		Date:         fm.Date,
		Draft:        fm.Draft,
		SourcePath:   doc.FilePath,
		LastModified: doc.LastModified,
		Checksum:     doc.Checksum,
		FrontMatter:  fm,
		// BodyHTML and ExcerptHTML are filled by renderPost once the whole
		// corpus is known.
	}, nil
}

func (s *Service) resolveSlug(doc *interfaces.Document) (string, error) {
	candidate := strings.TrimSpace(doc.FrontMatter.Slug)
	if candidate == "" {
		base := filepath.Base(doc.FilePath)
		candidate = strings.TrimSuffix(base, filepath.Ext(base))
	}

	normalized, err := slug.Normalize(candidate)
	if err != nil {
		return "", NewDocumentError(doc.FilePath, fmt.Errorf("%w: %q: %v", ErrSlugInvalid, candidate, err))
	}
	if normalized == "" || !slug.IsValid(normalized) {
		return "", NewDocumentError(doc.FilePath, fmt.Errorf("%w: %q", ErrSlugInvalid, candidate))
	}
	return normalized, nil
}

// renderPost converts the post's Markdown body and excerpt to HTML. Shortcode
// extraction runs before the Markdown pass so invocation syntax is never
// visible to the renderer; substitution runs after, with cross-references
// resolved against the corpus.
func (s *Service) renderPost(ctx context.Context, corpus *Corpus, post *Post) error {
	doc, err := s.markdown.Load(ctx, post.SourcePath, interfaces.LoadOptions{})
	if err != nil {
		return NewDocumentError(post.SourcePath, err)
	}

	sctx := interfaces.ShortcodeContext{
		Context:    ctx,
		Document:   post.SourcePath,
		ResolveRef: s.refResolver(corpus),
	}

	excerpt, full, hasExcerpt := markdown.SplitExcerpt(doc.Body)

	bodyHTML, err := s.renderFragment(ctx, sctx, full)
	if err != nil {
		return NewDocumentError(post.SourcePath, err)
	}
	post.BodyHTML = bodyHTML
	post.HasExcerpt = hasExcerpt

	if hasExcerpt {
		excerptHTML, err := s.renderFragment(ctx, sctx, excerpt)
		if err != nil {
			return NewDocumentError(post.SourcePath, err)
		}
		post.ExcerptHTML = excerptHTML
	}

	return nil
}

func (s *Service) renderFragment(ctx context.Context, sctx interfaces.ShortcodeContext, source []byte) (template.HTML, error) {
	placeheld, parsed, err := s.shortcodes.Extract(string(source))
	if err != nil {
		return "", err
	}

	rendered, err := s.markdown.Render(ctx, []byte(placeheld), s.cfg.Parser)
	if err != nil {
		return "", err
	}

	final, err := s.shortcodes.Substitute(sctx, string(rendered), parsed)
	if err != nil {
		return "", err
	}
	return template.HTML(final), nil
}

// refResolver maps slugs to permalinks for ref shortcodes. Unknown slugs fail
// so dangling cross-references break the build instead of the reader.
func (s *Service) refResolver(corpus *Corpus) func(string) (string, error) {
	return func(target string) (string, error) {
		post, ok := corpus.Lookup(target)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownRef, target)
		}
		return post.Permalink, nil
	}
}
