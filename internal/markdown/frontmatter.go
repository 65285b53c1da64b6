package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// dateLayouts lists the timestamp formats accepted in a date header, most
// specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseFrontMatter extracts metadata and Markdown body content from the
// provided source bytes. It returns the structured front matter, the Markdown
// body without delimiters, and any error encountered.
//
// Header keys are matched case-insensitively ("Title:" and "title:" are
// equivalent) and dates may be YAML timestamps or plain strings in any of the
// accepted layouts.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	fm, err := envelopeToFrontMatter(meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, err
	}
	return fm, body, nil
}

// BuildDocument assembles an interfaces.Document from the supplied file path,
// section, raw content, and modification time. BodyHTML is intentionally left
// empty so callers can render lazily.
func BuildDocument(path string, section string, source []byte, modified time.Time) (*interfaces.Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		Section:      section,
		FrontMatter:  fm,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title   string         `yaml:"title"`
	Slug    string         `yaml:"slug"`
	Summary string         `yaml:"summary"`
	Tags    []string       `yaml:"tags"`
	Author  string         `yaml:"author"`
	Date    any            `yaml:"date"`
	Draft   bool           `yaml:"draft"`
	Custom  map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) (interfaces.FrontMatter, error) {
	if env.Custom == nil {
		env.Custom = map[string]any{}
	}

	// Authors capitalise header keys inconsistently (Title:, Summary:).
	// YAML matching is case-sensitive, so capitalised variants land in the
	// inline map and are folded back into the typed fields here.
	foldString(env.Custom, "title", &env.Title)
	foldString(env.Custom, "slug", &env.Slug)
	foldString(env.Custom, "summary", &env.Summary)
	foldString(env.Custom, "author", &env.Author)
	foldTags(env.Custom, &env.Tags)
	foldValue(env.Custom, "date", &env.Date)
	foldBool(env.Custom, "draft", &env.Draft)

	date, err := coerceDate(env.Date)
	if err != nil {
		return interfaces.FrontMatter{}, err
	}

	raw := make(map[string]any, len(env.Custom)+8)
	for key, value := range env.Custom {
		raw[key] = value
	}
	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Slug != "" {
		raw["slug"] = env.Slug
	}
	if env.Summary != "" {
		raw["summary"] = env.Summary
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	if env.Author != "" {
		raw["author"] = env.Author
	}
	if !date.IsZero() {
		raw["date"] = date
	}
	raw["draft"] = env.Draft

	return interfaces.FrontMatter{
		Title:   env.Title,
		Slug:    env.Slug,
		Summary: env.Summary,
		Tags:    append([]string(nil), env.Tags...),
		Author:  env.Author,
		Date:    date,
		Draft:   env.Draft,
		Custom:  cloneMap(env.Custom),
		Raw:     raw,
	}, nil
}

func coerceDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return time.Time{}, nil
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("parse frontmatter: unrecognised date %q", trimmed)
	default:
		return time.Time{}, fmt.Errorf("parse frontmatter: unsupported date value %v", value)
	}
}

func foldString(custom map[string]any, key string, dst *string) {
	if *dst != "" {
		return
	}
	if raw, ok := takeFold(custom, key); ok {
		if str, ok := raw.(string); ok {
			*dst = str
		}
	}
}

func foldBool(custom map[string]any, key string, dst *bool) {
	if raw, ok := takeFold(custom, key); ok {
		if b, ok := raw.(bool); ok {
			*dst = b
		}
	}
}

func foldValue(custom map[string]any, key string, dst *any) {
	if *dst != nil {
		return
	}
	if raw, ok := takeFold(custom, key); ok {
		*dst = raw
	}
}

func foldTags(custom map[string]any, dst *[]string) {
	if len(*dst) > 0 {
		return
	}
	raw, ok := takeFold(custom, "tags")
	if !ok {
		return
	}
	switch values := raw.(type) {
	case []string:
		*dst = append([]string(nil), values...)
	case []any:
		tags := make([]string, 0, len(values))
		for _, item := range values {
			if str, ok := item.(string); ok && strings.TrimSpace(str) != "" {
				tags = append(tags, str)
			}
		}
		*dst = tags
	}
}

// takeFold removes and returns a case-insensitive match for key, skipping the
// exact lowercase spelling which the typed envelope already consumed.
func takeFold(custom map[string]any, key string) (any, bool) {
	for existing, value := range custom {
		if existing != key && strings.EqualFold(existing, key) {
			delete(custom, existing)
			return value, true
		}
	}
	return nil, false
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
