// Package parser implements Hugo-style shortcode extraction
// ({{< name param="value" >}} ... {{< /name >}}).
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-press/pkg/interfaces"
)

var (
	startTagPattern = regexp.MustCompile(`{{<\s*([^\s/>]+)([^>]*)>}}`)
	endTagPattern   = regexp.MustCompile(`{{<\s*/\s*([^\s>]+)\s*>}}`)
)

// HugoParser parses Hugo-style shortcodes. It is stateless and safe for
// concurrent use.
type HugoParser struct{}

// NewHugoParser creates a parser instance.
func NewHugoParser() *HugoParser {
	return &HugoParser{}
}

// Parse returns the list of parsed shortcodes in the content.
func (p *HugoParser) Parse(content string) ([]interfaces.ParsedShortcode, error) {
	_, shortcodes, err := p.Extract(content)
	return shortcodes, err
}

// openTag tracks a paired shortcode awaiting its closing tag. start is the
// rune offset into the output buffer where the inner content begins.
type openTag struct {
	name   string
	start  int
	params map[string]any
}

// Extract replaces each shortcode with an HTML comment placeholder and
// returns the transformed content plus the extracted definitions in
// placeholder order. Inner content of paired shortcodes is captured raw so
// the renderer decides how to treat it.
func (p *HugoParser) Extract(content string) (string, []interfaces.ParsedShortcode, error) {
	var (
		out        []rune
		shortcodes []interfaces.ParsedShortcode
		open       []openTag
		pos        int
	)

	emit := func(s string) {
		out = append(out, []rune(s)...)
	}
	placeholder := func() string {
		return fmt.Sprintf("<!-- shortcode:%d -->", len(shortcodes))
	}

	for pos < len(content) {
		rest := content[pos:]
		startLoc := startTagPattern.FindStringIndex(rest)
		endLoc := endTagPattern.FindStringIndex(rest)

		if startLoc == nil && endLoc == nil {
			emit(rest)
			break
		}

		// A start tag wins when it appears before the next end tag.
		if startLoc != nil && (endLoc == nil || startLoc[0] < endLoc[0]) {
			tagAt := pos + startLoc[0]
			emit(content[pos:tagAt])

			matches := startTagPattern.FindStringSubmatch(content[tagAt:])
			if len(matches) < 2 {
				return "", nil, fmt.Errorf("invalid shortcode start tag at position %d", tagAt)
			}
			name := matches[1]
			params := parseParams(strings.TrimSpace(matches[2]))
			pos = tagAt + len(matches[0])

			if !hasClosingTag(content[pos:], name) {
				emit(placeholder())
				shortcodes = append(shortcodes, interfaces.ParsedShortcode{
					Name:   name,
					Params: params,
				})
				continue
			}

			open = append(open, openTag{name: name, start: len(out), params: params})
			continue
		}

		tagAt := pos + endLoc[0]
		emit(content[pos:tagAt])

		matches := endTagPattern.FindStringSubmatch(content[tagAt:])
		if len(matches) < 2 {
			return "", nil, fmt.Errorf("invalid shortcode end tag at position %d", tagAt)
		}
		name := matches[1]
		if len(open) == 0 {
			return "", nil, fmt.Errorf("unexpected closing shortcode %s at position %d", name, tagAt)
		}

		entry := open[len(open)-1]
		open = open[:len(open)-1]
		if entry.name != name {
			return "", nil, fmt.Errorf("mismatched shortcode end tag %s, expected %s", name, entry.name)
		}

		inner := string(out[entry.start:])
		out = out[:entry.start]
		emit(placeholder())

		shortcodes = append(shortcodes, interfaces.ParsedShortcode{
			Name:   name,
			Params: entry.params,
			Inner:  inner,
		})

		pos = tagAt + len(matches[0])
	}

	if len(open) > 0 {
		return "", nil, fmt.Errorf("unterminated shortcode %s", open[len(open)-1].name)
	}

	return string(out), shortcodes, nil
}

func hasClosingTag(content, name string) bool {
	closer := regexp.MustCompile(fmt.Sprintf(`{{<\s*/\s*%s\s*>}}`, regexp.QuoteMeta(name)))
	return closer.FindStringIndex(content) != nil
}

// parseParams turns a raw attribute string into a parameter map. Named
// parameters use key=value syntax; bare values become param1, param2, ...
func parseParams(raw string) map[string]any {
	if raw == "" {
		return map[string]any{}
	}
	parts := splitParams(raw)
	params := make(map[string]any, len(parts))
	positional := 0
	for _, part := range parts {
		if key, value, ok := strings.Cut(part, "="); ok {
			params[strings.TrimSpace(key)] = strings.Trim(value, `"`)
			continue
		}
		positional++
		params[fmt.Sprintf("param%d", positional)] = strings.Trim(part, `"`)
	}
	return params
}

// splitParams splits a raw parameter string on whitespace while keeping
// quoted values intact, so caption="a b" parses as one parameter.
func splitParams(raw string) []string {
	var (
		parts    []string
		current  strings.Builder
		inQuotes bool
	)

	for _, r := range raw {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case !inQuotes && (r == ' ' || r == '\t'):
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
