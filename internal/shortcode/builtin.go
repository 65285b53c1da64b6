package shortcode

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// BuiltInDefinitions returns the core shortcode catalogue shipped with
// go-press.
func BuiltInDefinitions() []interfaces.ShortcodeDefinition {
	return []interfaces.ShortcodeDefinition{
		figureDefinition(),
		youTubeDefinition(),
		refDefinition(),
	}
}

func figureDefinition() interfaces.ShortcodeDefinition {
	return interfaces.ShortcodeDefinition{
		Name:        "figure",
		Description: "Image figure with caption support",
		AllowInner:  false,
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{
				{
					Name:     "src",
					Type:     interfaces.ShortcodeParamString,
					Required: true,
				},
				{
					Name:    "alt",
					Type:    interfaces.ShortcodeParamString,
					Default: "",
				},
				{
					Name: "caption",
					Type: interfaces.ShortcodeParamString,
				},
			},
		},
		Template: `<figure class="post-figure">
  <img src="{{ .src }}" alt="{{ .alt }}" loading="lazy" />
  {{ if .caption }}<figcaption>{{ .caption }}</figcaption>{{ end }}
</figure>`,
	}
}

func youTubeDefinition() interfaces.ShortcodeDefinition {
	return interfaces.ShortcodeDefinition{
		Name:        "youtube",
		Description: "Embeds a responsive YouTube iframe player",
		AllowInner:  false,
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{
				{
					Name:     "id",
					Type:     interfaces.ShortcodeParamString,
					Required: true,
				},
				{
					Name:    "start",
					Type:    interfaces.ShortcodeParamInt,
					Default: 0,
				},
			},
		},
		Template: `<div class="post-embed post-embed--youtube">
  <iframe src="https://www.youtube.com/embed/{{ .id }}{{ if gt .start 0 }}?start={{ .start }}{{ end }}" title="YouTube video" loading="lazy" allowfullscreen></iframe>
</div>`,
	}
}

// refDefinition links to another document by slug. Resolution happens through
// the context so unknown slugs surface as build errors instead of dangling
// anchors in published pages.
func refDefinition() interfaces.ShortcodeDefinition {
	return interfaces.ShortcodeDefinition{
		Name:        "ref",
		Description: "Cross-reference link to another document by slug",
		AllowInner:  true,
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{
				{
					Name:     "slug",
					Type:     interfaces.ShortcodeParamString,
					Required: true,
				},
				{
					Name: "title",
					Type: interfaces.ShortcodeParamString,
				},
			},
		},
		Handler: func(ctx interfaces.ShortcodeContext, params map[string]any, inner string) (template.HTML, error) {
			slug, _ := params["slug"].(string)
			slug = strings.TrimSpace(slug)
			if slug == "" {
				return "", fmt.Errorf("%w: slug", ErrMissingParameter)
			}

			if ctx.ResolveRef == nil {
				return "", fmt.Errorf("%w: %s (no resolver configured)", ErrUnresolvedRef, slug)
			}

			href, err := ctx.ResolveRef(slug)
			if err != nil {
				return "", fmt.Errorf("%w: %s: %w", ErrUnresolvedRef, slug, err)
			}

			text := strings.TrimSpace(inner)
			if text == "" {
				if title, _ := params["title"].(string); strings.TrimSpace(title) != "" {
					text = title
				} else {
					text = slug
				}
			}

			return template.HTML(fmt.Sprintf(
				`<a href="%s">%s</a>`,
				template.HTMLEscapeString(href),
				template.HTMLEscapeString(text),
			)), nil
		},
	}
}
