package shortcode

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// Renderer executes shortcode definitions and produces sanitised HTML output.
type Renderer struct {
	registry  interfaces.ShortcodeRegistry
	validator *Validator
	sanitizer interfaces.ShortcodeSanitizer
}

// RendererOption configures the renderer instance.
type RendererOption func(*Renderer)

// WithRendererSanitizer overrides the default sanitizer.
func WithRendererSanitizer(s interfaces.ShortcodeSanitizer) RendererOption {
	return func(r *Renderer) {
		r.sanitizer = s
	}
}

// NewRenderer constructs a renderer using the provided registry and validator.
func NewRenderer(registry interfaces.ShortcodeRegistry, validator *Validator, opts ...RendererOption) *Renderer {
	r := &Renderer{
		registry:  registry,
		validator: validator,
		sanitizer: NewSanitizer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render looks the shortcode up, coerces its parameters, executes the handler
// or template, and sanitises the result.
func (r *Renderer) Render(ctx interfaces.ShortcodeContext, shortcode string, params map[string]any, inner string) (template.HTML, error) {
	def, ok := r.registry.Get(shortcode)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownShortcode, shortcode)
	}

	coerced, err := r.validator.CoerceParams(def, params)
	if err != nil {
		return "", err
	}

	raw, err := r.execute(ctx, def, coerced, inner)
	if err != nil {
		return "", err
	}

	sanitizer := r.sanitizer
	if ctx.Sanitizer != nil {
		sanitizer = ctx.Sanitizer
	}
	if sanitizer != nil {
		if raw, err = sanitizer.Sanitize(raw); err != nil {
			return "", err
		}
	}
	return template.HTML(raw), nil
}

func (r *Renderer) execute(ctx interfaces.ShortcodeContext, def interfaces.ShortcodeDefinition, params map[string]any, inner string) (string, error) {
	if def.Handler != nil {
		result, err := def.Handler(ctx, params, inner)
		return string(result), err
	}
	if def.Template == "" {
		return "", fmt.Errorf("shortcode: definition %s has no handler or template", def.Name)
	}

	tmpl, err := template.New(def.Name).Parse(def.Template)
	if err != nil {
		return "", err
	}

	data := make(map[string]any, len(params)+1)
	for key, value := range params {
		data[key] = value
	}
	data["Inner"] = inner

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var _ interfaces.ShortcodeRenderer = (*Renderer)(nil)
