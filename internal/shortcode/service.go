package shortcode

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/goliatone/go-press/internal/logging"
	parserpkg "github.com/goliatone/go-press/internal/shortcode/parser"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// placeholderFormat is the marker emitted by the parser when extracting
// shortcodes. HTML comments pass through the Markdown renderer untouched,
// which lets extraction run before HTML conversion and substitution after.
const placeholderFormat = "<!-- shortcode:%d -->"

// Service orchestrates shortcode parsing and rendering for arbitrary content.
type Service struct {
	registry         interfaces.ShortcodeRegistry
	renderer         interfaces.ShortcodeRenderer
	parser           interfaces.ShortcodeParser
	defaultSanitizer interfaces.ShortcodeSanitizer
	logger           interfaces.Logger
}

// ServiceOption customises service behaviour.
type ServiceOption func(*Service)

// WithDefaultSanitizer overrides the fallback sanitizer used when none is
// supplied at call time.
func WithDefaultSanitizer(sanitizer interfaces.ShortcodeSanitizer) ServiceOption {
	return func(s *Service) {
		if sanitizer != nil {
			s.defaultSanitizer = sanitizer
		}
	}
}

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithParser overrides the Hugo-style parser used to extract shortcodes.
func WithParser(parser interfaces.ShortcodeParser) ServiceOption {
	return func(s *Service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// NewService constructs a shortcode service using the supplied registry and
// renderer.
func NewService(registry interfaces.ShortcodeRegistry, renderer interfaces.ShortcodeRenderer, opts ...ServiceOption) *Service {
	service := &Service{
		registry:         registry,
		renderer:         renderer,
		parser:           parserpkg.NewHugoParser(),
		defaultSanitizer: NewSanitizer(),
		logger:           logging.NoOp(),
	}

	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Extract replaces shortcode invocations in content with numbered placeholder
// comments and returns the parsed invocations. Callers run the Markdown
// renderer over the placeheld content and then call Substitute.
func (s *Service) Extract(content string) (string, []interfaces.ParsedShortcode, error) {
	if s.parser == nil {
		return "", nil, fmt.Errorf("shortcode: service not initialised")
	}
	return s.parser.Extract(content)
}

// Substitute renders each parsed shortcode and splices the HTML into the
// placeholder positions left by Extract.
func (s *Service) Substitute(ctx interfaces.ShortcodeContext, content string, parsed []interfaces.ParsedShortcode) (string, error) {
	if len(parsed) == 0 {
		return content, nil
	}
	if s.renderer == nil {
		return "", fmt.Errorf("shortcode: service not initialised")
	}

	ctx = s.fillContext(ctx)
	logger := logging.WithFields(s.baseLogger(ctx.Context), map[string]any{
		"operation": "shortcode.substitute",
		"document":  ctx.Document,
	})

	output := content
	for idx, sc := range parsed {
		rendered, err := s.renderer.Render(ctx, sc.Name, sc.Params, sc.Inner)
		if err != nil {
			logging.WithFields(logger, map[string]any{
				"shortcode": sc.Name,
				"index":     idx,
				"error":     err,
			}).Error("shortcode.service.render_failed")
			return "", err
		}

		placeholder := fmt.Sprintf(placeholderFormat, idx)
		output = strings.ReplaceAll(output, placeholder, string(rendered))
	}

	logging.WithFields(logger, map[string]any{
		"shortcodes": len(parsed),
	}).Debug("shortcode.service.substitute_completed")
	return output, nil
}

// Process renders any shortcodes found within the content string in a single
// pass, returning the resulting HTML.
func (s *Service) Process(ctx context.Context, content string, sctx interfaces.ShortcodeContext) (string, error) {
	if strings.TrimSpace(content) == "" {
		return content, nil
	}

	transformed, parsed, err := s.Extract(content)
	if err != nil {
		logging.WithFields(s.baseLogger(ctx), map[string]any{
			"operation": "shortcode.process",
			"error":     err,
		}).Error("shortcode.service.parse_failed")
		return "", err
	}

	if sctx.Context == nil {
		sctx.Context = ctx
	}
	return s.Substitute(sctx, transformed, parsed)
}

// Render executes a single shortcode definition and returns the HTML output.
func (s *Service) Render(ctx interfaces.ShortcodeContext, shortcode string, params map[string]any, inner string) (template.HTML, error) {
	if s.renderer == nil {
		return "", fmt.Errorf("shortcode: service not initialised")
	}
	return s.renderer.Render(s.fillContext(ctx), shortcode, params, inner)
}

// Registry exposes the underlying shortcode registry.
func (s *Service) Registry() interfaces.ShortcodeRegistry {
	return s.registry
}

func (s *Service) fillContext(ctx interfaces.ShortcodeContext) interfaces.ShortcodeContext {
	if ctx.Context == nil {
		ctx.Context = context.Background()
	}
	if ctx.Sanitizer == nil {
		ctx.Sanitizer = s.defaultSanitizer
	}
	return ctx
}

func (s *Service) baseLogger(ctx context.Context) interfaces.Logger {
	logger := s.logger
	if logger == nil {
		logger = logging.NoOp()
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	return logger
}
