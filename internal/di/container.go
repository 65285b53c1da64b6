// Package di wires the press services together. The container owns
// construction order and lets hosts override individual collaborators
// (storage, renderer, logger) without reimplementing the assembly.
package di

import (
	"fmt"
	"path/filepath"

	"github.com/goliatone/go-press/internal/adapters/storage"
	"github.com/goliatone/go-press/internal/buildlog"
	"github.com/goliatone/go-press/internal/content"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/internal/logging/gologger"
	"github.com/goliatone/go-press/internal/markdown"
	"github.com/goliatone/go-press/internal/runtimeconfig"
	"github.com/goliatone/go-press/internal/shortcode"
	"github.com/goliatone/go-press/internal/site"
	"github.com/goliatone/go-press/internal/themes"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// Container holds every constructed service for one press instance.
type Container struct {
	cfg runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	storageName    string
	storage        interfaces.StorageProvider
	renderer       interfaces.TemplateRenderer
	themeLoader    themes.ManifestLoader
	buildLogStore  *buildlog.Store

	markdownService  *markdown.Service
	shortcodeService *shortcode.Service
	contentService   *content.Service
	themeSelector    *themes.Selector
	permalinks       *site.Permalinks
	siteService      site.Service
}

// Option overrides one collaborator before the container assembles services.
type Option func(*Container)

// WithLoggerProvider replaces the default go-logger backed provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithStorage replaces the filesystem artifact store.
func WithStorage(provider interfaces.StorageProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.storage = provider
			c.storageName = "custom"
		}
	}
}

// WithTemplateRenderer replaces the go-template renderer resolved from the
// active theme directory.
func WithTemplateRenderer(renderer interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		if renderer != nil {
			c.renderer = renderer
		}
	}
}

// WithThemeManifestLoader replaces filesystem manifest loading, mainly for tests.
func WithThemeManifestLoader(loader themes.ManifestLoader) Option {
	return func(c *Container) {
		if loader != nil {
			c.themeLoader = loader
		}
	}
}

// WithBuildLog injects an already opened build record store.
func WithBuildLog(store *buildlog.Store) Option {
	return func(c *Container) {
		if store != nil {
			c.buildLogStore = store
		}
	}
}

// New validates cfg and assembles the service graph.
func New(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if c.loggerProvider == nil {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		c.loggerProvider = provider
	}

	if err := c.assemble(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) assemble() error {
	cfg := c.cfg

	parseOpts := interfaces.ParseOptions{
		Extensions: cfg.Markdown.Parser.Extensions,
		Sanitize:   cfg.Markdown.Parser.Sanitize,
		HardWraps:  cfg.Markdown.Parser.HardWraps,
		SafeMode:   cfg.Markdown.Parser.SafeMode,
	}

	md, err := markdown.NewService(markdown.Config{
		BasePath:       cfg.Content.Dir,
		DefaultSection: cfg.Content.DefaultSection,
		Pattern:        cfg.Content.Pattern,
		Recursive:      cfg.Content.Recursive,
		Parser:         parseOpts,
	}, nil)
	if err != nil {
		return fmt.Errorf("press: markdown service: %w", err)
	}
	c.markdownService = md

	registry := shortcode.NewRegistry(shortcode.NewValidator())
	if err := shortcode.RegisterBuiltIns(registry, nil); err != nil {
		return fmt.Errorf("press: shortcodes: %w", err)
	}
	c.shortcodeService = shortcode.NewService(
		registry,
		shortcode.NewRenderer(registry, shortcode.NewValidator()),
		shortcode.WithLogger(logging.ShortcodeLogger(c.loggerProvider)),
	)

	routes := cfg.Routes
	if routes == nil {
		routes = runtimeconfig.DefaultRoutes(cfg.BaseURL)
	}
	permalinks, err := site.NewPermalinks(cfg.BaseURL, routes)
	if err != nil {
		return fmt.Errorf("press: permalinks: %w", err)
	}
	c.permalinks = permalinks

	c.contentService = content.NewService(content.Config{
		IncludeDrafts:  cfg.Content.IncludeDrafts,
		StrictFences:   cfg.Content.StrictFences,
		DefaultSection: cfg.Content.DefaultSection,
		Schemas:        cfg.Content.Schemas,
		Parser:         parseOpts,
	}, md, c.shortcodeService,
		content.WithPermalink(permalinks.Post),
		content.WithLogger(logging.ContentLogger(c.loggerProvider)),
	)

	theming := themes.Config{
		Dir:              cfg.Themes.Dir,
		DefaultTheme:     cfg.Themes.Name,
		DefaultVariant:   cfg.Themes.Variant,
		PartialFallbacks: cfg.Themes.PartialFallbacks,
	}
	c.themeSelector = themes.NewSelector(theming, c.themeLoader)

	if c.renderer == nil {
		templateDir := filepath.Join(cfg.Themes.Dir, cfg.Themes.Name, "templates")
		renderer, err := themes.NewGoTemplateRenderer(templateDir)
		if err != nil {
			return fmt.Errorf("press: template renderer: %w", err)
		}
		c.renderer = renderer
	}

	if c.storage == nil {
		c.storage = storage.NewFilesystem(cfg.Output.Dir, cfg.Output.Dir)
		c.storageName = "filesystem"
	}

	c.siteService = site.NewService(site.Config{
		OutputDir:       cfg.Output.Dir,
		BaseURL:         cfg.BaseURL,
		Title:           cfg.Site.Title,
		Description:     cfg.Site.Description,
		Author:          cfg.Site.Author,
		Language:        cfg.Site.Language,
		StaticDir:       cfg.Output.StaticDir,
		Incremental:     cfg.Output.Incremental,
		CopyAssets:      cfg.Output.CopyAssets,
		CleanBuild:      cfg.Output.CleanBuild,
		GenerateSitemap: cfg.Output.GenerateSitemap,
		GenerateRobots:  cfg.Output.GenerateRobots,
		GenerateFeeds:   cfg.Output.GenerateFeeds,
		FeedLimit:       cfg.Output.FeedLimit,
		Workers:         cfg.Output.Workers,
		Theming:         theming,
	}, site.Dependencies{
		Content:    c.contentService,
		Renderer:   c.renderer,
		Storage:    c.storage,
		Themes:     c.themeSelector,
		Permalinks: permalinks,
		BuildLog:   c.buildLogStore,
		Logger:     logging.SiteLogger(c.loggerProvider),
	})

	return nil
}

// Config returns the validated configuration the container was built with.
func (c *Container) Config() runtimeconfig.Config { return c.cfg }

// LoggerProvider returns the active logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// Markdown returns the Markdown loading service.
func (c *Container) Markdown() *markdown.Service { return c.markdownService }

// Shortcodes returns the shortcode service.
func (c *Container) Shortcodes() *shortcode.Service { return c.shortcodeService }

// Content returns the corpus service.
func (c *Container) Content() *content.Service { return c.contentService }

// Themes returns the theme selector.
func (c *Container) Themes() *themes.Selector { return c.themeSelector }

// Permalinks returns the urlkit-backed permalink builder.
func (c *Container) Permalinks() *site.Permalinks { return c.permalinks }

// Site returns the site assembler.
func (c *Container) Site() site.Service { return c.siteService }

// BuildLog returns the sqlite build record store, nil when disabled.
func (c *Container) BuildLog() *buildlog.Store { return c.buildLogStore }

// Storage returns the artifact storage provider.
func (c *Container) Storage() interfaces.StorageProvider { return c.storage }

// Renderer returns the template renderer.
func (c *Container) Renderer() interfaces.TemplateRenderer { return c.renderer }
