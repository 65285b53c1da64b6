// Package press turns a directory of Markdown posts into a static blog:
// HTML pages for every post, a chronological index, per-tag listings, feeds
// and copied assets. The Module façade wires the content pipeline, theme
// renderer and site assembler; hosts embed it or drive it through the CLI.
package press

import (
	"context"
	"fmt"

	"github.com/goliatone/go-press/internal/buildlog"
	"github.com/goliatone/go-press/internal/content"
	"github.com/goliatone/go-press/internal/di"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/internal/markdown"
	"github.com/goliatone/go-press/internal/server"
	"github.com/goliatone/go-press/internal/shortcode"
	"github.com/goliatone/go-press/internal/site"
	"github.com/goliatone/go-press/internal/themes"
	"github.com/goliatone/go-press/internal/watcher"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// ContentService exports the corpus service contract.
type ContentService = content.Service

// MarkdownService exports the Markdown loading service.
type MarkdownService = markdown.Service

// ShortcodeService exports the shortcode service.
type ShortcodeService = shortcode.Service

// SiteService exports the site assembler contract.
type SiteService = site.Service

// BuildOptions exports the site build options.
type BuildOptions = site.BuildOptions

// BuildResult exports the aggregated build report.
type BuildResult = site.BuildResult

// Corpus exports the loaded post collection.
type Corpus = content.Corpus

// Post exports the rendered post model.
type Post = content.Post

// Option forwards a DI container override.
type Option = di.Option

// WithLoggerProvider replaces the default go-logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithStorage replaces the filesystem artifact store.
func WithStorage(provider interfaces.StorageProvider) Option {
	return di.WithStorage(provider)
}

// WithTemplateRenderer replaces the theme-derived template renderer.
func WithTemplateRenderer(renderer interfaces.TemplateRenderer) Option {
	return di.WithTemplateRenderer(renderer)
}

// WithThemeManifestLoader replaces filesystem theme manifest loading.
func WithThemeManifestLoader(loader themes.ManifestLoader) Option {
	return di.WithThemeManifestLoader(loader)
}

// Module is the top level press runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a press module from the provided configuration. When the
// build log is enabled the sqlite store is opened before any service boots.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.BuildLog.Enabled {
		store, err := buildlog.Open(context.Background(), cfg.BuildLog.Path)
		if err != nil {
			return nil, fmt.Errorf("press: open build log: %w", err)
		}
		opts = append([]Option{di.WithBuildLog(store)}, opts...)
	}

	container, err := di.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Config returns the validated runtime configuration.
func (m *Module) Config() Config {
	return m.container.Config()
}

// Content returns the corpus service.
func (m *Module) Content() *ContentService {
	return m.container.Content()
}

// Markdown returns the Markdown loading service.
func (m *Module) Markdown() *MarkdownService {
	return m.container.Markdown()
}

// Shortcodes returns the shortcode service.
func (m *Module) Shortcodes() *ShortcodeService {
	return m.container.Shortcodes()
}

// Site returns the site assembler.
func (m *Module) Site() SiteService {
	return m.container.Site()
}

// Themes returns the theme selector.
func (m *Module) Themes() *themes.Selector {
	return m.container.Themes()
}

// Permalinks returns the urlkit-backed permalink builder.
func (m *Module) Permalinks() *site.Permalinks {
	return m.container.Permalinks()
}

// BuildLog returns the sqlite build record store, nil when disabled.
func (m *Module) BuildLog() *buildlog.Store {
	return m.container.BuildLog()
}

// Build assembles the whole site.
func (m *Module) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	return m.container.Site().Build(ctx, opts)
}

// Check loads and validates the corpus without writing anything.
func (m *Module) Check(ctx context.Context) (*Corpus, error) {
	return m.container.Content().LoadCorpus(ctx)
}

// Clean removes the output tree.
func (m *Module) Clean(ctx context.Context) error {
	return m.container.Site().Clean(ctx)
}

// Close releases held resources such as the build log store.
func (m *Module) Close() error {
	if store := m.container.BuildLog(); store != nil {
		return store.Close()
	}
	return nil
}

// Serve builds the site, serves the output directory, and rebuilds on source
// changes until ctx is cancelled. Connected browsers reload after each
// successful rebuild.
func (m *Module) Serve(ctx context.Context) error {
	cfg := m.container.Config()
	logger := logging.ServerLogger(m.container.LoggerProvider())

	if _, err := m.Build(ctx, BuildOptions{}); err != nil {
		return fmt.Errorf("press: initial build: %w", err)
	}

	srv := server.New(server.Config{
		Host:       cfg.Server.Host,
		Port:       cfg.Server.Port,
		Root:       cfg.Output.Dir,
		LiveReload: cfg.Server.Watch,
	}, logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Server.Watch {
		rebuild := func(ctx context.Context, events []watcher.ChangeEvent) error {
			logger.Info("rebuilding", "changes", len(events))
			if _, err := m.Build(ctx, BuildOptions{}); err != nil {
				logger.Error("rebuild failed", "error", err)
				return err
			}
			srv.NotifyReload(ctx)
			return nil
		}

		w, err := watcher.New(rebuild,
			watcher.WithDebounce(cfg.Server.Debounce),
			watcher.WithLogger(logger),
			watcher.WithFilter(watcher.SiteSourceFilter),
		)
		if err != nil {
			return err
		}
		defer w.Close()

		for _, dir := range watchRoots(cfg) {
			if err := w.AddRecursive(dir); err != nil {
				logger.Warn("not watching directory", "dir", dir, "error", err)
			}
		}
		w.Start(ctx)
	}

	return srv.Run(ctx)
}

// watchRoots lists the source directories a serve session watches.
func watchRoots(cfg Config) []string {
	roots := []string{cfg.Content.Dir, cfg.Themes.Dir}
	if cfg.Output.StaticDir != "" {
		roots = append(roots, cfg.Output.StaticDir)
	}
	return roots
}
