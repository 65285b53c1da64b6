// Package site assembles the static output tree: post pages, the index,
// tag listings, copied assets, sitemap, robots and feeds. Rendering runs
// through the configured TemplateRenderer and every artifact write goes
// through the storage provider so outputs stay testable.
package site

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-press/internal/buildlog"
	"github.com/goliatone/go-press/internal/content"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/internal/themes"
	"github.com/goliatone/go-press/pkg/interfaces"
	gotheme "github.com/goliatone/go-theme"
)

var (
	// ErrRendererRequired indicates a build was attempted without a template renderer.
	ErrRendererRequired = errors.New("site: template renderer is required")
	errTemplateMissing  = errors.New("site: template identifier is required for rendering")
)

// Service describes the static site assembler contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the assembler.
type Config struct {
	OutputDir       string
	BaseURL         string
	Title           string
	Description     string
	Author          string
	Language        string
	StaticDir       string
	Incremental     bool
	CopyAssets      bool
	CleanBuild      bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeeds   bool
	FeedLimit       int
	Workers         int
	Theming         themes.Config
}

// BuildOptions narrows the scope of a build run.
type BuildOptions struct {
	// DryRun renders every page but writes nothing.
	DryRun bool
	// Force disables incremental skipping for this run.
	Force bool
	// Sections restricts the build to posts from the named sections.
	Sections []string
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	PagesBuilt    int
	PagesSkipped  int
	AssetsBuilt   int
	AssetsSkipped int
	Posts         int
	Duration      time.Duration
	Rendered      []RenderedPage
	Diagnostics   []RenderDiagnostic
	Errors        []error
	DryRun        bool
}

// Dependencies lists the collaborators required by the assembler.
type Dependencies struct {
	Content    *content.Service
	Renderer   interfaces.TemplateRenderer
	Storage    interfaces.StorageProvider
	Themes     *themes.Selector
	Permalinks *Permalinks
	BuildLog   *buildlog.Store
	Logger     interfaces.Logger
}

// NewService wires an assembler with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &service{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		now:    time.Now,
	}
}

type service struct {
	cfg    Config
	deps   Dependencies
	logger interfaces.Logger
	now    func() time.Time

	themeSel *gotheme.Selection
	themeCtx *themes.Context
}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Renderer == nil {
		return nil, ErrRendererRequired
	}

	start := s.now()
	if err := s.resolveSelection(); err != nil {
		return nil, err
	}

	// A clean build removes the output tree first, which also discards the
	// manifest and with it any incremental state.
	if s.cfg.CleanBuild && !opts.DryRun {
		if err := s.Clean(ctx); err != nil {
			s.recordBuild(ctx, start, nil, err)
			return nil, err
		}
	}

	buildCtx, err := s.loadContext(ctx, opts)
	if err != nil {
		s.recordBuild(ctx, start, nil, err)
		return nil, err
	}

	result := &BuildResult{
		Posts:       len(buildCtx.Corpus.Posts),
		DryRun:      opts.DryRun,
		Diagnostics: make([]RenderDiagnostic, 0, len(buildCtx.Pages)),
	}

	siteMeta := SiteMetadata{
		Title:       s.cfg.Title,
		Description: s.cfg.Description,
		Author:      s.cfg.Author,
		Language:    s.cfg.Language,
		BaseURL:     strings.TrimRight(s.cfg.BaseURL, "/"),
		Tags:        buildCtx.Corpus.Tags(),
		Metadata:    map[string]any{},
	}

	var (
		mu          sync.Mutex
		rendered    = make([]RenderedPage, 0, len(buildCtx.Pages))
		errorsSlice []error
		baseDir     = strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	)

	manifest, manifestErr := s.loadManifest(ctx)
	if manifestErr != nil {
		errorsSlice = append(errorsSlice, manifestErr)
	}
	if manifest == nil {
		manifest = newBuildManifest()
	}

	collect := func(outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		if outcome.err != nil {
			errorsSlice = append(errorsSlice, outcome.err)
			return
		}
		if outcome.skipped {
			result.PagesSkipped++
			return
		}
		result.PagesBuilt++
		rendered = append(rendered, outcome.page)
	}

	grouped := groupPagesBySection(buildCtx.Pages)
	workerCount := s.effectiveWorkerCount(len(grouped))
	if workerCount <= 1 || len(buildCtx.Pages) <= 1 {
		for _, page := range buildCtx.Pages {
			select {
			case <-ctx.Done():
				s.recordBuild(ctx, start, result, ctx.Err())
				return result, ctx.Err()
			default:
				collect(s.renderPage(ctx, siteMeta, buildCtx, page, manifest, baseDir))
			}
		}
	} else {
		if err := s.renderConcurrently(ctx, siteMeta, buildCtx, grouped, workerCount, manifest, baseDir, collect); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if opts.DryRun {
		result.Rendered = rendered
		result.Duration = time.Since(start)
		joined := errors.Join(errorsSlice...)
		if joined != nil {
			result.Errors = append(result.Errors, errorsSlice...)
		}
		return result, joined
	}

	writer := newArtifactWriter(s.deps.Storage)
	if err := s.persistPages(ctx, writer, rendered, baseDir); err != nil {
		errorsSlice = append(errorsSlice, err)
	}

	if s.cfg.CopyAssets {
		summary, err := s.copyAssets(ctx, writer, manifest, baseDir, opts.Force)
		if err != nil {
			errorsSlice = append(errorsSlice, err)
		} else {
			result.AssetsBuilt += summary.Built
			result.AssetsSkipped += summary.Skipped
		}
	}

	if s.cfg.GenerateSitemap {
		if err := s.writeSitemap(ctx, writer, siteMeta, buildCtx, rendered, manifest); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if s.cfg.GenerateRobots {
		if err := s.writeRobots(ctx, writer, siteMeta, buildCtx.GeneratedAt); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if s.cfg.GenerateFeeds {
		if err := s.writeFeeds(ctx, writer, siteMeta, buildCtx); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if len(errorsSlice) == 0 {
		manifest.GeneratedAt = buildCtx.GeneratedAt
		for _, page := range rendered {
			if strings.TrimSpace(page.Checksum) == "" {
				continue
			}
			manifest.setPage(manifestPage{
				Kind:         string(page.Kind),
				Name:         page.Name,
				Route:        page.Route,
				Output:       page.Output,
				Template:     page.Template,
				Hash:         page.Metadata.Hash,
				Checksum:     page.Checksum,
				LastModified: page.Metadata.LastModified,
				RenderedAt:   buildCtx.GeneratedAt,
			})
		}
		if err := s.persistManifest(ctx, writer, manifest, baseDir); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	result.Rendered = rendered
	result.Duration = time.Since(start)
	joined := errors.Join(errorsSlice...)
	if joined != nil {
		result.Errors = append(result.Errors, errorsSlice...)
	}
	s.recordBuild(ctx, start, result, joined)
	s.logger.Info("build finished",
		"pages_built", result.PagesBuilt,
		"pages_skipped", result.PagesSkipped,
		"assets_built", result.AssetsBuilt,
		"duration", result.Duration.String(),
	)
	return result, joined
}

// Clean removes the output tree.
func (s *service) Clean(ctx context.Context) error {
	if s.deps.Storage == nil {
		return nil
	}
	target := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	if target == "" {
		target = "."
	}
	if _, err := s.deps.Storage.Exec(ctx, storageOpRemove, target); err != nil {
		return fmt.Errorf("site: clean output: %w", err)
	}
	return nil
}

func (s *service) resolveSelection() error {
	if s.deps.Themes == nil {
		s.themeSel = nil
		s.themeCtx = nil
		return nil
	}
	selection, err := s.deps.Themes.Select(s.cfg.Theming.DefaultTheme, s.cfg.Theming.DefaultVariant)
	if err != nil {
		return fmt.Errorf("site: select theme: %w", err)
	}
	s.themeSel = selection
	s.themeCtx = nil
	return nil
}

func (s *service) selection() *gotheme.Selection {
	return s.themeSel
}

func (s *service) renderConcurrently(
	ctx context.Context,
	siteMeta SiteMetadata,
	buildCtx *BuildContext,
	grouped map[string][]*PageData,
	workers int,
	manifest *buildManifest,
	baseDir string,
	collect func(renderOutcome),
) error {
	jobs := make(chan []*PageData)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range jobs {
				for _, page := range batch {
					select {
					case <-ctx.Done():
						collect(renderOutcome{
							diagnostic: RenderDiagnostic{
								Kind:  page.Kind,
								Name:  page.Name,
								Route: page.Route,
								Err:   ctx.Err(),
							},
							err: ctx.Err(),
						})
						return
					default:
						collect(s.renderPage(ctx, siteMeta, buildCtx, page, manifest, baseDir))
					}
				}
			}
		}()
	}

	for _, batch := range grouped {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- batch:
		}
	}
	close(jobs)
	wg.Wait()
	return nil
}

func (s *service) renderPage(
	ctx context.Context,
	siteMeta SiteMetadata,
	buildCtx *BuildContext,
	data *PageData,
	manifest *buildManifest,
	baseDir string,
) renderOutcome {
	outcome := renderOutcome{
		diagnostic: RenderDiagnostic{
			Kind:  data.Kind,
			Name:  data.Name,
			Route: data.Route,
		},
	}

	select {
	case <-ctx.Done():
		outcome.err = ctx.Err()
		outcome.diagnostic.Err = ctx.Err()
		return outcome
	default:
	}

	templateName := strings.TrimSpace(data.Template)
	if templateName == "" {
		err := fmt.Errorf("site: page %s/%s: %w", data.Kind, data.Name, errTemplateMissing)
		outcome.err = err
		outcome.diagnostic.Err = err
		return outcome
	}
	outcome.diagnostic.Template = templateName

	if s.cfg.Incremental && !buildCtx.Options.Force {
		expectedOutput := joinOutputPath(baseDir, routeOutputPath(data.Route))
		if manifest.shouldSkipPage(data.Kind, data.Name, data.Metadata.Hash, expectedOutput) {
			outcome.skipped = true
			outcome.diagnostic.Skipped = true
			return outcome
		}
	}

	templateCtx := TemplateContext{
		Site: siteMeta,
		Page: PageRenderingContext{
			Kind:  data.Kind,
			Title: data.Title,
			Route: data.Route,
			Post:  data.Post,
			Posts: data.Posts,
			Tag:   data.Tag,
		},
		Build: BuildMetadata{
			GeneratedAt: buildCtx.GeneratedAt,
			Options:     buildCtx.Options,
		},
		Theme:   s.themeContext(),
		Helpers: newTemplateHelpers(siteMeta.BaseURL),
	}

	start := time.Now()
	rendered, err := s.deps.Renderer.RenderTemplate(templateName, templateCtx)
	duration := time.Since(start)
	outcome.diagnostic.Duration = duration
	if err != nil {
		wrapped := fmt.Errorf("site: render template %q for %s/%s: %w", templateName, data.Kind, data.Name, err)
		outcome.err = wrapped
		outcome.diagnostic.Err = wrapped
		return outcome
	}

	outcome.page = RenderedPage{
		Kind:     data.Kind,
		Name:     data.Name,
		Route:    data.Route,
		Template: templateName,
		HTML:     rendered,
		Metadata: data.Metadata,
		Duration: duration,
	}
	return outcome
}

func (s *service) persistPages(
	ctx context.Context,
	writer artifactWriter,
	pages []RenderedPage,
	baseDir string,
) error {
	if len(pages) == 0 {
		return nil
	}
	dirCache := map[string]struct{}{}
	if baseDir != "" {
		dirCache[baseDir] = struct{}{}
		if err := writer.EnsureDir(ctx, baseDir); err != nil {
			return err
		}
	}
	for i := range pages {
		fullPath := joinOutputPath(baseDir, routeOutputPath(pages[i].Route))
		if err := ensureDir(ctx, writer, dirCache, pathDir(fullPath)); err != nil {
			return err
		}
		checksum := computeHashFromString(pages[i].HTML)
		pages[i].Output = fullPath
		pages[i].Checksum = checksum

		req := writeFileRequest{
			Path:        fullPath,
			Content:     strings.NewReader(pages[i].HTML),
			Size:        int64(len(pages[i].HTML)),
			Category:    categoryPage,
			ContentType: "text/html; charset=utf-8",
			Checksum:    checksum,
			Metadata: map[string]string{
				"kind":     string(pages[i].Kind),
				"name":     pages[i].Name,
				"route":    pages[i].Route,
				"template": pages[i].Template,
			},
		}
		if err := writer.WriteFile(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) recordBuild(ctx context.Context, start time.Time, result *BuildResult, buildErr error) {
	if s.deps.BuildLog == nil {
		return
	}
	record := &buildlog.Record{
		StartedAt:  start.UTC(),
		DurationMS: time.Since(start).Milliseconds(),
		Succeeded:  buildErr == nil,
	}
	if result != nil {
		record.PagesBuilt = result.PagesBuilt
		record.PagesSkipped = result.PagesSkipped
		record.AssetsBuilt = result.AssetsBuilt
		record.AssetsSkipped = result.AssetsSkipped
		record.Posts = result.Posts
	}
	if buildErr != nil {
		record.Error = buildErr.Error()
	}
	if err := s.deps.BuildLog.Append(ctx, record); err != nil {
		s.logger.Warn("record build", "error", err)
	}
}

func (s *service) effectiveWorkerCount(groupCount int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if groupCount > 0 && workers > groupCount {
		return groupCount
	}
	return workers
}

// groupPagesBySection batches post pages per section so a worker renders a
// section end to end; listing pages form their own batch.
func groupPagesBySection(pages []*PageData) map[string][]*PageData {
	grouped := make(map[string][]*PageData)
	for _, page := range pages {
		if page == nil {
			continue
		}
		key := "_listings"
		if page.Kind == KindPost && page.Post != nil {
			key = page.Post.Section
		}
		grouped[key] = append(grouped[key], page)
	}
	return grouped
}

func ensureDir(ctx context.Context, writer artifactWriter, cache map[string]struct{}, dir string) error {
	dir = strings.Trim(dir, " ")
	if dir == "" || dir == "." {
		return nil
	}
	if cache != nil {
		if _, ok := cache[dir]; ok {
			return nil
		}
		cache[dir] = struct{}{}
	}
	return writer.EnsureDir(ctx, dir)
}
