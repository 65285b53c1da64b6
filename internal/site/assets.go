package site

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-press/internal/themes"
)

type assetCopySummary struct {
	Built   int
	Skipped int
}

// copyAssets copies the static directory and the selected theme's declared
// assets into the output tree. Unchanged assets are skipped on incremental
// builds by checksum.
func (s *service) copyAssets(
	ctx context.Context,
	writer artifactWriter,
	manifest *buildManifest,
	baseDir string,
	force bool,
) (assetCopySummary, error) {
	summary := assetCopySummary{}
	dirCache := map[string]struct{}{}
	if baseDir != "" {
		dirCache[baseDir] = struct{}{}
		if err := writer.EnsureDir(ctx, baseDir); err != nil {
			return summary, err
		}
	}

	if err := s.copyStaticAssets(ctx, writer, manifest, baseDir, dirCache, force, &summary); err != nil {
		return summary, err
	}
	if err := s.copyThemeAssets(ctx, writer, manifest, baseDir, dirCache, force, &summary); err != nil {
		return summary, err
	}
	return summary, nil
}

func (s *service) copyStaticAssets(
	ctx context.Context,
	writer artifactWriter,
	manifest *buildManifest,
	baseDir string,
	dirCache map[string]struct{},
	force bool,
	summary *assetCopySummary,
) error {
	staticDir := strings.TrimSpace(s.cfg.StaticDir)
	if staticDir == "" {
		return nil
	}
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		return nil
	}

	var files []string
	root := os.DirFS(staticDir)
	err := fs.WalkDir(root, ".", func(entry string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, entry)
		return nil
	})
	if err != nil {
		return fmt.Errorf("site: walk static directory: %w", err)
	}
	sort.Strings(files)

	for _, rel := range files {
		data, err := fs.ReadFile(root, rel)
		if err != nil {
			return fmt.Errorf("site: read static asset %s: %w", rel, err)
		}
		source := "static::" + rel
		if err := s.writeAsset(ctx, writer, manifest, baseDir, dirCache, force, summary, source, rel, data); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) copyThemeAssets(
	ctx context.Context,
	writer artifactWriter,
	manifest *buildManifest,
	baseDir string,
	dirCache map[string]struct{},
	force bool,
	summary *assetCopySummary,
) error {
	selection := s.selection()
	if selection == nil || s.deps.Themes == nil {
		return nil
	}
	themePath := s.deps.Themes.ThemePath(selection.Theme)
	assets := themes.CollectAssets(selection)
	for _, asset := range assets {
		reader, err := themes.OpenAsset(themePath, asset)
		if err != nil {
			return fmt.Errorf("site: open theme asset %s: %w", asset, err)
		}
		data, err := io.ReadAll(reader)
		_ = reader.Close()
		if err != nil {
			return fmt.Errorf("site: read theme asset %s: %w", asset, err)
		}
		source := "theme::" + selection.Theme + "::" + asset
		destRel := path.Join("assets", strings.TrimLeft(asset, "/"))
		if err := s.writeAsset(ctx, writer, manifest, baseDir, dirCache, force, summary, source, destRel, data); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) writeAsset(
	ctx context.Context,
	writer artifactWriter,
	manifest *buildManifest,
	baseDir string,
	dirCache map[string]struct{},
	force bool,
	summary *assetCopySummary,
	source string,
	destRel string,
	data []byte,
) error {
	fullPath := joinOutputPath(baseDir, destRel)
	checksum := computeHash(data)
	if s.cfg.Incremental && !force && manifest.shouldSkipAsset(source, checksum, fullPath) {
		summary.Skipped++
		return nil
	}
	if err := ensureDir(ctx, writer, dirCache, pathDir(fullPath)); err != nil {
		return err
	}
	if err := writer.WriteFile(ctx, writeFileRequest{
		Path:        fullPath,
		Content:     bytes.NewReader(data),
		Size:        int64(len(data)),
		Category:    categoryAsset,
		ContentType: themes.DetectAssetContentType(destRel),
		Checksum:    checksum,
		Metadata: map[string]string{
			"source": source,
		},
	}); err != nil {
		return err
	}
	summary.Built++
	manifest.setAsset(manifestAsset{
		Key:      source,
		Source:   source,
		Output:   fullPath,
		Checksum: checksum,
		Size:     int64(len(data)),
		CopiedAt: s.now().UTC(),
	})
	return nil
}
