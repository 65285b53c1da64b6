package themes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"
)

// Config controls theme discovery and selection.
type Config struct {
	// Dir is the root directory containing one sub-directory per theme.
	Dir string
	// DefaultTheme names the theme used when no explicit selection is made.
	DefaultTheme string
	// DefaultVariant names the variant applied when selection omits one.
	DefaultVariant string
	// CSSVariablePrefix prefixes emitted CSS custom properties.
	CSSVariablePrefix string
	// PartialFallbacks supplies partial names used when a theme omits them.
	PartialFallbacks map[string]string
}

// ManifestLoader abstracts theme manifest loading for tests and production.
type ManifestLoader interface {
	Load(themePath string) (*gotheme.Manifest, error)
}

type fsManifestLoader struct{}

func (fsManifestLoader) Load(themePath string) (*gotheme.Manifest, error) {
	cleaned := filepath.Clean(strings.TrimSpace(themePath))
	if cleaned == "" {
		return nil, fmt.Errorf("themes: theme path required")
	}

	return gotheme.LoadDir(os.DirFS(cleaned), ".")
}

// Selector resolves theme selections against manifests discovered on disk.
// Manifests are loaded once and cached per theme name.
type Selector struct {
	cfg      Config
	registry *gotheme.MemoryRegistry
	loader   ManifestLoader

	mu     sync.Mutex
	loaded map[string]*gotheme.Manifest
}

// NewSelector constructs a selector rooted at cfg.Dir. A nil loader falls
// back to filesystem manifest loading.
func NewSelector(cfg Config, loader ManifestLoader) *Selector {
	if loader == nil {
		loader = fsManifestLoader{}
	}
	return &Selector{
		cfg:      cfg,
		registry: gotheme.NewRegistry(),
		loader:   loader,
		loaded:   map[string]*gotheme.Manifest{},
	}
}

// Select resolves the named theme and variant, falling back to the configured
// defaults when either is empty.
func (s *Selector) Select(name, variant string) (*gotheme.Selection, error) {
	resolvedName := strings.TrimSpace(name)
	if resolvedName == "" {
		resolvedName = s.cfg.DefaultTheme
	}
	if resolvedName == "" {
		return nil, fmt.Errorf("themes: no theme selected and no default configured")
	}

	if _, err := s.ensureManifest(resolvedName); err != nil {
		return nil, err
	}

	selector := gotheme.Selector{
		Registry:       s.registry,
		DefaultTheme:   s.cfg.DefaultTheme,
		DefaultVariant: s.cfg.DefaultVariant,
	}

	resolvedVariant := strings.TrimSpace(variant)
	if resolvedVariant == "" {
		resolvedVariant = s.cfg.DefaultVariant
	}

	selection, err := selector.Select(resolvedName, resolvedVariant)
	if err != nil {
		return nil, fmt.Errorf("themes: select %s: %w", resolvedName, err)
	}
	return selection, nil
}

// ThemePath returns the on-disk directory for the named theme.
func (s *Selector) ThemePath(name string) string {
	return filepath.Join(s.cfg.Dir, filepath.FromSlash(strings.TrimSpace(name)))
}

func (s *Selector) ensureManifest(name string) (*gotheme.Manifest, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	s.mu.Lock()
	defer s.mu.Unlock()

	if manifest, ok := s.loaded[key]; ok {
		return manifest, nil
	}

	manifest, err := s.loader.Load(s.ThemePath(name))
	if err != nil {
		return nil, fmt.Errorf("themes: load manifest for %s: %w", name, err)
	}

	normalized := *manifest
	if strings.TrimSpace(normalized.Name) == "" {
		normalized.Name = strings.TrimSpace(name)
	}

	if err := s.registry.Register(&normalized); err != nil {
		return nil, fmt.Errorf("themes: register manifest: %w", err)
	}
	s.loaded[key] = &normalized
	return &normalized, nil
}
