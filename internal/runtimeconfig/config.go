// Package runtimeconfig declares the configuration surface shared by the
// press library and the CLI. Fields intentionally use simple types so host
// applications can populate them from any source (viper, env, code).
package runtimeconfig

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	urlkit "github.com/goliatone/go-urlkit"
)

var (
	ErrSiteTitleRequired    = errors.New("press config: site title is required")
	ErrContentDirRequired   = errors.New("press config: content directory is required")
	ErrOutputDirRequired    = errors.New("press config: output directory is required")
	ErrBaseURLInvalid       = errors.New("press config: base url is invalid")
	ErrServerPortInvalid    = errors.New("press config: server port is out of range")
	ErrLoggingLevelInvalid  = errors.New("press config: logging level is invalid")
	ErrLoggingFormatInvalid = errors.New("press config: logging format is invalid")
	ErrWorkersInvalid       = errors.New("press config: worker count must be zero or positive")
	ErrBuildLogPathRequired = errors.New("press config: build log path is required when the build log is enabled")
)

// Config aggregates the behaviour toggles for a press site.
type Config struct {
	BaseURL  string
	Site     SiteConfig
	Content  ContentConfig
	Markdown MarkdownConfig
	Themes   ThemeConfig
	Output   OutputConfig
	Server   ServerConfig
	Logging  LoggingConfig
	BuildLog BuildLogConfig
	// Routes drives permalink construction through go-urlkit. A nil value
	// falls back to DefaultRoutes.
	Routes *urlkit.Config
}

// SiteConfig carries the site-wide metadata surfaced to templates and feeds.
type SiteConfig struct {
	Title       string
	Description string
	Author      string
	Language    string
}

// ContentConfig captures discovery and validation behaviour for the corpus.
type ContentConfig struct {
	Dir            string
	Pattern        string
	Recursive      bool
	DefaultSection string
	IncludeDrafts  bool
	// StrictFences fails the build when a fenced code block carries an
	// unrecognised language tag instead of reporting it as a warning.
	StrictFences bool
	// Schemas maps section names to JSON schemas applied to front matter
	// custom fields.
	Schemas map[string]map[string]any
}

// MarkdownConfig captures parser behaviour for Markdown rendering.
type MarkdownConfig struct {
	Parser MarkdownParserConfig
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for configuration files.
type MarkdownParserConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// ThemeConfig locates the active theme.
type ThemeConfig struct {
	Dir              string
	Name             string
	Variant          string
	PartialFallbacks map[string]string
}

// OutputConfig controls the assembled artifact tree.
type OutputConfig struct {
	Dir             string
	StaticDir       string
	CleanBuild      bool
	Incremental     bool
	CopyAssets      bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeeds   bool
	FeedLimit       int
	Workers         int
}

// ServerConfig captures dev-server behaviour.
type ServerConfig struct {
	Host     string
	Port     int
	Watch    bool
	Debounce time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// BuildLogConfig toggles the sqlite-backed build record store.
type BuildLogConfig struct {
	Enabled bool
	Path    string
}

// DefaultConfig returns a configuration suitable for a blog checked out with
// content/, themes/<name>/ and public/ directories.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Language: "en",
		},
		Content: ContentConfig{
			Dir:            "content",
			Pattern:        "*.md",
			Recursive:      true,
			DefaultSection: "posts",
		},
		Markdown: MarkdownConfig{
			Parser: MarkdownParserConfig{
				Extensions: []string{"gfm", "footnote"},
			},
		},
		Themes: ThemeConfig{
			Dir:  "themes",
			Name: "default",
		},
		Output: OutputConfig{
			Dir:             "public",
			StaticDir:       "static",
			CopyAssets:      true,
			GenerateSitemap: true,
			GenerateRobots:  true,
			GenerateFeeds:   true,
			FeedLimit:       50,
			Incremental:     true,
		},
		Server: ServerConfig{
			Host:     "localhost",
			Port:     1414,
			Watch:    true,
			Debounce: 300 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		BuildLog: BuildLogConfig{
			Path: ".press/buildlog.db",
		},
	}
}

// DefaultRoutes returns the urlkit route table used when Config.Routes is nil.
func DefaultRoutes(baseURL string) *urlkit.Config {
	return &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "site",
				BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
				Paths: map[string]string{
					"index": "/",
					"post":  "/posts/:slug",
					"tag":   "/tags/:slug",
				},
			},
		},
	}
}

// Validate reports configuration errors before any service boots.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Site.Title) == "" {
		return ErrSiteTitleRequired
	}
	if strings.TrimSpace(c.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		return ErrOutputDirRequired
	}
	if c.Output.Workers < 0 {
		return ErrWorkersInvalid
	}
	if c.BuildLog.Enabled && strings.TrimSpace(c.BuildLog.Path) == "" {
		return ErrBuildLogPathRequired
	}

	if base := strings.TrimSpace(c.BaseURL); base != "" {
		if err := validation.Validate(base, is.URL); err != nil {
			return ErrBaseURLInvalid
		}
	}

	if err := validation.Validate(c.Server.Port, validation.Min(0), validation.Max(65535)); err != nil {
		return ErrServerPortInvalid
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return ErrLoggingLevelInvalid
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json", "pretty":
	default:
		return ErrLoggingFormatInvalid
	}

	return nil
}
