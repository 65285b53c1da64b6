package press

import (
	"github.com/goliatone/go-press/internal/runtimeconfig"
	urlkit "github.com/goliatone/go-urlkit"
)

var (
	ErrSiteTitleRequired    = runtimeconfig.ErrSiteTitleRequired
	ErrContentDirRequired   = runtimeconfig.ErrContentDirRequired
	ErrOutputDirRequired    = runtimeconfig.ErrOutputDirRequired
	ErrBaseURLInvalid       = runtimeconfig.ErrBaseURLInvalid
	ErrServerPortInvalid    = runtimeconfig.ErrServerPortInvalid
	ErrLoggingLevelInvalid  = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid = runtimeconfig.ErrLoggingFormatInvalid
	ErrWorkersInvalid       = runtimeconfig.ErrWorkersInvalid
	ErrBuildLogPathRequired = runtimeconfig.ErrBuildLogPathRequired
)

type (
	Config               = runtimeconfig.Config
	SiteConfig           = runtimeconfig.SiteConfig
	ContentConfig        = runtimeconfig.ContentConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	ThemeConfig          = runtimeconfig.ThemeConfig
	OutputConfig         = runtimeconfig.OutputConfig
	ServerConfig         = runtimeconfig.ServerConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
	BuildLogConfig       = runtimeconfig.BuildLogConfig
)

// DefaultConfig returns the configuration for a conventional checkout with
// content/, themes/ and public/ directories.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// DefaultRoutes returns the urlkit route table applied when Config.Routes is nil.
func DefaultRoutes(baseURL string) *urlkit.Config {
	return runtimeconfig.DefaultRoutes(baseURL)
}
