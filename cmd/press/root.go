package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	press "github.com/goliatone/go-press"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "press",
	Short: "A static blog generator for Markdown posts",
	Long: `press turns a directory of Markdown posts into a static site:
one HTML page per post, a chronological index, per-tag listings, feeds and
copied assets.

Quick start:
  press new "My First Post"   Scaffold a post under content/
  press build                 Assemble the site into public/
  press serve                 Serve locally with live reload
  press check                 Validate content without writing output`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default press.yml)")
	rootCmd.PersistentFlags().String("base-url", "", "absolute site URL used in permalinks and feeds")
	rootCmd.PersistentFlags().String("content-dir", "", "directory holding Markdown posts")
	rootCmd.PersistentFlags().String("output-dir", "", "directory receiving the generated site")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (console, json, pretty)")

	mustBind("base_url", "base-url")
	mustBind("content.dir", "content-dir")
	mustBind("output.dir", "output-dir")
	mustBind("logging.level", "log-level")
	mustBind("logging.format", "log-format")
}

func mustBind(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("press")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("PRESS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && cfgFile != "" {
			cobra.CheckErr(fmt.Errorf("read config: %w", err))
		}
	}
}

// loadConfig layers viper values over the built-in defaults.
func loadConfig() press.Config {
	cfg := press.DefaultConfig()

	setString(&cfg.BaseURL, "base_url")
	setString(&cfg.Site.Title, "site.title")
	setString(&cfg.Site.Description, "site.description")
	setString(&cfg.Site.Author, "site.author")
	setString(&cfg.Site.Language, "site.language")

	setString(&cfg.Content.Dir, "content.dir")
	setString(&cfg.Content.Pattern, "content.pattern")
	setString(&cfg.Content.DefaultSection, "content.default_section")
	setBool(&cfg.Content.Recursive, "content.recursive")
	setBool(&cfg.Content.IncludeDrafts, "content.include_drafts")
	setBool(&cfg.Content.StrictFences, "content.strict_fences")

	setStrings(&cfg.Markdown.Parser.Extensions, "markdown.extensions")
	setBool(&cfg.Markdown.Parser.Sanitize, "markdown.sanitize")
	setBool(&cfg.Markdown.Parser.HardWraps, "markdown.hard_wraps")
	setBool(&cfg.Markdown.Parser.SafeMode, "markdown.safe_mode")

	setString(&cfg.Themes.Dir, "themes.dir")
	setString(&cfg.Themes.Name, "themes.name")
	setString(&cfg.Themes.Variant, "themes.variant")

	setString(&cfg.Output.Dir, "output.dir")
	setString(&cfg.Output.StaticDir, "output.static_dir")
	setBool(&cfg.Output.Incremental, "output.incremental")
	setBool(&cfg.Output.CopyAssets, "output.copy_assets")
	setBool(&cfg.Output.CleanBuild, "output.clean_build")
	setBool(&cfg.Output.GenerateSitemap, "output.sitemap")
	setBool(&cfg.Output.GenerateRobots, "output.robots")
	setBool(&cfg.Output.GenerateFeeds, "output.feeds")
	setInt(&cfg.Output.FeedLimit, "output.feed_limit")
	setInt(&cfg.Output.Workers, "output.workers")

	setString(&cfg.Server.Host, "server.host")
	setInt(&cfg.Server.Port, "server.port")
	setBool(&cfg.Server.Watch, "server.watch")
	setDuration(&cfg.Server.Debounce, "server.debounce")

	setString(&cfg.Logging.Level, "logging.level")
	setString(&cfg.Logging.Format, "logging.format")
	setBool(&cfg.Logging.AddSource, "logging.add_source")

	setBool(&cfg.BuildLog.Enabled, "buildlog.enabled")
	setString(&cfg.BuildLog.Path, "buildlog.path")

	return cfg
}

func setString(dst *string, key string) {
	if viper.IsSet(key) {
		if value := strings.TrimSpace(viper.GetString(key)); value != "" {
			*dst = value
		}
	}
}

func setStrings(dst *[]string, key string) {
	if viper.IsSet(key) {
		if values := viper.GetStringSlice(key); len(values) > 0 {
			*dst = values
		}
	}
}

func setBool(dst *bool, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetBool(key)
	}
}

func setInt(dst *int, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetInt(key)
	}
}

func setDuration(dst *time.Duration, key string) {
	if viper.IsSet(key) {
		if value := viper.GetDuration(key); value > 0 {
			*dst = value
		}
	}
}

func newModule() (*press.Module, error) {
	return press.New(loadConfig())
}
