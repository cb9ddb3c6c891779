// Package cli implements the waypost command-line interface.
//
// This package provides commands for traversing HAL+JSON APIs, inspecting
// local documents, paginating collections, browsing an API interactively,
// crawling rel-graph sitemaps, and running the bundled demo server. The
// CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - get: Traverse an API starting at a URL and print the final resource
//   - inspect: Decode and pretty-print a local HAL document
//   - pages: Walk a pagination chain and summarize every page
//   - browse: Explore an API interactively in the terminal
//   - sitemap: Crawl an API and render its rel-graph
//   - serve: Run the demo bookshop API
//   - cache: Manage the response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/waypost-dev/waypost/pkg/buildinfo"
	"github.com/waypost-dev/waypost/pkg/cache"
	"github.com/waypost-dev/waypost/pkg/halclient"
)

const (
	// appName is the application name used for directories and display.
	appName = "waypost"

	// defaultCacheTTL is how long cached responses stay fresh when the
	// config file does not say otherwise.
	defaultCacheTTL = time.Hour
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	config  Config
	profile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "waypost",
		Short:        "Waypost navigates HAL+JSON hypermedia APIs",
		Long:         `Waypost is a CLI tool for working with HAL+JSON hypermedia APIs: it follows typed link relations across resources, expands URI templates, pages through collections, and maps out the link structure of an API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath())
			if err != nil {
				return err
			}
			c.config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.profile, "profile", "", "named config profile providing base URL and headers")

	root.AddCommand(c.getCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.pagesCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.sitemapCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newResolver creates the HTTP link resolver commands traverse with,
// honoring the cache settings and the selected profile.
func (c *CLI) newResolver(noCache bool) (*halclient.Client, error) {
	opts := []halclient.Option{
		halclient.WithLogger(c.Logger),
		halclient.WithUserAgent(appName + "/" + buildinfo.Version),
	}

	if profile, ok, err := c.config.Profile(c.profile); err != nil {
		return nil, err
	} else if ok && len(profile.Headers) > 0 {
		opts = append(opts, halclient.WithHeaders(profile.Headers))
	}

	if store, ttl := c.newCache(noCache); store != nil {
		opts = append(opts, halclient.WithCache(store, ttl))
	}
	return halclient.New(opts...), nil
}

// newCache builds the response cache per config. A nil return disables
// caching entirely instead of routing through a NullCache, so the client
// skips the lookup.
func (c *CLI) newCache(noCache bool) (cache.Cache, time.Duration) {
	if noCache || !c.config.Cache.Enabled {
		return nil, 0
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("cannot determine cache directory, caching disabled", "error", err)
		return nil, 0
	}
	store, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cannot open cache, caching disabled", "dir", dir, "error", err)
		return nil, 0
	}
	return store, c.config.Cache.TTLOrDefault()
}

// resolveURL applies the selected profile's base URL to a possibly
// relative command-line argument.
func (c *CLI) resolveURL(arg string) (string, error) {
	profile, ok, err := c.config.Profile(c.profile)
	if err != nil {
		return "", err
	}
	if !ok || profile.BaseURL == "" {
		return arg, nil
	}
	return joinURL(profile.BaseURL, arg)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/waypost/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configPath returns the config file path using XDG standard
// (~/.config/waypost/config.toml).
func configPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}
