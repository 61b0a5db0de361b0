// Package cli implements the assetforge command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/assetforge/assetforge/pkg/buildinfo"
	"github.com/assetforge/assetforge/pkg/cache"
	"github.com/assetforge/assetforge/pkg/fetch"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "assetforge"

	// defaultManifest is the manifest file looked up when -m is not given.
	defaultManifest = "assetforge.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "assetforge",
		Short:        "Assetforge bundles web assets in dependency order",
		Long:         `Assetforge is a CLI tool for concatenating JS and CSS assets into bundles whose internal and mutual ordering respects declared module dependencies.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.orderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Fetcher Factory
// =============================================================================

// newFetcher creates the fetcher used for remote assets. Fetched content is
// cached on disk (or in Redis when an address is given) so repeated builds
// skip the network; --no-cache swaps in the null backend, keeping the
// retry policy.
func (c *CLI) newFetcher(ctx context.Context, noCache bool, redisAddr string) fetch.TextFetcher {
	store, err := newCache(ctx, noCache, redisAddr)
	if err != nil {
		c.Logger.Warn("fetch cache unavailable, continuing without", "err", err)
		store = cache.NewNullCache()
	}
	return fetch.NewCachingFetcher(fetch.NewClient(), store, fetch.DefaultTTL)
}

func newCache(ctx context.Context, noCache bool, redisAddr string) (cache.Cache, error) {
	switch {
	case noCache:
		return cache.NewNullCache(), nil
	case redisAddr != "":
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr, Prefix: appName + ":"})
	default:
		dir, err := cacheDir()
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/assetforge/).
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

// manifestPath resolves the manifest argument, falling back to the default
// file in the working directory.
func manifestPath(arg string) string {
	if arg != "" {
		return arg
	}
	return defaultManifest
}
