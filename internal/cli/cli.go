package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pageflow/pkg/buildinfo"
	"github.com/matzehuels/pageflow/pkg/cache"
	"github.com/matzehuels/pageflow/pkg/config"
	"github.com/matzehuels/pageflow/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "pageflow"

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

	// configPath is the --config flag. Empty means config.DefaultPath.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Pageflow paginates document trees into printable pages",
		Long:         `Pageflow slices JSON or Markdown documents into fixed-size page fragments, repeating headers and footers and resolving page numbers.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.paginateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration selected by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	if noCache {
		cfg.Cache.Backend = config.BackendNone
	}
	store, keyer, err := openCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// openCache opens the cache backend named by cfg.
func openCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, cache.Keyer, error) {
	keyer := cache.NewDefaultKeyer()
	if cfg.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, cfg.Prefix)
	}

	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), keyer, nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open redis cache: %w", err)
		}
		return rc, keyer, nil
	default:
		fc, err := cache.NewFileCache(cfg.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open file cache: %w", err)
		}
		return fc, keyer, nil
	}
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions derives pipeline options from the configuration.
func baseOptions(cfg config.Config) (pipeline.Options, error) {
	size, err := cfg.PageSize()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		PageSize:     size,
		Metrics:      cfg.Text,
		MaxFragments: cfg.Pagination.MaxFragments,
		CacheTTL:     cfg.Cache.TTL.Duration,
	}, nil
}
