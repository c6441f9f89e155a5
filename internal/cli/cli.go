// Package cli implements the canopy command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/buildinfo"
	"github.com/matzehuels/canopy/pkg/cache"
	"github.com/matzehuels/canopy/pkg/config"
	"github.com/matzehuels/canopy/pkg/observability"
	"github.com/matzehuels/canopy/pkg/pipeline"
	"github.com/matzehuels/canopy/pkg/session"
	"github.com/matzehuels/canopy/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

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

	// Config is loaded by the root command before any subcommand runs.
	Config config.Config

	configPath  string
	metricsFile string
	verbose     bool
	metrics     *observability.PrometheusHooks
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	build := buildinfo.Get()
	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Canopy edits and lays out mind-map diagrams",
		Long:          `Canopy is a CLI for creating, inspecting, laying out and editing hierarchical diagram documents stored as JSON.`,
		Version:       build.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.flushMetrics()
		},
	}

	root.SetVersionTemplate(build.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/canopy/config.toml)")
	flags.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics in textfile format on exit")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.fitCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration, applies the log level and registers metrics
// hooks. It runs once per invocation before the selected subcommand.
func (c *CLI) setup(cmd *cobra.Command) error {
	if cmd.Annotations[annotationSkipConfig] == "" {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		c.Config = cfg
	}

	level := LogInfo
	if parsed, err := log.ParseLevel(c.Config.Log.Level); err == nil {
		level = parsed
	}
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)

	if c.metricsFile != "" {
		c.metrics = observability.NewPrometheusHooks()
		observability.SetEditorHooks(c.metrics)
		observability.SetCacheHooks(c.metrics)
		observability.SetStoreHooks(c.metrics)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

func (c *CLI) flushMetrics() error {
	if c.metrics == nil {
		return nil
	}
	if err := c.metrics.WriteTextfile(c.metricsFile); err != nil {
		return err
	}
	c.Logger.Debug("metrics written", "path", c.metricsFile)
	return nil
}

// =============================================================================
// Factories
// =============================================================================

// sessionOptions builds session options from the loaded configuration.
func (c *CLI) sessionOptions(title string) (session.Options, error) {
	lopts, err := c.Config.LayoutOptions()
	if err != nil {
		return session.Options{}, err
	}
	return session.Options{
		Title:           title,
		Logger:          c.Logger,
		HistoryCapacity: c.Config.History.Capacity,
		Limits:          c.Config.Limits,
		Layout:          lopts,
	}, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, c.keyer(), c.Logger)
	if c.Config.Cache.TTL > 0 {
		r.TTL = c.Config.Cache.TTL
	}
	return r, nil
}

// keyer scopes cache keys with the configured prefix so several tools can
// share one Redis database.
func (c *CLI) keyer() cache.Keyer {
	if c.Config.Cache.KeyPrefix == "" {
		return cache.NewDefaultKeyer()
	}
	prefix := strings.TrimSuffix(c.Config.Cache.KeyPrefix, ":") + ":"
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), prefix)
}

// newCache builds the configured cache backend. An unreachable Redis
// degrades to no caching rather than failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: c.Config.Cache.RedisAddr})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "addr", c.Config.Cache.RedisAddr, "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	default:
		dir, err := c.Config.CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// openStore opens the configured document store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	dir, err := c.Config.StoreDir()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, c.Config.Store, dir)
}
