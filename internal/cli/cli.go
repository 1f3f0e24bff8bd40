package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/buildinfo"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/cache"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/config"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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

	// configPath is the --config flag; empty means ./movegraph.toml if present.
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
		Use:   appName,
		Short: "movegraph imports Sui Move program graphs into Neo4j",
		Long: `movegraph loads the JSON graph produced by the Sui Move scanner into a
Neo4j knowledge graph. Modules, structs and functions become labeled nodes,
relationships become typed edges, and every import runs in one transaction.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")

	root.AddCommand(c.importCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.ledgerCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the layered configuration for a command.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Source != "" {
		c.Logger.Debug("loaded config", "file", cfg.Source)
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured ledger.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noLedger bool) (*pipeline.Runner, error) {
	ledger, err := newLedger(ctx, cfg, noLedger)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ledger, newKeyer(cfg), c.Logger), nil
}

// newLedger opens the ledger backend named in cfg.
func newLedger(ctx context.Context, cfg *config.Config, disabled bool) (cache.Cache, error) {
	if disabled {
		return cache.NewNullCache(), nil
	}
	switch cfg.Ledger.Backend {
	case config.LedgerNone:
		return cache.NewNullCache(), nil
	case config.LedgerRedis:
		c, err := cache.NewRedisCache(ctx, cfg.Ledger.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("open redis ledger: %w", err)
		}
		return c, nil
	default:
		dir, err := cfg.LedgerDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// newKeyer scopes ledger keys when a prefix is configured.
func newKeyer(cfg *config.Config) cache.Keyer {
	if cfg.Ledger.Prefix != "" {
		return cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Ledger.Prefix)
	}
	return cache.NewDefaultKeyer()
}
