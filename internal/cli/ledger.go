package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/cache"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/config"
)

// ledgerCommand creates the ledger management command.
func (c *CLI) ledgerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Manage the import ledger",
		Long: `Manage the import ledger.

The ledger remembers which document bytes were imported into which database,
so that "import --skip-unchanged" can skip work that is already done.`,
	}

	cmd.AddCommand(c.ledgerClearCommand())
	cmd.AddCommand(c.ledgerPathCommand())

	return cmd
}

// ledgerClearCommand creates the "ledger clear" subcommand.
func (c *CLI) ledgerClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget all recorded imports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return runLedgerClear(cmd.Context(), cfg)
		},
	}
}

func runLedgerClear(ctx context.Context, cfg *config.Config) error {
	if cfg.Ledger.Backend == config.LedgerNone {
		printInfo("Ledger is disabled")
		return nil
	}

	ledger, err := newLedger(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer ledger.Close()

	clearer, ok := ledger.(cache.Clearer)
	if !ok {
		return fmt.Errorf("ledger backend %q cannot be cleared", cfg.Ledger.Backend)
	}
	n, err := clearer.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	if n == 0 {
		printInfo("Ledger is empty")
		return nil
	}
	printSuccess("Cleared %d ledger entries", n)
	printDetail("Backend: %s", ledgerLocation(cfg))
	return nil
}

// ledgerPathCommand creates the "ledger path" subcommand.
func (c *CLI) ledgerPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the ledger is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ledgerLocation(cfg))
			return nil
		},
	}
}

// ledgerLocation describes the configured ledger backend.
func ledgerLocation(cfg *config.Config) string {
	switch cfg.Ledger.Backend {
	case config.LedgerNone:
		return config.LedgerNone
	case config.LedgerRedis:
		return "redis://" + cfg.Ledger.RedisAddr
	}
	dir, err := cfg.LedgerDir()
	if err != nil {
		return "unavailable: " + err.Error()
	}
	return dir
}
