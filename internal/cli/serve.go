package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/internal/server"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/store"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/store/memory"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/store/neo4j"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	conn          connFlags
	addr          string
	memory        bool // serve against an in-memory store
	ensureIndexes bool
	skipUnchanged bool
	noLedger      bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept program graphs over HTTP",
		Long: `Accept program graphs over HTTP.

Endpoints:
  POST /v1/imports   import the JSON graph document in the request body
  GET  /healthz      service and store status

Query parameters skip_unchanged and ensure_indexes override the flags of the
same name per request. The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	opts.conn.register(cmd)
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&opts.memory, "memory", false, "use an in-memory store instead of Neo4j")
	cmd.Flags().BoolVar(&opts.ensureIndexes, "ensure-indexes", false, "create id indexes before each import")
	cmd.Flags().BoolVar(&opts.skipUnchanged, "skip-unchanged", false, "skip documents already imported")
	cmd.Flags().BoolVar(&opts.noLedger, "no-ledger", false, "do not read or write the import ledger")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts.conn.apply(cfg)
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}

	target := cfg.Neo4j.Target()
	open := neo4j.Opener(cfg.Neo4j.StoreConfig())
	if opts.memory {
		open = memory.Open
		target = dryRunTarget
		opts.noLedger = true
	}

	runner, err := c.newRunner(ctx, cfg, opts.noLedger)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	return store.Use(ctx, open, func(st store.Store) error {
		srv := server.New(runner, st, c.Logger, server.Options{
			Addr:          cfg.Server.Addr,
			MaxBodyBytes:  cfg.Server.MaxBodyBytes,
			Target:        target,
			SkipUnchanged: opts.skipUnchanged,
			EnsureIndexes: opts.ensureIndexes,
		})
		printInfo("Serving on %s", StyleHighlight.Render(cfg.Server.Addr))
		printDetail("Store: %s", target)
		return srv.ListenAndServe(ctx)
	})
}
