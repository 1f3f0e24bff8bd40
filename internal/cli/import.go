package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/config"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/graph"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/pipeline"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/store"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/store/memory"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/store/neo4j"
)

// dryRunTarget scopes dry runs; they never touch the ledger.
const dryRunTarget = "memory"

// connFlags are the Neo4j connection overrides shared by import and serve.
type connFlags struct {
	uri      string
	user     string
	password string
	database string
}

func (f *connFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.uri, "neo4j-uri", "", "Neo4j bolt URI (env "+config.EnvNeo4jURI+")")
	cmd.Flags().StringVar(&f.user, "neo4j-user", "", "Neo4j user (env "+config.EnvNeo4jUser+")")
	cmd.Flags().StringVar(&f.password, "neo4j-pass", "", "Neo4j password (env "+config.EnvNeo4jPass+")")
	cmd.Flags().StringVar(&f.database, "database", "", "Neo4j database (default: server default)")
}

// apply overrides cfg with the flags that were set.
func (f *connFlags) apply(cfg *config.Config) {
	if f.uri != "" {
		cfg.Neo4j.URI = f.uri
	}
	if f.user != "" {
		cfg.Neo4j.User = f.user
	}
	if f.password != "" {
		cfg.Neo4j.Password = f.password
	}
	if f.database != "" {
		cfg.Neo4j.Database = f.database
	}
}

// importOpts holds the command-line flags for the import command.
type importOpts struct {
	conn          connFlags
	dryRun        bool // import into an in-memory store instead of Neo4j
	ensureIndexes bool // create id indexes for every label first
	skipUnchanged bool // skip documents already recorded in the ledger
	noLedger      bool // neither read nor write the ledger
	strict        bool // fail when any edge was skipped
	showSkipped   bool // list skipped edges
}

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var opts importOpts

	cmd := &cobra.Command{
		Use:   "import [graph.json]",
		Short: "Import a program graph into Neo4j",
		Long: `Import a program graph into Neo4j.

All nodes are merged on (label, id) and all edges created if absent, inside
a single transaction: either the whole document is written or nothing is.
Edges whose endpoints do not exist are skipped and reported.

Use "-" to read the document from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd.Context(), cmd.InOrStdin(), args[0], opts)
		},
	}

	opts.conn.register(cmd)
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "import into an in-memory store and report the result")
	cmd.Flags().BoolVar(&opts.ensureIndexes, "ensure-indexes", false, "create id indexes for every label before importing")
	cmd.Flags().BoolVar(&opts.skipUnchanged, "skip-unchanged", false, "skip documents already imported into the same database")
	cmd.Flags().BoolVar(&opts.noLedger, "no-ledger", false, "do not read or write the import ledger")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with an error when any edge was skipped")
	cmd.Flags().BoolVar(&opts.showSkipped, "show-skipped", false, "list skipped edges")

	return cmd
}

// runImport loads the document and imports it.
func (c *CLI) runImport(ctx context.Context, stdin io.Reader, input string, opts importOpts) error {
	logger := loggerFromContext(ctx)

	data, err := readInput(stdin, input)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts.conn.apply(cfg)

	runOpts := pipeline.Options{
		Target:        cfg.Neo4j.Target(),
		SkipUnchanged: opts.skipUnchanged,
		EnsureIndexes: opts.ensureIndexes,
		TTL:           cfg.Ledger.TTL.Duration,
	}
	open := neo4j.Opener(cfg.Neo4j.StoreConfig())
	if opts.dryRun {
		open = memory.Open
		runOpts.Target = dryRunTarget
		runOpts.SkipUnchanged = false
		opts.noLedger = true
	}

	runner, err := c.newRunner(ctx, cfg, opts.noLedger)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	var res *pipeline.Result
	err = store.Use(ctx, open, func(st store.Store) error {
		spinner := newSpinnerWithContext(ctx, "Importing "+input+"...")
		spinner.Start()
		var err error
		res, err = runner.Execute(ctx, st, data, runOpts)
		if err != nil {
			spinner.StopWithError("Import failed")
			return err
		}
		spinner.Stop()
		return nil
	})
	if err != nil {
		return fmt.Errorf("import %s: %w", input, err)
	}

	if res.LedgerHit {
		printInfo("Unchanged since import %s", StyleValue.Render(res.Previous.ImportID))
		printDetail("Imported %s into %s", res.Previous.CompletedAt.Local().Format("2006-01-02 15:04:05"), res.Previous.Target)
		return nil
	}

	msg := "Import committed"
	if opts.dryRun {
		msg = "Dry run complete"
	}
	prog.done(msg, "target", runOpts.Target, "nodes", res.Import.Nodes(), "edges", res.Import.Edges())
	printImportResult(res)
	if opts.showSkipped {
		printSkipped(res.Import.Skipped)
	}

	if opts.strict && res.Import.EdgesSkipped > 0 {
		return fmt.Errorf("%d edges skipped (strict mode)", res.Import.EdgesSkipped)
	}
	return nil
}

// readInput returns the bytes of the document at path, or of stdin for "-".
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		return io.ReadAll(stdin)
	}
	return graph.ReadFile(path)
}
