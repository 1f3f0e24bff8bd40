package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/errors"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/graph"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/importer"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/pipeline"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var showDangling bool

	cmd := &cobra.Command{
		Use:   "validate [graph.json]",
		Short: "Check a program graph without importing it",
		Long: `Check a program graph without importing it.

Runs every check an import runs before it opens a transaction: the document
must decode, every node needs a string id, and labels and relationship types
must be plain identifiers. Edges whose endpoints are not declared in the
document are reported; they may still resolve against an existing graph.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), cmd.InOrStdin(), args[0], showDangling)
		},
	}

	cmd.Flags().BoolVar(&showDangling, "show-dangling", false, "list edges whose endpoints are not in the document")

	return cmd
}

func (c *CLI) runValidate(ctx context.Context, stdin io.Reader, input string, showDangling bool) error {
	logger := loggerFromContext(ctx)

	data, err := readInput(stdin, input)
	if err != nil {
		return err
	}
	doc, err := graph.Unmarshal(data)
	if err != nil {
		printError("%s is not a graph document", input)
		return err
	}
	logger.Debug("decoded document", "nodes", len(doc.Nodes), "edges", len(doc.Edges))

	if err := importer.Validate(doc); err != nil {
		printError("%s would be rejected", input)
		printDetail("%s (%s)", errors.UserMessage(err), errors.RootCode(err))
		return err
	}

	labels, err := pipeline.Labels(doc)
	if err != nil {
		return err
	}
	stats := doc.Stats()
	printSuccess("%s is valid", input)
	printStats(stats)
	printKeyValue("Labels", fmt.Sprint(labels))

	if len(stats.DuplicateID) > 0 {
		printWarning("%d ids are declared more than once; later records win", len(stats.DuplicateID))
		for _, id := range stats.DuplicateID {
			printDetail("%s", id)
		}
	}

	dangling := doc.DanglingEdges()
	if len(dangling) > 0 {
		printWarning("%d edges reference nodes outside this document", len(dangling))
		if showDangling {
			for _, e := range dangling {
				printDetail("%s", e)
			}
		}
	}
	return nil
}
