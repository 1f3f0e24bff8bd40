package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/graph"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/render/nodelink"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/shape"
)

// Preview output formats.
const (
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatJSON = "json"
)

// previewOpts holds the command-line flags for the preview command.
type previewOpts struct {
	output   string // output file; the extension picks the format
	format   string // explicit format, overrides the extension
	detailed bool   // show labels and short properties in diagrams
}

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var opts previewOpts

	cmd := &cobra.Command{
		Use:   "preview [graph.json]",
		Short: "Render a program graph as it would be imported",
		Long: `Render a program graph as it would be imported.

Formats:
  dot   Graphviz source (default when writing to stdout)
  svg   rendered diagram
  json  the document after shaping: labels, renamed and derived properties

The format follows the extension of --output unless --format is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := previewFormat(opts)
			if err != nil {
				return err
			}
			return c.runPreview(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], format, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg, json")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show labels and properties in diagram nodes")

	return cmd
}

// previewFormat resolves the output format from the flags.
func previewFormat(opts previewOpts) (string, error) {
	format := opts.format
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(opts.output), ".")
	}
	switch format {
	case "":
		return formatDOT, nil
	case formatDOT, formatSVG, formatJSON:
		return format, nil
	}
	return "", fmt.Errorf("invalid format: %s (must be 'dot', 'svg' or 'json')", format)
}

func (c *CLI) runPreview(ctx context.Context, stdin io.Reader, stdout io.Writer, input, format string, opts previewOpts) error {
	data, err := readInput(stdin, input)
	if err != nil {
		return err
	}
	doc, err := graph.Unmarshal(data)
	if err != nil {
		return err
	}

	out, err := renderPreview(ctx, doc, format, opts.detailed)
	if err != nil {
		return fmt.Errorf("preview %s: %w", input, err)
	}

	if opts.output == "" {
		_, err := stdout.Write(out)
		return err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Rendered %s", input)
	printFile(opts.output)
	return nil
}

// renderPreview produces the preview bytes in format.
func renderPreview(ctx context.Context, doc *graph.Document, format string, detailed bool) ([]byte, error) {
	switch format {
	case formatJSON:
		shaped, err := shapedDocument(doc)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := graph.WriteJSON(shaped, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case formatSVG:
		dot, err := nodelink.ToDOT(doc, nodelink.Options{Detailed: detailed})
		if err != nil {
			return nil, err
		}
		return nodelink.RenderSVG(ctx, dot)
	default:
		dot, err := nodelink.ToDOT(doc, nodelink.Options{Detailed: detailed})
		if err != nil {
			return nil, err
		}
		return []byte(dot), nil
	}
}

// shapedDocument returns doc with every node replaced by what an import
// writes for it.
func shapedDocument(doc *graph.Document) (*graph.Document, error) {
	nodes, err := shape.All(doc)
	if err != nil {
		return nil, err
	}
	out := &graph.Document{
		Nodes: make([]graph.NodeRecord, len(nodes)),
		Edges: make([]graph.EdgeRecord, len(doc.Edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = n.Record()
	}
	for i, e := range doc.Edges {
		e.Type = e.RelType()
		out.Edges[i] = e
	}
	return out, nil
}
