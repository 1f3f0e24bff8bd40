package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/graph"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/shape"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the label and short properties in node labels.
	// When false, only the node ID is shown.
	Detailed bool

	// MaxValueLen truncates property values in detailed labels.
	// Zero means 40 characters.
	MaxValueLen int
}

// Properties never shown in detailed labels; they hold whole source files.
var hiddenProps = map[string]bool{
	graph.FieldID:              true,
	graph.FieldSource:          true,
	shape.FieldSourceCode:      true,
	shape.FieldNodeDescription: true,
}

// ToDOT converts a graph document to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
//
// Nodes are shaped first, so the diagram shows the labels an import would
// write; a node that cannot be shaped fails the conversion. Edges whose
// endpoints are not in the document are drawn dashed in red towards a
// dotted placeholder.
func ToDOT(doc *graph.Document, opts Options) (string, error) {
	nodes, err := shape.All(doc)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if known[n.ID] {
			continue
		}
		known[n.ID] = true
		attrs := fmtAttrs(n, fmtLabel(n, opts))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	missing := make(map[string]bool)
	buf.WriteString("\n")
	for _, e := range doc.Edges {
		attrs := []string{fmt.Sprintf("label=%q", e.RelType())}
		if !known[e.From] || !known[e.To] {
			attrs = append(attrs, "style=dashed", "color=red", "fontcolor=red")
			for _, id := range []string{e.From, e.To} {
				if !known[id] {
					missing[id] = true
				}
			}
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	if len(missing) > 0 {
		buf.WriteString("\n")
		for _, id := range sortedKeys(missing) {
			fmt.Fprintf(&buf, "  %q [style=dotted, fillcolor=none, fontcolor=red];\n", id)
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func fmtLabel(n shape.Shaped, opts Options) string {
	if !opts.Detailed {
		return n.ID
	}
	limit := opts.MaxValueLen
	if limit <= 0 {
		limit = 40
	}

	parts := []string{n.ID, ":" + n.Label}
	n.Properties.Each(func(k string, v graph.Value) {
		if hiddenProps[k] {
			return
		}
		parts = append(parts, fmt.Sprintf("%s: %s", k, truncate(v.Text(), limit)))
	})
	return strings.Join(parts, "\n")
}

func fmtAttrs(n shape.Shaped, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Kind {
	case shape.KindModule:
		attrs = append(attrs, "shape=folder", "fillcolor=lightyellow")
	case shape.KindStruct:
		attrs = append(attrs, "fillcolor=lightblue")
	case shape.KindFunction:
		attrs = append(attrs, "shape=ellipse", "style=filled", "fillcolor=honeydew")
	case shape.KindGeneric:
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n]) + "…"
	}
	return s
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
