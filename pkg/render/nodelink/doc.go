// Package nodelink renders graph documents as node-link diagrams.
//
// # Overview
//
// This package produces directed graph previews using Graphviz, where
// modules, structs and functions appear as differently styled nodes
// connected by labeled arrows. It lets users check a scanner's output
// before importing it.
//
// # Usage
//
// Convert a document to DOT format, then render to SVG:
//
//	dot, err := nodelink.ToDOT(doc, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include the label and short properties
//   - MaxValueLen: Truncation length for property values in detailed labels
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
