// Package pkg provides the libraries behind movegraph, the Sui Move program
// graph importer.
//
// # Overview
//
// The Sui Move scanner emits a JSON document of nodes (modules, structs,
// functions and anything else it learns to recognize) and edges between
// them. movegraph loads that document into Neo4j so it can be queried as a
// knowledge graph. The pkg directory is organized as:
//
//  1. [graph] - The document model: ordered property maps and typed values
//  2. [shape] - Turning raw node records into labels and properties
//  3. [store] - The transactional write interface, with memory and neo4j
//  4. [importer] - One import as one transaction
//  5. [pipeline] - Imports behind the import ledger, shared by CLI and server
//
// # Architecture
//
// The typical data flow:
//
//	scanner output (graph.json)
//	         ↓
//	    [graph] package (decode, keep field order)
//	         ↓
//	    [shape] package (label, renamed and derived properties)
//	         ↓
//	    [importer] package (node phase, edge phase, one transaction)
//	         ↓
//	    [store] implementation (Neo4j)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/graph"
//	    "github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/importer"
//	    "github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/store/neo4j"
//	)
//
//	doc, _ := graph.ReadJSONFile("res/output_graph.json")
//	st, _ := neo4j.Open(ctx, neo4j.DefaultConfig())
//	defer st.Close(ctx)
//	res, err := importer.New().Import(ctx, st, doc)
//
// # Supporting Packages
//
// [errors] - Coded errors and the identifier checks that keep labels and
// relationship types safe to interpolate into Cypher.
//
// [cache] - The import ledger (file, Redis or disabled) and retry helpers.
//
// [config] - Layered settings from defaults, TOML, .env and the environment.
//
// [observability] - Hooks for metrics and tracing, no-op by default.
//
// [render/nodelink] - DOT and SVG previews of a document.
//
// [buildinfo] - Version information injected at build time.
//
// [graph]: https://pkg.go.dev/github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/graph
// [shape]: https://pkg.go.dev/github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/shape
// [store]: https://pkg.go.dev/github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/store
// [importer]: https://pkg.go.dev/github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/importer
// [pipeline]: https://pkg.go.dev/github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/errors
// [cache]: https://pkg.go.dev/github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/cache
// [config]: https://pkg.go.dev/github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/config
// [observability]: https://pkg.go.dev/github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/observability
// [render/nodelink]: https://pkg.go.dev/github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/render/nodelink
// [buildinfo]: https://pkg.go.dev/github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/buildinfo
package pkg
