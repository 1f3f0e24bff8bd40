package importer

import (
	"time"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/observability"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/store"
)

// Result describes a committed import.
type Result struct {
	ImportID string `json:"import_id"`

	NodesCreated int `json:"nodes_created"`
	NodesMerged  int `json:"nodes_merged"`

	EdgesCreated  int `json:"edges_created"`
	EdgesExisting int `json:"edges_existing"`
	EdgesSkipped  int `json:"edges_skipped"`

	// Skipped lists edges that were not written because an endpoint id
	// matched no node. It has EdgesSkipped entries.
	Skipped []SkippedEdge `json:"skipped,omitempty"`

	// Labels counts upserted nodes per label.
	Labels map[string]int `json:"labels"`

	Duration time.Duration `json:"duration_ns"`
}

// SkippedEdge identifies a dangling edge by its position in the document.
type SkippedEdge struct {
	Index int    `json:"index"`
	From  string `json:"from"`
	To    string `json:"to"`
	Type  string `json:"type"`
}

func newResult(id string) *Result {
	return &Result{ImportID: id, Labels: make(map[string]int)}
}

// Nodes returns the number of node records written.
func (r *Result) Nodes() int { return r.NodesCreated + r.NodesMerged }

// Edges returns the number of edge records processed, skipped ones included.
func (r *Result) Edges() int { return r.EdgesCreated + r.EdgesExisting + r.EdgesSkipped }

// Summary converts r into the counters reported to observability hooks.
func (r *Result) Summary() observability.ImportSummary {
	return observability.ImportSummary{
		NodesCreated:  r.NodesCreated,
		NodesMerged:   r.NodesMerged,
		EdgesCreated:  r.EdgesCreated,
		EdgesExisting: r.EdgesExisting,
		EdgesSkipped:  r.EdgesSkipped,
	}
}

func (r *Result) recordNode(label string, out store.NodeOutcome) {
	switch out {
	case store.NodeCreated:
		r.NodesCreated++
	case store.NodeMerged:
		r.NodesMerged++
	}
	r.Labels[label]++
}

func (r *Result) recordEdge(e edgeSpec, out store.EdgeOutcome) {
	switch out {
	case store.EdgeCreated:
		r.EdgesCreated++
	case store.EdgeExisting:
		r.EdgesExisting++
	case store.EdgeSkipped:
		r.EdgesSkipped++
		r.Skipped = append(r.Skipped, SkippedEdge{Index: e.index, From: e.from, To: e.to, Type: e.relType})
	}
}
