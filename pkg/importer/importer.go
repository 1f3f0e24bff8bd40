// Package importer writes a graph document into a store in one transaction.
//
// An import runs in three steps:
//
//  1. Plan: every node is shaped and every relationship type checked. A bad
//     id, label or type fails the import before the store is touched.
//  2. Node phase: shaped nodes are upserted in document order.
//  3. Edge phase: edges are upserted in document order. Edges whose
//     endpoints are not in the store are skipped and reported, never fatal.
//
// Steps 2 and 3 share one write transaction. Any error rolls everything
// back and is returned as IMPORT_FAILED wrapping the cause.
//
// Re-importing the same document is a no-op apart from re-setting the same
// property values: nodes merge on (label, id) and edges are only created
// when absent.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/errors"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/graph"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/observability"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/shape"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/store"
)

// Importer runs imports. The zero value is not usable; call [New].
// An Importer holds no per-import state and may be shared between goroutines.
type Importer struct {
	Logger *log.Logger
	Hooks  observability.ImportHooks
}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the logger. Skipped edges are logged at debug level.
func WithLogger(l *log.Logger) Option {
	return func(im *Importer) {
		if l != nil {
			im.Logger = l
		}
	}
}

// WithHooks overrides the globally registered import hooks.
func WithHooks(h observability.ImportHooks) Option {
	return func(im *Importer) {
		if h != nil {
			im.Hooks = h
		}
	}
}

// New creates an importer. Without options it logs to log.Default() and
// reports to the hooks registered in the observability package.
func New(opts ...Option) *Importer {
	im := &Importer{}
	for _, opt := range opts {
		opt(im)
	}
	if im.Logger == nil {
		im.Logger = log.Default()
	}
	return im
}

func (im *Importer) hooks() observability.ImportHooks {
	if im.Hooks != nil {
		return im.Hooks
	}
	return observability.Import()
}

// Import writes doc into st as a single transaction.
//
// On success the returned Result describes what changed. On failure nothing
// is written and the error carries IMPORT_FAILED; [errors.RootCode] yields
// the underlying cause (INVALID_NODE, INVALID_LABEL, STORE_UNAVAILABLE, ...).
func (im *Importer) Import(ctx context.Context, st store.Store, doc *graph.Document) (*Result, error) {
	id := uuid.NewString()
	start := time.Now()
	hooks := im.hooks()

	if doc == nil {
		err := errors.Wrap(errors.ErrCodeImportFailed,
			errors.New(errors.ErrCodeInvalidDocument, "no document"), "import %s", id)
		hooks.OnImportComplete(ctx, id, observability.ImportSummary{}, 0, err)
		return nil, err
	}

	hooks.OnImportStart(ctx, id, len(doc.Nodes), len(doc.Edges))
	im.Logger.Debug("import started", "import_id", id, "nodes", len(doc.Nodes), "edges", len(doc.Edges))

	res, err := im.run(ctx, st, doc, id)
	duration := time.Since(start)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeImportFailed, err, "import %s", id)
		im.Logger.Error("import failed", "import_id", id, "err", err, "duration", duration)
		hooks.OnImportComplete(ctx, id, observability.ImportSummary{}, duration, err)
		return nil, err
	}
	res.Duration = duration

	for _, s := range res.Skipped {
		im.Logger.Debug("skipped edge", "import_id", id, "from", s.From, "to", s.To, "type", s.Type)
		hooks.OnEdgeSkipped(ctx, id, s.From, s.To, s.Type)
	}
	im.Logger.Info("import committed",
		"import_id", id,
		"nodes_created", res.NodesCreated,
		"nodes_merged", res.NodesMerged,
		"edges_created", res.EdgesCreated,
		"edges_skipped", res.EdgesSkipped,
		"duration", duration)
	hooks.OnImportComplete(ctx, id, res.Summary(), duration, nil)
	return res, nil
}

func (im *Importer) run(ctx context.Context, st store.Store, doc *graph.Document, id string) (*Result, error) {
	p, err := newPlan(doc)
	if err != nil {
		return nil, err
	}

	var res *Result
	err = st.ExecuteWrite(ctx, func(ctx context.Context, tx store.Tx) error {
		// The store may retry the unit of work; start every attempt clean.
		res = newResult(id)
		if err := p.writeNodes(ctx, tx, res); err != nil {
			return err
		}
		return p.writeEdges(ctx, tx, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// =============================================================================
// Plan
// =============================================================================

type plan struct {
	nodes []shape.Shaped
	edges []edgeSpec
}

type edgeSpec struct {
	index   int
	from    string
	to      string
	relType string
}

// Validate runs the planning step alone: it reports the error an import of
// doc would abort with, without touching a store.
func Validate(doc *graph.Document) error {
	if doc == nil {
		return errors.New(errors.ErrCodeInvalidDocument, "nil document")
	}
	_, err := newPlan(doc)
	return err
}

func newPlan(doc *graph.Document) (*plan, error) {
	nodes, err := shape.All(doc)
	if err != nil {
		return nil, err
	}
	p := &plan{
		nodes: nodes,
		edges: make([]edgeSpec, 0, len(doc.Edges)),
	}
	for i, e := range doc.Edges {
		spec, err := materialize(i, e)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		p.edges = append(p.edges, spec)
	}
	return p, nil
}

// materialize resolves an edge record into what will be written: the
// relationship type defaults to RELATED_TO and must be a safe identifier.
func materialize(index int, e graph.EdgeRecord) (edgeSpec, error) {
	rel := e.RelType()
	if err := errors.ValidateRelationshipType(rel); err != nil {
		return edgeSpec{}, err
	}
	return edgeSpec{index: index, from: e.From, to: e.To, relType: rel}, nil
}

func (p *plan) writeNodes(ctx context.Context, tx store.Tx, res *Result) error {
	for _, n := range p.nodes {
		out, err := tx.UpsertNode(ctx, n.Label, n.Properties)
		if err != nil {
			return fmt.Errorf("upsert %s %s: %w", n.Label, n.ID, err)
		}
		res.recordNode(n.Label, out)
	}
	return nil
}

func (p *plan) writeEdges(ctx context.Context, tx store.Tx, res *Result) error {
	for _, e := range p.edges {
		out := store.EdgeSkipped
		if e.from != "" && e.to != "" {
			var err error
			out, err = tx.UpsertEdge(ctx, e.from, e.to, e.relType)
			if err != nil {
				return fmt.Errorf("upsert edge %s-[%s]->%s: %w", e.from, e.relType, e.to, err)
			}
		}
		res.recordEdge(e, out)
	}
	return nil
}
