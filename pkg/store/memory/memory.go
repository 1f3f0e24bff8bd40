// Package memory implements an in-process transactional graph store.
//
// It mirrors the merge semantics of the Neo4j store closely enough to serve
// as the reference in tests and to back dry runs. Each ExecuteWrite works on
// a private copy of the graph and swaps it in only when the unit of work
// succeeds, so a failed import leaves no trace.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/graph"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/store"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("memory store closed")

// NodeKey identifies a stored node.
type NodeKey struct {
	Label string
	ID    string
}

// Edge is a stored relationship between two nodes.
type Edge struct {
	From NodeKey
	To   NodeKey
	Type string
}

// Node is a stored node.
type Node struct {
	Label      string
	ID         string
	Properties graph.Properties
}

type state struct {
	nodes map[NodeKey]graph.Properties
	order []NodeKey // creation order
	byID  map[string][]NodeKey
	edges map[Edge]struct{}
	eseq  []Edge // creation order
}

func newState() *state {
	return &state{
		nodes: make(map[NodeKey]graph.Properties),
		byID:  make(map[string][]NodeKey),
		edges: make(map[Edge]struct{}),
	}
}

func (s *state) clone() *state {
	c := &state{
		nodes: make(map[NodeKey]graph.Properties, len(s.nodes)),
		order: append([]NodeKey(nil), s.order...),
		byID:  make(map[string][]NodeKey, len(s.byID)),
		edges: make(map[Edge]struct{}, len(s.edges)),
		eseq:  append([]Edge(nil), s.eseq...),
	}
	for k, p := range s.nodes {
		c.nodes[k] = p.Clone()
	}
	for id, keys := range s.byID {
		c.byID[id] = append([]NodeKey(nil), keys...)
	}
	for e := range s.edges {
		c.edges[e] = struct{}{}
	}
	return c
}

// Store is an in-memory graph store. It is safe for concurrent use;
// transactions are serialized.
type Store struct {
	mu     sync.Mutex
	st     *state
	closed bool
}

// New returns an empty store.
func New() *Store {
	return &Store{st: newState()}
}

// Open is a [store.Opener] that returns a fresh empty store.
func Open(context.Context) (store.Store, error) {
	return New(), nil
}

// ExecuteWrite runs fn against a copy of the graph and commits the copy when
// fn returns nil.
func (s *Store) ExecuteWrite(ctx context.Context, fn store.TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	work := s.st.clone()
	if err := fn(ctx, &tx{st: work}); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Close marks the store closed. Stored data stays readable.
func (s *Store) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Ping reports ErrClosed once the store is closed.
func (s *Store) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// EnsureIndexes is a no-op; lookups are map-based.
func (s *Store) EnsureIndexes(context.Context, []string) error { return nil }

// Node returns the properties of the node with label and id.
func (s *Store) Node(label, id string) (graph.Properties, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.st.nodes[NodeKey{Label: label, ID: id}]
	if !ok {
		return graph.Properties{}, false
	}
	return p.Clone(), true
}

// Nodes returns all nodes in creation order.
func (s *Store) Nodes() []Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Node, 0, len(s.st.order))
	for _, k := range s.st.order {
		out = append(out, Node{Label: k.Label, ID: k.ID, Properties: s.st.nodes[k].Clone()})
	}
	return out
}

// Edges returns all relationships in creation order.
func (s *Store) Edges() []Edge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Edge(nil), s.st.eseq...)
}

// HasEdge reports whether a relationship of relType runs from any node with
// id fromID to any node with id toID.
func (s *Store) HasEdge(fromID, toID, relType string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for e := range s.st.edges {
		if e.From.ID == fromID && e.To.ID == toID && e.Type == relType {
			return true
		}
	}
	return false
}

// NodeCount returns the number of stored nodes.
func (s *Store) NodeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.nodes)
}

// EdgeCount returns the number of stored relationships.
func (s *Store) EdgeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.edges)
}

// Labels returns the distinct labels in use, sorted.
func (s *Store) Labels() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{})
	for k := range s.st.nodes {
		seen[k.Label] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

type tx struct {
	st *state
}

func (t *tx) UpsertNode(ctx context.Context, label string, props graph.Properties) (store.NodeOutcome, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	props = props.Compact()
	key := NodeKey{Label: label, ID: props.String(graph.FieldID)}
	if existing, ok := t.st.nodes[key]; ok {
		existing.Merge(props)
		t.st.nodes[key] = existing
		return store.NodeMerged, nil
	}
	t.st.nodes[key] = props
	t.st.order = append(t.st.order, key)
	t.st.byID[key.ID] = append(t.st.byID[key.ID], key)
	return store.NodeCreated, nil
}

func (t *tx) UpsertEdge(ctx context.Context, fromID, toID, relType string) (store.EdgeOutcome, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	froms := t.lookup(fromID)
	tos := t.lookup(toID)
	if len(froms) == 0 || len(tos) == 0 {
		return store.EdgeSkipped, nil
	}

	outcome := store.EdgeExisting
	for _, a := range froms {
		for _, b := range tos {
			e := Edge{From: a, To: b, Type: relType}
			if _, ok := t.st.edges[e]; ok {
				continue
			}
			t.st.edges[e] = struct{}{}
			t.st.eseq = append(t.st.eseq, e)
			outcome = store.EdgeCreated
		}
	}
	return outcome, nil
}

// lookup finds every node with id, regardless of label, in creation order.
func (t *tx) lookup(id string) []NodeKey {
	if id == "" {
		return nil
	}
	return t.st.byID[id]
}

var (
	_ store.Store   = (*Store)(nil)
	_ store.Indexer = (*Store)(nil)
	_ store.Pinger  = (*Store)(nil)
)
