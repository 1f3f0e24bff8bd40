// Package store defines the graph-store write interface used by imports.
//
// A [Store] hands out one transaction at a time through [Store.ExecuteWrite].
// Inside it, a [Tx] offers exactly two mutations:
//
//   - UpsertNode merges a node keyed by (label, id). New keys are added,
//     existing keys are overwritten, untouched keys stay. Nothing is deleted.
//   - UpsertEdge resolves both endpoints by id (any label) and creates the
//     typed relationship unless it already exists for that ordered pair.
//     A missing endpoint is not an error; the outcome is [EdgeSkipped].
//
// Implementations live in subpackages: memory (in-process, used for tests
// and dry runs) and neo4j.
//
// Stores are scoped resources. Open one per command or server lifetime,
// pass it explicitly, and close it when done; [Use] does both.
package store

import (
	"context"
	"fmt"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/graph"
)

// NodeOutcome reports what UpsertNode did.
type NodeOutcome int

// Node outcomes.
const (
	NodeCreated NodeOutcome = iota + 1
	NodeMerged
)

func (o NodeOutcome) String() string {
	switch o {
	case NodeCreated:
		return "created"
	case NodeMerged:
		return "merged"
	}
	return "unknown"
}

// EdgeOutcome reports what UpsertEdge did.
type EdgeOutcome int

// Edge outcomes.
const (
	EdgeCreated EdgeOutcome = iota + 1
	EdgeExisting
	EdgeSkipped
)

func (o EdgeOutcome) String() string {
	switch o {
	case EdgeCreated:
		return "created"
	case EdgeExisting:
		return "existing"
	case EdgeSkipped:
		return "skipped"
	}
	return "unknown"
}

// Tx is the write surface available inside one transaction.
//
// Callers must pass labels and relationship types that already passed
// errors.ValidateLabel / errors.ValidateRelationshipType.
type Tx interface {
	UpsertNode(ctx context.Context, label string, props graph.Properties) (NodeOutcome, error)
	UpsertEdge(ctx context.Context, fromID, toID, relType string) (EdgeOutcome, error)
}

// TxFunc is the unit of work run by [Store.ExecuteWrite].
// Implementations may run it more than once on transient failures, so it
// must reset any state it accumulates.
type TxFunc func(ctx context.Context, tx Tx) error

// Store is a transactional graph store.
type Store interface {
	// ExecuteWrite runs fn in a single write transaction. If fn returns an
	// error, or committing fails, none of fn's mutations are kept.
	ExecuteWrite(ctx context.Context, fn TxFunc) error

	// Close releases the store's connections.
	Close(ctx context.Context) error
}

// Indexer is implemented by stores that can index node ids per label.
type Indexer interface {
	EnsureIndexes(ctx context.Context, labels []string) error
}

// Pinger is implemented by stores that can check their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Opener acquires a store.
type Opener func(ctx context.Context) (Store, error)

// Use opens a store, runs fn with it, and always closes it afterwards.
// A close failure is reported only when fn itself succeeded.
func Use(ctx context.Context, open Opener, fn func(Store) error) (err error) {
	st, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(ctx); cerr != nil && err == nil {
			err = fmt.Errorf("close store: %w", cerr)
		}
	}()
	return fn(st)
}
