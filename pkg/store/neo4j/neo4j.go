// Package neo4j implements [store.Store] on a Neo4j database through the
// official Bolt driver.
//
// Every [Store.ExecuteWrite] call maps onto one managed write transaction.
// The driver may run the unit of work again after a transient failure, so
// callers must keep their per-attempt state inside the function.
//
// Labels and relationship types cannot be query parameters in Cypher. They
// are interpolated between backticks, and only after they pass the
// identifier check in pkg/errors; values always travel as parameters.
package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/cache"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/errors"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/graph"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/store"
)

// Default connection settings.
const (
	DefaultURI                   = "bolt://localhost:7687"
	DefaultUser                  = "neo4j"
	DefaultPassword              = "password"
	DefaultMaxConnectionPoolSize = 50
	DefaultConnectTimeout        = 5 * time.Second
)

// Config holds connection settings.
type Config struct {
	URI      string
	User     string
	Password string
	// Database selects the target database. Empty means the server default.
	Database              string
	MaxConnectionPoolSize int
	ConnectTimeout        time.Duration
}

// DefaultConfig returns the settings used when nothing else is configured.
func DefaultConfig() Config {
	return Config{
		URI:                   DefaultURI,
		User:                  DefaultUser,
		Password:              DefaultPassword,
		MaxConnectionPoolSize: DefaultMaxConnectionPoolSize,
		ConnectTimeout:        DefaultConnectTimeout,
	}
}

// Store is a Neo4j-backed graph store. It is safe for concurrent use; each
// ExecuteWrite gets its own session.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
}

// Open creates a driver and verifies that the server is reachable.
// Connectivity checks are retried with backoff before giving up.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		cfg.URI = DefaultURI
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""), func(c *neo4j.Config) {
		if cfg.MaxConnectionPoolSize > 0 {
			c.MaxConnectionPoolSize = cfg.MaxConnectionPoolSize
		}
		if cfg.ConnectTimeout > 0 {
			c.SocketConnectTimeout = cfg.ConnectTimeout
		}
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "create driver for %s", cfg.URI)
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		if err := driver.VerifyConnectivity(ctx); err != nil {
			if neo4j.IsConnectivityError(err) {
				return cache.Retryable(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		_ = driver.Close(ctx)
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "connect to %s", cfg.URI)
	}

	return &Store{driver: driver, database: cfg.Database}, nil
}

// Opener returns a [store.Opener] for cfg.
func Opener(cfg Config) store.Opener {
	return func(ctx context.Context) (store.Store, error) {
		return Open(ctx, cfg)
	}
}

// ExecuteWrite runs fn inside one managed write transaction.
func (s *Store) ExecuteWrite(ctx context.Context, fn store.TxFunc) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(mtx neo4j.ManagedTransaction) (any, error) {
		return nil, fn(ctx, &tx{mtx: mtx})
	})
	if err != nil && neo4j.IsConnectivityError(err) {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "write transaction")
	}
	return err
}

// Ping verifies that the server is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.driver.VerifyConnectivity(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "ping")
	}
	return nil
}

// EnsureIndexes creates an index on the id property of every label.
func (s *Store) EnsureIndexes(ctx context.Context, labels []string) error {
	for _, label := range labels {
		if err := errors.ValidateLabel(label); err != nil {
			return err
		}
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	for _, label := range labels {
		result, err := session.Run(ctx, indexQuery(label), nil)
		if err != nil {
			return fmt.Errorf("create index for %s: %w", label, err)
		}
		if _, err := result.Consume(ctx); err != nil {
			return fmt.Errorf("create index for %s: %w", label, err)
		}
	}
	return nil
}

// Close releases the driver's connection pool.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

type tx struct {
	mtx neo4j.ManagedTransaction
}

func (t *tx) UpsertNode(ctx context.Context, label string, props graph.Properties) (store.NodeOutcome, error) {
	props = props.Compact()
	result, err := t.mtx.Run(ctx, nodeQuery(label), nodeParams(props))
	if err != nil {
		return 0, fmt.Errorf("merge %s %s: %w", label, props.String(graph.FieldID), err)
	}
	summary, err := result.Consume(ctx)
	if err != nil {
		return 0, fmt.Errorf("merge %s %s: %w", label, props.String(graph.FieldID), err)
	}
	if summary.Counters().NodesCreated() > 0 {
		return store.NodeCreated, nil
	}
	return store.NodeMerged, nil
}

func (t *tx) UpsertEdge(ctx context.Context, fromID, toID, relType string) (store.EdgeOutcome, error) {
	if fromID == "" || toID == "" {
		return store.EdgeSkipped, nil
	}
	result, err := t.mtx.Run(ctx, edgeQuery(relType), edgeParams(fromID, toID))
	if err != nil {
		return 0, fmt.Errorf("merge edge %s-[%s]->%s: %w", fromID, relType, toID, err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, fmt.Errorf("merge edge %s-[%s]->%s: %w", fromID, relType, toID, err)
	}
	matched, _, err := neo4j.GetRecordValue[int64](record, "matched")
	if err != nil {
		return 0, fmt.Errorf("merge edge %s-[%s]->%s: %w", fromID, relType, toID, err)
	}
	summary, err := result.Consume(ctx)
	if err != nil {
		return 0, fmt.Errorf("merge edge %s-[%s]->%s: %w", fromID, relType, toID, err)
	}
	return edgeOutcome(matched, summary.Counters().RelationshipsCreated()), nil
}

func edgeOutcome(matched int64, created int) store.EdgeOutcome {
	switch {
	case matched == 0:
		return store.EdgeSkipped
	case created > 0:
		return store.EdgeCreated
	default:
		return store.EdgeExisting
	}
}

// =============================================================================
// Cypher
// =============================================================================

func quote(ident string) string {
	return "`" + ident + "`"
}

func nodeQuery(label string) string {
	return "MERGE (n:" + quote(label) + " {id: $id}) SET n += $props"
}

func nodeParams(props graph.Properties) map[string]any {
	return map[string]any{
		"id":    props.String(graph.FieldID),
		"props": props.Native(),
	}
}

func edgeQuery(relType string) string {
	return "MATCH (a {id: $from}) MATCH (b {id: $to}) " +
		"MERGE (a)-[r:" + quote(relType) + "]->(b) " +
		"RETURN count(r) AS matched"
}

func edgeParams(fromID, toID string) map[string]any {
	return map[string]any{"from": fromID, "to": toID}
}

func indexQuery(label string) string {
	return "CREATE INDEX " + quote("movegraph_"+label+"_id") +
		" IF NOT EXISTS FOR (n:" + quote(label) + ") ON (n.id)"
}

var (
	_ store.Store   = (*Store)(nil)
	_ store.Indexer = (*Store)(nil)
	_ store.Pinger  = (*Store)(nil)
)
