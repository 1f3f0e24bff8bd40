// Package pipeline runs imports behind the import ledger.
//
// Both the CLI and the ingest server go through a [Runner] so that ledger
// lookups, index creation and logging behave the same everywhere.
//
// # Stages
//
//  1. Ledger lookup: with SkipUnchanged, a document whose exact bytes were
//     already imported into the same target is not imported again.
//  2. Parse: the bytes are decoded into a graph document.
//  3. Indexes: optionally, an id index is created for every label.
//  4. Import: one transaction through the importer.
//  5. Ledger record: the committed import is remembered.
//
// # Usage
//
//	runner := pipeline.NewRunner(ledger, nil, logger)
//	res, err := runner.Execute(ctx, st, data, pipeline.Options{
//	    Target:        cfg.Neo4j.Target(),
//	    SkipUnchanged: true,
//	})
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/graph"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/importer"
)

// ledgerKeyType is the key type reported to cache hooks.
const ledgerKeyType = "import"

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	// Target identifies the store being written; it scopes ledger keys.
	Target string `json:"target"`

	// SkipUnchanged skips the import when the ledger already holds an entry
	// for the same document bytes and target.
	SkipUnchanged bool `json:"skip_unchanged,omitempty"`

	// EnsureIndexes creates id indexes for the document's labels first.
	EnsureIndexes bool `json:"ensure_indexes,omitempty"`

	// TTL overrides how long the ledger remembers the import.
	TTL time.Duration `json:"-"`

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `json:"-"`
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Import is the importer's result. It is nil when the ledger hit.
	Import *importer.Result `json:"import,omitempty"`

	// DocumentHash is the SHA-256 of the document bytes.
	DocumentHash string `json:"document_hash"`

	// Stats summarizes the document. It is zero when the ledger hit.
	Stats graph.Stats `json:"stats"`

	// LedgerHit reports that the import was skipped as unchanged.
	LedgerHit bool `json:"ledger_hit"`

	// Previous is the ledger entry that caused the skip.
	Previous *LedgerEntry `json:"previous,omitempty"`
}

// LedgerEntry is what the ledger stores for a committed import.
type LedgerEntry struct {
	ImportID     string    `json:"import_id"`
	DocumentHash string    `json:"document_hash"`
	Target       string    `json:"target"`
	Nodes        int       `json:"nodes"`
	Edges        int       `json:"edges"`
	EdgesSkipped int       `json:"edges_skipped"`
	CompletedAt  time.Time `json:"completed_at"`
}
