// Package cache provides the import ledger: a content-addressed record of
// imports that already committed against a given store.
//
// A ledger entry is keyed by the hash of the graph document bytes together
// with the target database, so the same scanner output imported into two
// databases yields two entries. Values are small JSON summaries written by
// the pipeline runner after commit.
//
// # Backends
//
//   - [NullCache]: disabled ledger, every lookup misses
//   - [FileCache]: one JSON file per entry under a local directory (CLI)
//   - [RedisCache]: shared ledger for servers and CI fleets
//
// The package also hosts the retry helpers used by remote backends and the
// graph store connection ([Retry], [RetryWithBackoff], [Retryable]).
package cache

import (
	"context"
	"time"
)

// Default time-to-live values for ledger entries.
const (
	// TTLImport is how long a completed import is remembered.
	TTLImport = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of 0 means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives ledger keys.
type Keyer interface {
	// ImportKey returns the key of an import of a document with content
	// hash docHash into target (a store URI plus database name).
	ImportKey(docHash, target string) string
}

// DefaultKeyer generates "import:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ImportKey implements [Keyer].
func (DefaultKeyer) ImportKey(docHash, target string) string {
	return hashKey("import", docHash, target)
}

// Clearer is implemented by backends that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
