// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about imports, ledger lookups, and ingest requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so the importer and the
// stores stay free of any particular metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetImportHooks(&myImportHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Import().OnImportStart(ctx, importID, len(doc.Nodes), len(doc.Edges))
//	// ... run the transaction ...
//	observability.Import().OnImportComplete(ctx, importID, summary, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Import Hooks
// =============================================================================

// ImportSummary carries the counters of a finished import.
type ImportSummary struct {
	NodesCreated  int
	NodesMerged   int
	EdgesCreated  int
	EdgesExisting int
	EdgesSkipped  int
}

// ImportHooks receives events from graph imports.
type ImportHooks interface {
	// OnImportStart fires before the transaction begins.
	OnImportStart(ctx context.Context, importID string, nodes, edges int)

	// OnImportComplete fires after commit or rollback. The summary is zero
	// when err is non-nil.
	OnImportComplete(ctx context.Context, importID string, summary ImportSummary, duration time.Duration, err error)

	// OnEdgeSkipped fires for every edge whose endpoints could not be found.
	OnEdgeSkipped(ctx context.Context, importID, from, to, relType string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from import ledger operations.
type CacheHooks interface {
	// OnCacheHit records a ledger hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a ledger miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a ledger write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the ingest server.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response written for a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopImportHooks is a no-op implementation of ImportHooks.
type NoopImportHooks struct{}

func (NoopImportHooks) OnImportStart(context.Context, string, int, int) {}
func (NoopImportHooks) OnImportComplete(context.Context, string, ImportSummary, time.Duration, error) {
}
func (NoopImportHooks) OnEdgeSkipped(context.Context, string, string, string, string) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                     {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// registry holds the hooks in use.
var registry = struct {
	sync.RWMutex
	imports ImportHooks
	cache   CacheHooks
	http    HTTPHooks
}{
	imports: NoopImportHooks{},
	cache:   NoopCacheHooks{},
	http:    NoopHTTPHooks{},
}

// SetImportHooks registers import hooks. A nil h is ignored.
func SetImportHooks(h ImportHooks) {
	if h == nil {
		return
	}
	registry.Lock()
	registry.imports = h
	registry.Unlock()
}

// SetCacheHooks registers ledger hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	registry.Lock()
	registry.cache = h
	registry.Unlock()
}

// SetHTTPHooks registers ingest server hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h == nil {
		return
	}
	registry.Lock()
	registry.http = h
	registry.Unlock()
}

// Import returns the registered import hooks.
func Import() ImportHooks {
	registry.RLock()
	defer registry.RUnlock()
	return registry.imports
}

// Cache returns the registered ledger hooks.
func Cache() CacheHooks {
	registry.RLock()
	defer registry.RUnlock()
	return registry.cache
}

// HTTP returns the registered ingest server hooks.
func HTTP() HTTPHooks {
	registry.RLock()
	defer registry.RUnlock()
	return registry.http
}

// Reset restores the no-op hooks. Tests call it in t.Cleanup.
func Reset() {
	registry.Lock()
	defer registry.Unlock()
	registry.imports = NoopImportHooks{}
	registry.cache = NoopCacheHooks{}
	registry.http = NoopHTTPHooks{}
}
