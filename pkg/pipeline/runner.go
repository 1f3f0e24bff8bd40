package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/cache"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/graph"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/importer"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/observability"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/shape"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/store"
)

// Runner encapsulates import execution with the ledger.
// Both CLI and server use this to avoid duplicating ledger logic.
//
// The Runner is stateless except for the ledger, importer and logger; it
// doesn't store import results. Multiple goroutines can safely use the same
// Runner.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Importer *importer.Importer
}

// NewRunner creates a runner with the given ledger and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (ledger disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Importer: importer.New(importer.WithLogger(logger)),
	}
}

// Execute imports the graph document in data into st.
func (r *Runner) Execute(ctx context.Context, st store.Store, data []byte, opts Options) (*Result, error) {
	logger := r.logger(opts)
	hash := cache.Hash(data)
	key := r.Keyer.ImportKey(hash, opts.Target)
	result := &Result{DocumentHash: hash}

	// Stage 1: Ledger lookup
	if opts.SkipUnchanged {
		if prev, ok := r.lookup(ctx, key, logger); ok {
			logger.Info("document unchanged since last import, skipping",
				"import_id", prev.ImportID,
				"completed_at", prev.CompletedAt.Format(time.RFC3339))
			result.LedgerHit = true
			result.Previous = prev
			return result, nil
		}
	}

	// Stage 2: Parse
	doc, err := graph.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	result.Stats = doc.Stats()
	logger.Debug("parsed graph document", "nodes", result.Stats.Nodes, "edges", result.Stats.Edges)

	// Stage 3: Indexes
	if opts.EnsureIndexes {
		if err := ensureIndexes(ctx, st, doc, logger); err != nil {
			return nil, err
		}
	}

	// Stage 4: Import
	imp := r.Importer
	if opts.Logger != nil {
		imp = importer.New(importer.WithLogger(opts.Logger), importer.WithHooks(r.Importer.Hooks))
	}
	res, err := imp.Import(ctx, st, doc)
	if err != nil {
		return nil, err
	}
	result.Import = res

	// Stage 5: Ledger record
	r.record(ctx, key, LedgerEntry{
		ImportID:     res.ImportID,
		DocumentHash: hash,
		Target:       opts.Target,
		Nodes:        res.Nodes(),
		Edges:        res.Edges(),
		EdgesSkipped: res.EdgesSkipped,
		CompletedAt:  time.Now().UTC(),
	}, opts.TTL, logger)

	return result, nil
}

// Close releases resources held by the runner (primarily the ledger).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

func (r *Runner) lookup(ctx context.Context, key string, logger *log.Logger) (*LedgerEntry, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("ledger lookup failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, ledgerKeyType)
		return nil, false
	}
	var entry LedgerEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		logger.Warn("discarding unreadable ledger entry", "err", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, ledgerKeyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, ledgerKeyType)
	return &entry, true
}

// record never fails the run: the import already committed.
func (r *Runner) record(ctx context.Context, key string, entry LedgerEntry, ttl time.Duration, logger *log.Logger) {
	if ttl <= 0 {
		ttl = cache.TTLImport
	}
	data, err := json.Marshal(entry)
	if err != nil {
		logger.Warn("encode ledger entry", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("ledger write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, ledgerKeyType, len(data))
}

func ensureIndexes(ctx context.Context, st store.Store, doc *graph.Document, logger *log.Logger) error {
	ix, ok := st.(store.Indexer)
	if !ok {
		logger.Debug("store does not support indexes")
		return nil
	}
	labels, err := Labels(doc)
	if err != nil {
		return err
	}
	if err := ix.EnsureIndexes(ctx, labels); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	logger.Debug("ensured indexes", "labels", labels)
	return nil
}

// Labels returns the sorted distinct labels the document's nodes would get.
func Labels(doc *graph.Document) ([]string, error) {
	nodes, err := shape.All(doc)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var labels []string
	for _, n := range nodes {
		if !seen[n.Label] {
			seen[n.Label] = true
			labels = append(labels, n.Label)
		}
	}
	slices.Sort(labels)
	return labels, nil
}
