package pipeline

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/cache"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/errors"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/graph"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/store"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/store/memory"
)

const doc = `{
  "nodes": [
    {"id": "m1", "type": "Module", "name": "M"},
    {"id": "f1", "type": "Function", "name": "foo", "module_id": "m1"}
  ],
  "edges": [{"from": "m1", "to": "f1", "type": "DEFINES"}]
}`

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, log.New(io.Discard))
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestExecute(t *testing.T) {
	r := newTestRunner(t)
	st := memory.New()

	res, err := r.Execute(context.Background(), st, []byte(doc), Options{Target: "mem"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.LedgerHit || res.Import == nil {
		t.Fatalf("result = %+v", res)
	}
	if res.Import.NodesCreated != 2 || res.Import.EdgesCreated != 1 {
		t.Errorf("import = %+v", res.Import)
	}
	if res.Stats.Nodes != 2 || res.Stats.Edges != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.DocumentHash != cache.Hash([]byte(doc)) {
		t.Error("document hash mismatch")
	}
}

func TestExecuteSkipUnchanged(t *testing.T) {
	r := newTestRunner(t)
	st := memory.New()
	ctx := context.Background()
	opts := Options{Target: "mem", SkipUnchanged: true}

	first, err := r.Execute(ctx, st, []byte(doc), opts)
	if err != nil {
		t.Fatal(err)
	}

	second, err := r.Execute(ctx, st, []byte(doc), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.LedgerHit || second.Import != nil {
		t.Fatalf("second run should hit the ledger: %+v", second)
	}
	if second.Previous.ImportID != first.Import.ImportID || second.Previous.Nodes != 2 {
		t.Errorf("previous = %+v", second.Previous)
	}

	// Another target is a different ledger key
	third, err := r.Execute(ctx, memory.New(), []byte(doc), Options{Target: "other", SkipUnchanged: true})
	if err != nil {
		t.Fatal(err)
	}
	if third.LedgerHit {
		t.Error("different target should miss")
	}

	// Without SkipUnchanged the import always runs
	fourth, err := r.Execute(ctx, st, []byte(doc), Options{Target: "mem"})
	if err != nil {
		t.Fatal(err)
	}
	if fourth.LedgerHit || fourth.Import.NodesMerged != 2 {
		t.Errorf("forced run = %+v", fourth)
	}
}

func TestExecuteFailureNotRecorded(t *testing.T) {
	r := newTestRunner(t)
	bad := []byte(`{"nodes":[{"id":"x","type":"bad label"}]}`)
	ctx := context.Background()
	opts := Options{Target: "mem", SkipUnchanged: true}

	for i := 0; i < 2; i++ {
		_, err := r.Execute(ctx, memory.New(), bad, opts)
		if errors.RootCode(err) != errors.ErrCodeInvalidLabel {
			t.Fatalf("run %d: err = %v", i, err)
		}
	}
}

func TestExecuteInvalidDocument(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Execute(context.Background(), memory.New(), []byte(`[]`), Options{})
	if !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("err = %v", err)
	}
}

type indexingStore struct {
	*memory.Store
	labels []string
}

func (s *indexingStore) EnsureIndexes(_ context.Context, labels []string) error {
	s.labels = labels
	return nil
}

var _ store.Indexer = (*indexingStore)(nil)

func TestExecuteEnsureIndexes(t *testing.T) {
	r := newTestRunner(t)
	st := &indexingStore{Store: memory.New()}
	if _, err := r.Execute(context.Background(), st, []byte(doc), Options{EnsureIndexes: true}); err != nil {
		t.Fatal(err)
	}
	if len(st.labels) != 2 || st.labels[0] != "Function" || st.labels[1] != "Module" {
		t.Errorf("labels = %v", st.labels)
	}
}

func TestLabels(t *testing.T) {
	d, err := graph.Unmarshal([]byte(`{"nodes":[{"id":"a","type":"Trait"},{"id":"b"},{"id":"c","type":"Trait"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	got, err := Labels(d)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "Trait" || got[1] != "Unknown" {
		t.Errorf("Labels = %v", got)
	}
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil || r.Importer == nil {
		t.Errorf("runner = %+v", r)
	}
}
