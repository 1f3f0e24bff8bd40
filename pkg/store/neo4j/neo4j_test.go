package neo4j

import (
	"context"
	"testing"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/errors"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/graph"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/store"
)

func TestNodeQuery(t *testing.T) {
	got := nodeQuery("Function")
	want := "MERGE (n:`Function` {id: $id}) SET n += $props"
	if got != want {
		t.Errorf("nodeQuery = %q, want %q", got, want)
	}
}

func TestEdgeQuery(t *testing.T) {
	got := edgeQuery("Calls")
	want := "MATCH (a {id: $from}) MATCH (b {id: $to}) MERGE (a)-[r:`Calls`]->(b) RETURN count(r) AS matched"
	if got != want {
		t.Errorf("edgeQuery = %q, want %q", got, want)
	}
}

func TestIndexQuery(t *testing.T) {
	got := indexQuery("Module")
	want := "CREATE INDEX `movegraph_Module_id` IF NOT EXISTS FOR (n:`Module`) ON (n.id)"
	if got != want {
		t.Errorf("indexQuery = %q, want %q", got, want)
	}
}

func TestNodeParams(t *testing.T) {
	props := graph.NewProperties("id", "0x1::coin", "abilities", []string{"key", "store"}, "arg_count", 2)
	got := nodeParams(props)
	if got["id"] != "0x1::coin" {
		t.Errorf("id param = %v", got["id"])
	}
	inner, ok := got["props"].(map[string]any)
	if !ok {
		t.Fatalf("props param is %T", got["props"])
	}
	if inner["arg_count"] != int64(2) {
		t.Errorf("arg_count = %#v", inner["arg_count"])
	}
	if l, ok := inner["abilities"].([]any); !ok || len(l) != 2 {
		t.Errorf("abilities = %#v", inner["abilities"])
	}
}

func TestEdgeOutcome(t *testing.T) {
	tests := []struct {
		matched int64
		created int
		want    store.EdgeOutcome
	}{
		{0, 0, store.EdgeSkipped},
		{1, 1, store.EdgeCreated},
		{1, 0, store.EdgeExisting},
		{2, 1, store.EdgeCreated},
	}
	for _, tt := range tests {
		if got := edgeOutcome(tt.matched, tt.created); got != tt.want {
			t.Errorf("edgeOutcome(%d, %d) = %v, want %v", tt.matched, tt.created, got, tt.want)
		}
	}
}

func TestOpenRejectsBadScheme(t *testing.T) {
	_, err := Open(context.Background(), Config{URI: "http://localhost:7474"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.ErrCodeStoreUnavailable) {
		t.Errorf("code = %v, want STORE_UNAVAILABLE", errors.GetCode(err))
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.URI != "bolt://localhost:7687" || cfg.User != "neo4j" || cfg.Password != "password" {
		t.Errorf("DefaultConfig = %+v", cfg)
	}
	if cfg.Database != "" {
		t.Errorf("Database = %q, want server default", cfg.Database)
	}
}
