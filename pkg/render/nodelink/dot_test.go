package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/graph"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/shape"
)

func testDoc() *graph.Document {
	return &graph.Document{
		Nodes: []graph.NodeRecord{
			graph.NewNode("id", "m1", "type", "Module", "name", "coin"),
			graph.NewNode("id", "f1", "type", "Function", "name", "mint", "module_id", "m1", "source", "fun mint() {}"),
			graph.NewNode("id", "s1", "type", "Struct", "name", "Coin"),
			graph.NewNode("id", "t1", "type", "Trait"),
		},
		Edges: []graph.EdgeRecord{
			{From: "m1", To: "f1", Type: "Defines"},
			{From: "m1", To: "s1"},
			{From: "f1", To: "ghost", Type: "Calls"},
		},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot, err := ToDOT(testDoc(), Options{})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}

	for _, want := range []string{
		"digraph G",
		`"m1" [label="m1", shape=folder`,
		`"f1" [label="f1", shape=ellipse`,
		`"s1" [label="s1", fillcolor=lightblue`,
		`"t1" [label="t1", fillcolor=lightgrey`,
		`"m1" -> "f1" [label="Defines"]`,
		`"m1" -> "s1" [label="RELATED_TO"]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s\n%s", want, dot)
		}
	}
}

func TestToDOT_DanglingEdge(t *testing.T) {
	dot, err := ToDOT(testDoc(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dot, `"f1" -> "ghost" [label="Calls", style=dashed, color=red`) {
		t.Error("dangling edge not highlighted")
	}
	if !strings.Contains(dot, `"ghost" [style=dotted`) {
		t.Error("missing placeholder node")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot, err := ToDOT(testDoc(), Options{Detailed: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dot, `f1\n:Function\nname: mint\nmodule_id: m1`) {
		t.Errorf("detailed label missing properties:\n%s", dot)
	}
	if strings.Contains(dot, "fun mint()") {
		t.Error("source code should not appear in labels")
	}
}

func TestToDOT_InvalidNode(t *testing.T) {
	doc := &graph.Document{Nodes: []graph.NodeRecord{graph.NewNode("type", "Module")}}
	if _, err := ToDOT(doc, Options{}); err == nil {
		t.Error("expected error for node without id")
	}
}

func TestFmtLabel_Simple(t *testing.T) {
	n := shape.Shaped{ID: "test-node", Label: "Module"}
	if label := fmtLabel(n, Options{}); label != "test-node" {
		t.Errorf("fmtLabel() simple mode = %q, want %q", label, "test-node")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 3); got != "abc…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("a\nb", 10); got != "a b" {
		t.Errorf("truncate = %q", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	if !strings.Contains(got, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox = %s", got)
	}

	plain := []byte("<svg></svg>")
	if string(normalizeViewBox(plain)) != "<svg></svg>" {
		t.Error("svg without viewBox should be unchanged")
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	dot, err := ToDOT(testDoc(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output is not SVG")
	}
}
