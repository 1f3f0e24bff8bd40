package shape

import (
	"reflect"
	"testing"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/errors"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/graph"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		typ  string
		want Kind
	}{
		{"Module", KindModule},
		{"Struct", KindStruct},
		{"Function", KindFunction},
		{"Trait", KindGeneric},
		{"function", KindGeneric},
		{"", KindGeneric},
	}
	for _, tt := range tests {
		if got := KindOf(tt.typ); got != tt.want {
			t.Errorf("KindOf(%q) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestShapeModule(t *testing.T) {
	rec := graph.NewNode("id", "0x1::coin", "type", "Module", "address", "0x1", "name", "coin", "source", "module 0x1::coin {}")
	got, err := Shape(rec)
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if got.Label != "Module" || got.Kind != KindModule || got.ID != "0x1::coin" {
		t.Errorf("got %s/%v/%s", got.Label, got.Kind, got.ID)
	}
	want := []string{"id", "address", "name", "source"}
	if keys := got.Properties.Keys(); !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
}

func TestShapeStruct(t *testing.T) {
	rec := graph.NewNode("id", "s1", "type", "Struct", "name", "S", "source", "struct S{}")
	got, err := Shape(rec)
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}

	if got.Properties.Has("source") {
		t.Error("source should be removed")
	}
	if got.Properties.Has(FieldNodeDescription) {
		t.Error("struct should not get node_description")
	}
	if s := got.Properties.String(FieldSourceCode); s != "struct S{}" {
		t.Errorf("source_code = %q", s)
	}
	if got.Properties.Has("type") {
		t.Error("type should be stripped")
	}
}

func TestShapeStructWithoutSource(t *testing.T) {
	got, err := Shape(graph.NewNode("id", "s1", "type", "Struct"))
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	v, ok := got.Properties.Get(FieldSourceCode)
	if !ok {
		t.Fatal("source_code should default to empty string")
	}
	if s, isString := v.AsString(); !isString || s != "" {
		t.Errorf("source_code = %#v", v)
	}
}

func TestShapeFunction(t *testing.T) {
	rec := graph.NewNode("id", "f1", "type", "Function", "name", "foo", "module_id", "m1", "source", "let x=1;")
	got, err := Shape(rec)
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}

	if d := got.Properties.String(FieldNodeDescription); d != "Function foo defined in m1. Code: let x=1;" {
		t.Errorf("node_description = %q", d)
	}
	if s := got.Properties.String(FieldSourceCode); s != "let x=1;" {
		t.Errorf("source_code = %q", s)
	}
	if got.Properties.Has("source") {
		t.Error("source should be removed")
	}
	if got.Properties.String("id") != "f1" {
		t.Error("id must be kept")
	}
}

func TestShapeFunctionDefaults(t *testing.T) {
	got, err := Shape(graph.NewNode("id", "f1", "type", "Function"))
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if d := got.Properties.String(FieldNodeDescription); d != "Function  defined in . Code: " {
		t.Errorf("node_description = %q", d)
	}
}

func TestShapeGenericFallback(t *testing.T) {
	rec := graph.NewNode("id", "t1", "type", "Trait", "name", "Drop", "source", "kept as-is")
	got, err := Shape(rec)
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if got.Label != "Trait" || got.Kind != KindGeneric {
		t.Errorf("label/kind = %s/%v", got.Label, got.Kind)
	}
	want := graph.NewProperties("id", "t1", "name", "Drop", "source", "kept as-is")
	if !got.Properties.Equal(want) {
		t.Errorf("props = %v, want %v", got.Properties.Native(), want.Native())
	}
}

func TestShapeUntyped(t *testing.T) {
	got, err := Shape(graph.NewNode("id", "x"))
	if err != nil {
		t.Fatalf("Shape: %v", err)
	}
	if got.Label != LabelUnknown {
		t.Errorf("label = %q, want %q", got.Label, LabelUnknown)
	}
}

func TestShapeDoesNotMutateInput(t *testing.T) {
	rec := graph.NewNode("id", "f1", "type", "Function", "source", "x")
	if _, err := Shape(rec); err != nil {
		t.Fatal(err)
	}
	if !rec.Properties.Has("source") || !rec.Properties.Has("type") {
		t.Error("input record was modified")
	}
}

func TestShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		rec  graph.NodeRecord
		code errors.Code
	}{
		{"missing id", graph.NewNode("type", "Module"), errors.ErrCodeInvalidNode},
		{"empty id", graph.NewNode("id", "", "type", "Module"), errors.ErrCodeInvalidNode},
		{"numeric id", graph.NewNode("id", 7, "type", "Module"), errors.ErrCodeInvalidNode},
		{"unsafe label", graph.NewNode("id", "x", "type", "Foo`) DETACH DELETE n //"), errors.ErrCodeInvalidLabel},
		{"label with space", graph.NewNode("id", "x", "type", "Move Script"), errors.ErrCodeInvalidLabel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Shape(tt.rec)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	got := Describe("foo", "m1", "fun foo(){}")
	if got != "Function foo defined in m1. Code: fun foo(){}" {
		t.Errorf("Describe() = %q", got)
	}
}

func TestAll(t *testing.T) {
	doc := &graph.Document{Nodes: []graph.NodeRecord{
		graph.NewNode("id", "m", "type", "Module"),
		graph.NewNode("id", "s", "type", "Struct", "source", "x"),
	}}
	got, err := All(doc)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(got) != 2 || got[0].Kind != KindModule || got[1].Kind != KindStruct {
		t.Errorf("All = %+v", got)
	}

	doc.Nodes = append(doc.Nodes, graph.NewNode("type", "Module"))
	if _, err := All(doc); !errors.Is(err, errors.ErrCodeInvalidNode) {
		t.Errorf("err = %v, want INVALID_NODE", err)
	}
}

func TestShapedRecord(t *testing.T) {
	s, err := Shape(graph.NewNode("name", "foo", "id", "f1", "type", "Function", "source", "x"))
	if err != nil {
		t.Fatal(err)
	}
	rec := s.Record()
	want := []string{"id", "type", "name", "source_code", "node_description"}
	if keys := rec.Properties.Keys(); !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
	if rec.Type() != "Function" {
		t.Errorf("type = %q", rec.Type())
	}
}
