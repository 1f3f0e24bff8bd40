// Package shape turns raw scanner node records into labeled property sets.
//
// Every record's "type" field becomes the node label and is removed from the
// properties. What else happens depends on the record's [Kind]:
//
//   - [KindModule]: properties pass through unchanged
//   - [KindStruct]: "source" is renamed to "source_code" (default "")
//   - [KindFunction]: as Struct, plus a derived "node_description" sentence
//     used by downstream embedding and search tooling
//   - [KindGeneric]: any other type; properties pass through and the label
//     is the type string itself
//
// Dispatch is a closed switch over [Kind]. Unknown types never fail the
// import on their own, but a type that is not a safe identifier does.
package shape

import (
	"fmt"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/errors"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/graph"
)

// Kind is the closed set of node shapes.
type Kind int

// Node kinds.
const (
	KindGeneric Kind = iota
	KindModule
	KindStruct
	KindFunction
)

// Labels of the recognized kinds.
const (
	LabelModule   = "Module"
	LabelStruct   = "Struct"
	LabelFunction = "Function"

	// LabelUnknown labels records that carry no "type" at all.
	LabelUnknown = "Unknown"
)

// Derived and renamed property keys.
const (
	FieldSourceCode      = "source_code"
	FieldNodeDescription = "node_description"
)

// KindOf maps a record's "type" string to its kind. Matching is exact and
// case-sensitive; "function" is a generic label, not a Function.
func KindOf(typ string) Kind {
	switch typ {
	case LabelModule:
		return KindModule
	case LabelStruct:
		return KindStruct
	case LabelFunction:
		return KindFunction
	default:
		return KindGeneric
	}
}

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindStruct:
		return "struct"
	case KindFunction:
		return "function"
	default:
		return "generic"
	}
}

// Shaped is a node ready for upsert.
type Shaped struct {
	Kind       Kind
	Label      string
	ID         string
	Properties graph.Properties
}

// Shape converts rec into a label and property set.
//
// The input record is not modified. Shape fails with INVALID_NODE when the
// record has no usable string id, and with INVALID_LABEL when the type string
// is not a safe identifier. No other value validation is performed.
func Shape(rec graph.NodeRecord) (Shaped, error) {
	id := rec.ID()
	if err := errors.ValidateNodeID(id); err != nil {
		if v, ok := rec.Properties.Get(graph.FieldID); ok && !v.IsNull() {
			if _, isString := v.AsString(); !isString {
				return Shaped{}, errors.New(errors.ErrCodeInvalidNode, "node id must be a string, got %s", v.Kind())
			}
		}
		return Shaped{}, err
	}

	label := rec.Type()
	if label == "" {
		label = LabelUnknown
	}
	kind := KindOf(label)
	if kind == KindGeneric {
		if err := errors.ValidateLabel(label); err != nil {
			return Shaped{}, fmt.Errorf("node %s: %w", id, err)
		}
	}

	props := rec.Properties.Clone()
	props.Delete(graph.FieldType)

	switch kind {
	case KindModule, KindGeneric:
		// pass through
	case KindStruct:
		renameSource(&props)
	case KindFunction:
		code := renameSource(&props)
		props.Set(FieldNodeDescription, graph.String(Describe(
			textOf(props, graph.FieldName),
			textOf(props, graph.FieldModuleID),
			code,
		)))
	default:
		panic(fmt.Sprintf("shape: unhandled kind %d", kind))
	}

	return Shaped{Kind: kind, Label: label, ID: id, Properties: props}, nil
}

// Describe builds the derived description of a function node.
func Describe(name, moduleID, sourceCode string) string {
	return fmt.Sprintf("Function %s defined in %s. Code: %s", name, moduleID, sourceCode)
}

// renameSource moves "source" to "source_code" and returns the code text.
// A missing source becomes the empty string. Non-string sources keep their
// value under the new key; the returned text is their rendering.
func renameSource(props *graph.Properties) string {
	v, ok := props.Get(graph.FieldSource)
	if !ok {
		v = graph.String("")
	}
	props.Delete(graph.FieldSource)
	props.Set(FieldSourceCode, v)
	return v.Text()
}

func textOf(props graph.Properties, key string) string {
	v, _ := props.Get(key)
	return v.Text()
}

// All shapes every node of doc in order. The first failure is returned with
// the node's index.
func All(doc *graph.Document) ([]Shaped, error) {
	out := make([]Shaped, 0, len(doc.Nodes))
	for i, rec := range doc.Nodes {
		s, err := Shape(rec)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// Record converts s back into a node record, with the label as its "type"
// right after the id. It shows exactly what an import writes.
func (s Shaped) Record() graph.NodeRecord {
	var props graph.Properties
	props.Set(graph.FieldID, graph.String(s.ID))
	props.Set(graph.FieldType, graph.String(s.Label))
	s.Properties.Each(func(k string, v graph.Value) {
		if k != graph.FieldID {
			props.Set(k, v)
		}
	})
	return graph.NodeRecord{Properties: props}
}
