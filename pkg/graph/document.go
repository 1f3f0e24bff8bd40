package graph

import (
	"fmt"
	"sort"
)

// Well-known record fields.
const (
	FieldID       = "id"
	FieldType     = "type"
	FieldSource   = "source"
	FieldFrom     = "from"
	FieldTo       = "to"
	FieldName     = "name"
	FieldModuleID = "module_id"
)

// DefaultRelationship is the relationship type of edges that omit "type".
const DefaultRelationship = "RELATED_TO"

// Document is one parsed graph document. It lives for a single import.
type Document struct {
	Nodes []NodeRecord `json:"nodes"`
	Edges []EdgeRecord `json:"edges"`
}

// NodeRecord is a schema-free node as written by the scanner.
// It always should carry "id" and "type"; every other field is optional.
type NodeRecord struct {
	Properties Properties
}

// NewNode builds a node record from alternating key/value pairs.
func NewNode(kv ...any) NodeRecord {
	return NodeRecord{Properties: NewProperties(kv...)}
}

// ID returns the record's "id" when it is a string, or "".
func (n NodeRecord) ID() string { return n.Properties.String(FieldID) }

// Type returns the record's "type" when it is a string, or "".
func (n NodeRecord) Type() string { return n.Properties.String(FieldType) }

// MarshalJSON implements json.Marshaler.
func (n NodeRecord) MarshalJSON() ([]byte, error) { return n.Properties.MarshalJSON() }

// UnmarshalJSON implements json.Unmarshaler.
func (n *NodeRecord) UnmarshalJSON(data []byte) error {
	return n.Properties.UnmarshalJSON(data)
}

// EdgeRecord is a directed relation between two node ids.
// Edges carry no properties; any extra fields in the input are ignored.
type EdgeRecord struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type,omitempty"`
}

// RelType returns the relationship type, defaulting to [DefaultRelationship].
func (e EdgeRecord) RelType() string {
	if e.Type == "" {
		return DefaultRelationship
	}
	return e.Type
}

// UnmarshalJSON implements json.Unmarshaler. Non-string endpoint or type
// fields decode as empty strings rather than failing the whole document.
func (e *EdgeRecord) UnmarshalJSON(data []byte) error {
	var p Properties
	if err := p.UnmarshalJSON(data); err != nil {
		return err
	}
	*e = EdgeRecord{
		From: p.String(FieldFrom),
		To:   p.String(FieldTo),
		Type: p.String(FieldType),
	}
	return nil
}

// Stats summarizes a document.
type Stats struct {
	Nodes       int            `json:"nodes"`
	Edges       int            `json:"edges"`
	NodeTypes   map[string]int `json:"node_types"`             // node count per "type" ("" for untyped)
	EdgeTypes   map[string]int `json:"edge_types"`             // edge count per relationship type
	DuplicateID []string       `json:"duplicate_ids,omitempty"` // ids declared more than once, sorted
}

// Stats computes per-type counts and duplicate ids.
func (d *Document) Stats() Stats {
	s := Stats{
		Nodes:     len(d.Nodes),
		Edges:     len(d.Edges),
		NodeTypes: make(map[string]int),
		EdgeTypes: make(map[string]int),
	}
	seen := make(map[string]int, len(d.Nodes))
	for _, n := range d.Nodes {
		s.NodeTypes[n.Type()]++
		if id := n.ID(); id != "" {
			seen[id]++
		}
	}
	for _, e := range d.Edges {
		s.EdgeTypes[e.RelType()]++
	}
	for id, c := range seen {
		if c > 1 {
			s.DuplicateID = append(s.DuplicateID, id)
		}
	}
	sort.Strings(s.DuplicateID)
	return s
}

// DanglingEdges returns the edges whose endpoints are not declared in this
// document. Such edges may still resolve against nodes imported earlier.
func (d *Document) DanglingEdges() []EdgeRecord {
	ids := make(map[string]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		ids[n.ID()] = struct{}{}
	}
	var out []EdgeRecord
	for _, e := range d.Edges {
		_, okFrom := ids[e.From]
		_, okTo := ids[e.To]
		if e.From == "" || e.To == "" || !okFrom || !okTo {
			out = append(out, e)
		}
	}
	return out
}

// String implements fmt.Stringer.
func (e EdgeRecord) String() string {
	return fmt.Sprintf("%s-[%s]->%s", e.From, e.RelType(), e.To)
}
