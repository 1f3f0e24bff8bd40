package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/errors"
)

// Unmarshal decodes a graph document from data.
//
// Missing "nodes" or "edges" keys (or explicit nulls) are empty sequences.
// A malformed document returns an INVALID_DOCUMENT error that names the
// offending node or edge index.
func Unmarshal(data []byte) (*Document, error) {
	var raw struct {
		Nodes []json.RawMessage `json:"nodes"`
		Edges []json.RawMessage `json:"edges"`
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "graph document must be a JSON object")
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode graph document")
	}

	doc := &Document{
		Nodes: make([]NodeRecord, len(raw.Nodes)),
		Edges: make([]EdgeRecord, len(raw.Edges)),
	}
	for i, r := range raw.Nodes {
		if err := doc.Nodes[i].UnmarshalJSON(r); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "node %d", i)
		}
	}
	for i, r := range raw.Edges {
		if err := doc.Edges[i].UnmarshalJSON(r); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "edge %d", i)
		}
	}
	return doc, nil
}

// ReadJSON decodes a graph document from r. It does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Unmarshal(data)
}

// ReadFile returns the raw bytes of a graph document. A path of "-" reads
// standard input.
func ReadFile(path string) ([]byte, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// ReadJSONFile reads and decodes the graph document at path.
// A path of "-" reads standard input.
func ReadJSONFile(path string) (*Document, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Marshal encodes d as indented JSON, preserving node field order.
func Marshal(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes d to w as indented JSON.
func WriteJSON(d *Document, w io.Writer) error {
	out := *d
	if out.Nodes == nil {
		out.Nodes = []NodeRecord{}
	}
	if out.Edges == nil {
		out.Edges = []EdgeRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
