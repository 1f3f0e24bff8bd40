// Package graph provides the in-memory model for scanner graph documents.
//
// A graph document is the JSON file the Move scanner writes next to its
// report (conventionally "<output>_graph.json"). It describes code entities
// as nodes and the relations between them as edges:
//
//	{
//	  "nodes": [
//	    {"id": "0x1::coin", "type": "Module", "address": "0x1", "name": "coin"},
//	    {"id": "0x1::coin::mint", "type": "Function", "module_id": "0x1::coin",
//	     "name": "mint", "source": "public fun mint(...) { ... }"}
//	  ],
//	  "edges": [
//	    {"from": "0x1::coin", "to": "0x1::coin::mint", "type": "Defines"}
//	  ]
//	}
//
// # Core Types
//
//   - [Document]: ordered nodes and edges for a single import
//   - [NodeRecord]: a schema-free node, backed by [Properties]
//   - [EdgeRecord]: a directed, typed relation between two node ids
//   - [Properties]: an insertion-ordered map from field name to [Value]
//   - [Value]: a closed variant over JSON scalars, lists, and nested objects
//
// # Tolerance
//
// Both top-level keys are optional; a missing "nodes" or "edges" key is an
// empty sequence. Node fields are never type-checked here. A document is only
// rejected when its shape is wrong (root is not an object, "nodes" is not an
// array, a node is not an object).
//
// # Usage
//
//	doc, err := graph.ReadJSONFile("res/output_graph.json")
//	if err != nil {
//	    return err
//	}
//	for _, n := range doc.Nodes {
//	    fmt.Println(n.ID(), n.Type())
//	}
package graph
