package nodelink_test

import (
	"fmt"

	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/graph"
	"github.com/Idealist17/Sui-Move-to-Knowledge-Graph/pkg/render/nodelink"
)

func ExampleToDOT() {
	doc, _ := graph.Unmarshal([]byte(`{
		"nodes": [{"id": "m", "type": "Module"}, {"id": "f", "type": "Function"}],
		"edges": [{"from": "m", "to": "f", "type": "Defines"}]
	}`))

	dot, err := nodelink.ToDOT(doc, nodelink.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(dot)
	// Output:
	// digraph G {
	//   rankdir=LR;
	//   bgcolor="transparent";
	//   node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14, margin="0.2,0.1"];
	//   edge [fontsize=10];
	//
	//   "m" [label="m", shape=folder, fillcolor=lightyellow];
	//   "f" [label="f", shape=ellipse, style=filled, fillcolor=honeydew];
	//
	//   "m" -> "f" [label="Defines"];
	// }
}
