package dot_test

import (
	"fmt"

	"github.com/matzehuels/layerdefs/pkg/analysis"
	"github.com/matzehuels/layerdefs/pkg/layer"
	"github.com/matzehuels/layerdefs/pkg/render/dot"
)

func ExampleLayersToDOT() {
	g := analysis.New()
	_ = g.AddAll(
		analysis.Node{ID: "a0", Type: analysis.TypeSource},
		analysis.Node{ID: "b0", Type: "buffer", Source: "a0"},
	)
	c := layer.NewCollection(g)
	_, _ = c.Add(layer.Document{ID: "roads", Kind: layer.KindCarto, Options: map[string]any{"source": "a0"}})
	_, _ = c.Add(layer.Document{ID: "zones", Kind: layer.KindCarto, Options: map[string]any{"source": "b0"}})

	fmt.Print(dot.LayersToDOT(c))
	// Output:
	// digraph G {
	//   rankdir=TB;
	//   bgcolor="transparent";
	//   node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14, margin="0.2,0.1"];
	//   ranksep=0.5;
	//   nodesep=0.3;
	//
	//   "roads" [label="A: roads", penwidth=2];
	//   "zones" [label="B: zones"];
	//
	//   "roads" -> "zones";
	// }
}
