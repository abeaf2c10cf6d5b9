// Package dot renders layer collections as Graphviz diagrams.
//
// [ToDOT] draws the analysis graph of a map: one box per analysis node, an
// arrow from every source to the node reading from it, and one cluster per
// layer letter holding the nodes that layer owns. Nodes whose id carries no
// known letter are drawn outside any cluster.
//
// [LayersToDOT] draws one box per layer and an arrow from every layer to each
// layer that reads data through it, the relation behind
// [layer.Collection.DependentLayers].
//
//	src := dot.ToDOT(c, dot.Options{Detailed: true})
//	svg, err := dot.RenderSVG(ctx, src)
//
// Layers that the user may not delete (see
// [layer.Collection.CanBeDeletedByUser]) get a bold outline in both diagrams.
package dot
