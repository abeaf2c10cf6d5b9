package layer

import (
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// layerGraph has an edge from A to B when B's chain passes through a node
// owned by A. Node ids are stacking positions.
type layerGraph struct {
	g      *simple.DirectedGraph
	layers []*Definition
}

func (c *Collection) buildLayerGraph() *layerGraph {
	lg := &layerGraph{g: simple.NewDirectedGraph(), layers: c.layers}
	index := make(map[*Definition]int64, len(c.layers))
	for i, d := range c.layers {
		index[d] = int64(i)
		lg.g.AddNode(simple.Node(i))
	}

	for i, dependent := range c.layers {
		to := int64(i)
		for _, n := range dependent.chain() {
			owner, ok := c.LayerOwningNode(n.ID)
			if !ok || owner == dependent {
				continue
			}
			from := index[owner]
			if !lg.g.HasEdgeFromTo(from, to) {
				lg.g.SetEdge(lg.g.NewEdge(lg.g.Node(from), lg.g.Node(to)))
			}
		}
	}
	return lg
}

// DependentLayers returns every other layer whose data derives from d,
// directly or through other layers, in stacking order. A layer reached
// through several branches is listed once.
func (c *Collection) DependentLayers(d *Definition) []*Definition {
	start := -1
	for i, l := range c.layers {
		if l == d {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	lg := c.buildLayerGraph()
	reached := make(map[int64]bool)
	bf := traverse.BreadthFirst{
		Visit: func(n graph.Node) { reached[n.ID()] = true },
	}
	bf.Walk(lg.g, lg.g.Node(int64(start)), nil)
	delete(reached, int64(start))

	var out []*Definition
	for i, l := range lg.layers {
		if reached[int64(i)] {
			out = append(out, l)
		}
	}
	c.logger.Debug("computed dependent layers", "layer", d.ID(), "count", len(out))
	return out
}

// CountDependentLayers returns len(DependentLayers(d)).
func (c *Collection) CountDependentLayers(d *Definition) int {
	return len(c.DependentLayers(d))
}

// Dependencies returns the layer pairs (owner, dependent) of the direct
// dependency relation, in stacking order of the dependent.
func (c *Collection) Dependencies() [][2]*Definition {
	lg := c.buildLayerGraph()
	var out [][2]*Definition
	for i, dependent := range lg.layers {
		to := lg.g.To(int64(i))
		var owners []int64
		for to.Next() {
			owners = append(owners, to.Node().ID())
		}
		slices.Sort(owners)
		for _, o := range owners {
			out = append(out, [2]*Definition{lg.layers[o], dependent})
		}
	}
	return out
}
