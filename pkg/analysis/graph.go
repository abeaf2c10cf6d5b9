package analysis

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.Add] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.Add] when a node with the same
	// ID already exists. Nodes are never silently overwritten.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrSelfSource is returned by [Graph.Add] when a node names itself as
	// its own source.
	ErrSelfSource = errors.New("node cannot be its own source")

	// ErrUnknownSource is returned by [Graph.Validate] when a node's Source
	// does not resolve to a node in the graph.
	ErrUnknownSource = errors.New("unknown source node")

	// ErrMissingSource is returned by [Graph.Validate] when a non-source node
	// has no upstream node.
	ErrMissingSource = errors.New("transform node has no source")

	// ErrGraphHasCycle is returned by [Graph.Validate] when following Source
	// links from some node revisits a node.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// TypeSource is the node type of chain roots (tables and raw queries).
const TypeSource = "source"

// Params stores opaque node parameters such as a query or a buffer radius.
// Graph algorithms never inspect them.
type Params map[string]any

// Node is one step in the provenance graph.
type Node struct {
	ID     string // Unique identifier, conventionally <letter><index>
	Type   string // "source" or a transform kind such as "buffer"
	Source string // ID of the upstream node; empty for source nodes
	Params Params // Opaque parameters (never nil after Add)
}

// IsSource reports whether the node is a chain root.
func (n Node) IsSource() bool { return n.Type == TypeSource }

// Letter returns the layer letter encoded in the node ID, or "" when the ID
// does not follow the <letter><index> convention.
func (n Node) Letter() string {
	l, _, ok := ParseNodeID(n.ID)
	if !ok {
		return ""
	}
	return l
}

// Graph is a collection of analysis nodes keyed by ID.
//
// The zero value is not usable; create graphs with [New].
type Graph struct {
	nodes    map[string]*Node
	order    []string
	children map[string][]string // source ID -> IDs of nodes reading from it
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		children: make(map[string][]string),
	}
}

// Add inserts n into the graph. Returns ErrInvalidNodeID for an empty ID,
// ErrDuplicateNodeID if the ID is taken and ErrSelfSource if n is its own
// source. The Source node does not have to exist yet.
func (g *Graph) Add(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Source == n.ID {
		return ErrSelfSource
	}
	if n.Params == nil {
		n.Params = Params{}
	}
	node := &n
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)
	if node.Source != "" {
		g.children[node.Source] = append(g.children[node.Source], node.ID)
	}
	return nil
}

// AddAll adds nodes in order and stops at the first error.
func (g *Graph) AddAll(nodes ...Node) error {
	for _, n := range nodes {
		if err := g.Add(n); err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes the node with the given ID and reports whether it existed.
// Nodes that read from it keep their Source and become dangling until the
// ID is added again.
func (g *Graph) Remove(id string) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })
	if n.Source != "" {
		g.children[n.Source] = slices.DeleteFunc(g.children[n.Source], func(s string) bool { return s == id })
		if len(g.children[n.Source]) == 0 {
			delete(g.children, n.Source)
		}
	}
	return true
}

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Has reports whether a node with the given ID exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.order) }

// Dependents returns the IDs of nodes whose Source is id, in insertion order.
func (g *Graph) Dependents(id string) []string { return slices.Clone(g.children[id]) }

// Chain returns the node with the given ID followed by every node reached by
// following Source links. The walk stops at a node without Source, at a
// Source that is not in the graph, or before revisiting a node. Returns nil
// if id is unknown.
func (g *Graph) Chain(id string) []*Node {
	var chain []*Node
	seen := make(map[string]bool)
	for cur, ok := g.nodes[id]; ok && !seen[cur.ID]; cur, ok = g.nodes[cur.Source] {
		seen[cur.ID] = true
		chain = append(chain, cur)
		if cur.Source == "" {
			break
		}
	}
	return chain
}

// ChainLength returns the number of nodes from id to its root, inclusive.
// Returns 0 if id is unknown.
func (g *Graph) ChainLength(id string) int { return len(g.Chain(id)) }

// Ancestors returns the upstream nodes of id, nearest first, excluding id.
func (g *Graph) Ancestors(id string) []*Node {
	chain := g.Chain(id)
	if len(chain) == 0 {
		return nil
	}
	return chain[1:]
}

// Roots returns the source-type nodes in insertion order.
func (g *Graph) Roots() []*Node {
	var roots []*Node
	for _, id := range g.order {
		if n := g.nodes[id]; n.IsSource() {
			roots = append(roots, n)
		}
	}
	return roots
}

// Validate checks that every Source resolves, that only source nodes lack a
// Source, and that no chain revisits a node. It returns the first violation
// found, walking nodes in insertion order.
func (g *Graph) Validate() error {
	for _, id := range g.order {
		n := g.nodes[id]
		if n.Source == "" {
			if !n.IsSource() {
				return ErrMissingSource
			}
			continue
		}
		if _, ok := g.nodes[n.Source]; !ok {
			return ErrUnknownSource
		}
	}
	return g.detectCycles()
}

func (g *Graph) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.nodes))
	for _, id := range g.order {
		if color[id] != white {
			continue
		}
		var path []string
		cur := id
		for {
			n, ok := g.nodes[cur]
			if !ok || color[cur] == black {
				break
			}
			if color[cur] == gray {
				return ErrGraphHasCycle
			}
			color[cur] = gray
			path = append(path, cur)
			if n.Source == "" {
				break
			}
			cur = n.Source
		}
		for _, p := range path {
			color[p] = black
		}
	}
	return nil
}

// NextNodeID returns the first unused ID for letter, one past the highest
// index already taken. A letter with no nodes starts at index 0.
func (g *Graph) NextNodeID(letter string) string {
	next := 0
	for _, id := range g.order {
		if l, idx, ok := ParseNodeID(id); ok && l == letter && idx >= next {
			next = idx + 1
		}
	}
	return FormatNodeID(letter, next)
}

// NodesWithLetter returns the nodes whose ID carries letter, in insertion order.
func (g *Graph) NodesWithLetter(letter string) []*Node {
	var out []*Node
	for _, id := range g.order {
		if l, _, ok := ParseNodeID(id); ok && l == letter {
			out = append(out, g.nodes[id])
		}
	}
	return out
}
