// Package analysis provides the provenance graph of analysis nodes that feed
// map layers.
//
// # Overview
//
// Every layer on a map reads its data through a chain of analysis nodes. The
// chain starts at a source node (a table or query) and continues through
// transforms such as spatial buffers. Each node references at most one
// upstream node through its Source field, so a [Graph] is a forest rooted at
// source-type nodes.
//
// # Basic Usage
//
// Create a graph with [New] and add nodes with [Graph.Add]. Nodes may be added
// in any order; a node's Source does not need to exist yet:
//
//	g := analysis.New()
//	_ = g.Add(analysis.Node{ID: "a0", Type: analysis.TypeSource})
//	_ = g.Add(analysis.Node{ID: "a1", Type: "buffer", Source: "a0"})
//
//	chain := g.Chain("a1") // a1, a0
//
// Use [Graph.Validate] once the graph is complete to check that every Source
// resolves and that no chain revisits a node.
//
// # Node Identifiers
//
// Node ids follow the convention <letter><index>, for example "b3". The letter
// names the layer that created the node; [ParseNodeID] and [FormatNodeID] are
// the only places that know this encoding. Ids that do not follow it are valid
// graph keys, they simply belong to no layer.
//
// # Concurrency
//
// Graph is not safe for concurrent use. Read paths never mutate it, so many
// layers may share one graph as long as writers are serialized.
package analysis
