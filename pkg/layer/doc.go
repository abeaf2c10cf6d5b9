// Package layer models the editable definition of map layers and the
// dependencies between them.
//
// # Overview
//
// A [Definition] holds one layer's state: its query and style sheet, a
// style model, and optional infowindow and tooltip models. Layers read their
// data through a chain of analysis nodes (see package analysis). A
// [Collection] orders the layers of one map, gives every data layer a
// letter, and answers questions that span layers: which layers would break
// if a layer went away, and whether it can be deleted at all.
//
// # Letters and Ownership
//
// Each data layer in a collection holds a distinct letter from a to z.
// Analysis nodes created for a layer are named after it ("b0", "b1", ...),
// so a node belongs to the layer whose letter prefixes its id:
//
//	col := layer.NewCollection(graph)
//	b, _ := col.Add(layer.Document{ID: "roads", Kind: layer.KindCarto, Letter: "b"})
//	n, _ := graph.Node("b3")
//	b.IsOwnerOfAnalysisNode(n) // true
//
// Layer B depends on layer A when B's chain passes through a node owned by
// A. [Collection.DependentLayers] follows that relation transitively.
//
// # Style Reactions
//
// The definition subscribes to its style model's type when it is built.
// Switching to an aggregated type (squares, hexabins, regions) or to
// animation unsets the infowindow and tooltip templates, since those styles
// have no single feature to describe. The subscription lives until
// [Definition.Close]. Popup edits never trigger a save.
//
// # Saving
//
// [Definition.Save] serializes the layer with [Definition.ToJSON] and hands
// the [Document] to a [Persister]. The ephemeral autoStyle marker never
// reaches the persister and always reads false after a save.
//
// # Concurrency
//
// Definitions and collections are not safe for concurrent use. Change
// notifications run synchronously inside the call that made the change.
package layer
