// Package pkg provides the libraries behind layerdefs.
//
// # Overview
//
// A map is a stack of layers. Data layers read features through a chain of
// analysis nodes (a source table followed by transforms such as buffers or
// intersections), and a layer's chain may pass through nodes created by
// other layers. The packages model that structure and persist it:
//
//  1. [analysis] - The analysis node graph and the <letter><index> node ids
//  2. [layer] - Layer definitions, their style and popup sub-models, and the
//     collection that assigns letters and answers dependency questions
//  3. [attrs] - The ordered, observable attribute bag the models are built on
//  4. [io] - JSON, TOML and YAML map documents
//  5. [store] - Persistence backends (file, Redis, MongoDB) with retry and
//     write deduplication
//  6. [render] - Graphviz diagrams of analyses and layer dependencies
//  7. [config], [errors], [observability], [buildinfo] - Supporting packages
//
// # Architecture
//
//	map.json / map.toml / map.yaml
//	         ↓
//	    [io] package (decode + normalize)
//	         ↓
//	    [analysis] graph + [layer] collection
//	         ↓
//	    dependents, deletion rules, diagrams ([render])
//	         ↓
//	    [layer.Definition.Save] → [store] backend
//
// # Quick Start
//
//	m, err := io.Import("map.json")
//	if err != nil {
//	    return err
//	}
//	s, _ := store.Open(ctx, store.Config{Backend: store.BackendFile, Dir: "layers"})
//	layers, err := m.Build(layer.WithPersister(store.NewPersister(s)))
//	if err != nil {
//	    return err
//	}
//	stores, _ := layers.Get("stores")
//	fmt.Println(layers.CountDependentLayers(stores), layers.CanBeDeletedByUser(stores))
//	err = stores.Save(ctx, map[string]any{"color": "#FABADA"}, layer.SaveOptions{})
package pkg
