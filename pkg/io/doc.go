// Package io reads and writes map documents.
//
// A map document holds the analysis graph of a map and its layer
// definitions:
//
//	{
//	  "analyses": [
//	    {"id": "a0", "type": "source", "params": {"query": "SELECT * FROM foo"}},
//	    {"id": "a1", "type": "buffer", "source": "a0", "params": {"radius": 300}}
//	  ],
//	  "layers": [
//	    {"id": "l-1", "kind": "carto", "letter": "a", "options": {"source": "a1", "table_name": "foo"}}
//	  ]
//	}
//
// JSON, TOML and YAML encodings are supported. [FormatFromPath] picks the
// encoding from the file extension (.json, .toml, .yaml or .yml).
//
// # Import
//
// [Import] reads a file and [Read] reads any io.Reader. Decoded values are
// normalized so the three encodings produce the same in-memory shapes:
// numbers become float64, arrays become []any and tables become
// map[string]any. [Map.Build] turns a decoded map into a validated
// [layer.Collection]:
//
//	m, err := io.Import("map.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	layers, err := m.Build()
//
// # Export
//
// [FromCollection] captures a collection, including layer letters, and
// [Export] or [Write] encode it. Import, build, export and re-import
// round-trips the graph and every layer.
package io
