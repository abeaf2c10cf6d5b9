package io

import (
	"time"
)

func (m *Map) normalize() {
	for i := range m.Analyses {
		m.Analyses[i].Params = normalizeMap(m.Analyses[i].Params)
	}
	for i := range m.Layers {
		d := &m.Layers[i]
		d.Options = normalizeMap(d.Options)
		if d.Options == nil {
			d.Options = map[string]any{}
		}
		d.Infowindow = normalizeMap(d.Infowindow)
		d.Tooltip = normalizeMap(d.Tooltip)
	}
}

func normalizeMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = normalize(v)
	}
	return out
}

// normalize maps TOML and YAML decoded values onto the shapes
// encoding/json produces.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return normalizeMap(x)
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			if s, ok := k.(string); ok {
				out[s] = normalize(e)
			}
		}
		return out
	case []map[string]any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeMap(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	case time.Time:
		return x.Format(time.RFC3339)
	}
	return v
}
