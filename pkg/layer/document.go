package layer

import (
	"encoding/json"
	"slices"

	"github.com/matzehuels/layerdefs/pkg/attrs"
)

// Document is the persisted shape of a layer definition. It is both the
// input of [New] and the output of [Definition.ToJSON].
//
// Options use the persisted attribute names (tile_style, query). Letter is
// only read on input; serialized documents never carry it.
type Document struct {
	ID         string         `json:"id" toml:"id" yaml:"id"`
	Kind       string         `json:"kind,omitempty" toml:"kind,omitempty" yaml:"kind,omitempty"`
	Letter     string         `json:"letter,omitempty" toml:"letter,omitempty" yaml:"letter,omitempty"`
	Options    map[string]any `json:"options" toml:"options" yaml:"options"`
	Infowindow map[string]any `json:"infowindow,omitempty" toml:"infowindow,omitempty" yaml:"infowindow,omitempty"`
	Tooltip    map[string]any `json:"tooltip,omitempty" toml:"tooltip,omitempty" yaml:"tooltip,omitempty"`

	optionKeys []string
}

// OptionKeys returns the option names in serialization order: the order
// recorded by ToJSON, then any remaining keys sorted.
func (d Document) OptionKeys() []string {
	keys := make([]string, 0, len(d.Options))
	for _, k := range d.optionKeys {
		if _, ok := d.Options[k]; ok && !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range d.Options {
		if !slices.Contains(keys, k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

// MarshalJSON encodes the document with options in [Document.OptionKeys] order.
func (d Document) MarshalJSON() ([]byte, error) {
	opts, err := attrs.MarshalOrdered(d.OptionKeys(), d.Options)
	if err != nil {
		return nil, err
	}
	type wire struct {
		ID         string          `json:"id"`
		Kind       string          `json:"kind,omitempty"`
		Letter     string          `json:"letter,omitempty"`
		Options    json.RawMessage `json:"options"`
		Infowindow map[string]any  `json:"infowindow,omitempty"`
		Tooltip    map[string]any  `json:"tooltip,omitempty"`
	}
	return json.Marshal(wire{
		ID:         d.ID,
		Kind:       d.Kind,
		Letter:     d.Letter,
		Options:    opts,
		Infowindow: d.Infowindow,
		Tooltip:    d.Tooltip,
	})
}
