package io

import (
	stderrors "errors"
	"fmt"

	"github.com/matzehuels/layerdefs/pkg/analysis"
	"github.com/matzehuels/layerdefs/pkg/errors"
	"github.com/matzehuels/layerdefs/pkg/layer"
)

// Map is a decoded map document.
type Map struct {
	Analyses []Analysis       `json:"analyses" toml:"analyses" yaml:"analyses"`
	Layers   []layer.Document `json:"layers" toml:"layers" yaml:"layers"`
}

// Analysis is the encoded form of an [analysis.Node].
type Analysis struct {
	ID     string         `json:"id" toml:"id" yaml:"id"`
	Type   string         `json:"type" toml:"type" yaml:"type"`
	Source string         `json:"source,omitempty" toml:"source,omitempty" yaml:"source,omitempty"`
	Params map[string]any `json:"params,omitempty" toml:"params,omitempty" yaml:"params,omitempty"`
}

// Graph builds and validates the analysis graph of m. A source that names
// no analysis fails with NODE_NOT_FOUND, any other structural problem with
// INVALID_INPUT. The analysis sentinel stays in the chain.
func (m *Map) Graph() (*analysis.Graph, error) {
	g := analysis.New()
	for _, a := range m.Analyses {
		n := analysis.Node{ID: a.ID, Type: a.Type, Source: a.Source, Params: analysis.Params(a.Params)}
		if err := g.Add(n); err != nil {
			return nil, graphErr(err, "analysis %s", a.ID)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, graphErr(err, "analysis graph")
	}
	return g, nil
}

func graphErr(err error, format string, args ...any) error {
	if stderrors.Is(err, analysis.ErrUnknownSource) {
		return errors.Wrap(errors.ErrCodeNodeNotFound, err, format, args...)
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, format, args...)
}

// Lint reports analyses whose ids do not follow the <letter><index>
// convention. Such nodes load fine but no layer can own them.
func (m *Map) Lint() []error {
	var errs []error
	for _, a := range m.Analyses {
		if err := errors.ValidateNodeID(a.ID); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Build creates a collection over the graph of m and adds every layer in
// document order. opts apply to the collection and all its layers. A letter
// given in the document must be a single lowercase letter; a taken one is
// reassigned by [layer.Collection.Add].
func (m *Map) Build(opts ...layer.Option) (*layer.Collection, error) {
	g, err := m.Graph()
	if err != nil {
		return nil, err
	}
	c := layer.NewCollection(g, opts...)
	for i, doc := range m.Layers {
		if doc.Letter != "" {
			if err := errors.ValidateLetter(doc.Letter); err != nil {
				return nil, fmt.Errorf("layer %d (%s): %w", i, doc.ID, err)
			}
		}
		if _, err := c.Add(doc); err != nil {
			return nil, fmt.Errorf("layer %d (%s): %w", i, doc.ID, err)
		}
	}
	return c, nil
}

// FromCollection captures the graph and layers of c. Unlike
// [layer.Definition.ToJSON], the captured documents keep their letters.
func FromCollection(c *layer.Collection) *Map {
	m := &Map{}
	for _, n := range c.Graph().Nodes() {
		a := Analysis{ID: n.ID, Type: n.Type, Source: n.Source}
		if len(n.Params) > 0 {
			a.Params = map[string]any(n.Params)
		}
		m.Analyses = append(m.Analyses, a)
	}
	for _, d := range c.Layers() {
		doc := d.ToJSON()
		doc.Letter = d.Letter()
		m.Layers = append(m.Layers, doc)
	}
	return m
}
