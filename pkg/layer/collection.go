package layer

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/layerdefs/pkg/analysis"
)

var (
	// ErrLettersExhausted is returned by [Collection.Add] when every letter
	// from a to z is taken by a data layer.
	ErrLettersExhausted = errors.New("no free layer letter")

	// ErrDuplicateLayerID is returned by [Collection.Add] when a layer with
	// the same id already exists.
	ErrDuplicateLayerID = errors.New("duplicate layer id")

	// ErrLayerNotFound is returned by collection operations given an id that
	// is not in the collection.
	ErrLayerNotFound = errors.New("layer not found")
)

// Collection is the ordered set of layers on one map. Insertion order is
// stacking order. All layers share one analysis graph and every data layer
// holds a distinct letter.
type Collection struct {
	graph     *analysis.Graph
	layers    []*Definition
	persister Persister
	logger    *log.Logger
	opts      []Option
}

// NewCollection creates an empty collection over g. A nil g starts a new
// graph. opts are also applied to every layer added.
func NewCollection(g *analysis.Graph, opts ...Option) *Collection {
	if g == nil {
		g = analysis.New()
	}
	o := buildOptions(opts)
	return &Collection{
		graph:     g,
		persister: o.persister,
		logger:    o.logger,
		opts:      opts,
	}
}

// Graph returns the shared analysis graph.
func (c *Collection) Graph() *analysis.Graph { return c.graph }

// FindAnalysisNode looks id up in the shared graph.
func (c *Collection) FindAnalysisNode(id string) (*analysis.Node, bool) {
	return c.graph.Node(id)
}

// Add builds a layer from doc and appends it.
//
// A missing id is replaced by a random UUID. Data layers keep the letter in
// doc when it is valid and free; otherwise they get the lowest free letter.
// Other layers keep a free letter from doc but are never assigned one.
func (c *Collection) Add(doc Document, opts ...Option) (*Definition, error) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if _, exists := c.Get(doc.ID); exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateLayerID, doc.ID)
	}

	d := New(doc, slices.Concat(c.opts, opts)...)
	letter := doc.Letter
	if !analysis.ValidLetter(letter) || c.letterTaken(letter) {
		letter = ""
	}
	if letter == "" && d.IsDataLayer() {
		next, err := c.NextLetter()
		if err != nil {
			_ = d.Close()
			return nil, err
		}
		letter = next
	}
	if letter != doc.Letter {
		c.logger.Debug("assigned layer letter", "layer", doc.ID, "letter", letter, "requested", doc.Letter)
	}
	if letter == "" {
		d.Unset(AttrLetter)
	} else {
		d.SetLetter(letter)
	}

	d.collection = c
	c.layers = append(c.layers, d)
	return d, nil
}

// Remove deletes the layer with the given id, releasing its letter and its
// style subscription. The analysis nodes it created stay in the graph.
func (c *Collection) Remove(id string) error {
	for i, d := range c.layers {
		if d.ID() != id {
			continue
		}
		c.layers = slices.Delete(c.layers, i, i+1)
		d.collection = nil
		return d.Close()
	}
	return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
}

// Get returns the layer with the given id.
func (c *Collection) Get(id string) (*Definition, bool) {
	for _, d := range c.layers {
		if d.ID() == id {
			return d, true
		}
	}
	return nil, false
}

// At returns the layer at stacking position i, or nil when i is out of range.
func (c *Collection) At(i int) *Definition {
	if i < 0 || i >= len(c.layers) {
		return nil
	}
	return c.layers[i]
}

// Layers returns the layers in stacking order.
func (c *Collection) Layers() []*Definition {
	out := make([]*Definition, len(c.layers))
	copy(out, c.layers)
	return out
}

// Len returns the number of layers.
func (c *Collection) Len() int { return len(c.layers) }

// CountDataLayers returns the number of layers that read from a table or query.
func (c *Collection) CountDataLayers() int {
	n := 0
	for _, d := range c.layers {
		if d.IsDataLayer() {
			n++
		}
	}
	return n
}

func (c *Collection) letterTaken(l string) bool {
	_, ok := c.LayerByLetter(l)
	return ok
}

// LayerByLetter returns the layer holding letter l.
func (c *Collection) LayerByLetter(l string) (*Definition, bool) {
	if l == "" {
		return nil, false
	}
	for _, d := range c.layers {
		if d.Letter() == l {
			return d, true
		}
	}
	return nil, false
}

// NextLetter returns the lowest letter no layer holds.
func (c *Collection) NextLetter() (string, error) {
	for ch := 'a'; ch <= 'z'; ch++ {
		if l := string(ch); !c.letterTaken(l) {
			return l, nil
		}
	}
	return "", ErrLettersExhausted
}

// LayerOwningNode returns the layer whose letter appears in the node id.
func (c *Collection) LayerOwningNode(nodeID string) (*Definition, bool) {
	l, _, ok := analysis.ParseNodeID(nodeID)
	if !ok {
		return nil, false
	}
	return c.LayerByLetter(l)
}

// CanBeDeletedByUser reports whether d may be removed: there must be more
// than one data layer, and at least one other data layer must survive
// without depending on d.
func (c *Collection) CanBeDeletedByUser(d *Definition) bool {
	if c.CountDataLayers() <= 1 {
		return false
	}
	return !c.orphansAll(d)
}

// orphansAll reports whether every other data layer depends on d. With no
// other data layers there is nothing to orphan.
func (c *Collection) orphansAll(d *Definition) bool {
	dependents := make(map[*Definition]bool)
	for _, dep := range c.DependentLayers(d) {
		dependents[dep] = true
	}
	others := 0
	for _, l := range c.layers {
		if l == d || !l.IsDataLayer() {
			continue
		}
		others++
		if !dependents[l] {
			return false
		}
	}
	return others > 0
}

// SaveAll saves every layer in stacking order and returns the errors joined.
func (c *Collection) SaveAll(ctx context.Context) error {
	var errs []error
	for _, d := range c.layers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := d.Save(ctx, nil, SaveOptions{}); err != nil {
			errs = append(errs, fmt.Errorf("save %s: %w", d.ID(), err))
		}
	}
	return errors.Join(errs...)
}
