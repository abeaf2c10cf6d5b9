package layer

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layerdefs/pkg/analysis"
)

// Persister stores serialized layer documents. Retries, transport and
// storage format are its concern; a Definition calls it once per save.
type Persister interface {
	Persist(ctx context.Context, doc Document, opts PersistOptions) error
}

// PersistOptions carries save flags through to the persister.
type PersistOptions struct {
	// Attrs are the caller-supplied attributes merged by this save.
	Attrs map[string]any
	// PreserveAutoStyle mirrors [SaveOptions.PreserveAutoStyle].
	PreserveAutoStyle bool
}

// PersisterFunc adapts a function to the [Persister] interface.
type PersisterFunc func(ctx context.Context, doc Document, opts PersistOptions) error

// Persist calls f.
func (f PersisterFunc) Persist(ctx context.Context, doc Document, opts PersistOptions) error {
	return f(ctx, doc, opts)
}

// NodeFinder resolves analysis node ids, usually against the graph shared
// by a [Collection].
type NodeFinder interface {
	FindAnalysisNode(id string) (*analysis.Node, bool)
}

// NodeFinderFunc adapts a lookup function to the [NodeFinder] interface.
type NodeFinderFunc func(id string) (*analysis.Node, bool)

// FindAnalysisNode calls f.
func (f NodeFinderFunc) FindAnalysisNode(id string) (*analysis.Node, bool) { return f(id) }

// DataLayerCounter reports how many data layers a map has.
type DataLayerCounter interface {
	CountDataLayers() int
}

// DataLayerCounterFunc adapts a function to the [DataLayerCounter] interface.
type DataLayerCounterFunc func() int

// CountDataLayers calls f.
func (f DataLayerCounterFunc) CountDataLayers() int { return f() }

type options struct {
	logger    *log.Logger
	persister Persister
	finder    NodeFinder
	counter   DataLayerCounter
}

// Option configures a [Definition] or a [Collection].
type Option func(*options)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithPersister sets the collaborator that receives saved documents.
func WithPersister(p Persister) Option {
	return func(o *options) { o.persister = p }
}

// WithNodeFinder sets the analysis node lookup used by a standalone
// definition. Definitions added to a [Collection] use the collection.
func WithNodeFinder(f NodeFinder) Option {
	return func(o *options) { o.finder = f }
}

// WithGraph resolves analysis nodes against g.
func WithGraph(g *analysis.Graph) Option {
	return WithNodeFinder(NodeFinderFunc(g.Node))
}

// WithDataLayerCounter overrides the data layer count used by
// [Definition.CanBeDeletedByUser].
func WithDataLayerCounter(c DataLayerCounter) Option {
	return func(o *options) { o.counter = c }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	return o
}
