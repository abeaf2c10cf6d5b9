package layer

import (
	"errors"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/layerdefs/pkg/analysis"
	"github.com/matzehuels/layerdefs/pkg/attrs"
)

// Attribute names. Option attributes are stored flat next to id and kind.
const (
	AttrID        = "id"
	AttrKind      = "kind"
	AttrLetter    = "letter"
	AttrAutoStyle = "autoStyle"

	OptType            = "type"
	OptTableName       = "table_name"
	OptSQL             = "sql"
	OptCartoCSS        = "cartocss"
	OptColor           = "color"
	OptVisible         = "visible"
	OptSource          = "source"
	OptStyleProperties = "style_properties"
	OptCartoCSSHistory = "cartocss_history"
	OptSQLHistory      = "sql_history"

	// Persisted names of sql and cartocss.
	OptQuery     = "query"
	OptTileStyle = "tile_style"
)

// Layer kinds that read features from a table or query.
const (
	KindCarto  = "carto"
	KindTorque = "torque"
)

// ErrNoPersister is returned by [Definition.Save] when no [Persister] is set.
var ErrNoPersister = errors.New("layer has no persister")

var (
	// persisted name -> in-memory name
	renames = map[string]string{OptTileStyle: OptCartoCSS, OptQuery: OptSQL}
	// in-memory name -> persisted name
	reverseRenames = map[string]string{OptCartoCSS: OptTileStyle, OptSQL: OptQuery}

	// attributes that are never written into options
	nonOptions = map[string]bool{AttrID: true, AttrKind: true, AttrLetter: true, AttrAutoStyle: true}

	attrOrder = []string{
		AttrID, AttrKind, AttrLetter, AttrAutoStyle,
		OptType, OptTableName, OptSQL, OptCartoCSS, OptColor, OptVisible, OptSource,
		OptCartoCSSHistory, OptSQLHistory,
	}
)

func internalName(k string) string {
	if r, ok := renames[k]; ok {
		return r
	}
	return k
}

func persistedName(k string) string {
	if r, ok := reverseRenames[k]; ok {
		return r
	}
	return k
}

// Definition is the editable state of one map layer.
//
// Options from the persisted document are flattened next to id and kind,
// with tile_style and query renamed to cartocss and sql. The style model is
// built when the layer reads from a table; infowindow and tooltip models are
// built when their initial data is non-empty. Sub-models are built once and
// then edited in place.
type Definition struct {
	m *attrs.Model

	style      *Style
	infowindow TemplateModel
	tooltip    TemplateModel
	reactor    *styleReactor

	collection *Collection
	finder     NodeFinder
	counter    DataLayerCounter
	persister  Persister
	logger     *log.Logger
}

// New builds a definition from a persisted document.
func New(doc Document, opts ...Option) *Definition {
	o := buildOptions(opts)

	values := make(map[string]any, len(doc.Options)+4)
	for k, v := range doc.Options {
		if _, renamed := renames[k]; renamed {
			continue
		}
		values[k] = v
	}
	// renamed keys win over their in-memory spelling
	for from, to := range renames {
		if v, ok := doc.Options[from]; ok {
			values[to] = v
		}
	}
	values[AttrID] = doc.ID
	if doc.Kind != "" {
		values[AttrKind] = doc.Kind
	}
	if doc.Letter != "" {
		values[AttrLetter] = doc.Letter
	}
	values[AttrAutoStyle] = false

	d := &Definition{
		finder:    o.finder,
		counter:   o.counter,
		persister: o.persister,
		logger:    o.logger,
	}

	if attrs.Truthy(values[OptTableName]) {
		sp, _ := values[OptStyleProperties].(map[string]any)
		delete(values, OptStyleProperties)
		d.style = NewStyle(sp)
	}
	d.m = attrs.New(values, attrOrder...)

	if len(doc.Infowindow) > 0 {
		d.infowindow = NewPopup(doc.Infowindow)
	}
	if len(doc.Tooltip) > 0 {
		d.tooltip = NewPopup(doc.Tooltip)
	}
	if d.style != nil {
		d.reactor = newStyleReactor(d, d.style)
	}
	return d
}

// Close releases the style subscription. Closing twice is a no-op.
func (d *Definition) Close() error {
	if d.reactor == nil {
		return nil
	}
	return d.reactor.close()
}

// ID returns the layer id.
func (d *Definition) ID() string { return d.m.String(AttrID) }

// Kind returns the layer kind.
func (d *Definition) Kind() string { return d.m.String(AttrKind) }

// Letter returns the letter assigned by the owning collection, or "".
func (d *Definition) Letter() string { return d.m.String(AttrLetter) }

// SetLetter assigns the layer letter. Collections assign letters on Add;
// changing the letter of a layer inside a collection can break letter
// uniqueness.
func (d *Definition) SetLetter(l string) { d.m.Set(AttrLetter, l) }

// Get returns an attribute. Persisted names are accepted, so Get("query")
// reads sql.
func (d *Definition) Get(key string) (any, bool) { return d.m.Get(internalName(key)) }

// Set changes an attribute. Persisted names are accepted.
func (d *Definition) Set(key string, v any) { d.m.Set(internalName(key), v) }

// Unset removes an attribute.
func (d *Definition) Unset(key string) { d.m.Unset(internalName(key)) }

// OnChange registers fn for changes of key.
func (d *Definition) OnChange(key string, fn attrs.Listener) attrs.Subscription {
	return d.m.OnChange(internalName(key), fn)
}

// Type returns the layer type option (CartoDB, tiled, ...).
func (d *Definition) Type() string { return d.m.String(OptType) }

// TableName returns the table the layer reads from, or "".
func (d *Definition) TableName() string { return d.m.String(OptTableName) }

// SQL returns the layer query.
func (d *Definition) SQL() string { return d.m.String(OptSQL) }

// CartoCSS returns the layer style sheet.
func (d *Definition) CartoCSS() string { return d.m.String(OptCartoCSS) }

// Source returns the id of the analysis node the layer reads from, or "".
func (d *Definition) Source() string { return d.m.String(OptSource) }

// SetSource points the layer at another analysis node.
func (d *Definition) SetSource(id string) { d.m.Set(OptSource, id) }

// Visible reports the visible option.
func (d *Definition) Visible() bool { return d.m.Bool(OptVisible) }

// ToggleVisible flips the visible option and returns the new value.
func (d *Definition) ToggleVisible() bool {
	v := !d.Visible()
	d.m.Set(OptVisible, v)
	return v
}

// IsDataLayer reports whether the layer reads features from a table or
// query. Only data layers receive letters.
func (d *Definition) IsDataLayer() bool {
	k := d.Kind()
	return k == KindCarto || k == KindTorque
}

// SetSQL replaces the query and pushes the previous one onto sql_history.
func (d *Definition) SetSQL(sql string) { d.setWithHistory(OptSQL, OptSQLHistory, sql) }

// SetCartoCSS replaces the style sheet and pushes the previous one onto
// cartocss_history.
func (d *Definition) SetCartoCSS(css string) { d.setWithHistory(OptCartoCSS, OptCartoCSSHistory, css) }

func (d *Definition) setWithHistory(key, historyKey, v string) {
	old := d.m.String(key)
	if old == v {
		return
	}
	if old != "" {
		d.m.Set(historyKey, append(d.History(historyKey), old))
	}
	d.m.Set(key, v)
}

// History returns a copy of cartocss_history or sql_history.
func (d *Definition) History(historyKey string) []any {
	h, _ := d.m.Value(historyKey).([]any)
	return slices.Clone(h)
}

// Style returns the style model, or nil when the layer has no table.
func (d *Definition) Style() *Style { return d.style }

// Infowindow returns the infowindow model, or nil.
func (d *Definition) Infowindow() TemplateModel { return d.infowindow }

// Tooltip returns the tooltip model, or nil.
func (d *Definition) Tooltip() TemplateModel { return d.tooltip }

// SetInfowindowModel replaces the infowindow model. Pass nil to drop it.
func (d *Definition) SetInfowindowModel(m TemplateModel) { d.infowindow = m }

// SetTooltipModel replaces the tooltip model. Pass nil to drop it.
func (d *Definition) SetTooltipModel(m TemplateModel) { d.tooltip = m }

// AutoStyle returns the active auto-style token, or "" when there is none.
func (d *Definition) AutoStyle() string { return d.m.String(AttrAutoStyle) }

// HasAutoStyle reports whether an auto-style token is set.
func (d *Definition) HasAutoStyle() bool { return d.m.Truthy(AttrAutoStyle) }

// SetAutoStyle marks the style as previewing the auto-style identified by
// token and applies props to the style model when the layer has one. An
// empty token clears the marker without touching the style.
func (d *Definition) SetAutoStyle(token string, props map[string]any) {
	if token == "" {
		d.m.Set(AttrAutoStyle, false)
		return
	}
	d.m.Set(AttrAutoStyle, token)
	if d.style != nil && props != nil {
		d.style.ApplyAutoStyle(props)
	}
}

// ToJSON returns the persisted document.
//
// Renamed options get their persisted names back. style_properties and the
// two history arrays are always present, except that style_properties is
// left out while the style is autogenerated. Popups appear only when they
// have attributes. Neither autoStyle nor letter is ever included.
func (d *Definition) ToJSON() Document {
	opts := make(map[string]any, d.m.Len()+3)
	var order []string
	add := func(k string, v any) {
		if _, ok := opts[k]; !ok {
			order = append(order, k)
		}
		opts[k] = v
	}
	for _, k := range d.m.Keys() {
		if nonOptions[k] {
			continue
		}
		add(persistedName(k), d.m.Value(k))
	}

	switch {
	case d.style == nil:
		if _, ok := opts[OptStyleProperties]; !ok {
			add(OptStyleProperties, map[string]any{})
		}
	case d.style.IsAutogenerated():
		delete(opts, OptStyleProperties)
		order = slices.DeleteFunc(order, func(k string) bool { return k == OptStyleProperties })
	default:
		add(OptStyleProperties, d.style.ToJSON())
	}
	for _, h := range []string{OptCartoCSSHistory, OptSQLHistory} {
		if _, ok := opts[h]; !ok {
			add(h, []any{})
		}
	}

	doc := Document{
		ID:         d.ID(),
		Kind:       d.Kind(),
		Options:    opts,
		optionKeys: order,
	}
	if d.infowindow != nil && !d.infowindow.IsEmpty() {
		doc.Infowindow = d.infowindow.ToMap()
	}
	if d.tooltip != nil && !d.tooltip.IsEmpty() {
		doc.Tooltip = d.tooltip.ToMap()
	}
	return doc
}

// IsOwnerOfAnalysisNode reports whether n was created by this layer: its id
// carries the layer's letter. Always false before a letter is assigned and
// for ids outside the <letter><index> convention.
func (d *Definition) IsOwnerOfAnalysisNode(n *analysis.Node) bool {
	if n == nil {
		return false
	}
	letter := d.Letter()
	if letter == "" {
		return false
	}
	l, _, ok := analysis.ParseNodeID(n.ID)
	return ok && l == letter
}

func (d *Definition) nodeFinder() NodeFinder {
	if d.collection != nil {
		return d.collection
	}
	return d.finder
}

// FindAnalysisNode looks up an analysis node through the owning collection
// or the configured finder.
func (d *Definition) FindAnalysisNode(id string) (*analysis.Node, bool) {
	f := d.nodeFinder()
	if f == nil || id == "" {
		return nil, false
	}
	return f.FindAnalysisNode(id)
}

// AnalysisNode returns the node the layer reads from.
func (d *Definition) AnalysisNode() (*analysis.Node, bool) {
	return d.FindAnalysisNode(d.Source())
}

// chain walks from the layer's source node towards the root, stopping at
// unknown ids and before revisiting a node.
func (d *Definition) chain() []*analysis.Node {
	var out []*analysis.Node
	seen := make(map[string]bool)
	for n, ok := d.AnalysisNode(); ok && !seen[n.ID]; n, ok = d.FindAnalysisNode(n.Source) {
		seen[n.ID] = true
		out = append(out, n)
	}
	return out
}

// NumberOfAnalyses counts the transform nodes between the layer and its
// root. Source nodes never count, so a layer reading a table directly has 0.
func (d *Definition) NumberOfAnalyses() int {
	count := 0
	for _, n := range d.chain() {
		if !n.IsSource() {
			count++
		}
	}
	return count
}

// ContainsNode reports whether n lies on the layer's own chain, including
// the source node itself.
func (d *Definition) ContainsNode(n *analysis.Node) bool {
	if n == nil {
		return false
	}
	for _, c := range d.chain() {
		if c.ID == n.ID {
			return true
		}
	}
	return false
}

// CanBeDeletedByUser reports whether removing the layer leaves the map
// usable. The last data layer cannot be deleted, and neither can a layer
// that every other data layer depends on.
func (d *Definition) CanBeDeletedByUser() bool {
	count := 0
	switch {
	case d.counter != nil:
		count = d.counter.CountDataLayers()
	case d.collection != nil:
		count = d.collection.CountDataLayers()
	}
	if count <= 1 {
		return false
	}
	if d.collection == nil {
		return true
	}
	return !d.collection.orphansAll(d)
}
