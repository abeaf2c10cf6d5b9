package layer

import (
	"maps"

	"github.com/matzehuels/layerdefs/pkg/attrs"
)

// Style attribute names.
const (
	StyleType          = "type"
	StyleProperties    = "properties"
	StyleAutogenerated = "autogenerated"
)

// Style types. Only their category matters here; the styling language
// itself is opaque.
const (
	StyleSimple    = "simple"
	StyleHeatmap   = "heatmap"
	StyleSquares   = "squares"
	StyleHexabins  = "hexabins"
	StyleRegions   = "regions"
	StyleAnimation = "animation"
)

// heatmap stays out of the aggregated set: switching to it keeps popup templates.
var (
	aggregatedStyles = map[string]bool{StyleSquares: true, StyleHexabins: true, StyleRegions: true}
	animatedStyles   = map[string]bool{StyleAnimation: true}
)

// IsAggregatedStyle reports whether features are grouped into cells, which
// leaves no single feature to describe in a popup.
func IsAggregatedStyle(t string) bool { return aggregatedStyles[t] }

// IsAnimatedStyle reports whether the style animates features over time.
func IsAnimatedStyle(t string) bool { return animatedStyles[t] }

// Style is the style sub-model of a layer that reads from a table. Apart
// from its type and the autogenerated flag the content is opaque.
type Style struct {
	m *attrs.Model

	// properties captured by ApplyAutoStyle, restored by ResetPropertiesFromAutoStyle
	beforeAuto map[string]any
	hasAuto    bool
}

// NewStyle builds a style model from a style_properties document. Missing
// type defaults to simple and missing properties to an empty object.
func NewStyle(data map[string]any) *Style {
	m := attrs.New(data, StyleType, StyleProperties, StyleAutogenerated)
	if !m.Has(StyleType) {
		m.Set(StyleType, StyleSimple)
	}
	if _, ok := m.Value(StyleProperties).(map[string]any); !ok {
		m.Set(StyleProperties, map[string]any{})
	}
	return &Style{m: m}
}

// Type returns the style type.
func (s *Style) Type() string { return s.m.String(StyleType) }

// SetType changes the style type and notifies type subscribers.
func (s *Style) SetType(t string) { s.m.Set(StyleType, t) }

// OnTypeChange registers fn for changes of the style type.
func (s *Style) OnTypeChange(fn func(from, to string)) attrs.Subscription {
	return s.m.OnChange(StyleType, func(c attrs.Change) {
		o, _ := c.Old.(string)
		n, _ := c.New.(string)
		fn(o, n)
	})
}

// Properties returns a copy of the style properties.
func (s *Style) Properties() map[string]any {
	p, _ := s.m.Value(StyleProperties).(map[string]any)
	return maps.Clone(p)
}

// SetProperties replaces the style properties.
func (s *Style) SetProperties(p map[string]any) {
	s.m.Set(StyleProperties, maps.Clone(p))
}

// IsAutogenerated reports whether the style was produced by the server
// rather than edited by the user.
func (s *Style) IsAutogenerated() bool { return s.m.Truthy(StyleAutogenerated) }

// SetAutogenerated sets the autogenerated flag.
func (s *Style) SetAutogenerated(v bool) { s.m.Set(StyleAutogenerated, v) }

// ApplyAutoStyle previews props as the style properties. The properties in
// effect before the first preview are kept until the preview is reset or
// committed.
func (s *Style) ApplyAutoStyle(props map[string]any) {
	if !s.hasAuto {
		s.beforeAuto = s.Properties()
		s.hasAuto = true
	}
	s.SetProperties(props)
}

// ResetPropertiesFromAutoStyle discards an auto-style preview and restores
// the properties it replaced. Without a preview it does nothing.
func (s *Style) ResetPropertiesFromAutoStyle() {
	if !s.hasAuto {
		return
	}
	s.SetProperties(s.beforeAuto)
	s.beforeAuto, s.hasAuto = nil, false
}

// commitAutoStyle keeps the previewed properties as the real ones.
func (s *Style) commitAutoStyle() {
	s.beforeAuto, s.hasAuto = nil, false
}

// HasAutoStylePreview reports whether an auto-style preview is applied.
func (s *Style) HasAutoStylePreview() bool { return s.hasAuto }

// ToJSON returns the style_properties document.
func (s *Style) ToJSON() map[string]any {
	out := s.m.ToMap()
	if p, ok := out[StyleProperties].(map[string]any); ok {
		out[StyleProperties] = maps.Clone(p)
	}
	return out
}
