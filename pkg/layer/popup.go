package layer

import (
	"github.com/matzehuels/layerdefs/pkg/attrs"
)

// Popup field names.
const (
	PopupTemplateName = "template_name"
	PopupTemplate     = "template"
	PopupFields       = "fields"
)

// TemplateModel is the part of a popup model a [Definition] relies on.
// [*Popup] implements it; tests and alternative UIs may supply their own.
type TemplateModel interface {
	SetTemplate(name string)
	UnsetTemplate()
	IsEmpty() bool
	ToMap() map[string]any
}

// Popup is an infowindow or tooltip configuration: a template name, the
// feature fields it shows and any number of presentation attributes
// (width, headerColor, maxHeight, ...).
type Popup struct {
	*attrs.Model
}

// popupKeyOrder keeps serialized popups readable.
var popupKeyOrder = []string{PopupTemplateName, PopupTemplate, PopupFields}

// NewPopup builds a popup model from raw data.
func NewPopup(data map[string]any) *Popup {
	return &Popup{Model: attrs.New(data, popupKeyOrder...)}
}

// SetTemplate selects a named template. The custom template body is dropped
// so the named one takes effect.
func (p *Popup) SetTemplate(name string) {
	p.Set(PopupTemplateName, name)
	p.Set(PopupTemplate, "")
}

// UnsetTemplate removes the template and the selected fields. The popup
// keeps its presentation attributes.
func (p *Popup) UnsetTemplate() {
	p.Set(PopupTemplateName, "")
	p.Set(PopupTemplate, "")
	p.Set(PopupFields, []any{})
}

// TemplateName returns the selected template, or "".
func (p *Popup) TemplateName() string { return p.String(PopupTemplateName) }

// Fields returns the configured fields, or nil when there are none.
func (p *Popup) Fields() []any {
	f, _ := p.Value(PopupFields).([]any)
	return f
}

// HasTemplate reports whether a named template is selected.
func (p *Popup) HasTemplate() bool { return p.TemplateName() != "" }
