package layer

import (
	"github.com/matzehuels/layerdefs/pkg/attrs"
	"github.com/matzehuels/layerdefs/pkg/observability"
)

// styleReactor clears popup templates when the style type switches to one
// that has no per-feature content to show.
type styleReactor struct {
	def *Definition
	sub attrs.Subscription
}

func newStyleReactor(d *Definition, s *Style) *styleReactor {
	r := &styleReactor{def: d}
	r.sub = s.OnTypeChange(r.typeChanged)
	return r
}

// typeChanged reads the popups at call time so replaced models are honored.
func (r *styleReactor) typeChanged(_, t string) {
	if !IsAggregatedStyle(t) && !IsAnimatedStyle(t) {
		return
	}
	d := r.def
	d.logger.Debug("resetting popup templates", "layer", d.ID(), "style", t)
	if d.infowindow != nil {
		d.infowindow.UnsetTemplate()
		observability.Layer().OnTemplateReset(d.ID(), "infowindow", t)
	}
	if d.tooltip != nil {
		d.tooltip.UnsetTemplate()
		observability.Layer().OnTemplateReset(d.ID(), "tooltip", t)
	}
}

func (r *styleReactor) close() error {
	return r.sub.Close()
}
