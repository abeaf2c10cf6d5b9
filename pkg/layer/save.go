package layer

import (
	"context"
	"time"

	"github.com/matzehuels/layerdefs/pkg/observability"
)

// SaveOptions controls [Definition.Save].
type SaveOptions struct {
	// PreserveAutoStyle keeps a previewed auto-style as the layer's real
	// style instead of resetting it before the save.
	PreserveAutoStyle bool
}

// Save merges attrs into the layer and hands the serialized document to the
// persister.
//
// An active auto-style preview is reset first unless opts.PreserveAutoStyle
// is set. autoStyle is cleared before the document is built, so it never
// reaches the persister, and it stays cleared whether or not the persister
// succeeds. An autoStyle key in attrs is neither merged nor passed on in
// PersistOptions.Attrs.
func (d *Definition) Save(ctx context.Context, attrs map[string]any, opts SaveOptions) (err error) {
	start := time.Now()
	hooks := observability.Layer()
	hooks.OnSaveStart(ctx, d.ID())
	defer func() {
		d.m.Set(AttrAutoStyle, false)
		hooks.OnSaveComplete(ctx, d.ID(), time.Since(start), err)
	}()

	if d.HasAutoStyle() && d.style != nil {
		if opts.PreserveAutoStyle {
			d.style.commitAutoStyle()
		} else {
			d.logger.Debug("resetting auto style", "layer", d.ID(), "token", d.AutoStyle())
			d.style.ResetPropertiesFromAutoStyle()
			hooks.OnStyleReset(ctx, d.ID())
		}
	}

	clean := make(map[string]any, len(attrs))
	merged := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if internalName(k) == AttrAutoStyle {
			continue
		}
		clean[k] = v
		merged[internalName(k)] = v
	}
	d.m.SetAll(merged)
	d.m.Set(AttrAutoStyle, false)

	p := d.persister
	if p == nil && d.collection != nil {
		p = d.collection.persister
	}
	if p == nil {
		return ErrNoPersister
	}
	doc := d.ToJSON()
	d.logger.Debug("saving layer", "layer", d.ID(), "options", len(doc.Options))
	return p.Persist(ctx, doc, PersistOptions{Attrs: clean, PreserveAutoStyle: opts.PreserveAutoStyle})
}
