package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logLayerHooks reports layer events at debug level.
type logLayerHooks struct{ logger *log.Logger }

func (h logLayerHooks) OnSaveStart(_ context.Context, id string) {
	h.logger.Debug("saving layer", "layer", id)
}

func (h logLayerHooks) OnSaveComplete(_ context.Context, id string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("save failed", "layer", id, "err", err)
		return
	}
	h.logger.Debug("saved layer", "layer", id, "took", d.Round(time.Millisecond))
}

func (h logLayerHooks) OnStyleReset(_ context.Context, id string) {
	h.logger.Debug("auto style discarded", "layer", id)
}

func (h logLayerHooks) OnTemplateReset(id, popup, styleType string) {
	h.logger.Info("popup template cleared", "layer", id, "popup", popup, "style", styleType)
}

// logStoreHooks reports store events at debug level.
type logStoreHooks struct{ logger *log.Logger }

func (h logStoreHooks) OnPersist(_ context.Context, backend string, size int, d time.Duration, err error) {
	h.logger.Debug("persist", "backend", backend, "bytes", size, "took", d.Round(time.Millisecond), "err", err)
}

func (h logStoreHooks) OnLoad(_ context.Context, backend string, hit bool) {
	h.logger.Debug("load", "backend", backend, "hit", hit)
}

func (h logStoreHooks) OnDelete(_ context.Context, backend string) {
	h.logger.Debug("delete", "backend", backend)
}

func (h logStoreHooks) OnSkip(_ context.Context, backend string) {
	h.logger.Debug("unchanged, write skipped", "backend", backend)
}
