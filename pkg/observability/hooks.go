// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layer saves and persistence operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by libraries, so the layer and store
// packages stay free of any metrics framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayerHooks(&myLayerHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layer().OnSaveStart(ctx, id)
//	// ... persist ...
//	observability.Layer().OnSaveComplete(ctx, id, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layer Hooks
// =============================================================================

// LayerHooks receives events from layer definitions.
type LayerHooks interface {
	// Save events
	OnSaveStart(ctx context.Context, layerID string)
	OnSaveComplete(ctx context.Context, layerID string, duration time.Duration, err error)

	// OnStyleReset records a style reset from auto-style properties.
	OnStyleReset(ctx context.Context, layerID string)

	// OnTemplateReset records a popup template being unset because the
	// style type no longer supports per-feature popups.
	OnTemplateReset(layerID, popup, styleType string)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from persistence backends.
type StoreHooks interface {
	// OnPersist records a document write.
	OnPersist(ctx context.Context, backend string, size int, duration time.Duration, err error)

	// OnLoad records a document read. hit is false when the document was absent.
	OnLoad(ctx context.Context, backend string, hit bool)

	// OnDelete records a document removal.
	OnDelete(ctx context.Context, backend string)

	// OnSkip records a write skipped because the payload was unchanged.
	OnSkip(ctx context.Context, backend string)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayerHooks is a no-op implementation of LayerHooks.
type NoopLayerHooks struct{}

func (NoopLayerHooks) OnSaveStart(context.Context, string)                          {}
func (NoopLayerHooks) OnSaveComplete(context.Context, string, time.Duration, error) {}
func (NoopLayerHooks) OnStyleReset(context.Context, string)                         {}
func (NoopLayerHooks) OnTemplateReset(string, string, string)                       {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnPersist(context.Context, string, int, time.Duration, error) {}
func (NoopStoreHooks) OnLoad(context.Context, string, bool)                         {}
func (NoopStoreHooks) OnDelete(context.Context, string)                             {}
func (NoopStoreHooks) OnSkip(context.Context, string)                               {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layerHooks LayerHooks = NoopLayerHooks{}
	storeHooks StoreHooks = NoopStoreHooks{}
	hooksMu    sync.RWMutex
)

// SetLayerHooks registers custom layer hooks.
// This should be called once at application startup before any layer is saved.
func SetLayerHooks(h LayerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layerHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store is opened.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Layer returns the registered layer hooks.
func Layer() LayerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layerHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layerHooks = NoopLayerHooks{}
	storeHooks = NoopStoreHooks{}
}
