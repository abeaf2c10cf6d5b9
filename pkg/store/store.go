// Package store persists layer documents.
//
// A [Store] is a small key-value contract keyed by layer id. Backends:
//   - [Null]: discards writes (testing, dry runs)
//   - [File]: one JSON file per layer through github.com/viant/afs
//   - [Redis]: one key per layer
//   - [Mongo]: one document per layer
//
// Stores compose: [WithRetry] retries transient backend failures with
// exponential backoff and [Dedupe] skips writes whose payload did not change.
// [NewPersister] adapts any Store to [layer.Persister] so definitions can
// save into it, and [Open] builds the configured stack.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/layerdefs/pkg/errors"
	"github.com/matzehuels/layerdefs/pkg/layer"
	"github.com/matzehuels/layerdefs/pkg/observability"
)

// Store is a document store keyed by layer id.
type Store interface {
	// Put stores data under id, replacing any previous value.
	Put(ctx context.Context, id string, data []byte) error

	// Get returns the data stored under id. A missing id is not an error:
	// it returns (nil, false, nil).
	Get(ctx context.Context, id string) ([]byte, bool, error)

	// Delete removes id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// Name identifies the backend in logs and hooks.
	Name() string

	// Close releases backend connections.
	Close() error
}

// Persister saves layer documents into a Store as JSON.
type Persister struct {
	store Store
}

// NewPersister adapts s to [layer.Persister].
func NewPersister(s Store) *Persister {
	return &Persister{store: s}
}

// Persist encodes doc and stores it under doc.ID.
func (p *Persister) Persist(ctx context.Context, doc layer.Document, _ layer.PersistOptions) error {
	if err := errors.ValidateLayerID(doc.ID); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode layer %s", doc.ID)
	}

	start := time.Now()
	err = p.store.Put(ctx, doc.ID, data)
	observability.Store().OnPersist(ctx, p.store.Name(), len(data), time.Since(start), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistFailed, err, "persist layer %s to %s", doc.ID, p.store.Name())
	}
	return nil
}

// Load reads the document stored under id. ok is false when it is absent.
func Load(ctx context.Context, s Store, id string) (doc layer.Document, ok bool, err error) {
	if err := errors.ValidateLayerID(id); err != nil {
		return layer.Document{}, false, err
	}
	data, hit, err := s.Get(ctx, id)
	observability.Store().OnLoad(ctx, s.Name(), hit)
	if err != nil {
		return layer.Document{}, false, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "load layer %s from %s", id, s.Name())
	}
	if !hit {
		return layer.Document{}, false, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return layer.Document{}, false, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layer %s", id)
	}
	return doc, true, nil
}

// Remove deletes the document stored under id.
func Remove(ctx context.Context, s Store, id string) error {
	if err := errors.ValidateLayerID(id); err != nil {
		return err
	}
	if err := s.Delete(ctx, id); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "delete layer %s from %s", id, s.Name())
	}
	observability.Store().OnDelete(ctx, s.Name())
	return nil
}

// Ensure Persister implements layer.Persister.
var _ layer.Persister = (*Persister)(nil)
