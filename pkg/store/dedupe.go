package store

import (
	"context"

	"github.com/minio/highwayhash"

	"github.com/matzehuels/layerdefs/pkg/observability"
)

var fingerprintKey = []byte("layerdefs-fingerprint-key-000032")

// Fingerprint returns the 64-bit HighwayHash of data.
func Fingerprint(data []byte) (uint64, error) {
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return 0, err
	}
	_, err = h.Write(data)
	return h.Sum64(), err
}

type dedupeStore struct {
	Store
	last map[string]uint64
}

// Dedupe skips a Put whose payload matches the last payload written for the
// same id through this wrapper. Get and Delete pass through; Delete forgets
// the remembered fingerprint.
func Dedupe(s Store) Store {
	return &dedupeStore{Store: s, last: make(map[string]uint64)}
}

func (d *dedupeStore) Put(ctx context.Context, id string, data []byte) error {
	fp, err := Fingerprint(data)
	if err != nil {
		return d.Store.Put(ctx, id, data)
	}
	if prev, ok := d.last[id]; ok && prev == fp {
		observability.Store().OnSkip(ctx, d.Name())
		return nil
	}
	if err := d.Store.Put(ctx, id, data); err != nil {
		return err
	}
	d.last[id] = fp
	return nil
}

func (d *dedupeStore) Delete(ctx context.Context, id string) error {
	delete(d.last, id)
	return d.Store.Delete(ctx, id)
}
