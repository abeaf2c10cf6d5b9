package store

import (
	"context"
)

// Null is a no-op store that never keeps anything.
// Useful for testing or dry runs.
type Null struct{}

// NewNull creates a null store.
func NewNull() Store {
	return &Null{}
}

// Put does nothing.
func (s *Null) Put(ctx context.Context, id string, data []byte) error {
	return nil
}

// Get always reports a miss.
func (s *Null) Get(ctx context.Context, id string) ([]byte, bool, error) {
	return nil, false, nil
}

// Delete does nothing.
func (s *Null) Delete(ctx context.Context, id string) error {
	return nil
}

// Name returns "null".
func (s *Null) Name() string { return "null" }

// Close does nothing.
func (s *Null) Close() error {
	return nil
}

// Ensure Null implements Store.
var _ Store = (*Null)(nil)
