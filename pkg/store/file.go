package store

import (
	"bytes"
	"context"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
)

// File stores one JSON document per layer under a base URL. Any location
// afs understands works; a plain directory path is treated as file://.
type File struct {
	fs   afs.Service
	base string
}

// NewFile creates a file store rooted at base. The directory is created if
// it does not exist.
func NewFile(ctx context.Context, base string) (*File, error) {
	fs := afs.New()
	exists, err := fs.Exists(ctx, base)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := fs.Create(ctx, base, 0o755, true); err != nil {
			return nil, err
		}
	}
	return &File{fs: fs, base: base}, nil
}

// Put writes data to <base>/<id>.json.
func (s *File) Put(ctx context.Context, id string, data []byte) error {
	return s.fs.Upload(ctx, s.location(id), 0o644, bytes.NewReader(data))
}

// Get reads <base>/<id>.json.
func (s *File) Get(ctx context.Context, id string) ([]byte, bool, error) {
	u := s.location(id)
	exists, err := s.fs.Exists(ctx, u)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, nil
	}
	data, err := s.fs.DownloadWithURL(ctx, u)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Delete removes <base>/<id>.json.
func (s *File) Delete(ctx context.Context, id string) error {
	u := s.location(id)
	exists, err := s.fs.Exists(ctx, u)
	if err != nil || !exists {
		return err
	}
	return s.fs.Delete(ctx, u)
}

// Name returns "file".
func (s *File) Name() string { return "file" }

// Close releases afs resources held for the base location.
func (s *File) Close() error {
	return s.fs.CloseAll()
}

func (s *File) location(id string) string {
	return url.Join(s.base, id+".json")
}

// Ensure File implements Store.
var _ Store = (*File)(nil)
