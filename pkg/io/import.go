package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/layerdefs/pkg/errors"
)

// Read decodes a map document in format f from r. Read does not close r.
func Read(r io.Reader, f Format) (*Map, error) {
	var (
		m   Map
		err error
	)
	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&m)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&m)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&m)
		if err == io.EOF {
			err = nil
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown map format %q", f)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s map", f)
	}
	m.normalize()
	return &m, nil
}

// Import reads the map document at path. The format follows the extension.
func Import(path string) (*Map, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	defer file.Close()
	return Read(file, f)
}
