package io

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/layerdefs/pkg/errors"
)

// Format is a map document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath returns the encoding implied by the extension of path.
func FormatFromPath(path string) (Format, error) {
	if err := errors.ValidateMapFilename(path); err != nil {
		return "", err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "no map format for %s", path)
}
