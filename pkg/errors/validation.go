package errors

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/matzehuels/layerdefs/pkg/analysis"
)

// ValidateLayerID validates a layer identifier before it is used as a storage
// key. Layer ids end up in file names, Redis keys and Mongo documents, so the
// rules are conservative:
//   - No empty ids
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateLayerID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "layer id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "layer id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "layer id contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "layer id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateNodeID checks that id follows the <letter><index> convention.
func ValidateNodeID(id string) error {
	if _, _, ok := analysis.ParseNodeID(id); !ok {
		return New(ErrCodeInvalidNodeID, "node id %q does not match <letter><index>", id)
	}
	return nil
}

// ValidateLetter checks that s is a usable layer letter.
func ValidateLetter(s string) error {
	if !analysis.ValidLetter(s) {
		return New(ErrCodeInvalidInput, "layer letter must be a single lowercase letter, got %q", s)
	}
	return nil
}

// mapExtensions lists the map document formats pkg/io understands.
var mapExtensions = []string{".json", ".toml", ".yaml", ".yml"}

// ValidateMapFilename validates the name of a map document. The extension
// selects the decoder, so it must be one of the supported formats.
func ValidateMapFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "map filename cannot be empty")
	}

	if strings.ContainsRune(filename, '\x00') {
		return New(ErrCodeInvalidInput, "map filename contains invalid characters")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range mapExtensions {
		if ext == e {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported map format %q (want .json, .toml or .yaml)", ext)
}
