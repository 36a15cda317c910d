package io

import (
	"path/filepath"
	"strings"

	kerrors "github.com/matzehuels/knapsack/pkg/errors"
)

// Format is an instance file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

const zstdSuffix = ".zst"

// Formats lists the supported encodings.
func Formats() []Format {
	return []Format{FormatJSON, FormatTOML}
}

// DetectFormat derives the encoding and compression from a file name such
// as "items.toml" or "items.json.zst".
func DetectFormat(path string) (Format, bool, error) {
	name := strings.ToLower(filepath.Base(path))
	compressed := strings.HasSuffix(name, zstdSuffix)
	name = strings.TrimSuffix(name, zstdSuffix)

	switch filepath.Ext(name) {
	case ".json":
		return FormatJSON, compressed, nil
	case ".toml":
		return FormatTOML, compressed, nil
	}
	return "", false, kerrors.New(kerrors.ErrCodeInvalidFormat,
		"cannot infer instance format from %q (use .json or .toml, optionally with .zst)", path)
}
