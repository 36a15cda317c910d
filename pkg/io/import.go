package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/klauspost/compress/zstd"

	kerrors "github.com/matzehuels/knapsack/pkg/errors"
	"github.com/matzehuels/knapsack/pkg/knapsack"
)

// ReadJSON decodes a JSON instance from r and validates it.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (knapsack.Instance, error) {
	var in knapsack.Instance
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return knapsack.Instance{}, kerrors.Wrap(kerrors.ErrCodeInvalidFormat, err, "decode json")
	}
	if err := in.Validate(); err != nil {
		return knapsack.Instance{}, err
	}
	return in, nil
}

// ReadTOML decodes a TOML instance from r and validates it.
// ReadTOML does not close r.
func ReadTOML(r io.Reader) (knapsack.Instance, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return knapsack.Instance{}, fmt.Errorf("read: %w", err)
	}
	var in knapsack.Instance
	if err := toml.Unmarshal(data, &in); err != nil {
		return knapsack.Instance{}, kerrors.Wrap(kerrors.ErrCodeInvalidFormat, err, "decode toml")
	}
	if err := in.Validate(); err != nil {
		return knapsack.Instance{}, err
	}
	return in, nil
}

// Read decodes an instance in the given format, decompressing first when
// compressed is set.
func Read(r io.Reader, format Format, compressed bool) (knapsack.Instance, error) {
	if compressed {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return knapsack.Instance{}, fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatTOML:
		return ReadTOML(r)
	}
	return knapsack.Instance{}, kerrors.New(kerrors.ErrCodeInvalidFormat, "unsupported format %q", format)
}

// ImportFile reads the instance stored at path. The format is taken from the
// file extension (see [DetectFormat]).
func ImportFile(path string) (knapsack.Instance, error) {
	format, compressed, err := DetectFormat(path)
	if err != nil {
		return knapsack.Instance{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return knapsack.Instance{}, kerrors.Wrap(kerrors.ErrCodeFileNotFound, err, "instance file %s", path)
		}
		return knapsack.Instance{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	in, err := Read(f, format, compressed)
	if err != nil {
		return knapsack.Instance{}, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}
