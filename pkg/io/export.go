package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/klauspost/compress/zstd"

	kerrors "github.com/matzehuels/knapsack/pkg/errors"
	"github.com/matzehuels/knapsack/pkg/knapsack"
)

// WriteJSON encodes an instance as indented JSON and writes it to w.
func WriteJSON(in knapsack.Instance, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(in); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteTOML encodes an instance as TOML with one [[items]] table per item.
func WriteTOML(in knapsack.Instance, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(in); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Write encodes an instance in the given format, compressing the output when
// compressed is set.
func Write(in knapsack.Instance, w io.Writer, format Format, compressed bool) error {
	var enc *zstd.Encoder
	if compressed {
		var err error
		enc, err = zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return fmt.Errorf("zstd writer: %w", err)
		}
		w = enc
	}

	var err error
	switch format {
	case FormatJSON:
		err = WriteJSON(in, w)
	case FormatTOML:
		err = WriteTOML(in, w)
	default:
		err = kerrors.New(kerrors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}

	if enc != nil {
		if cerr := enc.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("zstd close: %w", cerr)
		}
	}
	return err
}

// ExportFile writes an instance to path, choosing the format from the file
// extension (see [DetectFormat]).
func ExportFile(in knapsack.Instance, path string) error {
	format, compressed, err := DetectFormat(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(in, f, format, compressed); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
