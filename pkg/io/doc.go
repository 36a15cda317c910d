// Package io reads and writes knapsack problem instances.
//
// # Formats
//
// An instance is a capacity and an ordered item list. Two encodings are
// supported, selected by file extension:
//
//	instance.json
//	{
//	  "capacity": 250,
//	  "items": [
//	    {"id": 1, "weight": 12.5, "value": 310.25},
//	    {"id": 2, "weight": 40, "value": 812}
//	  ]
//	}
//
//	instance.toml
//	capacity = 250.0
//
//	[[items]]
//	id = 1
//	weight = 12.5
//	value = 310.25
//
// Appending ".zst" (for example "instance.json.zst") compresses the file
// with Zstandard. Large generated instances shrink considerably since the
// two-decimal numbers are highly repetitive.
//
// # Import
//
// Use [ImportFile] to read an instance from a path, or [ReadJSON] and
// [ReadTOML] for any io.Reader. Decoded instances are checked with
// [knapsack.Instance.Validate]: capacity, item count and ID uniqueness are
// enforced, while items with out-of-domain weight or value are kept so the
// solvers can report them as skipped.
//
// # Export
//
// Use [ExportFile] to write an instance to a path, or [WriteJSON] and
// [WriteTOML] for any io.Writer. Exporting and re-importing an instance
// yields an identical item list.
//
// # Errors
//
// Missing files are reported as FILE_NOT_FOUND, unknown extensions and
// malformed content as INVALID_FORMAT (see [github.com/matzehuels/knapsack/pkg/errors]).
package io
