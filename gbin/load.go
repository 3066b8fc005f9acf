package gbin

import (
	"bytes"
	"fmt"

	"github.com/dekarrin/rezi"
)

// Load validates an artifact's header and table directory and returns
// a handle onto it. Table row bytes are kept as opaque slices and are
// only decoded by a caller that actually needs that table's
// contents — this is
// the "validate, don't copy" requirement from spec.md §3: Load itself
// never walks into a table's rows.
func Load(data []byte) (*Artifact, error) {
	if len(data) < len(Magic) {
		return nil, fmt.Errorf("gbin: artifact too short to contain a header")
	}
	if !bytes.Equal(data[:len(Magic)], Magic[:]) {
		return nil, fmt.Errorf("gbin: bad magic bytes, not a gbin artifact")
	}
	offset := len(Magic)

	var version int
	n, err := rezi.Dec(data[offset:], &version)
	if err != nil {
		return nil, fmt.Errorf("gbin: decode version: %w", err)
	}
	offset += n

	if version > FormatVersion {
		return nil, &VersionTooNewError{Found: version, Max: FormatVersion}
	}
	if version < MinSupportedVersion {
		return nil, &VersionTooOldError{Found: version, Min: MinSupportedVersion}
	}

	var source string
	n, err = rezi.Dec(data[offset:], &source)
	if err != nil {
		return nil, fmt.Errorf("gbin: decode source tag: %w", err)
	}
	offset += n

	entries, n, err := decodeDirectory(data[offset:])
	if err != nil {
		return nil, err
	}
	offset += n

	var heap []byte
	n, err = rezi.Dec(data[offset:], &heap)
	if err != nil {
		return nil, fmt.Errorf("gbin: decode string heap: %w", err)
	}
	offset += n

	tablesStart := offset
	tables := map[string]tableEntry{}
	blobs := map[string][]byte{}
	for _, e := range entries {
		start := tablesStart + e.Offset
		end := start + tableByteLen(e, entries, tablesStart, len(data))
		if start < 0 || end > len(data) || start > end {
			return nil, fmt.Errorf("gbin: table %q offset out of bounds", e.Name)
		}
		tables[e.Name] = e
		blobs[e.Name] = data[start:end]
	}

	return &Artifact{
		Header:    Header{Version: version, Source: SourceTag(source)},
		tables:    tables,
		heap:      heap,
		tableBlob: blobs,
	}, nil
}

// tableByteLen determines how many bytes a table occupies by finding
// where the next table (by declared Offset order) begins, or the end
// of the artifact for the last table. Tables are always written back
// to back in directory order by Builder.Save, so this is exact rather
// than an estimate.
func tableByteLen(e tableEntry, all []tableEntry, tablesStart, dataLen int) int {
	nextOffset := dataLen - tablesStart
	for _, o := range all {
		if o.Offset > e.Offset && o.Offset-e.Offset < nextOffset {
			nextOffset = o.Offset - e.Offset
		}
	}
	return nextOffset
}

func decodeDirectory(data []byte) ([]tableEntry, int, error) {
	offset := 0

	var count int
	n, err := rezi.Dec(data[offset:], &count)
	if err != nil {
		return nil, 0, fmt.Errorf("gbin: decode directory count: %w", err)
	}
	offset += n

	entries := make([]tableEntry, 0, count)
	for i := 0; i < count; i++ {
		var e tableEntry

		n, err = rezi.Dec(data[offset:], &e.Name)
		if err != nil {
			return nil, 0, fmt.Errorf("gbin: decode table name: %w", err)
		}
		offset += n

		for _, dst := range []*int{&e.Offset, &e.RowCount, &e.RowStride} {
			n, err = rezi.Dec(data[offset:], dst)
			if err != nil {
				return nil, 0, fmt.Errorf("gbin: decode table directory field: %w", err)
			}
			offset += n
		}

		entries = append(entries, e)
	}

	return entries, offset, nil
}
