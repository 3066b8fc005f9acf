// Package gbin implements the compact binary grammar artifact format:
// a fixed header (magic, version, source tag), a table directory
// (offset/row-count/row-stride per table), a single UTF-8 string heap,
// and each table's pre-encoded row bytes stored back to back (the row
// stride is recorded but not enforced; see Builder.PutTable). Loading an
// artifact validates
// the header and directory up front and then trusts the record layout
// — "validate, don't copy" — rather than eagerly decoding every
// record into Go structs.
//
// Leaf record fields (ints, strings, byte slices) are encoded with
// github.com/dekarrin/rezi, the teacher's own versioned binary codec
// dependency (observed in use at
// server/dao/sqlite/sessions.go:`rezi.EncBinary(s.State)` and
// sqlite.go:`rezi.DecBinary(stateData, g)`), which already provides
// versioned length-prefixed ints/strings and so is a natural fit for
// this format's own per-table version compatibility requirements
// (VersionTooOld/VersionTooNew below). The surrounding header/
// directory/heap/table layout is bespoke: rezi has no notion of a
// random-access multi-table directory, which spec.md's lazy
// random-access artifact loading requires.
package gbin

import (
	"bytes"
	"fmt"

	"github.com/dekarrin/rezi"
)

// Magic is the fixed 4-byte signature every artifact begins with.
var Magic = [4]byte{'G', 'B', 'I', 'N'}

// FormatVersion is the version of the binary format this package
// writes and the newest version it can read.
const FormatVersion = 1

// MinSupportedVersion is the oldest format version Load accepts. Load
// does not convert older versions; it rejects them with
// VersionTooOldError.
const MinSupportedVersion = 1

// SourceTag records what produced an artifact, for diagnostics: it has
// no effect on decoding.
type SourceTag string

const (
	SourceBuilder   SourceTag = "builder"
	SourceHostCache SourceTag = "hostcache"
)

// VersionTooNewError is returned when an artifact declares a format
// version newer than this package knows how to read.
type VersionTooNewError struct {
	Found, Max int
}

func (e *VersionTooNewError) Error() string {
	return fmt.Sprintf("gbin: artifact format version %d is newer than the max supported version %d", e.Found, e.Max)
}

// VersionTooOldError is returned when an artifact declares a format
// version older than MinSupportedVersion.
type VersionTooOldError struct {
	Found, Min int
}

func (e *VersionTooOldError) Error() string {
	return fmt.Sprintf("gbin: artifact format version %d is older than the min supported version %d", e.Found, e.Min)
}

// Header is the fixed-size prefix of every artifact.
type Header struct {
	Version int
	Source  SourceTag
}

// tableEntry is one row of the table directory: where a table's rows
// start in the artifact and how many fixed-width rows it has.
type tableEntry struct {
	Name      string
	Offset    int
	RowCount  int
	RowStride int
}

// Artifact is a loaded grammar binary: validated header, table
// directory, and string heap. Each table's row bytes are kept
// undecoded and handed out as-is by Table; this package has no decoder
// for any table's rows.
type Artifact struct {
	Header    Header
	tables    map[string]tableEntry
	heap      []byte
	tableBlob map[string][]byte
}

// Table returns the raw encoded bytes for the named table, and whether
// that table is present in the artifact.
func (a *Artifact) Table(name string) ([]byte, bool) {
	b, ok := a.tableBlob[name]
	return b, ok
}

// HeapString resolves a string-heap offset/length pair into the string
// it names. Load does not check string references; a pair that falls
// outside the heap returns an error here instead of panicking.
func (a *Artifact) HeapString(offset, length int) (string, error) {
	if offset < 0 || length < 0 || offset+length > len(a.heap) {
		return "", fmt.Errorf("gbin: string heap reference [%d:%d] out of bounds (heap size %d)", offset, offset+length, len(a.heap))
	}
	return string(a.heap[offset : offset+length]), nil
}

// Builder assembles an Artifact for Save: a growing string heap and a
// set of named tables, each a pre-encoded row blob.
type Builder struct {
	source SourceTag
	heap   bytes.Buffer
	seen   map[string]int // string -> heap offset, for interning
	tables []tableEntry
	blobs  map[string][]byte
}

// NewBuilder returns an empty artifact Builder tagged with source.
func NewBuilder(source SourceTag) *Builder {
	return &Builder{source: source, seen: map[string]int{}, blobs: map[string][]byte{}}
}

// InternString appends s to the heap (if not already present) and
// returns its (offset, length).
func (b *Builder) InternString(s string) (offset, length int) {
	if off, ok := b.seen[s]; ok {
		return off, len(s)
	}
	off := b.heap.Len()
	b.heap.WriteString(s)
	b.seen[s] = off
	return off, len(s)
}

// PutTable records a table's already-row-encoded bytes under name, with
// rowCount rows of rowStride bytes each (rowStride is descriptive only;
// gbin does not itself enforce that every row is literally that width,
// since rezi's own records are length-prefixed rather than fixed-width
// once they contain variable-length fields like strings).
func (b *Builder) PutTable(name string, rowCount, rowStride int, data []byte) {
	b.blobs[name] = data
	b.tables = append(b.tables, tableEntry{Name: name, RowCount: rowCount, RowStride: rowStride})
}

// Save serializes the builder's accumulated tables and heap into the
// final artifact byte stream: magic, version, source tag, table
// directory, string heap, then each table's row bytes back to back.
func (b *Builder) Save() ([]byte, error) {
	var out bytes.Buffer
	out.Write(Magic[:])

	verBytes, err := rezi.Enc(FormatVersion)
	if err != nil {
		return nil, fmt.Errorf("gbin: encode version: %w", err)
	}
	out.Write(verBytes)

	srcBytes, err := rezi.Enc(string(b.source))
	if err != nil {
		return nil, fmt.Errorf("gbin: encode source tag: %w", err)
	}
	out.Write(srcBytes)

	// compute offsets: directory, then heap, then tables in declaration
	// order, each at the offset where its bytes will actually land.
	offset := 0
	entries := make([]tableEntry, len(b.tables))
	copy(entries, b.tables)
	for i := range entries {
		entries[i].Offset = offset
		offset += len(b.blobs[entries[i].Name])
	}

	dirBytes, err := encodeDirectory(entries)
	if err != nil {
		return nil, err
	}
	out.Write(dirBytes)

	heapBytes, err := rezi.Enc(b.heap.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gbin: encode string heap: %w", err)
	}
	out.Write(heapBytes)

	for _, e := range entries {
		out.Write(b.blobs[e.Name])
	}

	return out.Bytes(), nil
}

func encodeDirectory(entries []tableEntry) ([]byte, error) {
	var buf bytes.Buffer

	countBytes, err := rezi.Enc(len(entries))
	if err != nil {
		return nil, fmt.Errorf("gbin: encode directory count: %w", err)
	}
	buf.Write(countBytes)

	for _, e := range entries {
		nameBytes, err := rezi.Enc(e.Name)
		if err != nil {
			return nil, fmt.Errorf("gbin: encode table name: %w", err)
		}
		buf.Write(nameBytes)

		for _, field := range []int{e.Offset, e.RowCount, e.RowStride} {
			fb, err := rezi.Enc(field)
			if err != nil {
				return nil, fmt.Errorf("gbin: encode table directory field: %w", err)
			}
			buf.Write(fb)
		}
	}

	return buf.Bytes(), nil
}
