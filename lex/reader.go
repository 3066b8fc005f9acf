// Package lex implements the streaming tokenizer: a zero-copy scanner
// driving a compiled regex.DFA over buffered rune input, with grouped/
// nested "noise" region handling and suspendable/resumable execution
// over chunked input.
package lex

import "unicode/utf8"

// Reader is a zero-copy, suspend/resume-capable buffer over fed input
// bytes, generalized from internal/ictiobus/lex/reader.go's regexReader.
// That type wraps a blocking io.Reader and buffers whatever bytes it
// reads so regexp.FindReaderSubmatchIndex can drive it one byte at a
// time and later rewind via Mark/Restore. This Reader instead owns its
// buffer directly and is *fed* chunks explicitly (Feed): a tokenize call
// can suspend mid-scan when it runs past the end of the buffered input
// and the caller hasn't signaled Close yet, then resume later once more
// bytes have been fed, without losing its place. The teacher's reader
// has no such notion, since its underlying io.Reader always blocks
// until bytes are available or the stream truly ends.
type Reader struct {
	buf []byte
	pos int
	eof bool
}

// NewReader returns an empty Reader with nothing fed to it yet.
func NewReader() *Reader {
	return &Reader{}
}

// Feed appends more input bytes to the buffer. Feed after Close panics:
// once the input is declared complete it cannot grow further.
func (r *Reader) Feed(data []byte) {
	if r.eof {
		panic("lex: Feed called after Close")
	}
	r.buf = append(r.buf, data...)
}

// Close declares that no further bytes will ever be fed. A scan that
// reaches the end of the buffer before Close suspends ("need more
// input"); after Close it instead reports end-of-input.
func (r *Reader) Close() {
	r.eof = true
}

// AtEOF reports whether Close has been called.
func (r *Reader) AtEOF() bool {
	return r.eof
}

// Offset returns the cursor's current absolute byte offset.
func (r *Reader) Offset() int {
	return r.pos
}

// Seek moves the cursor to an absolute byte offset, e.g. one earlier
// returned by Offset, to resume or rewind a scan.
func (r *Reader) Seek(offset int) {
	r.pos = offset
}

// Len returns how many bytes have been fed in total.
func (r *Reader) Len() int {
	return len(r.buf)
}

// Slice returns a zero-copy view of the fed bytes in [start, end). The
// returned slice aliases the Reader's internal buffer and must not be
// retained past the next Feed call, which may reallocate it.
func (r *Reader) Slice(start, end int) []byte {
	return r.buf[start:end]
}

// PeekRune decodes the rune at the given absolute byte offset without
// moving the cursor.
//
// needMore is true when there are not yet enough buffered bytes to
// decode a full rune at offset and the input has not been Closed; the
// caller should suspend the current tokenize call and retry once more
// input has been fed.
//
// When needMore is false and size == 0, offset is at or past the end of
// a Closed input: there is no rune to read, i.e. true end-of-input.
func (r *Reader) PeekRune(offset int) (c rune, size int, needMore bool) {
	if offset >= len(r.buf) {
		if r.eof {
			return 0, 0, false
		}
		return 0, 0, true
	}

	remaining := r.buf[offset:]
	c, size = utf8.DecodeRune(remaining)
	if c == utf8.RuneError && size == 1 && len(remaining) < utf8.UTFMax && !r.eof {
		// could be a multi-byte sequence truncated at the buffer's tail
		// rather than genuinely invalid; wait for more bytes to decide.
		return 0, 0, true
	}
	return c, size, false
}
