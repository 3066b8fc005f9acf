package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Reader_PeekRune_SuspendsUntilFed(t *testing.T) {
	assert := assert.New(t)

	r := NewReader()
	r.Feed([]byte("a"))

	_, _, needMore := r.PeekRune(1)
	assert.True(needMore)

	r.Feed([]byte("b"))
	c, size, needMore := r.PeekRune(1)
	assert.False(needMore)
	assert.Equal('b', c)
	assert.Equal(1, size)
}

func Test_Reader_PeekRune_EndOfInputAfterClose(t *testing.T) {
	assert := assert.New(t)

	r := NewReader()
	r.Feed([]byte("a"))
	r.Close()

	_, size, needMore := r.PeekRune(1)
	assert.False(needMore)
	assert.Equal(0, size)
}

func Test_Reader_SeekAndSlice(t *testing.T) {
	assert := assert.New(t)

	r := NewReader()
	r.Feed([]byte("hello world"))

	assert.Equal("hello", string(r.Slice(0, 5)))

	r.Seek(6)
	assert.Equal(6, r.Offset())
	assert.Equal("world", string(r.Slice(r.Offset(), r.Len())))
}

func Test_Reader_TruncatedMultiByteRuneSuspends(t *testing.T) {
	assert := assert.New(t)

	full := "é" // 2-byte UTF-8 sequence
	r := NewReader()
	r.Feed([]byte(full)[:1])

	_, _, needMore := r.PeekRune(0)
	assert.True(needMore)

	r.Feed([]byte(full)[1:])
	c, size, needMore := r.PeekRune(0)
	assert.False(needMore)
	assert.Equal('é', c)
	assert.Equal(2, size)
}
