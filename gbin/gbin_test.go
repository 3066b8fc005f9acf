package gbin

import (
	"testing"

	"github.com/dekarrin/rezi"
	"github.com/stretchr/testify/assert"
)

func Test_Builder_Save_Load_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder(SourceBuilder)

	rowBytes, err := rezi.Enc("hello")
	if !assert.NoError(err) {
		return
	}
	b.PutTable("symbols", 1, len(rowBytes), rowBytes)

	data, err := b.Save()
	if !assert.NoError(err) {
		return
	}

	art, err := Load(data)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(FormatVersion, art.Header.Version)
	assert.Equal(SourceBuilder, art.Header.Source)

	tbl, ok := art.Table("symbols")
	assert.True(ok)
	assert.Equal(rowBytes, tbl)
}

func Test_Load_RejectsBadMagic(t *testing.T) {
	assert := assert.New(t)

	_, err := Load([]byte("not a gbin artifact at all"))
	assert.Error(err)
}

func Test_Load_RejectsTooNewVersion(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder(SourceBuilder)
	data, err := b.Save()
	if !assert.NoError(err) {
		return
	}

	// corrupt the version field to something newer than we support;
	// version is encoded directly after the 4-byte magic.
	corrupted := append([]byte{}, data...)
	verBytes, err := rezi.Enc(FormatVersion + 1)
	if !assert.NoError(err) {
		return
	}
	copy(corrupted[len(Magic):len(Magic)+len(verBytes)], verBytes)

	_, err = Load(corrupted)
	assert.Error(err)
}
