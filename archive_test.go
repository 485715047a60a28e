package zip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MinimalEmptyArchive(t *testing.T) {
	data := []byte{
		0x50, 0x4b, 0x05, 0x06,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00,
	}

	a, err := Open(byteSource(data))
	require.NoError(t, err)
	assert.Equal(t, 0, a.Count())
	assert.Empty(t, a.Comment())
}

func TestOpen_SingleStoredMember(t *testing.T) {
	data := buildZip(t, nil, []memberSpec{{name: "a.txt", data: []byte("hi"), method: Stored}})

	a, err := Open(byteSource(data))
	require.NoError(t, err)
	require.Equal(t, 1, a.Count())

	e, ok := a.ByName("a.txt")
	require.True(t, ok)
	assert.Equal(t, uint32(2), e.UncompSize)
	assert.False(t, e.IsDir)

	idx, ok := a.IndexOf("a.txt")
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	byIdx, ok := a.ByIndex(0)
	require.True(t, ok)
	assert.Equal(t, e, byIdx)
}

func TestOpen_IndexInvariants(t *testing.T) {
	members := []memberSpec{
		{name: "a.txt", data: []byte("hi"), method: Stored},
		{name: "dir/", data: nil, method: Stored},
		{name: "dir/b.txt", data: []byte("hello\n"), method: Deflate},
	}
	data := buildZip(t, nil, members)

	a, err := Open(byteSource(data))
	require.NoError(t, err)
	require.Equal(t, len(members), a.Count())

	for i := 0; i < a.Count(); i++ {
		e, ok := a.ByIndex(i)
		require.True(t, ok)

		byName, ok := a.ByName(e.Name)
		require.True(t, ok)
		assert.Equal(t, e, byName)

		idx, ok := a.IndexOf(e.Name)
		require.True(t, ok)
		assert.Equal(t, i, idx)
	}

	dirEntry, ok := a.ByName("dir/")
	require.True(t, ok)
	assert.True(t, dirEntry.IsDir)
}

func TestOpen_DuplicateNameRejected(t *testing.T) {
	members := []memberSpec{
		{name: "a.txt", data: []byte("hi"), method: Stored},
		{name: "a.txt", data: []byte("bye"), method: Stored},
	}
	data := buildZip(t, nil, members)

	_, err := Open(byteSource(data))
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestOpen_MultiVolumeRejected(t *testing.T) {
	data := buildZip(t, nil, []memberSpec{{name: "a.txt", data: []byte("hi"), method: Stored}})

	// flip the EOCD's disk_number field (bytes 4-5 after the 4-byte
	// signature) to simulate a spanned archive.
	eocdOffset := len(data) - eocdFixedSize - 4
	data[eocdOffset+4] = 1

	_, err := Open(byteSource(data))
	assert.ErrorIs(t, err, ErrMultiVolumeUnsupported)
}

func TestOpen_TooShort(t *testing.T) {
	_, err := Open(byteSource(make([]byte, 5)))
	assert.ErrorIs(t, err, ErrTruncatedSource)
}

func TestArchiveClose(t *testing.T) {
	data := buildZip(t, nil, []memberSpec{{name: "a.txt", data: []byte("hi"), method: Stored}})

	a, err := Open(byteSource(data))
	require.NoError(t, err)
	require.NoError(t, a.Close())
	assert.Equal(t, 0, a.Count())
}
