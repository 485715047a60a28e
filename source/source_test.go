package source

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_ReadAtAndSize(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "source-*.bin")
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("hello world"))
	require.NoError(t, err)

	src, err := Open(f.Name())
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, int64(11), src.Size())

	buf := make([]byte, 5)
	n, err := src.ReadAt(buf, 6)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "world", string(buf))
}

func TestFile_OpenMissing(t *testing.T) {
	_, err := Open("/does/not/exist")
	assert.Error(t, err)
}

type staticSource struct {
	data []byte
}

func (s *staticSource) ReadAt(p []byte, off int64) (int, error) {
	return copy(p, s.data[off:]), nil
}

func (s *staticSource) Size() int64 {
	return int64(len(s.data))
}

func TestThrottled_PassesReadsThrough(t *testing.T) {
	base := &staticSource{data: []byte("abcdefghij")}
	throttled := NewThrottled(context.Background(), base, 1<<30, 1<<20)

	buf := make([]byte, 4)
	n, err := throttled.ReadAt(buf, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "cdef", string(buf))
	assert.Equal(t, base.Size(), throttled.Size())
}
