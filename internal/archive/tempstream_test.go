package archive

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempStreamStaysInMemoryBelowThreshold(t *testing.T) {
	ts := NewTempStream(1024)
	n, err := ts.Write([]byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, 11, n)
	assert.Equal(t, int64(11), ts.Size())

	r, err := ts.Rewind()
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
	require.NoError(t, ts.Close())
}

func TestTempStreamSpillsToDiskAboveThreshold(t *testing.T) {
	ts := NewTempStream(8)
	_, err := ts.Write([]byte("0123456789"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), ts.Size())

	r, err := ts.Rewind()
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(data))
	require.NoError(t, ts.Close())
}

func TestTempStreamAccumulatesAcrossSpillBoundary(t *testing.T) {
	ts := NewTempStream(8)
	_, err := ts.Write([]byte("1234"))
	require.NoError(t, err)
	_, err = ts.Write([]byte("5678"))
	require.NoError(t, err)
	_, err = ts.Write([]byte("9"))
	require.NoError(t, err)

	r, err := ts.Rewind()
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "123456789", string(data))
}
