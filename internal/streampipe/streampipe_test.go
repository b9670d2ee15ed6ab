package streampipe

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStream struct {
	*bytes.Reader
}

func (memStream) Close() error { return nil }
func (m memStream) Size() int64 { return int64(m.Reader.Len()) }

func newMemStream(data []byte) io.ReadCloser {
	return memStream{bytes.NewReader(data)}
}

func TestStringsReaderExtractsBoundedRuns(t *testing.T) {
	input := []byte("AB\x00HELLO\x00LONGSTRING")
	sr := NewStringsReader(newMemStream(input), 4, 16)

	out, err := io.ReadAll(sr)
	require.NoError(t, err)
	assert.Equal(t, "HELLO\nLONGSTRING\n", string(out))
}

func TestStringsReaderSplitsOverlongRuns(t *testing.T) {
	input := bytes.Repeat([]byte("A"), 20)
	sr := NewStringsReader(newMemStream(input), 4, 8)

	out, err := io.ReadAll(sr)
	require.NoError(t, err)
	assert.Equal(t, "AAAAAAAA\nAAAAAAAA\nAAAA\n", string(out))
}

func TestCryptoHashReaderPreservesBytes(t *testing.T) {
	input := []byte("the quick brown fox")
	hr := NewCryptoHashReader(newMemStream(input), MD5|SHA1|SHA256)

	out, err := io.ReadAll(hr)
	require.NoError(t, err)
	assert.Equal(t, input, out)
	assert.Len(t, hr.MD5(), 16)
	assert.Len(t, hr.SHA1(), 20)
	assert.Len(t, hr.SHA256(), 32)
}

func TestBuildPipelineChainsAndPreservesBytes(t *testing.T) {
	input := []byte("sample content for chaining")
	built := BuildPipeline(newMemStream(input), Config{
		CryptoAlgs: MD5 | SHA256,
		FuzzyAlgs:  0,
	})

	out, err := io.ReadAll(built.CopyStream)
	require.NoError(t, err)
	assert.Equal(t, input, out)
	require.NotNil(t, built.HashStream)
	assert.Len(t, built.HashStream.MD5(), 16)
	assert.Nil(t, built.FuzzyStream)
	assert.Equal(t, int64(len(input)), built.KnownSize)
}

func TestBuildPipelineWithNoHashingReturnsBaseUnchanged(t *testing.T) {
	input := []byte("no hashing here")
	built := BuildPipeline(newMemStream(input), Config{})

	out, err := io.ReadAll(built.CopyStream)
	require.NoError(t, err)
	assert.Equal(t, input, out)
	assert.Nil(t, built.HashStream)
	assert.Nil(t, built.FuzzyStream)
}
