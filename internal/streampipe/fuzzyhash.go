package streampipe

import (
	"bytes"
	"io"

	"github.com/glaslos/ssdeep"
	"github.com/glaslos/tlsh"
)

// FuzzyAlgorithm is one fuzzy hash algorithm FuzzyHashReader can compute.
type FuzzyAlgorithm int

const (
	SSDeep FuzzyAlgorithm = 1 << iota
	TLSH
)

// FuzzyHashReader tees every byte read from src into an internal buffer
// and computes the selected fuzzy hashes once the stream is fully
// consumed. Unlike CryptoHashReader's running digest, SSDEEP and TLSH are
// both block-based algorithms that need the complete content, so the
// teeing here buffers rather than streams into the algorithm — the
// Sample's content is already read end-to-end for crypto hashing and
// archival, so this adds memory proportional to one sample, not the run.
type FuzzyHashReader struct {
	src  io.ReadCloser
	algs FuzzyAlgorithm
	buf  bytes.Buffer

	ssdeep string
	tlsh   string
	done   bool
}

// NewFuzzyHashReader wraps src. algs is a bitmask of SSDeep|TLSH.
func NewFuzzyHashReader(src io.ReadCloser, algs FuzzyAlgorithm) *FuzzyHashReader {
	return &FuzzyHashReader{src: src, algs: algs}
}

func (r *FuzzyHashReader) Read(p []byte) (int, error) {
	n, err := r.src.Read(p)
	if n > 0 {
		r.buf.Write(p[:n])
	}
	if err == io.EOF {
		r.finalize()
	}
	return n, err
}

func (r *FuzzyHashReader) Close() error {
	r.finalize()
	return r.src.Close()
}

func (r *FuzzyHashReader) finalize() {
	if r.done {
		return
	}
	r.done = true

	data := r.buf.Bytes()
	if len(data) == 0 {
		return
	}

	if r.algs&SSDeep != 0 {
		if h, err := ssdeep.FuzzyBytes(data); err == nil {
			r.ssdeep = h
		}
	}
	if r.algs&TLSH != 0 {
		if h, err := tlsh.HashBytes(data); err == nil {
			r.tlsh = h.String()
		}
	}
}

func (r *FuzzyHashReader) SSDeep() string { return r.ssdeep }
func (r *FuzzyHashReader) TLSH() string   { return r.tlsh }
