package streampipe

import "io"

// Sizer is implemented by stream stages whose size is knowable without
// fully consuming them (the base DATA/RAW streams). STRINGS output and
// anything chained after it is not a Sizer; its size becomes known only
// once fully copied, at which point the caller (Sink.Write) records the
// actual byte count written.
type Sizer interface {
	Size() int64
}

func (n nopCloseReadSeeker) Size() int64 { return n.RangeReadSeeker.Size() }

// Config carries run-wide settings beyond what a single
// Sample/ContentSpec already has: which hash algorithms to compute, plus
// GlobalMinChars/GlobalMaxChars. BuildPipeline reads only CryptoAlgs and
// FuzzyAlgs; the STRINGS fallback bounds reach BaseStream as its
// globalMin/globalMax arguments, not through this struct.
type Config struct {
	GlobalMinChars int
	GlobalMaxChars int

	CryptoAlgs Algorithm
	FuzzyAlgs  FuzzyAlgorithm
}

// Built is the result of chaining a Sample's stream pipeline: the final
// reader to copy to the sink, and handles to the hash stages (nil if that
// algorithm set was empty), plus a known size (-1 if not knowable until
// the stream is fully read).
type Built struct {
	CopyStream  io.ReadCloser
	HashStream  *CryptoHashReader
	FuzzyStream *FuzzyHashReader
	KnownSize   int64
}

// BuildPipeline implements the chaining order of
// Main::ConfigureSampleStreams: base stream -> crypto-hash tee ->
// fuzzy-hash tee. The hash stages are chained only when their algorithm
// set is non-empty.
func BuildPipeline(base io.ReadCloser, cfg Config) *Built {
	var knownSize int64 = -1
	if s, ok := base.(Sizer); ok {
		knownSize = s.Size()
	}

	upstream := base

	var hashReader *CryptoHashReader
	if cfg.CryptoAlgs != 0 {
		hashReader = NewCryptoHashReader(upstream, cfg.CryptoAlgs)
		upstream = hashReader
	}

	var fuzzyReader *FuzzyHashReader
	if cfg.FuzzyAlgs != 0 {
		fuzzyReader = NewFuzzyHashReader(upstream, cfg.FuzzyAlgs)
		upstream = fuzzyReader
	}

	return &Built{
		CopyStream:  upstream,
		HashStream:  hashReader,
		FuzzyStream: fuzzyReader,
		KnownSize:   knownSize,
	}
}
