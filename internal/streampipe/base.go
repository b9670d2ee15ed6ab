// Package streampipe builds the chained byte stream consumed by a Sample:
// a content transform (DATA/STRINGS/RAW), optionally teed through crypto
// hashers, optionally teed through fuzzy hashers. Grounded on
// Main::ConfigureSampleStreams in GetThis_Run.cpp for the chaining order,
// and on file_store/uploader.FileStoreUploader.Upload for the
// tee-while-copy idiom used by the hash readers.
package streampipe

import (
	"errors"
	"io"

	"www.velocidex.com/golang/getthis/internal/errkind"
	"www.velocidex.com/golang/getthis/internal/model"
)

// nopCloseReadSeeker adapts a RangeReadSeeker (no Close method, since
// attribute streams are owned by the match, not the sample) to
// io.ReadCloser.
type nopCloseReadSeeker struct {
	model.RangeReadSeeker
}

func (nopCloseReadSeeker) Close() error { return nil }

// BaseStream selects the attribute's data or raw-cluster stream per
// content.Type, wrapping DATA/RAW directly and STRINGS in a StringsReader.
// globalMin/globalMax are the config-wide fallback bounds used when the
// sample's own (MinChars, MaxChars) is (0, 0).
func BaseStream(content model.ContentSpec, attr *model.AttributeRef, globalMin, globalMax int) (io.ReadCloser, error) {
	switch content.Type {
	case model.ContentRaw:
		if attr.RawStream == nil {
			return nil, errkind.New(errkind.InvalidArgument, "BaseStream", errNoRawStream)
		}
		return nopCloseReadSeeker{attr.RawStream}, nil

	case model.ContentStrings:
		if attr.DataStream == nil {
			return nil, errkind.New(errkind.InvalidArgument, "BaseStream", errNoDataStream)
		}
		minChars, maxChars := content.MinChars, content.MaxChars
		if minChars == 0 && maxChars == 0 {
			minChars, maxChars = globalMin, globalMax
		}
		return NewStringsReader(nopCloseReadSeeker{attr.DataStream}, minChars, maxChars), nil

	default: // ContentData and any unrecognized tag fall back to DATA.
		if attr.DataStream == nil {
			return nil, errkind.New(errkind.InvalidArgument, "BaseStream", errNoDataStream)
		}
		return nopCloseReadSeeker{attr.DataStream}, nil
	}
}

var (
	errNoRawStream  = errors.New("attribute has no raw stream")
	errNoDataStream = errors.New("attribute has no data stream")
)
