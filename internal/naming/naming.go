// Package naming derives deterministic, collision-free artifact names from
// a matched file's $FILE_NAME record, grounded on GetThis_Run.cpp's
// CreateSampleFileName: three fixed-width hex fields for the parent
// directory reference, the file name, an optional data-stream name, an
// optional collision index, and a content-type tag.
package naming

import (
	"fmt"
	"strings"

	"www.velocidex.com/golang/getthis/internal/errkind"
	"www.velocidex.com/golang/getthis/internal/model"
)

// sanitize applies the whitespace/':'/'#' -> '_' replacement policy.
func sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == ':' || r == '#':
			b.WriteByte('_')
		case isSpace(r):
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

// MakeSampleName implements the four template paths of
// Main::CreateSampleFileName. idx == 0 and dataName == "" is the common
// case; idx > 0 is a collision-retry; dataName non-empty names the
// specific attribute stream being sampled.
func MakeSampleName(content model.ContentSpec, rec *model.FileNameRecord, dataName string, idx int) (string, error) {
	if rec == nil {
		return "", errkind.New(errkind.InvalidArgument, "MakeSampleName", fmt.Errorf("file-name record is nil"))
	}

	tag := content.Type.Tag()

	ppp := fmt.Sprintf("%04X%04X%08X",
		rec.ParentSequenceNumber,
		rec.ParentSegmentNumberHigh,
		rec.ParentSegmentNumberLow,
	)

	name := rec.FileName
	if int(rec.FileNameLength) > 0 && int(rec.FileNameLength) < len(name) {
		name = name[:rec.FileNameLength]
	}

	var out string
	switch {
	case idx == 0 && dataName == "":
		out = fmt.Sprintf("%s_%s_%s", ppp, name, tag)
	case idx == 0 && dataName != "":
		out = fmt.Sprintf("%s__%s_%s_%s", ppp, name, dataName, tag)
	case idx > 0 && dataName == "":
		out = fmt.Sprintf("%s__%s_%d_%s", ppp, name, idx, tag)
	default: // idx > 0 && dataName != ""
		out = fmt.Sprintf("%s_%s_%s_%d_%s", ppp, name, dataName, idx, tag)
	}

	return sanitize(out), nil
}
