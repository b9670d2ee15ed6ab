// Package reporter emits one metadata row per matching-name per sample to
// a table.Writer, and finalizes a Sample's hash buffers once its stream
// has been fully consumed. Grounded on Main::AddSampleRefToCSV and
// Main::FinalizeHashes in GetThis_Run.cpp — column order, the off-limits
// empty-name rule, and the report-all drain-to-null behavior are all
// preserved exactly.
package reporter

import (
	"io"
	"strings"

	"www.velocidex.com/golang/getthis/internal/model"
	"www.velocidex.com/golang/getthis/internal/table"
)

// Reporter emits rows and finalizes hashes for samples written by a Sink.
type Reporter struct {
	ComputerName string
	ReportAll    bool
}

// Emit writes one row per (match, matching-name) pair of sample, in the
// exact 28-column order of spec.md §4.7.
func (r *Reporter) Emit(w table.Writer, sample *model.Sample) error {
	for _, match := range sample.Matches {
		for _, name := range match.MatchingNames {
			r.emitRow(w, match, name, sample)
			if err := w.WriteEndOfLine(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Reporter) emitRow(w table.Writer, match *model.Match, name model.FileReference, sample *model.Sample) {
	w.WriteString(r.ComputerName)
	w.WriteInteger(match.VolumeReader.VolumeSerialNumber())
	w.WriteInteger(name.ParentDirReference)
	w.WriteInteger(match.FileRecordNumber)
	w.WriteString(name.FullPathName)

	if sample.OffLimits {
		w.WriteNothing()
	} else {
		w.WriteString(sample.SampleName)
	}

	w.WriteFileSize(sample.Size)
	w.WriteBytes(sample.MD5)
	w.WriteBytes(sample.SHA1)
	w.WriteString(match.Term.Description)

	tag := sample.Content.Type.Tag()
	if tag == "data" || tag == "strings" {
		w.WriteString(tag)
	} else {
		w.WriteNothing()
	}

	w.WriteFileTime(sample.CollectionDate)

	w.WriteFileTime(match.StandardInfo.CreationTime)
	w.WriteFileTime(match.StandardInfo.LastModificationTime)
	w.WriteFileTime(match.StandardInfo.LastAccessTime)
	w.WriteFileTime(match.StandardInfo.LastChangeTime)

	if name.Record != nil {
		w.WriteFileTime(name.Record.Info.CreationTime)
		w.WriteFileTime(name.Record.Info.LastModificationTime)
		w.WriteFileTime(name.Record.Info.LastAccessTime)
		w.WriteFileTime(name.Record.Info.LastChangeTime)
	} else {
		w.WriteNothing()
		w.WriteNothing()
		w.WriteNothing()
		w.WriteNothing()
	}

	attr := match.MatchingAttributes[sample.AttributeIndex]
	w.WriteExactFlags(attr.Type)
	w.WriteString(attr.AttrName)
	w.WriteInteger(uint64(attr.InstanceID))
	w.WriteGUID(sample.SnapshotID)

	w.WriteBytes(sample.SHA256)
	w.WriteString(sample.SSDeep)
	w.WriteString(sample.TLSH)

	if len(attr.YaraRules) > 0 {
		w.WriteString(strings.Join(attr.YaraRules, "; "))
	} else {
		w.WriteNothing()
	}
}

// FinalizeHashes extracts MD5/SHA1/SHA256 (and SSDEEP/TLSH, if a fuzzy
// reader was chained) from sample's hash stages. If the sample is
// off-limits, its bytes were never copied to the sink, so — only when
// ReportAll is set and crypto algorithms were configured — the copy
// stream is drained to io.Discard first, so the hash observers still see
// every byte. If there is no hash stream at all, FinalizeHashes is a
// no-op.
func (r *Reporter) FinalizeHashes(sample *model.Sample) error {
	if sample.HashStream == nil {
		return nil
	}

	if sample.OffLimits && r.ReportAll && sample.CopyStream != nil {
		if _, err := io.Copy(io.Discard, sample.CopyStream); err != nil {
			return err
		}
		sample.CopyStream.Close()
	}

	sample.MD5 = sample.HashStream.MD5()
	sample.SHA1 = sample.HashStream.SHA1()
	sample.SHA256 = sample.HashStream.SHA256()

	if sample.FuzzyHashStream != nil {
		sample.SSDeep = sample.FuzzyHashStream.SSDeep()
		sample.TLSH = sample.FuzzyHashStream.TLSH()
	}

	return nil
}
