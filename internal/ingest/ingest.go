// Package ingest implements the MatchIngestor: accept a Match, locate its
// governing spec's limits, evaluate them, and insert a Sample per matching
// attribute into the SampleRegistry — or mark a duplicate. Grounded on
// Main::AddSamplesForMatch in GetThis_Run.cpp, including its documented
// last-name-wins naming behavior (spec.md §9, preserved deliberately).
package ingest

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"www.velocidex.com/golang/getthis/internal/limits"
	"www.velocidex.com/golang/getthis/internal/model"
	"www.velocidex.com/golang/getthis/internal/naming"
	"www.velocidex.com/golang/getthis/internal/registry"
	"www.velocidex.com/golang/getthis/internal/streampipe"
)

// Outcome is the ingest() return value of spec.md §4.5.
type Outcome int

const (
	Ok Outcome = iota
	AlreadyPresent
)

// PipelineBuilder constructs a Sample's stream pipeline. It is a
// function, not a method on Ingestor, so tests can stub pipeline
// construction without a real base stream.
type PipelineBuilder func(attr *model.AttributeRef, content model.ContentSpec) (*streampipe.Built, error)

// Ingestor is the MatchIngestor.
type Ingestor struct {
	Registry        *registry.Registry
	CollectionDate  time.Time
	BuildPipeline   PipelineBuilder
	Log             *logrus.Logger
}

// Ingest implements spec.md §4.5 step by step, once per attribute in
// match.MatchingAttributes. Limits are evaluated and accumulated per
// attribute against that attribute's own data-stream size, matching
// Main::AddSamplesForMatch's per-sIndex SampleLimitStatus call.
func (ing *Ingestor) Ingest(global *model.Limits, spec *model.SampleSpec, match *model.Match) (Outcome, error) {
	outcome := Ok

	for i := range match.MatchingAttributes {
		attr := &match.MatchingAttributes[i]

		var dataSize uint64
		if attr.DataStream != nil {
			dataSize = uint64(attr.DataStream.Size())
		}
		status := limits.Evaluate(global, spec.PerSampleLimits, dataSize)
		limits.MarkSticky(global, spec.PerSampleLimits, status)

		var snapshotID uuid.UUID
		if sr, ok := match.VolumeReader.(model.SnapshotVolumeReader); ok {
			snapshotID = sr.SnapshotID()
		}

		key := model.SampleKey{
			VolumeSerial: match.VolumeReader.VolumeSerialNumber(),
			FRN:          match.FileRecordNumber,
			InstanceID:   attr.InstanceID,
		}

		sample := &model.Sample{
			Key:            key,
			Matches:        []*model.Match{match},
			AttributeIndex: uint32(i),
			SnapshotID:     snapshotID,
			Content:        spec.Content,
			CollectionDate: ing.CollectionDate,
			OffLimits:      !status.WithinLimits(),
		}

		if ing.Registry.Contains(key) {
			if ing.Log != nil {
				ing.Log.WithFields(logrus.Fields{
					"frn":    match.FileRecordNumber,
					"volume": key.VolumeSerial,
				}).Debug("duplicate sample, not re-adding")
			}
			outcome = AlreadyPresent
			continue
		}

		// NB: each name in MatchingNames overwrites SampleName; the
		// last name wins. This reproduces a documented defect in the
		// original tool (spec.md §9) rather than fixing it.
		for _, name := range match.MatchingNames {
			idx := 0
			var candidate string
			for {
				n, err := naming.MakeSampleName(spec.Content, name.Record, attr.AttrName, idx)
				if err != nil {
					return outcome, err
				}
				if spec.Name != "" {
					n = spec.Name + "\\" + n
				}
				candidate = n
				if !ing.Registry.NameUsed(candidate) {
					break
				}
				idx++
			}
			ing.Registry.ReserveName(candidate)
			sample.SampleName = candidate
		}

		built, err := ing.BuildPipeline(attr, sample.Content)
		if err != nil {
			if ing.Log != nil {
				ing.Log.WithError(err).Warn("failed to configure sample stream pipeline; inserting without a usable copy stream")
			}
		} else {
			sample.CopyStream = built.CopyStream
			if built.HashStream != nil {
				sample.HashStream = built.HashStream
			}
			if built.FuzzyStream != nil {
				sample.FuzzyHashStream = built.FuzzyStream
			}
			if built.KnownSize >= 0 {
				sample.Size = uint64(built.KnownSize)
			}
		}

		ing.Registry.Insert(sample)
		if status.WithinLimits() {
			limits.Accumulate(global, spec.PerSampleLimits, dataSize)
		}
	}

	return outcome, nil
}
