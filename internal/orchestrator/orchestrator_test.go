package orchestrator

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"www.velocidex.com/golang/getthis/internal/finder"
	"www.velocidex.com/golang/getthis/internal/finder/fakefinder"
	"www.velocidex.com/golang/getthis/internal/ingest"
	"www.velocidex.com/golang/getthis/internal/model"
	"www.velocidex.com/golang/getthis/internal/registry"
	"www.velocidex.com/golang/getthis/internal/streampipe"
)

type fakeVolume struct{ serial uint64 }

func (f fakeVolume) VolumeSerialNumber() uint64 { return f.serial }

type memStream struct{ *bytes.Reader }

func (memStream) Close() error  { return nil }
func (m memStream) Size() int64 { return int64(m.Reader.Len()) }

// recordingSink captures the order samples are written in, instead of
// doing any real I/O. failOn, if set, makes Write fail for that one
// sample name without aborting the rest.
type recordingSink struct {
	initCalled bool
	written    []string
	finalized  bool
	failOn     string
}

func (s *recordingSink) Init() error { s.initCalled = true; return nil }
func (s *recordingSink) Write(sample *model.Sample) error {
	if s.failOn != "" && strings.Contains(sample.SampleName, s.failOn) {
		return fmt.Errorf("simulated write failure for %s", sample.SampleName)
	}
	s.written = append(s.written, sample.SampleName)
	return nil
}
func (s *recordingSink) Finalize() error { s.finalized = true; return nil }

func buildPipeline(attr *model.AttributeRef, content model.ContentSpec) (*streampipe.Built, error) {
	base, err := streampipe.BaseStream(content, attr, 4, 16)
	if err != nil {
		return nil, err
	}
	return streampipe.BuildPipeline(base, streampipe.Config{}), nil
}

func unlimitedLimits() *model.Limits {
	return &model.Limits{
		MaxSampleCount:    model.Unlimited,
		MaxBytesPerSample: model.Unlimited,
		MaxBytesTotal:     model.Unlimited,
	}
}

func fileRef(name string) model.FileReference {
	return model.FileReference{
		FileName:     name,
		FullPathName: "C:\\" + name,
		Record: &model.FileNameRecord{
			FileName:       name,
			FileNameLength: uint8(len(name)),
		},
	}
}

func TestRunIngestsThenWritesInRegistryOrder(t *testing.T) {
	term := &model.RuleDescriptor{Description: "EvilRule"}
	spec := &model.SampleSpec{
		Content:         model.ContentSpec{Type: model.ContentData},
		PerSampleLimits: unlimitedLimits(),
	}

	matchA := &model.Match{
		FileRecordNumber:   1,
		VolumeReader:       fakeVolume{serial: 1},
		MatchingNames:      []model.FileReference{fileRef("a.exe")},
		MatchingAttributes: []model.AttributeRef{{InstanceID: 0, DataStream: memStream{bytes.NewReader([]byte("aaaa"))}}},
		Term:               term,
	}
	matchB := &model.Match{
		FileRecordNumber:   2,
		VolumeReader:       fakeVolume{serial: 1},
		MatchingNames:      []model.FileReference{fileRef("b.exe")},
		MatchingAttributes: []model.AttributeRef{{InstanceID: 0, DataStream: memStream{bytes.NewReader([]byte("bbbb"))}}},
		Term:               term,
	}

	ff := &fakefinder.Finder{Matches: []*model.Match{matchA, matchB}}
	sk := &recordingSink{}

	orch := &Orchestrator{
		Finder:    ff,
		Locations: []finder.Location{{Path: "C:\\"}},
		Ingestor: &ingest.Ingestor{
			Registry:      registry.New(),
			CollectionDate: time.Now(),
			BuildPipeline: buildPipeline,
		},
		Sink:         sk,
		GlobalLimits: &model.Limits{MaxSampleCount: model.Unlimited, MaxBytesPerSample: model.Unlimited, MaxBytesTotal: model.Unlimited},
		ResolveSpec:  func(*model.RuleDescriptor) *model.SampleSpec { return spec },
	}

	require.NoError(t, orch.Run(context.Background()))

	assert.True(t, sk.initCalled)
	assert.True(t, sk.finalized)
	require.Len(t, sk.written, 2)
	assert.Contains(t, sk.written[0], "a.exe")
	assert.Contains(t, sk.written[1], "b.exe")
}

func TestRunContinuesPastSampleWriteFailureAndStillFinalizes(t *testing.T) {
	term := &model.RuleDescriptor{Description: "EvilRule"}
	spec := &model.SampleSpec{
		Content:         model.ContentSpec{Type: model.ContentData},
		PerSampleLimits: unlimitedLimits(),
	}

	matchA := &model.Match{
		FileRecordNumber:   1,
		VolumeReader:       fakeVolume{serial: 1},
		MatchingNames:      []model.FileReference{fileRef("a.exe")},
		MatchingAttributes: []model.AttributeRef{{InstanceID: 0, DataStream: memStream{bytes.NewReader([]byte("aaaa"))}}},
		Term:               term,
	}
	matchB := &model.Match{
		FileRecordNumber:   2,
		VolumeReader:       fakeVolume{serial: 1},
		MatchingNames:      []model.FileReference{fileRef("b.exe")},
		MatchingAttributes: []model.AttributeRef{{InstanceID: 0, DataStream: memStream{bytes.NewReader([]byte("bbbb"))}}},
		Term:               term,
	}

	ff := &fakefinder.Finder{Matches: []*model.Match{matchA, matchB}}
	sk := &recordingSink{failOn: "a.exe"}

	orch := &Orchestrator{
		Finder:    ff,
		Locations: []finder.Location{{Path: "C:\\"}},
		Ingestor: &ingest.Ingestor{
			Registry:       registry.New(),
			CollectionDate: time.Now(),
			BuildPipeline:  buildPipeline,
		},
		Sink:         sk,
		GlobalLimits: &model.Limits{MaxSampleCount: model.Unlimited, MaxBytesPerSample: model.Unlimited, MaxBytesTotal: model.Unlimited},
		ResolveSpec:  func(*model.RuleDescriptor) *model.SampleSpec { return spec },
	}

	require.NoError(t, orch.Run(context.Background()))

	assert.True(t, sk.initCalled)
	assert.True(t, sk.finalized)
	require.Len(t, sk.written, 1)
	assert.Contains(t, sk.written[0], "b.exe")
}

func TestRunSkipsMatchWithUnresolvedSpec(t *testing.T) {
	term := &model.RuleDescriptor{Description: "Unknown"}
	match := &model.Match{
		FileRecordNumber:   9,
		VolumeReader:       fakeVolume{serial: 1},
		MatchingNames:      []model.FileReference{fileRef("x.exe")},
		MatchingAttributes: []model.AttributeRef{{InstanceID: 0, DataStream: memStream{bytes.NewReader([]byte("x"))}}},
		Term:               term,
	}

	ff := &fakefinder.Finder{Matches: []*model.Match{match}}
	sk := &recordingSink{}

	orch := &Orchestrator{
		Finder:    ff,
		Locations: []finder.Location{{Path: "C:\\"}},
		Ingestor: &ingest.Ingestor{
			Registry:      registry.New(),
			CollectionDate: time.Now(),
			BuildPipeline: buildPipeline,
		},
		Sink:         sk,
		GlobalLimits: &model.Limits{MaxSampleCount: model.Unlimited, MaxBytesPerSample: model.Unlimited, MaxBytesTotal: model.Unlimited},
		ResolveSpec:  func(*model.RuleDescriptor) *model.SampleSpec { return nil },
	}

	require.NoError(t, orch.Run(context.Background()))
	assert.Empty(t, sk.written)
}
