package sink

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"www.velocidex.com/golang/getthis/internal/archive"
	"www.velocidex.com/golang/getthis/internal/model"
	"www.velocidex.com/golang/getthis/internal/reporter"
)

type memStream struct{ *bytes.Reader }

func (memStream) Close() error { return nil }

func newSample(name string, offLimits bool, body string) *model.Sample {
	return &model.Sample{
		SampleName: name,
		OffLimits:  offLimits,
		CopyStream: memStream{bytes.NewReader([]byte(body))},
		Matches: []*model.Match{{
			FileRecordNumber: 1,
			VolumeReader:     fakeVolume{},
			MatchingNames:    []model.FileReference{{FullPathName: "C:\\" + name}},
			MatchingAttributes: []model.AttributeRef{{Type: model.AttrData}},
			Term:             &model.RuleDescriptor{Description: "t1"},
		}},
	}
}

type fakeVolume struct{}

func (fakeVolume) VolumeSerialNumber() uint64 { return 1 }

// fakeArchiveWriter records every entry it was asked to add, invoking
// onComplete synchronously the way the real ZipWriter does.
type fakeArchiveWriter struct {
	entries []string
	closed  bool
}

func (f *fakeArchiveWriter) Init(path string) error                     { return nil }
func (f *fakeArchiveWriter) SetPassword(password string) error          { return nil }
func (f *fakeArchiveWriter) SetCompressionLevel(level int) error        { return nil }
func (f *fakeArchiveWriter) SetProgress(fn func(name string))           {}
func (f *fakeArchiveWriter) FlushQueue() error                          { return nil }
func (f *fakeArchiveWriter) Complete() error                            { f.closed = true; return nil }

func (f *fakeArchiveWriter) AddStream(name, displayName string, r io.Reader, onComplete archive.CompletionFunc) error {
	_, err := io.Copy(io.Discard, r)
	f.entries = append(f.entries, name)
	if onComplete != nil {
		onComplete(err)
	}
	return err
}

func TestArchiveSinkWritesEntryAndCSVRow(t *testing.T) {
	fake := &fakeArchiveWriter{}
	s := &ArchiveSink{
		ArchivePath: "unused.zip",
		Columns:     []string{"Name"},
		Reporter:    &reporter.Reporter{ComputerName: "HOST1"},
		Writer:      fake,
	}
	require.NoError(t, s.Init())

	sample := newSample("evil.exe", false, "payload")
	require.NoError(t, s.Write(sample))
	require.NoError(t, s.Finalize())

	assert.Contains(t, fake.entries, "evil.exe")
	assert.Contains(t, fake.entries, "GetThis.csv")
	assert.Contains(t, fake.entries, "GetThis.log")
	assert.True(t, fake.closed)
}

func TestArchiveSinkOffLimitsSkipsArchiveEntry(t *testing.T) {
	fake := &fakeArchiveWriter{}
	s := &ArchiveSink{
		ArchivePath: "unused.zip",
		Reporter:    &reporter.Reporter{ComputerName: "HOST1"},
		Writer:      fake,
	}
	require.NoError(t, s.Init())

	sample := newSample("huge.bin", true, "too big")
	require.NoError(t, s.Write(sample))
	require.NoError(t, s.Finalize())

	assert.NotContains(t, fake.entries, "huge.bin")
	assert.Contains(t, fake.entries, "GetThis.csv")
}

func TestDirectorySinkWritesFileAndCSV(t *testing.T) {
	dir := t.TempDir()
	s := &DirectorySink{
		OutputDir: dir,
		Columns:   []string{"Name"},
		Reporter:  &reporter.Reporter{ComputerName: "HOST1"},
	}
	require.NoError(t, s.Init())

	sample := newSample("evil.exe", false, "payload")
	require.NoError(t, s.Write(sample))
	require.NoError(t, s.Finalize())

	data, err := os.ReadFile(filepath.Join(dir, "evil.exe"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	_, err = os.Stat(filepath.Join(dir, "GetThis.csv"))
	require.NoError(t, err)
}

func TestDirectorySinkWritesHexPrefixedName(t *testing.T) {
	dir := t.TempDir()
	s := &DirectorySink{
		OutputDir: dir,
		Reporter:  &reporter.Reporter{ComputerName: "HOST1"},
	}
	require.NoError(t, s.Init())

	sample := newSample("0001000200000003evil.exe", false, "payload")
	require.NoError(t, s.Write(sample))
	require.NoError(t, s.Finalize())

	_, err := os.Stat(filepath.Join(dir, "0001000200000003evil.exe"))
	require.NoError(t, err)
}
