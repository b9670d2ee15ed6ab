package sink

import (
	"fmt"
	"path"

	"github.com/sirupsen/logrus"

	"www.velocidex.com/golang/getthis/internal/archive"
	"www.velocidex.com/golang/getthis/internal/model"
	"www.velocidex.com/golang/getthis/internal/reporter"
	"www.velocidex.com/golang/getthis/internal/table"
)

// maxInMemoryStaging is the in-memory threshold for the CSV and log
// staging streams before they spill to a disk-backed temp file, per
// spec.md §4.6.1.
const maxInMemoryStaging = 5 * 1024 * 1024

// ArchiveSink writes every sample into a single zip archive, with the
// CSV report and a log staged to a buffered temp stream and appended as
// two final entries (GetThis.csv, GetThis.log) once every sample has
// been written. Grounded on Main::InitArchiveOutput / WriteSample /
// CloseArchiveOutput.
type ArchiveSink struct {
	ArchivePath      string
	Password         string
	CompressionLevel int
	Columns          []string
	Reporter         *reporter.Reporter
	Log              *logrus.Logger

	// Writer overrides the default Velocidex/zip-backed writer; tests
	// inject a fake here instead of touching the filesystem.
	Writer archive.Writer

	writer    archive.Writer
	csvStream *archive.TempStream
	logStream *archive.TempStream
	csv       *table.CSVWriter
	log       *logWriter
}

// emit reports sample through the CSV writer, logging rather than
// propagating a failure — a row that didn't make it into GetThis.csv
// doesn't mean the sample itself wasn't collected.
func (s *ArchiveSink) emit(sample *model.Sample) {
	if err := s.Reporter.Emit(s.csv, sample); err != nil && s.Log != nil {
		s.Log.WithError(err).WithField("sample", sample.SampleName).
			Error("failed to emit CSV row, continuing")
	}
}

// logWriter accumulates plain lines into a TempStream, standing in for
// the original tool's CLogFile sink.
type logWriter struct{ dst *archive.TempStream }

func (l *logWriter) Printf(format string, args ...interface{}) {
	l.dst.Write([]byte(fmt.Sprintf(format, args...) + "\n"))
}

// Init opens the archive output, and stages the CSV and log streams that
// will be appended to it on Finalize.
func (s *ArchiveSink) Init() error {
	s.writer = s.Writer
	if s.writer == nil {
		s.writer = archive.NewZipWriter()
	}
	if err := s.writer.Init(s.ArchivePath); err != nil {
		return err
	}
	if s.Password != "" {
		if err := s.writer.SetPassword(s.Password); err != nil {
			return err
		}
	}
	if err := s.writer.SetCompressionLevel(s.CompressionLevel); err != nil {
		return err
	}
	s.writer.SetProgress(func(name string) {
		if s.Log != nil {
			s.Log.WithField("entry", name).Info("archived")
		}
	})

	s.csvStream = archive.NewTempStream(maxInMemoryStaging)
	s.logStream = archive.NewTempStream(maxInMemoryStaging)
	s.csv = table.NewCSVWriter(s.csvStream)
	s.log = &logWriter{dst: s.logStream}

	if len(s.Columns) > 0 {
		if err := s.csv.WriteHeader(s.Columns); err != nil {
			return err
		}
	}
	return nil
}

// Write adds sample's content to the archive, reporting a CSV row and a
// log line once the entry's bytes have been fully consumed. Off-limits
// samples are never added to the archive itself; they still get hashed
// (when configured) and reported, exactly like a collected sample,
// matching the original's behavior of always emitting a CSV row even
// when the sample content was dropped for exceeding a quota.
func (s *ArchiveSink) Write(sample *model.Sample) error {
	if sample.OffLimits || sample.CopyStream == nil {
		if err := s.Reporter.FinalizeHashes(sample); err != nil {
			return err
		}
		s.log.Printf("skipped %s: off-limits or no copy stream", sample.SampleName)
		s.emit(sample)
		return nil
	}

	entryName := sample.SampleName
	displayName := entryName
	if len(sample.Matches) > 0 && len(sample.Matches[0].MatchingNames) > 0 {
		displayName = sample.Matches[0].MatchingNames[0].FullPathName
	}

	var finalizeErr error
	err := s.writer.AddStream(entryName, displayName, sample.CopyStream, func(copyErr error) {
		sample.CopyStream.Close()
		if copyErr != nil {
			finalizeErr = copyErr
			return
		}
		if err := s.Reporter.FinalizeHashes(sample); err != nil {
			finalizeErr = err
			return
		}
		s.log.Printf("collected %s as %s", displayName, path.Base(entryName))
		s.emit(sample)
	})
	if err != nil {
		return err
	}
	return finalizeErr
}

// Finalize flushes the CSV and log streams, appends them to the archive
// as GetThis.csv and GetThis.log, and closes the archive.
func (s *ArchiveSink) Finalize() error {
	if err := s.csv.Flush(); err != nil {
		return err
	}

	csvReader, err := s.csvStream.Rewind()
	if err != nil {
		return err
	}
	if err := s.writer.AddStream("GetThis.csv", "GetThis.csv", csvReader, nil); err != nil {
		return err
	}

	logReader, err := s.logStream.Rewind()
	if err != nil {
		return err
	}
	if err := s.writer.AddStream("GetThis.log", "GetThis.log", logReader, nil); err != nil {
		return err
	}

	if err := s.writer.FlushQueue(); err != nil {
		return err
	}
	if err := s.csvStream.Close(); err != nil {
		return err
	}
	if err := s.logStream.Close(); err != nil {
		return err
	}
	return s.writer.Complete()
}
