package sink

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"www.velocidex.com/golang/getthis/internal/errkind"
	"www.velocidex.com/golang/getthis/internal/model"
	"www.velocidex.com/golang/getthis/internal/reporter"
	"www.velocidex.com/golang/getthis/internal/table"
)

// DirectorySink writes every sample as a loose file under OutputDir, with
// a sibling GetThis.csv report. Grounded directly on GetThis_Run.cpp's
// CopyStream helper: create parent directories, open the destination
// file, copy, close both ends, treating an input-stream close failure as
// a warning rather than an error (the bytes are already on disk by
// then).
type DirectorySink struct {
	OutputDir string
	Columns   []string
	Reporter  *reporter.Reporter
	Log       *logrus.Logger

	csvFile *os.File
	csv     *table.CSVWriter
}

// emit reports sample through the CSV writer, logging rather than
// propagating a failure — a row that didn't make it into GetThis.csv
// doesn't mean the sample itself wasn't collected.
func (s *DirectorySink) emit(sample *model.Sample) {
	if err := s.Reporter.Emit(s.csv, sample); err != nil && s.Log != nil {
		s.Log.WithError(err).WithField("sample", sample.SampleName).
			Error("failed to emit CSV row, continuing")
	}
}

// Init creates the output directory and opens the CSV report alongside
// it.
func (s *DirectorySink) Init() error {
	if err := os.MkdirAll(s.OutputDir, 0o755); err != nil {
		return errkind.New(errkind.ResourceInitFailure, "DirectorySink.Init", err)
	}

	f, err := os.Create(filepath.Join(s.OutputDir, "GetThis.csv"))
	if err != nil {
		return errkind.New(errkind.ResourceInitFailure, "DirectorySink.Init", err)
	}
	s.csvFile = f
	s.csv = table.NewCSVWriter(f)

	if len(s.Columns) > 0 {
		if err := s.csv.WriteHeader(s.Columns); err != nil {
			return err
		}
	}
	return nil
}

// Write copies sample's content to OutputDir/sample.SampleName, creating
// any missing subdirectories the sample name implies (the name template
// never contains path separators itself, but a rule's Name prefix may),
// then reports it. Off-limits samples are reported but never copied.
func (s *DirectorySink) Write(sample *model.Sample) error {
	if sample.OffLimits || sample.CopyStream == nil {
		if err := s.Reporter.FinalizeHashes(sample); err != nil {
			return err
		}
		s.emit(sample)
		return nil
	}

	dest := filepath.Join(s.OutputDir, sample.SampleName)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errkind.New(errkind.IoFailure, "DirectorySink.Write", err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return errkind.New(errkind.IoFailure, "DirectorySink.Write", err)
	}

	_, copyErr := io.Copy(out, sample.CopyStream)

	if closeErr := sample.CopyStream.Close(); closeErr != nil && s.Log != nil {
		// Bytes are already written; a failure closing the source
		// stream is logged as a warning, not returned.
		s.Log.WithError(closeErr).WithField("sample", sample.SampleName).
			Warn("failed to close sample input stream")
	}

	if err := out.Close(); err != nil {
		return errkind.New(errkind.IoFailure, "DirectorySink.Write", err)
	}
	if copyErr != nil {
		return errkind.New(errkind.IoFailure, "DirectorySink.Write", copyErr)
	}

	if err := s.Reporter.FinalizeHashes(sample); err != nil {
		return err
	}
	s.emit(sample)
	return nil
}

// Finalize flushes and closes the CSV report.
func (s *DirectorySink) Finalize() error {
	if err := s.csv.Flush(); err != nil {
		return err
	}
	return s.csvFile.Close()
}
