// Package table declares the external TableWriter contract (spec.md §6)
// and a default CSV-backed implementation. The CSV encoder itself is an
// out-of-scope external collaborator per spec.md §1 ("the CSV/table
// writer ... treated as a row sink with a fixed schema"); this package
// supplies a minimal, real implementation so the collection pipeline is
// runnable end to end, using encoding/csv directly because the teacher's
// own CSV flavor (file_store/csv) is built against the VQL scope/Dict
// machinery this repo does not carry.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Writer is the subset of the TableWriter contract the Reporter needs:
// typed column writers for one row at a time, flush, and close.
type Writer interface {
	WriteString(v string)
	WriteInteger(v uint64)
	WriteFileSize(v uint64)
	WriteBytes(v []byte)
	WriteFileTime(v time.Time)
	WriteGUID(v uuid.UUID)
	WriteExactFlags(v fmt.Stringer)
	WriteNothing()
	WriteEndOfLine() error

	Flush() error
	Close() error
}

// CSVWriter is the default Writer, one row buffered at a time and
// flushed through encoding/csv.
type CSVWriter struct {
	w    *csv.Writer
	row  []string
	err  error
}

// NewCSVWriter wraps dst. Column order is entirely the caller's
// (Reporter's) responsibility; CSVWriter just encodes whatever is
// written before the next WriteEndOfLine.
func NewCSVWriter(dst io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(dst)}
}

// WriteHeader writes the column header row. Callers invoke this once,
// before any WriteEndOfLine-terminated row, to match spec.md §6's CSV
// schema contract.
func (c *CSVWriter) WriteHeader(columns []string) error {
	return c.w.Write(columns)
}

func (c *CSVWriter) WriteString(v string)         { c.row = append(c.row, v) }
func (c *CSVWriter) WriteInteger(v uint64)         { c.row = append(c.row, fmt.Sprintf("%d", v)) }
func (c *CSVWriter) WriteFileSize(v uint64)        { c.row = append(c.row, fmt.Sprintf("%d", v)) }
func (c *CSVWriter) WriteBytes(v []byte)           { c.row = append(c.row, fmt.Sprintf("%x", v)) }
func (c *CSVWriter) WriteGUID(v uuid.UUID)         { c.row = append(c.row, v.String()) }
func (c *CSVWriter) WriteExactFlags(v fmt.Stringer) { c.row = append(c.row, v.String()) }
func (c *CSVWriter) WriteNothing()                 { c.row = append(c.row, "") }

// WriteFileTime encodes v as a Windows FILETIME: 100ns intervals since
// 1601-01-01, the same epoch the original TableWriter uses for all
// timestamp columns (spec.md §6, "Times encoded as Windows FILETIME").
func (c *CSVWriter) WriteFileTime(v time.Time) {
	if v.IsZero() {
		c.row = append(c.row, "")
		return
	}
	c.row = append(c.row, fmt.Sprintf("%d", toFileTime(v)))
}

func (c *CSVWriter) WriteEndOfLine() error {
	defer func() { c.row = nil }()
	if c.err != nil {
		return c.err
	}
	return c.w.Write(c.row)
}

func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

func (c *CSVWriter) Close() error {
	return c.Flush()
}

var fileTimeEpoch = time.Date(1601, 1, 1, 0, 0, 0, 0, time.UTC)

func toFileTime(t time.Time) int64 {
	return t.UTC().Sub(fileTimeEpoch).Nanoseconds() / 100
}
