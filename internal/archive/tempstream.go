package archive

import (
	"bytes"
	"io"

	velozip "github.com/Velocidex/zip"
)

// TempStream buffers writes in memory until maxInMemory bytes, then
// switches to a disk-backed temp file for the remainder — grounded on
// reporting/tmpfiles.go's BufferedTmpFile, generalized into a
// write-then-read-back stream (Write, then Rewind for a reader over
// everything written) so both the CSV staging stream and the log staging
// stream (spec.md §4.6.1) can share one implementation. It is not an
// io.Reader or io.Seeker itself.
type TempStream struct {
	buffer     *bytes.Buffer
	file       velozip.TempFile
	maxInMemory int
	size       int64
}

// NewTempStream returns an empty TempStream that buffers up to
// maxInMemory bytes in memory before spilling to disk.
func NewTempStream(maxInMemory int) *TempStream {
	return &TempStream{buffer: &bytes.Buffer{}, maxInMemory: maxInMemory}
}

func (t *TempStream) Write(p []byte) (int, error) {
	if t.file != nil {
		n, err := t.file.Write(p)
		t.size += int64(n)
		return n, err
	}

	if t.buffer.Len()+len(p) > t.maxInMemory {
		file, err := velozip.DefaultTmpfileProvider(0).TempFile()
		if err != nil {
			return 0, err
		}
		if _, err := file.Write(t.buffer.Bytes()); err != nil {
			return 0, err
		}
		t.file = file
		t.buffer = nil

		n, err := file.Write(p)
		t.size += int64(n)
		return n, err
	}

	n, err := t.buffer.Write(p)
	t.size += int64(n)
	return n, err
}

// Size returns the number of bytes written so far.
func (t *TempStream) Size() int64 { return t.size }

// Rewind returns a reader positioned at the start of the accumulated
// content so it can be read back out, mirroring the original's SetFilePointer(0, FILE_BEGIN, ...)
// calls before appending GetThis.csv / GetThis.log to the archive.
func (t *TempStream) Rewind() (io.Reader, error) {
	if t.file != nil {
		rc, err := t.file.Open()
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	return bytes.NewReader(t.buffer.Bytes()), nil
}

// Close releases the backing temp file, if any.
func (t *TempStream) Close() error {
	if t.file != nil {
		return t.file.Close()
	}
	return nil
}
