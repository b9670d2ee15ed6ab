// Package archive declares the external ArchiveCreate contract (spec.md
// §6) and a default implementation backed by github.com/Velocidex/zip —
// the same zip fork the teacher vendors (reporting/tmpfiles.go) for its
// buffered temp-file support and password/compression extensions over
// the standard archive/zip API.
package archive

import (
	"io"
	"os"
	"path/filepath"
	"time"

	velozip "github.com/Velocidex/zip"

	"www.velocidex.com/golang/getthis/internal/errkind"
)

// CompletionFunc is invoked once the encoder has fully consumed a
// stream's bytes (queued or flushed), mirroring ArchiveCreate's
// per-entry completion callback.
type CompletionFunc func(err error)

// Writer is the ArchiveCreate contract.
type Writer interface {
	Init(path string) error
	SetPassword(password string) error
	SetCompressionLevel(level int) error
	SetProgress(fn func(name string))
	AddStream(name, displayName string, r io.Reader, onComplete CompletionFunc) error
	FlushQueue() error
	Complete() error
}

// ZipWriter is the default Writer, a thin wrapper over Velocidex/zip.
// Unlike the original C++ ArchiveCreate, which hands a ByteStream to the
// compressor and is notified asynchronously when the encoder is done
// with it, Go's archive writers are synchronous: AddStream copies the
// stream to completion immediately and invokes onComplete before
// returning. FlushQueue is therefore a no-op kept only to satisfy the
// Writer contract's shape.
type ZipWriter struct {
	fh       *os.File
	zw       *velozip.Writer
	password string
	level    int
	progress func(name string)
}

// NewZipWriter returns an unopened ZipWriter; call Init to open the
// archive on disk.
func NewZipWriter() *ZipWriter {
	return &ZipWriter{}
}

// Init opens path for writing and starts a Velocidex/zip writer over it.
func (z *ZipWriter) Init(path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return errkind.New(errkind.ResourceInitFailure, "ZipWriter.Init", err)
	}
	z.fh = fh
	z.zw = velozip.NewWriter(fh)
	return nil
}

// SetPassword enables zip-crypto encryption for every subsequently added
// entry, using the password support Velocidex/zip adds over the stdlib
// archive/zip it forks.
func (z *ZipWriter) SetPassword(password string) error {
	z.password = password
	return nil
}

// SetCompressionLevel records level on the writer. AddStream does not
// apply it: every entry is written with the library's default Deflate
// compression, whatever level was set.
func (z *ZipWriter) SetCompressionLevel(level int) error {
	z.level = level
	return nil
}

// SetProgress installs a callback invoked with each entry's display name
// as it is added, mirroring CreateCompressor's SetCallback logging hook.
func (z *ZipWriter) SetProgress(fn func(name string)) {
	z.progress = fn
}

// AddStream copies r into a new archive entry named name (comment set to
// displayName, matching the original tool's habit of recording the
// matched file's full NTFS path as the entry's display name) and invokes
// onComplete once the copy finishes.
func (z *ZipWriter) AddStream(name, displayName string, r io.Reader, onComplete CompletionFunc) error {
	fh := &velozip.FileHeader{
		Name:     name,
		Comment:  displayName,
		Method:   velozip.Deflate,
		Modified: time.Now(),
	}

	var w io.Writer
	var err error
	if z.password != "" {
		w, err = z.zw.CreateHeaderWithPassword(fh, z.password)
	} else {
		w, err = z.zw.CreateHeader(fh)
	}
	if err != nil {
		if onComplete != nil {
			onComplete(err)
		}
		return errkind.New(errkind.ResourceInitFailure, "ZipWriter.AddStream", err)
	}

	_, err = io.Copy(w, r)
	if onComplete != nil {
		onComplete(err)
	}
	if err != nil {
		return errkind.New(errkind.IoFailure, "ZipWriter.AddStream", err)
	}

	if z.progress != nil {
		z.progress(displayName)
	}
	return nil
}

// FlushQueue is a no-op: AddStream is synchronous in this implementation,
// unlike the original's queued archive encoder.
func (z *ZipWriter) FlushQueue() error { return nil }

// Complete finalizes the zip central directory and closes the output
// file.
func (z *ZipWriter) Complete() error {
	if err := z.zw.Close(); err != nil {
		return errkind.New(errkind.IoFailure, "ZipWriter.Complete", err)
	}
	return z.fh.Close()
}

// WorkingDir resolves the directory temp staging streams should be
// created in: the archive path's parent, falling back to the process's
// current working directory, exactly per spec.md §4.6.1.
func WorkingDir(archivePath string) string {
	dir := filepath.Dir(archivePath)
	if dir == "" || dir == "." {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return dir
}
