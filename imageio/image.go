// Package imageio implements the lowest layer of the decoder: opening a
// backing disk image file and performing positioned byte reads and writes
// against it.
//
// It is grounded on the original C source's ip_driver module
// (ip_driver_init/ip_driver_read_sector/ip_driver_write_sector), translated
// to Go's io.ReaderAt/io.WriterAt idiom the way
// drivers/common/blockdevice.go's BlockDevice wraps a stream.
package imageio

import (
	"io"
	"os"
	"strings"

	"github.com/ldson/fatview/errors"
)

// Mode selects whether an Image was opened for reading only or for reading
// and writing.
type Mode int

const (
	ReadOnly Mode = iota
	ReadWrite
)

// Image is an open handle to the backing disk image file.
type Image struct {
	file *os.File
	mode Mode
}

// Open opens path as a disk image in the given mode. The path MUST end in
// ".img" (case-sensitive); anything else is a Configuration error, matching
// the original ip_driver_init's strrchr(".img") check.
func Open(path string, mode Mode) (*Image, error) {
	if !strings.HasSuffix(path, ".img") {
		return nil, errors.Configuration.WithMessagef(
			"image path must end in \".img\": %q", path)
	}

	flag := os.O_RDONLY
	if mode == ReadWrite {
		flag = os.O_RDWR
	}

	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, errors.IO.Wrap(err)
	}

	return &Image{file: f, mode: mode}, nil
}

// Mode returns the mode the image was opened with.
func (img *Image) Mode() Mode {
	return img.mode
}

// ReadAt performs an absolute positioned read of exactly len(buf) bytes,
// starting at off. A short read at EOF is returned as the short count, not
// an error, matching spec.md §4.1. Implements io.ReaderAt.
func (img *Image) ReadAt(buf []byte, off int64) (int, error) {
	n, err := img.file.ReadAt(buf, off)
	if err != nil && err != io.EOF {
		return n, errors.IO.Wrap(err)
	}
	return n, nil
}

// WriteAt performs an absolute positioned write of exactly len(buf) bytes,
// starting at off. Writing to a read-only image is a ReadOnlyViolation.
// Implements io.WriterAt.
func (img *Image) WriteAt(buf []byte, off int64) (int, error) {
	if img.mode != ReadWrite {
		return 0, errors.ReadOnlyViolation.WithMessage("image opened read-only")
	}

	n, err := img.file.WriteAt(buf, off)
	if err != nil {
		return n, errors.IO.Wrap(err)
	}
	return n, nil
}

// Close releases the underlying file handle. Idempotent.
func (img *Image) Close() error {
	if img.file == nil {
		return nil
	}
	err := img.file.Close()
	img.file = nil
	if err != nil {
		return errors.IO.Wrap(err)
	}
	return nil
}
