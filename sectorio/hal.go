// Package sectorio is the sector-addressed hardware abstraction layer: it
// owns an image handle and a fixed sector size, and translates sector
// indices into the byte-range reads and writes imageio performs.
//
// Grounded on the original C source's hal module (hal_init/hal_read_sector/
// hal_write_sector) and, for the Go shape of wrapping a seekable stream,
// drivers/common/blockdevice.go's BlockDevice.
package sectorio

import (
	"io"

	"github.com/ldson/fatview/errors"
)

// Size is the bounded enumeration of sector sizes spec.md §3 allows.
type Size uint32

const (
	Size512  Size = 512
	Size1024 Size = 1024
	Size2048 Size = 2048
	Size4096 Size = 4096
)

func (s Size) valid() bool {
	switch s {
	case Size512, Size1024, Size2048, Size4096:
		return true
	default:
		return false
	}
}

// ImageHandle is the minimal surface the HAL needs from a backing image: a
// positioned reader/writer/closer. *imageio.Image satisfies this, as does
// any io.ReaderAt+io.WriterAt+io.Closer a test wants to substitute (e.g. one
// built over bytesextra.NewReadWriteSeeker).
type ImageHandle interface {
	io.ReaderAt
	io.WriterAt
	io.Closer
}

// HAL is the Sector HAL (C2): a fixed sector size plus the image handle it
// reads and writes whole sectors against.
type HAL struct {
	image      ImageHandle
	sectorSize Size
}

// New wraps an already-open image handle with a fixed sector size. It fails,
// closing the handle, if sectorSize is not one of the four allowed values —
// matching hal_init's behavior of closing the IP driver before returning an
// error on a bad sector size.
func New(image ImageHandle, sectorSize Size) (*HAL, error) {
	if !sectorSize.valid() {
		_ = image.Close()
		return nil, errors.Configuration.WithMessagef(
			"unsupported sector size: %d", sectorSize)
	}
	return &HAL{image: image, sectorSize: sectorSize}, nil
}

// SectorSize returns the fixed sector size this HAL was initialized with.
func (h *HAL) SectorSize() Size {
	return h.sectorSize
}

// SectorSizeBytes returns the fixed sector size as a plain byte count, for
// collaborators that only need a buffer length and shouldn't have to import
// the Size enum (e.g. bpb.SectorReader).
func (h *HAL) SectorSizeBytes() uint32 {
	return uint32(h.sectorSize)
}

// ReadSector reads sector index i into buf, which must be exactly one sector
// long.
func (h *HAL) ReadSector(i uint64, buf []byte) error {
	if uint64(len(buf)) != uint64(h.sectorSize) {
		return errors.InvalidArgument.WithMessagef(
			"sector buffer must be %d bytes, got %d", h.sectorSize, len(buf))
	}

	offset := int64(i) * int64(h.sectorSize)
	n, err := h.image.ReadAt(buf, offset)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return errors.IO.WithMessagef(
			"short read at sector %d: wanted %d bytes, got %d", i, len(buf), n)
	}
	return nil
}

// WriteSector writes buf, which must be exactly one sector long, to sector
// index i.
func (h *HAL) WriteSector(i uint64, buf []byte) error {
	if uint64(len(buf)) != uint64(h.sectorSize) {
		return errors.InvalidArgument.WithMessagef(
			"sector buffer must be %d bytes, got %d", h.sectorSize, len(buf))
	}

	offset := int64(i) * int64(h.sectorSize)
	n, err := h.image.WriteAt(buf, offset)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return errors.IO.WithMessagef(
			"short write at sector %d: wanted %d bytes, wrote %d", i, len(buf), n)
	}
	return nil
}

// Close releases the underlying image handle.
func (h *HAL) Close() error {
	return h.image.Close()
}
