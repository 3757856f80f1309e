// Package bpb decodes the BIOS Parameter Block from sector 0 of a FAT image
// (C3) and derives the geometry and FAT variant from it (C4).
//
// Grounded on file_systems/fat/common.go's NewFATBootSectorFromStream, with
// the field offsets and FAT32-only fields spelled out explicitly per
// spec.md §4.3 rather than relying on Go struct layout matching the wire
// format.
package bpb

import (
	"encoding/binary"

	"github.com/ldson/fatview/errors"
)

// BPB is the decoded Boot Parameter Block, §3 and §4.3 of spec.md.
type BPB struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumberOfFATs      uint8
	RootEntryCount    uint16
	TotalSectors16    uint16
	MediaType         uint8
	FATSize16         uint16
	SectorsPerTrack   uint16
	NumberOfHeads     uint16
	HiddenSectors     uint32
	TotalSectors32    uint32

	// FAT32-only fields, present iff FATSize16 == 0.
	FATSize32        uint32
	ExtFlags         uint16
	FSVersion        uint16
	RootCluster      uint32
	FSInfoSector     uint16
	BackupBootSector uint16

	DriveNumber   uint8
	BootSignature uint8
	VolumeID      uint32
	// VolumeLabel is the 11-byte, space-padded volume label, preserved
	// verbatim (not NUL-terminated).
	VolumeLabel [11]byte
	// FSType is the 8-byte filesystem type string, preserved verbatim.
	FSType [8]byte
}

// IsFAT32Layout reports whether the FAT32-only fields of the BPB are
// populated. FATSize16 == 0 is the on-disk marker for this, per spec.md §3.
func (b *BPB) IsFAT32Layout() bool {
	return b.FATSize16 == 0
}

// Parse decodes a BPB from a single sector's worth of bytes (sector 0 of the
// image). sector must be at least 90 bytes long, which every allowed sector
// size comfortably is.
func Parse(sector []byte) (*BPB, error) {
	const minLen = 90
	if len(sector) < minLen {
		return nil, errors.Format.WithMessagef(
			"boot sector too short: need at least %d bytes, got %d", minLen, len(sector))
	}

	le := binary.LittleEndian
	b := &BPB{
		BytesPerSector:    le.Uint16(sector[11:13]),
		SectorsPerCluster: sector[13],
		ReservedSectors:   le.Uint16(sector[14:16]),
		NumberOfFATs:      sector[16],
		RootEntryCount:    le.Uint16(sector[17:19]),
		TotalSectors16:    le.Uint16(sector[19:21]),
		MediaType:         sector[21],
		FATSize16:         le.Uint16(sector[22:24]),
		SectorsPerTrack:   le.Uint16(sector[24:26]),
		NumberOfHeads:     le.Uint16(sector[26:28]),
		HiddenSectors:     le.Uint32(sector[28:32]),
		TotalSectors32:    le.Uint32(sector[32:36]),
	}

	tailBase := 36
	if b.IsFAT32Layout() {
		b.FATSize32 = le.Uint32(sector[36:40])
		b.ExtFlags = le.Uint16(sector[40:42])
		b.FSVersion = le.Uint16(sector[42:44])
		b.RootCluster = le.Uint32(sector[44:48])
		b.FSInfoSector = le.Uint16(sector[48:50])
		b.BackupBootSector = le.Uint16(sector[50:52])
		// 12 reserved bytes at offset 52, not preserved.
		tailBase = 64
	}

	b.DriveNumber = sector[tailBase]
	// sector[tailBase+1] is NTReserved, not preserved.
	b.BootSignature = sector[tailBase+2]
	b.VolumeID = le.Uint32(sector[tailBase+3 : tailBase+7])
	copy(b.VolumeLabel[:], sector[tailBase+7:tailBase+18])
	copy(b.FSType[:], sector[tailBase+18:tailBase+26])

	if err := validate(b); err != nil {
		return nil, err
	}

	return b, nil
}

// validate enforces the cross-consistency checks spec.md §9 calls out as
// missing from the original source, choosing the strict (reject) option
// documented as this project's Open Question decision in DESIGN.md.
func validate(b *BPB) error {
	switch b.BytesPerSector {
	case 512, 1024, 2048, 4096:
	default:
		return errors.Format.WithMessagef(
			"bytes per sector must be 512, 1024, 2048, or 4096, got %d", b.BytesPerSector)
	}

	if b.SectorsPerCluster == 0 || (b.SectorsPerCluster&(b.SectorsPerCluster-1)) != 0 {
		return errors.Format.WithMessagef(
			"sectors per cluster must be a power of two, got %d", b.SectorsPerCluster)
	}

	if (b.TotalSectors16 != 0) == (b.TotalSectors32 != 0) {
		return errors.Format.WithMessagef(
			"exactly one of total_sectors_16/total_sectors_32 must be nonzero (16=%d, 32=%d)",
			b.TotalSectors16, b.TotalSectors32)
	}

	// FATSize32 is only decoded when FATSize16 is zero, so the one
	// violation visible here is both FAT-size fields being zero.
	if b.IsFAT32Layout() && b.FATSize32 == 0 {
		return errors.Format.WithMessage(
			"exactly one of fat_size_16/fat_size_32 must be nonzero (both are 0)")
	}

	return nil
}

// TotalSectors returns whichever of the two total-sector fields is nonzero.
func (b *BPB) TotalSectors() uint64 {
	if b.TotalSectors16 != 0 {
		return uint64(b.TotalSectors16)
	}
	return uint64(b.TotalSectors32)
}

// FATSizeSectors returns whichever of the two FAT-size fields applies: the
// 32-bit form iff the 16-bit form is zero.
func (b *BPB) FATSizeSectors() uint64 {
	if b.FATSize16 != 0 {
		return uint64(b.FATSize16)
	}
	return uint64(b.FATSize32)
}
