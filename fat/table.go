// Package fat implements the FAT Table (C5) and Cluster Walker (C6): loading
// the primary FAT into memory, decoding cluster entries per variant, and
// following cluster chains.
//
// Grounded on the original source's fat_driver_get_fat_entry /
// fat_driver_get_next_cluster and, for the Go shape of the three-variant
// entry layout, file_systems/fat/driverbase.go's listClusters/
// getClusterInChain.
package fat

import (
	"encoding/binary"
	"io"

	bitmap "github.com/boljen/go-bitmap"
	"github.com/noxer/bytewriter"

	"github.com/ldson/fatview/bpb"
	"github.com/ldson/fatview/errors"
)

// End-of-chain markers, one per variant. spec.md §3 and §9: the original
// source (and this implementation, by default) checks these via strict
// equality rather than the ">= 0xFF8 style" range test real volumes use.
const (
	eoc12 = 0xFFF
	eoc16 = 0xFFFF
	eoc32 = 0x0FFFFFFF

	eocRangeStart12 = 0xFF8
	eocRangeStart16 = 0xFFF8
	eocRangeStart32 = 0x0FFFFFF8
)

// SectorReader is the slice of sectorio.HAL the table loader needs.
type SectorReader interface {
	ReadSector(i uint64, buf []byte) error
}

// Table is the loaded FAT (C5): a contiguous in-memory copy of the first
// FAT's raw bytes, plus the derived geometry needed to decode entries and a
// free-cluster occupancy index built once at load time.
type Table struct {
	variant       bpb.Variant
	data          []byte
	totalClusters uint64
	lenientEOC    bool
	freeBitmap    bitmap.Bitmap
}

// Load reads the primary FAT from r using geom, and builds the free-cluster
// bitmap used by Mount.GetFilesystemInfo.
//
// The sector-by-sector fill writes directly into the correct offset of the
// preallocated table buffer through a bytewriter-wrapped io.Writer, the same
// sequential-fill idiom file_systems/unixv1/format.go uses when assembling a
// bitmap region.
func Load(r SectorReader, geom bpb.Geometry) (*Table, error) {
	sizeBytes := geom.FATSizeSectors * geom.BytesPerSector
	if sizeBytes == 0 {
		return nil, errors.Format.WithMessage("FAT size is zero")
	}

	buf := make([]byte, sizeBytes)
	w := bytewriter.New(buf)
	sectorBuf := make([]byte, geom.BytesPerSector)

	for i := uint64(0); i < geom.FATSizeSectors; i++ {
		if err := r.ReadSector(geom.FirstFATSector+i, sectorBuf); err != nil {
			return nil, errors.IO.Wrap(err)
		}
		if _, err := w.Write(sectorBuf); err != nil && err != io.EOF {
			return nil, errors.Resource.Wrap(err)
		}
	}

	t := &Table{
		variant:       geom.Variant,
		data:          buf,
		totalClusters: geom.TotalClusters,
	}
	t.buildFreeBitmap()
	return t, nil
}

// WithLenientEOC switches this table to the range-based end-of-chain test
// real FAT volumes use (>= 0xFF8 / 0xFFF8 / 0x0FFFFFF8) instead of the
// original source's strict-equality compatibility behavior. See DESIGN.md
// for the Open Question this resolves.
func (t *Table) WithLenientEOC() *Table {
	t.lenientEOC = true
	return t
}

// Entry decodes the FAT entry for cluster, per the variant-specific bit
// packing in spec.md §4.5. Returns 0 (meaning "free") if the table is
// absent or the cluster is out of range.
func (t *Table) Entry(cluster uint64) uint32 {
	if t == nil || len(t.data) == 0 {
		return 0
	}

	switch t.variant {
	case bpb.FAT12:
		offset := cluster + cluster/2
		if offset+1 >= uint64(len(t.data)) {
			return 0
		}
		value := binary.LittleEndian.Uint16(t.data[offset : offset+2])
		if cluster&1 != 0 {
			return uint32(value >> 4)
		}
		return uint32(value & 0x0FFF)

	case bpb.FAT16:
		offset := cluster * 2
		if offset+1 >= uint64(len(t.data)) {
			return 0
		}
		return uint32(binary.LittleEndian.Uint16(t.data[offset : offset+2]))

	case bpb.FAT32:
		offset := cluster * 4
		if offset+3 >= uint64(len(t.data)) {
			return 0
		}
		return binary.LittleEndian.Uint32(t.data[offset:offset+4]) & 0x0FFFFFFF

	default:
		return 0
	}
}

// IsEndOfChain reports whether value is this variant's end-of-chain marker.
func (t *Table) IsEndOfChain(value uint32) bool {
	if t.lenientEOC {
		switch t.variant {
		case bpb.FAT12:
			return value >= eocRangeStart12
		case bpb.FAT16:
			return value >= eocRangeStart16
		case bpb.FAT32:
			return value >= eocRangeStart32
		}
		return false
	}

	switch t.variant {
	case bpb.FAT12:
		return value == eoc12
	case bpb.FAT16:
		return value == eoc16
	case bpb.FAT32:
		return value == eoc32
	default:
		return false
	}
}

// IsValidCluster reports whether cluster is a usable, in-range data cluster.
// Clusters 0 and 1 are reserved; the upper bound is the defensive check
// spec.md §4.6 and §9 require even though the original source omits it.
func (t *Table) IsValidCluster(cluster uint32) bool {
	return cluster >= 2 && uint64(cluster) < t.totalClusters+2
}

// buildFreeBitmap scans every cluster entry once and records which clusters
// are free (entry value 0), so GetFilesystemInfo doesn't have to rescan the
// FAT on every call. Grounded on drivers/common/allocatormap.go's Allocator,
// repurposed here as a read-only occupancy index rather than a write-side
// allocator.
func (t *Table) buildFreeBitmap() {
	bm := bitmap.New(int(t.totalClusters))
	for i := uint64(0); i < t.totalClusters; i++ {
		cluster := i + 2
		if t.Entry(cluster) == 0 {
			bm.Set(int(i), true)
		}
	}
	t.freeBitmap = bm
}

// FreeClusterCount returns the number of clusters whose FAT entry is 0, using
// the bitmap built at Load time.
func (t *Table) FreeClusterCount() uint64 {
	count := uint64(0)
	for i := 0; i < int(t.totalClusters); i++ {
		if t.freeBitmap.Get(i) {
			count++
		}
	}
	return count
}

// TotalClusters returns the total cluster count this table was loaded with.
func (t *Table) TotalClusters() uint64 {
	return t.totalClusters
}
