package shell

import (
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/ldson/fatview/bpb"
)

// EvidenceRow is one row of the `evidence` command's output: the decoded
// BPB fields and derived totals, marshaled through gocsv the way
// disks/disks.go marshals DiskGeometry rows.
type EvidenceRow struct {
	Field string `csv:"field"`
	Value string `csv:"value"`
}

// BuildEvidenceRows assembles the field/value rows for the evidence report
// from a BPB and a (total, free, used) size triple. SPEC_FULL.md §5 asks for
// every BPB field from §4.3 verbatim, plus the derived totals; the
// FAT32-only fields are only meaningful (and only emitted) when
// boot.IsFAT32Layout() is true.
func BuildEvidenceRows(boot *bpb.BPB, variant bpb.Variant, totalSize, freeSize, usedSize uint64) []EvidenceRow {
	u64 := func(v uint64) string { return strconv.FormatUint(v, 10) }

	rows := []EvidenceRow{
		{Field: "fat_variant", Value: variant.String()},
		{Field: "bytes_per_sector", Value: u64(uint64(boot.BytesPerSector))},
		{Field: "sectors_per_cluster", Value: u64(uint64(boot.SectorsPerCluster))},
		{Field: "reserved_sectors", Value: u64(uint64(boot.ReservedSectors))},
		{Field: "number_of_fats", Value: u64(uint64(boot.NumberOfFATs))},
		{Field: "root_entry_count", Value: u64(uint64(boot.RootEntryCount))},
		{Field: "total_sectors", Value: u64(boot.TotalSectors())},
		{Field: "media_type", Value: u64(uint64(boot.MediaType))},
		{Field: "fat_size_sectors", Value: u64(boot.FATSizeSectors())},
		{Field: "sectors_per_track", Value: u64(uint64(boot.SectorsPerTrack))},
		{Field: "number_of_heads", Value: u64(uint64(boot.NumberOfHeads))},
		{Field: "hidden_sectors", Value: u64(uint64(boot.HiddenSectors))},
	}

	if boot.IsFAT32Layout() {
		rows = append(rows,
			EvidenceRow{Field: "root_cluster", Value: u64(uint64(boot.RootCluster))},
			EvidenceRow{Field: "fs_info_sector", Value: u64(uint64(boot.FSInfoSector))},
			EvidenceRow{Field: "backup_boot_sector", Value: u64(uint64(boot.BackupBootSector))},
		)
	}

	rows = append(rows,
		EvidenceRow{Field: "total_size_bytes", Value: u64(totalSize)},
		EvidenceRow{Field: "free_size_bytes", Value: u64(freeSize)},
		EvidenceRow{Field: "used_size_bytes", Value: u64(usedSize)},
	)

	return rows
}

// RenderEvidenceCSV marshals rows to CSV text.
func RenderEvidenceCSV(rows []EvidenceRow) (string, error) {
	return gocsv.MarshalString(rows)
}
