package shell_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldson/fatview/bpb"
	"github.com/ldson/fatview/shell"
)

func TestBuildEvidenceRowsIncludesCoreBPBFields(t *testing.T) {
	boot := &bpb.BPB{
		BytesPerSector:    512,
		SectorsPerCluster: 1,
		ReservedSectors:   1,
		NumberOfFATs:      1,
		RootEntryCount:    16,
		TotalSectors16:    64,
		MediaType:         0xF8,
		FATSize16:         1,
		SectorsPerTrack:   18,
		NumberOfHeads:     2,
		HiddenSectors:     0,
	}

	rows := shell.BuildEvidenceRows(boot, bpb.FAT12, 31232, 1024, 30208)

	byField := make(map[string]string, len(rows))
	for _, r := range rows {
		byField[r.Field] = r.Value
	}

	assert.Equal(t, "FAT12", byField["fat_variant"])
	assert.Equal(t, "512", byField["bytes_per_sector"])
	assert.Equal(t, "248", byField["media_type"])
	assert.Equal(t, "18", byField["sectors_per_track"])
	assert.Equal(t, "2", byField["number_of_heads"])
	assert.Equal(t, "0", byField["hidden_sectors"])
	assert.Equal(t, "31232", byField["total_size_bytes"])
	assert.Equal(t, "1024", byField["free_size_bytes"])
	assert.Equal(t, "30208", byField["used_size_bytes"])

	// Non-FAT32 layout: the FAT32-only fields must not appear.
	_, hasRootCluster := byField["root_cluster"]
	assert.False(t, hasRootCluster)
}

func TestBuildEvidenceRowsIncludesFAT32OnlyFieldsWhenApplicable(t *testing.T) {
	boot := &bpb.BPB{
		BytesPerSector:    512,
		SectorsPerCluster: 8,
		ReservedSectors:   32,
		NumberOfFATs:      2,
		TotalSectors32:    1000000,
		FATSize16:         0,
		FATSize32:         7000,
		RootCluster:       2,
		FSInfoSector:      1,
		BackupBootSector:  6,
	}

	rows := shell.BuildEvidenceRows(boot, bpb.FAT32, 0, 0, 0)

	byField := make(map[string]string, len(rows))
	for _, r := range rows {
		byField[r.Field] = r.Value
	}

	assert.Equal(t, "2", byField["root_cluster"])
	assert.Equal(t, "1", byField["fs_info_sector"])
	assert.Equal(t, "6", byField["backup_boot_sector"])
}

func TestRenderEvidenceCSVProducesAHeaderAndOneDataRowPerField(t *testing.T) {
	rows := []shell.EvidenceRow{
		{Field: "fat_variant", Value: "FAT12"},
		{Field: "bytes_per_sector", Value: "512"},
	}

	csvText, err := shell.RenderEvidenceCSV(rows)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(csvText, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "field,value", lines[0])
	assert.Equal(t, "fat_variant,FAT12", lines[1])
	assert.Equal(t, "bytes_per_sector,512", lines[2])
}
