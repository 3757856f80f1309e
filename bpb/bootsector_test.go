package bpb_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldson/fatview/bpb"
)

func referenceFAT12Sector() []byte {
	s := make([]byte, 512)
	le := binary.LittleEndian

	le.PutUint16(s[11:13], 512)
	s[13] = 4 // sectors_per_cluster
	le.PutUint16(s[14:16], 1)
	s[16] = 2
	le.PutUint16(s[17:19], 224)
	le.PutUint16(s[19:21], 2880)
	s[21] = 0xF0
	le.PutUint16(s[22:24], 9)
	le.PutUint16(s[24:26], 18)
	le.PutUint16(s[26:28], 2)
	le.PutUint32(s[28:32], 0)
	le.PutUint32(s[32:36], 0)

	s[36] = 0
	s[37] = 0
	s[38] = 0x29
	le.PutUint32(s[39:43], 0xDEADBEEF)
	copy(s[43:54], "NO NAME    ")
	copy(s[54:62], "FAT12   ")
	return s
}

func TestParseDecodesReferenceBPBFieldForField(t *testing.T) {
	b, err := bpb.Parse(referenceFAT12Sector())
	require.NoError(t, err)

	assert.EqualValues(t, 512, b.BytesPerSector)
	assert.EqualValues(t, 4, b.SectorsPerCluster)
	assert.EqualValues(t, 1, b.ReservedSectors)
	assert.EqualValues(t, 2, b.NumberOfFATs)
	assert.EqualValues(t, 224, b.RootEntryCount)
	assert.EqualValues(t, 2880, b.TotalSectors16)
	assert.EqualValues(t, 0xF0, b.MediaType)
	assert.EqualValues(t, 9, b.FATSize16)
	assert.EqualValues(t, 18, b.SectorsPerTrack)
	assert.EqualValues(t, 2, b.NumberOfHeads)
	assert.EqualValues(t, 0x29, b.BootSignature)
	assert.EqualValues(t, 0xDEADBEEF, b.VolumeID)
	assert.False(t, b.IsFAT32Layout())
}

func TestParseRejectsTooShortSector(t *testing.T) {
	_, err := bpb.Parse(make([]byte, 40))
	assert.Error(t, err)
}

func TestParseRejectsBadBytesPerSector(t *testing.T) {
	s := referenceFAT12Sector()
	binary.LittleEndian.PutUint16(s[11:13], 777)
	_, err := bpb.Parse(s)
	assert.Error(t, err)
}

func TestParseRejectsNonPowerOfTwoSectorsPerCluster(t *testing.T) {
	s := referenceFAT12Sector()
	s[13] = 3
	_, err := bpb.Parse(s)
	assert.Error(t, err)
}

func TestParseRejectsBothTotalSectorFieldsSet(t *testing.T) {
	s := referenceFAT12Sector()
	binary.LittleEndian.PutUint32(s[32:36], 2880)
	_, err := bpb.Parse(s)
	assert.Error(t, err)
}

func TestClassifyVariantBoundaries(t *testing.T) {
	assert.Equal(t, bpb.FAT12, bpb.ClassifyVariant(4084))
	assert.Equal(t, bpb.FAT16, bpb.ClassifyVariant(4085))
	assert.Equal(t, bpb.FAT16, bpb.ClassifyVariant(65524))
	assert.Equal(t, bpb.FAT32, bpb.ClassifyVariant(65525))
}

func TestClusterToSectorMapping(t *testing.T) {
	b, err := bpb.Parse(referenceFAT12Sector())
	require.NoError(t, err)
	geom := bpb.DeriveGeometry(b)

	assert.EqualValues(t, 0, geom.ClusterToSector(0))
	assert.EqualValues(t, 0, geom.ClusterToSector(1))
	assert.Equal(t, geom.FirstDataSector, geom.ClusterToSector(2))
	assert.Equal(t, geom.FirstDataSector+geom.SectorsPerCluster, geom.ClusterToSector(3))
}
