package dirtree

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildRawEntry assembles a 32-byte directory entry with the given 8.3 name
// fields, mirroring fatviewtest.writeDirent's layout.
func buildRawEntry(name, ext string, attrs uint8, firstCluster uint32, size uint32) []byte {
	buf := make([]byte, EntrySize)
	for i := 0; i < 8; i++ {
		buf[i] = ' '
	}
	for i := 0; i < 3; i++ {
		buf[8+i] = ' '
	}
	copy(buf[0:8], name)
	copy(buf[8:11], ext)
	buf[11] = attrs
	binary.LittleEndian.PutUint16(buf[26:28], uint16(firstCluster))
	binary.LittleEndian.PutUint16(buf[20:22], uint16(firstCluster>>16))
	binary.LittleEndian.PutUint32(buf[28:32], size)
	return buf
}

func TestDecodeRawEntryNameAndExtension(t *testing.T) {
	e := decodeRawEntry(buildRawEntry("GREET", "TXT", 0x20, 3, 6))
	assert.Equal(t, "greet.txt", e.decodedName())
	assert.Equal(t, Regular, e.nodeType())
	assert.EqualValues(t, 6, e.fileSize)
	assert.EqualValues(t, 3, e.firstCluster(false))
}

func TestDecodedNameWithNoExtension(t *testing.T) {
	e := decodeRawEntry(buildRawEntry("DIR1", "", 0x10, 2, 0))
	assert.Equal(t, "dir1", e.decodedName())
	assert.Equal(t, Directory, e.nodeType())
}

func TestDecodedNameTruncatesTo12Chars(t *testing.T) {
	e := decodeRawEntry(buildRawEntry("LONGNAME", "LONG", 0x20, 0, 0))
	assert.LessOrEqual(t, len(e.decodedName()), 12)
}

func TestIsUnusedAndIsDeleted(t *testing.T) {
	unusedRaw := buildRawEntry("", "", 0, 0, 0)
	unusedRaw[0] = 0x00
	unused := decodeRawEntry(unusedRaw)
	assert.True(t, unused.isUnused())
	assert.False(t, unused.isDeleted())

	deleted := buildRawEntry("GREET", "TXT", 0x20, 3, 6)
	deleted[0] = 0xE5
	e := decodeRawEntry(deleted)
	assert.True(t, e.isDeleted())
	assert.False(t, e.isUnused())
}

func TestIsVolumeLabelCatchesLFNContinuation(t *testing.T) {
	volume := decodeRawEntry(buildRawEntry("NONAME", "", AttrVolumeID, 0, 0))
	assert.True(t, volume.isVolumeLabel())

	lfn := decodeRawEntry(buildRawEntry("whatever", "", AttrLongName, 0, 0))
	assert.True(t, lfn.isVolumeLabel())
}

func TestIsDotEntry(t *testing.T) {
	self := decodeRawEntry(buildRawEntry(".", "", AttrDirectory, 2, 0))
	assert.True(t, self.isDotEntry())

	parent := decodeRawEntry(buildRawEntry("..", "", AttrDirectory, 0, 0))
	assert.True(t, parent.isDotEntry())

	regular := decodeRawEntry(buildRawEntry("GREET", "TXT", 0x20, 3, 6))
	assert.False(t, regular.isDotEntry())
}

func TestFirstClusterCombinesHighAndLowForFAT32(t *testing.T) {
	e := decodeRawEntry(buildRawEntry("BIGFILE", "BIN", 0x20, 0x00020003, 1024))
	assert.EqualValues(t, 0x00020003, e.firstCluster(true))
	assert.EqualValues(t, 0x0003, e.firstCluster(false))
}
