package dirtree

import (
	"encoding/binary"
	"strings"
)

// EntrySize is the fixed size of one raw directory entry, in bytes.
const EntrySize = 32

// Attribute bits, per spec.md §4.7.
const (
	AttrReadOnly  uint8 = 0x01
	AttrHidden    uint8 = 0x02
	AttrSystem    uint8 = 0x04
	AttrVolumeID  uint8 = 0x08
	AttrDirectory uint8 = 0x10
	AttrArchive   uint8 = 0x20
	// AttrLongName is the LFN-continuation marker; it is a subset of
	// VolumeID|System|Hidden|ReadOnly so it's caught by the VolumeID skip
	// rule without a dedicated check (0x0F & 0x08 != 0).
	AttrLongName uint8 = 0x0F
)

// rawEntry is a 32-byte directory entry, decoded field-by-field per the
// offsets in spec.md §4 and grounded on
// file_systems/fat/dirent.go's RawDirent/NewRawDirentFromBytes.
type rawEntry struct {
	name             [8]byte
	extension        [3]byte
	attributes       uint8
	createTimeTenths uint8
	createTime       uint16
	createDate       uint16
	lastAccessDate   uint16
	firstClusterHigh uint16
	writeTime        uint16
	writeDate        uint16
	firstClusterLow  uint16
	fileSize         uint32
}

func decodeRawEntry(data []byte) rawEntry {
	le := binary.LittleEndian
	var e rawEntry
	copy(e.name[:], data[0:8])
	copy(e.extension[:], data[8:11])
	e.attributes = data[11]
	e.createTimeTenths = data[13]
	e.createTime = le.Uint16(data[14:16])
	e.createDate = le.Uint16(data[16:18])
	e.lastAccessDate = le.Uint16(data[18:20])
	e.firstClusterHigh = le.Uint16(data[20:22])
	e.writeTime = le.Uint16(data[22:24])
	e.writeDate = le.Uint16(data[24:26])
	e.firstClusterLow = le.Uint16(data[26:28])
	e.fileSize = le.Uint32(data[28:32])
	return e
}

// isUnused reports the "slot free, but keep scanning" rule (byte 0 == 0x00).
func (e rawEntry) isUnused() bool { return e.name[0] == 0x00 }

// isDeleted reports the "slot free, was deleted" rule (byte 0 == 0xE5).
func (e rawEntry) isDeleted() bool { return e.name[0] == 0xE5 }

// isVolumeLabel reports whether the VOLUME_ID bit is set, which also
// catches LFN continuation entries (attributes == 0x0F).
func (e rawEntry) isVolumeLabel() bool { return e.attributes&AttrVolumeID != 0 }

// isDotEntry reports whether this is a "." or ".." self/parent entry,
// identified per spec.md §4.7 by a short name starting with '.' followed
// by a space or a second '.' then a space.
func (e rawEntry) isDotEntry() bool {
	if e.name[0] != '.' {
		return false
	}
	return e.name[1] == ' ' || (e.name[1] == '.' && e.name[2] == ' ')
}

// decodedName reconstructs the lowercased 8.3 name per spec.md §4.7: the
// non-space characters of the 8-byte name, plus, if the extension has any
// non-space character, a dot and the non-space extension characters.
// Truncated to 12 characters.
func (e rawEntry) decodedName() string {
	name := strings.ReplaceAll(string(e.name[:]), " ", "")
	ext := strings.ReplaceAll(string(e.extension[:]), " ", "")

	var full string
	if ext == "" {
		full = name
	} else {
		full = name + "." + ext
	}
	full = strings.ToLower(full)

	if len(full) > 12 {
		full = full[:12]
	}
	return full
}

func (e rawEntry) nodeType() Type {
	switch {
	case e.attributes&AttrVolumeID != 0:
		return VolumeID
	case e.attributes&AttrDirectory != 0:
		return Directory
	default:
		return Regular
	}
}

func (e rawEntry) firstCluster(isFAT32 bool) uint32 {
	if isFAT32 {
		return (uint32(e.firstClusterHigh) << 16) | uint32(e.firstClusterLow)
	}
	return uint32(e.firstClusterLow)
}

// toNode converts a kept raw entry into a Node, leaving the arena links
// zeroed for the caller (Tree.addChild) to fill in.
func (e rawEntry) toNode(isFAT32 bool) Node {
	return Node{
		Name:         e.decodedName(),
		Type:         e.nodeType(),
		Attributes:   e.attributes,
		Size:         e.fileSize,
		FirstCluster: e.firstCluster(isFAT32),
		Created:      DecodeDateTime(e.createDate, e.createTime),
		Modified:     DecodeDateTime(e.writeDate, e.writeTime),
	}
}
