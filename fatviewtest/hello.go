// Package fatviewtest builds synthetic in-memory FAT12 images for tests,
// the same fixture spec.md §8's end-to-end scenarios describe: a root
// directory containing "dir1/", which contains "greet.txt" holding
// "hello\n".
//
// Grounded on testing/images.go's pattern of wrapping a raw byte buffer
// with bytesextra.NewReadWriteSeeker for use as an io.ReadWriteSeeker in
// tests.
package fatviewtest

import (
	"encoding/binary"

	"github.com/xaionaro-go/bytesextra"

	"github.com/ldson/fatview"
	"github.com/ldson/fatview/sectorio"
)

const (
	bytesPerSector    = 512
	sectorsPerCluster = 1
	reservedSectors   = 1
	numberOfFATs      = 1
	rootEntryCount    = 16
	totalSectors      = 64
	fatSizeSectors    = 1

	// Derived per spec.md §3, for a volume shaped exactly like this.
	firstFATSector     = reservedSectors
	rootDirSectors     = 1 // ceil(16*32/512)
	firstRootDirSector = firstFATSector + numberOfFATs*fatSizeSectors
	firstDataSector    = firstRootDirSector + rootDirSectors

	dirCluster  = 2 // holds dir1's own directory entries
	fileCluster = 3 // holds greet.txt's content

	greetContents = "hello\n"
)

// HelloImage returns the raw bytes of the fixture image described above.
func HelloImage() []byte {
	img := make([]byte, totalSectors*bytesPerSector)

	writeBootSector(img)
	writeFAT(img)
	writeRootDirectory(img)
	writeDir1Directory(img)
	writeGreetFile(img)

	return img
}

// Mount builds the fixture image in memory and mounts it, without ever
// touching the filesystem — the entry point fatview tests use.
func Mount(mode fatview.MountMode) (*fatview.Mount, error) {
	image := HelloImage()
	seeker := bytesextra.NewReadWriteSeeker(image)
	handle := sectorio.WrapSeeker(seeker)
	return fatview.MountFromHandle(mode, handle, sectorio.Size512)
}

func sector(img []byte, i int) []byte {
	return img[i*bytesPerSector : (i+1)*bytesPerSector]
}

func writeBootSector(img []byte) {
	s := sector(img, 0)
	le := binary.LittleEndian

	le.PutUint16(s[11:13], bytesPerSector)
	s[13] = sectorsPerCluster
	le.PutUint16(s[14:16], reservedSectors)
	s[16] = numberOfFATs
	le.PutUint16(s[17:19], rootEntryCount)
	le.PutUint16(s[19:21], totalSectors)
	s[21] = 0xF8 // fixed disk media type
	le.PutUint16(s[22:24], fatSizeSectors)
	le.PutUint16(s[24:26], 0) // sectors_per_track
	le.PutUint16(s[26:28], 0) // number_of_heads
	le.PutUint32(s[28:32], 0) // hidden_sectors
	le.PutUint32(s[32:36], 0) // total_sectors_32 (unused: 16-bit form is set)

	// Tail fields at base 36 (FAT12/16 layout).
	s[36] = 0    // drive_number
	s[37] = 0    // reserved1
	s[38] = 0x29 // boot_signature
	le.PutUint32(s[39:43], 0x12345678)
	copy(s[43:54], "FATVIEWTEST")
	copy(s[54:62], "FAT12   ")
}

// setFAT12Entry writes value into the 12-bit FAT12 entry for cluster,
// preserving whichever neighboring nibble shares a byte with it — the
// inverse of fat.Table.Entry's FAT12 decode in §4.5.
func setFAT12Entry(fatBuf []byte, cluster uint32, value uint16) {
	offset := cluster + cluster/2
	cur := binary.LittleEndian.Uint16(fatBuf[offset : offset+2])
	if cluster&1 != 0 {
		cur = (cur & 0x000F) | (value << 4)
	} else {
		cur = (cur & 0xF000) | (value & 0x0FFF)
	}
	binary.LittleEndian.PutUint16(fatBuf[offset:offset+2], cur)
}

func writeFAT(img []byte) {
	fatBuf := img[firstFATSector*bytesPerSector : (firstFATSector+fatSizeSectors)*bytesPerSector]

	// Clusters 0 and 1 hold the media descriptor and a fixed EOC marker,
	// by FAT convention; their values are never consulted by the decoder.
	setFAT12Entry(fatBuf, 0, 0x0FF8)
	setFAT12Entry(fatBuf, 1, 0x0FFF)

	setFAT12Entry(fatBuf, dirCluster, 0x0FFF)
	setFAT12Entry(fatBuf, fileCluster, 0x0FFF)
}

// writeDirent writes one 32-byte directory entry at entryIndex within
// sectorBuf (which must be exactly one sector), per spec.md §4.7's layout.
func writeDirent(sectorBuf []byte, entryIndex int, name string, attrs uint8, firstCluster uint32, size uint32) {
	const entrySize = 32
	e := sectorBuf[entryIndex*entrySize : (entryIndex+1)*entrySize]
	for i := range e {
		e[i] = 0
	}

	nameField := []byte("        ") // 8 spaces
	extField := []byte("   ")       // 3 spaces
	base := name
	ext := ""
	if name != "." && name != ".." {
		for i, c := range name {
			if c == '.' {
				base, ext = name[:i], name[i+1:]
				break
			}
		}
	}
	copy(nameField, base)
	copy(extField, ext)

	copy(e[0:8], nameField)
	copy(e[8:11], extField)
	e[11] = attrs

	le := binary.LittleEndian
	le.PutUint16(e[20:22], uint16(firstCluster>>16))
	le.PutUint16(e[26:28], uint16(firstCluster&0xFFFF))
	le.PutUint32(e[28:32], size)
}

func writeRootDirectory(img []byte) {
	s := sector(img, firstRootDirSector)
	writeDirent(s, 0, "DIR1", 0x10, dirCluster, 0)
}

func writeDir1Directory(img []byte) {
	clusterSector := firstDataSector + (dirCluster - 2)
	s := sector(img, clusterSector)
	writeDirent(s, 0, ".", 0x10, dirCluster, 0)
	writeDirent(s, 1, "..", 0x10, 0, 0)
	writeDirent(s, 2, "GREET.TXT", 0x20, fileCluster, uint32(len(greetContents)))
}

func writeGreetFile(img []byte) {
	clusterSector := firstDataSector + (fileCluster - 2)
	s := sector(img, clusterSector)
	copy(s, greetContents)
}
