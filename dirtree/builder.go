package dirtree

import (
	"github.com/ldson/fatview/bpb"
	"github.com/ldson/fatview/errors"
	"github.com/ldson/fatview/fat"
)

// SectorReader is the slice of sectorio.HAL the builder needs: whole-sector
// reads by index.
type SectorReader interface {
	ReadSector(i uint64, buf []byte) error
}

// ChainWalker is the slice of *fat.Table the builder needs: cluster-chain
// enumeration starting at a given cluster.
type ChainWalker interface {
	Chain(start uint32) ([]uint32, error)
}

// builder holds the collaborators and the cross-recursion state needed to
// build the whole tree in one pass.
type builder struct {
	sr      SectorReader
	chains  ChainWalker
	geom    bpb.Geometry
	isFAT32 bool

	// visited guards against the builder's Design Notes-mandated defensive
	// termination: a directory cluster chain is only ever expanded once,
	// even if a corrupt FAT makes two different directory entries point at
	// the same cluster (which would otherwise recurse forever if those
	// clusters also pointed back up the tree).
	visited map[uint32]bool
}

// Build materializes the full file-node tree for a mounted volume (C7).
// sr and chains are the sector and FAT-chain collaborators; geom is the
// derived geometry; boot is the parsed BPB (needed for RootCluster on
// FAT32 volumes).
func Build(sr SectorReader, chains ChainWalker, geom bpb.Geometry, boot *bpb.BPB) (*Tree, error) {
	b := &builder{
		sr:      sr,
		chains:  chains,
		geom:    geom,
		isFAT32: boot.IsFAT32Layout(),
		visited: make(map[uint32]bool),
	}

	var rootData []byte
	var err error
	if b.isFAT32 {
		rootData, err = b.readClusterChain(boot.RootCluster)
	} else {
		rootData, err = b.readSectorRange(geom.FirstRootDirSector, geom.RootDirSectors)
	}
	if err != nil {
		return nil, err
	}

	tree := NewTree()
	if err := b.populate(tree, RootIndex, rootData, false); err != nil {
		return nil, err
	}
	return tree, nil
}

// readSectorRange reads count contiguous sectors starting at first into one
// contiguous buffer. Used for the FAT12/16 fixed-size root directory.
func (b *builder) readSectorRange(first, count uint64) ([]byte, error) {
	buf := make([]byte, count*b.geom.BytesPerSector)
	sectorBuf := make([]byte, b.geom.BytesPerSector)
	for i := uint64(0); i < count; i++ {
		if err := b.sr.ReadSector(first+i, sectorBuf); err != nil {
			return nil, errors.IO.Wrap(err)
		}
		copy(buf[i*b.geom.BytesPerSector:], sectorBuf)
	}
	return buf, nil
}

// readClusterChain reads every cluster in the chain starting at start into
// one contiguous buffer. Used for FAT32 root directories and every
// FAT12/16/32 subdirectory.
func (b *builder) readClusterChain(start uint32) ([]byte, error) {
	if start == 0 {
		return nil, nil
	}

	clusters, err := b.chains.Chain(start)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, uint64(len(clusters))*b.geom.BytesPerCluster)
	clusterBuf := make([]byte, b.geom.BytesPerSector)
	for _, c := range clusters {
		sector := b.geom.ClusterToSector(uint64(c))
		for s := uint64(0); s < b.geom.SectorsPerCluster; s++ {
			if err := b.sr.ReadSector(sector+s, clusterBuf); err != nil {
				return nil, errors.IO.Wrap(err)
			}
			buf = append(buf, clusterBuf...)
		}
	}
	return buf, nil
}

// populate decodes data as a sequence of 32-byte directory entries, adds a
// kept entry as a child of parent, and recurses into any child directory.
// skipDotEntries is true for every level but the root, per spec.md §4.7 ("For
// recursive children (not the root), also skip the . and .. entries").
func (b *builder) populate(tree *Tree, parent uint32, data []byte, skipDotEntries bool) error {
	for offset := 0; offset+EntrySize <= len(data); offset += EntrySize {
		e := decodeRawEntry(data[offset : offset+EntrySize])

		if e.isUnused() {
			// Unused but keep scanning: the source does not stop here and
			// neither do we, per spec.md §4.7.
			continue
		}
		if e.isDeleted() {
			continue
		}
		if e.isVolumeLabel() {
			continue
		}
		if skipDotEntries && e.isDotEntry() {
			continue
		}

		node := e.toNode(b.isFAT32)
		idx := tree.addChild(parent, node)

		if node.Type != Directory {
			continue
		}
		if b.visited[node.FirstCluster] {
			continue
		}
		if node.FirstCluster != 0 {
			b.visited[node.FirstCluster] = true
		}

		childData, err := b.readClusterChain(node.FirstCluster)
		if err != nil {
			return err
		}
		if err := b.populate(tree, idx, childData, true); err != nil {
			return err
		}
	}
	return nil
}

// compile-time assertion that *fat.Table satisfies ChainWalker.
var _ ChainWalker = (*fat.Table)(nil)
