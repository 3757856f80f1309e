package bpb

// Variant is the detected FAT flavor, classified purely from the cluster
// count per spec.md §3.
type Variant int

const (
	FAT12 Variant = iota
	FAT16
	FAT32
)

func (v Variant) String() string {
	switch v {
	case FAT12:
		return "FAT12"
	case FAT16:
		return "FAT16"
	case FAT32:
		return "FAT32"
	default:
		return "unknown"
	}
}

// ClassifyVariant derives the FAT variant from the total cluster count,
// per spec.md §3 and the original source's fat_driver_get_fat_type: the
// thresholds come from Microsoft's FAT documentation and are not ordinary
// round numbers.
func ClassifyVariant(totalClusters uint64) Variant {
	switch {
	case totalClusters < 4085:
		return FAT12
	case totalClusters < 65525:
		return FAT16
	default:
		return FAT32
	}
}

// Geometry holds every derived field from spec.md §3, computed once from a
// BPB and immutable for the lifetime of the mount.
type Geometry struct {
	BytesPerSector     uint64
	SectorsPerCluster  uint64
	BytesPerCluster    uint64
	FirstFATSector     uint64
	RootDirSectors     uint64
	FirstRootDirSector uint64
	FirstDataSector    uint64
	TotalSectors       uint64
	DataSectors        uint64
	TotalClusters      uint64
	FATSizeSectors     uint64
	Variant            Variant
}

// DeriveGeometry computes the Geometry for a parsed BPB, per the formulas in
// spec.md §3.
func DeriveGeometry(b *BPB) Geometry {
	bytesPerSector := uint64(b.BytesPerSector)
	fatSizeSectors := b.FATSizeSectors()
	numFATs := uint64(b.NumberOfFATs)

	firstFATSector := uint64(b.ReservedSectors)

	var rootDirSectors uint64
	if !b.IsFAT32Layout() {
		rootDirSectors = (uint64(b.RootEntryCount)*32 + (bytesPerSector - 1)) / bytesPerSector
	}

	firstRootDirSector := firstFATSector + numFATs*fatSizeSectors

	var firstDataSector uint64
	if b.IsFAT32Layout() {
		firstDataSector = firstFATSector + numFATs*uint64(b.FATSize32)
	} else {
		firstDataSector = firstRootDirSector + rootDirSectors
	}

	totalSectors := b.TotalSectors()
	dataSectors := totalSectors - (firstFATSector + numFATs*fatSizeSectors + rootDirSectors)

	sectorsPerCluster := uint64(b.SectorsPerCluster)
	totalClusters := dataSectors / sectorsPerCluster

	return Geometry{
		BytesPerSector:     bytesPerSector,
		SectorsPerCluster:  sectorsPerCluster,
		BytesPerCluster:    bytesPerSector * sectorsPerCluster,
		FirstFATSector:     firstFATSector,
		RootDirSectors:     rootDirSectors,
		FirstRootDirSector: firstRootDirSector,
		FirstDataSector:    firstDataSector,
		TotalSectors:       totalSectors,
		DataSectors:        dataSectors,
		TotalClusters:      totalClusters,
		FATSizeSectors:     fatSizeSectors,
		Variant:            ClassifyVariant(totalClusters),
	}
}

// ClusterToSector maps a cluster number to its first sector. For c < 2 it
// returns 0, per spec.md §8 property 5 (testable properties).
func (g Geometry) ClusterToSector(c uint64) uint64 {
	if c < 2 {
		return 0
	}
	return g.FirstDataSector + (c-2)*g.SectorsPerCluster
}
