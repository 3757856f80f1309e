package bpb

import "github.com/ldson/fatview/errors"

// SectorReader is the slice of sectorio.HAL that the boot parser needs: read
// one whole sector by index. Declared locally so this package doesn't import
// sectorio, keeping the dependency direction C3 -> (nothing domain-specific)
// the same shape spec.md's component table implies (C3 only needs sector
// reads, not the rest of the HAL's surface).
type SectorReader interface {
	ReadSector(i uint64, buf []byte) error
	SectorSizeBytes() uint32
}

// ReadBootSector reads sector 0 through r and decodes its BPB. Fails if the
// sector cannot be read in full, per spec.md §4.3.
func ReadBootSector(r SectorReader) (*BPB, error) {
	buf := make([]byte, r.SectorSizeBytes())
	if err := r.ReadSector(0, buf); err != nil {
		return nil, errors.Format.Wrap(err)
	}
	return Parse(buf)
}
