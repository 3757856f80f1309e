// Package fatview is the Filesystem Façade (C9): it wires the layered
// decoder (imageio -> sectorio -> bpb -> fat -> dirtree) into a single
// mount/unmount lifecycle and exposes the read-only operations the shell
// collaborator drives.
//
// Grounded on file_systems/fat/driverbase.go's FATDriver (the wiring shape:
// a thin struct delegating to the lower layers) and disks/disks.go (the
// open-by-path convention), generalized from disko's full read/write API
// down to spec.md §4.9's mount/unmount/read_file/write_file/info surface.
package fatview

import (
	"github.com/hashicorp/go-multierror"

	"github.com/ldson/fatview/bpb"
	"github.com/ldson/fatview/dirtree"
	"github.com/ldson/fatview/errors"
	"github.com/ldson/fatview/fat"
	"github.com/ldson/fatview/imageio"
	"github.com/ldson/fatview/sectorio"
)

// MountMode mirrors imageio.Mode at the façade level, per spec.md §3.
type MountMode = imageio.Mode

const (
	ReadOnly  = imageio.ReadOnly
	ReadWrite = imageio.ReadWrite
)

// MountConfig configures a mount. SectorSize defaults to 512 (the spec's
// default) when zero.
type MountConfig struct {
	ImagePath  string
	Mode       MountMode
	SectorSize sectorio.Size
}

// FilesystemInfo is the result of GetFilesystemInfo, per spec.md §4.9.
type FilesystemInfo struct {
	Variant   bpb.Variant
	TotalSize uint64
	FreeSize  uint64
	UsedSize  uint64
}

// Mount is a live mounted volume: the owned image handle, HAL, parsed BPB,
// derived geometry, loaded FAT table, and materialized node tree, plus a
// cursor into that tree for the "current directory".
type Mount struct {
	mode imageio.Mode

	hal   *sectorio.HAL
	boot  *bpb.BPB
	geom  bpb.Geometry
	table *fat.Table
	tree  *dirtree.Tree

	current uint32
}

// Mount mounts config.ImagePath per spec.md §4.9: initialize the HAL (default
// 512-byte sectors), read and parse the boot sector, derive geometry, load
// the FAT table, build the directory tree, and set current to root.
//
// On any failure, every resource opened so far is released before
// returning; go-multierror aggregates errors encountered while unwinding so
// a failure during cleanup never hides the original mount failure.
func Mount(config MountConfig) (*Mount, error) {
	sectorSize := config.SectorSize
	if sectorSize == 0 {
		sectorSize = sectorio.Size512
	}

	image, err := imageio.Open(config.ImagePath, config.Mode)
	if err != nil {
		return nil, err
	}

	hal, err := sectorio.New(image, sectorSize)
	if err != nil {
		// sectorio.New already closed image on this path.
		return nil, err
	}

	return mountFromHAL(config.Mode, hal)
}

// MountFromHandle mounts against an already-open sector-addressed handle
// instead of a path on disk — the entry point fatviewtest's synthetic
// images use, so tests never need a real ".img" file on the filesystem.
func MountFromHandle(mode MountMode, handle sectorio.ImageHandle, sectorSize sectorio.Size) (*Mount, error) {
	if sectorSize == 0 {
		sectorSize = sectorio.Size512
	}
	hal, err := sectorio.New(handle, sectorSize)
	if err != nil {
		return nil, err
	}
	return mountFromHAL(mode, hal)
}

func mountFromHAL(mode MountMode, hal *sectorio.HAL) (*Mount, error) {
	m := &Mount{mode: mode, hal: hal}

	boot, err := bpb.ReadBootSector(hal)
	if err != nil {
		return nil, m.unwind(err)
	}
	m.boot = boot
	m.geom = bpb.DeriveGeometry(boot)

	table, err := fat.Load(hal, m.geom)
	if err != nil {
		return nil, m.unwind(err)
	}
	m.table = table

	tree, err := dirtree.Build(hal, table, m.geom, boot)
	if err != nil {
		return nil, m.unwind(err)
	}
	m.tree = tree
	m.current = dirtree.RootIndex

	return m, nil
}

// unwind releases every resource this Mount holds and folds any cleanup
// errors together with cause using go-multierror, returning the combined
// error.
func (m *Mount) unwind(cause error) error {
	var result *multierror.Error
	if cause != nil {
		result = multierror.Append(result, cause)
	}
	if m.hal != nil {
		if err := m.hal.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Unmount releases the FAT table, tree, and HAL (which closes the image).
// Idempotent: calling it twice is a no-op on the second call.
func (m *Mount) Unmount() error {
	if m.hal == nil {
		return nil
	}
	err := m.hal.Close()
	m.table = nil
	m.tree = nil
	m.hal = nil
	return err
}

// CurrentNode is a convenience used by the shell's prompt: it is not part
// of the core decoder and performs no I/O.
func (m *Mount) CurrentNode() *dirtree.Node {
	return m.tree.Node(m.current)
}

// CurrentPath renders the absolute path of the current directory.
func (m *Mount) CurrentPath() string {
	return m.tree.Path(m.current)
}

// Mode reports the mount mode, for the shell's prompt (root-mode iff
// ReadWrite, per the original source's middleware_is_root_mode).
func (m *Mount) Mode() MountMode {
	return m.mode
}

// Variant reports the FAT flavor this mount was classified as.
func (m *Mount) Variant() bpb.Variant {
	return m.geom.Variant
}

// BootParameterBlock exposes the decoded BPB, e.g. for the shell's
// `evidence` command.
func (m *Mount) BootParameterBlock() *bpb.BPB {
	return m.boot
}

// ChangeDirectory resolves path against the current directory (or root, if
// absolute) and, if the target is a directory, makes it current.
func (m *Mount) ChangeDirectory(path string) error {
	idx, err := m.tree.Resolve(m.current, path)
	if err != nil {
		return err
	}
	if m.tree.Node(idx).Type != dirtree.Directory {
		return errors.NotADirectory.WithMessagef("not a directory: %s", path)
	}
	m.current = idx
	return nil
}

// List returns the direct children of the current directory.
func (m *Mount) List() []*dirtree.Node {
	children := m.tree.Children(m.current)
	nodes := make([]*dirtree.Node, len(children))
	for i, idx := range children {
		nodes[i] = m.tree.Node(idx)
	}
	return nodes
}

// ReadFile resolves path to a Regular file and returns its full contents
// (spec.md §4.9: read_file, fully materialized rather than streamed, since
// the shell's `cat` always wants the whole file).
func (m *Mount) ReadFile(path string) ([]byte, error) {
	idx, err := m.tree.Resolve(m.current, path)
	if err != nil {
		return nil, err
	}

	node := m.tree.Node(idx)
	if node.Type != dirtree.Regular {
		return nil, errors.NotARegularFile.WithMessagef("not a regular file: %s", path)
	}

	if node.Size == 0 || node.FirstCluster == 0 {
		return []byte{}, nil
	}

	clusters, err := m.table.Chain(node.FirstCluster)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, node.Size)
	sectorBuf := make([]byte, m.geom.BytesPerSector)
	remaining := int64(node.Size)

	for _, c := range clusters {
		if remaining <= 0 {
			break
		}
		sector := m.geom.ClusterToSector(uint64(c))
		for s := uint64(0); s < m.geom.SectorsPerCluster && remaining > 0; s++ {
			if err := m.hal.ReadSector(sector+s, sectorBuf); err != nil {
				return nil, err
			}
			n := int64(len(sectorBuf))
			if n > remaining {
				n = remaining
			}
			out = append(out, sectorBuf[:n]...)
			remaining -= n
		}
	}

	return out, nil
}

// WriteFile is the unimplemented extension point spec.md §4.9 and §9
// describe: in ReadOnly mode it always fails; in ReadWrite mode it reports
// success (returning the would-be size) without performing any I/O. The
// spec does not invent semantics for an actual write path.
func (m *Mount) WriteFile(path string, data []byte) (int, error) {
	if m.mode != ReadWrite {
		return 0, errors.ReadOnlyViolation.WithMessagef("cannot write %s: read-only mount", path)
	}
	return len(data), nil
}

// GetFilesystemInfo reports total/free/used size, per spec.md §4.9: total
// size is every cluster times cluster byte size; free size comes from the
// FAT table's free-cluster bitmap built at mount time.
func (m *Mount) GetFilesystemInfo() FilesystemInfo {
	totalSize := m.geom.TotalClusters * m.geom.BytesPerCluster
	freeSize := m.table.FreeClusterCount() * m.geom.BytesPerCluster
	return FilesystemInfo{
		Variant:   m.geom.Variant,
		TotalSize: totalSize,
		FreeSize:  freeSize,
		UsedSize:  totalSize - freeSize,
	}
}
