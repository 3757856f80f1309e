package fat

// Chain walks the cluster chain starting at start and returns every cluster
// visited, in order, including start itself. It stops at the first
// end-of-chain marker or a 0 entry (both normal terminators per spec.md
// §4.6), or when it would exceed the number of clusters the volume can
// possibly have — the defensive termination spec.md §9's Design Notes call
// for, since a cyclic FAT (or one crafted to be) would otherwise loop the
// walker forever.
//
// Grounded on file_systems/fat/driverbase.go's listClusters, which walks the
// chain the same way but without a visited-cluster bound; that bound is
// this package's addition per the Design Notes.
func (t *Table) Chain(start uint32) ([]uint32, error) {
	if !t.IsValidCluster(start) {
		return nil, ErrInvalidCluster(start)
	}

	maxLinks := t.totalClusters + 1
	chain := make([]uint32, 0, 8)
	visited := make(map[uint32]bool, 8)

	cluster := start
	for {
		if visited[cluster] {
			return nil, ErrCyclicChain(cluster)
		}
		visited[cluster] = true
		chain = append(chain, cluster)

		if uint64(len(chain)) > maxLinks {
			return nil, ErrCyclicChain(cluster)
		}

		next := t.Entry(uint64(cluster))
		if next == 0 || t.IsEndOfChain(next) {
			// A 0 entry is a normal terminator per spec.md §4.6, not
			// corruption: the original source's cluster-walking loops
			// (read_file, root-dir build, subdirectory build) all stop
			// silently on 0 as well as on the variant's EOC constant.
			return chain, nil
		}
		if !t.IsValidCluster(next) {
			return nil, ErrInvalidCluster(next)
		}
		cluster = next
	}
}
