package fat

import "github.com/ldson/fatview/errors"

// ErrInvalidCluster reports a FAT entry that points outside the volume's
// valid cluster range (below 2 or at/above total_clusters+2).
func ErrInvalidCluster(cluster uint32) error {
	return errors.Format.WithMessagef("invalid cluster number %d", cluster)
}

// ErrCyclicChain reports a cluster chain that revisited a cluster it had
// already walked, which can only happen on a corrupt or adversarial FAT.
func ErrCyclicChain(cluster uint32) error {
	return errors.Format.WithMessagef("cluster chain loops back to cluster %d", cluster)
}
