package allocator

import (
	"fmt"

	"github.com/boljen/go-bitmap"
	"github.com/hashicorp/go-multierror"

	ferr "github.com/kjhartley/gofat32/errors"

	"github.com/kjhartley/gofat32/disk"
)

// Validate checks the testable FAT invariants: every
// chain rooted at the given set of starts terminates at EOC within
// ClusterCount steps (acyclicity), and no cluster is visited by more than
// one chain (disjointness). It reports every violation it finds rather than
// stopping at the first one, the same shape disko reserves go-multierror
// for in its bulk validation paths.
func (a *Allocator) Validate(roots []disk.ClusterAddress) error {
	seen := bitmap.New(int(a.Disk.ClusterCount))
	var result *multierror.Error

	for _, root := range roots {
		if root.IsNull() {
			continue
		}

		steps := uint32(0)
		current := root.Index()
		for {
			if steps > a.Disk.ClusterCount {
				result = multierror.Append(result, fmt.Errorf(
					"chain rooted at cluster %d did not terminate within %d steps (cycle?)",
					root.Index(), a.Disk.ClusterCount))
				break
			}

			if seen.Get(int(current)) {
				result = multierror.Append(result, fmt.Errorf(
					"cluster %d is reachable from more than one chain", current))
				break
			}
			seen.Set(int(current), true)

			next, err := a.Disk.FATGet(current)
			if err != nil {
				result = multierror.Append(result, err)
				break
			}
			if next.IsNull() {
				result = multierror.Append(result, fmt.Errorf(
					"chain rooted at cluster %d runs into a free slot at %d",
					root.Index(), current))
				break
			}
			if next.IsEOC() {
				break
			}

			current = next.Index()
			steps++
		}
	}

	if result != nil && result.Len() > 0 {
		return ferr.ErrFileSystemCorrupted.WrapError(result)
	}
	return nil
}

// FreeClusterCount returns the number of FAT slots currently marked free,
// for FSStat-style reporting.
func (a *Allocator) FreeClusterCount() (uint32, error) {
	free := uint32(0)
	for i := uint32(1); i < a.Disk.ClusterCount; i++ {
		slot, err := a.Disk.FATGet(i)
		if err != nil {
			return 0, err
		}
		if slot.IsNull() {
			free++
		}
	}
	return free, nil
}
