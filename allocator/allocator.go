// Package allocator owns the FAT and implements the cluster allocation
// policy: a first-fit linear scan, no free list, exactly as disko's
// drivers/common.Allocator does for its bitmap (here the FAT slots
// themselves are the allocation map, so there's no separate bitmap for the
// hot path — see Validate below for where a bitmap does get used).
package allocator

import (
	ferr "github.com/kjhartley/gofat32/errors"

	"github.com/kjhartley/gofat32/disk"
)

// Allocator reserves and frees clusters on a Disk.
type Allocator struct {
	Disk *disk.Disk
}

// New wraps a Disk with an Allocator.
func New(d *disk.Disk) *Allocator {
	return &Allocator{Disk: d}
}

// Init zeroes the FAT and marks the root directory's single cluster as an
// end-of-chain. Call this once on a freshly constructed Disk.
func (a *Allocator) Init() error {
	for i := uint32(0); i < a.Disk.ClusterCount; i++ {
		if err := a.Disk.FATSet(i, disk.Null); err != nil {
			return err
		}
	}

	if err := a.Disk.FATSet(disk.RootIndex, disk.EOC); err != nil {
		return err
	}
	return a.Disk.ZeroCluster(disk.RootIndex)
}

// RootAddress returns the constant address of the root directory's start
// cluster.
func (a *Allocator) RootAddress() disk.ClusterAddress {
	return disk.AddressFromIndex(disk.RootIndex)
}

// AllocateCluster scans the FAT from index 1 upward for the first free
// slot, marks it end-of-chain, zeroes its payload, and returns its address.
// Running out of clusters returns ErrExhausted rather than panicking; the
// Engine and the stream write path pass that error on to their callers.
func (a *Allocator) AllocateCluster() (disk.ClusterAddress, error) {
	for i := uint32(1); i < a.Disk.ClusterCount; i++ {
		slot, err := a.Disk.FATGet(i)
		if err != nil {
			return 0, err
		}
		if !slot.IsNull() {
			continue
		}

		if err := a.Disk.FATSet(i, disk.EOC); err != nil {
			return 0, err
		}
		if err := a.Disk.ZeroCluster(i); err != nil {
			return 0, err
		}
		return disk.AddressFromIndex(i), nil
	}

	return 0, ferr.ErrExhausted
}

// FreeChain walks the chain starting at `start`, setting each visited FAT
// slot to Null, stopping once the end-of-chain marker has been processed.
// A Null start is a no-op. Freeing a chain a second time is undefined
// behavior and must be prevented by the caller.
func (a *Allocator) FreeChain(start disk.ClusterAddress) error {
	if start.IsNull() {
		return nil
	}

	current := start.Index()
	for {
		next, err := a.Disk.FATGet(current)
		if err != nil {
			return err
		}

		if err := a.Disk.FATSet(current, disk.Null); err != nil {
			return err
		}

		if next.IsEOC() {
			return nil
		}
		current = next.Index()
	}
}
