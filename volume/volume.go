// Package volume bundles the disk, allocator, and clock collaborators that
// both the stream and directory layers need, avoiding an import cycle
// between them (directory opens streams which need the allocator to extend
// a chain on write; directory entries need the clock for timestamps). This
// plays the role disko's basedriver.DriverImplementation plays for its own
// drivers: the one shared context object everything else is built on.
package volume

import (
	"time"

	"github.com/kjhartley/gofat32"
	"github.com/kjhartley/gofat32/allocator"
	"github.com/kjhartley/gofat32/disk"
)

// Volume is the shared context for one mounted virtual disk.
type Volume struct {
	Disk      *disk.Disk
	Allocator *allocator.Allocator
	Clock     gofat32.Clock
	Location  *time.Location
}

// New constructs a freshly initialized Volume of the given geometry.
func New(clusterBytes, clusterCount uint32, clock gofat32.Clock) (*Volume, error) {
	d, err := disk.New(clusterBytes, clusterCount)
	if err != nil {
		return nil, err
	}

	a := allocator.New(d)
	if err := a.Init(); err != nil {
		return nil, err
	}

	return &Volume{
		Disk:      d,
		Allocator: a,
		Clock:     clock,
		Location:  time.Local,
	}, nil
}

// Now returns the volume clock's current time, as understood by the
// volume's configured location.
func (v *Volume) Now() time.Time {
	return v.Clock.Now().In(v.Location)
}
