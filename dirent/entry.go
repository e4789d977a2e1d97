package dirent

import (
	"time"

	"github.com/kjhartley/gofat32"
	"github.com/kjhartley/gofat32/disk"
)

// Entry is a user-friendly view of a directory entry: the same fields as
// Raw, but with packed dates/times expanded into time.Time values instead
// of raw 16-bit fields, matching the relationship between disko's RawDirent
// and Dirent types (drivers/fat/dirent.go).
type Entry struct {
	Name         [8]byte
	Ext          [3]byte
	Attribs      uint8
	FirstCluster disk.ClusterAddress
	Created      time.Time
	LastAccessed time.Time
	LastModified time.Time
	Size         uint32
}

// IsSubdirectory reports whether the SUBDIRECTORY attribute bit is set.
func (e *Entry) IsSubdirectory() bool {
	return gofat32.IsSubdirectory(e.Attribs)
}

// IsSystem reports whether the SYSTEM attribute bit is set.
func (e *Entry) IsSystem() bool {
	return gofat32.IsSystem(e.Attribs)
}

// ToRaw packs the entry into its on-disk Raw representation, using loc to
// pack the time.Time fields.
func (e *Entry) ToRaw(loc *time.Location) Raw {
	r := Raw{
		Name:             e.Name,
		Ext:              e.Ext,
		Attribs:          e.Attribs,
		CreateTime:       PackTime(e.Created.In(loc)),
		CreateDate:       PackDate(e.Created.In(loc)),
		LastAccessDate:   PackDate(e.LastAccessed.In(loc)),
		LastModifiedTime: PackTime(e.LastModified.In(loc)),
		LastModifiedDate: PackDate(e.LastModified.In(loc)),
		Size:             e.Size,
	}
	r.SetAddress(e.FirstCluster)
	return r
}

// FromRaw expands a Raw on-disk entry into its user-friendly Entry form.
func FromRaw(r Raw, loc *time.Location) Entry {
	return Entry{
		Name:         r.Name,
		Ext:          r.Ext,
		Attribs:      r.Attribs,
		FirstCluster: r.Address(),
		Created:      Timestamp(r.CreateDate, r.CreateTime, loc),
		LastAccessed: Timestamp(r.LastAccessDate, 0, loc),
		LastModified: Timestamp(r.LastModifiedDate, r.LastModifiedTime, loc),
		Size:         r.Size,
	}
}
