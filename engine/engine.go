// Package engine assembles the disk, allocator, stream, and directory
// layers into a single core API: one Engine value owns a disk buffer and
// every operation is a method on it, so multiple engines can coexist in one
// process, the same shape disko's basedriver.DriverImplementation gives its
// own drivers.
package engine

import (
	"fmt"
	"time"
	"unicode"

	"github.com/noxer/bytewriter"

	ferr "github.com/kjhartley/gofat32/errors"

	"github.com/kjhartley/gofat32"
	"github.com/kjhartley/gofat32/directory"
	"github.com/kjhartley/gofat32/dirent"
	"github.com/kjhartley/gofat32/disk"
	"github.com/kjhartley/gofat32/stream"
	"github.com/kjhartley/gofat32/volume"
)

// Engine owns one virtual disk and exposes the full core API over it.
type Engine struct {
	vol *volume.Volume
}

// New constructs a freshly initialized engine of the given cluster geometry,
// using clock for all timestamps.
func New(clusterBytes, clusterCount uint32, clock gofat32.Clock) (*Engine, error) {
	vol, err := volume.New(clusterBytes, clusterCount, clock)
	if err != nil {
		return nil, err
	}
	return &Engine{vol: vol}, nil
}

// Init re-initializes the engine's disk: zeroes the FAT and re-creates the
// root directory. Useful for reusing one Engine value across test cases.
func (e *Engine) Init() error {
	return e.vol.Allocator.Init()
}

// RootAddress returns the root directory's start cluster address.
func (e *Engine) RootAddress() disk.ClusterAddress {
	return e.vol.Allocator.RootAddress()
}

// NewCluster allocates and returns a single fresh, zeroed cluster.
func (e *Engine) NewCluster() (disk.ClusterAddress, error) {
	return e.vol.Allocator.AllocateCluster()
}

// FreeChain frees every cluster in the chain starting at addr.
func (e *Engine) FreeChain(addr disk.ClusterAddress) error {
	return e.vol.Allocator.FreeChain(addr)
}

// OpenStream opens a raw stream over a cluster chain, bypassing the
// directory layer. Most callers want OpenEntry instead.
func (e *Engine) OpenStream(addr disk.ClusterAddress, size uint32) *stream.Stream {
	return stream.Open(e.vol, addr, size)
}

// RootStream opens a stream over the root directory's entries.
func (e *Engine) RootStream() *stream.Stream {
	return stream.Open(e.vol, e.RootAddress(), 0xFFFFFFFF)
}

// OpenDir opens a stream over a subdirectory entry's contents.
func (e *Engine) OpenDir(entry *dirent.Entry) (*stream.Stream, error) {
	if !entry.IsSubdirectory() {
		return nil, ferr.ErrNotADirectory
	}
	return directory.OpenEntry(e.vol, entry), nil
}

// GetEntry looks up name in dir, returning the found entry and a boolean
// reporting whether it exists.
func (e *Engine) GetEntry(dir *stream.Stream, name string) (dirent.Entry, bool, error) {
	return directory.GetEntry(e.vol, dir, name)
}

// GetEntryByAddress looks up the entry in dir whose start cluster matches
// addr.
func (e *Engine) GetEntryByAddress(dir *stream.Stream, addr disk.ClusterAddress) (dirent.Entry, bool, error) {
	return directory.GetEntryByAddress(e.vol, dir, addr)
}

// OpenEntry opens a file handle on entry, per directory.OpenEntry.
func (e *Engine) OpenEntry(entry *dirent.Entry) *stream.Stream {
	return directory.OpenEntry(e.vol, entry)
}

// CloseEntry finalizes a file handle opened by OpenEntry.
func (e *Engine) CloseEntry(entry *dirent.Entry, f *stream.Stream) error {
	return directory.CloseEntry(e.vol, entry, f)
}

// NewEntry creates a new entry named name with the given attributes inside
// dir.
func (e *Engine) NewEntry(dir *stream.Stream, name string, attribs uint8) (dirent.Entry, error) {
	return directory.NewEntry(e.vol, dir, name, attribs)
}

// RemoveEntry removes name from dir, recursively freeing its contents.
func (e *Engine) RemoveEntry(dir *stream.Stream, name string) error {
	return directory.RemoveEntry(e.vol, dir, name)
}

// ClearEntry replaces entry's contents with a single fresh, empty cluster.
func (e *Engine) ClearEntry(entry *dirent.Entry) error {
	return directory.ClearEntry(e.vol, entry)
}

// WriteEntryAt encodes entry and writes it at dir's current position. It's
// the primitive the shell's mkdir uses to author a subdirectory's ".."
// entry directly, bypassing NewEntry's own-cluster allocation (".." has no
// cluster of its own; it points back at the parent).
func (e *Engine) WriteEntryAt(dir *stream.Stream, entry dirent.Entry) error {
	raw := entry.ToRaw(e.vol.Location)
	_, err := dir.Write(raw.Encode())
	return err
}

// Now returns the engine's current clock time.
func (e *Engine) Now() time.Time {
	return e.vol.Now()
}

// ListEntries lists dir's non-deleted entries, optionally omitting the
// protected ".." entry.
func (e *Engine) ListEntries(dir *stream.Stream, skipParent bool) ([]dirent.Entry, error) {
	return directory.ListEntries(e.vol, dir, skipParent)
}

// Validate runs the FAT consistency check (acyclicity, disjointness) over
// every chain reachable from roots.
func (e *Engine) Validate(roots []disk.ClusterAddress) error {
	return e.vol.Allocator.Validate(roots)
}

// FreeClusterCount reports how many clusters remain unallocated.
func (e *Engine) FreeClusterCount() (uint32, error) {
	return e.vol.Allocator.FreeClusterCount()
}

// Stat describes a directory entry for the CLI's `stat` command.
type Stat struct {
	Name         string
	IsDirectory  bool
	Size         uint32
	FirstCluster disk.ClusterAddress
	Created      string
	LastAccessed string
	LastModified string
}

// StatEntry builds a Stat summary for entry.
func (e *Engine) StatEntry(entry dirent.Entry) Stat {
	const layout = "2006-01-02 15:04:05"
	return Stat{
		Name:         entryName(entry),
		IsDirectory:  entry.IsSubdirectory(),
		Size:         entry.Size,
		FirstCluster: entry.FirstCluster,
		Created:      entry.Created.Format(layout),
		LastAccessed: entry.LastAccessed.Format(layout),
		LastModified: entry.LastModified.Format(layout),
	}
}

func entryName(entry dirent.Entry) string {
	ext := entry.Ext
	name := entry.Name
	out := make([]byte, 0, 12)
	for _, b := range name {
		if b == ' ' {
			break
		}
		out = append(out, b)
	}
	if ext[0] != ' ' {
		out = append(out, '.')
		for _, b := range ext {
			if b == ' ' {
				break
			}
			out = append(out, b)
		}
	}
	return string(out)
}

// DumpClusters renders every cluster's FAT slot and raw payload, allocated
// or free, grounded on
// the original FAT32-System-Browser's FAT32_print_disk: control characters
// are blanked so the dump stays readable. It buffers through a
// bytewriter.Writer before returning the assembled text in one piece.
func (e *Engine) DumpClusters() (string, error) {
	clusterCount := e.vol.Disk.ClusterCount
	clusterBytes := e.vol.Disk.ClusterBytes

	// Rough upper bound: a header line plus one rendered byte per payload
	// byte, plus formatting overhead, per cluster.
	capacity := int(clusterCount) * (int(clusterBytes) + 32)
	buf := make([]byte, 0, capacity)
	w := bytewriter.New(buf[:capacity])

	written := 0
	for i := uint32(0); i < clusterCount; i++ {
		addr, err := e.vol.Disk.FATGet(i)
		if err != nil {
			return "", err
		}

		payload, err := e.vol.Disk.ReadCluster(i)
		if err != nil {
			return "", err
		}

		line := fmt.Sprintf("cluster %4d  fat=%08X  |", i, uint32(addr))
		n, err := w.Write([]byte(line))
		if err != nil {
			return "", err
		}
		written += n

		rendered := make([]byte, len(payload))
		for j, b := range payload {
			if unicode.IsControl(rune(b)) {
				rendered[j] = '.'
			} else {
				rendered[j] = b
			}
		}
		n, err = w.Write(rendered)
		if err != nil {
			return "", err
		}
		written += n

		n, err = w.Write([]byte("|\n"))
		if err != nil {
			return "", err
		}
		written += n
	}

	return string(buf[:written]), nil
}
