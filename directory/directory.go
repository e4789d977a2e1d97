// Package directory implements directory-file operations: a directory's
// cluster chain is just a stream of 32-byte dirent.Raw records, so lookup,
// insertion, and deletion are all sequential scans over a stream.Stream,
// in the same spirit as disko's drivers/fat directory-enumeration helpers
// but built directly on this package's stream/dirent/fatname primitives.
package directory

import (
	ferr "github.com/kjhartley/gofat32/errors"

	"github.com/kjhartley/gofat32/dirent"
	"github.com/kjhartley/gofat32/disk"
	"github.com/kjhartley/gofat32/fatname"
	"github.com/kjhartley/gofat32/stream"
	"github.com/kjhartley/gofat32/volume"
)

// GetEntry scans dir from the start for a non-deleted entry whose padded 8.3
// name and extension equal `name` as parsed by fatname.Parse (byte-exact, no
// case folding); a name Parse rejects is returned as an error. On a match, the stream is left positioned at the
// start of that entry's record so the caller can overwrite it in place.
// Returns found=false (with the stream positioned at physical end) if no
// entry matches.
func GetEntry(vol *volume.Volume, dir *stream.Stream, name string) (dirent.Entry, bool, error) {
	wantName, wantExt, err := fatname.Parse(name)
	if err != nil {
		return dirent.Entry{}, false, err
	}

	dir.Rewind()
	buf := make([]byte, dirent.Size)
	for {
		n, err := dir.Read(buf)
		if err != nil {
			return dirent.Entry{}, false, err
		}
		if n < dirent.Size {
			return dirent.Entry{}, false, nil
		}

		raw := dirent.Decode(buf)
		if raw.IsDeleted() {
			continue
		}
		if !fatname.Compare(raw.Name, raw.Ext, wantName, wantExt) {
			continue
		}

		if err := dir.Seek(-int64(dirent.Size), stream.SeekCur); err != nil {
			return dirent.Entry{}, false, err
		}
		return dirent.FromRaw(raw, vol.Location), true, nil
	}
}

// GetEntryByAddress scans dir from the start for a non-deleted entry whose
// first-cluster address matches `address`. Unlike GetEntry, the stream is
// left wherever reading stopped; no rewind-to-entry is performed on match.
func GetEntryByAddress(vol *volume.Volume, dir *stream.Stream, address disk.ClusterAddress) (dirent.Entry, bool, error) {
	dir.Rewind()
	buf := make([]byte, dirent.Size)
	for {
		n, err := dir.Read(buf)
		if err != nil {
			return dirent.Entry{}, false, err
		}
		if n < dirent.Size {
			return dirent.Entry{}, false, nil
		}

		raw := dirent.Decode(buf)
		if raw.IsDeleted() {
			continue
		}
		if raw.Address() != address {
			continue
		}
		return dirent.FromRaw(raw, vol.Location), true, nil
	}
}

// ListEntries returns every non-deleted entry in dir, in on-disk order. When
// skipParent is true the SYSTEM ".." entry present in every non-root
// directory is omitted, matching the original FAT32-System-Browser's `ls`
// behavior of seeking past the first entry before listing.
func ListEntries(vol *volume.Volume, dir *stream.Stream, skipParent bool) ([]dirent.Entry, error) {
	dir.Rewind()
	buf := make([]byte, dirent.Size)
	var entries []dirent.Entry
	for {
		n, err := dir.Read(buf)
		if err != nil {
			return nil, err
		}
		if n < dirent.Size {
			break
		}

		raw := dirent.Decode(buf)
		if raw.IsDeleted() {
			continue
		}
		if skipParent && raw.IsSystem() {
			continue
		}
		entries = append(entries, dirent.FromRaw(raw, vol.Location))
	}
	return entries, nil
}

// OpenEntry opens a stream over entry's cluster chain. Subdirectories are
// opened with an effectively unbounded logical size since their growth is
// managed by the allocator rather than a size field. Opening a regular file
// updates entry.LastAccessed via the volume clock; the caller is
// responsible for writing the mutated entry back to its containing
// directory (see GetEntry).
func OpenEntry(vol *volume.Volume, entry *dirent.Entry) *stream.Stream {
	size := entry.Size
	if entry.IsSubdirectory() {
		size = 0xFFFFFFFF
	} else {
		entry.LastAccessed = vol.Now()
	}
	return stream.Open(vol, entry.FirstCluster, size)
}

// CloseEntry finalizes a file handle opened by OpenEntry: for regular
// files, it records the stream's end position as the new entry size; if
// the stream was written to, it updates the modification timestamp. The
// caller must still write the mutated entry back to its directory.
func CloseEntry(vol *volume.Volume, entry *dirent.Entry, f *stream.Stream) error {
	if !entry.IsSubdirectory() {
		if err := f.Seek(0, stream.SeekEnd); err != nil {
			return err
		}
		entry.Size = uint32(f.Tell())
	}
	if f.Modified() {
		entry.LastModified = vol.Now()
	}
	return f.Close()
}

// NewEntry creates a new directory entry named `name` with the given
// attributes, reusing the earliest deleted slot in dir if one exists and
// otherwise appending at the end of the chain (letting the write extend
// it). A fresh cluster is allocated for the entry's contents. The returned
// entry has already been written to dir; dir is left positioned at the
// entry's record.
func NewEntry(vol *volume.Volume, dir *stream.Stream, name string, attribs uint8) (dirent.Entry, error) {
	parsedName, ext, err := fatname.Parse(name)
	if err != nil {
		return dirent.Entry{}, err
	}

	dir.Rewind()
	buf := make([]byte, dirent.Size)
	var insertPos int64
	for {
		pos := dir.Tell()
		n, err := dir.Read(buf)
		if err != nil {
			return dirent.Entry{}, err
		}
		if n < dirent.Size {
			insertPos = pos
			break
		}
		if dirent.Decode(buf).IsDeleted() {
			insertPos = pos
			break
		}
	}

	cluster, err := vol.Allocator.AllocateCluster()
	if err != nil {
		return dirent.Entry{}, err
	}

	now := vol.Now()
	entry := dirent.Entry{
		Name:         parsedName,
		Ext:          ext,
		Attribs:      attribs,
		FirstCluster: cluster,
		Created:      now,
		LastAccessed: now,
		LastModified: now,
		Size:         0,
	}

	if err := dir.Seek(insertPos, stream.SeekSet); err != nil {
		return dirent.Entry{}, err
	}
	raw := entry.ToRaw(vol.Location)
	if _, err := dir.Write(raw.Encode()); err != nil {
		return dirent.Entry{}, err
	}
	if err := dir.Seek(insertPos, stream.SeekSet); err != nil {
		return dirent.Entry{}, err
	}
	return entry, nil
}

// RemoveEntry looks up `name` in dir and, if found and not SYSTEM-protected,
// recursively frees its contents and zeroes its 32-byte record in place
// (leaving every other slot in dir untouched). Returns ErrNotFound or
// ErrProtected as appropriate.
func RemoveEntry(vol *volume.Volume, dir *stream.Stream, name string) error {
	entry, found, err := GetEntry(vol, dir, name)
	if err != nil {
		return err
	}
	if !found {
		return ferr.ErrNotFound
	}
	if entry.IsSystem() {
		return ferr.ErrProtected
	}

	if err := deleteEntry(vol, &entry); err != nil {
		return err
	}

	_, err = dir.Write(make([]byte, dirent.Size))
	return err
}

// ClearEntry recursively frees entry's existing contents and replaces them
// with a single fresh, empty cluster, updating size and modification time.
// The caller must write the mutated entry back to its directory.
func ClearEntry(vol *volume.Volume, entry *dirent.Entry) error {
	if err := deleteEntry(vol, entry); err != nil {
		return err
	}

	cluster, err := vol.Allocator.AllocateCluster()
	if err != nil {
		return err
	}

	entry.Size = 0
	entry.LastModified = vol.Now()
	entry.FirstCluster = cluster
	return nil
}

// deleteEntry recursively frees entry's cluster chain. If entry is a
// subdirectory, every non-deleted, non-SYSTEM child is deleted first (the
// protected ".." entry is skipped, not recursed into). It does not touch
// entry's own on-disk record; callers overwrite or replace that themselves.
func deleteEntry(vol *volume.Volume, entry *dirent.Entry) error {
	if entry.IsSubdirectory() {
		children := stream.Open(vol, entry.FirstCluster, 0xFFFFFFFF)
		buf := make([]byte, dirent.Size)
		for {
			n, err := children.Read(buf)
			if err != nil {
				return err
			}
			if n < dirent.Size {
				break
			}

			raw := dirent.Decode(buf)
			if raw.IsDeleted() {
				continue
			}
			child := dirent.FromRaw(raw, vol.Location)
			if child.IsSystem() {
				continue
			}
			if err := deleteEntry(vol, &child); err != nil {
				return err
			}
		}
		if err := children.Close(); err != nil {
			return err
		}
	}

	return vol.Allocator.FreeChain(entry.FirstCluster)
}
