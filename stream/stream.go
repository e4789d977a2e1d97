// Package stream implements the cluster-chain file stream: a handle that
// presents a FAT chain as a byte-addressable file with read, write (which
// extends allocation on demand), and seek semantics, in the spirit of
// disko's drivers/common/basicstream.BasicStream but built directly on a
// cluster chain instead of a flat block cache, and with the classic
// fopen/fread/fwrite/fseek short-count contract the original
// FAT32-System-Browser exposes rather than io.Reader/io.Writer (callers pass
// a byte slice, and a short count is the normal way EOF and allocation
// exhaustion are signaled).
package stream

import (
	ferr "github.com/kjhartley/gofat32/errors"

	"github.com/kjhartley/gofat32/disk"
	"github.com/kjhartley/gofat32/volume"
)

// SeekOrigin selects what a Seek offset is relative to. The values follow
// the core API's own contract rather than io.Seek*'s 0/1/2 ordering.
type SeekOrigin int

const (
	SeekSet SeekOrigin = -1
	SeekCur SeekOrigin = 0
	SeekEnd SeekOrigin = 1
)

// Stream is an open handle onto a cluster chain.
type Stream struct {
	vol *volume.Volume

	start         disk.ClusterAddress
	current       disk.ClusterAddress
	chainDistance uint32
	offset        uint32
	size          uint32
	modified      bool
}

// Open creates a handle positioned at the start of the chain beginning at
// `start`. `size` is the logical byte length Read treats as EOF; pass
// 0xFFFFFFFF for directories, whose growth is managed by the allocator
// rather than a size field.
func Open(vol *volume.Volume, start disk.ClusterAddress, size uint32) *Stream {
	return &Stream{
		vol:     vol,
		start:   start,
		current: start,
		size:    size,
	}
}

// Address returns the start cluster address of the stream's chain.
func (s *Stream) Address() disk.ClusterAddress {
	return s.start
}

// Modified reports whether any write has succeeded since the stream was
// opened.
func (s *Stream) Modified() bool {
	return s.modified
}

// Size returns the stream's current logical size in bytes.
func (s *Stream) Size() uint32 {
	return s.size
}

// Tell returns the current byte position relative to the start of the
// chain.
func (s *Stream) Tell() int64 {
	return int64(s.chainDistance)*int64(s.vol.Disk.ClusterBytes) + int64(s.offset)
}

// Rewind resets the stream to the start of its chain. It does not affect
// the modified flag.
func (s *Stream) Rewind() {
	s.current = s.start
	s.chainDistance = 0
	s.offset = 0
}

// Close releases the handle. It does not flush anything — writes are
// already reflected in the disk buffer — and does not free the chain.
func (s *Stream) Close() error {
	return nil
}

// advanceForRead follows the FAT to the next cluster when the intra-cluster
// offset has reached the cluster size. It reports whether a next cluster
// was available; false means physical end-of-chain.
func (s *Stream) advanceForRead() (bool, error) {
	if s.offset < s.vol.Disk.ClusterBytes {
		return true, nil
	}

	next, err := s.vol.Disk.FATGet(s.current.Index())
	if err != nil {
		return false, err
	}
	if next.IsEOC() {
		return false, nil
	}

	s.current = next
	s.chainDistance++
	s.offset = 0
	return true, nil
}

// advanceForWrite is the write-path analogue of advanceForRead: when the
// successor is EOC, it allocates a new cluster and splices it into the
// chain instead of stopping.
func (s *Stream) advanceForWrite() error {
	if s.offset < s.vol.Disk.ClusterBytes {
		return nil
	}

	next, err := s.vol.Disk.FATGet(s.current.Index())
	if err != nil {
		return err
	}

	if next.IsEOC() {
		fresh, err := s.vol.Allocator.AllocateCluster()
		if err != nil {
			return err
		}
		if err := s.vol.Disk.FATSet(s.current.Index(), fresh); err != nil {
			return err
		}
		next = fresh
	}

	s.current = next
	s.chainDistance++
	s.offset = 0
	return nil
}

// Read copies up to len(buffer) bytes from the current position into
// buffer, advancing the position. It stops early at logical EOF or
// physical end-of-chain; the returned count may be less than len(buffer).
func (s *Stream) Read(buffer []byte) (int, error) {
	read := 0
	for read < len(buffer) {
		if s.Tell() >= int64(s.size) {
			break
		}

		ok, err := s.advanceForRead()
		if err != nil {
			return read, err
		}
		if !ok {
			break
		}

		b, err := s.vol.Disk.ReadClusterByte(s.current.Index(), s.offset)
		if err != nil {
			return read, err
		}
		buffer[read] = b
		s.offset++
		read++
	}
	return read, nil
}

// Write copies len(buffer) bytes from buffer into the chain starting at the
// current position, allocating and splicing in new clusters as needed.
// After the write completes, the stream's logical size becomes
// max(size, Tell()).
func (s *Stream) Write(buffer []byte) (int, error) {
	written := 0
	for written < len(buffer) {
		if err := s.advanceForWrite(); err != nil {
			return written, err
		}

		if err := s.vol.Disk.WriteClusterByte(s.current.Index(), s.offset, buffer[written]); err != nil {
			return written, err
		}
		s.offset++
		written++
	}

	s.modified = true
	if tell := s.Tell(); tell > int64(s.size) {
		s.size = uint32(tell)
	}
	return written, nil
}

// seekForward walks forward up to `distance` bytes, clamped at logical EOF
// and at physical end-of-chain. It never extends the chain.
func (s *Stream) seekForward(distance int64) error {
	for distance > 0 && s.Tell() < int64(s.size) {
		s.offset++
		distance--

		if s.offset >= s.vol.Disk.ClusterBytes {
			next, err := s.vol.Disk.FATGet(s.current.Index())
			if err != nil {
				return err
			}
			if next.IsEOC() {
				break
			}
			s.current = next
			s.chainDistance++
			s.offset = 0
		}
	}
	return nil
}

// Seek repositions the stream: SeekSet is relative to the start of the
// chain, SeekCur to the current position, SeekEnd to logical EOF. Forward
// motion never extends the chain (only Write does).
// It returns ErrBadSeekOrigin, with no state change, for any other origin.
func (s *Stream) Seek(offset int64, origin SeekOrigin) error {
	switch origin {
	case SeekSet:
		s.Rewind()
		return s.seekForward(offset)

	case SeekCur:
		if offset >= 0 {
			return s.seekForward(offset)
		}
		target := s.Tell() + offset
		s.Rewind()
		return s.seekForward(target)

	case SeekEnd:
		if err := s.seekForward(int64(s.size)); err != nil {
			return err
		}
		if offset < 0 {
			target := s.Tell() + offset
			s.Rewind()
			return s.seekForward(target)
		}
		return nil

	default:
		return ferr.ErrBadSeekOrigin
	}
}
