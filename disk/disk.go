// Package disk implements the virtual disk: a fixed-size byte buffer
// partitioned into a File Allocation Table and a cluster data region, in the
// same spirit as disko's drivers/common.BlockStream and ClusterStream, but
// collapsed into a single type since this simulation has exactly one disk
// layout to support.
package disk

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/xaionaro-go/bytesextra"

	ferr "github.com/kjhartley/gofat32/errors"
)

// ClusterAddress is a 32-bit FAT slot value. The low 28 bits are the cluster
// index; the high 4 bits are reserved and must survive a read-modify-write
// unmodified.
type ClusterAddress uint32

const indexMask ClusterAddress = 0x0FFFFFFF
const reservedMask ClusterAddress = 0xF0000000

// Null is the FAT value meaning "no cluster allocated".
const Null ClusterAddress = 0

// EOC is the FAT value meaning "this cluster is the last in its chain".
const EOC ClusterAddress = 0x0FFFFFFF

// RootIndex is the cluster index reserved for the root directory.
const RootIndex = 1

// entrySize is the width of one FAT slot, in bytes.
const entrySize = 4

// Index returns the 28-bit cluster index encoded in the address.
func (a ClusterAddress) Index() uint32 {
	return uint32(a & indexMask)
}

// IsNull reports whether the address' index marks a free FAT slot.
func (a ClusterAddress) IsNull() bool {
	return a.Index() == uint32(Null)
}

// IsEOC reports whether the address' index is the end-of-chain marker.
func (a ClusterAddress) IsEOC() bool {
	return a.Index() == uint32(EOC)
}

// AddressFromIndex builds a ClusterAddress with no reserved bits set.
func AddressFromIndex(index uint32) ClusterAddress {
	return ClusterAddress(index) & indexMask
}

// Disk owns the virtual disk's backing buffer. It's sized at construction
// time: ClusterCount FAT entries of 4 bytes each, followed by ClusterCount
// clusters of ClusterBytes payload bytes each.
type Disk struct {
	ClusterBytes uint32
	ClusterCount uint32

	fatRegionSize uint32
	stream        io.ReadWriteSeeker
}

// New allocates a zero-filled disk image of the given geometry. It does not
// initialize the FAT or root directory; call allocator.Allocator.Init for
// that.
func New(clusterBytes, clusterCount uint32) (*Disk, error) {
	if clusterBytes == 0 || clusterCount < 2 {
		return nil, ferr.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"need at least 1 cluster byte and 2 clusters, got %d/%d",
				clusterBytes, clusterCount))
	}

	fatRegionSize := clusterCount * entrySize
	totalSize := fatRegionSize + clusterCount*clusterBytes
	buffer := make([]byte, totalSize)

	return &Disk{
		ClusterBytes:  clusterBytes,
		ClusterCount:  clusterCount,
		fatRegionSize: fatRegionSize,
		stream:        bytesextra.NewReadWriteSeeker(buffer),
	}, nil
}

// checkIndex bounds-checks a cluster index against the disk's geometry.
func (d *Disk) checkIndex(index uint32) error {
	if index >= d.ClusterCount {
		return ferr.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("cluster index %d not in [0, %d)", index, d.ClusterCount))
	}
	return nil
}

func (d *Disk) fatOffset(index uint32) int64 {
	return int64(index) * entrySize
}

func (d *Disk) dataOffset(index uint32) int64 {
	return int64(d.fatRegionSize) + int64(index)*int64(d.ClusterBytes)
}

// FATGet reads the raw 32-bit FAT slot for the given cluster index,
// including any reserved high bits.
func (d *Disk) FATGet(index uint32) (ClusterAddress, error) {
	if err := d.checkIndex(index); err != nil {
		return 0, err
	}

	if _, err := d.stream.Seek(d.fatOffset(index), io.SeekStart); err != nil {
		return 0, err
	}

	raw := make([]byte, entrySize)
	if _, err := io.ReadFull(d.stream, raw); err != nil {
		return 0, err
	}

	return ClusterAddress(binary.LittleEndian.Uint32(raw)), nil
}

// FATSet writes the given 28-bit index into the FAT slot for `index`,
// preserving whatever reserved bits were already on disk.
func (d *Disk) FATSet(index uint32, newIndex ClusterAddress) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}

	existing, err := d.FATGet(index)
	if err != nil {
		return err
	}

	updated := (existing & reservedMask) | (newIndex & indexMask)

	raw := make([]byte, entrySize)
	binary.LittleEndian.PutUint32(raw, uint32(updated))

	if _, err := d.stream.Seek(d.fatOffset(index), io.SeekStart); err != nil {
		return err
	}
	_, err = d.stream.Write(raw)
	return err
}

// ReadCluster returns a copy of the payload bytes of the given cluster.
func (d *Disk) ReadCluster(index uint32) ([]byte, error) {
	if err := d.checkIndex(index); err != nil {
		return nil, err
	}

	if _, err := d.stream.Seek(d.dataOffset(index), io.SeekStart); err != nil {
		return nil, err
	}

	buffer := make([]byte, d.ClusterBytes)
	if _, err := io.ReadFull(d.stream, buffer); err != nil {
		return nil, err
	}
	return buffer, nil
}

// ReadClusterByte reads a single byte at `offset` within the given cluster.
func (d *Disk) ReadClusterByte(index uint32, offset uint32) (byte, error) {
	if err := d.checkIndex(index); err != nil {
		return 0, err
	}
	if offset >= d.ClusterBytes {
		return 0, ferr.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("cluster offset %d not in [0, %d)", offset, d.ClusterBytes))
	}

	if _, err := d.stream.Seek(d.dataOffset(index)+int64(offset), io.SeekStart); err != nil {
		return 0, err
	}
	var buf [1]byte
	if _, err := io.ReadFull(d.stream, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// WriteClusterByte writes a single byte at `offset` within the given
// cluster.
func (d *Disk) WriteClusterByte(index uint32, offset uint32, value byte) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}
	if offset >= d.ClusterBytes {
		return ferr.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("cluster offset %d not in [0, %d)", offset, d.ClusterBytes))
	}

	if _, err := d.stream.Seek(d.dataOffset(index)+int64(offset), io.SeekStart); err != nil {
		return err
	}
	_, err := d.stream.Write([]byte{value})
	return err
}

// ZeroCluster overwrites an entire cluster's payload with zero bytes.
func (d *Disk) ZeroCluster(index uint32) error {
	if err := d.checkIndex(index); err != nil {
		return err
	}

	if _, err := d.stream.Seek(d.dataOffset(index), io.SeekStart); err != nil {
		return err
	}
	_, err := d.stream.Write(make([]byte, d.ClusterBytes))
	return err
}
