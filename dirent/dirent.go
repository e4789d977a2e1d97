// Package dirent implements the 32-byte on-disk directory entry record:
// encoding/decoding, the packed date/time fields, and the user-friendly
// Entry view built on top, in the manner of disko's drivers/fat.RawDirent
// and Dirent types (drivers/fat/dirent.go), adapted to this system's own
// field layout and timestamp packing.
package dirent

import (
	"encoding/binary"
	"time"

	"github.com/kjhartley/gofat32"
	"github.com/kjhartley/gofat32/disk"
)

// Size is the width of one directory entry record, in bytes.
const Size = 32

// Raw is the on-disk representation of a directory entry, broken down into
// its constituent fields in declaration order.
type Raw struct {
	Name                  [8]byte
	Ext                   [3]byte
	Attribs               uint8
	Reserved              uint8
	CreateTimeFine        uint8
	CreateTime            uint16
	CreateDate            uint16
	LastAccessDate        uint16
	FirstClusterIndexHigh uint16
	LastModifiedTime      uint16
	LastModifiedDate      uint16
	FirstClusterIndexLow  uint16
	Size                  uint32
}

// IsDeleted reports whether the slot is free, i.e. its first name byte is
// the deleted-entry marker 0x00.
func (r *Raw) IsDeleted() bool {
	return r.Name[0] == 0x00
}

// Address assembles the 28-bit cluster address from the entry's high/low
// halves.
func (r *Raw) Address() disk.ClusterAddress {
	return disk.AddressFromIndex(
		(uint32(r.FirstClusterIndexHigh) << 16) | uint32(r.FirstClusterIndexLow))
}

// SetAddress splits a cluster address into the entry's high/low halves.
func (r *Raw) SetAddress(address disk.ClusterAddress) {
	index := address.Index()
	r.FirstClusterIndexHigh = uint16(index >> 16)
	r.FirstClusterIndexLow = uint16(index & 0xFFFF)
}

// IsSubdirectory reports whether the SUBDIRECTORY attribute bit is set.
func (r *Raw) IsSubdirectory() bool {
	return gofat32.IsSubdirectory(r.Attribs)
}

// IsSystem reports whether the SYSTEM attribute bit is set.
func (r *Raw) IsSystem() bool {
	return gofat32.IsSystem(r.Attribs)
}

// Encode serializes the entry into exactly Size bytes, little-endian.
func (r *Raw) Encode() []byte {
	buf := make([]byte, Size)
	copy(buf[0:8], r.Name[:])
	copy(buf[8:11], r.Ext[:])
	buf[11] = r.Attribs
	buf[12] = r.Reserved
	buf[13] = r.CreateTimeFine
	binary.LittleEndian.PutUint16(buf[14:16], r.CreateTime)
	binary.LittleEndian.PutUint16(buf[16:18], r.CreateDate)
	binary.LittleEndian.PutUint16(buf[18:20], r.LastAccessDate)
	binary.LittleEndian.PutUint16(buf[20:22], r.FirstClusterIndexHigh)
	binary.LittleEndian.PutUint16(buf[22:24], r.LastModifiedTime)
	binary.LittleEndian.PutUint16(buf[24:26], r.LastModifiedDate)
	binary.LittleEndian.PutUint16(buf[26:28], r.FirstClusterIndexLow)
	binary.LittleEndian.PutUint32(buf[28:32], r.Size)
	return buf
}

// Decode deserializes exactly Size bytes into a Raw entry.
func Decode(buf []byte) Raw {
	var r Raw
	copy(r.Name[:], buf[0:8])
	copy(r.Ext[:], buf[8:11])
	r.Attribs = buf[11]
	r.Reserved = buf[12]
	r.CreateTimeFine = buf[13]
	r.CreateTime = binary.LittleEndian.Uint16(buf[14:16])
	r.CreateDate = binary.LittleEndian.Uint16(buf[16:18])
	r.LastAccessDate = binary.LittleEndian.Uint16(buf[18:20])
	r.FirstClusterIndexHigh = binary.LittleEndian.Uint16(buf[20:22])
	r.LastModifiedTime = binary.LittleEndian.Uint16(buf[22:24])
	r.LastModifiedDate = binary.LittleEndian.Uint16(buf[24:26])
	r.FirstClusterIndexLow = binary.LittleEndian.Uint16(buf[26:28])
	r.Size = binary.LittleEndian.Uint32(buf[28:32])
	return r
}

// PackDate encodes a time.Time's year/month/day into the 16-bit packed
// form: year-1980 in the high 7 bits, month in the next 4, day in the low 5.
func PackDate(t time.Time) uint16 {
	year := uint16(t.Year()-1980) & 0x7F
	month := uint16(t.Month()) & 0x0F
	day := uint16(t.Day()) & 0x1F
	return (year << 9) | (month << 5) | day
}

// UnpackDate decodes the packed date into year, month, day.
func UnpackDate(v uint16) (year, month, day int) {
	day = int(v & 0x1F)
	month = int((v >> 5) & 0x0F)
	year = 1980 + int(v>>9)
	return
}

// PackTime encodes a time.Time's hour/minute/second into the 16-bit packed
// form: hours in the high 5 bits, minutes in the next 6, seconds/2 in the
// low 5.
func PackTime(t time.Time) uint16 {
	hours := uint16(t.Hour()) & 0x1F
	minutes := uint16(t.Minute()) & 0x3F
	seconds := uint16(t.Second()/2) & 0x1F
	return (hours << 11) | (minutes << 5) | seconds
}

// UnpackTime decodes the packed time into hour, minute, and (doubled)
// second.
func UnpackTime(v uint16) (hour, minute, second int) {
	second = int(v&0x1F) * 2
	minute = int((v >> 5) & 0x3F)
	hour = int(v >> 11)
	return
}

// Timestamp reassembles a packed date/time pair into a time.Time in the
// given location.
func Timestamp(datePart, timePart uint16, loc *time.Location) time.Time {
	year, month, day := UnpackDate(datePart)
	hour, minute, second := UnpackTime(timePart)
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, loc)
}
