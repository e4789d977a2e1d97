package dirent_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kjhartley/gofat32/dirent"
	"github.com/kjhartley/gofat32/disk"
)

func TestPackUnpackDate_RoundTrip(t *testing.T) {
	when := time.Date(2024, time.March, 17, 0, 0, 0, 0, time.UTC)
	packed := dirent.PackDate(when)
	year, month, day := dirent.UnpackDate(packed)
	assert.Equal(t, 2024, year)
	assert.Equal(t, 3, month)
	assert.Equal(t, 17, day)
}

func TestPackUnpackTime_RoundTrip(t *testing.T) {
	when := time.Date(2024, time.March, 17, 13, 45, 30, 0, time.UTC)
	packed := dirent.PackTime(when)
	hour, minute, second := dirent.UnpackTime(packed)
	assert.Equal(t, 13, hour)
	assert.Equal(t, 45, minute)
	// Seconds are stored in 2-second resolution.
	assert.Equal(t, 30, second)
}

func TestPackTime_OddSecondRoundsDown(t *testing.T) {
	when := time.Date(2024, time.March, 17, 13, 45, 31, 0, time.UTC)
	packed := dirent.PackTime(when)
	_, _, second := dirent.UnpackTime(packed)
	assert.Equal(t, 30, second)
}

func TestRawEncodeDecode_RoundTrip(t *testing.T) {
	raw := dirent.Raw{
		Name:             [8]byte{'A', 'B', 'C', ' ', ' ', ' ', ' ', ' '},
		Ext:              [3]byte{'T', 'X', 'T'},
		Attribs:          0x10,
		CreateTime:       dirent.PackTime(time.Date(2024, 1, 2, 3, 4, 6, 0, time.UTC)),
		CreateDate:       dirent.PackDate(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
		LastAccessDate:   dirent.PackDate(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)),
		LastModifiedTime: dirent.PackTime(time.Date(2024, 1, 4, 5, 6, 8, 0, time.UTC)),
		LastModifiedDate: dirent.PackDate(time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)),
		Size:             123,
	}
	raw.SetAddress(disk.AddressFromIndex(0x0ABCDEF))

	encoded := raw.Encode()
	assert.Len(t, encoded, dirent.Size)

	decoded := dirent.Decode(encoded)
	assert.Equal(t, raw, decoded)
	assert.Equal(t, disk.AddressFromIndex(0x0ABCDEF), decoded.Address())
}

func TestRaw_IsDeleted(t *testing.T) {
	var raw dirent.Raw
	assert.True(t, raw.IsDeleted())

	raw.Name[0] = 'A'
	assert.False(t, raw.IsDeleted())
}

func TestRaw_AttributeBits(t *testing.T) {
	raw := dirent.Raw{Attribs: 0x10 | 0x04}
	assert.True(t, raw.IsSubdirectory())
	assert.True(t, raw.IsSystem())

	plain := dirent.Raw{Attribs: 0}
	assert.False(t, plain.IsSubdirectory())
	assert.False(t, plain.IsSystem())
}

func TestEntryToRawFromRaw_RoundTrip(t *testing.T) {
	loc := time.UTC
	created := time.Date(2024, 1, 2, 3, 4, 6, 0, loc)
	modified := time.Date(2024, 1, 5, 7, 8, 10, 0, loc)
	entry := dirent.Entry{
		Name:         [8]byte{'F', 'I', 'L', 'E', ' ', ' ', ' ', ' '},
		Ext:          [3]byte{'T', 'X', 'T'},
		Attribs:      0,
		FirstCluster: disk.AddressFromIndex(42),
		Created:      created,
		LastAccessed: created,
		LastModified: modified,
		Size:         77,
	}

	raw := entry.ToRaw(loc)
	back := dirent.FromRaw(raw, loc)

	assert.Equal(t, entry.Name, back.Name)
	assert.Equal(t, entry.Ext, back.Ext)
	assert.Equal(t, entry.Attribs, back.Attribs)
	assert.Equal(t, entry.FirstCluster, back.FirstCluster)
	assert.Equal(t, entry.Size, back.Size)
	assert.True(t, entry.Created.Equal(back.Created))
	assert.True(t, entry.LastModified.Equal(back.LastModified))
	// LastAccessDate has no on-disk time component; only the date portion
	// round-trips.
	assert.Equal(t, entry.LastAccessed.Year(), back.LastAccessed.Year())
	assert.Equal(t, entry.LastAccessed.Month(), back.LastAccessed.Month())
	assert.Equal(t, entry.LastAccessed.Day(), back.LastAccessed.Day())
}
