// Package fatname converts between a user-visible "NAME[.EXT]" string and
// the fixed-width, space-padded 8.3 form stored in a directory entry. It
// preserves bytes verbatim: no case folding, matching the byte-exact
// behavior of disko's fat8.FilenameToBytes/BytesToFilename, though the
// splitting rule here follows willcassella/FAT32-System-Browser's
// FAT32_dir_set_entry_name (split at the first '.') rather than the
// teacher's own SplitN-based approach.
package fatname

import (
	"fmt"

	ferr "github.com/kjhartley/gofat32/errors"
)

// MaxFormattedLen is the size of buffer needed to hold a formatted
// "NAME.EXT" string plus its null terminator (FAT32_DIR_NAME_LEN in the
// original source): 8 + 1 + 3 + 1.
const MaxFormattedLen = 13

// Parse splits a "NAME[.EXT]" string at its first '.' into the space-padded
// 8-byte name and 3-byte extension fields. A stem longer than 8 characters
// or an extension longer than 3 is rejected with ErrNameTooLong; it is not
// truncated. Both fields are right-padded with spaces.
func Parse(path string) (name [8]byte, ext [3]byte, err error) {
	for i := range name {
		name[i] = ' '
	}
	for i := range ext {
		ext[i] = ' '
	}

	if len(path) == 0 {
		return name, ext, ferr.ErrInvalidArgument.WithMessage("name must not be empty")
	}
	if path[0] == 0x00 {
		return name, ext, ferr.ErrInvalidArgument.WithMessage(
			"name must not start with the deleted-entry marker 0x00")
	}

	stem := path
	var extension string
	for i, c := range path {
		if c == '.' {
			stem = path[:i]
			extension = path[i+1:]
			break
		}
	}

	if len(stem) > len(name) {
		return name, ext, ferr.ErrNameTooLong.WithMessage(
			fmt.Sprintf("stem %q is longer than %d characters", stem, len(name)))
	}
	if len(extension) > len(ext) {
		return name, ext, ferr.ErrNameTooLong.WithMessage(
			fmt.Sprintf("extension %q is longer than %d characters", extension, len(ext)))
	}

	copy(name[:], stem)
	copy(ext[:], extension)
	return name, ext, nil
}

// Format reassembles the user-visible "NAME[.EXT]" string from a padded
// 8-byte name and 3-byte extension. Trailing spaces are trimmed from each
// field; the '.' separator is omitted entirely when the extension is blank.
func Format(name [8]byte, ext [3]byte) string {
	out := trimTrailingSpace(name[:])
	if ext[0] != ' ' {
		out = append(out, '.')
		out = append(out, trimTrailingSpace(ext[:])...)
	}
	return string(out)
}

// Compare performs a byte-exact comparison of two padded name/extension
// pairs, with no case folding.
func Compare(nameA [8]byte, extA [3]byte, nameB [8]byte, extB [3]byte) bool {
	return nameA == nameB && extA == extB
}

func trimTrailingSpace(field []byte) []byte {
	end := len(field)
	for end > 0 && field[end-1] == ' ' {
		end--
	}
	out := make([]byte, end)
	copy(out, field[:end])
	return out
}
