package gofat32

// Directory entry attribute bits, stored in a single byte at offset 11 of a
// raw directory entry.
const (
	// AttrReadOnly is the read-only bit. It is stored but not enforced:
	// OpenEntry and the shell's write still modify such entries.
	AttrReadOnly = 0x01
	// AttrHidden is the hidden bit. It is stored but not acted on:
	// ListEntries and the shell's ls still list such entries.
	AttrHidden = 0x02
	// AttrSystem marks an entry as belonging to the file system itself; it's
	// protected from user removal. Used for the ".." entry of non-root
	// directories.
	AttrSystem = 0x04
	// AttrSubdirectory marks an entry's cluster chain as holding packed
	// directory entries rather than file data. Subdirectories always report
	// a size of 0.
	AttrSubdirectory = 0x10
)

// IsSystem reports whether the SYSTEM bit is set in a raw attribute byte.
func IsSystem(attribs uint8) bool {
	return attribs&AttrSystem != 0
}

// IsSubdirectory reports whether the SUBDIRECTORY bit is set in a raw
// attribute byte.
func IsSubdirectory(attribs uint8) bool {
	return attribs&AttrSubdirectory != 0
}
