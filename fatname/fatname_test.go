package fatname_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kjhartley/gofat32/fatname"
)

func TestParseFormat_RoundTrip(t *testing.T) {
	cases := []string{
		"A",
		"B.TXT",
		"README",
		"ABCDEFGH",
		"ABCDEFGH.TXT",
		"X.Y",
		"lower.txt",
	}

	for _, input := range cases {
		name, ext, err := fatname.Parse(input)
		require.NoError(t, err, input)
		assert.Equal(t, input, fatname.Format(name, ext), "round-trip for %q", input)
	}
}

func TestParse_PadsWithSpaces(t *testing.T) {
	name, ext, err := fatname.Parse("A.B")
	require.NoError(t, err)
	assert.Equal(t, [8]byte{'A', ' ', ' ', ' ', ' ', ' ', ' ', ' '}, name)
	assert.Equal(t, [3]byte{'B', ' ', ' '}, ext)
}

func TestParse_NoExtension(t *testing.T) {
	name, ext, err := fatname.Parse("HELLO")
	require.NoError(t, err)
	assert.Equal(t, [8]byte{'H', 'E', 'L', 'L', 'O', ' ', ' ', ' '}, name)
	assert.Equal(t, [3]byte{' ', ' ', ' '}, ext)
}

func TestParse_RejectsOverlongStemOrExtension(t *testing.T) {
	_, _, err := fatname.Parse("ABCDEFGHI")
	assert.Error(t, err)

	_, _, err = fatname.Parse("A.TXTX")
	assert.Error(t, err)
}

func TestParse_RejectsEmptyAndDeletedMarker(t *testing.T) {
	_, _, err := fatname.Parse("")
	assert.Error(t, err)

	_, _, err = fatname.Parse("\x00BC")
	assert.Error(t, err)
}

func TestFormat_OmitsDotWhenExtensionBlank(t *testing.T) {
	name, ext, err := fatname.Parse("NOEXT")
	require.NoError(t, err)
	assert.NotContains(t, fatname.Format(name, ext), ".")
}

func TestCompare_IsByteExact(t *testing.T) {
	nameA, extA, err := fatname.Parse("SAME.TXT")
	require.NoError(t, err)
	nameB, extB, err := fatname.Parse("same.txt")
	require.NoError(t, err)

	assert.True(t, fatname.Compare(nameA, extA, nameA, extA))
	assert.False(t, fatname.Compare(nameA, extA, nameB, extB), "no case folding")
}
