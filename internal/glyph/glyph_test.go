package glyph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"redbirden/internal/glyph"
)

func TestEncode_KnownCharacters(t *testing.T) {
	r := glyph.Encode(glyph.FromString("AB!"))

	assert.Equal(t, []byte{0xBB, 0xBC, 0xAB}, r.Name[:3])
	assert.Equal(t, []glyph.Outcome{glyph.Mapped, glyph.Mapped, glyph.Mapped}, r.Outcomes[:3])
	assert.Equal(t, glyph.Untouched, r.Outcomes[3])
	assert.Zero(t, r.Blanked())
}

func TestEncode_UnknownCharacterIsBlanked(t *testing.T) {
	r := glyph.Encode(glyph.FromString("A#"))

	assert.Equal(t, byte(0xBB), r.Name[0])
	assert.Equal(t, byte(glyph.Blank), r.Name[1])
	assert.Equal(t, glyph.Blanked, r.Outcomes[1])
	assert.Equal(t, 1, r.Blanked())
}

func TestEncode_TerminatorPassesThrough(t *testing.T) {
	in := glyph.Name{'A', 0xFF, 'B', '#', 0x01, 0, 0, 0, 0, 0x42}
	r := glyph.Encode(in)

	assert.Equal(t, byte(0xBB), r.Name[0])
	assert.Equal(t, in[1:], r.Name[1:])
	for _, o := range r.Outcomes[1:] {
		assert.Equal(t, glyph.Untouched, o)
	}
}

func TestEncode_LastByteNeverConverted(t *testing.T) {
	in := glyph.Name{'a', 'a', 'a', 'a', 'a', 'a', 'a', 'a', 'a', 'a'}
	r := glyph.Encode(in)

	for i := 0; i < glyph.Significant; i++ {
		assert.Equal(t, byte(0xD5), r.Name[i])
	}
	assert.Equal(t, byte('a'), r.Name[9])
}

func TestFromString(t *testing.T) {
	n := glyph.FromString("Bob")
	assert.Equal(t, glyph.Name{'B', 'o', 'b', 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, n)

	long := glyph.FromString("ABCDEFGHIJKL")
	assert.Equal(t, byte('I'), long[8])
	assert.Equal(t, byte(0xFF), long[9])
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "Blanked", glyph.Blanked.String())
	assert.Equal(t, "Unknown", glyph.Outcome(42).String())
}
