// Package glyph converts display names into the guest's proprietary text
// encoding.
package glyph

// NameLen is the size of a name buffer; only the first Significant bytes are
// ever converted.
const (
	NameLen     = 10
	Significant = 9
	Terminator  = 0xFF
	Blank       = 0x00
)

// Name is a fixed-size, 0xFF-terminated name buffer.
type Name [NameLen]byte

// Outcome records what happened to one input byte.
type Outcome int

const (
	Untouched Outcome = iota // at or past the terminator
	Mapped
	Blanked // not in the alphabet
)

func (o Outcome) String() string {
	switch o {
	case Untouched:
		return "Untouched"
	case Mapped:
		return "Mapped"
	case Blanked:
		return "Blanked"
	default:
		return "Unknown"
	}
}

// Result is an encoded name and the per-byte outcomes for its significant bytes.
type Result struct {
	Name     Name
	Outcomes [Significant]Outcome
}

// Blanked reports how many bytes fell back to the blank glyph.
func (r Result) Blanked() int {
	n := 0
	for _, o := range r.Outcomes {
		if o == Blanked {
			n++
		}
	}
	return n
}

var alphabet = map[byte]byte{
	' ': 0x00, '=': 0x35, '&': 0x2D, '+': 0x2E,
	'0': 0xA1, '1': 0xA2, '2': 0xA3, '3': 0xA4, '4': 0xA5,
	'5': 0xA6, '6': 0xA7, '7': 0xA8, '8': 0xA9, '9': 0xAA,
	'!': 0xAB, '?': 0xAC, '.': 0xAD, '-': 0xAE, '\'': 0x0B,
	',': 0xB8, '/': 0xBA, ':': 0xF0,
	'A': 0xBB, 'B': 0xBC, 'C': 0xBD, 'D': 0xBE, 'E': 0xBF, 'F': 0xC0,
	'G': 0xC1, 'H': 0xC2, 'I': 0xC3, 'J': 0xC4, 'K': 0xC5, 'L': 0xC6,
	'M': 0xC7, 'N': 0xC8, 'O': 0xC9, 'P': 0xCA, 'Q': 0xCB, 'R': 0xCC,
	'S': 0xCD, 'T': 0xCE, 'U': 0xCF, 'V': 0xD0, 'W': 0xD1, 'X': 0xD2,
	'Y': 0xD3, 'Z': 0xD4,
	'a': 0xD5, 'b': 0xD6, 'c': 0xD7, 'd': 0xD8, 'e': 0xD9, 'f': 0xDA,
	'g': 0xDB, 'h': 0xDC, 'i': 0xDD, 'j': 0xDE, 'k': 0xDF, 'l': 0xE0,
	'm': 0xE1, 'n': 0xE2, 'o': 0xE3, 'p': 0xE4, 'q': 0xE5, 'r': 0xE6,
	's': 0xE7, 't': 0xE8, 'u': 0xE9, 'v': 0xEA, 'w': 0xEB, 'x': 0xEC,
	'y': 0xED, 'z': 0xEE,
}

// Lookup returns the glyph code for c.
func Lookup(c byte) (byte, bool) {
	g, ok := alphabet[c]
	return g, ok
}

// Encode converts the significant bytes of name up to the first terminator.
// Unknown bytes become the blank glyph; the terminator and everything after it
// is left as is.
func Encode(name Name) Result {
	r := Result{Name: name}
	for i := 0; i < Significant; i++ {
		if name[i] == Terminator {
			break
		}
		if g, ok := Lookup(name[i]); ok {
			r.Name[i] = g
			r.Outcomes[i] = Mapped
		} else {
			r.Name[i] = Blank
			r.Outcomes[i] = Blanked
		}
	}
	return r
}

// FromString builds a raw name buffer from s: at most Significant bytes,
// followed by terminator fill.
func FromString(s string) Name {
	var n Name
	for i := range n {
		n[i] = Terminator
	}
	copy(n[:Significant], s)
	return n
}
