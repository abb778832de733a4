package guest

import (
	"encoding/binary"
	"math/bits"
)

// ByteOrder is the byte order of the guest bus and of payload files.
var ByteOrder = binary.LittleEndian

// Swap16 reverses the two bytes of a half-word.
//
// Thumb sequences are listed in this repository in byte order (the order they
// appear in a hex dump). Swap16 turns such a listing into the half-word value
// the bus stores, and a value read from the bus back into a listing.
func Swap16(v uint16) uint16 {
	return bits.ReverseBytes16(v)
}
