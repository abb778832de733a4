// Package guest describes the guest address space the engine patches: the memory
// bus it talks through, the byte order of that bus, and the fixed layout that
// forms the host/guest wire contract.
package guest

// Memory is the addressable bus of a running guest.
//
// Bus writes follow the guest's own rules (writes into cartridge ROM are
// dropped), while RawWrite16 stores a half-word regardless of region, which is
// how code patches reach read-only memory. Callers manage bounds; the engine
// only touches addresses listed in the Layout.
type Memory interface {
	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
	Write8(addr uint32, v uint8)
	Write16(addr uint32, v uint16)
	Write32(addr uint32, v uint32)
	RawWrite16(addr uint32, v uint16)
}
