package guest

// Region bases of the flat guest.
const (
	EWRAMBase   uint32 = 0x02000000
	EWRAMSize   uint32 = 0x40000
	EWRAMWindow uint32 = 0x01000000 // work RAM repeats every EWRAMSize bytes across the window
	ROMBase     uint32 = 0x08000000
	ROMSize     uint32 = 0x01000000
)

type region struct {
	base     uint32
	window   uint32 // bytes of address space the region answers for; data mirrors within it
	data     []byte
	readOnly bool
}

// FlatMemory is an in-memory guest with work RAM and a cartridge ROM. Work
// RAM is mirrored across its window the way the real bus does, which is what
// puts the priority mailbox past the end of the first copy. Bus writes to ROM
// are dropped; RawWrite16 and Load reach it. Accesses outside both regions
// read as zero and write nowhere.
type FlatMemory struct {
	regions []region
}

// NewFlatMemory allocates zeroed work RAM and ROM.
func NewFlatMemory() *FlatMemory {
	return &FlatMemory{regions: []region{
		{base: EWRAMBase, window: EWRAMWindow, data: make([]byte, EWRAMSize)},
		{base: ROMBase, window: ROMSize, data: make([]byte, ROMSize), readOnly: true},
	}}
}

// NewSupportedGuest returns a flat guest whose ROM carries the supported
// identity word.
func NewSupportedGuest() *FlatMemory {
	m := NewFlatMemory()
	var word [4]byte
	ByteOrder.PutUint32(word[:], IdentityValue)
	m.Load(IdentityAddr, word[:])
	return m
}

// Load copies b into memory at addr, ignoring read-only protection.
func (m *FlatMemory) Load(addr uint32, b []byte) {
	for i, v := range b {
		if p := m.span(addr+uint32(i), 1, true); p != nil {
			p[0] = v
		}
	}
}

// Bytes returns a copy of n bytes starting at addr.
func (m *FlatMemory) Bytes(addr uint32, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = m.Read8(addr + uint32(i))
	}
	return out
}

func (m *FlatMemory) span(addr, n uint32, raw bool) []byte {
	for _, r := range m.regions {
		if addr < r.base || addr-r.base >= r.window {
			continue
		}
		// sizes are powers of two
		off := (addr - r.base) & (uint32(len(r.data)) - 1)
		if off+n > uint32(len(r.data)) {
			// straddles a mirror boundary
			return nil
		}
		if r.readOnly && !raw {
			return nil
		}
		return r.data[off : off+n]
	}
	return nil
}

func (m *FlatMemory) Read8(addr uint32) uint8 {
	if p := m.span(addr, 1, true); p != nil {
		return p[0]
	}
	return 0
}

func (m *FlatMemory) Read16(addr uint32) uint16 {
	if p := m.span(addr, 2, true); p != nil {
		return ByteOrder.Uint16(p)
	}
	return 0
}

func (m *FlatMemory) Read32(addr uint32) uint32 {
	if p := m.span(addr, 4, true); p != nil {
		return ByteOrder.Uint32(p)
	}
	return 0
}

func (m *FlatMemory) Write8(addr uint32, v uint8) {
	if p := m.span(addr, 1, false); p != nil {
		p[0] = v
	}
}

func (m *FlatMemory) Write16(addr uint32, v uint16) {
	if p := m.span(addr, 2, false); p != nil {
		ByteOrder.PutUint16(p, v)
	}
}

func (m *FlatMemory) Write32(addr uint32, v uint32) {
	if p := m.span(addr, 4, false); p != nil {
		ByteOrder.PutUint32(p, v)
	}
}

func (m *FlatMemory) RawWrite16(addr uint32, v uint16) {
	if p := m.span(addr, 2, true); p != nil {
		ByteOrder.PutUint16(p, v)
	}
}

var _ Memory = (*FlatMemory)(nil)
