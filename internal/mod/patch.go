// Package mod installs the mod loader into a running guest and drives it one
// frame at a time.
package mod

import (
	"github.com/emirpasic/gods/lists/arraylist"

	"redbirden/internal/guest"
)

// CodeChange is one half-word overwrite. Value is already in bus order.
type CodeChange struct {
	Addr  uint32
	Value uint16
}

// PatchTable is the ordered set of code changes re-applied every frame.
type PatchTable struct {
	changes *arraylist.List
}

// NewPatchTable returns an empty table.
func NewPatchTable() *PatchTable {
	return &PatchTable{changes: arraylist.New()}
}

// Add registers listing (a half-word in byte order, as in a hex dump) for addr.
// The byte swap happens once here so Apply is a plain raw write.
func (p *PatchTable) Add(addr uint32, listing uint16) {
	p.changes.Add(CodeChange{Addr: addr, Value: guest.Swap16(listing)})
}

// Apply writes every change to mem in registration order.
func (p *PatchTable) Apply(mem guest.Memory) {
	p.changes.Each(func(_ int, v interface{}) {
		c := v.(CodeChange)
		mem.RawWrite16(c.Addr, c.Value)
	})
}

// Len returns the number of registered changes.
func (p *PatchTable) Len() int { return p.changes.Size() }

// Changes returns a copy of the registered changes in order.
func (p *PatchTable) Changes() []CodeChange {
	out := make([]CodeChange, 0, p.changes.Size())
	p.changes.Each(func(_ int, v interface{}) {
		out = append(out, v.(CodeChange))
	})
	return out
}
