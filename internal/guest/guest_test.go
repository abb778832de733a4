package guest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redbirden/internal/guest"
)

func TestSwap16(t *testing.T) {
	assert.Equal(t, uint16(0xB4FF), guest.Swap16(0xFFB4))
	assert.Equal(t, uint16(0x1234), guest.Swap16(guest.Swap16(0x1234)))
}

func TestDefaultLayout_NoOverlap(t *testing.T) {
	require.NoError(t, guest.DefaultLayout().Validate())
}

func TestDefaultLayout_Ordered(t *testing.T) {
	slots := guest.DefaultLayout().Slots()
	require.NotEmpty(t, slots)
	for i := 1; i < len(slots); i++ {
		assert.Less(t, slots[i-1].Addr, slots[i].Addr)
	}
}

func TestLayout_DetectsOverlap(t *testing.T) {
	l := guest.NewLayout(
		guest.Slot{Name: "a", Addr: 0x100, Width: 0x10},
		guest.Slot{Name: "b", Addr: 0x108, Width: 0x4},
	)
	require.ErrorContains(t, l.Validate(), guest.ErrLayoutOverlap.Error())
}

func TestLayout_Lookup(t *testing.T) {
	l := guest.DefaultLayout()

	s, ok := l.Lookup(guest.NextTaskAddr + guest.TaskRecordSize - 1)
	require.True(t, ok)
	assert.Equal(t, "next-task", s.Name)

	s, ok = l.Lookup(guest.PayloadAddr + 0x40)
	require.True(t, ok)
	assert.Equal(t, "payload", s.Name)

	_, ok = l.Lookup(guest.NextTaskAddr + guest.TaskRecordSize)
	assert.False(t, ok)
}

func TestFlatMemory_ROMIgnoresBusWrites(t *testing.T) {
	m := guest.NewFlatMemory()

	m.Write16(guest.HookAddr, 0xBEEF)
	assert.Equal(t, uint16(0), m.Read16(guest.HookAddr))

	m.RawWrite16(guest.HookAddr, 0xBEEF)
	assert.Equal(t, uint16(0xBEEF), m.Read16(guest.HookAddr))
	assert.Equal(t, []byte{0xEF, 0xBE}, m.Bytes(guest.HookAddr, 2))
}

func TestFlatMemory_RAM(t *testing.T) {
	m := guest.NewFlatMemory()

	m.Write32(guest.NextTaskAddr, 0x11223344)
	assert.Equal(t, uint32(0x11223344), m.Read32(guest.NextTaskAddr))
	assert.Equal(t, uint8(0x44), m.Read8(guest.NextTaskAddr))

	// unmapped
	m.Write32(0x04000000, 1)
	assert.Equal(t, uint32(0), m.Read32(0x04000000))
}

func TestNewSupportedGuest(t *testing.T) {
	m := guest.NewSupportedGuest()
	assert.Equal(t, guest.IdentityValue, m.Read32(guest.IdentityAddr))
}

func TestLayout_OpenEndedSlotMustBeLast(t *testing.T) {
	l := guest.NewLayout(
		guest.Slot{Name: "payload", Addr: 0x100},
		guest.Slot{Name: "x", Addr: 0x200, Width: 4},
	)
	require.ErrorContains(t, l.Validate(), guest.ErrLayoutOverlap.Error())

	s, ok := l.Lookup(0x204)
	require.True(t, ok)
	assert.Equal(t, "payload", s.Name)
}

func TestDefaultLayout_RAMSlotsAreWritableAndDistinct(t *testing.T) {
	mem := guest.NewFlatMemory()
	var ram []guest.Slot
	for _, s := range guest.DefaultLayout().Slots() {
		if s.Addr < guest.ROMBase {
			ram = append(ram, s)
		}
	}
	require.Len(t, ram, 5)

	for i, s := range ram {
		for a := s.Addr; a < s.End(); a++ {
			mem.Write8(a, byte(0x10+i))
		}
	}
	for i, s := range ram {
		for a := s.Addr; a < s.End(); a++ {
			require.Equal(t, byte(0x10+i), mem.Read8(a), "%s at 0x%08X", s.Name, a)
		}
	}
}

func TestFlatMemory_WorkRAMMirrors(t *testing.T) {
	m := guest.NewFlatMemory()

	m.Write32(guest.PriorityTaskAddr, 0xCAFEF00D)
	assert.Equal(t, uint32(0xCAFEF00D), m.Read32(guest.PriorityTaskAddr))
	assert.Equal(t, uint32(0xCAFEF00D), m.Read32(guest.EWRAMBase+(guest.PriorityTaskAddr-guest.EWRAMBase)%guest.EWRAMSize))

	// a record that crosses the end of the first copy continues at its start
	m.Write16(guest.NextTaskAddr+guest.TaskTypeOffset, 0x0001)
	assert.Equal(t, uint16(0x0001), m.Read16(guest.EWRAMBase))
}
