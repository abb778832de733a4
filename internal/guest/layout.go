package guest

import (
	"fmt"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
	"go.trai.ch/zerr"
)

// Guest identity.
const (
	IdentityAddr  uint32 = 0x080000B0
	IdentityValue uint32 = 0x00963130
)

// Mailbox slots shared with the guest-side dispatcher.
const (
	CurrentTaskIDAddr uint32 = 0x0203FFF4 // written by the guest while it runs a task
	LastTaskIDAddr    uint32 = 0x0203FFF8
	NextTaskAddr      uint32 = 0x0203FFFC
	PriorityTaskAddr  uint32 = 0x02040028
)

// Task record wire layout: id(4) + type(2) + payload(32), unpadded.
const (
	TaskIDOffset      uint32 = 0x0
	TaskTypeOffset    uint32 = 0x4
	TaskPayloadOffset uint32 = 0x6
	TaskPayloadSize          = 32
	TaskRecordSize           = 38
)

// Code hooks and scratch regions.
const (
	AvatarAddr uint32 = 0x02037078 // PlayerAvatar flags

	HookAddr      uint32 = 0x08007A12
	HookHalfWords        = 10

	LoaderAddr        uint32 = 0x08720000 // unused ROM, free for the trampoline
	LoaderEntrySlot   uint32 = LoaderAddr + 0x2
	LoaderReplayAddr  uint32 = LoaderAddr + 0xC
	LoaderReturnAddr  uint32 = LoaderAddr + 0x20
	LoaderSize        uint32 = 0x22
	PayloadAddr       uint32 = 0x08720100
	EncounterHookAddr uint32 = 0x08082B66
	EncounterHookSize uint32 = 0x4
)

// ErrLayoutOverlap is returned when two slots of a layout share bytes.
var ErrLayoutOverlap = zerr.New("layout slots overlap")

// Slot is one named region of the guest address space. A zero Width marks an
// open-ended region.
type Slot struct {
	Name    string
	Addr    uint32
	Width   uint32
	Meaning string
}

// End returns the first address past the slot. Meaningless for an
// open-ended slot.
func (s Slot) End() uint32 { return s.Addr + s.Width }

// OpenEnded reports whether the slot runs to the top of the address space.
func (s Slot) OpenEnded() bool { return s.Width == 0 }

// Contains reports whether addr falls inside the slot.
func (s Slot) Contains(addr uint32) bool {
	return addr >= s.Addr && (s.OpenEnded() || addr < s.End())
}

func (s Slot) String() string {
	if s.OpenEnded() {
		return fmt.Sprintf("%-16s 0x%08X..            %s", s.Name, s.Addr, s.Meaning)
	}
	return fmt.Sprintf("%-16s 0x%08X..0x%08X  %s", s.Name, s.Addr, s.End(), s.Meaning)
}

// Layout is an address-ordered table of slots.
type Layout struct {
	tree *redblacktree.Tree
}

// NewLayout builds a layout from the given slots. Slots sharing a start address
// replace each other; Validate reports partial overlaps.
func NewLayout(slots ...Slot) *Layout {
	l := &Layout{tree: redblacktree.NewWith(utils.UInt32Comparator)}
	for _, s := range slots {
		l.tree.Put(s.Addr, s)
	}
	return l
}

// DefaultLayout is the layout of the supported guest revision.
func DefaultLayout() *Layout {
	return NewLayout(
		Slot{"identity", IdentityAddr, 4, "game/revision word"},
		Slot{"avatar", AvatarAddr, 4, "player avatar movement flags"},
		Slot{"current-task-id", CurrentTaskIDAddr, 4, "task the guest is running (guest-owned)"},
		Slot{"last-task-id", LastTaskIDAddr, 4, "last completed task id (guest-owned)"},
		Slot{"next-task", NextTaskAddr, TaskRecordSize, "regular task mailbox"},
		Slot{"priority-task", PriorityTaskAddr, TaskRecordSize, "priority task mailbox"},
		Slot{"hook", HookAddr, HookHalfWords * 2, "call-out into the loader"},
		Slot{"encounter-hook", EncounterHookAddr, EncounterHookSize, "wild encounter override call"},
		Slot{"loader", LoaderAddr, LoaderSize, "trampoline and replayed instructions"},
		Slot{"payload", PayloadAddr, 0, "mod payload body"},
	)
}

// Slots returns the slots ordered by address.
func (l *Layout) Slots() []Slot {
	out := make([]Slot, 0, l.tree.Size())
	it := l.tree.Iterator()
	for it.Next() {
		out = append(out, it.Value().(Slot))
	}
	return out
}

// Lookup returns the slot that contains addr.
func (l *Layout) Lookup(addr uint32) (Slot, bool) {
	node, ok := l.tree.Floor(addr)
	if !ok {
		return Slot{}, false
	}
	s := node.Value.(Slot)
	if !s.Contains(addr) {
		return Slot{}, false
	}
	return s, true
}

// Validate checks that no two slots share bytes. An open-ended slot must be
// the highest one.
func (l *Layout) Validate() error {
	var prev *Slot
	for _, s := range l.Slots() {
		if prev != nil && prev.Contains(s.Addr) {
			return zerr.With(zerr.With(ErrLayoutOverlap, "slot", s.Name), "previous", prev.Name)
		}
		prev = &s
	}
	return nil
}
