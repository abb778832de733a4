package sched

import (
	"redbirden/internal/glyph"
	"redbirden/internal/guest"
)

// TaskID identifies a dispatched task. Zero is reserved for "no task".
type TaskID uint32

// TaskType tags the payload of a task for the guest dispatcher.
type TaskType uint16

const (
	TypeNone       TaskType = 0xFFFF
	TypeCustomWild TaskType = 0
	TypeStatusAll  TaskType = 1
)

func (t TaskType) String() string {
	switch t {
	case TypeNone:
		return "None"
	case TypeCustomWild:
		return "CustomWild"
	case TypeStatusAll:
		return "StatusAll"
	default:
		return "Unknown"
	}
}

// Task is one mailbox record.
type Task struct {
	ID      TaskID
	Type    TaskType
	Payload [guest.TaskPayloadSize]byte
}

// NewStatusAllTask builds a StatusAll task carrying flags in its first payload byte.
func NewStatusAllTask(flags byte) Task {
	t := Task{Type: TypeStatusAll}
	t.Payload[0] = flags
	return t
}

// NewCustomWildTask builds a CustomWild task whose payload starts with an
// already encoded name.
func NewCustomWildTask(id TaskID, name glyph.Name) Task {
	t := Task{ID: id, Type: TypeCustomWild}
	copy(t.Payload[:], name[:])
	return t
}

// Pending reports whether the task occupies a slot.
func (t Task) Pending() bool { return t.ID != 0 }

// WriteTo stores the record at addr: one word, one half-word, then the
// payload byte by byte.
func (t Task) WriteTo(mem guest.Memory, addr uint32) {
	mem.Write32(addr+guest.TaskIDOffset, uint32(t.ID))
	mem.Write16(addr+guest.TaskTypeOffset, uint16(t.Type))
	for i, b := range t.Payload {
		mem.Write8(addr+guest.TaskPayloadOffset+uint32(i), b)
	}
}

// ReadTask decodes the record stored at addr.
func ReadTask(mem guest.Memory, addr uint32) Task {
	t := Task{
		ID:   TaskID(mem.Read32(addr + guest.TaskIDOffset)),
		Type: TaskType(mem.Read16(addr + guest.TaskTypeOffset)),
	}
	for i := range t.Payload {
		t.Payload[i] = mem.Read8(addr + guest.TaskPayloadOffset + uint32(i))
	}
	return t
}
