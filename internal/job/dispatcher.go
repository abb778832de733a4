// Package job simulates the guest-side dispatcher so the mailbox protocol can
// be exercised without a real guest.
package job

import (
	"redbirden/internal/guest"
	"redbirden/internal/sched"
)

// run is a task the simulated guest is working on.
type run struct {
	task      sched.Task
	remaining int
}

// Dispatcher plays the guest's role in the mailbox protocol. Each Frame it
// picks up new records from the priority and regular mailboxes, counts down
// their latency and reports completion by writing the id to
// guest.LastTaskIDAddr. At most one completion is reported per frame, because
// the host polls that address only once per step.
type Dispatcher struct {
	mem     guest.Memory
	latency int

	priority *run
	regular  *run

	lastPriority sched.TaskID
	lastRegular  sched.TaskID

	// Encounter stands in for the encounter hook's system call. It is invoked
	// by Encounter() and returns the forced species, 0 for none.
	encounter func() uint16

	Executed []sched.Task
	Species  []uint16
}

// NewDispatcher creates a dispatcher completing each task latency frames after
// it was picked up.
func NewDispatcher(mem guest.Memory, latency int, encounter func() uint16) *Dispatcher {
	if latency < 0 {
		latency = 0
	}
	return &Dispatcher{mem: mem, latency: latency, encounter: encounter}
}

// Frame advances the simulated guest by one frame.
func (d *Dispatcher) Frame() {
	d.pickUp()

	if d.tick(&d.priority, &d.lastPriority) {
		return
	}
	d.tick(&d.regular, &d.lastRegular)
}

// Encounter simulates the guest generating a wild encounter.
func (d *Dispatcher) Encounter() uint16 {
	if d.encounter == nil {
		return 0
	}
	species := d.encounter()
	if species != 0 {
		d.Species = append(d.Species, species)
	}
	return species
}

// Busy reports whether a task is being worked on.
func (d *Dispatcher) Busy() bool { return d.priority != nil || d.regular != nil }

func (d *Dispatcher) pickUp() {
	if d.priority == nil {
		t := sched.ReadTask(d.mem, guest.PriorityTaskAddr)
		if t.Pending() && t.ID != d.lastPriority {
			d.priority = &run{task: t, remaining: d.latency}
		}
	}
	if d.regular == nil {
		t := sched.ReadTask(d.mem, guest.NextTaskAddr)
		if t.Pending() && t.ID != d.lastRegular {
			d.regular = &run{task: t, remaining: d.latency}
		}
	}
}

// tick advances r and reports whether it completed this frame.
func (d *Dispatcher) tick(r **run, last *sched.TaskID) bool {
	if *r == nil {
		return false
	}
	if (*r).remaining > 0 {
		(*r).remaining--
		d.mem.Write32(guest.CurrentTaskIDAddr, uint32((*r).task.ID))
		return false
	}

	t := (*r).task
	d.mem.Write32(guest.CurrentTaskIDAddr, 0)
	d.mem.Write32(guest.LastTaskIDAddr, uint32(t.ID))
	d.Executed = append(d.Executed, t)
	*last = t.ID
	*r = nil
	return true
}
