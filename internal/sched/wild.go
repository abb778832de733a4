package sched

import (
	"go.uber.org/zap"

	"redbirden/internal/glyph"
)

// NoOverride is returned by ConsumeNextSpecies when nothing is queued.
const NoOverride uint16 = 0

// WildRequest is a pending forced encounter. Name is already encoded.
type WildRequest struct {
	Species uint16
	Name    glyph.Name
}

// QueueWild encodes name and appends a forced encounter to the backlog. The
// encoding result is returned so callers can see which characters were blanked.
func (s *Scheduler) QueueWild(species uint16, name glyph.Name) glyph.Result {
	r := glyph.Encode(name)
	s.wilds.Enqueue(WildRequest{Species: species, Name: r.Name})
	s.emit(StatusWildQueued, 0, TypeCustomWild)
	return r
}

// PendingWilds returns the number of queued encounter requests.
func (s *Scheduler) PendingWilds() int { return s.wilds.Size() }

// ConsumeNextSpecies answers the guest's "which species comes next" call. It
// pops the oldest request, installs it as the priority task and returns its
// species, or returns NoOverride without touching any state when the backlog
// is empty.
func (s *Scheduler) ConsumeNextSpecies() uint16 {
	v, ok := s.wilds.Dequeue()
	if !ok {
		return NoOverride
	}
	w := v.(WildRequest)

	s.priority = NewCustomWildTask(s.allocID(), w.Name)
	s.log.Debug("wild override consumed",
		zap.Uint16("species", w.Species),
		zap.Uint32("task_id", uint32(s.priority.ID)))
	return w.Species
}
