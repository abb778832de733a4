// internal/sched/scheduler.go

package sched

import (
	"time"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"go.uber.org/zap"

	"redbirden/internal/guest"
)

// Scheduler drives the task mailbox shared with the guest dispatcher.
//
// It owns one in-flight regular task, one in-flight priority task and the
// backlogs feeding them. The guest acknowledges a task only by writing its id
// to guest.LastTaskIDAddr, so completion is detected by polling on the next
// Step. A Scheduler has a single writer: Step, Enqueue, QueueWild and
// ConsumeNextSpecies must all be called from the thread that runs frames.
type Scheduler struct {
	active   Task                   // regular task written to the mailbox, or zero
	priority Task                   // priority task awaiting completion, or zero
	tasks    *linkedlistqueue.Queue // FIFO of Task waiting for the regular slot
	wilds    *linkedlistqueue.Queue // FIFO of WildRequest
	nextID   TaskID                 // shared by both slots; never hands out 0
	frame    int64                  // Step calls so far

	sink EventSink
	log  *zap.Logger
}

// New creates an idle Scheduler. A nil logger disables logging.
func New(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		tasks:  linkedlistqueue.New(),
		wilds:  linkedlistqueue.New(),
		nextID: 1,
		log:    log,
	}
}

// SetSink installs the receiver of status events. Nil disables events.
func (s *Scheduler) SetSink(sink EventSink) { s.sink = sink }

// Enqueue appends a regular task to the backlog. Its id is assigned on dispatch.
func (s *Scheduler) Enqueue(t Task) {
	t.ID = 0
	s.tasks.Enqueue(t)
	s.emit(StatusEnqueue, 0, t.Type)
}

// EnqueueStatusAll queues a StatusAll task carrying flags.
func (s *Scheduler) EnqueueStatusAll(flags byte) {
	s.Enqueue(NewStatusAllTask(flags))
}

// Active returns the regular task currently in the mailbox.
func (s *Scheduler) Active() Task { return s.active }

// Priority returns the priority task currently awaiting completion.
func (s *Scheduler) Priority() Task { return s.priority }

// Backlog returns the number of regular tasks not yet dispatched.
func (s *Scheduler) Backlog() int { return s.tasks.Size() }

// Frame returns the number of Step calls so far.
func (s *Scheduler) Frame() int64 { return s.frame }

// Step runs one iteration of the mailbox protocol: the priority slot first,
// then the regular slot, both against a single read of the completion id.
func (s *Scheduler) Step(mem guest.Memory) {
	s.frame++

	finished := TaskID(mem.Read32(guest.LastTaskIDAddr))

	s.stepPriority(mem, finished)
	s.stepRegular(mem, finished)
}

func (s *Scheduler) stepPriority(mem guest.Memory, finished TaskID) {
	if !s.priority.Pending() {
		return
	}

	if s.priority.ID != finished {
		// already in the mailbox, nothing to do until the guest reports back
		if TaskID(mem.Read32(guest.PriorityTaskAddr)) == s.priority.ID {
			return
		}
		s.priority.WriteTo(mem, guest.PriorityTaskAddr)
		s.log.Debug("running priority task", zap.Uint32("task_id", uint32(s.priority.ID)), zap.Stringer("type", s.priority.Type))
		s.emit(StatusPriorityDispatch, s.priority.ID, s.priority.Type)
		return
	}

	// clear the mailbox so the guest does not run it again
	mem.Write32(guest.PriorityTaskAddr, 0)
	s.log.Debug("priority task finished", zap.Uint32("task_id", uint32(s.priority.ID)))
	s.emit(StatusPriorityFinish, s.priority.ID, s.priority.Type)
	s.priority = Task{}
}

func (s *Scheduler) stepRegular(mem guest.Memory, finished TaskID) {
	if s.active.Pending() && s.active.ID != finished {
		return
	}

	if s.active.Pending() {
		s.emit(StatusFinish, s.active.ID, s.active.Type)
	}

	v, ok := s.tasks.Dequeue()
	if !ok {
		if s.active.Pending() {
			s.emit(StatusIdle, 0, TypeNone)
		}
		s.active = Task{}
		return
	}

	t := v.(Task)
	t.ID = s.allocID()
	t.WriteTo(mem, guest.NextTaskAddr)
	s.active = t

	s.log.Debug("running task", zap.Uint32("task_id", uint32(t.ID)), zap.Stringer("type", t.Type))
	s.emit(StatusDispatch, t.ID, t.Type)
}

// allocID hands out the next task id. Ids are strictly increasing and skip 0
// should the counter ever wrap.
func (s *Scheduler) allocID() TaskID {
	id := s.nextID
	s.nextID++
	if s.nextID == 0 {
		s.nextID = 1
	}
	return id
}

func (s *Scheduler) emit(kind StatusKind, id TaskID, typ TaskType) {
	if s.sink == nil {
		return
	}
	s.sink.Record(StatusEvent{
		Time:   time.Now(),
		Frame:  s.frame,
		Kind:   kind,
		TaskID: id,
		Type:   typ,
	})
}
