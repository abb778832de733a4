// internal/sched/schedulerEvent.go

package sched

import (
	"time"
)

// StatusKind represents the type of scheduler event
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusEnqueue
	StatusDispatch
	StatusFinish
	StatusPriorityDispatch
	StatusPriorityFinish
	StatusWildQueued
)

// StatusEvent is emitted on every mailbox transition.
type StatusEvent struct {
	Time   time.Time
	Frame  int64
	Kind   StatusKind
	TaskID TaskID
	Type   TaskType
}

func (sk StatusKind) String() string {
	switch sk {
	case StatusIdle:
		return "Idle"
	case StatusEnqueue:
		return "Enqueued"
	case StatusDispatch:
		return "Dispatch"
	case StatusFinish:
		return "Finish"
	case StatusPriorityDispatch:
		return "PrioDispatch"
	case StatusPriorityFinish:
		return "PrioFinish"
	case StatusWildQueued:
		return "WildQueued"
	default:
		return "Unknown"
	}
}

// EventSink receives scheduler events.
type EventSink interface {
	Record(StatusEvent)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(StatusEvent)

func (f SinkFunc) Record(ev StatusEvent) { f(ev) }
