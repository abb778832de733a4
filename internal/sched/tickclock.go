// internal/sched/tickclock.go

package sched

import (
	"context"
	"sync/atomic"
	"time"
)

// FrameClock paces host frames. It emits one tick per frame period and counts
// the ticks a slow consumer missed instead of queueing them, so a late frame
// never turns into a burst of catch-up steps against the guest.
type FrameClock struct {
	Ch      chan struct{}
	count   atomic.Int64
	dropped atomic.Int64
	stop    chan struct{}
}

// NewFrameClock creates a stopped clock with a tick buffer of the given size.
func NewFrameClock(buffer int) *FrameClock {
	return &FrameClock{
		Ch:   make(chan struct{}, buffer),
		stop: make(chan struct{}),
	}
}

// Start begins emitting ticks at the given interval.
func (c *FrameClock) Start(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.count.Add(1)
				select {
				case c.Ch <- struct{}{}:
				default:
					c.dropped.Add(1)
				}
			case <-c.stop:
				close(c.Ch)
				return
			}
		}
	}()
}

// Stop signals the clock to stop emitting ticks.
func (c *FrameClock) Stop() {
	close(c.stop)
}

// Count returns the number of frame periods elapsed.
func (c *FrameClock) Count() int64 {
	return c.count.Load()
}

// Dropped returns the number of frame periods the consumer missed.
func (c *FrameClock) Dropped() int64 {
	return c.dropped.Load()
}

// Drive calls step once per received tick, numbering frames from 1, until
// frames steps ran or ctx is done. The clock must be started.
func (c *FrameClock) Drive(ctx context.Context, frames int, step func(frame int)) error {
	for n := 1; n <= frames; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-c.Ch:
			if !ok {
				return context.Canceled
			}
		}
		step(n)
	}
	return nil
}
