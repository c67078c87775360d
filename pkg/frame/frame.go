// Package frame provides the frame-synchronized scheduler the gesture core
// uses for rotation ticks, throttled pinch processing and inertia.
//
// Callbacks are one-shot: a driver that needs every frame schedules itself
// again from inside its callback.
package frame

import "time"

// Callback runs once on a frame. now is the frame time on the scheduler's
// clock.
type Callback func(now time.Duration)

// Cancel withdraws a scheduled callback. Calling it after the callback ran,
// or more than once, is a no-op.
type Cancel func()

// Scheduler runs callbacks on the next frame.
type Scheduler interface {
	Schedule(fn Callback) Cancel
}

type entry struct {
	fn        Callback
	cancelled bool
}

// queue holds callbacks waiting for the next frame.
type queue struct {
	pending []*entry
}

func (q *queue) schedule(fn Callback) Cancel {
	e := &entry{fn: fn}
	q.pending = append(q.pending, e)
	return func() { e.cancelled = true }
}

// run executes the callbacks queued before this call. Callbacks scheduled
// while running wait for the next frame.
func (q *queue) run(now time.Duration) {
	batch := q.pending
	q.pending = nil
	for _, e := range batch {
		if !e.cancelled {
			e.cancelled = true
			e.fn(now)
		}
	}
}

func (q *queue) len() int {
	n := 0
	for _, e := range q.pending {
		if !e.cancelled {
			n++
		}
	}
	return n
}
