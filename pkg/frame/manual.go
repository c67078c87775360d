package frame

import "time"

// Manual is a Scheduler driven explicitly by Tick. It backs tests and
// script replay.
type Manual struct {
	q        queue
	now      time.Duration
	interval time.Duration
}

var _ Scheduler = (*Manual)(nil)

// NewManual returns a scheduler whose frames are interval apart, starting
// at time zero.
func NewManual(interval time.Duration) *Manual {
	return &Manual{interval: interval}
}

// Schedule implements Scheduler.
func (m *Manual) Schedule(fn Callback) Cancel { return m.q.schedule(fn) }

// Now returns the time of the last frame.
func (m *Manual) Now() time.Duration { return m.now }

// Interval returns the frame spacing.
func (m *Manual) Interval() time.Duration { return m.interval }

// Pending returns the number of callbacks waiting for a frame.
func (m *Manual) Pending() int { return m.q.len() }

// Tick advances one frame and runs the callbacks that were waiting.
func (m *Manual) Tick() {
	m.now += m.interval
	m.q.run(m.now)
}

// TickN runs n frames.
func (m *Manual) TickN(n int) {
	for i := 0; i < n; i++ {
		m.Tick()
	}
}

// AdvanceTo runs every frame that falls at or before t.
func (m *Manual) AdvanceTo(t time.Duration) {
	for m.now+m.interval <= t {
		m.Tick()
	}
}

// Drain ticks until nothing is pending or max frames have run, and returns
// the number of frames run.
func (m *Manual) Drain(max int) int {
	n := 0
	for n < max && m.Pending() > 0 {
		m.Tick()
		n++
	}
	return n
}
