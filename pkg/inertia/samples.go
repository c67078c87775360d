package inertia

import (
	"time"

	"github.com/golang/geo/r2"
)

// Sample is one velocity measurement in px/s.
type Sample struct {
	V  r2.Point
	At time.Duration
}

// Samples is a ring buffer of velocity samples bounded by count and by a
// recency window.
type Samples struct {
	buf    []Sample
	head   int // index of the oldest sample
	n      int
	window time.Duration
}

// NewSamples returns an empty buffer holding at most max samples.
func NewSamples(max int, window time.Duration) *Samples {
	if max < 1 {
		max = 1
	}
	return &Samples{buf: make([]Sample, max), window: window}
}

// Push records v at time at, overwriting the oldest sample when full.
func (s *Samples) Push(v r2.Point, at time.Duration) {
	if s.n < len(s.buf) {
		s.buf[(s.head+s.n)%len(s.buf)] = Sample{V: v, At: at}
		s.n++
		return
	}
	s.buf[s.head] = Sample{V: v, At: at}
	s.head = (s.head + 1) % len(s.buf)
}

// Len returns the number of stored samples.
func (s *Samples) Len() int { return s.n }

// Clear drops every sample.
func (s *Samples) Clear() { s.head, s.n = 0, 0 }

// Recent returns the samples no older than the window relative to now,
// oldest first.
func (s *Samples) Recent(now time.Duration) []Sample {
	var out []Sample
	for i := 0; i < s.n; i++ {
		smp := s.buf[(s.head+i)%len(s.buf)]
		if now-smp.At <= s.window {
			out = append(out, smp)
		}
	}
	return out
}

// Estimate returns a velocity averaged over the recent samples, weighting
// later samples more, and the mean spacing between those samples. interval
// is zero when fewer than two samples are recent. ok is false when there is
// nothing recent.
func (s *Samples) Estimate(now time.Duration) (v r2.Point, interval time.Duration, ok bool) {
	recent := s.Recent(now)
	if len(recent) == 0 {
		return r2.Point{}, 0, false
	}

	var sum r2.Point
	var weights float64
	for i, smp := range recent {
		w := float64(i + 1)
		sum = sum.Add(smp.V.Mul(w))
		weights += w
	}
	v = sum.Mul(1 / weights)

	if len(recent) > 1 {
		interval = (recent[len(recent)-1].At - recent[0].At) / time.Duration(len(recent)-1)
	}
	return v, interval, true
}
