package geometry

import (
	"time"

	"github.com/golang/geo/r2"
)

// Sample is one trail point.
type Sample struct {
	P r2.Point
	T time.Duration
}

// Trail is a short-lived history of screen points, pruned to a recency
// window relative to the newest sample.
type Trail struct {
	window  time.Duration
	samples []Sample
	points  []r2.Point
}

// NewTrail returns an empty trail keeping samples younger than window.
func NewTrail(window time.Duration) *Trail {
	return &Trail{window: window}
}

// Push appends a sample and prunes everything older than the window.
func (t *Trail) Push(p r2.Point, at time.Duration) {
	t.samples = append(t.samples, Sample{P: p, T: at})
	cut := 0
	for cut < len(t.samples) && at-t.samples[cut].T > t.window {
		cut++
	}
	if cut > 0 {
		t.samples = append(t.samples[:0], t.samples[cut:]...)
	}
}

// Clear drops every sample.
func (t *Trail) Clear() { t.samples = t.samples[:0] }

// Len returns the number of samples.
func (t *Trail) Len() int { return len(t.samples) }

// Samples returns the retained samples, oldest first. The slice is owned
// by the trail.
func (t *Trail) Samples() []Sample { return t.samples }

// Points returns the retained positions, oldest first. The slice is reused
// by the next call.
func (t *Trail) Points() []r2.Point {
	t.points = t.points[:0]
	for _, s := range t.samples {
		t.points = append(t.points, s.P)
	}
	return t.points
}
