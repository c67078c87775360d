package gesture

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"

	"github.com/OpenTraceLab/OpenTraceMap/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/inertia"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/input"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/rotation"
)

// State is the gesture state, selected by the number of driving pointers.
type State uint8

const (
	Idle State = iota
	Drag1
	Drag2
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drag1:
		return "drag1"
	case Drag2:
		return "drag2"
	}
	return "unknown"
}

// anchor is the geographic point pinned under the primary finger.
type anchor struct {
	ll    s2.LatLng
	valid bool
}

// pinch is the two-finger baseline from the previous processed frame.
type pinch struct {
	a, b     input.ID
	dist     float64
	angle    float64
	centroid r2.Point
	valid    bool
}

func measurePinch(a, b *input.PointerState) pinch {
	d := b.Last.Sub(a.Last)
	return pinch{
		a:        a.ID,
		b:        b.ID,
		dist:     d.Norm(),
		angle:    math.Atan2(d.Y, d.X),
		centroid: a.Last.Add(b.Last).Mul(0.5),
		valid:    true,
	}
}

// session lives from the first pointer-down until the last pointer leaves.
type session struct {
	anchor     anchor
	trail      *geometry.Trail
	zoomActive bool
	rotation   *rotation.Detector
	velocity   *inertia.Samples
	pinch      pinch

	metric    float64 // last evaluated metric
	zoomDelta float64 // last applied spin zoom step
}

func newSession(cfg Config) *session {
	return &session{
		trail:    geometry.NewTrail(cfg.TrailWindow),
		rotation: rotation.NewDetector(cfg.Rotation),
		velocity: inertia.NewSamples(cfg.Inertia.MaxSamples, cfg.Inertia.VelocityWindow),
	}
}
