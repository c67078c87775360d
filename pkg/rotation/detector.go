package rotation

import (
	"math"
	"time"

	"github.com/golang/geo/r2"

	"github.com/OpenTraceLab/OpenTraceMap/internal/logger"
)

// Edge identifies a side of the viewport.
type Edge int8

const (
	EdgeNone Edge = iota
	EdgeLeft
	EdgeRight
)

func (e Edge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	}
	return "none"
}

// State is the per-session rotation-zone state.
type State struct {
	Active       bool
	Edge         Edge
	LastRotation time.Duration // Scheduler time of the last edge-mode tick, -1 before the first
	DragStart    time.Duration // Start of the zoom guard period
}

// Step is the outcome of one Update.
type Step struct {
	Entered  bool
	Left     bool
	Edge     Edge
	Strength float64 // Feedback strength in [0, 1]
	Rotate   float64 // Degrees to rotate now (gear mode only)
}

// Detector tracks rotation-zone membership for one drag session.
type Detector struct {
	cfg   Config
	state State

	rate  float64 // edge mode, signed degrees per second
	lastY float64 // gear mode, finger y at the previous update
}

// NewDetector creates a detector in the idle state.
func NewDetector(cfg Config) *Detector {
	d := &Detector{cfg: cfg}
	d.Reset()
	return d
}

// Mode returns the active mode.
func (d *Detector) Mode() Mode { return d.cfg.Mode }

// SetMode switches modes and leaves any active zone.
func (d *Detector) SetMode(m Mode) {
	d.cfg.Mode = m
	d.leave()
}

// State returns a copy of the current state.
func (d *Detector) State() State { return d.state }

// Reset returns to idle.
func (d *Detector) Reset() {
	d.state = State{LastRotation: -1}
	d.rate = 0
}

// Begin starts a drag segment at time at, restarting the zoom guard.
func (d *Detector) Begin(at time.Duration) {
	d.Reset()
	d.state.DragStart = at
}

// ZoomBlocked reports whether zoom is suppressed at time at, either by an
// active zone or by the guard period after the drag (re)started.
func (d *Detector) ZoomBlocked(at, guard time.Duration) bool {
	return d.state.Active || at-d.state.DragStart < guard
}

// Update evaluates membership for the finger position. anchor is the
// anchor's current screen position; anchorOK is false when it could not be
// resolved this frame, in which case gear mode keeps its previous state.
func (d *Detector) Update(finger, anchor r2.Point, anchorOK bool, viewport r2.Rect, at time.Duration) Step {
	if viewport.IsEmpty() {
		return Step{Edge: d.state.Edge}
	}
	switch d.cfg.Mode {
	case ModeGear:
		if !anchorOK {
			return Step{Edge: d.state.Edge, Strength: d.strength()}
		}
		return d.updateGear(finger, anchor, viewport, at)
	default:
		return d.updateEdge(finger, viewport, at)
	}
}

func (d *Detector) updateEdge(finger r2.Point, viewport r2.Rect, at time.Duration) Step {
	rate, edge := EdgeRate(d.cfg, finger, viewport)
	d.rate = rate
	step := d.transition(edge, at)
	step.Strength = d.strength()
	return step
}

func (d *Detector) updateGear(finger, anchor r2.Point, viewport r2.Rect, at time.Duration) Step {
	edge := GearEdge(d.cfg, anchor, viewport)
	wasActive := d.state.Active
	prevY := d.lastY
	d.lastY = finger.Y

	step := d.transition(edge, at)
	step.Strength = d.strength()
	if wasActive && d.state.Active {
		step.Rotate = GearRotation(d.state.Edge, finger.Y-prevY, d.cfg.RollingRadius)
	}
	return step
}

// transition moves the zone to edge, reporting enter and leave.
func (d *Detector) transition(edge Edge, at time.Duration) Step {
	step := Step{Edge: edge}
	switch {
	case edge != EdgeNone && !d.state.Active:
		d.state.Active = true
		d.state.Edge = edge
		d.state.LastRotation = -1
		step.Entered = true
		logger.Get().Debug("[ROTATION] enter", "edge", edge, "mode", d.cfg.Mode)
	case edge == EdgeNone && d.state.Active:
		d.leave()
		d.state.DragStart = at
		step.Left = true
		logger.Get().Debug("[ROTATION] leave", "at", at)
	case edge != EdgeNone:
		d.state.Edge = edge
	}
	return step
}

func (d *Detector) leave() {
	d.state.Active = false
	d.state.Edge = EdgeNone
	d.state.LastRotation = -1
	d.rate = 0
}

func (d *Detector) strength() float64 {
	if !d.state.Active {
		return 0
	}
	if d.cfg.Mode == ModeGear || d.cfg.RotationSpeed == 0 {
		return 1
	}
	return math.Abs(d.rate) / d.cfg.RotationSpeed
}

// Tick returns the edge-mode rotation in degrees accumulated since the
// previous tick. The first tick in a zone only records the time.
func (d *Detector) Tick(now time.Duration) float64 {
	if d.cfg.Mode != ModeEdge || !d.state.Active {
		return 0
	}
	last := d.state.LastRotation
	d.state.LastRotation = now
	if last < 0 || now <= last {
		return 0
	}
	return d.rate * (now - last).Seconds()
}

// EdgeRate returns the signed edge-mode rotation rate in degrees per second
// for a finger at p, and the edge it is near. The rate is zero farther than
// EdgeStartRatio of the width from both edges and reaches RotationSpeed at
// EdgeEndRatio. Right-upper and left-lower quadrants rotate positively.
func EdgeRate(cfg Config, p r2.Point, viewport r2.Rect) (float64, Edge) {
	w := viewport.X.Length()
	if w <= 0 {
		return 0, EdgeNone
	}
	left := p.X - viewport.X.Lo
	right := viewport.X.Hi - p.X
	edge, dist := EdgeLeft, left
	if right < left {
		edge, dist = EdgeRight, right
	}

	ratio := dist / w
	var f float64
	switch {
	case ratio >= cfg.EdgeStartRatio:
		return 0, EdgeNone
	case ratio <= cfg.EdgeEndRatio:
		f = 1
	default:
		f = (cfg.EdgeStartRatio - ratio) / (cfg.EdgeStartRatio - cfg.EdgeEndRatio)
	}

	upper := p.Y < viewport.Y.Center()
	sign := -1.0
	if (edge == EdgeRight) == upper {
		sign = 1
	}
	return sign * f * cfg.RotationSpeed, edge
}

// GearEdge returns the edge whose gear the anchor engages, after clamping
// the anchor into the viewport.
func GearEdge(cfg Config, anchor r2.Point, viewport r2.Rect) Edge {
	a := viewport.ClampPoint(anchor)
	left := a.X - viewport.X.Lo
	right := viewport.X.Hi - a.X
	switch {
	case right <= cfg.GearMargin && right <= left:
		return EdgeRight
	case left <= cfg.GearMargin:
		return EdgeLeft
	}
	return EdgeNone
}

// GearRotation converts vertical travel dy along edge into degrees of
// rotation by rolling without slipping on a circle of the given radius.
func GearRotation(edge Edge, dy, radius float64) float64 {
	if radius <= 0 || edge == EdgeNone {
		return 0
	}
	deg := dy / radius * 180 / math.Pi
	if edge == EdgeLeft {
		return -deg
	}
	return deg
}
