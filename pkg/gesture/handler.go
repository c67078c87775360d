// Package gesture interprets filtered pointer and wheel events as camera
// moves: single-finger pan with spin-to-zoom and edge rotation, two-finger
// pinch, wheel zoom and post-release inertia.
package gesture

import (
	"math"
	"time"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"

	"github.com/OpenTraceLab/OpenTraceMap/internal/logger"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/frame"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/inertia"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/input"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/mapview"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/rotation"
)

// Stats counts the work a handler has done.
type Stats struct {
	Moves         int // Single-finger moves processed
	PinchFrames   int // Two-finger distance/angle/centroid computations
	ZoomSteps     int // Spin-to-zoom steps applied
	WheelSteps    int
	RotationSteps int
	Inertias      int // Inertia runs started
}

// Snapshot describes the handler state for overlays and replay traces.
type Snapshot struct {
	State       State
	Pointers    int
	Anchor      s2.LatLng
	HasAnchor   bool
	ZoomActive  bool
	ZoomBlocked bool
	Metric      float64
	ZoomDelta   float64
	Rotation    rotation.State
	Inertia     bool
	Stats       Stats
}

// Option configures a Handler.
type Option func(*Handler)

// WithFeedback sets the rotation feedback collaborator.
func WithFeedback(f Feedback) Option {
	return func(h *Handler) {
		if f != nil {
			h.feedback = f
		}
	}
}

// Handler is the gesture state machine. It is not safe for concurrent use;
// events and frames must arrive on one goroutine.
type Handler struct {
	cfg      Config
	cam      mapview.Map
	sched    frame.Scheduler
	feedback Feedback

	pointers input.PointerSet
	sess     *session
	viewport r2.Rect
	now      time.Duration // time of the last event
	inertia  *inertia.Engine

	tick         frame.Cancel
	pinchPending bool

	stats Stats
}

// NewHandler creates a handler driving cam. sched supplies frames for edge
// rotation, throttled pinch processing and inertia.
func NewHandler(cfg Config, cam mapview.Map, sched frame.Scheduler, opts ...Option) *Handler {
	h := &Handler{
		cfg:      cfg,
		cam:      cam,
		sched:    sched,
		feedback: NopFeedback{},
		inertia:  inertia.NewEngine(cfg.Inertia, sched, cam),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Config returns the handler's tunables.
func (h *Handler) Config() Config { return h.cfg }

// State returns the current gesture state.
func (h *Handler) State() State {
	switch n := h.pointers.Len(); {
	case h.sess == nil || n == 0:
		return Idle
	case n == 1:
		return Drag1
	default:
		return Drag2
	}
}

// SetRotationMode switches the rotation-zone model, leaving any active zone.
func (h *Handler) SetRotationMode(m rotation.Mode) {
	h.cfg.Rotation.Mode = m
	if h.sess != nil {
		h.sess.rotation.SetMode(m)
		h.feedback.HideRotation()
	}
}

// HandleEvent processes one filtered event. viewport is the current
// viewport rectangle in screen pixels.
func (h *Handler) HandleEvent(ev input.Event, viewport r2.Rect) {
	h.viewport = viewport
	h.now = ev.Time
	switch ev.Kind {
	case input.Press:
		h.press(ev)
	case input.Move:
		h.move(ev)
	case input.Release:
		h.release(ev, true)
	case input.Cancel:
		h.release(ev, false)
	case input.Scroll:
		h.wheel(ev)
	}
}

// Reset drops the session and any inertia without touching the camera.
func (h *Handler) Reset() {
	h.inertia.Stop()
	if h.sess != nil {
		h.feedback.HideRotation()
		logger.Get().Debug("[GESTURE] reset", "pointers", h.pointers.Len())
	}
	h.sess = nil
	h.pointers.Clear()
	h.stopTick()
}

// Snapshot returns the current state.
func (h *Handler) Snapshot() Snapshot {
	snap := Snapshot{
		State:    h.State(),
		Pointers: h.pointers.Len(),
		Inertia:  h.inertia.Active(),
		Stats:    h.stats,
	}
	if s := h.sess; s != nil {
		snap.Anchor, snap.HasAnchor = s.anchor.ll, s.anchor.valid
		snap.ZoomActive = s.zoomActive
		snap.ZoomBlocked = s.rotation.ZoomBlocked(h.now, h.cfg.ZoomGuard)
		snap.Metric = s.metric
		snap.ZoomDelta = s.zoomDelta
		snap.Rotation = s.rotation.State()
	}
	return snap
}

func (h *Handler) press(ev input.Event) {
	h.inertia.Stop()
	if h.sess == nil {
		h.sess = newSession(h.cfg)
		logger.Get().Debug("[GESTURE] session start", "id", ev.ID, "at", ev.Position)
	}
	h.pointers.Add(ev.ID, ev.Position, ev.Time)

	switch h.pointers.Len() {
	case 1:
		h.beginDrag1(h.pointers.Primary(), ev.Time)
	case 2:
		h.beginPinch()
	default:
		logger.Get().Debug("[GESTURE] extra pointer ignored", "id", ev.ID, "pointers", h.pointers.Len())
	}
	h.startTick()
}

// beginDrag1 starts a single-finger segment at p.
func (h *Handler) beginDrag1(p *input.PointerState, at time.Duration) {
	s := h.sess
	s.trail.Clear()
	s.velocity.Clear()
	s.zoomActive = false
	s.metric, s.zoomDelta = 0, 0
	s.pinch.valid = false
	h.pinchPending = false
	s.rotation.Begin(at)
	h.feedback.HideRotation()
	h.captureAnchor(p.Last)
	logger.Get().Debug("[GESTURE] drag1", "id", p.ID, "anchor", s.anchor.valid)
}

func (h *Handler) beginPinch() {
	s := h.sess
	s.anchor = anchor{}
	s.rotation.Reset()
	h.feedback.HideRotation()
	a, b, _ := h.pointers.Pair()
	s.pinch = measurePinch(a, b)
	logger.Get().Debug("[GESTURE] drag2", "a", a.ID, "b", b.ID, "distance", s.pinch.dist)
}

func (h *Handler) move(ev input.Event) {
	p := h.pointers.Get(ev.ID)
	if p == nil {
		return
	}
	if h.pointers.Len() == 1 {
		h.drag1Move(p, ev)
		return
	}

	p.Last, p.LastTime = ev.Position, ev.Time
	a, b, _ := h.pointers.Pair()
	if p != a && p != b {
		return
	}
	if h.cfg.ThrottlePinch {
		h.pinchPending = true
		h.startTick()
		return
	}
	h.processPinch()
}

func (h *Handler) drag1Move(p *input.PointerState, ev input.Event) {
	s := h.sess
	pos, at := ev.Position, ev.Time
	prev, dt := p.Last, (at - p.LastTime).Seconds()
	p.Last, p.LastTime = pos, at
	h.stats.Moves++

	// 1. trail
	blocked := !h.cam.Ready() || s.rotation.ZoomBlocked(at, h.cfg.ZoomGuard)
	if blocked {
		s.trail.Clear()
	}
	s.trail.Push(pos, at)

	// 2-3. spin-to-zoom
	s.metric, s.zoomDelta = 0, 0
	if !blocked && dt > 0 {
		s.metric = geometry.Evaluate(h.cfg.Metric, s.trail.Points(), pos, h.cfg.CompoundK)
		if !s.zoomActive && math.Abs(s.metric) > h.cfg.ActivationThreshold {
			s.zoomActive = true
			logger.Get().Debug("[GESTURE] zoom activated", "metric", s.metric, "threshold", h.cfg.ActivationThreshold)
		}
		if s.zoomActive {
			rate := geometry.NormalizedRate(s.metric, h.minDimension()) * h.cfg.ZoomRate
			if zd := rate * dt; math.Abs(zd) > h.cfg.ZoomEpsilon {
				h.cam.ZoomAtPoint(pos.X, pos.Y, -zd)
				s.zoomDelta = zd
				h.stats.ZoomSteps++
			}
		}
	}

	// 4. pan
	h.pinAnchor(pos)

	// 5. velocity
	if dt > 0 {
		s.velocity.Push(pos.Sub(prev).Mul(1/dt), at)
	}

	// 6. rotation zone
	h.updateRotationZone(pos, at)
}

func (h *Handler) captureAnchor(pos r2.Point) {
	s := h.sess
	s.anchor = anchor{}
	if !h.cam.Ready() {
		return
	}
	ll, ok := h.cam.ScreenToLatLng(pos)
	s.anchor = anchor{ll: ll, valid: ok}
}

// pinAnchor pans so the anchor sits under pos. An anchor that could not be
// resolved earlier is captured at pos instead.
func (h *Handler) pinAnchor(pos r2.Point) {
	s := h.sess
	if !h.cam.Ready() {
		return
	}
	if !s.anchor.valid {
		h.captureAnchor(pos)
		return
	}
	cur, ok := h.cam.LatLngToScreen(s.anchor.ll)
	if !ok {
		return
	}
	if d := cur.Sub(pos); d.Norm() > 1e-9 {
		h.cam.PanBy(d.X, d.Y)
	}
}

func (h *Handler) updateRotationZone(pos r2.Point, at time.Duration) {
	s := h.sess
	var anchorScreen r2.Point
	anchorOK := false
	if s.anchor.valid && h.cam.Ready() {
		anchorScreen, anchorOK = h.cam.LatLngToScreen(s.anchor.ll)
	}

	step := s.rotation.Update(pos, anchorScreen, anchorOK, h.viewport, at)
	switch {
	case step.Entered:
		s.zoomActive = false
		s.trail.Clear()
		h.feedback.ShowRotation(step.Edge, step.Strength)
	case step.Left:
		h.feedback.HideRotation()
	case s.rotation.State().Active:
		h.feedback.ShowRotation(step.Edge, step.Strength)
	}
	if step.Rotate != 0 {
		h.rotate(step.Rotate, pos)
	}
}

// rotate turns the map by deg and pins the anchor back under pivot.
func (h *Handler) rotate(deg float64, pivot r2.Point) {
	if !h.cam.Ready() {
		return
	}
	h.cam.SetRotation(h.cam.Rotation() + deg)
	h.stats.RotationSteps++
	h.pinAnchor(pivot)
}

func (h *Handler) processPinch() {
	s := h.sess
	a, b, ok := h.pointers.Pair()
	if !ok {
		return
	}
	h.stats.PinchFrames++
	cur := measurePinch(a, b)
	if !s.pinch.valid || s.pinch.a != cur.a || s.pinch.b != cur.b {
		// New pair: take a baseline and move nothing this frame.
		s.pinch = cur
		return
	}
	if !h.cam.Ready() {
		return
	}

	prev := s.pinch
	ll, llOK := h.cam.ScreenToLatLng(prev.centroid)

	if prev.dist > 0 && cur.dist > 0 {
		if dz := math.Log2(cur.dist / prev.dist); math.Abs(dz) > h.cfg.ZoomEpsilon {
			h.cam.ZoomAtPoint(prev.centroid.X, prev.centroid.Y, dz)
		}
	}
	if da := geometry.WrapAngle(cur.angle - prev.angle); da != 0 {
		h.cam.SetRotation(h.cam.Rotation() + da*180/math.Pi)
	}

	target := prev.centroid
	if cur.centroid.Sub(prev.centroid).Norm() >= h.cfg.PanJitterThreshold {
		target = cur.centroid
	}
	if llOK {
		if p, ok := h.cam.LatLngToScreen(ll); ok {
			if d := p.Sub(target); d.Norm() > 1e-9 {
				h.cam.PanBy(d.X, d.Y)
			}
		}
	}

	s.pinch.dist, s.pinch.angle = cur.dist, cur.angle
	s.pinch.centroid = target
}

func (h *Handler) release(ev input.Event, withInertia bool) {
	if h.pointers.Get(ev.ID) == nil {
		return
	}
	before := h.pointers.Len()
	if before == 2 && h.pinchPending {
		// Apply the last throttled spread before the pair breaks up.
		h.pinchPending = false
		h.processPinch()
	}
	h.pointers.Remove(ev.ID)

	switch before {
	case 1:
		h.endSession(ev.Time, withInertia)
	case 2:
		h.beginDrag1(h.pointers.Primary(), ev.Time)
	}
}

func (h *Handler) endSession(at time.Duration, withInertia bool) {
	s := h.sess
	h.feedback.HideRotation()
	h.sess = nil
	h.pointers.Clear()
	h.stopTick()
	if s == nil || !withInertia {
		logger.Get().Debug("[GESTURE] session end", "inertia", false)
		return
	}
	v, interval, ok := s.velocity.Estimate(at)
	started := ok && h.inertia.Start(v, interval)
	if started {
		h.stats.Inertias++
	}
	logger.Get().Debug("[GESTURE] session end", "inertia", started, "vx", v.X, "vy", v.Y)
}

func (h *Handler) wheel(ev input.Event) {
	if !h.cam.Ready() {
		return
	}
	zd := -ev.Scroll.Y * h.cfg.WheelSensitivity
	if math.Abs(zd) <= h.cfg.ZoomEpsilon {
		return
	}
	h.cam.ZoomAtPoint(ev.Position.X, ev.Position.Y, zd)
	h.stats.WheelSteps++
}

func (h *Handler) startTick() {
	if h.tick == nil && h.sess != nil {
		h.tick = h.sched.Schedule(h.onFrame)
	}
}

func (h *Handler) stopTick() {
	if h.tick != nil {
		h.tick()
		h.tick = nil
	}
	h.pinchPending = false
}

// onFrame runs once per frame while a session is open.
func (h *Handler) onFrame(now time.Duration) {
	h.tick = nil
	if h.sess == nil {
		return
	}
	if h.pinchPending {
		h.pinchPending = false
		h.processPinch()
	}
	if h.pointers.Len() == 1 {
		if deg := h.sess.rotation.Tick(now); deg != 0 {
			h.rotate(deg, h.pointers.Primary().Last)
		}
	}
	h.startTick()
}

func (h *Handler) minDimension() float64 {
	return math.Min(h.viewport.X.Length(), h.viewport.Y.Length())
}
