package script

import (
	"fmt"
	"io"
	"time"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"

	"github.com/OpenTraceLab/OpenTraceMap/pkg/frame"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/gesture"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/mapview"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/pointer"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/rotation"
)

// Default replay surface, used until the script sets its own.
var (
	DefaultViewport = r2.RectFromPoints(r2.Point{}, r2.Point{X: 800, Y: 600})
	DefaultCenter   = s2.LatLngFromDegrees(0, 0)
)

const defaultZoom = 3

// Frame is the camera and gesture state at one point of a replay.
type Frame struct {
	At       time.Duration
	Center   s2.LatLng
	Zoom     float64
	Rotation float64
	State    gesture.State
	Inertia  bool
	Rotating bool
}

func (f Frame) String() string {
	return fmt.Sprintf("%8v  %-5s center=(%.6f,%.6f) zoom=%.4f rotation=%.2f inertia=%v",
		f.At, f.State, f.Center.Lat.Degrees(), f.Center.Lng.Degrees(), f.Zoom, f.Rotation, f.Inertia)
}

// Result is the outcome of a replay.
type Result struct {
	Final    Frame
	Frames   []Frame // every frame and step, when tracing
	Snapshot gesture.Snapshot
	Pointer  pointer.Stats
	Feedback int // rotation feedback updates shown
}

// Options configure a replay.
type Options struct {
	Config gesture.Config
	Trace  bool
	// SettleFrames bounds the frames run after the last step so inertia
	// can finish. Zero uses the inertia frame limit.
	SettleFrames int
}

type countingFeedback struct{ shown int }

func (f *countingFeedback) ShowRotation(rotation.Edge, float64) { f.shown++ }
func (f *countingFeedback) HideRotation()                       {}

type replay struct {
	opts  Options
	view  *mapview.View
	sched *frame.Manual
	h     *gesture.Handler
	mux   *pointer.Multiplexer
	fb    *countingFeedback
	res   Result
}

// Run replays p against a fresh reference view and returns its trace.
func Run(p *Program, opts Options) (*Result, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &replay{
		opts:  opts,
		view:  mapview.NewView(DefaultCenter, defaultZoom, cfg.MinZoom, cfg.MaxZoom, DefaultViewport),
		sched: frame.NewManual(cfg.Inertia.FrameInterval),
		fb:    &countingFeedback{},
	}
	r.h = gesture.NewHandler(cfg, r.view, r.sched, gesture.WithFeedback(r.fb))
	r.mux = pointer.NewMultiplexer(r.h)
	r.mux.SetViewport(DefaultViewport)

	for _, st := range p.Steps {
		r.advanceTo(st.At)
		r.apply(st)
		r.record(st.At)
	}

	settle := opts.SettleFrames
	if settle <= 0 {
		settle = cfg.Inertia.MaxFrames
	}
	for i := 0; i < settle && r.sched.Pending() > 0 && r.h.State() == gesture.Idle; i++ {
		r.tick()
	}

	r.res.Final = r.frame(r.sched.Now())
	r.res.Snapshot = r.h.Snapshot()
	r.res.Pointer = r.mux.Stats()
	r.res.Feedback = r.fb.shown
	return &r.res, nil
}

// RunString parses, compiles and replays src.
func RunString(src string, opts Options) (*Result, error) {
	f, err := ParseString(src)
	if err != nil {
		return nil, err
	}
	p, err := Compile(f)
	if err != nil {
		return nil, err
	}
	return Run(p, opts)
}

func (r *replay) apply(st Step) {
	switch st.Action {
	case ActInput:
		r.mux.Dispatch(st.Event)
	case ActViewport:
		r.view.SetViewport(st.Viewport)
		r.mux.SetViewport(st.Viewport)
	case ActCamera:
		r.view.SetCenter(st.Center)
		if st.Zoom != nil {
			r.view.SetZoom(*st.Zoom)
		}
		if st.Rotation != nil {
			r.view.SetRotation(*st.Rotation)
		}
	case ActEnable:
		r.mux.SetEnabled(st.Enabled)
	case ActMode:
		r.h.SetRotationMode(st.Mode)
	case ActWait:
	}
}

func (r *replay) advanceTo(t time.Duration) {
	for r.sched.Now()+r.sched.Interval() <= t {
		r.tick()
	}
}

func (r *replay) tick() {
	r.sched.Tick()
	r.record(r.sched.Now())
}

func (r *replay) record(at time.Duration) {
	if r.opts.Trace {
		r.res.Frames = append(r.res.Frames, r.frame(at))
	}
}

func (r *replay) frame(at time.Duration) Frame {
	snap := r.h.Snapshot()
	return Frame{
		At:       at,
		Center:   r.view.Center(),
		Zoom:     r.view.Zoom(),
		Rotation: r.view.Rotation(),
		State:    snap.State,
		Inertia:  snap.Inertia,
		Rotating: snap.Rotation.Active,
	}
}

// WriteTrace prints one line per recorded frame followed by the final state.
func (res *Result) WriteTrace(w io.Writer) error {
	for _, f := range res.Frames {
		if _, err := fmt.Fprintln(w, f); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "final     %v\n", res.Final)
	return err
}
