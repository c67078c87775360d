package inertia

import (
	"math"
	"time"

	"github.com/golang/geo/r2"

	"github.com/OpenTraceLab/OpenTraceMap/internal/logger"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/frame"
)

// Panner receives the inertia pan steps.
type Panner interface {
	PanBy(dx, dy float64)
}

type readier interface {
	Ready() bool
}

// Engine replays a release velocity as a decaying sequence of pans, one per
// frame. Pans are applied inverted: a finger moving right drags the view
// center left.
type Engine struct {
	cfg   Config
	sched frame.Scheduler
	pan   Panner

	delta  r2.Point // px per reference frame
	last   time.Duration
	frames int
	cancel frame.Cancel
	active bool
}

// NewEngine creates an idle engine.
func NewEngine(cfg Config, sched frame.Scheduler, pan Panner) *Engine {
	return &Engine{cfg: cfg, sched: sched, pan: pan}
}

// Start begins coasting from velocity v (px/s). interval is the observed
// spacing between input samples; zero falls back to the frame interval.
// It reports false, and stays idle, when the resulting per-frame delta is
// already below the minimum speed.
func (e *Engine) Start(v r2.Point, interval time.Duration) bool {
	e.Stop()
	if interval <= 0 {
		interval = e.cfg.FrameInterval
	}
	delta := v.Mul(interval.Seconds())
	if delta.Norm() < e.cfg.MinSpeed {
		logger.Get().Debug("[INERTIA] release below minimum speed", "delta", delta.Norm())
		return false
	}

	e.delta = delta
	e.frames = 0
	e.last = -1
	e.active = true
	e.cancel = e.sched.Schedule(e.step)
	logger.Get().Debug("[INERTIA] start", "dx", delta.X, "dy", delta.Y, "interval", interval)
	return true
}

// Stop cancels coasting. It is a no-op when idle.
func (e *Engine) Stop() {
	if !e.active {
		return
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.active = false
	logger.Get().Debug("[INERTIA] stop", "frames", e.frames)
}

// Active reports whether the engine is coasting.
func (e *Engine) Active() bool { return e.active }

// Delta returns the pan delta the next reference frame will apply.
func (e *Engine) Delta() r2.Point { return e.delta }

// Frames returns the number of frames run since the last Start.
func (e *Engine) Frames() int { return e.frames }

func (e *Engine) step(now time.Duration) {
	e.cancel = nil
	if !e.active {
		return
	}

	// The first frame always counts as one reference frame.
	scale := 1.0
	if e.last >= 0 && now > e.last {
		scale = float64(now-e.last) / float64(e.cfg.FrameInterval)
	}
	e.last = now

	if r, ok := e.pan.(readier); !ok || r.Ready() {
		d := e.delta.Mul(scale)
		e.pan.PanBy(-d.X, -d.Y)
	}

	e.delta = e.delta.Mul(math.Pow(e.cfg.Friction, scale))
	e.frames++

	if e.delta.Norm() < e.cfg.MinSpeed || e.frames >= e.cfg.MaxFrames {
		e.active = false
		logger.Get().Debug("[INERTIA] settled", "frames", e.frames)
		return
	}
	e.cancel = e.sched.Schedule(e.step)
}
