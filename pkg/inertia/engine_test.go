package inertia

import (
	"math"
	"testing"
	"time"

	"github.com/golang/geo/r2"

	"github.com/OpenTraceLab/OpenTraceMap/pkg/frame"
)

type panRecorder struct {
	pans     []r2.Point
	notReady bool
}

func (p *panRecorder) PanBy(dx, dy float64) { p.pans = append(p.pans, r2.Point{X: dx, Y: dy}) }
func (p *panRecorder) Ready() bool          { return !p.notReady }

func TestEngineDecaysByFriction(t *testing.T) {
	cfg := DefaultConfig()
	sched := frame.NewManual(cfg.FrameInterval)
	rec := &panRecorder{}
	e := NewEngine(cfg, sched, rec)

	// 1000 px/s sampled every 16ms is 16 px per frame.
	if !e.Start(r2.Point{X: 1000}, 16*time.Millisecond) {
		t.Fatalf("Start returned false")
	}
	n := sched.Drain(cfg.MaxFrames + 10)
	if e.Active() {
		t.Fatalf("engine still active after %d frames", n)
	}
	if len(rec.pans) < 2 {
		t.Fatalf("got %d pans, want several", len(rec.pans))
	}
	if got := rec.pans[0].X; math.Abs(got+16) > 1e-9 {
		t.Fatalf("first pan = %v, want -16", got)
	}
	for i := 1; i < len(rec.pans); i++ {
		prev, cur := rec.pans[i-1].X, rec.pans[i].X
		if math.Abs(cur) >= math.Abs(prev) {
			t.Fatalf("pan %d = %v not smaller than %v", i, cur, prev)
		}
		if ratio := cur / prev; math.Abs(ratio-cfg.Friction) > 1e-9 {
			t.Fatalf("pan %d ratio = %v, want %v", i, ratio, cfg.Friction)
		}
	}
	last := rec.pans[len(rec.pans)-1].X
	if math.Abs(last*cfg.Friction) >= cfg.MinSpeed {
		t.Fatalf("stopped while next delta %v still above min speed", last*cfg.Friction)
	}
	// 16 * 0.92^n < 0.5 first holds at n = 42.
	if len(rec.pans) != 42 {
		t.Fatalf("ran %d frames, want 42", len(rec.pans))
	}
}

func TestEngineFrameRateIndependent(t *testing.T) {
	cfg := DefaultConfig()
	fast := &panRecorder{}
	slow := &panRecorder{}

	s1 := frame.NewManual(cfg.FrameInterval)
	e1 := NewEngine(cfg, s1, fast)
	e1.Start(r2.Point{Y: 2000}, cfg.FrameInterval)
	s1.Drain(1000)

	s2 := frame.NewManual(2 * cfg.FrameInterval)
	e2 := NewEngine(cfg, s2, slow)
	e2.Start(r2.Point{Y: 2000}, cfg.FrameInterval)
	s2.Drain(1000)

	total := func(p []r2.Point) float64 {
		var s float64
		for _, d := range p {
			s += d.Y
		}
		return s
	}
	// Each frame pans with the delta from its start, so longer frames
	// overshoot a little; the distances must still be close.
	a, b := total(fast.pans), total(slow.pans)
	if math.Abs(a-b) > 0.1*math.Abs(a) {
		t.Fatalf("distance at 16ms = %v, at 32ms = %v", a, b)
	}
}

func TestEngineMaxFrames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Friction = 0.999
	cfg.MaxFrames = 5
	sched := frame.NewManual(cfg.FrameInterval)
	rec := &panRecorder{}
	e := NewEngine(cfg, sched, rec)
	e.Start(r2.Point{X: 5000}, 0)
	sched.Drain(100)
	if len(rec.pans) != 5 || e.Active() {
		t.Fatalf("pans = %d active = %v, want 5 and false", len(rec.pans), e.Active())
	}
}

func TestEngineBelowMinSpeed(t *testing.T) {
	cfg := DefaultConfig()
	sched := frame.NewManual(cfg.FrameInterval)
	e := NewEngine(cfg, sched, &panRecorder{})
	if e.Start(r2.Point{X: 10}, 16*time.Millisecond) {
		t.Fatalf("Start accepted 0.16 px/frame")
	}
	if sched.Pending() != 0 {
		t.Fatalf("scheduled work for a rejected start")
	}
}

func TestEngineStopCancels(t *testing.T) {
	cfg := DefaultConfig()
	sched := frame.NewManual(cfg.FrameInterval)
	rec := &panRecorder{}
	e := NewEngine(cfg, sched, rec)
	e.Start(r2.Point{X: 1000}, 16*time.Millisecond)
	sched.TickN(3)
	e.Stop()
	sched.TickN(10)
	if len(rec.pans) != 3 {
		t.Fatalf("pans after stop = %d, want 3", len(rec.pans))
	}
	if e.Active() {
		t.Fatalf("Active() after Stop")
	}
	e.Stop()
}

func TestEngineSkipsPanWhileNotReady(t *testing.T) {
	cfg := DefaultConfig()
	sched := frame.NewManual(cfg.FrameInterval)
	rec := &panRecorder{notReady: true}
	e := NewEngine(cfg, sched, rec)
	e.Start(r2.Point{X: 1000}, 16*time.Millisecond)
	sched.TickN(2)
	if len(rec.pans) != 0 {
		t.Fatalf("panned %d times while not ready", len(rec.pans))
	}
	if !e.Active() {
		t.Fatalf("engine stopped while camera not ready")
	}
}

func TestSamplesEstimate(t *testing.T) {
	s := NewSamples(4, 100*time.Millisecond)
	ms := time.Millisecond
	s.Push(r2.Point{X: 999}, 0) // stale by the time of release
	s.Push(r2.Point{X: 100}, 150*ms)
	s.Push(r2.Point{X: 200}, 170*ms)
	s.Push(r2.Point{X: 300}, 190*ms)

	v, interval, ok := s.Estimate(200 * ms)
	if !ok {
		t.Fatalf("Estimate not ok")
	}
	// (1*100 + 2*200 + 3*300) / 6
	if want := 1400.0 / 6; math.Abs(v.X-want) > 1e-9 {
		t.Fatalf("v.X = %v, want %v", v.X, want)
	}
	if interval != 20*ms {
		t.Fatalf("interval = %v, want 20ms", interval)
	}

	if _, _, ok := s.Estimate(time.Second); ok {
		t.Fatalf("Estimate ok with only stale samples")
	}
}

func TestSamplesRingOverwrite(t *testing.T) {
	s := NewSamples(3, time.Hour)
	for i := 1; i <= 5; i++ {
		s.Push(r2.Point{X: float64(i)}, time.Duration(i))
	}
	got := s.Recent(5)
	if len(got) != 3 || got[0].V.X != 3 || got[2].V.X != 5 {
		t.Fatalf("Recent = %v, want samples 3..5", got)
	}
	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("Len after Clear = %d", s.Len())
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"friction one", func(c *Config) { c.Friction = 1 }},
		{"friction zero", func(c *Config) { c.Friction = 0 }},
		{"min speed", func(c *Config) { c.MinSpeed = 0 }},
		{"window", func(c *Config) { c.VelocityWindow = 0 }},
		{"samples", func(c *Config) { c.MaxSamples = 0 }},
		{"frame interval", func(c *Config) { c.FrameInterval = -1 }},
		{"max frames", func(c *Config) { c.MaxFrames = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mod(&c)
			if err := c.Validate(); err == nil {
				t.Fatalf("Validate accepted %+v", c)
			}
		})
	}
}
