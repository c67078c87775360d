package rotation

import (
	"math"
	"testing"
	"time"

	"github.com/golang/geo/r2"
)

var viewport = r2.RectFromPoints(r2.Point{X: 0, Y: 0}, r2.Point{X: 1000, Y: 600})

func TestEdgeRate(t *testing.T) {
	cfg := DefaultConfig() // start 0.12, end 0.03, 90 deg/s
	tests := []struct {
		name string
		p    r2.Point
		rate float64
		edge Edge
	}{
		{"center", r2.Point{X: 500, Y: 300}, 0, EdgeNone},
		{"just outside start", r2.Point{X: 870, Y: 100}, 0, EdgeNone},
		{"right upper full", r2.Point{X: 990, Y: 100}, 90, EdgeRight},
		{"right lower full", r2.Point{X: 990, Y: 500}, -90, EdgeRight},
		{"left upper full", r2.Point{X: 10, Y: 100}, -90, EdgeLeft},
		{"left lower full", r2.Point{X: 10, Y: 500}, 90, EdgeLeft},
		{"right upper halfway", r2.Point{X: 925, Y: 100}, 45, EdgeRight},
		{"left lower halfway", r2.Point{X: 75, Y: 500}, 45, EdgeLeft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, edge := EdgeRate(cfg, tt.p, viewport)
			if math.Abs(rate-tt.rate) > 1e-9 || edge != tt.edge {
				t.Fatalf("EdgeRate(%v) = %v, %v, want %v, %v", tt.p, rate, edge, tt.rate, tt.edge)
			}
		})
	}
}

func TestEdgeRateMonotonic(t *testing.T) {
	cfg := DefaultConfig()
	prev := 0.0
	for x := 880.0; x <= 1000; x += 5 {
		rate, _ := EdgeRate(cfg, r2.Point{X: x, Y: 100}, viewport)
		if rate < prev {
			t.Fatalf("rate at x=%v is %v, below %v", x, rate, prev)
		}
		prev = rate
	}
}

func TestDetectorEdgeTicks(t *testing.T) {
	d := NewDetector(DefaultConfig())
	d.Begin(0)

	step := d.Update(r2.Point{X: 995, Y: 100}, r2.Point{}, false, viewport, 10*time.Millisecond)
	if !step.Entered || step.Edge != EdgeRight {
		t.Fatalf("Update near right edge = %+v, want entered right", step)
	}
	if step.Strength != 1 {
		t.Fatalf("Strength = %v, want 1", step.Strength)
	}

	if got := d.Tick(100 * time.Millisecond); got != 0 {
		t.Fatalf("first Tick = %v, want 0", got)
	}
	// The finger holds still; every tick keeps rotating.
	for i := 1; i <= 3; i++ {
		got := d.Tick(time.Duration(100+i*100) * time.Millisecond)
		if math.Abs(got-9) > 1e-9 {
			t.Fatalf("tick %d rotated %v, want 9", i, got)
		}
	}

	step = d.Update(r2.Point{X: 500, Y: 100}, r2.Point{}, false, viewport, time.Second)
	if !step.Left {
		t.Fatalf("Update at center = %+v, want left", step)
	}
	if got := d.Tick(2 * time.Second); got != 0 {
		t.Fatalf("Tick outside zone = %v", got)
	}
}

func TestDetectorZoomGuard(t *testing.T) {
	d := NewDetector(DefaultConfig())
	guard := 150 * time.Millisecond
	d.Begin(time.Second)

	if !d.ZoomBlocked(time.Second+100*time.Millisecond, guard) {
		t.Fatalf("zoom allowed inside guard period")
	}
	if d.ZoomBlocked(time.Second+200*time.Millisecond, guard) {
		t.Fatalf("zoom blocked after guard period")
	}

	d.Update(r2.Point{X: 5, Y: 5}, r2.Point{}, false, viewport, 2*time.Second)
	if !d.ZoomBlocked(10*time.Second, guard) {
		t.Fatalf("zoom allowed inside rotation zone")
	}

	// Leaving restarts the guard.
	d.Update(r2.Point{X: 500, Y: 5}, r2.Point{}, false, viewport, 3*time.Second)
	if !d.ZoomBlocked(3*time.Second+50*time.Millisecond, guard) {
		t.Fatalf("zoom allowed right after leaving the zone")
	}
	if d.ZoomBlocked(3*time.Second+guard, guard) {
		t.Fatalf("zoom blocked after the restarted guard")
	}
}

func TestDetectorGear(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeGear
	cfg.RollingRadius = 100
	d := NewDetector(cfg)
	d.Begin(0)

	// Anchor off-screen to the right is clamped onto the edge.
	step := d.Update(r2.Point{X: 990, Y: 300}, r2.Point{X: 1200, Y: 300}, true, viewport, 0)
	if !step.Entered || step.Edge != EdgeRight || step.Rotate != 0 {
		t.Fatalf("enter = %+v", step)
	}
	step = d.Update(r2.Point{X: 990, Y: 400}, r2.Point{X: 995, Y: 400}, true, viewport, 0)
	if math.Abs(step.Rotate-180/math.Pi) > 1e-9 {
		t.Fatalf("Rotate = %v, want one radian in degrees", step.Rotate)
	}

	// Unresolved anchor keeps the zone.
	step = d.Update(r2.Point{X: 500, Y: 400}, r2.Point{}, false, viewport, 0)
	if step.Left || !d.State().Active {
		t.Fatalf("zone changed while anchor unresolved: %+v", step)
	}

	if d.Tick(time.Second) != 0 {
		t.Fatalf("gear mode rotated on tick")
	}
}

func TestGearRotationSign(t *testing.T) {
	if got := GearRotation(EdgeLeft, 50, 50); math.Abs(got+180/math.Pi) > 1e-9 {
		t.Fatalf("left edge rotation = %v", got)
	}
	if got := GearRotation(EdgeNone, 50, 50); got != 0 {
		t.Fatalf("no edge rotation = %v", got)
	}
}

func TestGearEdgeMargin(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		anchor r2.Point
		want   Edge
	}{
		{r2.Point{X: 20, Y: 10}, EdgeLeft},
		{r2.Point{X: -300, Y: 10}, EdgeLeft},
		{r2.Point{X: 980, Y: 10}, EdgeRight},
		{r2.Point{X: 100, Y: 10}, EdgeNone},
	}
	for _, tt := range tests {
		if got := GearEdge(cfg, tt.anchor, viewport); got != tt.want {
			t.Fatalf("GearEdge(%v) = %v, want %v", tt.anchor, got, tt.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"edge", "Gear"} {
		m, err := ParseMode(s)
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", s, err)
		}
		var back Mode
		text, _ := m.MarshalText()
		if err := back.UnmarshalText(text); err != nil || back != m {
			t.Fatalf("text round trip of %v gave %v, %v", m, back, err)
		}
	}
	if _, err := ParseMode("spin"); err == nil {
		t.Fatalf("ParseMode accepted spin")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default invalid: %v", err)
	}
	c := DefaultConfig()
	c.EdgeEndRatio = 0.2
	if c.Validate() == nil {
		t.Fatalf("end ratio above start accepted")
	}
	c = DefaultConfig()
	c.RollingRadius = 0
	if c.Validate() == nil {
		t.Fatalf("zero rolling radius accepted")
	}
}
