package mapview

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"
)

func newTestView() *View {
	vp := r2.RectFromPoints(r2.Point{}, r2.Point{X: 800, Y: 600})
	return NewView(s2.LatLngFromDegrees(48.8566, 2.3522), 12, 2, 19, vp)
}

func near(a, b r2.Point, tol float64) bool {
	return a.Sub(b).Norm() <= tol
}

func TestCenterProjectsToViewportCenter(t *testing.T) {
	v := newTestView()
	p, ok := v.LatLngToScreen(v.Center())
	if !ok || !near(p, r2.Point{X: 400, Y: 300}, 1e-6) {
		t.Fatalf("center projects to %v, %v", p, ok)
	}
}

func TestScreenRoundTrip(t *testing.T) {
	v := newTestView()
	for _, rot := range []float64{0, 30, 200} {
		v.SetRotation(rot)
		for _, p := range []r2.Point{{X: 0, Y: 0}, {X: 123, Y: 456}, {X: 800, Y: 600}} {
			ll, ok := v.ScreenToLatLng(p)
			if !ok {
				t.Fatalf("ScreenToLatLng(%v) failed", p)
			}
			back, _ := v.LatLngToScreen(ll)
			if !near(back, p, 1e-6) {
				t.Fatalf("rotation %v: %v -> %v -> %v", rot, p, ll, back)
			}
		}
	}
}

func TestZoomAtPointKeepsPointFixed(t *testing.T) {
	tests := []struct {
		name     string
		rotation float64
		p        r2.Point
		delta    float64
	}{
		{"in at corner", 0, r2.Point{X: 20, Y: 30}, 1.5},
		{"out off center", 0, r2.Point{X: 650, Y: 120}, -2},
		{"rotated", 45, r2.Point{X: 100, Y: 500}, 0.7},
		{"small step", 300, r2.Point{X: 401, Y: 299}, 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestView()
			v.SetRotation(tt.rotation)
			before, _ := v.ScreenToLatLng(tt.p)
			v.ZoomAtPoint(tt.p.X, tt.p.Y, tt.delta)
			after, ok := v.LatLngToScreen(before)
			if !ok || !near(after, tt.p, 1e-3) {
				t.Fatalf("point moved from %v to %v", tt.p, after)
			}
		})
	}
}

func TestZoomClamped(t *testing.T) {
	v := newTestView()
	if got := v.ZoomAtPoint(10, 10, 50); got != 19 {
		t.Fatalf("ZoomAtPoint applied %v, want 19", got)
	}
	if got := v.SetZoom(-4); got != 2 {
		t.Fatalf("SetZoom applied %v, want 2", got)
	}
}

func TestPanByMovesContentOpposite(t *testing.T) {
	v := newTestView()
	ll, _ := v.ScreenToLatLng(r2.Point{X: 400, Y: 300})
	v.PanBy(50, -20)
	p, _ := v.LatLngToScreen(ll)
	if !near(p, r2.Point{X: 350, Y: 320}, 1e-6) {
		t.Fatalf("content at %v after PanBy(50,-20), want (350,320)", p)
	}

	v.SetRotation(90)
	ll, _ = v.ScreenToLatLng(r2.Point{X: 400, Y: 300})
	v.PanBy(10, 0)
	p, _ = v.LatLngToScreen(ll)
	if !near(p, r2.Point{X: 390, Y: 300}, 1e-6) {
		t.Fatalf("rotated content at %v after PanBy(10,0), want (390,300)", p)
	}
}

func TestRotationNormalized(t *testing.T) {
	v := newTestView()
	v.SetRotation(-30)
	if got := v.Rotation(); math.Abs(got-330) > 1e-9 {
		t.Fatalf("Rotation() = %v, want 330", got)
	}
	v.SetRotation(725)
	if got := v.Rotation(); math.Abs(got-5) > 1e-9 {
		t.Fatalf("Rotation() = %v, want 5", got)
	}
}

func TestNotReady(t *testing.T) {
	v := newTestView()
	v.SetReady(false)
	if v.Ready() {
		t.Fatalf("Ready() after SetReady(false)")
	}
	if _, ok := v.ScreenToLatLng(r2.Point{X: 1, Y: 1}); ok {
		t.Fatalf("ScreenToLatLng succeeded while not ready")
	}
	v.SetReady(true)
	v.SetViewport(r2.EmptyRect())
	if v.Ready() {
		t.Fatalf("Ready() with empty viewport")
	}
}

func TestBoundsContainsCenter(t *testing.T) {
	v := newTestView()
	b := v.Bounds()
	if !b.ContainsLatLng(v.Center()) {
		t.Fatalf("bounds %v miss center %v", b, v.Center())
	}
	v.SetRotation(45)
	if rotated := v.Bounds(); rotated.Area() <= b.Area() {
		t.Fatalf("rotated bounds not larger than axis-aligned bounds")
	}
}

func TestAntimeridianProjection(t *testing.T) {
	vp := r2.RectFromPoints(r2.Point{}, r2.Point{X: 800, Y: 600})
	v := NewView(s2.LatLngFromDegrees(0, 179.999), 10, 0, 19, vp)
	p, ok := v.LatLngToScreen(s2.LatLngFromDegrees(0, -179.999))
	if !ok || p.X < 400 || p.X > 800 {
		t.Fatalf("point across the antimeridian at %v", p)
	}
}
