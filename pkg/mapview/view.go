// Package mapview defines the camera capabilities the gesture core needs
// and provides View, a Web Mercator reference implementation.
package mapview

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const (
	// TileSize is the width of one Web Mercator tile in pixels.
	TileSize = 256.0
	// MaxLatitude is the Web Mercator latitude limit in degrees.
	MaxLatitude = 85.05112878
)

// View is an in-memory map camera using the Web Mercator projection.
// Rotation happens about the viewport center.
type View struct {
	center   s2.LatLng
	zoom     float64
	rotation float64 // degrees in [0, 360)

	viewport r2.Rect

	minZoom float64
	maxZoom float64

	notReady bool
}

var _ Map = (*View)(nil)

// NewView creates a view centered on center at zoom, clamped to
// [minZoom, maxZoom].
func NewView(center s2.LatLng, zoom, minZoom, maxZoom float64, viewport r2.Rect) *View {
	v := &View{
		center:   clampLatLng(center),
		minZoom:  minZoom,
		maxZoom:  maxZoom,
		viewport: viewport,
	}
	v.zoom = v.clampZoom(zoom)
	return v
}

// SetViewport updates the screen rectangle, e.g. after a window resize.
func (v *View) SetViewport(r r2.Rect) { v.viewport = r }

// Viewport returns the screen rectangle.
func (v *View) Viewport() r2.Rect { return v.viewport }

// SetReady toggles readiness, standing in for a map engine that is still
// loading.
func (v *View) SetReady(ready bool) { v.notReady = !ready }

// SetZoomRange changes the zoom bounds and re-clamps the current level.
func (v *View) SetZoomRange(minZoom, maxZoom float64) {
	v.minZoom, v.maxZoom = minZoom, maxZoom
	v.zoom = v.clampZoom(v.zoom)
}

// Ready implements Camera.
func (v *View) Ready() bool { return !v.notReady && !v.viewport.IsEmpty() }

// Center implements Camera.
func (v *View) Center() s2.LatLng { return v.center }

// SetCenter implements Camera.
func (v *View) SetCenter(ll s2.LatLng) { v.center = clampLatLng(ll) }

// Zoom implements Camera.
func (v *View) Zoom() float64 { return v.zoom }

// SetZoom implements Camera.
func (v *View) SetZoom(z float64) float64 {
	v.zoom = v.clampZoom(z)
	return v.zoom
}

// Rotation implements Camera.
func (v *View) Rotation() float64 { return v.rotation }

// SetRotation implements Camera.
func (v *View) SetRotation(deg float64) {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	v.rotation = deg
}

// PanBy implements Camera.
func (v *View) PanBy(dx, dy float64) {
	c := project(v.center, v.zoom)
	c = c.Add(rotate(r2.Point{X: dx, Y: dy}, -v.rotation))
	v.center = clampLatLng(unproject(c, v.zoom))
}

// ZoomAtPoint implements Camera. Web Mercator scales uniformly with zoom,
// so holding the point fixed only needs the world position of the point
// before the change.
func (v *View) ZoomAtPoint(x, y, delta float64) float64 {
	p := r2.Point{X: x, Y: y}
	ll := unproject(v.screenToWorld(p), v.zoom)

	v.zoom = v.clampZoom(v.zoom + delta)

	// Place the center so that ll lands on p at the new zoom.
	w := project(ll, v.zoom)
	offset := rotate(p.Sub(v.viewport.Center()), -v.rotation)
	v.center = clampLatLng(unproject(w.Sub(offset), v.zoom))
	return v.zoom
}

// Bounds implements Camera. The rectangle covers all four viewport
// corners, so it grows with rotation.
func (v *View) Bounds() s2.Rect {
	rect := s2.EmptyRect()
	for _, corner := range v.viewport.Vertices() {
		rect = rect.AddPoint(unproject(v.screenToWorld(corner), v.zoom))
	}
	return rect
}

// ScreenToLatLng implements Projector.
func (v *View) ScreenToLatLng(p r2.Point) (s2.LatLng, bool) {
	if !v.Ready() {
		return s2.LatLng{}, false
	}
	ll := unproject(v.screenToWorld(p), v.zoom)
	if !ll.IsValid() {
		return s2.LatLng{}, false
	}
	return ll, true
}

// LatLngToScreen implements Projector.
func (v *View) LatLngToScreen(ll s2.LatLng) (r2.Point, bool) {
	if !v.Ready() || !ll.IsValid() {
		return r2.Point{}, false
	}
	size := worldSize(v.zoom)
	d := project(ll, v.zoom).Sub(project(v.center, v.zoom))
	// Pick the copy of the world nearest the center.
	if d.X > size/2 {
		d.X -= size
	} else if d.X < -size/2 {
		d.X += size
	}
	return v.viewport.Center().Add(rotate(d, v.rotation)), true
}

func (v *View) String() string {
	return fmt.Sprintf("center=(%.6f,%.6f) zoom=%.3f rotation=%.1f°",
		v.center.Lat.Degrees(), v.center.Lng.Degrees(), v.zoom, v.rotation)
}

func (v *View) screenToWorld(p r2.Point) r2.Point {
	offset := rotate(p.Sub(v.viewport.Center()), -v.rotation)
	return project(v.center, v.zoom).Add(offset)
}

func (v *View) clampZoom(z float64) float64 {
	return math.Max(v.minZoom, math.Min(v.maxZoom, z))
}

func worldSize(zoom float64) float64 {
	return TileSize * math.Exp2(zoom)
}

// project maps ll to Web Mercator world pixels at zoom.
func project(ll s2.LatLng, zoom float64) r2.Point {
	size := worldSize(zoom)
	x := (ll.Lng.Radians()/math.Pi + 1) / 2
	y := (1 - math.Asinh(math.Tan(ll.Lat.Radians()))/math.Pi) / 2
	return r2.Point{X: x * size, Y: y * size}
}

// unproject maps Web Mercator world pixels at zoom back to a LatLng with
// the longitude wrapped to [-180, 180].
func unproject(p r2.Point, zoom float64) s2.LatLng {
	size := worldSize(zoom)
	lat := math.Atan(math.Sinh(math.Pi * (1 - 2*p.Y/size)))
	lng := (p.X/size*2 - 1) * math.Pi
	return s2.LatLng{Lat: s1.Angle(lat), Lng: s1.Angle(lng)}.Normalized()
}

// rotate turns p clockwise on screen by deg degrees.
func rotate(p r2.Point, deg float64) r2.Point {
	if deg == 0 {
		return p
	}
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return r2.Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
}

func clampLatLng(ll s2.LatLng) s2.LatLng {
	ll = ll.Normalized()
	limit := s1.Angle(MaxLatitude) * s1.Degree
	if ll.Lat > limit {
		ll.Lat = limit
	} else if ll.Lat < -limit {
		ll.Lat = -limit
	}
	return ll
}
