package mapview

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"
)

// Camera is the map camera the gesture core drives. Implementations own
// tile display; the core only issues camera moves.
type Camera interface {
	// Ready reports whether the camera can accept commands. While it
	// returns false every gesture step that needs the camera is skipped.
	Ready() bool

	Center() s2.LatLng
	SetCenter(ll s2.LatLng)

	// Zoom returns the current zoom level.
	Zoom() float64
	// SetZoom clamps z to the configured range and returns the level
	// actually applied.
	SetZoom(z float64) float64

	// Rotation returns the map rotation in degrees, clockwise on screen.
	Rotation() float64
	SetRotation(deg float64)

	// PanBy moves the view by dx, dy screen pixels. Map content moves the
	// opposite way.
	PanBy(dx, dy float64)

	// ZoomAtPoint changes the zoom level by delta while the geographic
	// location under screen point (x, y) stays under it. Any projection
	// distortion is the implementation's concern. It returns the zoom
	// level actually applied.
	ZoomAtPoint(x, y, delta float64) float64

	// Bounds returns the geographic area currently visible.
	Bounds() s2.Rect
}

// Projector converts between screen pixels and geographic coordinates.
// The bool result is false when the conversion is not possible this frame.
type Projector interface {
	ScreenToLatLng(p r2.Point) (s2.LatLng, bool)
	LatLngToScreen(ll s2.LatLng) (r2.Point, bool)
}

// Map is a camera that can also project coordinates.
type Map interface {
	Camera
	Projector
}
