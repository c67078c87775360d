package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"

	"github.com/OpenTraceLab/OpenTraceMap/pkg/gesture"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/mapview"
)

var emptyViewport = r2.EmptyRect()

var (
	colorLand      = color.NRGBA{R: 222, G: 232, B: 214, A: 255}
	colorLandDark  = color.NRGBA{R: 30, G: 38, B: 34, A: 255}
	colorGrid      = color.NRGBA{R: 90, G: 110, B: 140, A: 110}
	colorEquator   = color.NRGBA{R: 200, G: 80, B: 60, A: 200}
	colorAnchor    = color.NRGBA{R: 255, G: 140, B: 0, A: 230}
	colorRotateTab = color.NRGBA{R: 80, G: 120, B: 255, A: 255}
)

// segment is a screen-space line.
type segment struct {
	a, b  r2.Point
	major bool // equator or prime meridian
}

// layoutMap feeds input to the gesture stack, runs due frame callbacks and
// draws the view.
func (a *App) layoutMap(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Max
	vp := r2.RectFromPoints(r2.Point{}, r2.Point{X: float64(size.X), Y: float64(size.Y)})
	a.view.SetViewport(vp)
	a.mux.SetViewport(vp)

	a.handleKeys(gtx)
	a.input.Update(gtx)
	a.sched.Frame(gtx)

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	bg := colorLand
	if a.darkMode {
		bg = colorLandDark
	}
	paint.Fill(gtx.Ops, bg)

	for _, s := range graticule(a.view, a.view.Bounds(), graticuleStep(a.view.Zoom())) {
		c, w := colorGrid, float32(1)
		if s.major {
			c, w = colorEquator, 2
		}
		drawLine(gtx, s.a, s.b, w, c)
	}

	snap := a.handler.Snapshot()
	if snap.HasAnchor {
		if p, ok := a.view.LatLngToScreen(snap.Anchor); ok {
			drawDot(gtx, p, float32(gtx.Dp(unit.Dp(5))), colorAnchor)
		}
	}
	a.indicator.Layout(gtx, colorRotateTab)

	layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		lbl := material.Caption(a.gvTheme.Theme, joinLines(statusLines(snap, a.mux.Stats().Dropped)))
		return lbl.Layout(gtx)
	})

	a.input.Add(gtx.Ops)
	return layout.Dimensions{Size: size}
}

// handleKeys implements the keyboard fallbacks: +/- zoom about the center
// and R to face north.
func (a *App) handleKeys(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(
			key.Filter{Name: "+", Optional: key.ModShift},
			key.Filter{Name: "-"},
			key.Filter{Name: "R"},
		)
		if !ok {
			return
		}
		e, ok := ev.(key.Event)
		if !ok || e.State != key.Press {
			continue
		}
		c := a.view.Viewport().Center()
		switch e.Name {
		case "+":
			a.view.ZoomAtPoint(c.X, c.Y, 1)
		case "-":
			a.view.ZoomAtPoint(c.X, c.Y, -1)
		case "R":
			a.view.SetRotation(0)
		}
		a.Logf("[VIEW] key %s: %s", e.Name, a.view)
		gtx.Execute(op.InvalidateCmd{})
	}
}

// graticuleStep picks a grid spacing in degrees that keeps roughly the same
// number of lines on screen at every zoom.
func graticuleStep(zoom float64) float64 {
	z := math.Max(0, math.Floor(zoom))
	return 90 / math.Exp2(z)
}

// graticule returns the parallels and meridians spaced step degrees apart
// that fall inside bounds, projected through p. Parallels are split at each
// meridian so that every piece stays short enough to project onto one copy
// of the world.
func graticule(p mapview.Projector, bounds s2.Rect, step float64) []segment {
	if bounds.IsEmpty() || step <= 0 {
		return nil
	}
	latLo := math.Max(bounds.Lat.Lo*180/math.Pi, -mapview.MaxLatitude)
	latHi := math.Min(bounds.Lat.Hi*180/math.Pi, mapview.MaxLatitude)
	lngLo := bounds.Lng.Lo * 180 / math.Pi
	lngHi := bounds.Lng.Hi * 180 / math.Pi
	if bounds.Lng.IsFull() {
		lngLo, lngHi = -180, 180
	} else if lngHi < lngLo {
		lngHi += 360
	}

	meridians := ticks(lngLo, lngHi, step)
	parallels := ticks(latLo, latHi, step)

	var out []segment
	add := func(a, b s2.LatLng, major bool) {
		pa, okA := p.LatLngToScreen(a)
		pb, okB := p.LatLngToScreen(b)
		if okA && okB {
			out = append(out, segment{a: pa, b: pb, major: major})
		}
	}
	for _, lng := range meridians {
		add(s2.LatLngFromDegrees(latLo, lng), s2.LatLngFromDegrees(latHi, lng), math.Mod(lng, 360) == 0)
	}
	edges := append([]float64{lngLo}, meridians...)
	edges = append(edges, lngHi)
	for _, lat := range parallels {
		for i := 1; i < len(edges); i++ {
			if edges[i] > edges[i-1] {
				add(s2.LatLngFromDegrees(lat, edges[i-1]), s2.LatLngFromDegrees(lat, edges[i]), lat == 0)
			}
		}
	}
	return out
}

// ticks returns the multiples of step in [lo, hi].
func ticks(lo, hi, step float64) []float64 {
	var out []float64
	for v := math.Ceil(lo/step) * step; v <= hi; v += step {
		out = append(out, v)
	}
	return out
}

func statusLines(s gesture.Snapshot, dropped int) []string {
	lines := []string{
		fmt.Sprintf("state %s, %d pointer(s)", s.State, s.Pointers),
		fmt.Sprintf("metric %.0f  zoom %v  blocked %v", s.Metric, s.ZoomActive, s.ZoomBlocked),
	}
	if s.Rotation.Active {
		lines = append(lines, fmt.Sprintf("rotating at %s edge", s.Rotation.Edge))
	}
	if s.Inertia {
		lines = append(lines, "inertia")
	}
	lines = append(lines, fmt.Sprintf("moves %d  zoom steps %d  rotations %d  flings %d  dropped %d",
		s.Stats.Moves, s.Stats.ZoomSteps, s.Stats.RotationSteps, s.Stats.Inertias, dropped))
	return lines
}

func drawLine(gtx layout.Context, a, b r2.Point, width float32, c color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(float32(a.X), float32(a.Y)))
	path.LineTo(f32.Pt(float32(b.X), float32(b.Y)))
	paint.FillShape(gtx.Ops, c, clip.Stroke{Path: path.End(), Width: width}.Op())
}

func drawDot(gtx layout.Context, p r2.Point, radius float32, c color.NRGBA) {
	r := int(radius)
	x, y := int(p.X), int(p.Y)
	ellipse := clip.Ellipse{Min: image.Pt(x-r, y-r), Max: image.Pt(x+r, y+r)}
	paint.FillShape(gtx.Ops, c, ellipse.Op(gtx.Ops))
}
