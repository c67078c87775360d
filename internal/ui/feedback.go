package ui

import (
	"image"
	"image/color"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"

	"github.com/OpenTraceLab/OpenTraceMap/pkg/gesture"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/rotation"
)

// rotationIndicator draws a band along the edge the user is rotating from.
// Its opacity follows the rotation strength.
type rotationIndicator struct {
	visible  bool
	edge     rotation.Edge
	strength float64
}

var _ gesture.Feedback = (*rotationIndicator)(nil)

func (r *rotationIndicator) ShowRotation(edge rotation.Edge, strength float64) {
	r.visible = edge != rotation.EdgeNone
	r.edge = edge
	r.strength = clamp01(strength)
}

func (r *rotationIndicator) HideRotation() {
	r.visible = false
	r.edge = rotation.EdgeNone
	r.strength = 0
}

// band returns the rectangle to fill for a viewport of size, or an empty
// rectangle when nothing is shown.
func (r *rotationIndicator) band(size image.Point, width int) image.Rectangle {
	if !r.visible {
		return image.Rectangle{}
	}
	switch r.edge {
	case rotation.EdgeLeft:
		return image.Rect(0, 0, width, size.Y)
	case rotation.EdgeRight:
		return image.Rect(size.X-width, 0, size.X, size.Y)
	}
	return image.Rectangle{}
}

// alpha keeps a faint band at zero strength so entering a zone is visible.
func (r *rotationIndicator) alpha() uint8 {
	return uint8(60 + 160*r.strength)
}

func (r *rotationIndicator) Layout(gtx layout.Context, c color.NRGBA) {
	rect := r.band(gtx.Constraints.Max, gtx.Dp(unit.Dp(10)))
	if rect.Empty() {
		return
	}
	c.A = r.alpha()
	paint.FillShape(gtx.Ops, c, clip.Rect(rect).Op())
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
