package pointer

import (
	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"github.com/golang/geo/r2"

	"github.com/OpenTraceLab/OpenTraceMap/pkg/input"
)

const scrollLimit = 1 << 20

// filterKinds leaves out pointer.Move: hover carries no button, and a
// pressed pointer reports its motion as Drag.
const filterKinds = pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel | pointer.Scroll

// Gio connects a Multiplexer to a gio input area. Stack the area above the
// map layer so it sees events first.
type Gio struct {
	mux *Multiplexer
}

// NewGio binds m.
func NewGio(m *Multiplexer) *Gio {
	return &Gio{mux: m}
}

// Add registers the input area in the current clip. Nothing is registered
// while the multiplexer is disabled, so events reach the layers below.
func (g *Gio) Add(ops *op.Ops) {
	if !g.mux.Enabled() {
		return
	}
	event.Op(ops, g)
}

// Update drains pending pointer events into the multiplexer and returns how
// many were forwarded.
func (g *Gio) Update(gtx layout.Context) int {
	n := 0
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  g,
			Kinds:   filterKinds,
			ScrollX: pointer.ScrollRange{Min: -scrollLimit, Max: scrollLimit},
			ScrollY: pointer.ScrollRange{Min: -scrollLimit, Max: scrollLimit},
		})
		if !ok {
			break
		}
		pev, ok := ev.(pointer.Event)
		if !ok {
			continue
		}

		in := input.Event{
			ID:       input.ID(pev.PointerID),
			Position: toR2(pev.Position),
			Scroll:   toR2(pev.Scroll),
			Time:     pev.Time,
		}
		if pev.Kind == pointer.Cancel {
			// gio cancels every pointer of the handler at once.
			g.mux.CancelAll(in)
			continue
		}
		kind, ok := kindOf(pev.Kind)
		if !ok {
			continue
		}
		in.Kind = kind

		if g.mux.Dispatch(in) {
			n++
			if pev.Kind == pointer.Press {
				gtx.Execute(pointer.GrabCmd{Tag: g, ID: pev.PointerID})
			}
		}
	}
	if n > 0 {
		gtx.Execute(op.InvalidateCmd{})
	}
	return n
}

// kindOf maps the gio kinds the core consumes. Hover moves and anything
// else report false.
func kindOf(k pointer.Kind) (input.Kind, bool) {
	switch k {
	case pointer.Press:
		return input.Press, true
	case pointer.Drag:
		return input.Move, true
	case pointer.Release:
		return input.Release, true
	case pointer.Cancel:
		return input.Cancel, true
	case pointer.Scroll:
		return input.Scroll, true
	}
	return 0, false
}

func toR2(p f32.Point) r2.Point {
	return r2.Point{X: float64(p.X), Y: float64(p.Y)}
}
