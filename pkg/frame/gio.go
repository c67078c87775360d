package frame

import (
	"time"

	"gioui.org/layout"
	"gioui.org/op"
)

// Gio is a Scheduler that runs callbacks on gio frames. The window's frame
// loop calls Frame once per FrameEvent.
type Gio struct {
	q    queue
	base time.Time
}

var _ Scheduler = (*Gio)(nil)

// NewGio returns a scheduler whose clock starts at the first frame.
func NewGio() *Gio { return &Gio{} }

// Schedule implements Scheduler. The caller must also invalidate the
// window if no frame is already on its way.
func (g *Gio) Schedule(fn Callback) Cancel { return g.q.schedule(fn) }

// Frame runs the waiting callbacks at gtx.Now and requests another frame
// while work remains.
func (g *Gio) Frame(gtx layout.Context) {
	if g.base.IsZero() {
		g.base = gtx.Now
	}
	g.q.run(gtx.Now.Sub(g.base))
	if g.q.len() > 0 {
		gtx.Execute(op.InvalidateCmd{})
	}
}

// Pending reports whether callbacks are waiting for a frame.
func (g *Gio) Pending() bool { return g.q.len() > 0 }
