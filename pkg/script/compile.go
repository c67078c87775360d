package script

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"

	"github.com/OpenTraceLab/OpenTraceMap/pkg/input"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/rotation"
)

// Action is what a compiled step does.
type Action uint8

const (
	ActInput Action = iota
	ActViewport
	ActCamera
	ActEnable
	ActMode
	ActWait
)

// Step is one timed action of a compiled program.
type Step struct {
	Action Action
	At     time.Duration
	Line   int

	Event    input.Event   // ActInput
	Viewport r2.Rect       // ActViewport
	Center   s2.LatLng     // ActCamera
	Zoom     *float64      // ActCamera
	Rotation *float64      // ActCamera
	Enabled  bool          // ActEnable
	Mode     rotation.Mode // ActMode
}

// Program is a compiled script: steps in time order, arcs expanded into
// moves.
type Program struct {
	Steps []Step
}

// Duration returns the time of the last step.
func (p *Program) Duration() time.Duration {
	if len(p.Steps) == 0 {
		return 0
	}
	return p.Steps[len(p.Steps)-1].At
}

type compiler struct {
	prog Program
	now  time.Duration
	down map[input.ID]r2.Point // pressed pointers and their last position
}

// Compile checks f and expands it into a Program. Statements must be in
// time order and pointers must be down before they move.
func Compile(f *File) (*Program, error) {
	c := &compiler{down: make(map[input.ID]r2.Point)}
	for _, st := range f.Statements {
		if err := c.statement(st); err != nil {
			return nil, fmt.Errorf("line %d: %w", st.Pos.Line, err)
		}
	}
	return &c.prog, nil
}

func (c *compiler) statement(st *Statement) error {
	line := st.Pos.Line
	switch {
	case st.Viewport != nil:
		v := st.Viewport
		if v.Size.X <= 0 || v.Size.Y <= 0 {
			return fmt.Errorf("viewport size %vx%v must be positive", v.Size.X, v.Size.Y)
		}
		min := r2.Point{X: v.Min.X, Y: v.Min.Y}
		c.add(Step{Action: ActViewport, At: c.now, Line: line,
			Viewport: r2.RectFromPoints(min, min.Add(r2.Point{X: v.Size.X, Y: v.Size.Y}))})

	case st.Camera != nil:
		cam := st.Camera
		ll := s2.LatLngFromDegrees(cam.Lat, cam.Lng)
		if math.Abs(cam.Lat) > 90 || math.Abs(cam.Lng) > 180 {
			return fmt.Errorf("camera position %v %v out of range", cam.Lat, cam.Lng)
		}
		c.add(Step{Action: ActCamera, At: c.now, Line: line, Center: ll, Zoom: cam.Zoom, Rotation: cam.Rotation})

	case st.Pointer != nil:
		return c.pointer(st.Pointer, line)

	case st.Arc != nil:
		return c.arc(st.Arc, line)

	case st.Wheel != nil:
		w := st.Wheel
		return c.input(line, time.Duration(w.At), input.Event{
			Kind:     input.Scroll,
			Position: r2.Point{X: w.Pos.X, Y: w.Pos.Y},
			Scroll:   r2.Point{Y: w.Delta},
		})

	case st.Wait != nil:
		at := time.Duration(st.Wait.Until)
		if err := c.advance(at); err != nil {
			return err
		}
		c.add(Step{Action: ActWait, At: at, Line: line})

	case st.Enable != nil:
		at := time.Duration(st.Enable.At)
		if err := c.advance(at); err != nil {
			return err
		}
		on := strings.EqualFold(st.Enable.State, "on")
		if !on {
			// Disabling drops every captured pointer.
			clear(c.down)
		}
		c.add(Step{Action: ActEnable, At: at, Line: line, Enabled: on})

	case st.Mode != nil:
		at := time.Duration(st.Mode.At)
		if err := c.advance(at); err != nil {
			return err
		}
		m, err := rotation.ParseMode(st.Mode.Mode)
		if err != nil {
			return err
		}
		c.add(Step{Action: ActMode, At: at, Line: line, Mode: m})
	}
	return nil
}

func (c *compiler) pointer(p *PointerStmt, line int) error {
	id := input.ID(p.ID)
	last, isDown := c.down[id]
	pos := last
	if p.Pos != nil {
		pos = r2.Point{X: p.Pos.X, Y: p.Pos.Y}
	}

	ev := input.Event{ID: id, Position: pos}
	switch strings.ToLower(p.Kind) {
	case "down":
		if p.Pos == nil {
			return fmt.Errorf("down %d needs a position", p.ID)
		}
		if isDown {
			return fmt.Errorf("pointer %d is already down", p.ID)
		}
		ev.Kind = input.Press
		c.down[id] = pos
	case "move":
		if p.Pos == nil {
			return fmt.Errorf("move %d needs a position", p.ID)
		}
		if !isDown {
			return fmt.Errorf("pointer %d moves before down", p.ID)
		}
		ev.Kind = input.Move
		c.down[id] = pos
	case "up", "cancel":
		if !isDown {
			return fmt.Errorf("pointer %d is not down", p.ID)
		}
		ev.Kind = input.Release
		if strings.EqualFold(p.Kind, "cancel") {
			ev.Kind = input.Cancel
		}
		delete(c.down, id)
	}
	return c.input(line, time.Duration(p.At), ev)
}

// arc expands into Steps moves along a circle, starting from the pointer's
// bearing around the center.
func (c *compiler) arc(a *ArcStmt, line int) error {
	id := input.ID(a.ID)
	start, isDown := c.down[id]
	if !isDown {
		return fmt.Errorf("arc for pointer %d before down", a.ID)
	}
	if a.Steps < 1 || a.Radius <= 0 {
		return fmt.Errorf("arc needs positive steps and radius")
	}
	from, to := time.Duration(a.From), time.Duration(a.To)
	if to < from {
		return fmt.Errorf("arc ends at %v before it starts at %v", to, from)
	}

	center := r2.Point{X: a.Center.X, Y: a.Center.Y}
	rel := start.Sub(center)
	phi0 := math.Atan2(-rel.Y, rel.X)
	sweep := 2 * math.Pi * a.Turns
	if strings.EqualFold(a.Direction, "cw") {
		sweep = -sweep
	}

	for i := 1; i <= a.Steps; i++ {
		frac := float64(i) / float64(a.Steps)
		phi := phi0 + sweep*frac
		p := r2.Point{X: center.X + a.Radius*math.Cos(phi), Y: center.Y - a.Radius*math.Sin(phi)}
		at := from + time.Duration(frac*float64(to-from))
		if err := c.input(line, at, input.Event{Kind: input.Move, ID: id, Position: p}); err != nil {
			return err
		}
		c.down[id] = p
	}
	return nil
}

func (c *compiler) input(line int, at time.Duration, ev input.Event) error {
	if err := c.advance(at); err != nil {
		return err
	}
	ev.Time = at
	c.add(Step{Action: ActInput, At: at, Line: line, Event: ev})
	return nil
}

func (c *compiler) advance(at time.Duration) error {
	if at < c.now {
		return fmt.Errorf("time %v is before %v", at, c.now)
	}
	c.now = at
	return nil
}

func (c *compiler) add(s Step) {
	c.prog.Steps = append(c.prog.Steps, s)
}
