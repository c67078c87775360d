package script

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/OpenTraceLab/OpenTraceMap/pkg/gesture"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/input"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/rotation"
)

const spinScript = `
# spin clockwise, then flick right
viewport 0 0 800 600
camera 48.8566 2.3522 zoom 12

down 1 at 100 100 @ 0ms
move 1 to 110 100 @ 16ms
arc 1 center 135 100 radius 25 turns 2 cw from 16ms to 304ms steps 18
move 1 to 150 100 @ 320ms
move 1 to 190 100 @ 336ms
up 1 @ 340ms
`

func TestParseStatements(t *testing.T) {
	f, err := ParseString(`
viewport 0 0 800 600
camera 48.8566 2.3522 zoom 12 rotation 30
down 1 at 100 100 @ 0ms
move 1 to 110 100 @ 16ms
arc 1 center 105 105 radius 12 turns 1.2 CW from 16ms to 316ms steps 24
up 1 @ 330ms
wheel -3 at 400 300 @ 500ms
wait 800ms
enable off @ 900ms
mode gear @ 1s
`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if len(f.Statements) != 10 {
		t.Fatalf("got %d statements, want 10", len(f.Statements))
	}

	cam := f.Statements[1].Camera
	if cam == nil || cam.Zoom == nil || *cam.Zoom != 12 || cam.Rotation == nil || *cam.Rotation != 30 {
		t.Fatalf("camera = %+v", cam)
	}
	arc := f.Statements[4].Arc
	if arc == nil || arc.Turns != 1.2 || arc.Steps != 24 || time.Duration(arc.To) != 316*time.Millisecond {
		t.Fatalf("arc = %+v", arc)
	}
	up := f.Statements[5].Pointer
	if up == nil || up.Kind != "up" || up.Pos != nil {
		t.Fatalf("up = %+v", up)
	}
	if w := f.Statements[6].Wheel; w == nil || w.Delta != -3 {
		t.Fatalf("wheel = %+v", w)
	}
	if m := f.Statements[9].Mode; m == nil || time.Duration(m.At) != time.Second {
		t.Fatalf("mode = %+v", m)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"down 1 at 100 @ 0ms",
		"jump 1 @ 0ms",
		"wheel at 1 1 @ 0ms",
		"enable maybe @ 0ms",
	} {
		if _, err := ParseString(src); err == nil {
			t.Fatalf("ParseString(%q) succeeded", src)
		}
	}
}

func TestCompileArc(t *testing.T) {
	f, err := ParseString(`
down 1 at 110 100 @ 0ms
arc 1 center 100 100 radius 10 turns 1 cw from 0ms to 400ms steps 4
up 1 @ 500ms
`)
	if err != nil {
		t.Fatal(err)
	}
	p, err := Compile(f)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(p.Steps) != 6 {
		t.Fatalf("got %d steps, want 6", len(p.Steps))
	}
	// Clockwise on screen from 3 o'clock goes down first (y grows).
	want := []struct{ x, y float64 }{{100, 110}, {90, 100}, {100, 90}, {110, 100}}
	for i, w := range want {
		st := p.Steps[i+1]
		if st.Event.Kind != input.Move || st.At != time.Duration(i+1)*100*time.Millisecond {
			t.Fatalf("step %d = %+v", i+1, st)
		}
		if math.Abs(st.Event.Position.X-w.x) > 1e-9 || math.Abs(st.Event.Position.Y-w.y) > 1e-9 {
			t.Fatalf("step %d at %v, want (%v,%v)", i+1, st.Event.Position, w.x, w.y)
		}
	}
	last := p.Steps[5]
	if last.Event.Kind != input.Release || math.Abs(last.Event.Position.X-110) > 1e-9 {
		t.Fatalf("up = %+v, want release at the arc end", last.Event)
	}
	if p.Duration() != 500*time.Millisecond {
		t.Fatalf("Duration() = %v", p.Duration())
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"move before down", "move 1 to 1 1 @ 0ms", "before down"},
		{"double down", "down 1 at 1 1 @ 0ms\ndown 1 at 2 2 @ 1ms", "already down"},
		{"time backwards", "down 1 at 1 1 @ 10ms\nup 1 @ 5ms", "before"},
		{"up unknown", "up 3 @ 0ms", "not down"},
		{"empty viewport", "viewport 0 0 0 10", "viewport"},
		{"arc no steps", "down 1 at 1 1 @ 0ms\narc 1 center 0 0 radius 5 turns 1 cw from 0ms to 10ms steps 0", "steps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseString(tt.src)
			if err != nil {
				t.Fatalf("ParseString: %v", err)
			}
			_, err = Compile(f)
			if err == nil || !strings.Contains(err.Error(), tt.msg) {
				t.Fatalf("Compile error = %v, want mention of %q", err, tt.msg)
			}
		})
	}
}

func TestRunSpinToZoom(t *testing.T) {
	res, err := RunString(spinScript, Options{Config: gesture.DefaultConfig(), Trace: true})
	if err != nil {
		t.Fatalf("RunString: %v", err)
	}
	if res.Final.Zoom <= 12 {
		t.Fatalf("final zoom = %v, want above 12", res.Final.Zoom)
	}
	if res.Snapshot.Stats.Inertias != 1 {
		t.Fatalf("inertia runs = %d, want 1", res.Snapshot.Stats.Inertias)
	}
	if res.Final.State != gesture.Idle || res.Final.Inertia {
		t.Fatalf("final = %v, want idle and settled", res.Final)
	}
	if res.Snapshot.Stats.PinchFrames != 0 {
		t.Fatalf("single-finger script ran pinch computations")
	}
	if res.Pointer.Forwarded != 23 {
		t.Fatalf("forwarded %d events, want 23", res.Pointer.Forwarded)
	}

	var sawInertia bool
	for _, f := range res.Frames {
		if f.Inertia {
			sawInertia = true
		}
	}
	if !sawInertia {
		t.Fatalf("trace has no inertia frames")
	}

	var sb strings.Builder
	if err := res.WriteTrace(&sb); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "final") {
		t.Fatalf("trace output missing final line")
	}
}

func TestRunDisableDropsGesture(t *testing.T) {
	res, err := RunString(`
camera 10 10 zoom 5
down 1 at 400 300 @ 0ms
move 1 to 420 300 @ 16ms
enable off @ 20ms
down 1 at 400 300 @ 30ms
move 1 to 500 300 @ 46ms
`, Options{Config: gesture.DefaultConfig()})
	if err != nil {
		t.Fatalf("RunString: %v", err)
	}
	if res.Final.State != gesture.Idle {
		t.Fatalf("state after disable = %v, want idle", res.Final.State)
	}
	if res.Pointer.Dropped != 2 {
		t.Fatalf("dropped %d events, want 2", res.Pointer.Dropped)
	}
}

func TestRunModeSwitch(t *testing.T) {
	cfg := gesture.DefaultConfig()
	res, err := RunString(`
mode gear @ 0ms
down 1 at 700 300 @ 10ms
move 1 to 790 300 @ 26ms
move 1 to 790 360 @ 42ms
up 1 @ 400ms
`, Options{Config: cfg})
	if err != nil {
		t.Fatalf("RunString: %v", err)
	}
	want := 60 / cfg.Rotation.RollingRadius * 180 / math.Pi
	if math.Abs(res.Final.Rotation-want) > 1e-6 {
		t.Fatalf("rotation = %v, want %v", res.Final.Rotation, want)
	}
	if res.Feedback == 0 {
		t.Fatalf("no rotation feedback shown")
	}
	if cfg.Rotation.Mode != rotation.ModeEdge {
		t.Fatalf("mode statement changed the caller's config")
	}
}
