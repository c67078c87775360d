package script

import (
	"time"

	"github.com/alecthomas/participle/v2/lexer"
)

// File is a parsed gesture script.
type File struct {
	Statements []*Statement `@@*`
}

// Statement is one script line.
type Statement struct {
	Pos lexer.Position

	Viewport *ViewportStmt `  @@`
	Camera   *CameraStmt   `| @@`
	Pointer  *PointerStmt  `| @@`
	Arc      *ArcStmt      `| @@`
	Wheel    *WheelStmt    `| @@`
	Wait     *WaitStmt     `| @@`
	Enable   *EnableStmt   `| @@`
	Mode     *ModeStmt     `| @@`
}

// Point is a screen position.
type Point struct {
	X float64 `@Number`
	Y float64 `@Number`
}

// Duration is a time offset from the start of the script.
type Duration time.Duration

// Capture implements participle.Capture.
func (d *Duration) Capture(values []string) error {
	v, err := time.ParseDuration(values[0])
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Example: viewport 0 0 800 600
type ViewportStmt struct {
	Min  Point `KwViewport @@`
	Size Point `@@`
}

// Example: camera 48.8566 2.3522 zoom 12 rotation 0
type CameraStmt struct {
	Lat      float64  `KwCamera @Number`
	Lng      float64  `@Number`
	Zoom     *float64 `( KwZoom @Number )?`
	Rotation *float64 `( KwRotation @Number )?`
}

// Example: down 1 at 100 100 @ 0ms, up 1 @ 330ms
type PointerStmt struct {
	Kind string   `@KwPointer`
	ID   int      `@Number`
	Pos  *Point   `( KwAt @@ )?`
	At   Duration `At @Duration`
}

// Example: arc 1 center 105 105 radius 12 turns 1.5 cw from 16ms to 316ms steps 24
type ArcStmt struct {
	ID        int      `KwArc @Number`
	Center    Point    `KwCenter @@`
	Radius    float64  `KwRadius @Number`
	Turns     float64  `KwTurns @Number`
	Direction string   `@KwDirection`
	From      Duration `KwFrom @Duration`
	To        Duration `KwAt @Duration`
	Steps     int      `KwSteps @Number`
}

// Example: wheel -3 at 400 300 @ 500ms
type WheelStmt struct {
	Delta float64  `KwWheel @Number`
	Pos   Point    `KwAt @@`
	At    Duration `At @Duration`
}

// Example: wait 800ms
type WaitStmt struct {
	Until Duration `KwWait @Duration`
}

// Example: enable off @ 900ms
type EnableStmt struct {
	State string   `KwEnable @KwSwitch`
	At    Duration `At @Duration`
}

// Example: mode gear @ 1s
type ModeStmt struct {
	Mode string   `KwMode @KwRotationMode`
	At   Duration `At @Duration`
}
