// Package input defines the pointer event model shared by the pointer
// multiplexer and the gesture handler.
package input

import (
	"fmt"
	"time"

	"github.com/golang/geo/r2"
)

// Kind is the type of an input event.
type Kind uint8

const (
	// Press is reported when a pointer goes down.
	Press Kind = iota
	// Move is reported when a pointer that is down changes position.
	Move
	// Release is reported when a pointer goes up.
	Release
	// Cancel is reported when the platform takes a pointer away.
	Cancel
	// Scroll is a wheel event. It carries no pointer id semantics.
	Scroll
)

// ID identifies one pointer for the lifetime of a press.
type ID uint32

// Event is a single pointer or wheel event in viewport pixel coordinates.
type Event struct {
	Kind     Kind
	ID       ID
	Position r2.Point
	// Scroll is the wheel delta. Positive Y scrolls down.
	Scroll r2.Point
	// Time is a monotonic timestamp from an arbitrary base.
	Time time.Duration
}

func (k Kind) String() string {
	switch k {
	case Press:
		return "Press"
	case Move:
		return "Move"
	case Release:
		return "Release"
	case Cancel:
		return "Cancel"
	case Scroll:
		return "Scroll"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

func (e Event) String() string {
	if e.Kind == Scroll {
		return fmt.Sprintf("%s (%.1f,%.1f) by %.1f @%s", e.Kind, e.Position.X, e.Position.Y, e.Scroll.Y, e.Time)
	}
	return fmt.Sprintf("%s #%d (%.1f,%.1f) @%s", e.Kind, e.ID, e.Position.X, e.Position.Y, e.Time)
}
