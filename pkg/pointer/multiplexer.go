// Package pointer owns raw pointer input for the map viewport and forwards
// the events that belong to it to a gesture handler.
package pointer

import (
	"sort"

	"github.com/golang/geo/r2"

	"github.com/OpenTraceLab/OpenTraceMap/internal/logger"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/input"
)

// Handler receives the filtered events.
type Handler interface {
	HandleEvent(ev input.Event, viewport r2.Rect)
	// Reset drops any gesture in progress.
	Reset()
}

// Stats counts dispatched events.
type Stats struct {
	Forwarded int
	Dropped   int
}

// Multiplexer filters events to the viewport and tracks which pointers it
// has captured. A pointer pressed inside the viewport stays captured until
// it is released or cancelled, even if it leaves the viewport.
type Multiplexer struct {
	handler  Handler
	viewport r2.Rect
	captured map[input.ID]struct{}
	disabled bool
	stats    Stats
}

// NewMultiplexer creates an enabled multiplexer forwarding to h.
func NewMultiplexer(h Handler) *Multiplexer {
	return &Multiplexer{
		handler:  h,
		viewport: r2.EmptyRect(),
		captured: make(map[input.ID]struct{}),
	}
}

// SetViewport sets the viewport rectangle in screen pixels.
func (m *Multiplexer) SetViewport(r r2.Rect) { m.viewport = r }

// Viewport returns the viewport rectangle.
func (m *Multiplexer) Viewport() r2.Rect { return m.viewport }

// Enabled reports whether the multiplexer owns input.
func (m *Multiplexer) Enabled() bool { return !m.disabled }

// SetEnabled turns input ownership on or off. Disabling forgets every
// captured pointer and resets the handler so no gesture is left half done.
func (m *Multiplexer) SetEnabled(on bool) {
	if on == !m.disabled {
		return
	}
	m.disabled = !on
	if !on {
		clear(m.captured)
		m.handler.Reset()
	}
	logger.Get().Debug("[POINTER] capture", "enabled", on)
}

// Captured returns the captured pointer ids in ascending order.
func (m *Multiplexer) Captured() []input.ID {
	ids := make([]input.ID, 0, len(m.captured))
	for id := range m.captured {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Stats returns the dispatch counters.
func (m *Multiplexer) Stats() Stats { return m.stats }

// Dispatch filters ev and forwards it when it belongs to the viewport. It
// reports whether the event was forwarded.
func (m *Multiplexer) Dispatch(ev input.Event) bool {
	if m.disabled {
		return m.drop(ev, "disabled")
	}

	_, captured := m.captured[ev.ID]
	switch ev.Kind {
	case input.Press:
		if !m.viewport.ContainsPoint(ev.Position) {
			return m.drop(ev, "outside viewport")
		}
		m.captured[ev.ID] = struct{}{}
	case input.Move:
		if !captured {
			return m.drop(ev, "not captured")
		}
	case input.Release, input.Cancel:
		if !captured {
			return m.drop(ev, "not captured")
		}
		delete(m.captured, ev.ID)
	case input.Scroll:
		if !m.viewport.ContainsPoint(ev.Position) {
			return m.drop(ev, "outside viewport")
		}
	default:
		return m.drop(ev, "unknown kind")
	}

	m.stats.Forwarded++
	m.handler.HandleEvent(ev, m.viewport)
	return true
}

// CancelAll cancels every captured pointer, e.g. when the host steals the
// input.
func (m *Multiplexer) CancelAll(at input.Event) {
	for _, id := range m.Captured() {
		ev := at
		ev.Kind, ev.ID = input.Cancel, id
		m.Dispatch(ev)
	}
}

func (m *Multiplexer) drop(ev input.Event, reason string) bool {
	m.stats.Dropped++
	if ev.Kind != input.Move {
		logger.Get().Debug("[POINTER] drop", "event", ev.String(), "reason", reason)
	}
	return false
}
