package input

import (
	"time"

	"github.com/golang/geo/r2"
)

// PointerState tracks one pointer from press to release.
type PointerState struct {
	ID       ID
	Start    r2.Point
	Last     r2.Point
	LastTime time.Duration
}

// PointerSet is an insertion-ordered set of active pointers.
// The zero value is an empty set ready to use.
type PointerSet struct {
	pointers []*PointerState
}

// Add inserts a pointer. Pressing an id that is already tracked restarts
// its state in place without changing its order.
func (s *PointerSet) Add(id ID, pos r2.Point, t time.Duration) *PointerState {
	if p := s.Get(id); p != nil {
		p.Start, p.Last, p.LastTime = pos, pos, t
		return p
	}
	p := &PointerState{ID: id, Start: pos, Last: pos, LastTime: t}
	s.pointers = append(s.pointers, p)
	return p
}

// Get returns the state for id, or nil when id is not tracked.
func (s *PointerSet) Get(id ID) *PointerState {
	for _, p := range s.pointers {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Remove drops id from the set. Unknown ids are a no-op.
func (s *PointerSet) Remove(id ID) bool {
	for i, p := range s.pointers {
		if p.ID == id {
			s.pointers = append(s.pointers[:i], s.pointers[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of tracked pointers.
func (s *PointerSet) Len() int { return len(s.pointers) }

// At returns the i-th pointer in insertion order.
func (s *PointerSet) At(i int) *PointerState { return s.pointers[i] }

// Primary returns the earliest pressed pointer, or nil for an empty set.
func (s *PointerSet) Primary() *PointerState {
	if len(s.pointers) == 0 {
		return nil
	}
	return s.pointers[0]
}

// Pair returns the first two pointers in insertion order.
func (s *PointerSet) Pair() (a, b *PointerState, ok bool) {
	if len(s.pointers) < 2 {
		return nil, nil, false
	}
	return s.pointers[0], s.pointers[1], true
}

// IDs returns the tracked ids in insertion order.
func (s *PointerSet) IDs() []ID {
	ids := make([]ID, len(s.pointers))
	for i, p := range s.pointers {
		ids[i] = p.ID
	}
	return ids
}

// Clear drops every pointer.
func (s *PointerSet) Clear() { s.pointers = s.pointers[:0] }
