package input

import (
	"testing"
	"time"

	"github.com/golang/geo/r2"
)

func TestPointerSetKeepsInsertionOrder(t *testing.T) {
	var s PointerSet
	s.Add(7, r2.Point{X: 1, Y: 1}, 0)
	s.Add(3, r2.Point{X: 2, Y: 2}, time.Millisecond)
	s.Add(9, r2.Point{X: 3, Y: 3}, 2*time.Millisecond)

	ids := s.IDs()
	want := []ID{7, 3, 9}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("IDs() = %v, want %v", ids, want)
		}
	}

	a, b, ok := s.Pair()
	if !ok || a.ID != 7 || b.ID != 3 {
		t.Fatalf("Pair() = %v %v %v, want 7 3 true", a, b, ok)
	}

	if !s.Remove(3) {
		t.Fatalf("Remove(3) = false, want true")
	}
	a, b, _ = s.Pair()
	if a.ID != 7 || b.ID != 9 {
		t.Fatalf("Pair() after removal = %d %d, want 7 9", a.ID, b.ID)
	}
}

func TestPointerSetRemoveUnknownIsNoop(t *testing.T) {
	var s PointerSet
	s.Add(1, r2.Point{}, 0)
	if s.Remove(42) {
		t.Fatalf("Remove(42) = true, want false")
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

func TestPointerSetRepressRestartsState(t *testing.T) {
	var s PointerSet
	s.Add(1, r2.Point{X: 5, Y: 5}, 0)
	s.Add(2, r2.Point{X: 6, Y: 6}, 0)
	p := s.Add(1, r2.Point{X: 10, Y: 10}, time.Second)

	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if p.Start != (r2.Point{X: 10, Y: 10}) || p.LastTime != time.Second {
		t.Fatalf("restarted pointer = %+v", p)
	}
	if s.Primary().ID != 1 {
		t.Fatalf("Primary() = %d, want 1", s.Primary().ID)
	}
}
