package pointer

import (
	"testing"

	"gioui.org/io/pointer"

	"github.com/OpenTraceLab/OpenTraceMap/pkg/input"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		gio  pointer.Kind
		want input.Kind
		ok   bool
	}{
		{pointer.Press, input.Press, true},
		{pointer.Drag, input.Move, true},
		{pointer.Release, input.Release, true},
		{pointer.Cancel, input.Cancel, true},
		{pointer.Scroll, input.Scroll, true},
		{pointer.Move, 0, false},
		{pointer.Enter, 0, false},
		{pointer.Leave, 0, false},
	}
	for _, tt := range tests {
		got, ok := kindOf(tt.gio)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Fatalf("kindOf(%v) = %v, %v, want %v, %v", tt.gio, got, ok, tt.want, tt.ok)
		}
	}
}

// Hover moves never reach the multiplexer, so they do not show up as
// dropped events.
func TestFilterSkipsHover(t *testing.T) {
	if filterKinds&pointer.Move != 0 {
		t.Fatal("filter asks for hover moves")
	}
	for _, k := range []pointer.Kind{pointer.Press, pointer.Drag, pointer.Release, pointer.Cancel, pointer.Scroll} {
		if filterKinds&k == 0 {
			t.Fatalf("filter misses %v", k)
		}
	}
}
