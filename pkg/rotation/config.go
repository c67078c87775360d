// Package rotation decides when a single-finger drag near the left or right
// viewport edge turns into map rotation, and how much to rotate.
package rotation

import (
	"fmt"
	"strings"
)

// Mode selects the activation model.
type Mode uint8

const (
	// ModeEdge rotates at a rate that grows as the finger nears an edge,
	// on every frame, even while the finger holds still.
	ModeEdge Mode = iota
	// ModeGear rolls the map along an edge: vertical finger travel turns
	// into rotation as if the map were a gear meshing with the edge.
	ModeGear
)

// ParseMode parses "edge" or "gear".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "edge":
		return ModeEdge, nil
	case "gear":
		return ModeGear, nil
	}
	return 0, fmt.Errorf("unknown rotation mode %q (want edge or gear)", s)
}

func (m Mode) String() string {
	switch m {
	case ModeEdge:
		return "edge"
	case ModeGear:
		return "gear"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Config holds the rotation-zone tunables.
type Config struct {
	Mode Mode `json:"mode"`

	// Edge mode. Ratios are distances from the nearest side edge as a
	// fraction of the viewport width.
	EdgeStartRatio float64 `json:"edge_start_ratio"` // Rotation starts inside this distance
	EdgeEndRatio   float64 `json:"edge_end_ratio"`   // Full speed inside this distance
	RotationSpeed  float64 `json:"rotation_speed"`   // Degrees per second at full speed

	// Gear mode.
	GearMargin    float64 `json:"gear_margin"`    // Pixels from the edge that engage the gear
	RollingRadius float64 `json:"rolling_radius"` // Pixels of travel per radian
}

// DefaultConfig returns the default tunables.
func DefaultConfig() Config {
	return Config{
		Mode:           ModeEdge,
		EdgeStartRatio: 0.12,
		EdgeEndRatio:   0.03,
		RotationSpeed:  90,
		GearMargin:     32,
		RollingRadius:  150,
	}
}

// Validate checks the tunables.
func (c Config) Validate() error {
	if c.Mode != ModeEdge && c.Mode != ModeGear {
		return fmt.Errorf("rotation: unknown mode %d", c.Mode)
	}
	if c.EdgeEndRatio < 0 || c.EdgeStartRatio > 0.5 || c.EdgeEndRatio > c.EdgeStartRatio {
		return fmt.Errorf("rotation: need 0 <= edge_end_ratio (%v) <= edge_start_ratio (%v) <= 0.5",
			c.EdgeEndRatio, c.EdgeStartRatio)
	}
	if c.RotationSpeed < 0 {
		return fmt.Errorf("rotation: rotation speed must not be negative, got %v", c.RotationSpeed)
	}
	if c.GearMargin < 0 {
		return fmt.Errorf("rotation: gear margin must not be negative, got %v", c.GearMargin)
	}
	if c.RollingRadius <= 0 {
		return fmt.Errorf("rotation: rolling radius must be positive, got %v", c.RollingRadius)
	}
	return nil
}
