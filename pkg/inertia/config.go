// Package inertia simulates post-release pan deceleration.
package inertia

import (
	"fmt"
	"time"
)

// Config holds the inertia tunables. Durations are nanoseconds in JSON.
type Config struct {
	Friction       float64       `json:"friction"`        // Delta multiplier per reference frame, in (0, 1)
	MinSpeed       float64       `json:"min_speed"`       // Stop below this many px per frame
	VelocityWindow time.Duration `json:"velocity_window"` // Only samples this recent feed the estimate
	MaxSamples     int           `json:"max_samples"`     // Ring buffer capacity
	FrameInterval  time.Duration `json:"frame_interval"`  // Reference frame length for friction
	MaxFrames      int           `json:"max_frames"`      // Hard stop after this many frames
}

// DefaultConfig returns tunables that feel right on a 60 Hz display.
func DefaultConfig() Config {
	return Config{
		Friction:       0.92,
		MinSpeed:       0.5,
		VelocityWindow: 100 * time.Millisecond,
		MaxSamples:     8,
		FrameInterval:  16 * time.Millisecond,
		MaxFrames:      600,
	}
}

// Validate checks the tunables.
func (c Config) Validate() error {
	if c.Friction <= 0 || c.Friction >= 1 {
		return fmt.Errorf("inertia: friction %v outside (0, 1)", c.Friction)
	}
	if c.MinSpeed <= 0 {
		return fmt.Errorf("inertia: min speed must be positive, got %v", c.MinSpeed)
	}
	if c.VelocityWindow <= 0 {
		return fmt.Errorf("inertia: velocity window must be positive, got %v", c.VelocityWindow)
	}
	if c.MaxSamples < 1 {
		return fmt.Errorf("inertia: max samples must be at least 1, got %d", c.MaxSamples)
	}
	if c.FrameInterval <= 0 {
		return fmt.Errorf("inertia: frame interval must be positive, got %v", c.FrameInterval)
	}
	if c.MaxFrames < 1 {
		return fmt.Errorf("inertia: max frames must be at least 1, got %d", c.MaxFrames)
	}
	return nil
}
