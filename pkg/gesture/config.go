package gesture

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/OpenTraceLab/OpenTraceMap/pkg/geometry"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/inertia"
	"github.com/OpenTraceLab/OpenTraceMap/pkg/rotation"
)

// Config holds every gesture tunable. Durations are nanoseconds in JSON.
type Config struct {
	// Camera
	MinZoom float64 `json:"min_zoom"`
	MaxZoom float64 `json:"max_zoom"`

	// Spin-to-zoom
	Metric              geometry.Metric `json:"metric"`               // area, circles or compound
	CompoundK           float64         `json:"compound_k"`           // k in the compound metric
	TrailWindow         time.Duration   `json:"trail_window"`         // Trail recency window
	ActivationThreshold float64         `json:"activation_threshold"` // |metric| that switches zoom on for the session
	ZoomRate            float64         `json:"zoom_rate"`            // Zoom levels per second per unit of normalized metric
	ZoomEpsilon         float64         `json:"zoom_epsilon"`         // Smaller zoom steps are dropped
	ZoomGuard           time.Duration   `json:"zoom_guard"`           // No zoom this long after a drag starts or leaves a rotation zone

	// Two-finger and wheel
	PanJitterThreshold float64 `json:"pan_jitter_threshold"` // Pixels the centroid must move before it pans
	ThrottlePinch      bool    `json:"throttle_pinch"`       // Process two-finger moves once per frame
	WheelSensitivity   float64 `json:"wheel_sensitivity"`    // Zoom levels per wheel unit

	Rotation rotation.Config `json:"rotation"`
	Inertia  inertia.Config  `json:"inertia"`
}

// DefaultConfig returns the tunables used when nothing else is configured.
func DefaultConfig() Config {
	return Config{
		MinZoom:             1,
		MaxZoom:             20,
		Metric:              geometry.MetricCompound,
		CompoundK:           1,
		TrailWindow:         500 * time.Millisecond,
		ActivationThreshold: 1500,
		ZoomRate:            8,
		ZoomEpsilon:         1e-4,
		ZoomGuard:           120 * time.Millisecond,
		PanJitterThreshold:  2,
		ThrottlePinch:       true,
		WheelSensitivity:    0.25,
		Rotation:            rotation.DefaultConfig(),
		Inertia:             inertia.DefaultConfig(),
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.MinZoom > c.MaxZoom {
		return fmt.Errorf("min_zoom %v above max_zoom %v", c.MinZoom, c.MaxZoom)
	}
	if c.Metric > geometry.MetricCompound {
		return fmt.Errorf("unknown metric %d", c.Metric)
	}
	if c.TrailWindow <= 0 {
		return fmt.Errorf("trail_window must be positive, got %v", c.TrailWindow)
	}
	if c.ActivationThreshold < 0 {
		return fmt.Errorf("activation_threshold must not be negative, got %v", c.ActivationThreshold)
	}
	if c.ZoomRate < 0 || c.ZoomEpsilon < 0 || c.ZoomGuard < 0 {
		return errors.New("zoom_rate, zoom_epsilon and zoom_guard must not be negative")
	}
	if c.PanJitterThreshold < 0 {
		return fmt.Errorf("pan_jitter_threshold must not be negative, got %v", c.PanJitterThreshold)
	}
	if err := c.Rotation.Validate(); err != nil {
		return err
	}
	return c.Inertia.Validate()
}

// DefaultConfigPath returns the per-user tunables file.
func DefaultConfigPath() (string, error) {
	if dir := os.Getenv("APPDATA"); dir != "" {
		return filepath.Join(dir, "OpenTraceMap", "gestures.json"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "opentracemap", "gestures.json"), nil
}

// LoadConfig reads tunables from path. Keys missing from the file keep
// their defaults, and a missing file yields DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as indented JSON, creating the directory.
func SaveConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
