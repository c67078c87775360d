package geometry

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// degenerateEpsilon is the length below which a vector has no direction.
const degenerateEpsilon = 1e-9

// Metric selects which trail measurement drives spin-to-zoom.
type Metric uint8

const (
	// MetricArea uses SignedArea directly.
	MetricArea Metric = iota
	// MetricCircles uses FullCircles.
	MetricCircles
	// MetricCompound uses CompoundZoomValue.
	MetricCompound
)

// SignedArea sums the signed area of the triangles (p[i], p[i+1], c).
// The result is positive for counter-clockwise winding on screen.
func SignedArea(trail []r2.Point, c r2.Point) float64 {
	var area float64
	for i := 0; i+1 < len(trail); i++ {
		a := trail[i].Sub(c)
		b := trail[i+1].Sub(c)
		// Screen y points down, so the plain cross product is positive
		// for clockwise motion. Flip it.
		area -= 0.5 * a.Cross(b)
	}
	return area
}

// CenterOfMass returns the mean of the trail points.
// It reports false for an empty trail.
func CenterOfMass(trail []r2.Point) (r2.Point, bool) {
	if len(trail) == 0 {
		return r2.Point{}, false
	}
	var sum r2.Point
	for _, p := range trail {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(trail))), true
}

// SweptAngle accumulates the signed bearing change of consecutive trail
// points around the trail's center of mass. Each step is wrapped to
// [-π, π] before summing, so several turns keep adding up.
func SweptAngle(trail []r2.Point) float64 {
	com, ok := CenterOfMass(trail)
	if !ok {
		return 0
	}
	var swept float64
	for i := 0; i+1 < len(trail); i++ {
		a := trail[i].Sub(com)
		b := trail[i+1].Sub(com)
		if a.Norm() < degenerateEpsilon || b.Norm() < degenerateEpsilon {
			continue
		}
		swept += WrapAngle(bearing(b) - bearing(a))
	}
	return swept
}

// FullCircles ignores the first half turn of swept and counts the rest in
// units of π, keeping the sign of swept.
func FullCircles(swept float64) float64 {
	return sign(swept) * math.Max(0, math.Abs(swept)-math.Pi) / math.Pi
}

// CompoundZoomValue combines area and circles, scaled by k².
func CompoundZoomValue(area, circles, k float64) float64 {
	return area * circles * k * k * sign(area)
}

// Evaluate computes metric m for trail and current point c.
func Evaluate(m Metric, trail []r2.Point, c r2.Point, k float64) float64 {
	switch m {
	case MetricArea:
		return SignedArea(trail, c)
	case MetricCircles:
		return FullCircles(SweptAngle(trail))
	default:
		area := SignedArea(trail, c)
		return CompoundZoomValue(area, FullCircles(SweptAngle(trail)), k)
	}
}

// NormalizedRate maps a metric value to a dimensionless rate: √|metric|
// divided by the smaller viewport dimension, sign preserved.
func NormalizedRate(metric, minDimension float64) float64 {
	if minDimension <= 0 {
		return 0
	}
	return sign(metric) * math.Sqrt(math.Abs(metric)) / minDimension
}

// WrapAngle maps a to [-π, π].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// bearing is the on-screen angle of v, counter-clockwise from +x.
func bearing(v r2.Point) float64 {
	return math.Atan2(-v.Y, v.X)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// ParseMetric parses the config spelling of a Metric.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "area":
		return MetricArea, nil
	case "circles":
		return MetricCircles, nil
	case "compound", "":
		return MetricCompound, nil
	}
	return 0, fmt.Errorf("unknown zoom metric %q", s)
}

func (m Metric) String() string {
	switch m {
	case MetricArea:
		return "area"
	case MetricCircles:
		return "circles"
	case MetricCompound:
		return "compound"
	default:
		return fmt.Sprintf("Metric(%d)", uint8(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Metric) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Metric) UnmarshalText(b []byte) error {
	v, err := ParseMetric(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
