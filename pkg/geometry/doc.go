// Package geometry measures the shape of a short single-finger trail.
//
// All functions work in viewport pixels with y growing downward. Winding
// and angles are reported as they appear on screen: counter-clockwise
// motion is positive, clockwise motion is negative.
//
// # Metrics
//
//   - SignedArea: triangle fan from every trail segment to the current point.
//   - SweptAngle: accumulated bearing change around the trail's center of mass.
//     It keeps counting past a full turn.
//   - FullCircles: SweptAngle with the first half turn ignored, in turns of π.
//   - CompoundZoomValue: |SignedArea|·FullCircles·k², favouring sustained
//     circular motion over straight-line jitter.
//
// Degenerate input never produces NaN: zero-length segments and points that
// coincide with the center of mass contribute zero.
package geometry
