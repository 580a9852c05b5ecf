// Package core provides fundamental types and utilities for the turtle engine.
// It contains no external dependencies (especially no Bubble Tea) to keep the
// execution core pure and testable.
package core

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used when comparing world coordinates and angles.
const Epsilon = 1e-9

// Vec2 is a 2D vector in world units.
// World space is mathematical: +x right, +y up, origin at the screen center.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for constructing a Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * k.
func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns the unit vector pointing along v.
// The zero vector normalizes to the zero vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Dist returns the distance between v and o.
func (v Vec2) Dist(o Vec2) float64 {
	return o.Sub(v).Len()
}

// Rotate returns v rotated counter-clockwise by deg degrees.
func (v Vec2) Rotate(deg float64) Vec2 {
	s, c := math.Sincos(Radians(deg))
	return Vec2{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

// ApproxEqual reports whether v and o differ by at most tol on each axis.
func (v Vec2) ApproxEqual(o Vec2, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol && math.Abs(v.Y-o.Y) <= tol
}

// String formats the vector with two decimals.
func (v Vec2) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", v.X, v.Y)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeDegrees maps any angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// math.Mod of a tiny negative value can round up to exactly 360.
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// HeadingVector returns the unit vector for a heading in degrees.
func HeadingVector(deg float64) Vec2 {
	s, c := math.Sincos(Radians(deg))
	return Vec2{X: c, Y: s}
}

// HeadingTo returns the heading in [0, 360) from one point towards another.
// Returns 0 when the points coincide.
func HeadingTo(from, to Vec2) float64 {
	d := to.Sub(from)
	if d.X == 0 && d.Y == 0 {
		return 0
	}
	return NormalizeDegrees(Degrees(math.Atan2(d.Y, d.X)))
}

// AngleDiff returns the smallest absolute difference between two headings.
func AngleDiff(a, b float64) float64 {
	d := math.Abs(NormalizeDegrees(a) - NormalizeDegrees(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
