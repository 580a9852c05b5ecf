package core

import (
	"math"
	"testing"
)

func TestVec2Arithmetic(t *testing.T) {
	a := V(3, 4)
	b := V(1, -2)

	if got := a.Add(b); got != V(4, 2) {
		t.Errorf("Add() = %v, expected (4,2)", got)
	}
	if got := a.Sub(b); got != V(2, 6) {
		t.Errorf("Sub() = %v, expected (2,6)", got)
	}
	if got := a.Scale(2); got != V(6, 8) {
		t.Errorf("Scale() = %v, expected (6,8)", got)
	}
	if got := a.Len(); got != 5 {
		t.Errorf("Len() = %f, expected 5", got)
	}
	if got := a.Dot(b); got != -5 {
		t.Errorf("Dot() = %f, expected -5", got)
	}
}

func TestVec2Normalize(t *testing.T) {
	tests := []struct {
		name     string
		in       Vec2
		expected Vec2
	}{
		{"unit x", V(5, 0), V(1, 0)},
		{"diagonal", V(3, 4), V(0.6, 0.8)},
		{"negative", V(0, -2), V(0, -1)},
		{"zero vector stays zero", V(0, 0), V(0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			if !got.ApproxEqual(tc.expected, 1e-12) {
				t.Errorf("Normalize(%v) = %v, expected %v", tc.in, got, tc.expected)
			}
			if math.IsNaN(got.X) || math.IsNaN(got.Y) {
				t.Errorf("Normalize(%v) produced NaN", tc.in)
			}
		})
	}
}

func TestNormalizeDegrees(t *testing.T) {
	tests := []struct {
		in, expected float64
	}{
		{0, 0},
		{90, 90},
		{360, 0},
		{450, 90},
		{-90, 270},
		{-360, 0},
		{-720.5, 359.5},
		{-1e-18, 0},
	}

	for _, tc := range tests {
		got := NormalizeDegrees(tc.in)
		if math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("NormalizeDegrees(%f) = %f, expected %f", tc.in, got, tc.expected)
		}
		if got < 0 || got >= 360 {
			t.Errorf("NormalizeDegrees(%f) = %f, out of [0,360)", tc.in, got)
		}
	}
}

func TestHeadingVector(t *testing.T) {
	tests := []struct {
		deg      float64
		expected Vec2
	}{
		{0, V(1, 0)},
		{90, V(0, 1)},
		{180, V(-1, 0)},
		{270, V(0, -1)},
	}

	for _, tc := range tests {
		got := HeadingVector(tc.deg)
		if !got.ApproxEqual(tc.expected, 1e-12) {
			t.Errorf("HeadingVector(%f) = %v, expected %v", tc.deg, got, tc.expected)
		}
	}
}

func TestHeadingTo(t *testing.T) {
	origin := V(0, 0)
	tests := []struct {
		name     string
		to       Vec2
		expected float64
	}{
		{"east", V(10, 0), 0},
		{"north", V(0, 10), 90},
		{"west", V(-10, 0), 180},
		{"south", V(0, -10), 270},
		{"north-east", V(5, 5), 45},
		{"same point", V(0, 0), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := HeadingTo(origin, tc.to)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("HeadingTo(%v) = %f, expected %f", tc.to, got, tc.expected)
			}
		})
	}
}

func TestVec2Rotate(t *testing.T) {
	got := V(1, 0).Rotate(90)
	if !got.ApproxEqual(V(0, 1), 1e-12) {
		t.Errorf("Rotate(90) = %v, expected (0,1)", got)
	}
}

func TestAngleDiff(t *testing.T) {
	if d := AngleDiff(350, 10); math.Abs(d-20) > 1e-9 {
		t.Errorf("AngleDiff(350, 10) = %f, expected 20", d)
	}
	if d := AngleDiff(0, 360); d != 0 {
		t.Errorf("AngleDiff(0, 360) = %f, expected 0", d)
	}
}

func TestAbs(t *testing.T) {
	for _, tc := range []struct{ in, want int }{{-3, 3}, {0, 0}, {7, 7}} {
		if got := Abs(tc.in); got != tc.want {
			t.Errorf("Abs(%d) = %d, expected %d", tc.in, got, tc.want)
		}
	}
}
