package math

import (
	"math"
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	if got := v.Length(); got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
}

func TestVec2Distance(t *testing.T) {
	a := Vec2{5, 0}
	b := Vec2{5, 5}
	if got := a.Distance(b); got != 5 {
		t.Errorf("Vec2.Distance() = %v, want 5", got)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3CrossUpTangent(t *testing.T) {
	// Right vector of a path heading +X.
	got := Up.Cross(Vec3{1, 0, 0})
	want := Vec3{0, 0, -1}
	if got != want {
		t.Errorf("Up.Cross(+X) = %v, want %v", got, want)
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); !got.IsZero() {
		t.Errorf("zero vector normalized to %v", got)
	}
	n := Vec3{3, 0, 4}.Normalize()
	if math.Abs(n.Length()-1) > 1e-12 {
		t.Errorf("Vec3.Normalize().Length() = %v, want 1", n.Length())
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{10, 20, -10}
	if got := a.Lerp(b, 0.5); got != (Vec3{5, 10, -5}) {
		t.Errorf("Vec3.Lerp() = %v", got)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Vec3.Lerp(1) = %v, want %v", got, b)
	}
}

func TestVec3Mul(t *testing.T) {
	got := Vec3{0.5, 0.25, 1}.Mul(Vec3{100, 8, 50})
	if got != (Vec3{50, 2, 50}) {
		t.Errorf("Vec3.Mul() = %v", got)
	}
}

func TestScalarHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"clamp01 below", Clamp01(-0.5), 0},
		{"clamp01 above", Clamp01(1.5), 1},
		{"clamp01 inside", Clamp01(0.25), 0.25},
		{"inverse lerp mid", InverseLerp(10, 20, 15), 0.5},
		{"inverse lerp outside", InverseLerp(0, 10, 20), 2},
		{"inverse lerp degenerate", InverseLerp(3, 3, 7), 0},
		{"lerp", Lerp(2, 4, 0.5), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestRoundToInt(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0.4, 0},
		{0.5, 0},
		{1.5, 2},
		{2.5, 2},
		{2.6, 3},
	}
	for _, tt := range tests {
		if got := RoundToInt(tt.in); got != tt.want {
			t.Errorf("RoundToInt(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if got := CeilToInt(2.01); got != 3 {
		t.Errorf("CeilToInt(2.01) = %d, want 3", got)
	}
}
