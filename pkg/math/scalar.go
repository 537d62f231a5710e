package math

import "math"

// Clamp01 clamps v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp clamps v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates between a and b by t (unclamped).
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// InverseLerp returns where v lies between a and b, unclamped.
// Returns 0 when a == b.
func InverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return (v - a) / (b - a)
}

// RoundToInt rounds half to even, the way game engines round pixel centers.
func RoundToInt(v float64) int {
	return int(math.RoundToEven(v))
}

// CeilToInt returns the least integer >= v.
func CeilToInt(v float64) int {
	return int(math.Ceil(v))
}
