package paint

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tanema/gween/ease"

	"github.com/Faultbox/splinepaint/pkg/math"
)

// ErrUnknownFalloff is returned by ParseFalloff for unrecognized names.
var ErrUnknownFalloff = errors.New("unknown falloff")

// Falloff maps a normalized radial distance r in [0, 1] to a brush weight.
// Results are clamped to [0, 1] by the painter.
type Falloff interface {
	Evaluate(r float64) float64
}

// FalloffFunc adapts a function to the Falloff interface.
type FalloffFunc func(r float64) float64

// Evaluate calls f(r).
func (f FalloffFunc) Evaluate(r float64) float64 {
	return f(r)
}

// Constant is a hard-edged brush with the same weight everywhere in its footprint.
type Constant float64

// Evaluate implements Falloff.
func (c Constant) Evaluate(float64) float64 {
	return float64(c)
}

// Keyframe is one key of a Curve.
type Keyframe struct {
	Time       float64
	Value      float64
	InTangent  float64
	OutTangent float64
}

// Curve is a keyframed cubic Hermite curve. Outside its first and last key
// it holds the end values.
type Curve struct {
	keys []Keyframe
}

// NewCurve creates a curve from keys in any order.
func NewCurve(keys ...Keyframe) *Curve {
	sorted := make([]Keyframe, len(keys))
	copy(sorted, keys)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	return &Curve{keys: sorted}
}

// EaseInOut creates a two-key curve with flat tangents from (t0, v0) to (t1, v1).
func EaseInOut(t0, v0, t1, v1 float64) *Curve {
	return NewCurve(Keyframe{Time: t0, Value: v0}, Keyframe{Time: t1, Value: v1})
}

// Linear creates a two-key straight curve from (t0, v0) to (t1, v1).
func Linear(t0, v0, t1, v1 float64) *Curve {
	slope := 0.0
	if t1 != t0 {
		slope = (v1 - v0) / (t1 - t0)
	}
	return NewCurve(
		Keyframe{Time: t0, Value: v0, OutTangent: slope, InTangent: slope},
		Keyframe{Time: t1, Value: v1, OutTangent: slope, InTangent: slope},
	)
}

// Keys returns a copy of the curve's keys in time order.
func (c *Curve) Keys() []Keyframe {
	out := make([]Keyframe, len(c.keys))
	copy(out, c.keys)
	return out
}

// Evaluate implements Falloff.
func (c *Curve) Evaluate(t float64) float64 {
	n := len(c.keys)
	switch {
	case n == 0:
		return 0
	case n == 1 || t <= c.keys[0].Time:
		return c.keys[0].Value
	case t >= c.keys[n-1].Time:
		return c.keys[n-1].Value
	}

	// First key strictly after t.
	i := sort.Search(n, func(i int) bool { return c.keys[i].Time > t })
	k0, k1 := c.keys[i-1], c.keys[i]
	dt := k1.Time - k0.Time
	if dt <= 0 {
		return k1.Value
	}
	s := (t - k0.Time) / dt
	s2 := s * s
	s3 := s2 * s

	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	return h00*k0.Value + h10*dt*k0.OutTangent + h01*k1.Value + h11*dt*k1.InTangent
}

// Easing turns a tween easing function into a falloff that runs from 1 at the
// brush center to 0 at its rim.
type Easing struct {
	Fn ease.TweenFunc
}

// Evaluate implements Falloff.
func (e Easing) Evaluate(r float64) float64 {
	return float64(e.Fn(float32(math.Clamp01(r)), 1, -1, 1))
}

var easings = map[string]ease.TweenFunc{
	"in_quad":      ease.InQuad,
	"out_quad":     ease.OutQuad,
	"in_out_quad":  ease.InOutQuad,
	"in_cubic":     ease.InCubic,
	"out_cubic":    ease.OutCubic,
	"in_out_cubic": ease.InOutCubic,
	"in_sine":      ease.InSine,
	"out_sine":     ease.OutSine,
	"in_out_sine":  ease.InOutSine,
	"in_expo":      ease.InExpo,
	"out_expo":     ease.OutExpo,
	"in_circ":      ease.InCirc,
	"out_circ":     ease.OutCirc,
	"in_out_circ":  ease.InOutCirc,
}

// FalloffNames lists every name accepted by ParseFalloff.
func FalloffNames() []string {
	names := []string{"ease_in_out", "linear", "constant"}
	var extra []string
	for name := range easings {
		extra = append(extra, name)
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// ParseFalloff returns the named falloff preset.
func ParseFalloff(name string) (Falloff, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "-", "_"))
	switch key {
	case "", "ease_in_out", "smooth":
		return EaseInOut(0, 1, 1, 0), nil
	case "linear":
		return Linear(0, 1, 1, 0), nil
	case "constant", "hard":
		return Constant(1), nil
	}
	if fn, ok := easings[key]; ok {
		return Easing{Fn: fn}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFalloff, name)
}
