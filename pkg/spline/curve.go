// Package spline provides parametric 3D curves that can be sampled by the painter.
//
// Every curve is evaluated over t in [0, 1]; multi-segment curves spread t
// uniformly over their segments, so t is not proportional to arc length.
// Callers that need uniform spacing resample by distance.
package spline

import (
	gomath "math"

	"github.com/Faultbox/splinepaint/pkg/math"
)

// Curve is a continuous parametric curve in world space.
type Curve interface {
	// EvaluatePosition returns the position at t in [0, 1].
	EvaluatePosition(t float64) math.Vec3
}

// CurveFunc adapts a plain function to the Curve interface.
type CurveFunc func(t float64) math.Vec3

// EvaluatePosition calls f(t).
func (f CurveFunc) EvaluatePosition(t float64) math.Vec3 {
	return f(t)
}

// segmentAt maps global t to a segment index and local parameter.
func segmentAt(t float64, segments int) (int, float64) {
	if t <= 0 {
		return 0, 0
	}
	if t >= 1 {
		return segments - 1, 1
	}
	s := t * float64(segments)
	i := int(gomath.Floor(s))
	if i >= segments {
		i = segments - 1
	}
	return i, s - float64(i)
}

// -------------------------------------------------------------------
// Linear
// -------------------------------------------------------------------

// Linear is a polyline through its knots.
type Linear struct {
	Knots  []math.Vec3
	Closed bool
}

// NewLinear creates a polyline.
func NewLinear(closed bool, knots ...math.Vec3) *Linear {
	return &Linear{Knots: knots, Closed: closed}
}

// Segments returns the number of line segments.
func (l *Linear) Segments() int {
	return segmentCount(len(l.Knots), l.Closed)
}

// EvaluatePosition implements Curve.
func (l *Linear) EvaluatePosition(t float64) math.Vec3 {
	n := l.Segments()
	if n == 0 {
		if len(l.Knots) == 0 {
			return math.Vec3{}
		}
		return l.Knots[0]
	}
	i, u := segmentAt(t, n)
	a := l.Knots[i]
	b := l.Knots[(i+1)%len(l.Knots)]
	return a.Lerp(b, u)
}

// -------------------------------------------------------------------
// CatmullRom
// -------------------------------------------------------------------

// CatmullRom is a uniform Catmull-Rom spline passing through every knot.
// Open splines mirror the end knots to build the missing neighbors.
type CatmullRom struct {
	Knots  []math.Vec3
	Closed bool
}

// NewCatmullRom creates a Catmull-Rom spline.
func NewCatmullRom(closed bool, knots ...math.Vec3) *CatmullRom {
	return &CatmullRom{Knots: knots, Closed: closed}
}

// Segments returns the number of curve segments.
func (c *CatmullRom) Segments() int {
	return segmentCount(len(c.Knots), c.Closed)
}

func (c *CatmullRom) knot(i int) math.Vec3 {
	n := len(c.Knots)
	if c.Closed {
		return c.Knots[((i%n)+n)%n]
	}
	switch {
	case i < 0:
		// Mirror the first knot around the second.
		return c.Knots[0].Scale(2).Sub(c.Knots[1])
	case i >= n:
		return c.Knots[n-1].Scale(2).Sub(c.Knots[n-2])
	}
	return c.Knots[i]
}

// EvaluatePosition implements Curve.
func (c *CatmullRom) EvaluatePosition(t float64) math.Vec3 {
	n := c.Segments()
	if n == 0 {
		if len(c.Knots) == 0 {
			return math.Vec3{}
		}
		return c.Knots[0]
	}
	i, u := segmentAt(t, n)
	p0 := c.knot(i - 1)
	p1 := c.knot(i)
	p2 := c.knot(i + 1)
	p3 := c.knot(i + 2)

	u2 := u * u
	u3 := u2 * u
	a := p1.Scale(2)
	b := p2.Sub(p0).Scale(u)
	cc := p0.Scale(2).Sub(p1.Scale(5)).Add(p2.Scale(4)).Sub(p3).Scale(u2)
	d := p1.Scale(3).Sub(p0).Sub(p2.Scale(3)).Add(p3).Scale(u3)
	return a.Add(b).Add(cc).Add(d).Scale(0.5)
}

// -------------------------------------------------------------------
// Bezier
// -------------------------------------------------------------------

// BezierKnot is a spline knot with tangents relative to its position.
type BezierKnot struct {
	Position   math.Vec3
	TangentIn  math.Vec3
	TangentOut math.Vec3
}

// Bezier is a chain of cubic Bezier segments between knots.
type Bezier struct {
	Knots  []BezierKnot
	Closed bool
}

// NewBezier creates a Bezier spline.
func NewBezier(closed bool, knots ...BezierKnot) *Bezier {
	return &Bezier{Knots: knots, Closed: closed}
}

// Segments returns the number of cubic segments.
func (b *Bezier) Segments() int {
	return segmentCount(len(b.Knots), b.Closed)
}

// EvaluatePosition implements Curve.
func (b *Bezier) EvaluatePosition(t float64) math.Vec3 {
	n := b.Segments()
	if n == 0 {
		if len(b.Knots) == 0 {
			return math.Vec3{}
		}
		return b.Knots[0].Position
	}
	i, u := segmentAt(t, n)
	k0 := b.Knots[i]
	k1 := b.Knots[(i+1)%len(b.Knots)]
	return cubicBezier(
		k0.Position,
		k0.Position.Add(k0.TangentOut),
		k1.Position.Add(k1.TangentIn),
		k1.Position,
		u,
	)
}

func cubicBezier(p0, p1, p2, p3 math.Vec3, t float64) math.Vec3 {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return p0.Scale(a).Add(p1.Scale(b)).Add(p2.Scale(c)).Add(p3.Scale(d))
}

// -------------------------------------------------------------------
// Transformed
// -------------------------------------------------------------------

// Transformed offsets a curve by a world-space translation, the way a spline
// container's transform places its local knots in the world.
type Transformed struct {
	Curve    Curve
	Position math.Vec3
}

// EvaluatePosition implements Curve.
func (tc Transformed) EvaluatePosition(t float64) math.Vec3 {
	return tc.Curve.EvaluatePosition(t).Add(tc.Position)
}

func segmentCount(knots int, closed bool) int {
	switch {
	case knots < 2:
		return 0
	case closed:
		return knots
	default:
		return knots - 1
	}
}
