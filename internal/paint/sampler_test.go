package paint

import (
	gomath "math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Faultbox/splinepaint/pkg/math"
	"github.com/Faultbox/splinepaint/pkg/spline"
)

const eps = 1e-9

func nearVec(a, b math.Vec3, tol float64) bool {
	return a.Distance(b) <= tol
}

func TestSampleStraightLine(t *testing.T) {
	c := spline.NewLinear(false, math.Vec3{}, math.Vec3{X: 100})

	samples := SampleByDistance(c, 10, DefaultResolution)
	if len(samples) != 11 {
		t.Fatalf("expected 11 samples, got %d", len(samples))
	}
	for k, s := range samples {
		want := math.Vec3{X: float64(k) * 10}
		if !nearVec(s.Position, want, 1e-9) {
			t.Errorf("sample %d at %v, want %v", k, s.Position, want)
		}
		if !nearVec(s.Tangent, math.Vec3{X: 1}, 1e-12) {
			t.Errorf("sample %d tangent %v, want (1,0,0)", k, s.Tangent)
		}
	}
}

func TestSampleSpacingUniform(t *testing.T) {
	c := spline.NewLinear(false, math.Vec3{Z: 3}, math.Vec3{X: 95, Z: 3})

	samples := SampleByDistance(c, 10, DefaultResolution)
	want := int(gomath.Ceil(95.0/10)) + 1
	if len(samples) != want {
		t.Fatalf("expected %d samples, got %d", want, len(samples))
	}
	for i := 1; i < len(samples); i++ {
		d := samples[i].Position.Distance(samples[i-1].Position)
		if i < len(samples)-1 {
			if gomath.Abs(d-10) > 1e-6 {
				t.Errorf("gap %d = %v, want 10", i, d)
			}
		} else if d > 10+1e-6 || gomath.Abs(d-5) > 1e-6 {
			t.Errorf("final gap = %v, want 5", d)
		}
	}
}

func TestSampleIncludesEndpoints(t *testing.T) {
	c := spline.NewCatmullRom(false,
		math.Vec3{X: 0, Z: 0},
		math.Vec3{X: 20, Y: 2, Z: 15},
		math.Vec3{X: 45, Y: 1, Z: -10},
		math.Vec3{X: 60, Z: 5},
	)

	samples := SampleByDistance(c, 3.7, DefaultResolution)
	if len(samples) < 2 {
		t.Fatalf("expected multiple samples, got %d", len(samples))
	}
	if first := samples[0].Position; !nearVec(first, c.EvaluatePosition(0), eps) {
		t.Errorf("first sample %v, want %v", first, c.EvaluatePosition(0))
	}
	if last := samples[len(samples)-1].Position; !nearVec(last, c.EvaluatePosition(1), 1e-9) {
		t.Errorf("last sample %v, want %v", last, c.EvaluatePosition(1))
	}
	for i, s := range samples {
		if gomath.Abs(s.Tangent.Length()-1) > 1e-9 {
			t.Errorf("sample %d tangent not unit: %v", i, s.Tangent)
		}
	}
}

func TestSampleArcLengthBound(t *testing.T) {
	c := spline.NewCatmullRom(false,
		math.Vec3{}, math.Vec3{X: 30, Z: 30}, math.Vec3{X: 60}, math.Vec3{X: 90, Z: 30},
	)
	const spacing = 2.5
	samples := SampleByDistance(c, spacing, DefaultResolution)

	// Chords never exceed the arc they span.
	for i := 1; i < len(samples); i++ {
		if d := samples[i].Position.Distance(samples[i-1].Position); d > spacing+1e-9 {
			t.Errorf("gap %d = %v exceeds spacing", i, d)
		}
	}

	length := PathLength(c, DefaultResolution)
	if want := int(gomath.Ceil(length/spacing)) + 1; len(samples) != want {
		t.Errorf("expected %d samples for length %.3f, got %d", want, length, len(samples))
	}
}

func TestSampleDegenerateCurve(t *testing.T) {
	p := math.Vec3{X: 4, Y: 1, Z: 7}
	c := spline.CurveFunc(func(float64) math.Vec3 { return p })

	samples := SampleByDistance(c, 1, DefaultResolution)
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples))
	}
	if samples[0].Position != p {
		t.Errorf("position = %v, want %v", samples[0].Position, p)
	}
	if samples[0].Tangent != math.Forward {
		t.Errorf("tangent = %v, want forward", samples[0].Tangent)
	}
}

func TestSampleInvalidInput(t *testing.T) {
	c := spline.NewLinear(false, math.Vec3{}, math.Vec3{X: 10})
	tests := []struct {
		name    string
		curve   spline.Curve
		spacing float64
	}{
		{"zero spacing", c, 0},
		{"negative spacing", c, -1},
		{"NaN spacing", c, gomath.NaN()},
		{"nil curve", nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SampleByDistance(tt.curve, tt.spacing, DefaultResolution); len(got) != 0 {
				t.Errorf("expected no samples, got %d", len(got))
			}
		})
	}
}

func TestSampleResolutionClamped(t *testing.T) {
	c := spline.NewCatmullRom(false, math.Vec3{}, math.Vec3{X: 10, Z: 10}, math.Vec3{X: 20})
	low := SampleByDistance(c, 1.5, 1)
	min := SampleByDistance(c, 1.5, MinResolution)
	if diff := cmp.Diff(min, low); diff != "" {
		t.Errorf("resolution below minimum should clamp (-min +low):\n%s", diff)
	}
}

func TestSampleDeterministic(t *testing.T) {
	c := spline.NewCatmullRom(false, math.Vec3{}, math.Vec3{X: 10, Z: 10}, math.Vec3{X: 20})
	a := SampleByDistance(c, 0.75, 512)
	b := SampleByDistance(c, 0.75, 512)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("sampling is not deterministic:\n%s", diff)
	}
}

func TestSampleStationaryHeadKeepsTangent(t *testing.T) {
	// Holds still for the first half, then moves along +Z.
	c := spline.CurveFunc(func(t float64) math.Vec3 {
		return math.Vec3{Z: 20 * gomath.Max(t-0.5, 0)}
	})
	samples := SampleByDistance(c, 1, 64)
	if len(samples) != 11 {
		t.Fatalf("expected 11 samples, got %d", len(samples))
	}
	for i, s := range samples {
		if !nearVec(s.Tangent, math.Forward, 1e-12) {
			t.Errorf("sample %d tangent = %v, want forward", i, s.Tangent)
		}
	}
}
