package paint

import (
	gomath "math"
	"sort"

	"github.com/Faultbox/splinepaint/pkg/math"
	"github.com/Faultbox/splinepaint/pkg/spline"
)

// Sampler resolution bounds.
const (
	DefaultResolution = 2048
	MinResolution     = 8
)

// Sample is a point on a path with its unit direction of travel.
type Sample struct {
	Position math.Vec3
	Tangent  math.Vec3
}

// SampleByDistance resamples a curve at uniform arc-length spacing.
//
// The curve is first evaluated at resolution+1 evenly spaced parameters and
// measured as a polyline. Samples are then placed every spacing units along
// that polyline, always including both ends, so the result holds
// ceil(length/spacing)+1 samples. A zero-length curve yields one sample facing
// forward. A nil curve or non-positive spacing yields nothing.
func SampleByDistance(c spline.Curve, spacing float64, resolution int) []Sample {
	if c == nil || !(spacing > 0) {
		return nil
	}

	res := max(MinResolution, resolution)
	points := make([]math.Vec3, res+1)
	cum := make([]float64, res+1)

	points[0] = c.EvaluatePosition(0)
	for i := 1; i <= res; i++ {
		points[i] = c.EvaluatePosition(float64(i) / float64(res))
		cum[i] = cum[i-1] + points[i-1].Distance(points[i])
	}

	total := cum[res]
	if total <= 0 {
		return []Sample{{Position: points[0], Tangent: math.Forward}}
	}

	count := max(1, math.CeilToInt(total/spacing))
	samples := make([]Sample, 0, count+1)
	for k := 0; k <= count; k++ {
		d := gomath.Min(float64(k)*spacing, total)

		// First segment whose end reaches d.
		j := sort.Search(res, func(j int) bool { return cum[j+1] >= d })
		if j >= res {
			samples = append(samples, Sample{
				Position: points[res],
				Tangent:  segmentDirection(points, res-1),
			})
			continue
		}

		segLen := cum[j+1] - cum[j]
		local := 0.0
		if segLen > 0 {
			local = (d - cum[j]) / segLen
		}
		samples = append(samples, Sample{
			Position: points[j].Lerp(points[j+1], local),
			Tangent:  segmentDirection(points, j),
		})
	}
	return samples
}

// segmentDirection returns the unit direction of segment j. Degenerate
// segments borrow the direction of the nearest preceding segment, then the
// nearest following one.
func segmentDirection(points []math.Vec3, j int) math.Vec3 {
	if dir := points[j+1].Sub(points[j]).Normalize(); !dir.IsZero() {
		return dir
	}
	for i := j - 1; i >= 0; i-- {
		if dir := points[i+1].Sub(points[i]).Normalize(); !dir.IsZero() {
			return dir
		}
	}
	for i := j + 1; i+1 < len(points); i++ {
		if dir := points[i+1].Sub(points[i]).Normalize(); !dir.IsZero() {
			return dir
		}
	}
	return math.Vec3{}
}

// PathLength returns the polyline length of the curve at the given resolution.
func PathLength(c spline.Curve, resolution int) float64 {
	if c == nil {
		return 0
	}
	res := max(MinResolution, resolution)
	prev := c.EvaluatePosition(0)
	total := 0.0
	for i := 1; i <= res; i++ {
		p := c.EvaluatePosition(float64(i) / float64(res))
		total += prev.Distance(p)
		prev = p
	}
	return total
}
