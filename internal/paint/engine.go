// Package paint implements the spline terrain painter: arc-length path
// sampling, falloff-weighted splat map blending with layer renormalization,
// detail clearing and tree culling along the path.
//
// A paint operation snapshots the weight grid, detail layers and tree list
// once, edits the snapshots in memory and commits them back at the end.
// Strokes from overlapping samples accumulate because every update reads the
// current in-memory value. Painters are not safe for concurrent use on the
// same target.
package paint

import (
	"fmt"
	gomath "math"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/Faultbox/splinepaint/internal/terrain"
	"github.com/Faultbox/splinepaint/pkg/math"
	"github.com/Faultbox/splinepaint/pkg/spline"
)

// Target bundles the terrain stores a paint operation reads and writes.
// Details and Objects may be nil when the matching clear option is off.
type Target struct {
	Bounds  terrain.BoundsProvider
	Weights terrain.WeightStore
	Details terrain.DetailStore
	Objects terrain.ObjectStore
}

// TargetFor builds a Target backed by a single in-memory terrain.
func TargetFor(t *terrain.Terrain) Target {
	return Target{Bounds: t, Weights: t, Details: t, Objects: t}
}

// Result summarizes a completed paint operation.
type Result struct {
	Samples            int
	PaintPoints        int
	SkippedPoints      int // Paint points outside the terrain footprint
	CellsTouched       int // Weight-grid cell updates (a cell hit twice counts twice)
	DetailCellsCleared int
	TreesRemoved       int
	TreesKept          int
	Duration           time.Duration
}

// Painter runs paint operations.
type Painter struct {
	log *zap.Logger
}

// NewPainter creates a painter. A nil logger disables logging.
func NewPainter(log *zap.Logger) *Painter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Painter{log: log}
}

// Paint samples the curve and applies the brush along it.
//
// All parameters and stores are validated before anything is modified; a
// validation error leaves the target untouched.
func (p *Painter) Paint(c spline.Curve, params Params, target Target) (*Result, error) {
	start := time.Now()

	if c == nil || target.Bounds == nil || target.Weights == nil {
		return nil, ErrNoTarget
	}
	if params.ClearDetails && target.Details == nil {
		return nil, fmt.Errorf("%w: detail store required to clear details", ErrNoTarget)
	}
	if params.ClearTrees && target.Objects == nil {
		return nil, fmt.Errorf("%w: object store required to clear trees", ErrNoTarget)
	}

	bounds := target.Bounds.Bounds()
	if err := bounds.Validate(); err != nil {
		return nil, err
	}

	weights := target.Weights.Weights()
	if weights == nil {
		return nil, fmt.Errorf("%w: weight store returned no grid", ErrNoTarget)
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(weights.Layers); err != nil {
		return nil, err
	}

	var details []*terrain.DetailLayer
	if params.ClearDetails {
		n := target.Details.DetailLayerCount()
		details = make([]*terrain.DetailLayer, n)
		for i := 0; i < n; i++ {
			details[i] = target.Details.DetailLayer(i)
		}
		if err := terrain.ValidateDetailLayers(details); err != nil {
			return nil, err
		}
	}

	// Pre-paint copies for rolling back a commit that fails part way.
	before := snapshot{weights: weights.Clone()}
	if len(details) > 0 {
		before.details = make([]*terrain.DetailLayer, len(details))
		for i, d := range details {
			before.details[i] = d.Clone()
		}
	}

	var trees []terrain.TreeInstance
	if params.ClearTrees {
		trees = target.Objects.Trees()
	}

	resolution := params.Resolution
	if resolution == 0 {
		resolution = DefaultResolution
	}
	samples := SampleByDistance(c, params.Spacing, resolution)

	res := &Result{Samples: len(samples)}
	texBrush := newBrush(bounds, weights.Width, weights.Height, params.Radius(), true)
	var detailBrush brush
	if len(details) > 0 {
		detailBrush = newBrush(bounds, details[0].Width, details[0].Height, params.Radius(), false)
	}

	p.log.Debug("painting along spline",
		zap.Int("samples", len(samples)),
		zap.Int("layer", params.Layer),
		zap.Float64("radius", params.Radius()),
		zap.Int("radius_px_x", texBrush.radiusX),
		zap.Int("radius_px_y", texBrush.radiusY),
		zap.Stringer("offsets", params.Offsets),
	)

	points := make([]math.Vec3, 0, 3)
	var allPoints []math.Vec3
	for _, s := range samples {
		points = PaintPoints(s, params.Width, params.Offsets, points[:0])
		for _, pt := range points {
			res.PaintPoints++
			if params.ClearTrees {
				allPoints = append(allPoints, pt)
			}

			u, v := bounds.Normalized(pt)
			if !terrain.Contains(u, v) {
				res.SkippedPoints++
				continue
			}

			res.CellsTouched += paintTexture(weights, texBrush, u, v, params)
			if len(details) > 0 {
				res.DetailCellsCleared += clearDetails(details, detailBrush, u, v)
			}
		}
	}

	if params.ClearTrees {
		kept := cullTrees(trees, bounds, allPoints, params.Radius())
		res.TreesRemoved = len(trees) - len(kept)
		res.TreesKept = len(kept)
		trees = kept
	}

	if err := p.commit(target, params, before, weights, details, trees); err != nil {
		return nil, err
	}

	res.Duration = time.Since(start)
	p.log.Info("spline paint complete",
		zap.Int("samples", res.Samples),
		zap.Int("paint_points", res.PaintPoints),
		zap.Int("skipped_points", res.SkippedPoints),
		zap.Int("cells_touched", res.CellsTouched),
		zap.Int("detail_cells_cleared", res.DetailCellsCleared),
		zap.Int("trees_removed", res.TreesRemoved),
		zap.Duration("took", res.Duration),
	)
	return res, nil
}

// snapshot holds the store contents as they were before painting.
type snapshot struct {
	weights *terrain.WeightGrid
	details []*terrain.DetailLayer
}

// commit writes the edited snapshots back to the stores. If a detail layer
// is rejected, the weights and the detail layers already written are
// restored from before, so a failed commit leaves the stores as they were.
func (p *Painter) commit(target Target, params Params, before snapshot, weights *terrain.WeightGrid,
	details []*terrain.DetailLayer, trees []terrain.TreeInstance) error {
	if err := target.Weights.SetWeights(weights); err != nil {
		return fmt.Errorf("committing weights: %w", err)
	}
	if params.ClearDetails {
		for i, d := range details {
			if err := target.Details.SetDetailLayer(i, d); err != nil {
				err = fmt.Errorf("committing detail layer %d: %w", i, err)
				if rerr := p.rollback(target, before, i); rerr != nil {
					return multierr.Append(err, fmt.Errorf("rolling back: %w", rerr))
				}
				return err
			}
		}
	}
	if params.ClearTrees {
		target.Objects.ReplaceTrees(trees)
	}
	return nil
}

// rollback restores the pre-paint weights and the first n detail layers.
func (p *Painter) rollback(target Target, before snapshot, n int) error {
	var err error
	if werr := target.Weights.SetWeights(before.weights); werr != nil {
		err = multierr.Append(err, fmt.Errorf("weights: %w", werr))
	}
	for i := 0; i < n; i++ {
		if derr := target.Details.SetDetailLayer(i, before.details[i]); derr != nil {
			err = multierr.Append(err, fmt.Errorf("detail layer %d: %w", i, derr))
		}
	}
	p.log.Warn("paint commit rolled back", zap.Int("detail_layers_restored", n), zap.Error(err))
	return err
}

// PaintPoints appends the world-space brush centers of one sample to dst.
// Left and right points sit width/2 to either side, measured along the
// horizontal right vector cross(up, tangent). When that vector is undefined
// (zero or vertical tangent) the sample contributes its center only.
func PaintPoints(s Sample, width float64, offsets Offset, dst []math.Vec3) []math.Vec3 {
	right := math.Up.Cross(s.Tangent).Normalize()
	if right.IsZero() {
		if offsets&(OffsetCenter|OffsetLeft|OffsetRight) != 0 {
			dst = append(dst, s.Position)
		}
		return dst
	}

	half := right.Scale(width / 2)
	if offsets.Has(OffsetCenter) {
		dst = append(dst, s.Position)
	}
	if offsets.Has(OffsetLeft) {
		dst = append(dst, s.Position.Sub(half))
	}
	if offsets.Has(OffsetRight) {
		dst = append(dst, s.Position.Add(half))
	}
	return dst
}

// brush is an elliptical pixel footprint on one grid.
type brush struct {
	width, height    int
	radiusX, radiusY int
	// Scale from normalized (u, v) to the center cell.
	centerScaleX, centerScaleY float64
}

// newBrush computes the pixel footprint of a world-space radius on a grid.
// Weight grids sample terrain corners, so their pixel density uses
// (size-1) cells across the terrain; detail grids use size cells.
func newBrush(bounds terrain.Bounds, width, height int, radiusWorld float64, cornerSampled bool) brush {
	spanX, spanY := float64(width), float64(height)
	if cornerSampled {
		spanX, spanY = float64(width-1), float64(height-1)
	}
	pxPerUnitX := spanX / bounds.Size.X
	pxPerUnitY := spanY / bounds.Size.Z
	return brush{
		width:        width,
		height:       height,
		radiusX:      math.CeilToInt(radiusWorld * pxPerUnitX),
		radiusY:      math.CeilToInt(radiusWorld * pxPerUnitY),
		centerScaleX: spanX,
		centerScaleY: spanY,
	}
}

// center returns the cell under normalized (u, v).
func (b brush) center(u, v float64) (int, int) {
	return math.RoundToInt(u * b.centerScaleX), math.RoundToInt(v * b.centerScaleY)
}

// visit calls fn for every in-grid cell inside the elliptical footprint around
// (cx, cy) with its normalized radial distance r in [0, 1].
func (b brush) visit(cx, cy int, fn func(x, y int, r float64)) {
	for dy := -b.radiusY; dy <= b.radiusY; dy++ {
		py := cy + dy
		if py < 0 || py >= b.height {
			continue
		}
		ny := axisOffset(dy, b.radiusY)
		for dx := -b.radiusX; dx <= b.radiusX; dx++ {
			px := cx + dx
			if px < 0 || px >= b.width {
				continue
			}
			nx := axisOffset(dx, b.radiusX)
			r := gomath.Sqrt(nx*nx + ny*ny)
			if r > 1 {
				continue
			}
			fn(px, py, r)
		}
	}
}

// axisOffset normalizes a pixel offset by the axis radius. A zero radius only
// admits the center offset, which maps to 0.
func axisOffset(d, radius int) float64 {
	if radius == 0 {
		return 0
	}
	return float64(d) / float64(radius)
}

// paintTexture applies the brush to the weight grid and returns the number of
// cells updated.
func paintTexture(g *terrain.WeightGrid, b brush, u, v float64, params Params) int {
	cx, cy := b.center(u, v)
	touched := 0
	b.visit(cx, cy, func(x, y int, r float64) {
		add := params.Strength * math.Clamp01(params.Falloff.Evaluate(r))
		BlendCell(g.Cell(x, y), params.Layer, add, params.Normalize)
		touched++
	})
	return touched
}

// BlendCell applies one brush contribution to a cell's layer weights as a
// single transform over all layers.
//
// The target layer moves toward 1 by a saturating blend w + add*(1-w). With
// normalize set the cell is then renormalized around the target layer.
func BlendCell(cell []float64, layer int, add float64, normalize bool) {
	cell[layer] = math.Clamp01(cell[layer] + add*(1-cell[layer]))
	if normalize {
		NormalizeCell(cell, layer)
	}
}

// NormalizeCell keeps the weight of layer and scales the other layers
// proportionally so the cell sums to 1. If the other layers hold no weight
// at all the layer is set to exactly 1.
func NormalizeCell(cell []float64, layer int) {
	if !ScaleOthers(cell, layer) {
		cell[layer] = 1
	}
}

// ScaleOthers clamps the weight of layer to [0,1] and scales the other
// layers so the cell sums to 1. It reports false and leaves the cell
// otherwise unchanged when the other layers hold no weight.
func ScaleOthers(cell []float64, layer int) bool {
	current := math.Clamp01(cell[layer])
	otherSum := 0.0
	for l, w := range cell {
		if l != layer {
			otherSum += w
		}
	}
	if otherSum <= 0 {
		return false
	}
	remain := max(0, 1-current)
	floats.Scale(remain/otherSum, cell)
	cell[layer] = current
	return true
}
