package paint

import (
	"errors"
	"testing"

	"github.com/Faultbox/splinepaint/internal/terrain"
	"github.com/Faultbox/splinepaint/pkg/math"
)

// sliceDetails is a DetailStore over a plain slice, with no size checks.
type sliceDetails struct {
	layers []*terrain.DetailLayer
}

func (s *sliceDetails) DetailLayerCount() int { return len(s.layers) }

func (s *sliceDetails) DetailLayer(i int) *terrain.DetailLayer {
	if s.layers[i] == nil {
		return nil
	}
	return s.layers[i].Clone()
}

func (s *sliceDetails) SetDetailLayer(i int, d *terrain.DetailLayer) error {
	s.layers[i] = d
	return nil
}

var errDiskFull = errors.New("disk full")

// failingDetails rejects writes to one detail layer.
type failingDetails struct {
	*terrain.Terrain
	failAt int
}

func (f *failingDetails) SetDetailLayer(i int, d *terrain.DetailLayer) error {
	if i == f.failAt {
		return errDiskFull
	}
	return f.Terrain.SetDetailLayer(i, d)
}

func TestPaintRejectsMismatchedDetailStore(t *testing.T) {
	tests := []struct {
		name   string
		layers []*terrain.DetailLayer
	}{
		{"different sizes", []*terrain.DetailLayer{
			terrain.NewDetailLayer(20, 20, 3),
			terrain.NewDetailLayer(4, 4, 3),
		}},
		{"nil layer", []*terrain.DetailLayer{
			terrain.NewDetailLayer(10, 10, 3),
			nil,
		}},
		{"short density", []*terrain.DetailLayer{
			{Width: 10, Height: 10, Density: make([]int, 50)},
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := newTestTerrain(t, 10, 2, 0, nil)
			target := TargetFor(tr)
			target.Details = &sliceDetails{layers: tc.layers}

			params := DefaultParams()
			params.Layer = 1
			params.ClearDetails = true

			_, err := NewPainter(nil).Paint(pointCurve(math.Vec3{X: 5, Z: 5}), params, target)
			if !errors.Is(err, terrain.ErrDimensionMismatch) {
				t.Fatalf("expected ErrDimensionMismatch, got %v", err)
			}
			if got := tr.Weights().At(5, 5, 1); got != 0 {
				t.Errorf("weights changed by a rejected paint: layer 1 = %v", got)
			}
		})
	}
}

func TestPaintRollsBackFailedDetailCommit(t *testing.T) {
	trees := []terrain.TreeInstance{{Position: math.Vec3{X: 0.5, Z: 0.5}}}
	tr := newTestTerrain(t, 10, 2, 10, trees)
	target := TargetFor(tr)
	target.Details = &failingDetails{Terrain: tr, failAt: 1}

	params := DefaultParams()
	params.Layer = 1
	params.Width = 4
	params.ClearDetails = true
	params.ClearTrees = true

	res, err := NewPainter(nil).Paint(pointCurve(math.Vec3{X: 5, Z: 5}), params, target)
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("expected the store error, got %v", err)
	}
	if res != nil {
		t.Errorf("expected no result on failure, got %+v", res)
	}

	if got := tr.Weights().At(5, 5, 1); got != 0 {
		t.Errorf("weights not rolled back: layer 1 at center = %v", got)
	}
	if got := tr.Weights().At(5, 5, 0); got != 1 {
		t.Errorf("weights not rolled back: layer 0 at center = %v", got)
	}
	if got := tr.DetailLayer(0).At(5, 5); got != 4 {
		t.Errorf("detail layer 0 not rolled back: density %d, want 4", got)
	}
	if got := tr.DetailLayer(1).At(5, 5); got != 2 {
		t.Errorf("detail layer 1 changed: density %d, want 2", got)
	}
	if len(tr.Trees()) != 1 {
		t.Errorf("trees committed after a failed detail commit: %v", tr.Trees())
	}
}

func TestPaintCommitsThroughCustomDetailStore(t *testing.T) {
	tr := newTestTerrain(t, 10, 2, 0, nil)
	store := &sliceDetails{layers: []*terrain.DetailLayer{terrain.NewDetailLayer(10, 10, 3)}}
	target := TargetFor(tr)
	target.Details = store

	params := DefaultParams()
	params.ClearDetails = true
	res, err := NewPainter(nil).Paint(pointCurve(math.Vec3{X: 5, Z: 5}), params, target)
	if err != nil {
		t.Fatalf("Paint failed: %v", err)
	}
	if res.DetailCellsCleared == 0 || store.layers[0].At(5, 5) != 0 {
		t.Errorf("expected details cleared through the custom store, got %+v", res)
	}
}
