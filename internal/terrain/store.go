package terrain

import "fmt"

// WeightStore gives full-grid access to a terrain's splat map.
type WeightStore interface {
	// Weights returns a snapshot the caller may mutate freely.
	Weights() *WeightGrid
	// SetWeights replaces the whole grid.
	SetWeights(g *WeightGrid) error
}

// DetailStore gives per-prototype access to detail density layers.
type DetailStore interface {
	DetailLayerCount() int
	// DetailLayer returns a snapshot of layer i.
	DetailLayer(i int) *DetailLayer
	SetDetailLayer(i int, d *DetailLayer) error
}

// ObjectStore holds the terrain's tree instances.
type ObjectStore interface {
	// Trees returns a snapshot of all instances.
	Trees() []TreeInstance
	ReplaceTrees(trees []TreeInstance)
}

// BoundsProvider exposes the world footprint of a terrain.
type BoundsProvider interface {
	Bounds() Bounds
}

// Terrain is an in-memory terrain implementing every store interface.
type Terrain struct {
	bounds  Bounds
	weights *WeightGrid
	details []*DetailLayer
	trees   []TreeInstance
}

// New creates a terrain. The terrain takes ownership of the passed data.
func New(bounds Bounds, weights *WeightGrid, details []*DetailLayer, trees []TreeInstance) (*Terrain, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if weights == nil {
		return nil, fmt.Errorf("%w: nil weight grid", ErrInvalidGrid)
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateDetailLayers(details); err != nil {
		return nil, err
	}
	return &Terrain{
		bounds:  bounds,
		weights: weights,
		details: details,
		trees:   trees,
	}, nil
}

// Bounds implements BoundsProvider.
func (t *Terrain) Bounds() Bounds {
	return t.bounds
}

// Weights implements WeightStore.
func (t *Terrain) Weights() *WeightGrid {
	return t.weights.Clone()
}

// SetWeights implements WeightStore.
func (t *Terrain) SetWeights(g *WeightGrid) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if g.Width != t.weights.Width || g.Height != t.weights.Height || g.Layers != t.weights.Layers {
		return fmt.Errorf("%w: weight grid %dx%dx%d, expected %dx%dx%d", ErrDimensionMismatch,
			g.Width, g.Height, g.Layers, t.weights.Width, t.weights.Height, t.weights.Layers)
	}
	t.weights = g
	return nil
}

// DetailLayerCount implements DetailStore.
func (t *Terrain) DetailLayerCount() int {
	return len(t.details)
}

// DetailLayer implements DetailStore.
func (t *Terrain) DetailLayer(i int) *DetailLayer {
	if i < 0 || i >= len(t.details) {
		return nil
	}
	return t.details[i].Clone()
}

// SetDetailLayer implements DetailStore.
func (t *Terrain) SetDetailLayer(i int, d *DetailLayer) error {
	if i < 0 || i >= len(t.details) {
		return fmt.Errorf("%w: %d", ErrLayerOutOfRange, i)
	}
	cur := t.details[i]
	if d.Width != cur.Width || d.Height != cur.Height || len(d.Density) != d.Width*d.Height {
		return fmt.Errorf("%w: detail layer %dx%d, expected %dx%d", ErrDimensionMismatch,
			d.Width, d.Height, cur.Width, cur.Height)
	}
	t.details[i] = d
	return nil
}

// Trees implements ObjectStore.
func (t *Terrain) Trees() []TreeInstance {
	out := make([]TreeInstance, len(t.trees))
	copy(out, t.trees)
	return out
}

// ReplaceTrees implements ObjectStore.
func (t *Terrain) ReplaceTrees(trees []TreeInstance) {
	t.trees = trees
}

// DetailResolution returns the detail grid size, or 0x0 without detail layers.
func (t *Terrain) DetailResolution() (width, height int) {
	if len(t.details) == 0 {
		return 0, 0
	}
	return t.details[0].Width, t.details[0].Height
}
