// Package terrain holds the in-memory terrain data the painter edits:
// the layered weight grid (splat map), detail density layers and tree instances.
package terrain

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/Faultbox/splinepaint/pkg/math"
)

// Bounds is the axis-aligned world footprint of a terrain.
type Bounds struct {
	Origin math.Vec3 // World position of the terrain corner
	Size   math.Vec3 // World size (X width, Y max height, Z length)
}

// Normalized maps a world position to terrain-normalized (u, v) using the
// X and Z axes. The result is not clamped: values outside [0, 1] are off-terrain.
func (b Bounds) Normalized(world math.Vec3) (u, v float64) {
	u = math.InverseLerp(b.Origin.X, b.Origin.X+b.Size.X, world.X)
	v = math.InverseLerp(b.Origin.Z, b.Origin.Z+b.Size.Z, world.Z)
	return u, v
}

// Contains reports whether (u, v) lies on the terrain.
func Contains(u, v float64) bool {
	return u >= 0 && u <= 1 && v >= 0 && v <= 1
}

// World converts a normalized [0,1]^3 position to world space.
func (b Bounds) World(normalized math.Vec3) math.Vec3 {
	return normalized.Mul(b.Size).Add(b.Origin)
}

// Validate checks that the footprint has positive horizontal extent.
func (b Bounds) Validate() error {
	if b.Size.X <= 0 || b.Size.Z <= 0 {
		return fmt.Errorf("%w: size %.2fx%.2f", ErrInvalidBounds, b.Size.X, b.Size.Z)
	}
	return nil
}

// WeightGrid is a 2D grid of per-cell layer weights (the splat map).
// Data is laid out row-major with Layers consecutive weights per cell.
type WeightGrid struct {
	Width  int
	Height int
	Layers int
	Data   []float64
}

// NewWeightGrid creates a grid where every cell is fully covered by layer 0,
// the default for unpainted terrain.
func NewWeightGrid(width, height, layers int) *WeightGrid {
	g := &WeightGrid{
		Width:  width,
		Height: height,
		Layers: layers,
		Data:   make([]float64, width*height*layers),
	}
	if layers > 0 {
		for i := 0; i < len(g.Data); i += layers {
			g.Data[i] = 1
		}
	}
	return g
}

// Cell returns the layer weights at (x, y). The slice aliases Data.
func (g *WeightGrid) Cell(x, y int) []float64 {
	i := (y*g.Width + x) * g.Layers
	return g.Data[i : i+g.Layers : i+g.Layers]
}

// At returns the weight of one layer at (x, y).
func (g *WeightGrid) At(x, y, layer int) float64 {
	return g.Data[(y*g.Width+x)*g.Layers+layer]
}

// Set writes the weight of one layer at (x, y).
func (g *WeightGrid) Set(x, y, layer int, w float64) {
	g.Data[(y*g.Width+x)*g.Layers+layer] = w
}

// Sum returns the total weight across all layers at (x, y).
func (g *WeightGrid) Sum(x, y int) float64 {
	return floats.Sum(g.Cell(x, y))
}

// Clone returns a deep copy.
func (g *WeightGrid) Clone() *WeightGrid {
	c := *g
	c.Data = make([]float64, len(g.Data))
	copy(c.Data, g.Data)
	return &c
}

// Validate checks dimensions against the data length.
func (g *WeightGrid) Validate() error {
	if g.Width <= 0 || g.Height <= 0 || g.Layers <= 0 {
		return fmt.Errorf("%w: %dx%d with %d layers", ErrInvalidGrid, g.Width, g.Height, g.Layers)
	}
	if len(g.Data) != g.Width*g.Height*g.Layers {
		return fmt.Errorf("%w: expected %d weights, got %d", ErrInvalidGrid, g.Width*g.Height*g.Layers, len(g.Data))
	}
	return nil
}

// LayerCoverage returns the mean weight of each layer over the whole grid.
func (g *WeightGrid) LayerCoverage() []float64 {
	out := make([]float64, g.Layers)
	cells := g.Width * g.Height
	if cells == 0 {
		return out
	}
	for i := 0; i < len(g.Data); i += g.Layers {
		floats.Add(out, g.Data[i:i+g.Layers])
	}
	floats.Scale(1/float64(cells), out)
	return out
}

// DetailLayer is an integer density grid for one scatter prototype (grass, rocks).
type DetailLayer struct {
	Width   int
	Height  int
	Density []int
}

// NewDetailLayer creates a layer filled with the given density.
func NewDetailLayer(width, height, density int) *DetailLayer {
	d := &DetailLayer{
		Width:   width,
		Height:  height,
		Density: make([]int, width*height),
	}
	if density != 0 {
		for i := range d.Density {
			d.Density[i] = density
		}
	}
	return d
}

// At returns the density at (x, y).
func (d *DetailLayer) At(x, y int) int {
	return d.Density[y*d.Width+x]
}

// Set writes the density at (x, y).
func (d *DetailLayer) Set(x, y, density int) {
	d.Density[y*d.Width+x] = density
}

// Total returns the sum of all densities.
func (d *DetailLayer) Total() int {
	total := 0
	for _, v := range d.Density {
		total += v
	}
	return total
}

// ValidateDetailLayers checks that every layer is non-nil, holds
// Width*Height densities and matches the size of the first layer.
func ValidateDetailLayers(layers []*DetailLayer) error {
	for i, d := range layers {
		if d == nil || d.Width < 0 || d.Height < 0 || len(d.Density) != d.Width*d.Height {
			return fmt.Errorf("%w: detail layer %d", ErrDimensionMismatch, i)
		}
		if i > 0 && (d.Width != layers[0].Width || d.Height != layers[0].Height) {
			return fmt.Errorf("%w: detail layer %d is %dx%d, expected %dx%d",
				ErrDimensionMismatch, i, d.Width, d.Height, layers[0].Width, layers[0].Height)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (d *DetailLayer) Clone() *DetailLayer {
	c := *d
	c.Density = make([]int, len(d.Density))
	copy(c.Density, d.Density)
	return &c
}

// TreeInstance is a point object placed on the terrain. Only Position is
// interpreted by the painter; the remaining fields are carried through.
type TreeInstance struct {
	Position    math.Vec3 // Normalized [0,1]^3 position relative to the terrain bounds
	Prototype   int
	WidthScale  float64
	HeightScale float64
	Rotation    float64
	Color       string
}
