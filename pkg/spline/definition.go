package spline

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/splinepaint/pkg/math"
)

// Definition errors.
var (
	ErrUnknownType = errors.New("unknown spline type")
	ErrNoKnots     = errors.New("spline has no knots")
)

// Type names a curve construction.
type Type string

// Supported curve types.
const (
	TypeLinear     Type = "linear"
	TypeCatmullRom Type = "catmull_rom"
	TypeBezier     Type = "bezier"
)

// Point is a YAML-friendly 3D point written as [x, y, z].
type Point [3]float64

// Vec3 converts the point to a vector.
func (p Point) Vec3() math.Vec3 {
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

// KnotDefinition is one knot of a spline document.
// Tangents are only used by Bezier splines.
type KnotDefinition struct {
	Position   Point `yaml:"position"`
	TangentIn  Point `yaml:"tangent_in,omitempty"`
	TangentOut Point `yaml:"tangent_out,omitempty"`
}

// Definition is the on-disk description of a spline.
//
//	type: catmull_rom
//	closed: false
//	position: [100, 0, 100]
//	knots:
//	  - position: [0, 0, 0]
//	  - position: [50, 0, 20]
type Definition struct {
	Name     string           `yaml:"name,omitempty"`
	Type     Type             `yaml:"type"`
	Closed   bool             `yaml:"closed"`
	Position Point            `yaml:"position,omitempty"`
	Knots    []KnotDefinition `yaml:"knots"`
}

// Build constructs the curve described by the definition.
func (d *Definition) Build() (Curve, error) {
	if len(d.Knots) == 0 {
		return nil, ErrNoKnots
	}

	var c Curve
	switch Type(strings.ToLower(string(d.Type))) {
	case TypeLinear:
		c = NewLinear(d.Closed, d.positions()...)
	case TypeCatmullRom, "":
		c = NewCatmullRom(d.Closed, d.positions()...)
	case TypeBezier:
		knots := make([]BezierKnot, len(d.Knots))
		for i, k := range d.Knots {
			knots[i] = BezierKnot{
				Position:   k.Position.Vec3(),
				TangentIn:  k.TangentIn.Vec3(),
				TangentOut: k.TangentOut.Vec3(),
			}
		}
		c = NewBezier(d.Closed, knots...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, d.Type)
	}

	if offset := d.Position.Vec3(); !offset.IsZero() {
		c = Transformed{Curve: c, Position: offset}
	}
	return c, nil
}

func (d *Definition) positions() []math.Vec3 {
	out := make([]math.Vec3, len(d.Knots))
	for i, k := range d.Knots {
		out[i] = k.Position.Vec3()
	}
	return out
}

// Parse decodes a spline definition from YAML.
func Parse(data []byte) (*Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding spline: %w", err)
	}
	return &d, nil
}

// Load reads a spline definition file and builds its curve.
func Load(path string) (Curve, *Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading spline file: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, nil, err
	}
	c, err := d.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("building spline %s: %w", path, err)
	}
	return c, d, nil
}
