package paint

import (
	"errors"
	"fmt"
	"strings"
)

// Parameter validation errors.
var (
	ErrLayerOutOfRange = errors.New("target layer out of range")
	ErrNegativeWidth   = errors.New("brush width must not be negative")
	ErrInvalidSpacing  = errors.New("spacing must be positive")
	ErrInvalidStrength = errors.New("strength must be within [0, 1]")
	ErrNoFalloff       = errors.New("falloff curve is required")
	ErrNoOffsets       = errors.New("at least one offset mode is required")
	ErrNoTarget        = errors.New("paint target is incomplete")
)

// Offset selects which paint points a sample contributes.
type Offset uint8

// Offset modes. They combine as a bit set.
const (
	OffsetCenter Offset = 1 << iota
	OffsetLeft
	OffsetRight
)

// Has reports whether mode m is selected.
func (o Offset) Has(m Offset) bool {
	return o&m != 0
}

// String returns the selected modes joined with "+".
func (o Offset) String() string {
	var parts []string
	if o.Has(OffsetCenter) {
		parts = append(parts, "center")
	}
	if o.Has(OffsetLeft) {
		parts = append(parts, "left")
	}
	if o.Has(OffsetRight) {
		parts = append(parts, "right")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// ErrUnknownOffset is returned by ParseOffset for names other than center,
// left and right.
var ErrUnknownOffset = errors.New("unknown offset mode")

// ParseOffset combines offset names such as "center", "left+right" or
// "center,left" into a mode set.
func ParseOffset(names ...string) (Offset, error) {
	var o Offset
	for _, name := range names {
		for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '+' || r == ',' }) {
			switch strings.ToLower(strings.TrimSpace(part)) {
			case "center":
				o |= OffsetCenter
			case "left":
				o |= OffsetLeft
			case "right":
				o |= OffsetRight
			case "":
			default:
				return 0, fmt.Errorf("%w: %q", ErrUnknownOffset, part)
			}
		}
	}
	return o, nil
}

// MinRadius is the smallest brush radius in world units.
const MinRadius = 0.01

// Params configures one paint operation. It is not modified while painting.
type Params struct {
	Layer        int     // Target weight-grid layer
	Width        float64 // Brush width in world units
	Falloff      Falloff // Weight by normalized radial distance
	Spacing      float64 // Arc-length distance between samples
	Strength     float64 // [0, 1]
	Normalize    bool    // Keep layer weights summing to 1
	Offsets      Offset
	ClearDetails bool
	ClearTrees   bool
	Resolution   int // Sampler resolution; 0 uses DefaultResolution
}

// DefaultParams returns the painter defaults: a 6 unit wide ease-in-out brush
// at full strength, one sample per world unit, center only.
func DefaultParams() Params {
	return Params{
		Layer:      0,
		Width:      6,
		Falloff:    EaseInOut(0, 1, 1, 0),
		Spacing:    1,
		Strength:   1,
		Normalize:  true,
		Offsets:    OffsetCenter,
		Resolution: DefaultResolution,
	}
}

// Radius returns the world-space brush radius.
func (p Params) Radius() float64 {
	return max(MinRadius, p.Width*0.5)
}

// Validate checks the parameters against a grid with the given layer count.
func (p Params) Validate(layers int) error {
	if p.Layer < 0 || p.Layer >= layers {
		return fmt.Errorf("%w: %d (grid has %d layers)", ErrLayerOutOfRange, p.Layer, layers)
	}
	if p.Width < 0 {
		return fmt.Errorf("%w: %g", ErrNegativeWidth, p.Width)
	}
	if !(p.Spacing > 0) {
		return fmt.Errorf("%w: %g", ErrInvalidSpacing, p.Spacing)
	}
	if !(p.Strength >= 0 && p.Strength <= 1) {
		return fmt.Errorf("%w: %g", ErrInvalidStrength, p.Strength)
	}
	if p.Falloff == nil {
		return ErrNoFalloff
	}
	if p.Offsets&(OffsetCenter|OffsetLeft|OffsetRight) == 0 {
		return ErrNoOffsets
	}
	return nil
}
