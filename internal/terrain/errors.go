package terrain

import "errors"

// Terrain data errors.
var (
	ErrInvalidBounds     = errors.New("invalid terrain bounds")
	ErrInvalidGrid       = errors.New("invalid weight grid")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrLayerOutOfRange   = errors.New("detail layer index out of range")
)
