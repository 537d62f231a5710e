package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// Splat format errors.
var (
	ErrInvalidSplatMagic       = errors.New("invalid splat magic: expected 'GRSP'")
	ErrUnsupportedSplatVersion = errors.New("unsupported splat version")
	ErrTruncatedSplatData      = errors.New("truncated splat data")
	ErrInvalidSplatDimensions  = errors.New("invalid splat dimensions")
)

const splatMagic = "GRSP"

// Splat is a texture weight map: Width x Height cells, Layers weights per
// cell, stored cell-major (all layers of cell 0, then cell 1, ...).
type Splat struct {
	Version Version
	Width   uint32
	Height  uint32
	Layers  uint32
	Weights []float32
}

// Cell returns the layer weights at (x, y), or nil when out of bounds.
func (s *Splat) Cell(x, y int) []float32 {
	if x < 0 || y < 0 || x >= int(s.Width) || y >= int(s.Height) {
		return nil
	}
	i := (y*int(s.Width) + x) * int(s.Layers)
	return s.Weights[i : i+int(s.Layers)]
}

// ParseSplat parses a splat map from raw bytes.
func ParseSplat(data []byte) (*Splat, error) {
	if len(data) < headerSize {
		return nil, ErrTruncatedSplatData
	}
	if string(data[0:4]) != splatMagic {
		return nil, ErrInvalidSplatMagic
	}

	version := Version{Major: data[5], Minor: data[4]}
	if version.Major != CurrentVersion.Major {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSplatVersion, version)
	}

	r := bytes.NewReader(data[6:])
	var dims [3]uint32
	if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return nil, fmt.Errorf("%w: reading dimensions", ErrTruncatedSplatData)
	}
	width, height, layers := dims[0], dims[1], dims[2]
	if width == 0 || height == 0 || layers == 0 ||
		width > maxDimension || height > maxDimension || layers > 256 {
		return nil, fmt.Errorf("%w: %dx%d with %d layers", ErrInvalidSplatDimensions, width, height, layers)
	}

	count := int(width) * int(height) * int(layers)
	if r.Len() < count*4 {
		return nil, fmt.Errorf("%w: need %d weights, have %d bytes", ErrTruncatedSplatData, count, r.Len())
	}

	s := &Splat{
		Version: version,
		Width:   width,
		Height:  height,
		Layers:  layers,
		Weights: make([]float32, count),
	}
	if err := binary.Read(r, binary.LittleEndian, s.Weights); err != nil {
		return nil, fmt.Errorf("%w: reading weights", ErrTruncatedSplatData)
	}
	return s, nil
}

// ParseSplatFile parses a splat map from disk.
func ParseSplatFile(path string) (*Splat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading splat file: %w", err)
	}
	return ParseSplat(data)
}

// Bytes encodes the splat map at CurrentVersion.
func (s *Splat) Bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, headerSize+len(s.Weights)*4))
	buf.WriteString(splatMagic)
	buf.WriteByte(CurrentVersion.Minor)
	buf.WriteByte(CurrentVersion.Major)
	binary.Write(buf, binary.LittleEndian, [3]uint32{s.Width, s.Height, s.Layers})
	binary.Write(buf, binary.LittleEndian, s.Weights)
	return buf.Bytes()
}
