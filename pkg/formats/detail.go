package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// Detail format errors.
var (
	ErrInvalidDetailMagic       = errors.New("invalid detail magic: expected 'GRDT'")
	ErrUnsupportedDetailVersion = errors.New("unsupported detail version")
	ErrTruncatedDetailData      = errors.New("truncated detail data")
	ErrInvalidDetailDimensions  = errors.New("invalid detail dimensions")
)

const detailMagic = "GRDT"

// Details holds the per-prototype density grids of a terrain. Every layer
// is Width x Height, row-major.
type Details struct {
	Version Version
	Width   uint32
	Height  uint32
	Layers  [][]uint16
}

// ParseDetails parses detail layers from raw bytes. A file with zero
// layers is valid.
func ParseDetails(data []byte) (*Details, error) {
	if len(data) < headerSize {
		return nil, ErrTruncatedDetailData
	}
	if string(data[0:4]) != detailMagic {
		return nil, ErrInvalidDetailMagic
	}

	version := Version{Major: data[5], Minor: data[4]}
	if version.Major != CurrentVersion.Major {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDetailVersion, version)
	}

	r := bytes.NewReader(data[6:])
	var dims [3]uint32
	if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return nil, fmt.Errorf("%w: reading dimensions", ErrTruncatedDetailData)
	}
	width, height, count := dims[0], dims[1], dims[2]
	if count > 0 && (width == 0 || height == 0) || width > maxDimension || height > maxDimension || count > 256 {
		return nil, fmt.Errorf("%w: %dx%d with %d layers", ErrInvalidDetailDimensions, width, height, count)
	}

	cells := int(width) * int(height)
	if r.Len() < cells*int(count)*2 {
		return nil, fmt.Errorf("%w: need %d layers of %d cells", ErrTruncatedDetailData, count, cells)
	}

	d := &Details{
		Version: version,
		Width:   width,
		Height:  height,
		Layers:  make([][]uint16, count),
	}
	for i := range d.Layers {
		d.Layers[i] = make([]uint16, cells)
		if err := binary.Read(r, binary.LittleEndian, d.Layers[i]); err != nil {
			return nil, fmt.Errorf("%w: reading layer %d", ErrTruncatedDetailData, i)
		}
	}
	return d, nil
}

// ParseDetailsFile parses detail layers from disk.
func ParseDetailsFile(path string) (*Details, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading detail file: %w", err)
	}
	return ParseDetails(data)
}

// Bytes encodes the detail layers at CurrentVersion.
func (d *Details) Bytes() []byte {
	cells := int(d.Width) * int(d.Height)
	buf := bytes.NewBuffer(make([]byte, 0, headerSize+cells*len(d.Layers)*2))
	buf.WriteString(detailMagic)
	buf.WriteByte(CurrentVersion.Minor)
	buf.WriteByte(CurrentVersion.Major)
	binary.Write(buf, binary.LittleEndian, [3]uint32{d.Width, d.Height, uint32(len(d.Layers))})
	for _, layer := range d.Layers {
		binary.Write(buf, binary.LittleEndian, layer)
	}
	return buf.Bytes()
}
