package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// createTestSplat builds a splat file with every cell fully on layer 0.
func createTestSplat(width, height, layers uint32) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString("GRSP")
	buf.WriteByte(0) // minor
	buf.WriteByte(1) // major
	binary.Write(buf, binary.LittleEndian, width)
	binary.Write(buf, binary.LittleEndian, height)
	binary.Write(buf, binary.LittleEndian, layers)
	for i := 0; i < int(width*height); i++ {
		for l := 0; l < int(layers); l++ {
			w := float32(0)
			if l == 0 {
				w = 1
			}
			binary.Write(buf, binary.LittleEndian, w)
		}
	}
	return buf.Bytes()
}

func TestParseSplat_ValidFile(t *testing.T) {
	s, err := ParseSplat(createTestSplat(4, 3, 2))
	if err != nil {
		t.Fatalf("ParseSplat failed: %v", err)
	}
	if s.Version != CurrentVersion {
		t.Errorf("expected version %s, got %s", CurrentVersion, s.Version)
	}
	if s.Width != 4 || s.Height != 3 || s.Layers != 2 {
		t.Errorf("expected 4x3x2, got %dx%dx%d", s.Width, s.Height, s.Layers)
	}
	if len(s.Weights) != 24 {
		t.Errorf("expected 24 weights, got %d", len(s.Weights))
	}
	cell := s.Cell(3, 2)
	if len(cell) != 2 || cell[0] != 1 || cell[1] != 0 {
		t.Errorf("unexpected cell (3,2): %v", cell)
	}
	if s.Cell(4, 0) != nil {
		t.Error("expected nil for out-of-bounds cell")
	}
}

func TestSplat_BytesParsesBack(t *testing.T) {
	s := &Splat{Width: 2, Height: 2, Layers: 3, Weights: []float32{
		1, 0, 0,
		0.5, 0.25, 0.25,
		0, 1, 0,
		0, 0, 1,
	}}
	parsed, err := ParseSplat(s.Bytes())
	if err != nil {
		t.Fatalf("ParseSplat failed: %v", err)
	}
	if got := parsed.Cell(1, 0); got[0] != 0.5 || got[1] != 0.25 || got[2] != 0.25 {
		t.Errorf("cell (1,0) = %v, want [0.5 0.25 0.25]", got)
	}
}

func TestParseSplat_Errors(t *testing.T) {
	valid := createTestSplat(2, 2, 2)

	badVersion := append([]byte(nil), valid...)
	badVersion[5] = 9

	zeroLayers := createTestSplat(2, 2, 0)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"truncated header", []byte("GRSP"), ErrTruncatedSplatData},
		{"bad magic", append([]byte("XXXX"), valid[4:]...), ErrInvalidSplatMagic},
		{"bad version", badVersion, ErrUnsupportedSplatVersion},
		{"zero layers", zeroLayers, ErrInvalidSplatDimensions},
		{"truncated weights", valid[:len(valid)-1], ErrTruncatedSplatData},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSplat(tc.data)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseSplatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "splat.grsp")
	if err := os.WriteFile(path, createTestSplat(1, 1, 1), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := ParseSplatFile(path)
	if err != nil {
		t.Fatalf("ParseSplatFile failed: %v", err)
	}
	if s.Weights[0] != 1 {
		t.Errorf("expected weight 1, got %v", s.Weights[0])
	}

	if _, err := ParseSplatFile(filepath.Join(t.TempDir(), "missing.grsp")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
