package formats

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
)

// TreeRecord is one row of a tree instance CSV. Positions are normalized
// terrain coordinates in [0,1].
type TreeRecord struct {
	X           float64 `csv:"x"`
	Y           float64 `csv:"y"`
	Z           float64 `csv:"z"`
	Prototype   int     `csv:"prototype"`
	WidthScale  float64 `csv:"width_scale"`
	HeightScale float64 `csv:"height_scale"`
	Rotation    float64 `csv:"rotation"`
	Color       string  `csv:"color"`
}

// ReadTrees decodes tree records from CSV with a header row. Empty input
// yields no records.
func ReadTrees(r io.Reader) ([]TreeRecord, error) {
	var records []TreeRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding trees: %w", err)
	}
	return records, nil
}

// ParseTreesFile reads tree records from disk. A missing file means no trees.
func ParseTreesFile(path string) ([]TreeRecord, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading tree file: %w", err)
	}
	return ReadTrees(bytes.NewReader(data))
}

// WriteTrees encodes tree records as CSV with a header row.
func WriteTrees(w io.Writer, records []TreeRecord) error {
	if records == nil {
		records = []TreeRecord{}
	}
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("encoding trees: %w", err)
	}
	return nil
}

// TreesBytes encodes tree records to a byte slice.
func TreesBytes(records []TreeRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTrees(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
