// Package formats provides readers and writers for terrain project files:
// binary splat maps (GRSP), binary detail layers (GRDT), tree instance CSV
// and grayscale layer images.
package formats

import "fmt"

// Version is a format version stored on disk as [minor, major].
type Version struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// CurrentVersion is written by every encoder in this package.
var CurrentVersion = Version{Major: 1, Minor: 0}

// maxDimension bounds grid sizes accepted by the parsers.
const maxDimension = 16384

// headerSize is magic (4) + version (2) + three uint32 fields.
const headerSize = 4 + 2 + 12
