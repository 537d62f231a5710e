// Package workspace manages a terrain project directory: a terrain.yaml
// manifest next to the splat map, detail layers and tree list it names.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/splinepaint/internal/terrain"
	"github.com/Faultbox/splinepaint/pkg/math"
)

// ManifestName is the project manifest file inside a workspace directory.
const ManifestName = "terrain.yaml"

// Workspace errors.
var (
	ErrNoManifest = errors.New("no terrain.yaml in directory")
	ErrExists     = errors.New("workspace already initialized")
)

// Manifest is the terrain.yaml document.
type Manifest struct {
	Name   string       `yaml:"name"`
	Bounds BoundsConfig `yaml:"bounds"`
	Files  Files        `yaml:"files"`
}

// BoundsConfig is the world footprint of the terrain.
type BoundsConfig struct {
	Origin [3]float64 `yaml:"origin"`
	Size   [3]float64 `yaml:"size"`
}

// Files names the data files relative to the workspace directory.
type Files struct {
	Splat   string `yaml:"splat"`
	Details string `yaml:"details"`
	Trees   string `yaml:"trees"`
}

// DefaultFiles are the data file names used by Init.
var DefaultFiles = Files{
	Splat:   "splat.grsp",
	Details: "details.grdt",
	Trees:   "trees.csv",
}

// Bounds converts the manifest footprint to terrain bounds.
func (b BoundsConfig) Bounds() terrain.Bounds {
	return terrain.Bounds{
		Origin: math.Vec3{X: b.Origin[0], Y: b.Origin[1], Z: b.Origin[2]},
		Size:   math.Vec3{X: b.Size[0], Y: b.Size[1], Z: b.Size[2]},
	}
}

// Workspace is an opened project directory.
type Workspace struct {
	Dir      string
	Manifest Manifest
}

// Open reads the manifest in dir.
func Open(dir string) (*Workspace, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoManifest, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if m.Files.Splat == "" {
		m.Files.Splat = DefaultFiles.Splat
	}
	if m.Files.Details == "" {
		m.Files.Details = DefaultFiles.Details
	}
	if m.Files.Trees == "" {
		m.Files.Trees = DefaultFiles.Trees
	}
	if err := m.Bounds.Bounds().Validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", dir, err)
	}
	return &Workspace{Dir: dir, Manifest: m}, nil
}

// Path resolves a data file name against the workspace directory.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// InitOptions describes a blank terrain project.
type InitOptions struct {
	Name             string
	Origin           math.Vec3
	Size             math.Vec3
	Resolution       int // weight grid samples per axis
	Layers           int
	DetailResolution int // detail cells per axis; 0 disables details
	DetailLayers     int
	DetailDensity    int
}

// DefaultInitOptions returns a 100x100 unit terrain with a 129x129 splat map.
func DefaultInitOptions() InitOptions {
	return InitOptions{
		Name:             "terrain",
		Size:             math.Vec3{X: 100, Y: 30, Z: 100},
		Resolution:       129,
		Layers:           4,
		DetailResolution: 128,
		DetailLayers:     2,
		DetailDensity:    8,
	}
}

// Init creates a project in dir with a blank terrain: every cell on layer 0,
// uniform detail density and no trees.
func Init(dir string, opts InitOptions) (*Workspace, *terrain.Terrain, error) {
	if _, err := os.Stat(filepath.Join(dir, ManifestName)); err == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrExists, dir)
	}
	if opts.Resolution < 2 || opts.Layers < 1 {
		return nil, nil, fmt.Errorf("%w: %dx%d with %d layers",
			terrain.ErrInvalidGrid, opts.Resolution, opts.Resolution, opts.Layers)
	}

	bounds := terrain.Bounds{Origin: opts.Origin, Size: opts.Size}
	var details []*terrain.DetailLayer
	if opts.DetailResolution > 0 {
		for i := 0; i < opts.DetailLayers; i++ {
			details = append(details, terrain.NewDetailLayer(opts.DetailResolution, opts.DetailResolution, opts.DetailDensity))
		}
	}
	t, err := terrain.New(bounds, terrain.NewWeightGrid(opts.Resolution, opts.Resolution, opts.Layers), details, nil)
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating workspace: %w", err)
	}
	w := &Workspace{
		Dir: dir,
		Manifest: Manifest{
			Name: opts.Name,
			Bounds: BoundsConfig{
				Origin: [3]float64{opts.Origin.X, opts.Origin.Y, opts.Origin.Z},
				Size:   [3]float64{opts.Size.X, opts.Size.Y, opts.Size.Z},
			},
			Files: DefaultFiles,
		},
	}
	if err := w.Save(t); err != nil {
		return nil, nil, err
	}

	data, err := yaml.Marshal(&w.Manifest)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding manifest: %w", err)
	}
	if err := writeFiles(map[string][]byte{w.Path(ManifestName): data}); err != nil {
		return nil, nil, err
	}
	return w, t, nil
}
