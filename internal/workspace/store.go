package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Faultbox/splinepaint/internal/terrain"
	"github.com/Faultbox/splinepaint/pkg/formats"
	"github.com/Faultbox/splinepaint/pkg/math"
)

// maxDensity is the largest density a detail file can hold.
const maxDensity = 1<<16 - 1

// Load reads the terrain from the workspace files. A missing detail or
// tree file means no details or no trees.
func (w *Workspace) Load() (*terrain.Terrain, error) {
	splat, err := formats.ParseSplatFile(w.Path(w.Manifest.Files.Splat))
	if err != nil {
		return nil, err
	}
	weights := weightsFromSplat(splat)

	var details []*terrain.DetailLayer
	dd, err := formats.ParseDetailsFile(w.Path(w.Manifest.Files.Details))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		details = detailsFromFile(dd)
	}

	records, err := formats.ParseTreesFile(w.Path(w.Manifest.Files.Trees))
	if err != nil {
		return nil, err
	}

	t, err := terrain.New(w.Manifest.Bounds.Bounds(), weights, details, treesFromRecords(records))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", w.Dir, err)
	}
	return t, nil
}

// Save encodes the terrain and replaces the workspace files. Every file is
// written to a temporary name first and renamed into place only once all
// of them were written.
func (w *Workspace) Save(t *terrain.Terrain) error {
	snap, err := Encode(t)
	if err != nil {
		return err
	}
	return w.Restore(snap)
}

// Snapshot is the raw content of the workspace data files. A nil field
// means the file did not exist.
type Snapshot struct {
	Splat   []byte
	Details []byte
	Trees   []byte
}

// Size returns the total byte count of the snapshot.
func (s *Snapshot) Size() int {
	return len(s.Splat) + len(s.Details) + len(s.Trees)
}

// Encode serializes a terrain into workspace file contents.
func Encode(t *terrain.Terrain) (*Snapshot, error) {
	trees, err := formats.TreesBytes(recordsFromTrees(t.Trees()))
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Splat:   splatFromWeights(t.Weights()).Bytes(),
		Details: detailsToFile(t).Bytes(),
		Trees:   trees,
	}, nil
}

// Snapshot reads the current workspace files.
func (w *Workspace) Snapshot() (*Snapshot, error) {
	var s Snapshot
	for _, f := range w.files(&s) {
		data, err := os.ReadFile(f.path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("snapshot: %w", err)
		}
		*f.data = data
	}
	if s.Splat == nil {
		return nil, fmt.Errorf("snapshot: %s missing", w.Manifest.Files.Splat)
	}
	return &s, nil
}

// Restore writes a snapshot back atomically. Files absent from the snapshot
// are removed.
func (w *Workspace) Restore(s *Snapshot) error {
	writes := make(map[string][]byte)
	var removes []string
	for _, f := range w.files(s) {
		if *f.data == nil {
			removes = append(removes, f.path)
			continue
		}
		writes[f.path] = *f.data
	}
	if err := writeFiles(writes); err != nil {
		return err
	}
	for _, p := range removes {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", filepath.Base(p), err)
		}
	}
	return nil
}

type fileRef struct {
	path string
	data *[]byte
}

func (w *Workspace) files(s *Snapshot) []fileRef {
	return []fileRef{
		{w.Path(w.Manifest.Files.Splat), &s.Splat},
		{w.Path(w.Manifest.Files.Details), &s.Details},
		{w.Path(w.Manifest.Files.Trees), &s.Trees},
	}
}

// writeFiles writes every file under a temporary name, then renames them
// into place. On a write failure no target file is touched.
func writeFiles(files map[string][]byte) error {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	temps := make([]string, 0, len(paths))
	cleanup := func() {
		for _, tmp := range temps {
			os.Remove(tmp)
		}
	}
	for _, p := range paths {
		f, err := os.CreateTemp(filepath.Dir(p), "."+filepath.Base(p)+".*.tmp")
		if err != nil {
			cleanup()
			return fmt.Errorf("creating temp for %s: %w", filepath.Base(p), err)
		}
		temps = append(temps, f.Name())
		if _, err := f.Write(files[p]); err != nil {
			f.Close()
			cleanup()
			return fmt.Errorf("writing %s: %w", filepath.Base(p), err)
		}
		if err := f.Close(); err != nil {
			cleanup()
			return fmt.Errorf("closing %s: %w", filepath.Base(p), err)
		}
	}
	for i, p := range paths {
		if err := os.Rename(temps[i], p); err != nil {
			cleanup()
			return fmt.Errorf("replacing %s: %w", filepath.Base(p), err)
		}
	}
	return nil
}

func weightsFromSplat(s *formats.Splat) *terrain.WeightGrid {
	g := &terrain.WeightGrid{
		Width:  int(s.Width),
		Height: int(s.Height),
		Layers: int(s.Layers),
		Data:   make([]float64, len(s.Weights)),
	}
	for i, w := range s.Weights {
		g.Data[i] = float64(w)
	}
	return g
}

func splatFromWeights(g *terrain.WeightGrid) *formats.Splat {
	s := &formats.Splat{
		Width:   uint32(g.Width),
		Height:  uint32(g.Height),
		Layers:  uint32(g.Layers),
		Weights: make([]float32, len(g.Data)),
	}
	for i, w := range g.Data {
		s.Weights[i] = float32(w)
	}
	return s
}

func detailsFromFile(d *formats.Details) []*terrain.DetailLayer {
	layers := make([]*terrain.DetailLayer, len(d.Layers))
	for i, src := range d.Layers {
		l := terrain.NewDetailLayer(int(d.Width), int(d.Height), 0)
		for j, v := range src {
			l.Density[j] = int(v)
		}
		layers[i] = l
	}
	return layers
}

func detailsToFile(t *terrain.Terrain) *formats.Details {
	w, h := t.DetailResolution()
	d := &formats.Details{
		Width:  uint32(w),
		Height: uint32(h),
		Layers: make([][]uint16, t.DetailLayerCount()),
	}
	for i := range d.Layers {
		src := t.DetailLayer(i)
		dst := make([]uint16, len(src.Density))
		for j, v := range src.Density {
			dst[j] = uint16(min(max(v, 0), maxDensity))
		}
		d.Layers[i] = dst
	}
	return d
}

func treesFromRecords(records []formats.TreeRecord) []terrain.TreeInstance {
	trees := make([]terrain.TreeInstance, len(records))
	for i, r := range records {
		trees[i] = terrain.TreeInstance{
			Position:    math.Vec3{X: r.X, Y: r.Y, Z: r.Z},
			Prototype:   r.Prototype,
			WidthScale:  r.WidthScale,
			HeightScale: r.HeightScale,
			Rotation:    r.Rotation,
			Color:       r.Color,
		}
	}
	return trees
}

func recordsFromTrees(trees []terrain.TreeInstance) []formats.TreeRecord {
	records := make([]formats.TreeRecord, len(trees))
	for i, t := range trees {
		records[i] = formats.TreeRecord{
			X:           t.Position.X,
			Y:           t.Position.Y,
			Z:           t.Position.Z,
			Prototype:   t.Prototype,
			WidthScale:  t.WidthScale,
			HeightScale: t.HeightScale,
			Rotation:    t.Rotation,
			Color:       t.Color,
		}
	}
	return records
}
