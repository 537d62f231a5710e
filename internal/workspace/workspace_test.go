package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/splinepaint/internal/terrain"
	"github.com/Faultbox/splinepaint/pkg/math"
)

func smallOptions() InitOptions {
	opts := DefaultInitOptions()
	opts.Name = "test"
	opts.Size = math.Vec3{X: 10, Y: 5, Z: 10}
	opts.Resolution = 11
	opts.Layers = 3
	opts.DetailResolution = 10
	opts.DetailLayers = 2
	opts.DetailDensity = 4
	return opts
}

func TestInitCreatesProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")
	w, tr, err := Init(dir, smallOptions())
	require.NoError(t, err)

	for _, name := range []string{ManifestName, DefaultFiles.Splat, DefaultFiles.Details, DefaultFiles.Trees} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	assert.Equal(t, "test", w.Manifest.Name)
	assert.Equal(t, 1.0, tr.Weights().At(5, 5, 0))
	assert.Equal(t, 2, tr.DetailLayerCount())

	_, _, err = Init(dir, smallOptions())
	assert.ErrorIs(t, err, ErrExists)
}

func TestInitRejectsBadGrid(t *testing.T) {
	opts := smallOptions()
	opts.Resolution = 1
	_, _, err := Init(t.TempDir(), opts)
	assert.ErrorIs(t, err, terrain.ErrInvalidGrid)
}

func TestOpenMissingManifest(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.ErrorIs(t, err, ErrNoManifest)
}

func TestOpenDefaultsFileNames(t *testing.T) {
	dir := t.TempDir()
	manifest := "name: bare\nbounds:\n  size: [20, 5, 40]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestName), []byte(manifest), 0o644))

	w, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultFiles, w.Manifest.Files)
	assert.Equal(t, math.Vec3{X: 20, Y: 5, Z: 40}, w.Manifest.Bounds.Bounds().Size)
}

func TestOpenRejectsFlatBounds(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestName), []byte("bounds:\n  size: [0, 5, 40]\n"), 0o644))
	_, err := Open(dir)
	assert.ErrorIs(t, err, terrain.ErrInvalidBounds)
}

func TestSaveLoadPreservesTerrain(t *testing.T) {
	dir := t.TempDir()
	w, tr, err := Init(dir, smallOptions())
	require.NoError(t, err)

	g := tr.Weights()
	copy(g.Cell(2, 3), []float64{0.25, 0.5, 0.25})
	require.NoError(t, tr.SetWeights(g))

	d := tr.DetailLayer(1)
	d.Set(4, 4, 0)
	d.Set(0, 0, 70000) // clamped to the file maximum
	require.NoError(t, tr.SetDetailLayer(1, d))

	tr.ReplaceTrees([]terrain.TreeInstance{
		{Position: math.Vec3{X: 0.5, Z: 0.25}, Prototype: 2, WidthScale: 1, HeightScale: 1.5, Color: "#00ff00"},
	})
	require.NoError(t, w.Save(tr))

	reopened, err := Open(dir)
	require.NoError(t, err)
	loaded, err := reopened.Load()
	require.NoError(t, err)

	assert.Equal(t, tr.Bounds(), loaded.Bounds())
	assert.InDeltaSlice(t, []float64{0.25, 0.5, 0.25}, loaded.Weights().Cell(2, 3), 1e-7)
	assert.Equal(t, 0, loaded.DetailLayer(1).At(4, 4))
	assert.Equal(t, maxDensity, loaded.DetailLayer(1).At(0, 0))
	assert.Equal(t, 4, loaded.DetailLayer(0).At(4, 4))
	assert.Equal(t, tr.Trees(), loaded.Trees())
}

func TestLoadWithoutOptionalFiles(t *testing.T) {
	dir := t.TempDir()
	w, _, err := Init(dir, smallOptions())
	require.NoError(t, err)
	require.NoError(t, os.Remove(w.Path(w.Manifest.Files.Details)))
	require.NoError(t, os.Remove(w.Path(w.Manifest.Files.Trees)))

	loaded, err := w.Load()
	require.NoError(t, err)
	assert.Zero(t, loaded.DetailLayerCount())
	assert.Empty(t, loaded.Trees())
}

func TestSnapshotRestore(t *testing.T) {
	dir := t.TempDir()
	w, tr, err := Init(dir, smallOptions())
	require.NoError(t, err)

	before, err := w.Snapshot()
	require.NoError(t, err)
	assert.NotEmpty(t, before.Splat)
	assert.Equal(t, len(before.Splat)+len(before.Details)+len(before.Trees), before.Size())

	g := tr.Weights()
	g.Set(0, 0, 0, 0)
	g.Set(0, 0, 2, 1)
	require.NoError(t, tr.SetWeights(g))
	require.NoError(t, w.Save(tr))

	require.NoError(t, w.Restore(before))
	restored, err := w.Load()
	require.NoError(t, err)
	assert.Equal(t, 1.0, restored.Weights().At(0, 0, 0))
	assert.Equal(t, 0.0, restored.Weights().At(0, 0, 2))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp", "temporary file left behind")
	}
}

func TestRestoreRemovesAbsentFiles(t *testing.T) {
	dir := t.TempDir()
	w, _, err := Init(dir, smallOptions())
	require.NoError(t, err)

	snap, err := w.Snapshot()
	require.NoError(t, err)
	snap.Trees = nil
	require.NoError(t, w.Restore(snap))
	assert.NoFileExists(t, w.Path(w.Manifest.Files.Trees))
}

func TestEncodeMatchesSnapshot(t *testing.T) {
	dir := t.TempDir()
	w, tr, err := Init(dir, smallOptions())
	require.NoError(t, err)

	encoded, err := Encode(tr)
	require.NoError(t, err)
	onDisk, err := w.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, encoded, onDisk)
}
