package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Faultbox/splinepaint/internal/config"
	"github.com/Faultbox/splinepaint/internal/history"
	"github.com/Faultbox/splinepaint/internal/logger"
	"github.com/Faultbox/splinepaint/internal/workspace"
	"github.com/Faultbox/splinepaint/pkg/math"
)

func cmdInit(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("init", stderr)
	f := config.BindFlags(fs)
	d := workspace.DefaultInitOptions()
	name := fs.String("name", "", "Project name (default: directory name)")
	size := fs.Float64("size", d.Size.X, "Terrain width and length in world units")
	height := fs.Float64("height", d.Size.Y, "Terrain height in world units")
	grid := fs.Int("grid", d.Resolution, "Weight grid samples per axis")
	layers := fs.Int("layers", d.Layers, "Texture layer count")
	detailGrid := fs.Int("detail-grid", d.DetailResolution, "Detail cells per axis (0 = no details)")
	detailLayers := fs.Int("detail-layers", d.DetailLayers, "Detail prototype count")
	density := fs.Int("density", d.DetailDensity, "Initial detail density")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return usageError(stderr, "init [options] <dir>")
	}
	if _, err := setup(f); err != nil {
		return err
	}

	dir := fs.Arg(0)
	opts := workspace.InitOptions{
		Name:             *name,
		Size:             math.Vec3{X: *size, Y: *height, Z: *size},
		Resolution:       *grid,
		Layers:           *layers,
		DetailResolution: *detailGrid,
		DetailLayers:     *detailLayers,
		DetailDensity:    *density,
	}
	if opts.Name == "" {
		opts.Name = filepath.Base(dir)
	}

	ws, t, err := workspace.Init(dir, opts)
	if err != nil {
		return err
	}
	g := t.Weights()
	logger.Info("workspace created")
	fmt.Fprintf(stdout, "Created %s (%q)\n", ws.Dir, ws.Manifest.Name)
	fmt.Fprintf(stdout, "  Terrain: %gx%g units, height %g\n", opts.Size.X, opts.Size.Z, opts.Size.Y)
	fmt.Fprintf(stdout, "  Weights: %dx%d, %d layers\n", g.Width, g.Height, g.Layers)
	fmt.Fprintf(stdout, "  Details: %d layers\n", t.DetailLayerCount())
	return nil
}

func cmdInfo(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("info", stderr)
	f := config.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return usageError(stderr, "info <dir>")
	}
	cfg, err := setup(f)
	if err != nil {
		return err
	}

	ws, err := workspace.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	t, err := ws.Load()
	if err != nil {
		return err
	}

	b := t.Bounds()
	g := t.Weights()
	fmt.Fprintf(stdout, "Project: %s (%s)\n", ws.Manifest.Name, ws.Dir)
	fmt.Fprintf(stdout, "Origin:  (%g, %g, %g)\n", b.Origin.X, b.Origin.Y, b.Origin.Z)
	fmt.Fprintf(stdout, "Size:    %g x %g x %g\n", b.Size.X, b.Size.Y, b.Size.Z)
	fmt.Fprintf(stdout, "Weights: %dx%d, %d layers\n", g.Width, g.Height, g.Layers)
	for i, c := range g.LayerCoverage() {
		fmt.Fprintf(stdout, "  layer %d: %6.2f%%\n", i, c*100)
	}

	dw, dh := t.DetailResolution()
	fmt.Fprintf(stdout, "Details: %dx%d, %d layers\n", dw, dh, t.DetailLayerCount())
	for i := 0; i < t.DetailLayerCount(); i++ {
		fmt.Fprintf(stdout, "  prototype %d: total density %d\n", i, t.DetailLayer(i).Total())
	}
	fmt.Fprintf(stdout, "Trees:   %d\n", len(t.Trees()))

	path := journalPath(ws, cfg)
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintln(stdout, "Journal: empty")
		return nil
	}
	j, err := history.Open(path, logger.Named("history"))
	if err != nil {
		return err
	}
	defer j.Close()
	entries, err := j.List(0)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Journal: %d entries\n", len(entries))
	return nil
}

// journalPath resolves the configured journal path against the workspace.
func journalPath(ws *workspace.Workspace, cfg *config.Config) string {
	if filepath.IsAbs(cfg.History.Path) {
		return cfg.History.Path
	}
	return ws.Path(cfg.History.Path)
}

// openJournal opens the workspace journal, creating its directory.
func openJournal(ws *workspace.Workspace, cfg *config.Config) (*history.Journal, error) {
	path := journalPath(ws, cfg)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	return history.Open(path, logger.Named("history"))
}

// record journals a pre-change snapshot and prunes old entries.
func record(ws *workspace.Workspace, cfg *config.Config, e *history.Entry) error {
	j, err := openJournal(ws, cfg)
	if err != nil {
		return err
	}
	defer j.Close()

	if _, err := j.Record(e); err != nil {
		return err
	}
	if cfg.History.Keep > 0 {
		if _, err := j.Prune(cfg.History.Keep); err != nil {
			return err
		}
	}
	return nil
}

func cmdUndo(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("undo", stderr)
	f := config.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return usageError(stderr, "undo <dir>")
	}
	cfg, err := setup(f)
	if err != nil {
		return err
	}

	ws, err := workspace.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	if _, err := os.Stat(journalPath(ws, cfg)); err != nil {
		return errors.New("nothing to undo")
	}
	j, err := openJournal(ws, cfg)
	if err != nil {
		return err
	}
	defer j.Close()

	e, err := j.Latest()
	if errors.Is(err, history.ErrNotFound) {
		return errors.New("nothing to undo")
	}
	if err != nil {
		return err
	}
	if err := ws.Restore(e.Before); err != nil {
		return fmt.Errorf("restoring %s: %w", e.ID, err)
	}
	if err := j.Delete(e.ID); err != nil {
		return err
	}

	logger.Info("undo complete")
	fmt.Fprintf(stdout, "Reverted %s (%s, %s)\n", e.ID, e.Spline, e.CreatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func cmdHistory(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("history", stderr)
	f := config.BindFlags(fs)
	limit := fs.Int("n", 20, "Show the N most recent entries (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return usageError(stderr, "history [-n N] <dir>")
	}
	cfg, err := setup(f)
	if err != nil {
		return err
	}

	ws, err := workspace.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	if _, err := os.Stat(journalPath(ws, cfg)); err != nil {
		fmt.Fprintln(stdout, "No history.")
		return nil
	}
	j, err := openJournal(ws, cfg)
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.List(*limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(stdout, "No history.")
		return nil
	}
	fmt.Fprintf(stdout, "%-8s  %-19s  %-5s  %-7s  %-12s  %7s  %8s  %5s  %s\n",
		"ID", "TIME", "LAYER", "WIDTH", "OFFSETS", "SAMPLES", "CELLS", "TREES", "SOURCE")
	for _, e := range entries {
		fmt.Fprintf(stdout, "%-8s  %-19s  %5d  %7.2f  %-12s  %7d  %8d  %5d  %s\n",
			e.ID[:min(8, len(e.ID))], e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Layer, e.Width, e.Offsets, e.Samples, e.CellsTouched, e.TreesRemoved, e.Spline)
	}
	return nil
}
