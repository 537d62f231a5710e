package main

import (
	"fmt"
	"io"

	"github.com/Faultbox/splinepaint/internal/config"
	"github.com/Faultbox/splinepaint/internal/history"
	"github.com/Faultbox/splinepaint/internal/logger"
	"github.com/Faultbox/splinepaint/internal/paint"
	"github.com/Faultbox/splinepaint/internal/terrain"
	"github.com/Faultbox/splinepaint/internal/workspace"
	"github.com/Faultbox/splinepaint/pkg/formats"
)

func cmdExport(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("export", stderr)
	f := config.BindFlags(fs)
	layer := fs.Int("layer", 0, "Weight layer to export")
	detail := fs.Int("detail", -1, "Detail layer to export instead of a weight layer")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return usageError(stderr, "export [-layer N | -detail N] <dir> <out.png|.tif>")
	}
	if _, err := setup(f); err != nil {
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

	out := fs.Arg(1)
	if *detail >= 0 {
		d := t.DetailLayer(*detail)
		if d == nil {
			return fmt.Errorf("%w: detail %d", terrain.ErrLayerOutOfRange, *detail)
		}
		peak := 0
		for _, v := range d.Density {
			peak = max(peak, v)
		}
		img := formats.GrayImage(d.Width, d.Height, func(x, y int) float64 {
			if peak == 0 {
				return 0
			}
			return float64(d.At(x, y)) / float64(peak)
		})
		if err := formats.WriteImageFile(out, img); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Exported detail layer %d (%dx%d, peak density %d) to %s\n", *detail, d.Width, d.Height, peak, out)
		return nil
	}

	g := t.Weights()
	if *layer < 0 || *layer >= g.Layers {
		return fmt.Errorf("%w: %d", terrain.ErrLayerOutOfRange, *layer)
	}
	img := formats.GrayImage(g.Width, g.Height, func(x, y int) float64 { return g.At(x, y, *layer) })
	if err := formats.WriteImageFile(out, img); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Exported weight layer %d (%dx%d) to %s\n", *layer, g.Width, g.Height, out)
	return nil
}

func cmdImport(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("import", stderr)
	f := config.BindFlags(fs)
	layer := fs.Int("layer", 0, "Weight layer to replace")
	detail := fs.Int("detail", -1, "Detail layer to replace instead of a weight layer")
	scale := fs.Int("scale", 16, "Detail density for a white pixel")
	normalize := fs.Bool("normalize", true, "Rescale the other weight layers to fill what the imported layer leaves")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return usageError(stderr, "import [-layer N | -detail N] <dir> <in.png|.tif>")
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
	in := fs.Arg(1)
	img, err := formats.ReadImageFile(in)
	if err != nil {
		return err
	}
	w, h, levels := formats.GrayLevels(img)

	entry := &history.Entry{
		Spline:    "import layer " + in,
		Layer:     *layer,
		Offsets:   "none",
		Normalize: *normalize,
	}
	if *detail >= 0 {
		entry.Spline = "import detail " + in
		entry.Layer = *detail
		entry.Offsets = "detail"
		entry.Normalize = false

		d := t.DetailLayer(*detail)
		if d == nil {
			return fmt.Errorf("%w: detail %d", terrain.ErrLayerOutOfRange, *detail)
		}
		if w != d.Width || h != d.Height {
			return fmt.Errorf("%w: image %dx%d, detail grid %dx%d", terrain.ErrDimensionMismatch, w, h, d.Width, d.Height)
		}
		for i, v := range levels {
			d.Density[i] = int(v*float64(*scale) + 0.5)
		}
		if err := t.SetDetailLayer(*detail, d); err != nil {
			return err
		}
	} else {
		g := t.Weights()
		if *layer < 0 || *layer >= g.Layers {
			return fmt.Errorf("%w: %d", terrain.ErrLayerOutOfRange, *layer)
		}
		if w != g.Width || h != g.Height {
			return fmt.Errorf("%w: image %dx%d, weight grid %dx%d", terrain.ErrDimensionMismatch, w, h, g.Width, g.Height)
		}
		for i, v := range levels {
			cell := g.Cell(i%w, i/w)
			cell[*layer] = v
			// Cells with no other weight keep the imported value, even 0.
			if *normalize {
				paint.ScaleOthers(cell, *layer)
			}
		}
		if err := t.SetWeights(g); err != nil {
			return err
		}
	}

	var before *workspace.Snapshot
	if cfg.History.Enabled {
		if before, err = ws.Snapshot(); err != nil {
			return err
		}
	}
	if err := ws.Save(t); err != nil {
		return err
	}
	if before != nil {
		entry.Before = before
		if err := record(ws, cfg, entry); err != nil {
			return fmt.Errorf("terrain saved but journal failed: %w", err)
		}
	}

	logger.Info("image imported")
	fmt.Fprintf(stdout, "Imported %s (%dx%d)\n", in, w, h)
	return nil
}
