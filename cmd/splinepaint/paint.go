package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/Faultbox/splinepaint/internal/config"
	"github.com/Faultbox/splinepaint/internal/history"
	"github.com/Faultbox/splinepaint/internal/logger"
	"github.com/Faultbox/splinepaint/internal/paint"
	"github.com/Faultbox/splinepaint/internal/workspace"
	"github.com/Faultbox/splinepaint/pkg/spline"
)

// sampleRecord is one CSV row written by the sample command.
type sampleRecord struct {
	Index    int     `csv:"index"`
	Distance float64 `csv:"distance"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	Z        float64 `csv:"z"`
	TangentX float64 `csv:"tangent_x"`
	TangentY float64 `csv:"tangent_y"`
	TangentZ float64 `csv:"tangent_z"`
}

func cmdSample(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("sample", stderr)
	f := config.BindSampleFlags(fs)
	output := fs.String("o", "", "Write CSV to file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return usageError(stderr, "sample [-spacing S] [-resolution R] [-o out.csv] <spline.yaml>")
	}
	cfg, err := setup(f)
	if err != nil {
		return err
	}
	spacing, resolution := cfg.Paint.Spacing, cfg.Sampler.Resolution

	curve, _, err := spline.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	samples := paint.SampleByDistance(curve, spacing, resolution)
	if samples == nil {
		return fmt.Errorf("%w: %g", paint.ErrInvalidSpacing, spacing)
	}

	length := paint.PathLength(curve, resolution)
	records := make([]sampleRecord, len(samples))
	for i, s := range samples {
		records[i] = sampleRecord{
			Index:    i,
			Distance: min(float64(i)*spacing, length),
			X:        s.Position.X,
			Y:        s.Position.Y,
			Z:        s.Position.Z,
			TangentX: s.Tangent.X,
			TangentY: s.Tangent.Y,
			TangentZ: s.Tangent.Z,
		}
	}

	out := stdout
	if *output != "" {
		file, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", *output, err)
		}
		defer file.Close()
		out = file
	}
	if err := gocsv.Marshal(records, out); err != nil {
		return fmt.Errorf("writing samples: %w", err)
	}
	logger.Debug("samples written")
	return nil
}

func cmdPaint(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("paint", stderr)
	f := config.BindPaintFlags(fs)
	dryRun := fs.Bool("dry-run", false, "Paint in memory and report without writing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return usageError(stderr, "paint [options] <dir> <spline.yaml>")
	}
	cfg, err := setup(f)
	if err != nil {
		return err
	}
	params, err := cfg.PaintParams()
	if err != nil {
		return err
	}

	splinePath := fs.Arg(1)
	curve, _, err := spline.Load(splinePath)
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

	var before *workspace.Snapshot
	if cfg.History.Enabled && !*dryRun {
		if before, err = ws.Snapshot(); err != nil {
			return err
		}
	}

	res, err := paint.NewPainter(logger.Named("paint")).Paint(curve, params, paint.TargetFor(t))
	if err != nil {
		return err
	}

	if *dryRun {
		printResult(stdout, res)
		fmt.Fprintln(stdout, "Dry run: nothing written.")
		return nil
	}

	if err := ws.Save(t); err != nil {
		return err
	}
	if before != nil {
		err := record(ws, cfg, &history.Entry{
			Spline:             splinePath,
			Layer:              params.Layer,
			Width:              params.Width,
			Spacing:            params.Spacing,
			Strength:           params.Strength,
			Falloff:            cfg.Paint.Falloff,
			Offsets:            params.Offsets.String(),
			Normalize:          params.Normalize,
			ClearDetails:       params.ClearDetails,
			ClearTrees:         params.ClearTrees,
			Samples:            res.Samples,
			CellsTouched:       res.CellsTouched,
			DetailCellsCleared: res.DetailCellsCleared,
			TreesRemoved:       res.TreesRemoved,
			Before:             before,
		})
		if err != nil {
			return fmt.Errorf("terrain saved but journal failed: %w", err)
		}
	}

	printResult(stdout, res)
	return nil
}

func printResult(w io.Writer, res *paint.Result) {
	fmt.Fprintf(w, "Samples:        %d\n", res.Samples)
	fmt.Fprintf(w, "Paint points:   %d (%d off terrain)\n", res.PaintPoints, res.SkippedPoints)
	fmt.Fprintf(w, "Cells touched:  %d\n", res.CellsTouched)
	fmt.Fprintf(w, "Details clear:  %d\n", res.DetailCellsCleared)
	fmt.Fprintf(w, "Trees removed:  %d (kept %d)\n", res.TreesRemoved, res.TreesKept)
	fmt.Fprintf(w, "Took:           %v\n", res.Duration)
}
