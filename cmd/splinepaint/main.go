// splinepaint paints terrain texture layers along spline paths.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/splinepaint/internal/config"
	"github.com/Faultbox/splinepaint/internal/logger"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// errUsage marks argument errors; the usage text was already printed.
var errUsage = errors.New("invalid arguments")

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		printUsage(stderr)
		return errUsage
	}

	command := args[0]
	args = args[1:]

	var err error
	switch command {
	case "init":
		err = cmdInit(args, stdout, stderr)
	case "info":
		err = cmdInfo(args, stdout, stderr)
	case "sample":
		err = cmdSample(args, stdout, stderr)
	case "paint":
		err = cmdPaint(args, stdout, stderr)
	case "undo":
		err = cmdUndo(args, stdout, stderr)
	case "history", "log":
		err = cmdHistory(args, stdout, stderr)
	case "export":
		err = cmdExport(args, stdout, stderr)
	case "import":
		err = cmdImport(args, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return errUsage
	}
	logger.Sync()
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `splinepaint - paint terrain layers along splines

Usage:
  splinepaint <command> [options]

Commands:
  init <dir>                       Create a blank terrain project
  info <dir>                       Show terrain and journal information
  sample <spline.yaml>             Print arc-length samples as CSV
  paint <dir> <spline.yaml>        Paint a layer along a spline
  undo <dir>                       Revert the most recent paint
  history <dir>                    List journaled paints
  export <dir> <out.png|.tif>      Export a weight or detail layer image
  import <dir> <in.png|.tif>       Replace a weight or detail layer from an image

Common options:
  -config <file>   Config file (default: ./splinepaint.yaml, then user config dir)
  -debug           Enable debug logging
  -log-file <file> Also write logs to a rotating file

Examples:
  splinepaint init -size 200 -layers 4 ./island
  splinepaint sample -spacing 2 road.yaml > road.csv
  splinepaint paint -layer 2 -width 8 -falloff ease_in_out -clear-trees ./island road.yaml
  splinepaint paint -left -right -layer 3 -width 10 ./island road.yaml
  splinepaint undo ./island
  splinepaint export -layer 2 ./island road-layer.png`)
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// setup loads the config and starts logging.
func setup(f *config.Flags) (*config.Config, error) {
	cfg, err := config.Load(f)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, nil
}

// usageError prints a one-line usage hint and returns errUsage.
func usageError(stderr io.Writer, usage string) error {
	fmt.Fprintln(stderr, "Usage: splinepaint "+usage)
	return errUsage
}
