package config

import "flag"

// Flags are config overrides bound to a command's flag set. Only flags
// given on the command line override the loaded config.
type Flags struct {
	fs *flag.FlagSet

	config  *string
	debug   *bool
	logFile *string

	layer        *int
	width        *float64
	spacing      *float64
	strength     *float64
	falloff      *string
	normalize    *bool
	center       *bool
	left         *bool
	right        *bool
	clearDetails *bool
	clearTrees   *bool
	resolution   *int
	noHistory    *bool
}

// BindFlags registers the shared config flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		fs:      fs,
		config:  fs.String("config", "", "Path to config file"),
		debug:   fs.Bool("debug", false, "Enable debug logging"),
		logFile: fs.String("log-file", "", "Also write logs to this file"),
	}
}

// BindSampleFlags registers the shared flags plus the sampler overrides.
func BindSampleFlags(fs *flag.FlagSet) *Flags {
	f := BindFlags(fs)
	f.bindSampler(Default())
	return f
}

func (f *Flags) bindSampler(d *Config) {
	f.spacing = f.fs.Float64("spacing", d.Paint.Spacing, "Distance between samples in world units")
	f.resolution = f.fs.Int("resolution", d.Sampler.Resolution, "Curve evaluations used for sampling")
}

// BindPaintFlags registers the shared flags plus the sampler and brush overrides.
func BindPaintFlags(fs *flag.FlagSet) *Flags {
	f := BindFlags(fs)
	d := Default()
	f.bindSampler(d)
	f.layer = fs.Int("layer", d.Paint.Layer, "Target texture layer")
	f.width = fs.Float64("width", d.Paint.Width, "Brush width in world units")
	f.strength = fs.Float64("strength", d.Paint.Strength, "Paint strength in [0,1]")
	f.falloff = fs.String("falloff", d.Paint.Falloff, "Falloff preset")
	f.normalize = fs.Bool("normalize", d.Paint.Normalize, "Keep layer weights summing to 1")
	f.center = fs.Bool("center", false, "Paint along the path center")
	f.left = fs.Bool("left", false, "Paint along the left edge")
	f.right = fs.Bool("right", false, "Paint along the right edge")
	f.clearDetails = fs.Bool("clear-details", d.Paint.ClearDetails, "Remove detail objects under the brush")
	f.clearTrees = fs.Bool("clear-trees", d.Paint.ClearTrees, "Remove trees under the brush")
	f.noHistory = fs.Bool("no-history", false, "Do not record the stroke in the undo journal")
	return f
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	return *f.config
}

// apply copies explicitly set flags onto cfg.
func (f *Flags) apply(cfg *Config) {
	var offsets []string
	f.fs.Visit(func(fl *flag.Flag) {
		if !f.binds(fl.Name) {
			return
		}
		switch fl.Name {
		case "debug":
			if *f.debug {
				cfg.Logging.Level = "debug"
			}
		case "log-file":
			cfg.Logging.LogFile = *f.logFile
		case "layer":
			cfg.Paint.Layer = *f.layer
		case "width":
			cfg.Paint.Width = *f.width
		case "spacing":
			cfg.Paint.Spacing = *f.spacing
		case "strength":
			cfg.Paint.Strength = *f.strength
		case "falloff":
			cfg.Paint.Falloff = *f.falloff
		case "normalize":
			cfg.Paint.Normalize = *f.normalize
		case "center", "left", "right":
			if fl.Value.String() == "true" {
				offsets = append(offsets, fl.Name)
			}
		case "clear-details":
			cfg.Paint.ClearDetails = *f.clearDetails
		case "clear-trees":
			cfg.Paint.ClearTrees = *f.clearTrees
		case "resolution":
			cfg.Sampler.Resolution = *f.resolution
		case "no-history":
			if *f.noHistory {
				cfg.History.Enabled = false
			}
		}
	})
	// Any explicit offset flag replaces the configured set.
	if len(offsets) > 0 {
		cfg.Paint.Offsets = offsets
	}
}

// binds reports whether name is a config override registered through f.
// Commands may add their own flags to the same set; those are skipped.
func (f *Flags) binds(name string) bool {
	switch name {
	case "config", "debug", "log-file":
		return true
	case "layer":
		return f.layer != nil
	case "width":
		return f.width != nil
	case "spacing":
		return f.spacing != nil
	case "strength":
		return f.strength != nil
	case "falloff":
		return f.falloff != nil
	case "normalize":
		return f.normalize != nil
	case "center":
		return f.center != nil
	case "left":
		return f.left != nil
	case "right":
		return f.right != nil
	case "clear-details":
		return f.clearDetails != nil
	case "clear-trees":
		return f.clearTrees != nil
	case "resolution":
		return f.resolution != nil
	case "no-history":
		return f.noHistory != nil
	}
	return false
}
