// Package config handles splinepaint configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/splinepaint/internal/paint"
)

// Config holds all tool settings.
type Config struct {
	Paint   PaintConfig   `yaml:"paint"`
	Sampler SamplerConfig `yaml:"sampler"`
	History HistoryConfig `yaml:"history"`
	Logging LoggingConfig `yaml:"logging"`
}

// PaintConfig holds the default brush settings.
type PaintConfig struct {
	Layer        int      `yaml:"layer"`
	Width        float64  `yaml:"width"`   // World units
	Spacing      float64  `yaml:"spacing"` // World units between samples
	Strength     float64  `yaml:"strength"`
	Falloff      string   `yaml:"falloff"` // Preset name, see paint.FalloffNames
	Normalize    bool     `yaml:"normalize"`
	Offsets      []string `yaml:"offsets"` // center, left, right
	ClearDetails bool     `yaml:"clear_details"`
	ClearTrees   bool     `yaml:"clear_trees"`
}

// SamplerConfig holds path sampling settings.
type SamplerConfig struct {
	Resolution int `yaml:"resolution"` // Curve evaluations per path
}

// HistoryConfig holds undo journal settings.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // Relative paths resolve against the workspace
	Keep    int    `yaml:"keep"` // Entries kept after each paint; 0 keeps all
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Paint: PaintConfig{
			Layer:     0,
			Width:     6,
			Spacing:   1,
			Strength:  1,
			Falloff:   "ease_in_out",
			Normalize: true,
			Offsets:   []string{"center"},
		},
		Sampler: SamplerConfig{
			Resolution: paint.DefaultResolution,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    ".splinepaint/history.db",
			Keep:    50,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// PaintParams builds painter parameters from the config.
func (c *Config) PaintParams() (paint.Params, error) {
	falloff, err := paint.ParseFalloff(c.Paint.Falloff)
	if err != nil {
		return paint.Params{}, fmt.Errorf("paint.falloff: %w", err)
	}
	offsets, err := paint.ParseOffset(c.Paint.Offsets...)
	if err != nil {
		return paint.Params{}, fmt.Errorf("paint.offsets: %w", err)
	}
	return paint.Params{
		Layer:        c.Paint.Layer,
		Width:        c.Paint.Width,
		Falloff:      falloff,
		Spacing:      c.Paint.Spacing,
		Strength:     c.Paint.Strength,
		Normalize:    c.Paint.Normalize,
		Offsets:      offsets,
		ClearDetails: c.Paint.ClearDetails,
		ClearTrees:   c.Paint.ClearTrees,
		Resolution:   c.Sampler.Resolution,
	}, nil
}
