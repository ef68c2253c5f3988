package sand

import (
	"strconv"

	"falling-sand/internal/material"
)

// Config controls world dimensions, seeding and where materials come from.
// Zero Width/Height and a negative BrushRadius defer to the materials
// document.
type Config struct {
	Width  int
	Height int

	Seed    int64
	Density float64

	BrushRadius int

	// MaterialsPath names a JSON materials document; empty uses the embedded one.
	MaterialsPath string
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{Seed: 42, BrushRadius: -1}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["density"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Density = parsed
		}
	}
	if v, ok := cfg["brush"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.BrushRadius = parsed
		}
	}
	if v, ok := cfg["materials"]; ok {
		c.MaterialsPath = v
	}
	return c
}

// Apply overrides the document settings with any explicitly configured values.
func (c Config) Apply(s material.Settings) material.Settings {
	if c.Width > 0 {
		s.Columns = c.Width
	}
	if c.Height > 0 {
		s.Rows = c.Height
	}
	if c.BrushRadius >= 0 {
		s.BrushRadius = c.BrushRadius
	}
	return s
}
