package app

import (
	"flag"
	"strconv"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Sim       string
	Materials string
	Scale     int
	TPS       int
	Seed      int64
	Density   float64
	LogLevel  string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Sim: "sand", Scale: 6, TPS: 60, Seed: 42, LogLevel: "info"}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.StringVar(&c.Materials, "materials", c.Materials, "path to a JSON materials document (empty uses the built-in set)")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.Float64Var(&c.Density, "density", c.Density, "fraction of cells filled on reset")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
}

// SimOptions converts the flags into the key/value map sim factories accept.
func (c *Config) SimOptions() map[string]string {
	opts := map[string]string{
		"seed":    strconv.FormatInt(c.Seed, 10),
		"density": strconv.FormatFloat(c.Density, 'f', -1, 64),
	}
	if c.Materials != "" {
		opts["materials"] = c.Materials
	}
	return opts
}
