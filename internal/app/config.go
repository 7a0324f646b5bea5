package app

import (
	"flag"
	"fmt"

	"mad-sand/internal/config"
)

// Config holds command-line options. Flags left unset on the command line
// keep the value from the TOML file.
type Config struct {
	Path      string
	Scene     string
	Seed      int64
	TPS       int
	Scale     int
	Workers   int
	Materials string
	Brush     string
	Paused    bool
	LogLevel  string
}

// NewConfig returns options seeded from config.Defaults.
func NewConfig() *Config {
	d := config.Defaults()
	return &Config{
		Scene:    d.Sim.Scene,
		Seed:     d.Sim.Seed,
		TPS:      d.Sim.TPS,
		Scale:    d.View.Scale,
		Workers:  d.Engine.Workers,
		Brush:    d.Materials.Brush,
		LogLevel: d.Logging.Level,
	}
}

// Bind registers the options on fs.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Path, "config", c.Path, "TOML configuration file")
	fs.StringVar(&c.Scene, "scene", c.Scene, "scene to load")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation ticks per second")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixels per cell")
	fs.IntVar(&c.Workers, "workers", c.Workers, "read-phase workers (0 = GOMAXPROCS)")
	fs.StringVar(&c.Materials, "materials", c.Materials, "material definition file (YAML)")
	fs.StringVar(&c.Brush, "brush", c.Brush, "initial brush material")
	fs.BoolVar(&c.Paused, "paused", c.Paused, "start paused")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
}

// Resolve loads the configuration file, if any, and applies the flags that
// were set explicitly on fs.
func (c *Config) Resolve(fs *flag.FlagSet) (*config.Config, error) {
	cfg, err := config.LoadOrDefaults(c.Path)
	if err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scene":
			cfg.Sim.Scene = c.Scene
		case "seed":
			cfg.Sim.Seed = c.Seed
		case "tps":
			cfg.Sim.TPS = c.TPS
		case "scale":
			cfg.View.Scale = c.Scale
		case "workers":
			cfg.Engine.Workers = c.Workers
		case "materials":
			cfg.Materials.Path = c.Materials
		case "brush":
			cfg.Materials.Brush = c.Brush
		case "paused":
			cfg.Sim.Paused = c.Paused
		case "log-level":
			cfg.Logging.Level = c.LogLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}
