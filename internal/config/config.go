package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Sim       SimConfig       `toml:"sim"`
	Engine    EngineConfig    `toml:"engine"`
	Materials MaterialsConfig `toml:"materials"`
	View      ViewConfig      `toml:"view"`
	Logging   LoggingConfig   `toml:"logging"`
}

type SimConfig struct {
	Scene  string `toml:"scene"`
	Seed   int64  `toml:"seed"`
	TPS    int    `toml:"tps"`
	Paused bool   `toml:"paused"` // start with the simulation halted
}

type EngineConfig struct {
	Workers int `toml:"workers"` // 0 = GOMAXPROCS
}

type MaterialsConfig struct {
	Path  string `toml:"path"`  // empty = built-in defaults
	Brush string `toml:"brush"` // material placed by the pointer
}

type ViewConfig struct {
	Scale  int `toml:"scale"`  // pixels per cell (ebiten)
	Width  int `toml:"width"`  // viewport width in cells
	Height int `toml:"height"` // viewport height in cells
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	Output string `toml:"output"` // "stderr", "stdout" or a file path
}

// Load decodes the TOML file at path over Defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefaults behaves like Load but returns Defaults when path is empty.
func LoadOrDefaults(path string) (*Config, error) {
	if path == "" {
		return Defaults(), nil
	}
	return Load(path)
}

func Defaults() *Config {
	return &Config{
		Sim: SimConfig{
			Scene: "hourglass",
			Seed:  42,
			TPS:   60,
		},
		Materials: MaterialsConfig{
			Brush: "sand",
		},
		View: ViewConfig{
			Scale:  4,
			Width:  200,
			Height: 150,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	switch {
	case c.Sim.TPS < 0:
		return fmt.Errorf("sim.tps must not be negative")
	case c.Engine.Workers < 0:
		return fmt.Errorf("engine.workers must not be negative")
	case c.View.Scale <= 0:
		return fmt.Errorf("view.scale must be positive")
	case c.View.Width <= 0 || c.View.Height <= 0:
		return fmt.Errorf("view size must be positive")
	case c.Logging.Format != "json" && c.Logging.Format != "console":
		return fmt.Errorf("logging.format must be json or console")
	}
	return nil
}

// SimParams flattens the simulation settings into the key/value form
// accepted by sims.
func (c *Config) SimParams() map[string]string {
	params := map[string]string{
		"scene":   c.Sim.Scene,
		"seed":    strconv.FormatInt(c.Sim.Seed, 10),
		"workers": strconv.Itoa(c.Engine.Workers),
		"paused":  strconv.FormatBool(c.Sim.Paused),
		"brush":   c.Materials.Brush,
	}
	if c.Materials.Path != "" {
		params["materials"] = c.Materials.Path
	}
	return params
}
