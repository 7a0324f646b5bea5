package sand

import "strconv"

// Config controls a sand simulation.
type Config struct {
	Scene   string
	Seed    int64
	Workers int
	Paused  bool

	// Materials is a YAML definition file; empty selects the built-in set.
	Materials string
	// Brush names the material placed by Paint.
	Brush string
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Scene: "hourglass",
		Seed:  1337,
		Brush: "sand",
	}
}

// FromMap populates a Config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["scene"]; ok && v != "" {
		c.Scene = v
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Workers = parsed
		}
	}
	if v, ok := cfg["paused"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Paused = parsed
		}
	}
	if v, ok := cfg["materials"]; ok {
		c.Materials = v
	}
	if v, ok := cfg["brush"]; ok && v != "" {
		c.Brush = v
	}
	return c
}
