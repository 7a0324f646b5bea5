package material

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"mad-sand/internal/core"
)

// Definition is the on-disk shape of a material.
type Definition struct {
	Name     string `yaml:"name"`
	Behavior string `yaml:"behavior"`
	// Target names the material a tap emits. It may be defined anywhere in the
	// same set, including later in the file.
	Target  string `yaml:"target,omitempty"`
	Color   string `yaml:"color"`
	Density *int   `yaml:"density,omitempty"`
}

const defaultDensity = 1

// Build registers defs into a new table with ids in list order. Taps may
// reference any material in the list, including later ones and other taps.
func Build(defs []Definition) (*Table, error) {
	ids := make(map[string]core.MaterialID, len(defs))
	kinds := make([]Kind, len(defs))
	for i, d := range defs {
		kind, err := ParseKind(d.Behavior)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", d.Name, err)
		}
		kinds[i] = kind
		if _, dup := ids[d.Name]; !dup && d.Name != "" {
			ids[d.Name] = core.MaterialID(i + 1)
		}
	}

	t := NewTable()
	for i, d := range defs {
		b := Behavior{Kind: kinds[i]}
		if b.Kind == Tap {
			target, ok := ids[d.Target]
			if !ok {
				return nil, fmt.Errorf("material %q: tap target %q is not a defined material", d.Name, d.Target)
			}
			b.Target = target
		}
		if err := add(t, d, b); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func add(t *Table, d Definition, b Behavior) error {
	c, err := ParseColor(d.Color)
	if err != nil {
		return fmt.Errorf("material %q: %w", d.Name, err)
	}
	density := defaultDensity
	if d.Density != nil {
		density = *d.Density
	}
	if _, err := t.add(Material{Name: d.Name, Behavior: b, Color: c, Density: density}); err != nil {
		return err
	}
	return nil
}

// ParseColor accepts "#RRGGBB" or "#RRGGBBAA", with or without the leading '#'.
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("color %q: want 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Defaults returns the built-in material set.
func Defaults() []Definition {
	return []Definition{
		{Name: "stone", Behavior: "static", Color: "#7f7f86"},
		{Name: "sand", Behavior: "sand", Color: "#e2c275", Density: intPtr(2)},
		{Name: "water", Behavior: "fluid", Color: "#3b7dd8"},
		{Name: "sand_tap", Behavior: "tap", Target: "sand", Color: "#a0522d"},
		{Name: "water_tap", Behavior: "tap", Target: "water", Color: "#1f4e8c"},
	}
}

// DefaultTable builds the table for Defaults.
func DefaultTable() *Table {
	t, err := Build(Defaults())
	if err != nil {
		panic(fmt.Sprintf("material: default set is invalid: %v", err))
	}
	return t
}

func intPtr(v int) *int { return &v }
