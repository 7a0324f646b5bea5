package material

import (
	"fmt"
	"image/color"
	"sort"

	"mad-sand/internal/core"
)

// Kind enumerates the movement behaviors a material can have.
type Kind uint8

const (
	Static Kind = iota
	Sand
	Fluid
	Tap
)

var kindNames = [...]string{
	Static: "static",
	Sand:   "sand",
	Fluid:  "fluid",
	Tap:    "tap",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps a behavior name from a definition file to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "static", "solid":
		return Static, nil
	case "sand", "powder":
		return Sand, nil
	case "fluid", "liquid":
		return Fluid, nil
	case "tap":
		return Tap, nil
	}
	return Static, fmt.Errorf("unknown behavior %q", s)
}

// Behavior is the tagged union consulted by the physics rules. Target is only
// meaningful for Tap and names the material it emits.
type Behavior struct {
	Kind   Kind
	Target core.MaterialID
}

// Material is a resolved material definition.
type Material struct {
	ID       core.MaterialID
	Name     string
	Behavior Behavior
	Color    color.RGBA
	// Density is carried for display only; no rule consults it.
	Density int
}

// Registry resolves material ids for the simulation core.
type Registry interface {
	Resolve(id core.MaterialID) (Material, bool)
	ResolveByName(name string) (core.MaterialID, bool)
}

// Table is an in-memory Registry. Ids are assigned densely from 1 in
// registration order.
type Table struct {
	mats   []Material
	byName map[string]core.MaterialID
}

var _ Registry = (*Table)(nil)

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{byName: make(map[string]core.MaterialID)}
}

// Add registers m under a fresh id and returns it. Names must be unique and a
// Tap must target a material that is already registered.
func (t *Table) Add(m Material) (core.MaterialID, error) {
	if m.Behavior.Kind == Tap {
		if _, ok := t.Resolve(m.Behavior.Target); !ok {
			return core.NoMaterial, fmt.Errorf("tap %q targets unknown material id %d", m.Name, m.Behavior.Target)
		}
	}
	return t.add(m)
}

// add registers m without checking tap targets; Build validates them by name.
func (t *Table) add(m Material) (core.MaterialID, error) {
	if m.Name == "" {
		return core.NoMaterial, fmt.Errorf("material without a name")
	}
	if _, dup := t.byName[m.Name]; dup {
		return core.NoMaterial, fmt.Errorf("duplicate material %q", m.Name)
	}
	if len(t.mats) >= int(^core.MaterialID(0)) {
		return core.NoMaterial, fmt.Errorf("material table full")
	}
	m.ID = core.MaterialID(len(t.mats) + 1)
	t.mats = append(t.mats, m)
	t.byName[m.Name] = m.ID
	return m.ID, nil
}

// Resolve returns the material registered under id.
func (t *Table) Resolve(id core.MaterialID) (Material, bool) {
	if id == core.NoMaterial || int(id) > len(t.mats) {
		return Material{}, false
	}
	return t.mats[id-1], true
}

// ResolveByName returns the id registered under name.
func (t *Table) ResolveByName(name string) (core.MaterialID, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// Len returns the number of registered materials.
func (t *Table) Len() int { return len(t.mats) }

// All returns the registered materials in id order.
func (t *Table) All() []Material {
	out := make([]Material, len(t.mats))
	copy(out, t.mats)
	return out
}

// Names returns the registered names sorted alphabetically.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.byName))
	for n := range t.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Palette returns a lookup of display colors indexed by material id. Index 0
// (no material) is transparent.
func (t *Table) Palette() []color.RGBA {
	pal := make([]color.RGBA, len(t.mats)+1)
	for _, m := range t.mats {
		pal[m.ID] = m.Color
	}
	return pal
}
