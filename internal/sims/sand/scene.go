package sand

import (
	"math/rand/v2"
	"sort"

	"mad-sand/internal/core"
	"mad-sand/internal/material"
	"mad-sand/internal/world"
)

// Scene populates a freshly cleared world.
type Scene func(b *Builder)

var scenes = map[string]Scene{}

// Register adds a scene under the provided name.
func Register(name string, sc Scene) {
	if name == "" || sc == nil {
		return
	}
	scenes[name] = sc
}

// Scenes lists the registered scene names in sorted order.
func Scenes() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupScene(name string) (Scene, bool) {
	sc, ok := scenes[name]
	return sc, ok
}

// Builder places cells by material name while a scene is constructed.
// Names missing from the registry are skipped and reported once.
type Builder struct {
	reg     *material.Table
	world   *world.World
	rng     *rand.Rand
	missing map[string]bool
}

// Rand returns the scene's deterministic random source.
func (b *Builder) Rand() *rand.Rand { return b.rng }

func (b *Builder) resolve(name string) (core.MaterialID, bool) {
	id, ok := b.reg.ResolveByName(name)
	if !ok {
		if b.missing == nil {
			b.missing = make(map[string]bool)
		}
		b.missing[name] = true
	}
	return id, ok
}

// Put places one cell of material name at p.
func (b *Builder) Put(p core.Pos, name string) {
	if id, ok := b.resolve(name); ok {
		b.world.Insert(p, world.Of(id))
	}
}

// Fill places material name on every cell of the inclusive rectangle lo..hi.
func (b *Builder) Fill(lo, hi core.Pos, name string) {
	id, ok := b.resolve(name)
	if !ok {
		return
	}
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			b.world.Insert(core.Pos{X: x, Y: y}, world.Of(id))
		}
	}
}

// Scatter fills each cell of lo..hi with material name with probability p.
func (b *Builder) Scatter(lo, hi core.Pos, name string, p float64) {
	id, ok := b.resolve(name)
	if !ok {
		return
	}
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			if b.rng.Float64() < p {
				b.world.Insert(core.Pos{X: x, Y: y}, world.Of(id))
			}
		}
	}
}

func (b *Builder) missingNames() []string {
	names := make([]string, 0, len(b.missing))
	for name := range b.missing {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("empty", func(*Builder) {})
	Register("hourglass", hourglass)
	Register("fountain", fountain)
	Register("pile", pile)
	Register("boundary", boundary)
}

// hourglass: a stone funnel with a mound of sand above a one-cell neck.
func hourglass(b *Builder) {
	b.Fill(core.Pos{X: 0, Y: 0}, core.Pos{X: 199, Y: 1}, "stone")
	// Walls are two cells thick so grains cannot slip through diagonally.
	for i := int32(0); i < 59; i++ {
		b.Fill(core.Pos{X: 40 + i, Y: 110 - i}, core.Pos{X: 41 + i, Y: 110 - i}, "stone")
		b.Fill(core.Pos{X: 159 - i, Y: 110 - i}, core.Pos{X: 160 - i, Y: 110 - i}, "stone")
	}
	b.Fill(core.Pos{X: 60, Y: 100}, core.Pos{X: 140, Y: 140}, "sand")
}

// fountain: taps above a stone basin.
func fountain(b *Builder) {
	b.Fill(core.Pos{X: 20, Y: 10}, core.Pos{X: 180, Y: 11}, "stone")
	b.Fill(core.Pos{X: 20, Y: 12}, core.Pos{X: 21, Y: 40}, "stone")
	b.Fill(core.Pos{X: 179, Y: 12}, core.Pos{X: 180, Y: 40}, "stone")
	b.Put(core.Pos{X: 70, Y: 130}, "water_tap")
	b.Put(core.Pos{X: 130, Y: 130}, "sand_tap")
}

// pile: a random mix of sand and water dropped onto a floor.
func pile(b *Builder) {
	b.Fill(core.Pos{X: 0, Y: 0}, core.Pos{X: 199, Y: 0}, "stone")
	b.Scatter(core.Pos{X: 50, Y: 60}, core.Pos{X: 150, Y: 120}, "sand", 0.3)
	b.Scatter(core.Pos{X: 50, Y: 60}, core.Pos{X: 150, Y: 120}, "water", 0.2)
}

// boundary: sand straddling the chunk corner at the origin, falling into
// negative coordinates.
func boundary(b *Builder) {
	b.Fill(core.Pos{X: -60, Y: -120}, core.Pos{X: 60, Y: -119}, "stone")
	b.Fill(core.Pos{X: -10, Y: -10}, core.Pos{X: 9, Y: 9}, "sand")
}
