package physics

import (
	"maps"
	"math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"mad-sand/internal/core"
	"mad-sand/internal/material"
	"mad-sand/internal/world"
)

type fixture struct {
	reg   *material.Table
	stone core.MaterialID
	sand  core.MaterialID
	water core.MaterialID
	tap   core.MaterialID
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	reg := material.DefaultTable()
	id := func(name string) core.MaterialID {
		v, ok := reg.ResolveByName(name)
		if !ok {
			t.Fatalf("material %q missing", name)
		}
		return v
	}
	return fixture{reg: reg, stone: id("stone"), sand: id("sand"), water: id("water"), tap: id("sand_tap")}
}

func put(w *world.World, id core.MaterialID, ps ...core.Pos) {
	for _, p := range ps {
		w.Insert(p, world.Of(id))
	}
}

func snapshot(w *world.World) map[core.Pos]core.MaterialID {
	out := make(map[core.Pos]core.MaterialID)
	for cp, ch := range w.Chunks() {
		origin := cp.Origin()
		ch.Each(func(i int, ref world.CellRef) {
			l := core.IndexToLocal(i)
			out[origin.Add(int32(l.X), int32(l.Y))] = ref.Material
		})
	}
	return out
}

func materialAt(w *world.World, p core.Pos) core.MaterialID {
	ref, ok := w.Get(p)
	if !ok {
		return core.NoMaterial
	}
	return ref.Material
}

func TestSandFreeFall(t *testing.T) {
	f := newFixture(t)
	w := world.New()
	put(w, f.stone, core.Pos{X: -1, Y: 0}, core.Pos{X: 0, Y: 0}, core.Pos{X: 1, Y: 0})
	put(w, f.sand, core.Pos{X: 0, Y: 6})

	e := New(f.reg, nil)
	rng := core.NewRand(1)
	for tick := 1; tick <= 5; tick++ {
		rep := e.Tick(w, rng)
		want := core.Pos{X: 0, Y: int32(6 - tick)}
		if materialAt(w, want) != f.sand {
			t.Fatalf("tick %d: sand not at %v; world %v", tick, want, snapshot(w))
		}
		if rep.Moves != 1 {
			t.Fatalf("tick %d: moves = %d", tick, rep.Moves)
		}
		ref, _ := w.Get(want)
		if ref.Offset != [2]float32{0, 1} {
			t.Fatalf("tick %d: offset = %v, want a one-row drop", tick, ref.Offset)
		}
	}

	rep := e.Tick(w, rng)
	if rep.Moves != 0 || materialAt(w, core.Pos{X: 0, Y: 1}) != f.sand {
		t.Fatalf("sand should rest on the floor, report %+v", rep)
	}
}

func TestSandFallsAcrossChunkBoundary(t *testing.T) {
	f := newFixture(t)
	w := world.New()
	put(w, f.stone, core.Pos{X: 0, Y: -3})
	put(w, f.sand, core.Pos{X: 0, Y: 1})

	e := New(f.reg, nil)
	rng := core.NewRand(1)
	for i := 0; i < 3; i++ {
		e.Tick(w, rng)
	}
	if materialAt(w, core.Pos{X: 0, Y: -2}) != f.sand {
		t.Fatalf("sand should have crossed into chunk (0,-1); world %v", snapshot(w))
	}
	if w.Chunk(core.ChunkPos{X: 0, Y: 0}).Count() != 0 {
		t.Fatal("source chunk should be empty")
	}
}

func TestSandTakesLoneDiagonal(t *testing.T) {
	f := newFixture(t)
	w := world.New()
	put(w, f.stone, core.Pos{X: 0, Y: 0}, core.Pos{X: -1, Y: 0})
	put(w, f.sand, core.Pos{X: 0, Y: 1})

	New(f.reg, nil).Tick(w, core.NewRand(3))
	if materialAt(w, core.Pos{X: 1, Y: 0}) != f.sand {
		t.Fatalf("sand should slide right; world %v", snapshot(w))
	}
}

func TestSandSettles(t *testing.T) {
	f := newFixture(t)
	w := world.New()
	put(w, f.stone, core.Pos{X: -1, Y: 0}, core.Pos{X: 0, Y: 0}, core.Pos{X: 1, Y: 0})
	put(w, f.sand, core.Pos{X: 0, Y: 1})
	// Free neighbors on the same row do not matter to sand.
	rep := New(f.reg, nil).Tick(w, core.NewRand(1))
	if rep.Moves != 0 || materialAt(w, core.Pos{X: 0, Y: 1}) != f.sand {
		t.Fatalf("sand should stay settled, report %+v", rep)
	}
}

func TestSandTieBreakReachesBothDiagonals(t *testing.T) {
	f := newFixture(t)
	seen := map[core.Pos]bool{}
	for seed := int64(1); seed <= 64; seed++ {
		w := world.New()
		put(w, f.stone, core.Pos{X: 0, Y: 0})
		put(w, f.sand, core.Pos{X: 0, Y: 1})
		New(f.reg, nil).Tick(w, core.NewRand(seed))
		for _, p := range []core.Pos{{X: -1, Y: 0}, {X: 1, Y: 0}} {
			if materialAt(w, p) == f.sand {
				seen[p] = true
			}
		}
	}
	if len(seen) != 2 {
		t.Fatalf("expected both diagonals across seeds, saw %v", seen)
	}
}

func TestSandDiagonalContention(t *testing.T) {
	f := newFixture(t)
	left, right, gap := core.Pos{X: 0, Y: 1}, core.Pos{X: 2, Y: 1}, core.Pos{X: 1, Y: 0}
	winners := map[core.Pos]bool{}
	for seed := int64(1); seed <= 64; seed++ {
		w := world.New()
		put(w, f.stone,
			core.Pos{X: -1, Y: 0}, core.Pos{X: 0, Y: 0},
			core.Pos{X: 2, Y: 0}, core.Pos{X: 3, Y: 0},
			core.Pos{X: 1, Y: -1})
		put(w, f.sand, left, right)

		rep := New(f.reg, nil).Tick(w, core.NewRand(seed))
		if rep.Collisions != 1 || rep.Moves != 1 {
			t.Fatalf("seed %d: report %+v", seed, rep)
		}
		if materialAt(w, gap) != f.sand {
			t.Fatalf("seed %d: gap not filled", seed)
		}
		leftStayed := materialAt(w, left) == f.sand
		rightStayed := materialAt(w, right) == f.sand
		if leftStayed == rightStayed {
			t.Fatalf("seed %d: exactly one grain must stay (left=%v right=%v)", seed, leftStayed, rightStayed)
		}
		if leftStayed {
			winners[right] = true
		} else {
			winners[left] = true
		}
	}
	if len(winners) != 2 {
		t.Fatalf("both grains should win for some seed, winners %v", winners)
	}
}

func TestFluidLateralSpread(t *testing.T) {
	f := newFixture(t)
	w := world.New()
	put(w, f.stone,
		core.Pos{X: -1, Y: 0}, core.Pos{X: 0, Y: 0}, core.Pos{X: 1, Y: 0},
		core.Pos{X: -1, Y: 1})
	put(w, f.water, core.Pos{X: 0, Y: 1})

	rep := New(f.reg, nil).Tick(w, core.NewRand(9))
	if rep.Moves != 1 || materialAt(w, core.Pos{X: 1, Y: 1}) != f.water {
		t.Fatalf("water should move one cell right; world %v", snapshot(w))
	}
	if !w.IsEmpty(core.Pos{X: 0, Y: 1}) {
		t.Fatal("source slot should be empty")
	}
}

func TestFluidPrefersFallingOverSpreading(t *testing.T) {
	f := newFixture(t)
	w := world.New()
	put(w, f.water, core.Pos{X: 0, Y: 1})
	New(f.reg, nil).Tick(w, core.NewRand(2))
	if materialAt(w, core.Pos{X: 0, Y: 0}) != f.water {
		t.Fatalf("water should fall first; world %v", snapshot(w))
	}
}

func TestFluidBoxedInStays(t *testing.T) {
	f := newFixture(t)
	w := world.New()
	put(w, f.stone,
		core.Pos{X: -1, Y: 0}, core.Pos{X: 0, Y: 0}, core.Pos{X: 1, Y: 0},
		core.Pos{X: -1, Y: 1}, core.Pos{X: 1, Y: 1})
	put(w, f.water, core.Pos{X: 0, Y: 1})
	if rep := New(f.reg, nil).Tick(w, core.NewRand(2)); rep.Moves != 0 {
		t.Fatalf("boxed water moved: %+v", rep)
	}
}

func TestTapSpawnCadence(t *testing.T) {
	f := newFixture(t)
	w := world.New()
	tapPos, below := core.Pos{X: 0, Y: 2}, core.Pos{X: 0, Y: 1}
	put(w, f.stone, core.Pos{X: -1, Y: 0}, core.Pos{X: 0, Y: 0}, core.Pos{X: 1, Y: 0})
	put(w, f.tap, tapPos)

	e := New(f.reg, nil)
	rng := core.NewRand(5)

	plan := e.Plan(w, rng)
	if len(plan.Intents) != 1 || plan.Intents[0].Kind != Spawn || plan.Intents[0].To != below {
		t.Fatalf("expected one spawn below the tap, got %v", plan.Intents)
	}
	rep := e.Commit(w, plan.Intents, rng)
	if rep.Spawns != 1 || materialAt(w, below) != f.sand {
		t.Fatalf("spawn not applied: %+v", rep)
	}

	for tick := 0; tick < 3; tick++ {
		plan := e.Plan(w, rng)
		if len(plan.Intents) != 0 {
			t.Fatalf("tick %d: blocked tap emitted %v", tick, plan.Intents)
		}
		e.Commit(w, plan.Intents, rng)
	}
	if materialAt(w, tapPos) != f.tap {
		t.Fatal("tap must never move")
	}

	w.Remove(below)
	if plan := e.Plan(w, rng); len(plan.Intents) != 1 {
		t.Fatalf("tap should resume once the slot empties, got %v", plan.Intents)
	}
}

func TestSpawnYieldsToMove(t *testing.T) {
	f := newFixture(t)
	w := world.New()
	put(w, f.stone, core.Pos{X: -1, Y: 1}, core.Pos{X: 0, Y: 1}, core.Pos{X: 1, Y: 0})
	put(w, f.sand, core.Pos{X: 0, Y: 2})
	put(w, f.tap, core.Pos{X: 1, Y: 2})

	rep := New(f.reg, nil).Tick(w, core.NewRand(1))
	if rep.Moves != 1 || rep.Spawns != 0 || rep.DroppedSpawns != 1 {
		t.Fatalf("report %+v", rep)
	}
	if !w.IsEmpty(core.Pos{X: 0, Y: 2}) || materialAt(w, core.Pos{X: 1, Y: 1}) != f.sand {
		t.Fatalf("sand should own the contested slot; world %v", snapshot(w))
	}
}

func TestTicksConserveOccupancy(t *testing.T) {
	f := newFixture(t)
	w := world.New()
	rng := core.NewRand(77)
	for x := int32(-130); x <= 130; x++ {
		put(w, f.stone, core.Pos{X: x, Y: -120})
	}
	for i := 0; i < 2000; i++ {
		p := core.Pos{X: int32(rng.IntN(200) - 100), Y: int32(rng.IntN(150) - 20)}
		id := f.sand
		if i%3 == 0 {
			id = f.water
		}
		put(w, id, p)
	}
	before := w.TotalOccupancy()

	e := New(f.reg, nil, WithWorkers(4))
	for tick := 0; tick < 60; tick++ {
		e.Tick(w, rng)
		if got := w.TotalOccupancy(); got != before {
			t.Fatalf("tick %d: occupancy %d, want %d", tick, got, before)
		}
	}
	for cp, ch := range w.Chunks() {
		n := 0
		ch.Each(func(int, world.CellRef) { n++ })
		if n != ch.Count() {
			t.Fatalf("chunk %v counter %d, slots %d", cp, ch.Count(), n)
		}
	}
}

func TestParallelPlanMatchesSerial(t *testing.T) {
	f := newFixture(t)
	build := func() *world.World {
		w := world.New()
		rng := core.NewRand(11)
		for i := 0; i < 3000; i++ {
			p := core.Pos{X: int32(rng.IntN(400) - 200), Y: int32(rng.IntN(400) - 200)}
			put(w, []core.MaterialID{f.sand, f.water, f.stone}[i%3], p)
		}
		return w
	}
	serial, parallel := build(), build()
	es := New(f.reg, nil, WithWorkers(1))
	ep := New(f.reg, nil, WithWorkers(8))
	rs, rp := core.NewRand(99), core.NewRand(99)
	for tick := 0; tick < 20; tick++ {
		a, b := es.Tick(serial, rs), ep.Tick(parallel, rp)
		if a != b {
			t.Fatalf("tick %d: reports differ %+v vs %+v", tick, a, b)
		}
	}
	if !maps.Equal(snapshot(serial), snapshot(parallel)) {
		t.Fatal("worker count changed the outcome")
	}
}

func TestPlanDoesNotMutateWorld(t *testing.T) {
	f := newFixture(t)
	w := world.New()
	put(w, f.sand, core.Pos{X: 0, Y: 10}, core.Pos{X: 50, Y: 99})
	put(w, f.water, core.Pos{X: -3, Y: 4})
	before := snapshot(w)
	plan := New(f.reg, nil).Plan(w, core.NewRand(1))
	if len(plan.Intents) != 3 {
		t.Fatalf("expected 3 intents, got %v", plan.Intents)
	}
	if !maps.Equal(before, snapshot(w)) {
		t.Fatal("Plan mutated the world")
	}
}

func TestUnknownMaterialIsInert(t *testing.T) {
	f := newFixture(t)
	obsCore, logs := observer.New(zapcore.WarnLevel)
	e := New(f.reg, zap.New(obsCore))

	w := world.New()
	bogus := core.MaterialID(999)
	put(w, bogus, core.Pos{X: 0, Y: 5}, core.Pos{X: 3, Y: 5})
	put(w, f.sand, core.Pos{X: 1, Y: 5})

	rep := e.Tick(w, core.NewRand(1))
	if rep.Unknown != 2 || rep.Moves != 1 {
		t.Fatalf("report %+v", rep)
	}
	if materialAt(w, core.Pos{X: 0, Y: 5}) != bogus {
		t.Fatal("unknown material must not move")
	}
	entries := logs.FilterMessage("unknown material treated as static").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["cells"]; got != int64(2) {
		t.Fatalf("warning cells field = %v", got)
	}
}

func TestNoWrapAtPlaneEdges(t *testing.T) {
	f := newFixture(t)
	w := world.New()
	bottom := core.Pos{X: 0, Y: math.MinInt32}
	leftEdge := core.Pos{X: math.MinInt32, Y: 0}
	rightEdge := core.Pos{X: math.MaxInt32, Y: 0}
	put(w, f.sand, bottom)
	put(w, f.stone, core.Pos{X: math.MinInt32, Y: -1}, core.Pos{X: math.MinInt32 + 1, Y: -1})
	put(w, f.water, leftEdge)
	put(w, f.stone, core.Pos{X: math.MaxInt32, Y: -1}, core.Pos{X: math.MaxInt32 - 1, Y: -1})
	put(w, f.stone, core.Pos{X: math.MaxInt32 - 1, Y: 0})
	put(w, f.sand, rightEdge)

	e := New(f.reg, nil)
	rng := core.NewRand(5)
	for tick := 0; tick < 3; tick++ {
		e.Tick(w, rng)
	}
	if materialAt(w, bottom) != f.sand {
		t.Fatalf("sand on the bottom row moved; world %v", snapshot(w))
	}
	if materialAt(w, rightEdge) != f.sand {
		t.Fatalf("sand boxed against the right edge moved; world %v", snapshot(w))
	}
	for p, id := range snapshot(w) {
		if p.Y == math.MaxInt32 || (p.X == math.MaxInt32 && id == f.water) {
			t.Fatalf("cell wrapped to %v; world %v", p, snapshot(w))
		}
	}
	// Water at the left edge can only step right, never across to MaxInt32.
	if materialAt(w, leftEdge) == f.water {
		t.Fatalf("water at the left edge should have spread right")
	}
}
