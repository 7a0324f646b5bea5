// Package sand hosts a falling-sand world: it owns the cells, queues
// spawn and remove requests from front ends, and advances the physics engine
// one tick per Step.
package sand

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"

	"mad-sand/internal/core"
	"mad-sand/internal/material"
	"mad-sand/internal/physics"
	"mad-sand/internal/world"
)

type request struct {
	pos    core.Pos
	id     core.MaterialID
	remove bool
}

// Sim is a falling-sand simulation. Every method except Spawn, SpawnByName,
// Remove and Paint must be called from the goroutine that drives Step.
type Sim struct {
	cfg    Config
	reg    *material.Table
	world  *world.World
	engine *physics.Engine
	rng    *rand.Rand
	log    *zap.Logger

	mu      sync.Mutex
	pending []request
	brush   core.MaterialID

	seed    int64
	ticks   int
	paused  bool
	last    physics.Report
	dropped int
	totals  physics.Report
}

// New returns a simulation over reg, populated with the configured scene.
func New(cfg Config, reg *material.Table, log *zap.Logger) (*Sim, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if _, ok := lookupScene(cfg.Scene); !ok {
		return nil, fmt.Errorf("unknown scene %q (have %v)", cfg.Scene, Scenes())
	}
	s := &Sim{
		cfg:    cfg,
		reg:    reg,
		world:  world.New(),
		engine: physics.New(reg, log.Named("physics"), physics.WithWorkers(cfg.Workers)),
		log:    log,
		paused: cfg.Paused,
	}
	if err := s.SetBrush(cfg.Brush); err != nil {
		s.brush = firstMovable(reg)
		log.Warn("brush material unavailable", zap.String("brush", cfg.Brush), zap.Error(err))
	}
	s.Reset(0)
	return s, nil
}

// NewFromMap builds a simulation from flag-style parameters, loading the
// material file named by the "materials" key when present.
func NewFromMap(params map[string]string, log *zap.Logger) (*Sim, error) {
	cfg := FromMap(params)
	reg := material.DefaultTable()
	if cfg.Materials != "" {
		var err error
		if reg, err = material.Load(cfg.Materials); err != nil {
			return nil, err
		}
	}
	return New(cfg, reg, log)
}

// Name returns the simulation identifier.
func (s *Sim) Name() string { return "sand/" + s.cfg.Scene }

// Reset clears the world and rebuilds the scene. A zero seed reuses the
// configured seed.
func (s *Sim) Reset(seed int64) {
	if seed == 0 {
		seed = s.cfg.Seed
	}
	s.seed = seed
	s.rng = core.NewRand(seed)
	s.world.Clear()
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
	s.ticks = 0
	s.last = physics.Report{}
	s.totals = physics.Report{}
	s.dropped = 0

	scene, _ := lookupScene(s.cfg.Scene)
	b := &Builder{reg: s.reg, world: s.world, rng: core.Derive(s.rng)}
	scene(b)
	for _, name := range b.missingNames() {
		s.log.Warn("scene references unknown material", zap.String("scene", s.cfg.Scene), zap.String("material", name))
	}
	s.log.Debug("scene built",
		zap.String("scene", s.cfg.Scene),
		zap.Int64("seed", seed),
		zap.Int("cells", s.world.TotalOccupancy()),
		zap.Int("chunks", s.world.ChunkCount()))
}

// Step applies queued requests and, unless paused, advances one tick.
func (s *Sim) Step() {
	s.drain()
	if s.paused {
		return
	}
	s.tick()
}

// Advance applies queued requests and advances exactly one tick, even when paused.
func (s *Sim) Advance() {
	s.drain()
	s.tick()
}

func (s *Sim) tick() {
	rep := s.engine.Tick(s.world, s.rng)
	s.ticks++
	s.last = rep
	s.totals.Moves += rep.Moves
	s.totals.Spawns += rep.Spawns
	s.totals.DroppedSpawns += rep.DroppedSpawns
	s.totals.Collisions += rep.Collisions
	s.totals.Unknown += rep.Unknown
}

func (s *Sim) drain() {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, r := range batch {
		if r.remove {
			s.world.Remove(r.pos)
			continue
		}
		if !s.world.IsEmpty(r.pos) {
			s.dropped++
			continue
		}
		s.world.Insert(r.pos, world.Of(r.id))
	}
}

// Spawn queues a request to place material id at p. The request is applied
// before the next tick and only if p is empty at that point.
func (s *Sim) Spawn(p core.Pos, id core.MaterialID) {
	s.mu.Lock()
	s.pending = append(s.pending, request{pos: p, id: id})
	s.mu.Unlock()
}

// SpawnByName is Spawn with the material looked up by name.
func (s *Sim) SpawnByName(p core.Pos, name string) error {
	id, ok := s.reg.ResolveByName(name)
	if !ok {
		return fmt.Errorf("unknown material %q", name)
	}
	s.Spawn(p, id)
	return nil
}

// Remove queues a request to clear p.
func (s *Sim) Remove(p core.Pos) {
	s.mu.Lock()
	s.pending = append(s.pending, request{pos: p, remove: true})
	s.mu.Unlock()
}

// Paint queues a spawn of the current brush material at p.
func (s *Sim) Paint(p core.Pos) {
	s.mu.Lock()
	id := s.brush
	s.mu.Unlock()
	if id == core.NoMaterial {
		return
	}
	s.Spawn(p, id)
}

// Pending reports the number of queued requests.
func (s *Sim) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// SetBrush selects the material placed by Paint.
func (s *Sim) SetBrush(name string) error {
	id, ok := s.reg.ResolveByName(name)
	if !ok {
		return fmt.Errorf("unknown material %q", name)
	}
	s.mu.Lock()
	s.brush = id
	s.mu.Unlock()
	return nil
}

// CycleBrush moves the brush delta steps through the registry in id order.
func (s *Sim) CycleBrush(delta int) {
	n := s.reg.Len()
	if n == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := int(s.brush) - 1
	next := ((cur+delta)%n + n) % n
	s.brush = core.MaterialID(next + 1)
}

// Brush returns the material placed by Paint.
func (s *Sim) Brush() material.Material {
	s.mu.Lock()
	id := s.brush
	s.mu.Unlock()
	m, _ := s.reg.Resolve(id)
	return m
}

// SetPaused halts or resumes ticking in Step.
func (s *Sim) SetPaused(paused bool) { s.paused = paused }

// TogglePause flips the paused state.
func (s *Sim) TogglePause() { s.paused = !s.paused }

// Paused reports whether Step is currently a no-op apart from queued requests.
func (s *Sim) Paused() bool { return s.paused }

// Ticks returns the number of ticks since the last Reset.
func (s *Sim) Ticks() int { return s.ticks }

// LastReport returns the summary of the most recent tick.
func (s *Sim) LastReport() physics.Report { return s.last }

// World exposes the cells for read-only use between ticks.
func (s *Sim) World() *world.World { return s.world }

// Registry exposes the material table.
func (s *Sim) Registry() *material.Table { return s.reg }

// Inspect describes the cell at p: "empty", the material name, or
// "unknown(<id>)" for unresolvable ids.
func (s *Sim) Inspect(p core.Pos) string {
	ref, ok := s.world.Get(p)
	if !ok {
		return "empty"
	}
	m, ok := s.reg.Resolve(ref.Material)
	if !ok {
		return fmt.Sprintf("unknown(%d)", ref.Material)
	}
	return m.Name
}

func firstMovable(reg *material.Table) core.MaterialID {
	for _, m := range reg.All() {
		if m.Behavior.Kind == material.Sand || m.Behavior.Kind == material.Fluid {
			return m.ID
		}
	}
	return core.NoMaterial
}
