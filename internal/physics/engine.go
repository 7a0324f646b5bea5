// Package physics advances a cell world by one tick. A tick is split into a
// read phase that plans intents against the pre-tick world and a serial
// commit phase that applies them.
package physics

import (
	"math/rand/v2"
	"runtime"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mad-sand/internal/core"
	"mad-sand/internal/material"
	"mad-sand/internal/world"
)

// Engine applies the movement rules. It keeps no state between ticks; the
// registry must be safe for concurrent reads.
type Engine struct {
	reg     material.Registry
	log     *zap.Logger
	workers int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds the number of chunks scanned concurrently in the read
// phase. Values below 1 select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// New returns an engine resolving materials through reg.
func New(reg material.Registry, log *zap.Logger, opts ...Option) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{reg: reg, log: log}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	return e
}

// Workers reports the read-phase concurrency.
func (e *Engine) Workers() int { return e.workers }

// Tick plans and commits one simulation step. rng drives every random
// tie-break, so a seeded generator reproduces the tick exactly.
func (e *Engine) Tick(w *world.World, rng *rand.Rand) Report {
	plan := e.Plan(w, rng)
	rep := e.Commit(w, plan.Intents, rng)
	for _, id := range sortedIDs(plan.Unknown) {
		n := plan.Unknown[id]
		rep.Unknown += n
		e.log.Warn("unknown material treated as static",
			zap.Uint16("material", uint16(id)),
			zap.Int("cells", n))
	}
	return rep
}

type chunkJob struct {
	pos   core.ChunkPos
	chunk *world.Chunk
	rng   *rand.Rand

	intents []Intent
	unknown map[core.MaterialID]int
}

// Plan runs the read phase. It never mutates w. One generator per chunk is
// derived from rng in chunk order before the scan fans out.
func (e *Engine) Plan(w *world.World, rng *rand.Rand) Plan {
	var jobs []*chunkJob
	for cp, ch := range w.Chunks() {
		if ch.Count() == 0 {
			continue
		}
		jobs = append(jobs, &chunkJob{pos: cp, chunk: ch, rng: core.Derive(rng)})
	}

	if e.workers == 1 || len(jobs) < 2 {
		for _, job := range jobs {
			e.scan(w, job)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(e.workers)
		for _, job := range jobs {
			g.Go(func() error {
				e.scan(w, job)
				return nil
			})
		}
		_ = g.Wait()
	}

	var plan Plan
	for _, job := range jobs {
		plan.Intents = append(plan.Intents, job.intents...)
		for id, n := range job.unknown {
			if plan.Unknown == nil {
				plan.Unknown = make(map[core.MaterialID]int)
			}
			plan.Unknown[id] += n
		}
	}
	return plan
}

func (e *Engine) scan(w *world.World, job *chunkJob) {
	origin := job.pos.Origin()
	job.chunk.Each(func(i int, ref world.CellRef) {
		m, ok := e.reg.Resolve(ref.Material)
		if !ok {
			if job.unknown == nil {
				job.unknown = make(map[core.MaterialID]int)
			}
			job.unknown[ref.Material]++
			return
		}
		l := core.IndexToLocal(i)
		p := origin.Add(int32(l.X), int32(l.Y))
		if in, ok := decide(w, p, m.Behavior, job.rng); ok {
			job.intents = append(job.intents, in)
		}
	})
}

// Commit applies intents in order. Moves sharing a destination contend: one
// winner is drawn from rng and the rest stay put. Spawns run after all moves
// and only fill slots that are still empty.
func (e *Engine) Commit(w *world.World, intents []Intent, rng *rand.Rand) Report {
	var rep Report

	var order []core.Pos
	contenders := make(map[core.Pos][]int)
	var spawns []int
	for i, in := range intents {
		switch in.Kind {
		case Move:
			if _, seen := contenders[in.To]; !seen {
				order = append(order, in.To)
			}
			contenders[in.To] = append(contenders[in.To], i)
		case Spawn:
			spawns = append(spawns, i)
		}
	}

	for _, dst := range order {
		idx := contenders[dst]
		winner := idx[0]
		if len(idx) > 1 {
			// Seeded draw instead of a fixed source order; the seed reproduces it.
			winner = idx[rng.IntN(len(idx))]
			rep.Collisions += len(idx) - 1
			e.log.Debug("move collision",
				zap.Int32("x", dst.X),
				zap.Int32("y", dst.Y),
				zap.Int("contenders", len(idx)),
				zap.Stringer("winner", intents[winner]))
		}
		if e.move(w, intents[winner]) {
			rep.Moves++
		}
	}

	for _, i := range spawns {
		in := intents[i]
		if !w.IsEmpty(in.To) {
			rep.DroppedSpawns++
			continue
		}
		w.Insert(in.To, world.Of(in.Material))
		rep.Spawns++
	}
	return rep
}

func (e *Engine) move(w *world.World, in Intent) bool {
	ref, ok := w.Get(in.From)
	if !ok || !w.IsEmpty(in.To) {
		e.log.Warn("stale move intent dropped", zap.Stringer("intent", in))
		return false
	}
	d := in.From.Sub(in.To)
	ref.Offset = [2]float32{float32(d.DX), float32(d.DY)}
	w.Remove(in.From)
	w.Put(in.To, ref)
	return true
}

func sortedIDs(m map[core.MaterialID]int) []core.MaterialID {
	ids := make([]core.MaterialID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
