package world

import (
	"iter"
	"slices"

	"mad-sand/internal/core"
)

// World is a sparse, unbounded plane of cells stored as lazily created chunks.
// A missing chunk reads exactly like a chunk full of empty slots.
type World struct {
	chunks map[core.ChunkPos]*Chunk
}

// New returns an empty world.
func New() *World {
	return &World{chunks: make(map[core.ChunkPos]*Chunk)}
}

// Insert writes s at p, creating the owning chunk if needed.
func (w *World) Insert(p core.Pos, s Slot) {
	cp := core.ChunkOf(p)
	ch, ok := w.chunks[cp]
	if !ok {
		ch = NewChunk()
		w.chunks[cp] = ch
	}
	ch.Set(core.LocalOf(p), s)
}

// Put stores ref at p.
func (w *World) Put(p core.Pos, ref CellRef) { w.Insert(p, Some(ref)) }

// Remove clears the cell at p.
func (w *World) Remove(p core.Pos) { w.Insert(p, Empty) }

// Get returns the cell at p.
func (w *World) Get(p core.Pos) (CellRef, bool) {
	ch, ok := w.chunks[core.ChunkOf(p)]
	if !ok {
		return CellRef{}, false
	}
	return ch.Get(core.LocalOf(p))
}

// IsEmpty reports whether no cell occupies p.
func (w *World) IsEmpty(p core.Pos) bool {
	_, ok := w.Get(p)
	return !ok
}

// Ref returns a mutable pointer to the payload at p, or nil when p is empty.
func (w *World) Ref(p core.Pos) *CellRef {
	ch, ok := w.chunks[core.ChunkOf(p)]
	if !ok {
		return nil
	}
	return ch.Ref(core.LocalOf(p))
}

// Chunk returns the resident chunk at cp, or nil.
func (w *World) Chunk(cp core.ChunkPos) *Chunk { return w.chunks[cp] }

// ChunkCount returns the number of resident chunks.
func (w *World) ChunkCount() int { return len(w.chunks) }

// Keys returns resident chunk coordinates ordered by X, then Y.
func (w *World) Keys() []core.ChunkPos {
	keys := make([]core.ChunkPos, 0, len(w.chunks))
	for k := range w.chunks {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b core.ChunkPos) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
	return keys
}

// Chunks iterates resident chunks in Keys order.
func (w *World) Chunks() iter.Seq2[core.ChunkPos, *Chunk] {
	return func(yield func(core.ChunkPos, *Chunk) bool) {
		for _, k := range w.Keys() {
			if !yield(k, w.chunks[k]) {
				return
			}
		}
	}
}

// TotalOccupancy sums the occupancy counters of all chunks.
func (w *World) TotalOccupancy() int {
	total := 0
	for _, ch := range w.chunks {
		total += ch.count
	}
	return total
}

// Bounds returns the inclusive cell rectangle covered by resident chunks.
func (w *World) Bounds() (lo, hi core.Pos, ok bool) {
	first := true
	for k := range w.chunks {
		o := k.Origin()
		top := o.Add(core.ChunkSize-1, core.ChunkSize-1)
		if first {
			lo, hi, first = o, top, false
			continue
		}
		lo.X, lo.Y = min(lo.X, o.X), min(lo.Y, o.Y)
		hi.X, hi.Y = max(hi.X, top.X), max(hi.Y, top.Y)
	}
	return lo, hi, !first
}

// Clear drops every chunk.
func (w *World) Clear() {
	clear(w.chunks)
}
