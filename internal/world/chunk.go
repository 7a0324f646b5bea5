package world

import "mad-sand/internal/core"

// CellRef is the payload of an occupied cell.
type CellRef struct {
	Material core.MaterialID
	// Offset is the displacement of the cell's last move, for renderers that
	// animate between slots. Occupancy never depends on it.
	Offset [2]float32
}

// Slot is an optional CellRef.
type Slot struct {
	Ref  CellRef
	Full bool
}

// Empty is the vacant slot.
var Empty Slot

// Some wraps ref into an occupied slot.
func Some(ref CellRef) Slot { return Slot{Ref: ref, Full: true} }

// Of returns an occupied slot holding material id with no offset.
func Of(id core.MaterialID) Slot { return Some(CellRef{Material: id}) }

// Chunk is a dense ChunkSize x ChunkSize block of slots in row-major order.
type Chunk struct {
	slots []Slot
	count int
}

// NewChunk allocates an all-empty chunk.
func NewChunk() *Chunk {
	return &Chunk{slots: make([]Slot, core.ChunkArea)}
}

// Get returns the cell at l. Out-of-range locals read as empty.
func (c *Chunk) Get(l core.Local) (CellRef, bool) {
	i := core.Index(l)
	if i < 0 {
		return CellRef{}, false
	}
	s := c.slots[i]
	return s.Ref, s.Full
}

// Ref returns a mutable pointer to the payload at l, or nil when the slot is
// empty or l is out of range. Occupancy cannot be changed through it.
func (c *Chunk) Ref(l core.Local) *CellRef {
	i := core.Index(l)
	if i < 0 || !c.slots[i].Full {
		return nil
	}
	return &c.slots[i].Ref
}

// Set writes s at l and keeps the occupancy counter in step. It reports false
// and does nothing when l is out of range.
func (c *Chunk) Set(l core.Local, s Slot) bool {
	i := core.Index(l)
	if i < 0 {
		return false
	}
	c.setIndex(i, s)
	return true
}

func (c *Chunk) setIndex(i int, s Slot) {
	was := c.slots[i].Full
	if !s.Full {
		s = Empty
	}
	c.slots[i] = s
	switch {
	case was && !s.Full:
		c.count--
	case !was && s.Full:
		c.count++
	}
}

// Count returns the number of occupied slots.
func (c *Chunk) Count() int { return c.count }

// Each calls fn for every occupied slot in ascending index order.
func (c *Chunk) Each(fn func(i int, ref CellRef)) {
	if c.count == 0 {
		return
	}
	seen := 0
	for i := range c.slots {
		if !c.slots[i].Full {
			continue
		}
		fn(i, c.slots[i].Ref)
		seen++
		if seen == c.count {
			return
		}
	}
}
