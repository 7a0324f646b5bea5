package physics

import (
	"math/rand/v2"

	"mad-sand/internal/core"
	"mad-sand/internal/material"
)

// occupancy is the read-only view the rules need.
type occupancy interface {
	IsEmpty(p core.Pos) bool
}

// decide computes the intent, if any, for the cell at p.
func decide(w occupancy, p core.Pos, b material.Behavior, rng *rand.Rand) (Intent, bool) {
	switch b.Kind {
	case material.Sand:
		return fall(w, p, rng)
	case material.Fluid:
		if in, ok := fall(w, p, rng); ok {
			return in, true
		}
		if to, ok := either(w, p, core.Left, core.Right, rng); ok {
			return Intent{Kind: Move, From: p, To: to}, true
		}
	case material.Tap:
		if to, ok := free(w, p, core.Below); ok {
			return Intent{Kind: Spawn, From: p, To: to, Material: b.Target}, true
		}
	}
	return Intent{}, false
}

// free returns p+o when that slot exists and is empty. Slots off the int32
// plane count as occupied.
func free(w occupancy, p core.Pos, o core.Offset) (core.Pos, bool) {
	to, ok := p.StepChecked(o)
	if !ok || !w.IsEmpty(to) {
		return core.Pos{}, false
	}
	return to, true
}

// fall tries straight down, then the two lower diagonals.
func fall(w occupancy, p core.Pos, rng *rand.Rand) (Intent, bool) {
	if to, ok := free(w, p, core.Below); ok {
		return Intent{Kind: Move, From: p, To: to}, true
	}
	if to, ok := either(w, p, core.BelowLeft, core.BelowRight, rng); ok {
		return Intent{Kind: Move, From: p, To: to}, true
	}
	return Intent{}, false
}

// either returns the single free slot among p+a and p+b, or a uniform pick
// when both are free.
func either(w occupancy, p core.Pos, a, b core.Offset, rng *rand.Rand) (core.Pos, bool) {
	pa, freeA := free(w, p, a)
	pb, freeB := free(w, p, b)
	switch {
	case freeA && freeB:
		if core.Coin(rng) {
			return pb, true
		}
		return pa, true
	case freeA:
		return pa, true
	case freeB:
		return pb, true
	}
	return core.Pos{}, false
}
