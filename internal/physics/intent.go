package physics

import (
	"fmt"

	"mad-sand/internal/core"
)

// IntentKind distinguishes movement from spawning.
type IntentKind uint8

const (
	// Move transfers the cell at From into the empty slot To.
	Move IntentKind = iota
	// Spawn creates Material at the empty slot To. From is the emitting tap.
	Spawn
)

// Intent is an action computed by the read phase and applied by the commit phase.
type Intent struct {
	Kind     IntentKind
	From     core.Pos
	To       core.Pos
	Material core.MaterialID
}

func (in Intent) String() string {
	switch in.Kind {
	case Move:
		return fmt.Sprintf("move %v->%v", in.From, in.To)
	case Spawn:
		return fmt.Sprintf("spawn %d at %v (from %v)", in.Material, in.To, in.From)
	}
	return fmt.Sprintf("intent(%d)", in.Kind)
}

// Plan is the output of the read phase. Intents are ordered by chunk
// (ascending X, then Y) and by flat slot index within a chunk.
type Plan struct {
	Intents []Intent
	// Unknown counts cells whose material id the registry could not resolve.
	Unknown map[core.MaterialID]int
}

// Report summarizes one committed tick.
type Report struct {
	Moves         int
	Spawns        int
	DroppedSpawns int
	// Collisions counts move intents that lost a destination to another move.
	Collisions int
	Unknown    int
}
