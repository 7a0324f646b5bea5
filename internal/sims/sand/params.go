package sand

import (
	"strconv"

	"mad-sand/internal/core"
)

// Parameters reports the counters shown by viewers.
func (s *Sim) Parameters() core.ParameterSnapshot {
	brush := s.Brush()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Simulation",
			Params: []core.Parameter{
				core.StringParam("scene", "Scene", s.cfg.Scene),
				core.StringParam("seed", "Seed", strconv.FormatInt(s.seed, 10)),
				core.IntParam("tick", "Tick", s.ticks),
				core.BoolParam("paused", "Paused", s.paused),
				core.IntParam("workers", "Workers", s.engine.Workers()),
				core.StringParam("brush", "Brush", brush.Name),
			},
		},
		{
			Name: "World",
			Params: []core.Parameter{
				core.IntParam("cells", "Cells", s.world.TotalOccupancy()),
				core.IntParam("chunks", "Chunks", s.world.ChunkCount()),
				core.IntParam("pending", "Pending", s.Pending()),
			},
		},
		{
			Name: "Last tick",
			Params: []core.Parameter{
				core.IntParam("moves", "Moves", s.last.Moves),
				core.IntParam("spawns", "Spawns", s.last.Spawns),
				core.IntParam("collisions", "Collisions", s.last.Collisions),
				core.IntParam("unknown", "Unknown", s.last.Unknown),
			},
		},
		{
			Name: "Totals",
			Params: []core.Parameter{
				core.IntParam("total_moves", "Moves", s.totals.Moves),
				core.IntParam("total_spawns", "Spawns", s.totals.Spawns),
				core.IntParam("total_dropped", "Dropped spawns", s.totals.DroppedSpawns+s.dropped),
				core.IntParam("total_collisions", "Collisions", s.totals.Collisions),
			},
		},
	}}
}
