// sandrun advances a scene headlessly and prints per-interval statistics.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"mad-sand/internal/config"
	"mad-sand/internal/logging"
	"mad-sand/internal/physics"
	"mad-sand/internal/sims/sand"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	path := flag.String("config", "", "TOML configuration file")
	steps := flag.Int("steps", 600, "number of ticks to simulate")
	every := flag.Int("every", 100, "print statistics every N ticks (0 = only at the end)")
	scenes := flag.Bool("scenes", false, "list the registered scenes and exit")
	var overrides kvList
	flag.Var(&overrides, "set", "sim parameter override in key=value form (repeatable)")
	flag.Parse()

	if *scenes {
		for _, name := range sand.Scenes() {
			fmt.Println(name)
		}
		return nil
	}

	cfg, err := config.LoadOrDefaults(*path)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	params := cfg.SimParams()
	params["paused"] = "false"
	for _, kv := range overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("override %q is not key=value", kv)
		}
		params[key] = value
	}

	sim, err := sand.NewFromMap(params, log)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d cells in %d chunks\n", sim.Name(), sim.World().TotalOccupancy(), sim.World().ChunkCount())
	start := time.Now()
	var window physics.Report
	for i := 1; i <= *steps; i++ {
		sim.Step()
		rep := sim.LastReport()
		window.Moves += rep.Moves
		window.Spawns += rep.Spawns
		window.DroppedSpawns += rep.DroppedSpawns
		window.Collisions += rep.Collisions
		window.Unknown += rep.Unknown
		if (*every > 0 && i%*every == 0) || i == *steps {
			printWindow(i, sim, window)
			window = physics.Report{}
		}
	}
	elapsed := time.Since(start)
	log.Info("run finished",
		zap.String("sim", sim.Name()),
		zap.Int("ticks", *steps),
		zap.Duration("elapsed", elapsed))

	fmt.Println("\nTotals:")
	for _, line := range totals(sim) {
		fmt.Println("  " + line)
	}
	return nil
}

func printWindow(tick int, sim *sand.Sim, rep physics.Report) {
	fmt.Printf("tick %5d: cells %d chunks %d | moves %d spawns %d dropped %d collisions %d unknown %d\n",
		tick, sim.World().TotalOccupancy(), sim.World().ChunkCount(),
		rep.Moves, rep.Spawns, rep.DroppedSpawns, rep.Collisions, rep.Unknown)
}

func totals(sim *sand.Sim) []string {
	snap := sim.Parameters()
	var out []string
	for _, g := range snap.Groups {
		if g.Name != "Totals" {
			continue
		}
		for _, p := range g.Params {
			out = append(out, fmt.Sprintf("%s=%s", p.Key, p.Value))
		}
	}
	return out
}
