//go:build ebiten

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"mad-sand/internal/app"
	"mad-sand/internal/logging"
	"mad-sand/internal/sims/sand"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := app.NewConfig()
	opts.Bind(flag.CommandLine)
	flag.Parse()

	cfg, err := opts.Resolve(flag.CommandLine)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	sim, err := sand.NewFromMap(cfg.SimParams(), log)
	if err != nil {
		return err
	}
	log.Info("starting window",
		zap.String("sim", sim.Name()),
		zap.Int("materials", sim.Registry().Len()),
		zap.Int("tps", cfg.Sim.TPS))

	v := cfg.View
	game := app.New(sim, v.Width, v.Height, v.Scale, cfg.Sim.TPS, cfg.Sim.Seed)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("mad-sand - " + sim.Name())
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
