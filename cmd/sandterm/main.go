package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"mad-sand/internal/app"
	"mad-sand/internal/logging"
	"mad-sand/internal/sims/sand"
	"mad-sand/internal/term"
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
	// The screen owns the terminal, so console logs go to a file.
	if out := cfg.Logging.Output; out == "" || out == "stderr" || out == "stdout" {
		cfg.Logging.Output = filepath.Join(os.TempDir(), "sandterm.log")
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

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	viewer := term.New(screen, sim, cfg.Sim.TPS, cfg.Sim.Seed, log)
	if err := viewer.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
