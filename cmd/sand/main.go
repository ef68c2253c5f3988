//go:build ebiten

package main

import (
	"flag"
	"os"

	"falling-sand/internal/app"
	"falling-sand/internal/core"
	"falling-sand/internal/logging"
	_ "falling-sand/internal/sims/sand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := logging.New(os.Stderr, cfg.LogLevel)

	sim, err := core.New(cfg.Sim, cfg.SimOptions(), logger)
	if err != nil {
		logger.Fatalf("create sim: %v", err)
	}
	sim.Reset(cfg.Seed)

	game := app.New(sim, cfg.Scale, cfg.Seed, logger)

	ebiten.SetWindowTitle("falling-sand: " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(game.WindowSize())

	logger.Infof("running %s at %d tps", sim.Name(), cfg.TPS)
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatalf("%v", err)
	}
}
