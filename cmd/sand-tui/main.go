package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"

	"falling-sand/internal/app"
	"falling-sand/internal/core"
	"falling-sand/internal/logging"
	_ "falling-sand/internal/sims/sand"
	"falling-sand/internal/tui"

	"github.com/gdamore/tcell/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	logFile := flag.String("log-file", "", "append logs to this file instead of stderr")
	flag.Parse()

	// The screen owns the terminal while running.
	logOut := os.Stderr
	if *logFile != "" {
		f, err := logging.OpenFile(*logFile)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.New(logOut, cfg.LogLevel)

	opts := cfg.SimOptions()
	screen, err := tcell.NewScreen()
	if err != nil {
		logger.Fatalf("create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		logger.Fatalf("init screen: %v", err)
	}
	w, h := screen.Size()
	opts["w"] = strconv.Itoa(max(w/2, 1))
	opts["h"] = strconv.Itoa(max(h-1, 1))

	sim, err := core.New(cfg.Sim, opts, logger)
	if err != nil {
		screen.Fini()
		logger.Fatalf("create sim: %v", err)
	}
	sim.Reset(cfg.Seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = tui.New(screen, sim, cfg.TPS, cfg.Seed, logger).Run(ctx)
	screen.Fini()
	if err != nil && ctx.Err() == nil {
		logger.Fatalf("%v", err)
	}
}
