package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"time"

	"falling-sand/internal/logging"
	"falling-sand/internal/sims/sand"
	"falling-sand/internal/sweep"
)

func main() {
	runs := flag.Int("runs", 32, "number of seeded worlds to run")
	firstSeed := flag.Int64("seed", 1, "seed of the first world; later worlds count up")
	ticks := flag.Int("ticks", 2000, "maximum ticks per world")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	width := flag.Int("w", 0, "grid width (0 uses the materials document)")
	height := flag.Int("h", 0, "grid height (0 uses the materials document)")
	density := flag.Float64("density", 0.35, "fraction of cells filled on reset")
	materials := flag.String("materials", "", "path to a JSON materials document (empty uses the built-in set)")
	level := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	logger := logging.New(os.Stderr, *level)

	cfg := sand.DefaultConfig()
	cfg.Width = *width
	cfg.Height = *height
	cfg.Density = *density
	cfg.MaterialsPath = *materials

	seeds := make([]int64, *runs)
	for i := range seeds {
		seeds[i] = *firstSeed + int64(i)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Sweeping %d worlds (%d workers, up to %d ticks)\n", len(seeds), *workers, *ticks)
	start := time.Now()
	results, err := sweep.Run(ctx, sweep.Options{Config: cfg, Seeds: seeds, MaxTicks: *ticks, Workers: *workers}, logger)
	if err != nil {
		logger.Fatalf("sweep failed: %v", err)
	}
	elapsed := time.Since(start)

	settled := 0
	for _, res := range results {
		if res.Settled {
			settled++
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Settled != results[j].Settled {
			return results[i].Settled
		}
		return results[i].SettledAt < results[j].SettledAt
	})

	fmt.Printf("\nResults (elapsed %s, %d/%d settled):\n", elapsed.Round(time.Millisecond), settled, len(results))
	for _, res := range results {
		state := "running"
		if res.Settled {
			state = fmt.Sprintf("settled@%d", res.SettledAt)
		}
		fmt.Printf("seed=%-6d %-14s ticks=%-6d cells=%-6d moves=%-8d copies=%-8d swaps=%-8d hash=%s\n",
			res.Seed, state, res.Ticks, res.Occupied, res.Totals.Moves, res.Totals.Copies, res.Totals.Swaps, res.Hash)
	}
}
