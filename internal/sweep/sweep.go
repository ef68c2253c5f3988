// Package sweep runs many independently seeded sand worlds in parallel and
// reports how each one settles.
package sweep

import (
	"context"
	"runtime"

	"falling-sand/internal/logging"
	"falling-sand/internal/material"
	"falling-sand/internal/sims/sand"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Options describes a sweep.
type Options struct {
	Config   sand.Config
	Seeds    []int64
	MaxTicks int
	Workers  int
}

// Result summarizes one world after the sweep stopped advancing it.
type Result struct {
	Seed      int64
	Settled   bool
	SettledAt uint64
	Ticks     uint64
	Occupied  int
	Hash      string
	Totals    sand.TickStats
}

// Run loads the materials once and advances one world per seed until it
// settles or MaxTicks is reached. Each world is owned by a single worker.
// Results are returned in seed order.
func Run(ctx context.Context, opts Options, logger logging.Logger) ([]Result, error) {
	if logger == nil {
		logger = logging.NoOp{}
	}
	doc := material.Default()
	if opts.Config.MaterialsPath != "" {
		loaded, err := material.Load(opts.Config.MaterialsPath)
		if err != nil {
			return nil, err
		}
		doc = loaded
	}
	reg, settings, err := doc.Build(logger)
	if err != nil {
		return nil, errors.Wrap(err, "build materials")
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(opts.Seeds))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, seed := range opts.Seeds {
		eg.Go(func() error {
			cfg := opts.Config
			cfg.Seed = seed
			w := sand.NewWithRegistry(cfg, reg, settings, logger)
			w.Reset(seed)
			res, err := runWorld(ctx, w, seed, opts.MaxTicks)
			if err != nil {
				return errors.Wrapf(err, "seed %d", seed)
			}
			logger.Debugf("seed %d: settled=%t ticks=%d", seed, res.Settled, res.Ticks)
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// runWorld ticks w until a tick changes nothing. Rules are deterministic, so
// a tick without moves, copies or swaps means every later tick is identical.
func runWorld(ctx context.Context, w *sand.World, seed int64, maxTicks int) (Result, error) {
	res := Result{Seed: seed}
	for tick := 0; tick < maxTicks; tick++ {
		if tick%64 == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		if err := w.Tick(); err != nil {
			return res, err
		}
		s := w.Stats()
		res.Totals.Moves += s.Moves
		res.Totals.Copies += s.Copies
		res.Totals.Swaps += s.Swaps
		res.Totals.Stays += s.Stays
		res.Totals.Idle += s.Idle
		res.Totals.Blocked += s.Blocked
		if s.Moves+s.Copies+s.Swaps == 0 {
			res.Settled = true
			res.SettledAt = w.Ticks()
			break
		}
	}
	res.Ticks = w.Ticks()
	res.Occupied = w.Grid().Count()
	res.Hash = w.Grid().Hash()
	return res, nil
}
