// Package sand implements the rule-driven falling-sand automaton: materials
// carry ordered movement rules that are matched against neighbour occupancy
// once per cell per tick.
package sand

import (
	"fmt"
	"image/color"

	"falling-sand/internal/core"
	"falling-sand/internal/logging"
	"falling-sand/internal/material"
	"falling-sand/pkg/rng"

	"github.com/pkg/errors"
)

// ErrUnknownMaterial means a cell or request names an unregistered material.
var ErrUnknownMaterial = errors.New("unknown material")

// InvariantError reports an engine state that loading should have made
// impossible. The tick that produced it is abandoned.
type InvariantError struct {
	Tick     uint64
	Pos      core.Position
	Movement material.Movement
	Err      error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("tick %d: cell %s %s: %v", e.Tick, e.Pos, e.Movement, e.Err)
}

func (e *InvariantError) Unwrap() error { return e.Err }

// Cause lets errors.Cause reach the underlying sentinel.
func (e *InvariantError) Cause() error { return errors.Cause(e.Err) }

// TickStats counts what happened during the last tick.
type TickStats struct {
	Moves  int
	Copies int
	Swaps  int
	Stays  int
	Idle   int
	// Blocked counts matched rules whose target was outside the grid or,
	// for Move and Copy, already occupied.
	Blocked int
}

// World owns the grid and the read-only material registry.
type World struct {
	cfg      Config
	reg      *material.Registry
	settings material.Settings
	grid     *core.Grid
	palette  []color.RGBA
	logger   logging.Logger

	// landed[i] == generation marks cell i as a destination this tick.
	landed     []uint32
	generation uint32

	ticks uint64
	stats TickStats
	brush core.Brush
}

// New returns a world of w x h cells over reg with the background black.
func New(reg *material.Registry, w, h int) *World {
	return newWorld(DefaultConfig(), reg, material.Settings{Rows: h, Columns: w, BrushRadius: 1}, nil)
}

// NewWithConfig loads the configured materials document and builds a world.
func NewWithConfig(cfg Config, logger logging.Logger) (*World, error) {
	if logger == nil {
		logger = logging.NoOp{}
	}
	doc := material.Default()
	if cfg.MaterialsPath != "" {
		loaded, err := material.Load(cfg.MaterialsPath)
		if err != nil {
			return nil, err
		}
		doc = loaded
	}
	reg, settings, err := doc.Build(logger)
	if err != nil {
		return nil, errors.Wrap(err, "build materials")
	}
	w := NewWithRegistry(cfg, reg, settings, logger)
	logger.Infof("sand world %dx%d with %d materials", w.grid.W, w.grid.H, reg.Len())
	return w, nil
}

// NewWithRegistry builds a world over an already loaded registry. The
// registry is only read, so several worlds may share one.
func NewWithRegistry(cfg Config, reg *material.Registry, settings material.Settings, logger logging.Logger) *World {
	return newWorld(cfg, reg, cfg.Apply(settings), logger)
}

func newWorld(cfg Config, reg *material.Registry, settings material.Settings, logger logging.Logger) *World {
	if logger == nil {
		logger = logging.NoOp{}
	}
	grid := core.NewGrid(settings.Columns, settings.Rows)
	w := &World{
		cfg:      cfg,
		reg:      reg,
		settings: settings,
		grid:     grid,
		palette:  reg.Palette(settings.Background),
		logger:   logger,
		landed:   make([]uint32, len(grid.Cells())),
		brush:    core.Brush{Radius: settings.BrushRadius},
	}
	if first := reg.Materials(); len(first) > 0 {
		w.brush.Fill = core.Occupied(first[0].ID)
	}
	return w
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "sand" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.grid.W, H: w.grid.H} }

// Cells exposes the grid buffer; values index Palette.
func (w *World) Cells() []uint8 { return w.grid.Cells() }

// Grid exposes the cell buffer for direct inspection.
func (w *World) Grid() *core.Grid { return w.grid }

// Registry exposes the materials of this world.
func (w *World) Registry() *material.Registry { return w.reg }

// Settings returns the effective world settings.
func (w *World) Settings() material.Settings { return w.settings }

// Palette returns the colour table indexed by cell value.
func (w *World) Palette() []color.RGBA { return w.palette }

// Ticks returns the number of completed ticks.
func (w *World) Ticks() uint64 { return w.ticks }

// Stats returns the counters of the last completed tick.
func (w *World) Stats() TickStats { return w.stats }

// Landed reports whether cell index i received an occupant during the last tick.
func (w *World) Landed(i int) bool {
	return w.generation != 0 && i >= 0 && i < len(w.landed) && w.landed[i] == w.generation
}

// Reset clears the grid and, when Density is positive, scatters random
// materials using seed (0 selects the configured seed).
func (w *World) Reset(seed int64) {
	w.grid.Clear()
	w.nextGeneration()
	w.ticks = 0
	w.stats = TickStats{}
	if seed == 0 {
		seed = w.cfg.Seed
	}
	mats := w.reg.Materials()
	if w.cfg.Density <= 0 || len(mats) == 0 {
		return
	}
	r := rng.New(seed)
	cells := w.grid.Cells()
	for i := range cells {
		if r.Chance(w.cfg.Density) {
			cells[i] = uint8(core.Occupied(mats[r.IntN(len(mats))].ID))
		}
	}
}

// Step advances one tick. Invariant violations are fatal.
func (w *World) Step() {
	if err := w.Tick(); err != nil {
		w.logger.Errorf("%v", err)
		panic(err)
	}
}

// Tick advances the grid by one tick. Rows are scanned bottom to top and
// columns left to right; each occupied cell gets at most one movement, and a
// cell that received an occupant earlier in the tick does not act again.
func (w *World) Tick() error {
	w.nextGeneration()
	w.stats = TickStats{}
	g := w.grid
	cells := g.Cells()
	for row := g.H - 1; row >= 0; row-- {
		for col := 0; col < g.W; col++ {
			idx := row*g.W + col
			if cells[idx] == uint8(core.Empty) || w.landed[idx] == w.generation {
				continue
			}
			p := core.Position{Row: row, Column: col}
			cell := core.Cell(cells[idx])
			id, _ := cell.Material()
			m, ok := w.reg.Get(id)
			if !ok {
				return w.violation(p, material.StayPut(), errors.Wrapf(ErrUnknownMaterial, "id %d", id))
			}
			rule, _, ok := Match(m, g, p)
			if !ok {
				w.stats.Idle++
				continue
			}
			if err := w.apply(p, cell, rule.Movement); err != nil {
				return err
			}
		}
	}
	w.ticks++
	return nil
}

func (w *World) apply(p core.Position, cell core.Cell, mv material.Movement) error {
	g := w.grid
	switch mv.Kind {
	case material.Stay:
		w.stats.Stays++
		return nil
	case material.Move, material.Copy:
		target := p.Add(mv.Offset)
		if !g.IsEmpty(target) {
			w.stats.Blocked++
			return nil
		}
		g.Set(target, cell)
		w.mark(target)
		if mv.Kind == material.Move {
			g.Set(p, core.Empty)
			w.stats.Moves++
		} else {
			w.stats.Copies++
		}
	case material.Swap:
		target := p.Add(mv.Offset)
		if !g.InBounds(target) {
			w.stats.Blocked++
			return nil
		}
		g.Set(p, g.Get(target))
		g.Set(target, cell)
		w.mark(target)
		w.mark(p)
		w.stats.Swaps++
	default:
		return w.violation(p, mv, material.ErrUnknownMovement)
	}
	return nil
}

func (w *World) mark(p core.Position) {
	w.landed[w.grid.Index(p)] = w.generation
}

func (w *World) nextGeneration() {
	w.generation++
	if w.generation == 0 {
		for i := range w.landed {
			w.landed[i] = 0
		}
		w.generation = 1
	}
}

func (w *World) violation(p core.Position, mv material.Movement, err error) error {
	return &InvariantError{Tick: w.ticks, Pos: p, Movement: mv, Err: err}
}

func init() {
	core.Register("sand", func(cfg map[string]string, logger logging.Logger) (core.Sim, error) {
		return NewWithConfig(FromMap(cfg), logger)
	})
}
