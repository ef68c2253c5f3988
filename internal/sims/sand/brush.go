package sand

import (
	"falling-sand/internal/core"

	"github.com/pkg/errors"
)

// Edits below must only run between ticks.

// Spawn places material id at p if the cell is empty. An occupied cell is
// left alone and reported as not placed.
func (w *World) Spawn(p core.Position, id core.MaterialID) (bool, error) {
	if !w.grid.InBounds(p) {
		return false, errors.Wrapf(core.ErrOutOfBounds, "spawn at %s", p)
	}
	if _, ok := w.reg.Get(id); !ok {
		return false, errors.Wrapf(ErrUnknownMaterial, "spawn id %d", id)
	}
	if !w.grid.Get(p).IsEmpty() {
		return false, nil
	}
	w.grid.Set(p, core.Occupied(id))
	return true, nil
}

// Erase empties the cell at p.
func (w *World) Erase(p core.Position) error {
	if !w.grid.InBounds(p) {
		return errors.Wrapf(core.ErrOutOfBounds, "erase at %s", p)
	}
	w.grid.Set(p, core.Empty)
	return nil
}

// Paint stamps a square of side 2*radius+1 centred on center, clipped to the
// grid. A material fill only lands on empty cells; an empty fill erases
// everything under the brush. Fills naming unknown materials are ignored.
func (w *World) Paint(center core.Position, b core.Brush) {
	id, isMaterial := b.Fill.Material()
	if isMaterial {
		if _, ok := w.reg.Get(id); !ok {
			w.logger.Debugf("paint ignored: %v", errors.Wrapf(ErrUnknownMaterial, "id %d", id))
			return
		}
	}
	r := max(b.Radius, 0)
	rowFrom, rowTo := max(center.Row-r, 0), min(center.Row+r, w.grid.H-1)
	colFrom, colTo := max(center.Column-r, 0), min(center.Column+r, w.grid.W-1)
	for row := rowFrom; row <= rowTo; row++ {
		for col := colFrom; col <= colTo; col++ {
			p := core.Position{Row: row, Column: col}
			if !isMaterial {
				w.grid.Set(p, core.Empty)
				continue
			}
			if w.grid.Get(p).IsEmpty() {
				w.grid.Set(p, b.Fill)
			}
		}
	}
}

// Select resolves a key binding and makes that material the brush fill.
func (w *World) Select(key string) (core.MaterialID, bool) {
	id, ok := w.reg.ByKey(key)
	if ok {
		w.brush.Fill = core.Occupied(id)
	}
	return id, ok
}

// Brush returns the current brush.
func (w *World) Brush() core.Brush { return w.brush }

// SetBrush replaces the current brush.
func (w *World) SetBrush(b core.Brush) {
	if b.Radius < 0 {
		b.Radius = 0
	}
	if b.Radius > maxBrushRadius {
		b.Radius = maxBrushRadius
	}
	w.brush = b
}

// CellName returns the display name of a cell's occupant.
func (w *World) CellName(c core.Cell) string { return w.reg.Name(c) }

// Clear empties the whole grid.
func (w *World) Clear() {
	w.grid.Clear()
	w.nextGeneration()
}
