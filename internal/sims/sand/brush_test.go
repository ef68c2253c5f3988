package sand

import (
	"testing"

	"falling-sand/internal/core"

	"github.com/pkg/errors"
)

func TestSpawnOnlyFillsEmptyCells(t *testing.T) {
	w := New(newRegistry(t, sandMaterial(), stoneMaterial()), 3, 3)
	p := core.Position{Row: 1, Column: 1}

	placed, err := w.Spawn(p, stoneID)
	if err != nil || !placed {
		t.Fatalf("spawn into empty cell: placed=%v err=%v", placed, err)
	}
	placed, err = w.Spawn(p, sandID)
	if err != nil || placed {
		t.Fatalf("spawn onto an occupant should be a no-op: placed=%v err=%v", placed, err)
	}
	if at(w, 1, 1) != core.Occupied(stoneID) {
		t.Fatal("existing occupant was overwritten")
	}
}

func TestSpawnAndEraseReportBadInput(t *testing.T) {
	w := New(newRegistry(t, sandMaterial()), 3, 3)
	if _, err := w.Spawn(core.Position{Row: 3}, sandID); errors.Cause(err) != core.ErrOutOfBounds {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	if _, err := w.Spawn(core.Position{}, 99); errors.Cause(err) != ErrUnknownMaterial {
		t.Fatalf("expected ErrUnknownMaterial, got %v", err)
	}
	if err := w.Erase(core.Position{Column: -1}); errors.Cause(err) != core.ErrOutOfBounds {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	if w.Grid().Count() != 0 {
		t.Fatal("rejected edits must not change the grid")
	}
}

func TestPaintClipsAndKeepsOccupants(t *testing.T) {
	w := New(newRegistry(t, sandMaterial(), stoneMaterial()), 4, 4)
	put(t, w, 0, 1, stoneID)

	w.Paint(core.Position{Row: 0, Column: 0}, core.Brush{Radius: 1, Fill: core.Occupied(sandID)})

	want := map[core.Position]core.Cell{
		{Row: 0, Column: 0}: core.Occupied(sandID),
		{Row: 0, Column: 1}: core.Occupied(stoneID),
		{Row: 1, Column: 0}: core.Occupied(sandID),
		{Row: 1, Column: 1}: core.Occupied(sandID),
	}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			p := core.Position{Row: row, Column: col}
			if got := w.Grid().Get(p); got != want[p] {
				t.Fatalf("cell %s = %d, want %d", p, got, want[p])
			}
		}
	}
}

func TestPaintWithEraserClearsEverything(t *testing.T) {
	w := New(newRegistry(t, sandMaterial(), stoneMaterial()), 5, 5)
	w.Paint(core.Position{Row: 2, Column: 2}, core.Brush{Radius: 2, Fill: core.Occupied(stoneID)})
	if w.Grid().Count() != 25 {
		t.Fatalf("radius 2 brush should cover the 5x5 grid, got %d", w.Grid().Count())
	}
	w.Paint(core.Position{Row: 4, Column: 4}, core.Brush{Radius: 1, Fill: core.Empty})
	if w.Grid().Count() != 21 {
		t.Fatalf("eraser should clear the clipped 2x2 corner, %d left", w.Grid().Count())
	}
	w.Clear()
	if w.Grid().Count() != 0 {
		t.Fatal("clear should empty the grid")
	}
}

func TestPaintIgnoresUnknownMaterial(t *testing.T) {
	w := New(newRegistry(t, sandMaterial()), 3, 3)
	w.Paint(core.Position{Row: 1, Column: 1}, core.Brush{Radius: 1, Fill: core.Occupied(42)})
	if w.Grid().Count() != 0 {
		t.Fatal("unknown materials must never reach the grid")
	}
}

func TestSelectUpdatesBrush(t *testing.T) {
	w := New(newRegistry(t, sandMaterial(), stoneMaterial()), 3, 3)
	if w.Brush().Fill != core.Occupied(sandID) {
		t.Fatal("brush should start with the first registered material")
	}
	id, ok := w.Select("T")
	if !ok || id != stoneID {
		t.Fatalf("Select(T) = %d,%v", id, ok)
	}
	if w.Brush().Fill != core.Occupied(stoneID) {
		t.Fatal("selection should become the brush fill")
	}
	if _, ok := w.Select("?"); ok {
		t.Fatal("unbound key must not select anything")
	}
	if w.Brush().Fill != core.Occupied(stoneID) {
		t.Fatal("failed selection must keep the previous fill")
	}
	w.SetBrush(core.Brush{Radius: -3})
	if b := w.Brush(); b.Radius != 0 || !b.Fill.IsEmpty() {
		t.Fatalf("brush = %+v", b)
	}
	if w.CellName(core.Empty) != "Eraser" {
		t.Fatal("empty fill should be named Eraser")
	}
}

func TestParameterControls(t *testing.T) {
	w := New(newRegistry(t, sandMaterial()), 3, 3)
	if !w.SetIntParameter("brush", 100) || w.Brush().Radius != maxBrushRadius {
		t.Fatalf("brush radius should clamp to %d, got %d", maxBrushRadius, w.Brush().Radius)
	}
	if w.SetIntParameter("nope", 1) {
		t.Fatal("unknown keys are rejected")
	}
	if !w.SetFloatParameter("density", 2) || w.cfg.Density != 1 {
		t.Fatalf("density should clamp to 1, got %f", w.cfg.Density)
	}
	snap := w.Parameters()
	if p, ok := snap.Lookup("brush"); !ok || p.Value != "16" {
		t.Fatalf("snapshot brush = %+v", p)
	}
	if p, ok := snap.Lookup("fill"); !ok || p.Value != "Sand" {
		t.Fatalf("snapshot fill = %+v", p)
	}
	if _, ok := snap.Lookup("material_0"); !ok {
		t.Fatal("materials should be listed")
	}
}
