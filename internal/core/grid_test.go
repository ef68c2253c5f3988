package core

import (
	"testing"

	"github.com/pkg/errors"
)

func TestCellEncoding(t *testing.T) {
	if !Empty.IsEmpty() {
		t.Fatal("zero cell must be empty")
	}
	c := Occupied(0)
	id, ok := c.Material()
	if !ok || id != 0 {
		t.Fatalf("Occupied(0) decoded to (%d,%v)", id, ok)
	}
	c = Occupied(MaxMaterialID)
	if id, _ := c.Material(); id != MaxMaterialID {
		t.Fatalf("max id round trip gave %d", id)
	}
}

func TestGridBounds(t *testing.T) {
	g := NewGrid(3, 2)
	if w, h := g.Dimensions(); w != 3 || h != 2 {
		t.Fatalf("dimensions = %dx%d", w, h)
	}
	for _, p := range []Position{{-1, 0}, {0, -1}, {2, 0}, {0, 3}} {
		if g.InBounds(p) {
			t.Fatalf("%s should be out of bounds", p)
		}
		if g.IsEmpty(p) || g.IsOccupied(p) {
			t.Fatalf("%s outside the grid must be neither empty nor occupied", p)
		}
	}

	g.Set(Position{Row: 1, Column: 2}, Occupied(4))
	if got := g.Get(Position{Row: 1, Column: 2}); got != Occupied(4) {
		t.Fatalf("got %d after set", got)
	}
	if g.Cells()[5] != uint8(Occupied(4)) {
		t.Fatal("storage must be row-major")
	}
	if g.Count() != 1 {
		t.Fatalf("count = %d", g.Count())
	}
	g.Clear()
	if g.Count() != 0 {
		t.Fatal("clear left occupants behind")
	}
}

func TestGridSetOutOfBoundsPanics(t *testing.T) {
	g := NewGrid(2, 2)
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("expected ErrOutOfBounds panic, got %v", r)
		}
	}()
	g.Set(Position{Row: 2, Column: 0}, Occupied(1))
}

func TestGridHashTracksContents(t *testing.T) {
	a := NewGrid(4, 4)
	b := NewGrid(4, 4)
	if a.Hash() != b.Hash() {
		t.Fatal("identical grids must hash equally")
	}
	b.Set(Position{Row: 3, Column: 3}, Occupied(0))
	if a.Hash() == b.Hash() {
		t.Fatal("different grids should hash differently")
	}
}

func TestNewUnknownSim(t *testing.T) {
	if _, err := New("definitely-not-registered", nil, nil); errors.Cause(err) != ErrUnknownSim {
		t.Fatalf("expected ErrUnknownSim, got %v", err)
	}
}
