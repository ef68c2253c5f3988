package core

import (
	"crypto/md5"
	"fmt"

	"github.com/pkg/errors"
)

// MaxMaterialID is the largest id a Cell can hold.
const MaxMaterialID = 254

// MaterialID identifies a material kind.
type MaterialID uint8

// Cell holds an optional material occupant. The zero value is the empty cell;
// an occupied cell stores id+1 so cell values double as palette indices.
type Cell uint8

// Empty is the unoccupied cell.
const Empty Cell = 0

// Occupied returns the cell holding the given material.
func Occupied(id MaterialID) Cell { return Cell(id) + 1 }

// Material reports the occupant, if any.
func (c Cell) Material() (MaterialID, bool) {
	if c == Empty {
		return 0, false
	}
	return MaterialID(c - 1), true
}

// IsEmpty reports whether the cell has no occupant.
func (c Cell) IsEmpty() bool { return c == Empty }

// Offset is a displacement relative to an acting cell. Row grows downward,
// Column grows rightward.
type Offset struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Position addresses a cell; row 0 is the top row.
type Position struct {
	Row    int
	Column int
}

// Add resolves an offset relative to p.
func (p Position) Add(o Offset) Position {
	return Position{Row: p.Row + o.Row, Column: p.Column + o.Column}
}

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Column) }

// ErrOutOfBounds marks accesses outside the grid.
var ErrOutOfBounds = errors.New("position out of bounds")

// Grid stores a fixed-size 2D buffer of cells in row-major order.
type Grid struct {
	W, H int
	data []uint8
}

// NewGrid allocates a grid with the given dimensions.
func NewGrid(w, h int) *Grid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Grid{W: w, H: h, data: make([]uint8, w*h)}
}

// Dimensions returns the width and height.
func (g *Grid) Dimensions() (int, int) { return g.W, g.H }

// Cells exposes the backing slice; values are Cell encodings.
func (g *Grid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for p.
func (g *Grid) Index(p Position) int { return p.Row*g.W + p.Column }

// InBounds reports whether p addresses a cell of the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.H && p.Column >= 0 && p.Column < g.W
}

// Get returns the cell at p. It panics when p is outside the grid; callers
// translating user input must check InBounds first.
func (g *Grid) Get(p Position) Cell {
	if !g.InBounds(p) {
		panic(errors.Wrapf(ErrOutOfBounds, "get %s on %dx%d grid", p, g.W, g.H))
	}
	return Cell(g.data[g.Index(p)])
}

// Set stores c at p. It panics when p is outside the grid.
func (g *Grid) Set(p Position, c Cell) {
	if !g.InBounds(p) {
		panic(errors.Wrapf(ErrOutOfBounds, "set %s on %dx%d grid", p, g.W, g.H))
	}
	g.data[g.Index(p)] = uint8(c)
}

// IsEmpty reports whether p is in bounds and unoccupied.
func (g *Grid) IsEmpty(p Position) bool {
	return g.InBounds(p) && g.data[g.Index(p)] == uint8(Empty)
}

// IsOccupied reports whether p is in bounds and holds an occupant.
func (g *Grid) IsOccupied(p Position) bool {
	return g.InBounds(p) && g.data[g.Index(p)] != uint8(Empty)
}

// Clear empties every cell.
func (g *Grid) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}

// Count returns the number of occupied cells.
func (g *Grid) Count() int {
	n := 0
	for _, c := range g.data {
		if c != 0 {
			n++
		}
	}
	return n
}

// Hash returns a digest of the grid contents.
func (g *Grid) Hash() string {
	h := md5.New()
	h.Write(g.data)
	return fmt.Sprintf("%x", h.Sum(nil))
}
