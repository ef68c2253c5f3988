package sand

import (
	"falling-sand/internal/core"
	"falling-sand/internal/material"
)

// Match returns the first rule of m whose conditions hold for the cell at p,
// along with its index. Offsets outside the grid satisfy neither IfEmpty nor
// IfOccupied. The grid is read as it currently is, including writes made
// earlier in the same tick.
func Match(m *material.Material, g *core.Grid, p core.Position) (*material.Rule, int, bool) {
	for i := range m.Rules {
		if holds(&m.Rules[i], g, p) {
			return &m.Rules[i], i, true
		}
	}
	return nil, -1, false
}

func holds(r *material.Rule, g *core.Grid, p core.Position) bool {
	for _, o := range r.IfEmpty {
		if !g.IsEmpty(p.Add(o)) {
			return false
		}
	}
	for _, o := range r.IfOccupied {
		if !g.IsOccupied(p.Add(o)) {
			return false
		}
	}
	return true
}
