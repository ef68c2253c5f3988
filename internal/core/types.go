package core

import (
	"image/color"

	"falling-sand/internal/logging"

	"github.com/pkg/errors"
)

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim defines the minimal contract a cellular automaton must implement.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Cells() []uint8
}

// PaletteProvider is implemented by sims whose cell values index a colour table.
type PaletteProvider interface {
	Palette() []color.RGBA
}

// Brush is the square stamp used to spawn or erase cells. A Fill of Empty
// erases.
type Brush struct {
	Radius int
	Fill   Cell
}

// Painter is implemented by sims that accept brush input between ticks.
type Painter interface {
	Brush() Brush
	SetBrush(b Brush)
	Paint(center Position, b Brush)
	Select(key string) (MaterialID, bool)
	CellName(c Cell) string
	Clear()
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string, logger logging.Logger) (Sim, error)

// ErrUnknownSim is returned by New for names that were never registered.
var ErrUnknownSim = errors.New("unknown sim")

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// New looks up the named factory and builds a Sim from cfg.
func New(name string, cfg map[string]string, logger logging.Logger) (Sim, error) {
	factory, ok := sims[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownSim, "%q", name)
	}
	if logger == nil {
		logger = logging.NoOp{}
	}
	sim, err := factory(cfg, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "build sim %q", name)
	}
	return sim, nil
}
