//go:build ebiten

package app

import (
	"image/color"
	"time"

	"falling-sand/internal/core"
	"falling-sand/internal/logging"
	"falling-sand/internal/render"
	"falling-sand/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// hudWidth is the width of the parameter panel in pixels.
const hudWidth = 240

// ticker is implemented by sims that report invariant violations instead of
// panicking.
type ticker interface {
	Tick() error
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	logger  logging.Logger

	palette []color.RGBA

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
	chars    []rune
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, scale int, seed int64, logger logging.Logger) *Game {
	if logger == nil {
		logger = logging.NoOp{}
	}
	if scale <= 0 {
		scale = 1
	}
	gp := render.NewGridPainter(sim.Size().W, sim.Size().H)
	g := &Game{
		sim:     sim,
		painter: gp,
		overlay: ui.NewOverlay(sim, scale),
		hud:     ui.NewHUD(sim, hudWidth),
		logger:  logger,
		palette: []color.RGBA{{A: 255}, {R: 255, G: 255, B: 255, A: 255}},
		scale:   scale,
		seed:    seed,
	}
	if provider, ok := sim.(core.PaletteProvider); ok {
		g.palette = provider.Palette()
	}
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update applies pending input, then advances the simulation by one tick.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}

	g.chars = ebiten.AppendInputChars(g.chars[:0])
	for _, r := range g.chars {
		switch Dispatch(r, g.painter()) {
		case ActionQuit:
			return ebiten.Termination
		case ActionPause:
			g.paused = !g.paused
		case ActionStep:
			g.tickOnce = true
		case ActionReset:
			g.Reset(g.seed)
		case ActionReseed:
			g.Reset(time.Now().UnixNano())
		case ActionClear:
			if painter := g.painter(); painter != nil {
				painter.Clear()
			}
		case ActionBrushDown:
			g.adjustBrush(-1)
		case ActionBrushUp:
			g.adjustBrush(1)
		case ActionToggleActivity:
			g.overlay.ToggleActivity()
		case ActionToggleBrush:
			g.overlay.ToggleBrush()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) || inpututil.IsKeyJustPressed(ebiten.KeyDelete) {
		if painter, ok := g.sim.(core.Painter); ok {
			b := painter.Brush()
			b.Fill = core.Empty
			painter.SetBrush(b)
		}
	}

	size := g.sim.Size()
	overPanel := g.hud.Update(size.W * g.scale)
	if !overPanel {
		g.paint()
	}

	if !g.paused || g.tickOnce {
		g.tickOnce = false
		if t, ok := g.sim.(ticker); ok {
			if err := t.Tick(); err != nil {
				g.logger.Errorf("tick failed: %v", err)
				return err
			}
		} else {
			g.sim.Step()
		}
	}
	return nil
}

func (g *Game) painter() core.Painter {
	painter, _ := g.sim.(core.Painter)
	return painter
}

func (g *Game) adjustBrush(delta int) {
	painter, ok := g.sim.(core.Painter)
	if !ok {
		return
	}
	b := painter.Brush()
	b.Radius += delta
	painter.SetBrush(b)
}

// paint stamps the brush under the cursor. Left paints the selected fill,
// right or middle erases.
func (g *Game) paint() {
	painter, ok := g.sim.(core.Painter)
	if !ok {
		return
	}
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	erase := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) || ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if !left && !erase {
		return
	}
	mx, my := ebiten.CursorPosition()
	size := g.sim.Size()
	if mx < 0 || my < 0 || mx >= size.W*g.scale || my >= size.H*g.scale {
		return
	}
	center := core.Position{Row: my / g.scale, Column: mx / g.scale}
	b := painter.Brush()
	if erase {
		b.Fill = core.Empty
	}
	painter.Paint(center, b)
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.palette, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.sim.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hud.Width(), s.H * g.scale
}

// WindowSize returns the initial window size for the game.
func (g *Game) WindowSize() (int, int) {
	return g.Layout(0, 0)
}
