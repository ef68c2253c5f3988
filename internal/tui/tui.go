// Package tui runs a simulation in a terminal through tcell. Each grid cell
// is drawn as two terminal columns so cells look roughly square.
package tui

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	"falling-sand/internal/app"
	"falling-sand/internal/core"
	"falling-sand/internal/logging"

	"github.com/gdamore/tcell/v2"
)

// cellWidth is the number of terminal columns per grid cell.
const cellWidth = 2

// frameInterval paces redraws independently of the tick rate.
const frameInterval = 16 * time.Millisecond

type ticker interface {
	Tick() error
}

type tickCounter interface {
	Ticks() uint64
}

// App drives a simulation on a tcell screen.
type App struct {
	screen  tcell.Screen
	sim     core.Sim
	painter core.Painter
	palette []color.RGBA
	logger  logging.Logger
	pacer   *core.FixedStep

	seed     int64
	paused   bool
	tickOnce bool
	status   string
}

// New wires sim to screen. The screen must already be initialised.
func New(screen tcell.Screen, sim core.Sim, tps int, seed int64, logger logging.Logger) *App {
	if logger == nil {
		logger = logging.NoOp{}
	}
	a := &App{
		screen:  screen,
		sim:     sim,
		logger:  logger,
		pacer:   core.NewFixedStep(tps),
		seed:    seed,
		palette: []color.RGBA{{A: 255}, {R: 255, G: 255, B: 255, A: 255}},
	}
	if p, ok := sim.(core.Painter); ok {
		a.painter = p
	}
	if p, ok := sim.(core.PaletteProvider); ok {
		a.palette = p.Palette()
	}
	screen.EnableMouse()
	return a
}

// Paused reports whether automatic ticking is suspended.
func (a *App) Paused() bool { return a.paused }

// Run polls input on a separate goroutine and advances the simulation at
// the configured rate until the user quits, ctx ends or a tick fails.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	frames := time.NewTicker(frameInterval)
	defer frames.Stop()
	a.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !a.HandleEvent(ev) {
				return nil
			}
		case <-frames.C:
			n := a.pacer.Due()
			if a.paused {
				n = 0
			}
			if a.tickOnce {
				n = max(n, 1)
				a.tickOnce = false
			}
			if err := a.Advance(n); err != nil {
				return err
			}
			a.Draw()
		}
	}
}

// Advance runs n ticks.
func (a *App) Advance(n int) error {
	for i := 0; i < n; i++ {
		if t, ok := a.sim.(ticker); ok {
			if err := t.Tick(); err != nil {
				a.logger.Errorf("tick failed: %v", err)
				return err
			}
			continue
		}
		a.sim.Step()
	}
	return nil
}

// HandleEvent applies one input event. It returns false when the user asked
// to quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		a.selectEraser()
		return true
	case tcell.KeyRune:
		return a.handleRune(ev.Rune())
	}
	return true
}

// handleRune offers r to material selection first; runes no material claims
// act as shortcuts.
func (a *App) handleRune(r rune) bool {
	switch app.Dispatch(r, a.painter) {
	case app.ActionSelect:
		a.status = "selected " + a.painter.CellName(a.painter.Brush().Fill)
	case app.ActionQuit:
		return false
	case app.ActionPause:
		a.paused = !a.paused
	case app.ActionStep:
		a.tickOnce = true
	case app.ActionReset:
		a.sim.Reset(a.seed)
		a.status = fmt.Sprintf("reset with seed %d", a.seed)
	case app.ActionReseed:
		a.seed = time.Now().UnixNano()
		a.sim.Reset(a.seed)
		a.status = fmt.Sprintf("reset with seed %d", a.seed)
	case app.ActionClear:
		if a.painter != nil {
			a.painter.Clear()
			a.status = "cleared"
		}
	case app.ActionBrushDown:
		a.adjustBrush(-1)
	case app.ActionBrushUp:
		a.adjustBrush(1)
	}
	return true
}

func (a *App) selectEraser() {
	if a.painter == nil {
		return
	}
	b := a.painter.Brush()
	b.Fill = core.Empty
	a.painter.SetBrush(b)
	a.status = "selected " + a.painter.CellName(core.Empty)
}

func (a *App) adjustBrush(delta int) {
	if a.painter == nil {
		return
	}
	b := a.painter.Brush()
	b.Radius += delta
	a.painter.SetBrush(b)
}

// handleMouse paints with the primary button and erases with the others.
func (a *App) handleMouse(ev *tcell.EventMouse) {
	if a.painter == nil {
		return
	}
	buttons := ev.Buttons()
	paint := buttons&tcell.Button1 != 0
	erase := buttons&(tcell.Button2|tcell.Button3) != 0
	if !paint && !erase {
		return
	}
	x, y := ev.Position()
	size := a.sim.Size()
	pos := core.Position{Row: y, Column: x / cellWidth}
	if x < 0 || pos.Row < 0 || pos.Row >= size.H || pos.Column >= size.W {
		return
	}
	b := a.painter.Brush()
	if erase {
		b.Fill = core.Empty
	}
	a.painter.Paint(pos, b)
}

// Draw renders the grid and a status line beneath it.
func (a *App) Draw() {
	a.screen.Clear()
	size := a.sim.Size()
	cells := a.sim.Cells()
	for row := 0; row < size.H; row++ {
		for col := 0; col < size.W; col++ {
			style := a.styleFor(cells[row*size.W+col])
			for dx := 0; dx < cellWidth; dx++ {
				a.screen.SetContent(col*cellWidth+dx, row, ' ', nil, style)
			}
		}
	}
	drawText(a.screen, 0, size.H, a.statusLine(), tcell.StyleDefault)
	a.screen.Show()
}

func (a *App) styleFor(c uint8) tcell.Style {
	if len(a.palette) == 0 {
		return tcell.StyleDefault
	}
	idx := int(c)
	if idx >= len(a.palette) {
		idx = len(a.palette) - 1
	}
	col := a.palette[idx]
	return tcell.StyleDefault.Background(tcell.NewRGBColor(int32(col.R), int32(col.G), int32(col.B)))
}

func (a *App) statusLine() string {
	var b strings.Builder
	if a.painter != nil {
		brush := a.painter.Brush()
		fmt.Fprintf(&b, "%s r=%d", a.painter.CellName(brush.Fill), brush.Radius)
	}
	if tc, ok := a.sim.(tickCounter); ok {
		fmt.Fprintf(&b, " tick=%d", tc.Ticks())
	}
	if a.paused {
		b.WriteString(" [paused]")
	}
	if a.status != "" {
		b.WriteString(" | " + a.status)
	}
	b.WriteString(" | space pause, n step, r reset, c clear, [ ] brush, esc quit")
	return strings.TrimSpace(b.String())
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}
