//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"falling-sand/internal/core"
	"falling-sand/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
)

type landedProvider interface {
	Landed(i int) bool
}

// Overlay draws optional debugging visuals on top of the base simulation.
type Overlay struct {
	sim        core.Sim
	scale      int
	showActive bool
	showCursor bool
	maskImg    *ebiten.Image
	maskBuf    []byte
	pixel      *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale, showCursor: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// ToggleActivity shows or hides the cells that received an occupant in the
// last tick.
func (o *Overlay) ToggleActivity() { o.showActive = !o.showActive }

// ToggleBrush shows or hides the brush outline under the cursor.
func (o *Overlay) ToggleBrush() { o.showCursor = !o.showCursor }

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	if o.showActive {
		if provider, ok := o.sim.(landedProvider); ok {
			o.drawActive(screen, provider, size)
		}
	}
	if o.showCursor {
		if painter, ok := o.sim.(core.Painter); ok {
			o.drawBrush(screen, painter.Brush(), size)
		}
	}
}

func (o *Overlay) drawActive(screen *ebiten.Image, provider landedProvider, size core.Size) {
	total := size.W * size.H
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != size.W || o.maskImg.Bounds().Dy() != size.H {
		o.maskImg = ebiten.NewImage(size.W, size.H)
		o.maskBuf = make([]byte, 4*total)
	}
	render.FillMaskRGBA(o.maskBuf, total, provider.Landed, color.RGBA{R: 255, G: 120, B: 40, A: 140})
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.cellScale()), float64(o.cellScale()))
	screen.DrawImage(o.maskImg, op)
}

// drawBrush outlines the square the brush would cover under the cursor.
func (o *Overlay) drawBrush(screen *ebiten.Image, b core.Brush, size core.Size) {
	scale := o.cellScale()
	mx, my := ebiten.CursorPosition()
	col, row := mx/scale, my/scale
	if col < 0 || row < 0 || col >= size.W || row >= size.H {
		return
	}
	x0 := float64((col - b.Radius) * scale)
	y0 := float64((row - b.Radius) * scale)
	span := float64((2*b.Radius + 1) * scale)
	tint := color.RGBA{R: 40, G: 40, B: 48, A: 200}
	o.drawLine(screen, x0, y0, x0+span, y0, 1, tint)
	o.drawLine(screen, x0, y0+span, x0+span, y0+span, 1, tint)
	o.drawLine(screen, x0, y0, x0, y0+span, 1, tint)
	o.drawLine(screen, x0+span, y0, x0+span, y0+span, 1, tint)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) cellScale() int {
	if o.scale <= 0 {
		return 1
	}
	return o.scale
}
