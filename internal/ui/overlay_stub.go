//go:build !ebiten

package ui

import "falling-sand/internal/core"

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(core.Sim, int) *Overlay { return &Overlay{} }

// ToggleActivity is a no-op in headless builds.
func (o *Overlay) ToggleActivity() {}

// ToggleBrush is a no-op in headless builds.
func (o *Overlay) ToggleBrush() {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any) {}
