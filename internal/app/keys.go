package app

import (
	"strings"

	"falling-sand/internal/core"
)

// Action is a front-end command bound to a typed character.
type Action int

const (
	ActionNone Action = iota
	// ActionSelect means the character selected a material.
	ActionSelect
	ActionQuit
	ActionPause
	ActionStep
	ActionReset
	ActionReseed
	ActionClear
	ActionBrushDown
	ActionBrushUp
	ActionToggleActivity
	ActionToggleBrush
)

var shortcuts = map[string]Action{
	"q": ActionQuit,
	" ": ActionPause,
	"n": ActionStep,
	"r": ActionReset,
	"s": ActionReseed,
	"c": ActionClear,
	"[": ActionBrushDown,
	"]": ActionBrushUp,
	"a": ActionToggleActivity,
	"b": ActionToggleBrush,
}

// Dispatch resolves a typed character. Material key bindings win; only
// characters no material claims are looked up as shortcuts. painter may be
// nil for sims without brush input.
func Dispatch(r rune, painter core.Painter) Action {
	key := string(r)
	if painter != nil {
		if _, ok := painter.Select(key); ok {
			return ActionSelect
		}
	}
	return shortcuts[strings.ToLower(key)]
}
