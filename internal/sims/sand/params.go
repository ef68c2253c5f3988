package sand

import (
	"strconv"

	"falling-sand/internal/core"
)

const maxBrushRadius = 16

// Parameters reports world, brush, material and last-tick values for the HUD.
func (w *World) Parameters() core.ParameterSnapshot {
	materials := make([]core.Parameter, 0, w.reg.Len())
	for _, m := range w.reg.Materials() {
		label := m.Name
		if m.Key != "" {
			label = "[" + m.Key + "] " + m.Name
		}
		materials = append(materials, core.Parameter{
			Key:   "material_" + strconv.Itoa(int(m.ID)),
			Label: label,
			Type:  core.ParamTypeString,
			Value: m.Color.String(),
		})
	}
	stats := w.stats
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.grid.W),
				intParam("h", "Height", w.grid.H),
				intParam("tick", "Tick", int(w.ticks)),
				intParam("occupied", "Occupied", w.grid.Count()),
				floatParam("density", "Reset density", w.cfg.Density),
			},
		},
		{
			Name: "Brush",
			Params: []core.Parameter{
				intParam("brush", "Brush radius", w.brush.Radius),
				{Key: "fill", Label: "Fill", Type: core.ParamTypeString, Value: w.CellName(w.brush.Fill)},
			},
		},
		{Name: "Materials", Params: materials},
		{
			Name: "Last tick",
			Params: []core.Parameter{
				intParam("moves", "Moves", stats.Moves),
				intParam("copies", "Copies", stats.Copies),
				intParam("swaps", "Swaps", stats.Swaps),
				intParam("stays", "Stays", stats.Stays),
				intParam("idle", "Idle", stats.Idle),
				intParam("blocked", "Blocked", stats.Blocked),
			},
		},
	}}
}

// ParameterControls lists the HUD-adjustable values.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "brush", Label: "Brush radius", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: maxBrushRadius, HasMin: true, HasMax: true},
		{Key: "density", Label: "Reset density", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
	}
}

// SetIntParameter updates integer controls.
func (w *World) SetIntParameter(key string, value int) bool {
	switch key {
	case "brush":
		w.brush.Radius = min(max(value, 0), maxBrushRadius)
		return true
	}
	return false
}

// SetFloatParameter updates floating point controls. Density applies on the
// next Reset.
func (w *World) SetFloatParameter(key string, value float64) bool {
	switch key {
	case "density":
		w.cfg.Density = min(max(value, 0), 1)
		return true
	}
	return false
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
