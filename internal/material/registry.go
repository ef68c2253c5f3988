package material

import (
	"image/color"
	"strings"

	"falling-sand/internal/core"

	"github.com/pkg/errors"
)

var (
	// ErrDuplicateID is returned when registering an id twice.
	ErrDuplicateID = errors.New("duplicate material id")
	// ErrDuplicateKey is returned when two materials share a key binding.
	ErrDuplicateKey = errors.New("duplicate material key")
	// ErrInvalidID is returned for ids a cell cannot hold.
	ErrInvalidID = errors.New("material id out of range")
)

// EraserName is reported for the empty cell.
const EraserName = "Eraser"

// Registry holds the materials of a run. It is filled at load time and only
// read once simulation starts.
type Registry struct {
	byID  [core.MaxMaterialID + 1]*Material
	order []*Material
	byKey map[string]core.MaterialID
	maxID core.MaterialID
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKey: map[string]core.MaterialID{}}
}

// Register stores m after normalizing its rules.
func (r *Registry) Register(m Material) error {
	if int(m.ID) > core.MaxMaterialID {
		return errors.Wrapf(ErrInvalidID, "%d", m.ID)
	}
	if r.byID[m.ID] != nil {
		return errors.Wrapf(ErrDuplicateID, "%d", m.ID)
	}
	key := normalizeKey(m.Key)
	if key != "" {
		if other, ok := r.byKey[key]; ok {
			return errors.Wrapf(ErrDuplicateKey, "%q bound to materials %d and %d", m.Key, other, m.ID)
		}
	}

	stored := m
	stored.Key = key
	stored.Rules = make([]Rule, len(m.Rules))
	for i, rule := range m.Rules {
		stored.Rules[i] = rule.Normalize()
	}

	r.byID[m.ID] = &stored
	r.order = append(r.order, &stored)
	if key != "" {
		r.byKey[key] = m.ID
	}
	if len(r.order) == 1 || m.ID > r.maxID {
		r.maxID = m.ID
	}
	return nil
}

// Get looks up a material by id.
func (r *Registry) Get(id core.MaterialID) (*Material, bool) {
	m := r.byID[id]
	return m, m != nil
}

// ByKey resolves a key binding to a material id. Keys are case-insensitive.
func (r *Registry) ByKey(key string) (core.MaterialID, bool) {
	id, ok := r.byKey[normalizeKey(key)]
	return id, ok
}

// Materials lists materials in registration order.
func (r *Registry) Materials() []*Material { return r.order }

// Len returns the number of registered materials.
func (r *Registry) Len() int { return len(r.order) }

// Name returns the display name of a cell's occupant.
func (r *Registry) Name(c core.Cell) string {
	id, ok := c.Material()
	if !ok {
		return EraserName
	}
	if m, ok := r.Get(id); ok {
		return m.Name
	}
	return "?"
}

// Palette returns colours indexed by cell value: entry 0 is the background,
// entry id+1 the colour of material id.
func (r *Registry) Palette(background Color) []color.RGBA {
	size := 1
	if len(r.order) > 0 {
		size = int(r.maxID) + 2
	}
	palette := make([]color.RGBA, size)
	for i := range palette {
		palette[i] = background.RGBA()
	}
	for _, m := range r.order {
		palette[core.Occupied(m.ID)] = m.Color.RGBA()
	}
	return palette
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
