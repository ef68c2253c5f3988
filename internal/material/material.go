// Package material defines materials as ordered lists of guarded movement
// rules, the registry they are loaded into, and the JSON document they are
// read from.
package material

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"falling-sand/internal/core"

	"github.com/pkg/errors"
	"github.com/zyedidia/generic/mapset"
)

// Color is an opaque RGB colour.
type Color struct {
	R, G, B uint8
}

// ErrBadColor is returned for colour strings that are not six hex digits.
var ErrBadColor = errors.New("colour must be six hex digits")

// ParseColor reads "RRGGBB" with an optional leading '#'.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, errors.Wrapf(ErrBadColor, "%q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, errors.Wrapf(ErrBadColor, "%q", s)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func (c Color) String() string { return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B) }

// RGBA converts to an opaque color.RGBA.
func (c Color) RGBA() color.RGBA { return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255} }

// MarshalJSON writes the hex form.
func (c Color) MarshalJSON() ([]byte, error) { return json.Marshal(c.String()) }

// UnmarshalJSON reads the hex form.
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(ErrBadColor, "expected a string")
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MovementKind tags the Movement variants.
type MovementKind uint8

const (
	// Stay matches without changing the grid.
	Stay MovementKind = iota
	// Move relocates the occupant to the target; the source becomes empty.
	Move
	// Copy duplicates the occupant into the target; the source is unchanged.
	Copy
	// Swap exchanges the occupants of source and target.
	Swap
)

var kindNames = [...]string{Stay: "Stay", Move: "Move", Copy: "Copy", Swap: "Swap"}

func (k MovementKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "MovementKind(" + strconv.Itoa(int(k)) + ")"
}

// ErrUnknownMovement is returned for movement tags outside Stay/Move/Copy/Swap.
var ErrUnknownMovement = errors.New("unknown movement")

// Movement is what a matching rule does to its acting cell.
type Movement struct {
	Kind   MovementKind
	Offset core.Offset
}

// StayPut returns the Stay movement.
func StayPut() Movement { return Movement{Kind: Stay} }

// MoveBy returns a Move towards o.
func MoveBy(row, column int) Movement {
	return Movement{Kind: Move, Offset: core.Offset{Row: row, Column: column}}
}

// CopyTo returns a Copy into o.
func CopyTo(row, column int) Movement {
	return Movement{Kind: Copy, Offset: core.Offset{Row: row, Column: column}}
}

// SwapWith returns a Swap with o.
func SwapWith(row, column int) Movement {
	return Movement{Kind: Swap, Offset: core.Offset{Row: row, Column: column}}
}

// Target returns the offset the movement writes to. Stay has none.
func (m Movement) Target() (core.Offset, bool) {
	if m.Kind == Stay {
		return core.Offset{}, false
	}
	return m.Offset, true
}

func (m Movement) String() string {
	if m.Kind == Stay {
		return "Stay"
	}
	return fmt.Sprintf("%s(%d,%d)", m.Kind, m.Offset.Row, m.Offset.Column)
}

// MarshalJSON writes the externally tagged form: "Stay" or {"Move":{...}}.
func (m Movement) MarshalJSON() ([]byte, error) {
	if m.Kind == Stay {
		return json.Marshal("Stay")
	}
	return json.Marshal(map[string]core.Offset{m.Kind.String(): m.Offset})
}

// UnmarshalJSON reads the externally tagged form.
func (m *Movement) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		if tag != "Stay" {
			return errors.Wrapf(ErrUnknownMovement, "%q", tag)
		}
		*m = StayPut()
		return nil
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return errors.Wrap(ErrUnknownMovement, "expected a string or a single-key object")
	}
	if len(tagged) != 1 {
		return errors.Wrapf(ErrUnknownMovement, "expected exactly one tag, got %d", len(tagged))
	}
	for name, raw := range tagged {
		var kind MovementKind
		switch name {
		case "Move":
			kind = Move
		case "Copy":
			kind = Copy
		case "Swap":
			kind = Swap
		default:
			return errors.Wrapf(ErrUnknownMovement, "%q", name)
		}
		off, err := decodeOffset(raw)
		if err != nil {
			return errors.Wrapf(err, "%s offset", name)
		}
		*m = Movement{Kind: kind, Offset: off}
	}
	return nil
}

// Rule guards a movement with neighbour conditions. Offsets in IfEmpty must
// resolve to in-bounds empty cells, offsets in IfOccupied to in-bounds
// occupied cells.
type Rule struct {
	Movement   Movement      `json:"movement"`
	IfEmpty    []core.Offset `json:"if_empty"`
	IfOccupied []core.Offset `json:"if_occupied"`
}

// UnmarshalJSON decodes a rule record. Condition offsets get the same strict
// decoding as movement targets, and the movement is required.
func (r *Rule) UnmarshalJSON(data []byte) error {
	var wire struct {
		Movement   *Movement         `json:"movement"`
		IfEmpty    []json.RawMessage `json:"if_empty"`
		IfOccupied []json.RawMessage `json:"if_occupied"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&wire); err != nil {
		return errors.Wrap(err, "rule")
	}
	if wire.Movement == nil {
		return errors.Wrap(ErrUnknownMovement, "rule movement is required")
	}
	ifEmpty, err := decodeOffsets(wire.IfEmpty)
	if err != nil {
		return errors.Wrap(err, "if_empty")
	}
	ifOccupied, err := decodeOffsets(wire.IfOccupied)
	if err != nil {
		return errors.Wrap(err, "if_occupied")
	}
	*r = Rule{Movement: *wire.Movement, IfEmpty: ifEmpty, IfOccupied: ifOccupied}
	return nil
}

// Normalize de-duplicates the condition sets. Conditions are otherwise kept
// as written: a rule matches on its own conditions only.
func (r Rule) Normalize() Rule {
	return Rule{
		Movement:   r.Movement,
		IfEmpty:    dedupe(r.IfEmpty),
		IfOccupied: dedupe(r.IfOccupied),
	}
}

// Unguarded reports whether the rule can match while its movement target is
// unusable: a Move or Copy without an empty-target condition, or a Swap
// without an occupied-target condition. Such a rule still wins evaluation
// and then does nothing for that cell.
func (r Rule) Unguarded() bool {
	target, ok := r.Movement.Target()
	if !ok {
		return false
	}
	switch r.Movement.Kind {
	case Move, Copy:
		return !contains(r.IfEmpty, target)
	case Swap:
		return !contains(r.IfOccupied, target)
	}
	return false
}

// Contradictory reports whether an offset is required to be both empty and
// occupied, which makes the rule unsatisfiable.
func (r Rule) Contradictory() bool {
	empty := mapset.New[core.Offset]()
	for _, o := range r.IfEmpty {
		empty.Put(o)
	}
	for _, o := range r.IfOccupied {
		if empty.Has(o) {
			return true
		}
	}
	return false
}

func dedupe(offsets []core.Offset) []core.Offset {
	if len(offsets) == 0 {
		return nil
	}
	seen := mapset.New[core.Offset]()
	out := make([]core.Offset, 0, len(offsets))
	for _, o := range offsets {
		if seen.Has(o) {
			continue
		}
		seen.Put(o)
		out = append(out, o)
	}
	return out
}

func contains(offsets []core.Offset, o core.Offset) bool {
	for _, v := range offsets {
		if v == o {
			return true
		}
	}
	return false
}

// Material is a kind of cell occupant. Rules are a priority list: the first
// rule whose conditions hold decides the movement.
type Material struct {
	ID    core.MaterialID
	Name  string
	Color Color
	Key   string
	Rules []Rule
}
