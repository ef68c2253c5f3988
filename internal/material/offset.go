package material

import (
	"bytes"
	"encoding/json"

	"falling-sand/internal/core"

	"github.com/pkg/errors"
)

// ErrBadOffset is returned for offsets missing a coordinate or carrying
// unexpected fields.
var ErrBadOffset = errors.New("malformed offset")

func decodeOffset(raw json.RawMessage) (core.Offset, error) {
	var wire struct {
		Row    *int `json:"row"`
		Column *int `json:"column"`
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&wire); err != nil {
		return core.Offset{}, errors.Wrap(ErrBadOffset, err.Error())
	}
	if wire.Row == nil || wire.Column == nil {
		return core.Offset{}, errors.Wrap(ErrBadOffset, "row and column are required")
	}
	return core.Offset{Row: *wire.Row, Column: *wire.Column}, nil
}

func decodeOffsets(raws []json.RawMessage) ([]core.Offset, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	out := make([]core.Offset, 0, len(raws))
	for i, raw := range raws {
		off, err := decodeOffset(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "offset %d", i)
		}
		out = append(out, off)
	}
	return out, nil
}
