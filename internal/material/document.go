package material

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"falling-sand/internal/core"
	"falling-sand/internal/logging"

	"github.com/pkg/errors"
	"github.com/zyedidia/generic/mapset"
)

//go:embed default_materials.json
var defaultDocument []byte

// ValidationError collects every problem found in a document.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	switch len(e.Issues) {
	case 0:
		return "invalid materials document"
	case 1:
		return e.Issues[0]
	default:
		return "materials document errors: " + strings.Join(e.Issues, "; ")
	}
}

// Addf records an issue.
func (e *ValidationError) Addf(format string, v ...any) {
	e.Issues = append(e.Issues, fmt.Sprintf(format, v...))
}

// HasIssues reports whether anything was recorded.
func (e *ValidationError) HasIssues() bool { return len(e.Issues) > 0 }

// Document is the on-disk form of a materials file.
type Document struct {
	Background   string           `json:"background"`
	ViewWidthPx  int              `json:"view_width_px"`
	ViewHeightPx int              `json:"view_height_px"`
	GridRows     int              `json:"grid_rows"`
	GridColumns  int              `json:"grid_columns"`
	BrushRadius  int              `json:"brush_radius"`
	Materials    []MaterialConfig `json:"materials"`
}

// MaterialConfig is one material record.
type MaterialConfig struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Key   string `json:"key"`
	Rules []Rule `json:"rules"`
}

// Settings are the world parameters carried by a document.
type Settings struct {
	Background  Color
	ViewWidth   int
	ViewHeight  int
	Rows        int
	Columns     int
	BrushRadius int
}

// Decode parses a document. Unknown fields are rejected.
func Decode(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode materials document")
	}
	return &doc, nil
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open materials file %s", path)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return doc, nil
}

// Default returns the document compiled into the binary.
func Default() *Document {
	doc, err := Decode(bytes.NewReader(defaultDocument))
	if err != nil {
		panic(errors.Wrap(err, "embedded materials document"))
	}
	return doc
}

// Build validates the document and produces its registry and settings. All
// problems are reported together in a *ValidationError.
func (d *Document) Build(logger logging.Logger) (*Registry, Settings, error) {
	if logger == nil {
		logger = logging.NoOp{}
	}
	verr := &ValidationError{}

	settings := Settings{
		ViewWidth:   d.ViewWidthPx,
		ViewHeight:  d.ViewHeightPx,
		Rows:        d.GridRows,
		Columns:     d.GridColumns,
		BrushRadius: d.BrushRadius,
	}
	if d.Background != "" {
		bg, err := ParseColor(d.Background)
		if err != nil {
			verr.Addf("background: %v", err)
		}
		settings.Background = bg
	}
	if d.GridRows <= 0 || d.GridColumns <= 0 {
		verr.Addf("grid must have positive size, got %d rows x %d columns", d.GridRows, d.GridColumns)
	}
	if d.BrushRadius < 0 {
		verr.Addf("brush_radius must not be negative, got %d", d.BrushRadius)
	}

	registry := NewRegistry()
	ids := mapset.New[int]()
	keys := mapset.New[string]()
	for i, mc := range d.Materials {
		where := fmt.Sprintf("materials[%d]", i)
		if mc.Name != "" {
			where += " (" + mc.Name + ")"
		}
		ok := true
		if mc.ID < 0 || mc.ID > core.MaxMaterialID {
			verr.Addf("%s: id %d outside 0..%d", where, mc.ID, core.MaxMaterialID)
			ok = false
		} else if ids.Has(mc.ID) {
			verr.Addf("%s: duplicate id %d", where, mc.ID)
			ok = false
		}
		ids.Put(mc.ID)
		if strings.TrimSpace(mc.Name) == "" {
			verr.Addf("%s: name is required", where)
		}
		col, err := ParseColor(mc.Color)
		if err != nil {
			verr.Addf("%s: %v", where, err)
		}
		if key := normalizeKey(mc.Key); key != "" {
			if keys.Has(key) {
				verr.Addf("%s: duplicate key %q", where, mc.Key)
				ok = false
			}
			keys.Put(key)
		}
		for j, rule := range mc.Rules {
			if rule.Unguarded() {
				logger.Warnf("%s rule %d: %s has no condition on its target; it does nothing while the target is blocked", where, j, rule.Movement)
			}
			if rule.Contradictory() {
				logger.Warnf("%s rule %d: conditions can never hold", where, j)
			}
		}
		if !ok {
			continue
		}
		err = registry.Register(Material{
			ID:    core.MaterialID(mc.ID),
			Name:  mc.Name,
			Color: col,
			Key:   mc.Key,
			Rules: mc.Rules,
		})
		if err != nil {
			verr.Addf("%s: %v", where, err)
		}
	}
	if registry.Len() == 0 && len(d.Materials) == 0 {
		verr.Addf("at least one material is required")
	}

	if verr.HasIssues() {
		return nil, Settings{}, verr
	}
	logger.Debugf("loaded %d materials for a %dx%d grid", registry.Len(), settings.Columns, settings.Rows)
	return registry, settings, nil
}
