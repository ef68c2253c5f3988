package sweep

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"falling-sand/internal/sims/sand"

	"github.com/pkg/errors"
)

const sandOnly = `{
  "background": "000000",
  "grid_rows": 12,
  "grid_columns": 10,
  "brush_radius": 1,
  "materials": [
    {"id": 0, "name": "Sand", "color": "C2B280", "key": "s", "rules": [
      {"movement": {"Move": {"row": 1, "column": 0}}, "if_empty": [{"row": 1, "column": 0}], "if_occupied": []},
      {"movement": {"Move": {"row": 1, "column": -1}}, "if_empty": [{"row": 1, "column": -1}], "if_occupied": []},
      {"movement": {"Move": {"row": 1, "column": 1}}, "if_empty": [{"row": 1, "column": 1}], "if_occupied": []}
    ]}
  ]
}`

func writeDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sand.json")
	if err := os.WriteFile(path, []byte(sandOnly), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

func sandOptions(t *testing.T, seeds ...int64) Options {
	cfg := sand.DefaultConfig()
	cfg.MaterialsPath = writeDoc(t)
	cfg.Density = 0.3
	return Options{Config: cfg, Seeds: seeds, MaxTicks: 200, Workers: 2}
}

func TestRunSettlesSandWorlds(t *testing.T) {
	opts := sandOptions(t, 1, 2, 3, 4, 5)
	results, err := Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != len(opts.Seeds) {
		t.Fatalf("expected %d results, got %d", len(opts.Seeds), len(results))
	}
	for i, res := range results {
		if res.Seed != opts.Seeds[i] {
			t.Fatalf("result %d has seed %d, want %d", i, res.Seed, opts.Seeds[i])
		}
		if !res.Settled {
			t.Fatalf("seed %d did not settle within %d ticks", res.Seed, opts.MaxTicks)
		}
		if res.Totals.Copies != 0 || res.Totals.Swaps != 0 {
			t.Fatalf("seed %d: sand only moves, got %+v", res.Seed, res.Totals)
		}
		if res.Hash == "" {
			t.Fatalf("seed %d: missing hash", res.Seed)
		}
	}
}

func TestRunConservesSandPerSeed(t *testing.T) {
	opts := sandOptions(t, 7)
	opts.MaxTicks = 0
	before, err := Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	opts.MaxTicks = 200
	after, err := Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if before[0].Occupied != after[0].Occupied {
		t.Fatalf("occupancy changed from %d to %d", before[0].Occupied, after[0].Occupied)
	}
	if before[0].Ticks != 0 {
		t.Fatalf("expected no ticks, got %d", before[0].Ticks)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	opts := sandOptions(t, 11, 12, 13)
	first, err := Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	opts.Workers = 1
	second, err := Run(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("seed %d differs between runs: %+v vs %+v", first[i].Seed, first[i], second[i])
		}
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, sandOptions(t, 1), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunMissingDocument(t *testing.T) {
	cfg := sand.DefaultConfig()
	cfg.MaterialsPath = filepath.Join(t.TempDir(), "missing.json")
	if _, err := Run(context.Background(), Options{Config: cfg, Seeds: []int64{1}, MaxTicks: 1}, nil); err == nil {
		t.Fatalf("expected error for missing document")
	}
}
