package material

import (
	"encoding/json"
	"testing"

	"falling-sand/internal/core"

	"github.com/pkg/errors"
)

func TestMovementJSON(t *testing.T) {
	cases := []struct {
		in   string
		want Movement
	}{
		{`"Stay"`, StayPut()},
		{`{"Move":{"row":1,"column":0}}`, MoveBy(1, 0)},
		{`{"Copy":{"row":0,"column":-1}}`, CopyTo(0, -1)},
		{`{"Swap":{"row":1,"column":1}}`, SwapWith(1, 1)},
	}
	for _, tc := range cases {
		var m Movement
		if err := json.Unmarshal([]byte(tc.in), &m); err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if m != tc.want {
			t.Fatalf("%s decoded to %s, want %s", tc.in, m, tc.want)
		}
		out, err := json.Marshal(m)
		if err != nil {
			t.Fatalf("marshal %s: %v", m, err)
		}
		var back Movement
		if err := json.Unmarshal(out, &back); err != nil || back != m {
			t.Fatalf("%s did not survive a round trip via %s", m, out)
		}
	}
}

func TestMovementJSONRejectsMalformedInput(t *testing.T) {
	for _, in := range []string{
		`"Teleport"`,
		`{"Jump":{"row":1,"column":0}}`,
		`{"Move":{"row":1,"column":0},"Copy":{"row":1,"column":0}}`,
		`42`,
	} {
		var m Movement
		err := json.Unmarshal([]byte(in), &m)
		if errors.Cause(err) != ErrUnknownMovement {
			t.Fatalf("%s: expected ErrUnknownMovement, got %v", in, err)
		}
	}
	for _, in := range []string{
		`{"Move":{"row":1}}`,
		`{"Move":{"row":1,"col":0}}`,
		`{"Move":{"row":"down","column":0}}`,
	} {
		var m Movement
		err := json.Unmarshal([]byte(in), &m)
		if !errors.Is(err, ErrBadOffset) {
			t.Fatalf("%s: expected ErrBadOffset, got %v", in, err)
		}
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#2EB086")
	if err != nil {
		t.Fatal(err)
	}
	if c != (Color{R: 0x2E, G: 0xB0, B: 0x86}) {
		t.Fatalf("parsed %+v", c)
	}
	if c.String() != "2EB086" {
		t.Fatalf("String() = %s", c)
	}
	if low, _ := ParseColor("05000a"); low.String() != "05000A" {
		t.Fatalf("single-digit channels must stay zero padded, got %s", low)
	}
	for _, bad := range []string{"", "FFF", "GGGGGG", "1234567"} {
		if _, err := ParseColor(bad); errors.Cause(err) != ErrBadColor {
			t.Fatalf("%q: expected ErrBadColor, got %v", bad, err)
		}
	}
}

func TestRuleNormalizeKeepsConditionsAsWritten(t *testing.T) {
	below := core.Offset{Row: 1}

	r := Rule{Movement: MoveBy(1, 0)}.Normalize()
	if len(r.IfEmpty) != 0 || len(r.IfOccupied) != 0 {
		t.Fatalf("an unconditioned rule must stay unconditioned, got %+v", r)
	}

	r = Rule{Movement: MoveBy(1, 0), IfEmpty: []core.Offset{below, below}, IfOccupied: []core.Offset{{Column: 1}, {Column: 1}}}.Normalize()
	if len(r.IfEmpty) != 1 || r.IfEmpty[0] != below || len(r.IfOccupied) != 1 {
		t.Fatalf("duplicate conditions should collapse, got %+v", r)
	}
}

func TestRuleUnguarded(t *testing.T) {
	below := core.Offset{Row: 1}
	cases := []struct {
		rule Rule
		want bool
	}{
		{Rule{Movement: MoveBy(1, 0)}, true},
		{Rule{Movement: MoveBy(1, 0), IfEmpty: []core.Offset{below}}, false},
		{Rule{Movement: CopyTo(1, 0), IfOccupied: []core.Offset{below}}, true},
		{Rule{Movement: SwapWith(1, 0)}, true},
		{Rule{Movement: SwapWith(1, 0), IfOccupied: []core.Offset{below}}, false},
		{Rule{Movement: StayPut()}, false},
	}
	for _, tc := range cases {
		if got := tc.rule.Unguarded(); got != tc.want {
			t.Fatalf("%s with empty=%v occupied=%v: Unguarded() = %v", tc.rule.Movement, tc.rule.IfEmpty, tc.rule.IfOccupied, got)
		}
	}
}

func TestRuleJSONDecodesConditions(t *testing.T) {
	var r Rule
	in := `{"movement":{"Move":{"row":1,"column":0}},"if_empty":[{"row":1,"column":0}],"if_occupied":[{"row":0,"column":-1}]}`
	if err := json.Unmarshal([]byte(in), &r); err != nil {
		t.Fatal(err)
	}
	if r.Movement != MoveBy(1, 0) || len(r.IfEmpty) != 1 || r.IfEmpty[0] != (core.Offset{Row: 1}) {
		t.Fatalf("decoded %+v", r)
	}
	if len(r.IfOccupied) != 1 || r.IfOccupied[0] != (core.Offset{Column: -1}) {
		t.Fatalf("decoded %+v", r)
	}
}

func TestRuleJSONRejectsMalformedConditions(t *testing.T) {
	for _, in := range []string{
		`{"movement":"Stay","if_empty":[{"row":1}]}`,
		`{"movement":"Stay","if_occupied":[{"column":1}]}`,
		`{"movement":"Stay","if_empty":[{"row":1,"col":0}]}`,
		`{"movement":"Stay","if_occupied":[{"row":"up","column":0}]}`,
	} {
		var r Rule
		if err := json.Unmarshal([]byte(in), &r); !errors.Is(err, ErrBadOffset) {
			t.Fatalf("%s: expected ErrBadOffset, got %v", in, err)
		}
	}
	var r Rule
	if err := json.Unmarshal([]byte(`{"if_empty":[]}`), &r); !errors.Is(err, ErrUnknownMovement) {
		t.Fatalf("missing movement: expected ErrUnknownMovement, got %v", err)
	}
	if err := json.Unmarshal([]byte(`{"movement":"Stay","when":[]}`), &r); err == nil {
		t.Fatal("unknown rule fields should be rejected")
	}
}

func TestRuleContradictory(t *testing.T) {
	o := core.Offset{Column: 1}
	if !(Rule{IfEmpty: []core.Offset{o}, IfOccupied: []core.Offset{o}}).Contradictory() {
		t.Fatal("same offset empty and occupied should be contradictory")
	}
	if (Rule{IfEmpty: []core.Offset{o}}).Contradictory() {
		t.Fatal("single condition is satisfiable")
	}
}
