package lang

import (
	"testing"

	"github.com/kr/pretty"
)

func TestSession_ToMap(t *testing.T) {
	s := quiet()

	if _, _, err := s.DeclareConst("L", TypeReal, Real(2)); err != nil {
		t.Fatalf("declare error: %v", err)
	}

	if _, _, err := s.DeclareIfAbsent("n", TypeInteger, Int(3)); err != nil {
		t.Fatalf("declare error: %v", err)
	}

	if _, _, err := s.Declare("area", TypeReal, ModifierPlain, s.Mul(Ref("L"), Ref("n"))); err != nil {
		t.Fatalf("declare error: %v", err)
	}

	if _, _, err := s.Declare("broken", TypeReal, ModifierPlain, Ref("missing")); err != nil {
		t.Fatalf("declare error: %v", err)
	}

	got := s.ToMap()

	want := map[string]any{
		"L": map[string]any{
			"type": "real", "modifier": "const", "expr": "2.0", "value": 2.0,
		},
		"n": map[string]any{
			"type": "integer", "modifier": "ifndef", "expr": "3", "value": int64(3),
		},
		"area": map[string]any{
			"type": "real", "modifier": "plain", "expr": "L * n", "value": 6.0,
		},
		"broken": map[string]any{
			"type":     "real",
			"modifier": "plain",
			"expr":     "missing",
			"error":    "unknown identifier (name=missing)",
		},
	}

	if diff := pretty.Diff(want, got); len(diff) > 0 {
		t.Errorf("unexpected map:\n%s", diff)
	}
}
