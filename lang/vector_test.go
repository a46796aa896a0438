package lang

import (
	"errors"
	"strings"
	"testing"
)

func TestCheckUnit(t *testing.T) {
	s := quiet()

	if _, _, err := s.DeclareConst("c", TypeReal, s.Cos(Real(0.3))); err != nil {
		t.Fatalf("declare error: %v", err)
	}

	if _, _, err := s.DeclareConst("sn", TypeReal, s.Sin(Real(0.3))); err != nil {
		t.Fatalf("declare error: %v", err)
	}

	valid := [][]Operand{
		{Int(1), Int(0), Int(0)},
		{Real(0.6), Real(0.8)},
		{Ref("c"), s.Neg(Ref("sn")), Int(0)},
		{Bool(true)},
	}

	for _, v := range valid {
		if err := s.CheckUnit(0, v...); err != nil {
			t.Errorf("%s: expected unit vector, got %v", RenderList(v...), err)
		}
	}

	err := s.CheckUnit(1e-6, Int(1), Int(1), Int(0))
	if !errors.Is(err, ErrMalformedOperand) {
		t.Fatalf("expected ErrMalformedOperand, got %v", err)
	}

	if msg := err.Error(); !strings.Contains(msg, "vector=1, 1, 0") {
		t.Errorf("expected vector in %q", msg)
	}

	if err := s.CheckUnit(0.5, Real(1.2)); err != nil {
		t.Errorf("expected tolerance to accept 1.2, got %v", err)
	}

	if err := s.CheckUnit(0, Str("x")); !errors.Is(err, ErrMalformedOperand) {
		t.Errorf("expected ErrMalformedOperand, got %v", err)
	}

	if err := s.CheckUnit(0, Ref("missing")); !errors.Is(err, ErrUnknownIdentifier) {
		t.Errorf("expected ErrUnknownIdentifier, got %v", err)
	}

	if err := s.CheckUnit(0); !errors.Is(err, ErrMalformedOperand) {
		t.Errorf("expected ErrMalformedOperand for empty vector, got %v", err)
	}
}
