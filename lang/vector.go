package lang

import (
	"log/slog"
	"math"
)

// DefaultUnitTolerance is the tolerance used by CheckUnit when tol is not
// positive.
const DefaultUnitTolerance = 1e-9

// CheckUnit resolves each component of a vector and fails with
// ErrMalformedOperand unless its Euclidean norm is within tol of 1.
// Components may be symbolic; only their resolved values are used.
func (s *Session) CheckUnit(tol float64, components ...Operand) error {
	if tol <= 0 {
		tol = DefaultUnitTolerance
	}

	var sum float64

	for _, c := range components {
		n, err := s.Resolve(c)
		if err != nil {
			return err
		}

		if !n.IsNumeric() {
			return ErrMalformedOperand.With(
				slog.String("issue", "vector component is not a number"),
				slog.String("component", Render(c)),
			)
		}

		sum += n.Float() * n.Float()
	}

	norm := math.Sqrt(sum)
	if math.Abs(norm-1) > tol {
		return ErrMalformedOperand.With(
			slog.String("issue", "not a unit vector"),
			slog.String("vector", RenderList(components...)),
			slog.Float64("norm", norm),
		)
	}

	return nil
}
