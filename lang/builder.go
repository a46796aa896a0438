package lang

import (
	"log/slog"
)

// Combinators build expression nodes, eliminating algebraic identities when
// simplification is enabled on the session:
//
//	x + 0, 0 + x  →  x
//	x - 0         →  x
//	x * 0, 0 * x  →  0
//	x * 1, 1 * x  →  x
//	0 / y         →  0   (y ≠ 0)
//
// 0 - x is never rewritten to -x, and x / 1 is never rewritten to x.
//
// A reference counts as zero or one when the name currently resolves to
// that value, so with z bound to 0 and u bound to 1, z * b is 0, z + b is
// b, and u * b is b. A zero reference is replaced by the literal 0. A
// reference that does not resolve is kept. Literal zeros of a product are
// checked before any reference is resolved.

// Add returns l + r.
func (s *Session) Add(l, r Operand) *Expr {
	a, b := l.Expr(), r.Expr()

	if s.opts.simplify {
		switch {
		case s.isZero(b):
			return s.simplified(OpAdd, a)

		case s.isZero(a):
			return s.simplified(OpAdd, b)
		}
	}

	return binary(OpAdd, a, b)
}

// Sub returns l - r.
func (s *Session) Sub(l, r Operand) *Expr {
	a, b := l.Expr(), r.Expr()

	if s.opts.simplify && s.isZero(b) {
		return s.simplified(OpSub, a)
	}

	return binary(OpSub, a, b)
}

// Mul returns l * r. A zero operand wins over a one, and a zero literal
// operand is taken without inspecting the other operand.
func (s *Session) Mul(l, r Operand) *Expr {
	a, b := l.Expr(), r.Expr()

	if s.opts.simplify {
		switch {
		case isZeroLiteral(a):
			return s.simplified(OpMul, a)

		case isZeroLiteral(b):
			return s.simplified(OpMul, b)

		case s.isZero(a), s.isZero(b):
			return s.simplified(OpMul, Int(0))

		case s.isOne(b):
			return s.simplified(OpMul, a)

		case s.isOne(a):
			return s.simplified(OpMul, b)
		}
	}

	return binary(OpMul, a, b)
}

// Div returns l / r.
//
// The divisor is resolved before the node is built. If it resolves to zero,
// Div fails with ErrDivisionByZero regardless of the simplification setting.
// Any error resolving the divisor is returned as is.
func (s *Session) Div(l, r Operand) (*Expr, error) {
	a, b := l.Expr(), r.Expr()

	d, err := s.Resolve(b)
	if err != nil {
		return nil, err
	}

	if d.IsZero() {
		return nil, ErrDivisionByZero.With(
			slog.String("numerator", Render(a)),
			slog.String("denominator", Render(b)),
		)
	}

	if s.opts.simplify && s.isZero(a) {
		if !isZeroLiteral(a) {
			a = Int(0)
		}

		return s.simplified(OpDiv, a), nil
	}

	return binary(OpDiv, a, b), nil
}

// Pow returns l ^ r.
func (s *Session) Pow(l, r Operand) *Expr { return binary(OpPow, l.Expr(), r.Expr()) }

// Atan2 returns atan2(y, x).
func (s *Session) Atan2(y, x Operand) *Expr { return binary(OpAtan2, y.Expr(), x.Expr()) }

// Neg returns -x.
func (s *Session) Neg(x Operand) *Expr { return unary(OpNeg, x.Expr()) }

// Sin returns sin(x).
func (s *Session) Sin(x Operand) *Expr { return unary(OpSin, x.Expr()) }

// Cos returns cos(x).
func (s *Session) Cos(x Operand) *Expr { return unary(OpCos, x.Expr()) }

// Tan returns tan(x).
func (s *Session) Tan(x Operand) *Expr { return unary(OpTan, x.Expr()) }

// Asin returns asin(x).
func (s *Session) Asin(x Operand) *Expr { return unary(OpAsin, x.Expr()) }

// Acos returns acos(x).
func (s *Session) Acos(x Operand) *Expr { return unary(OpAcos, x.Expr()) }

// Sqrt returns sqrt(x).
func (s *Session) Sqrt(x Operand) *Expr { return unary(OpSqrt, x.Expr()) }

// Build applies op to operands through the matching combinator.
// Unary operators take exactly one operand and binary operators two;
// any other count fails with ErrMalformedOperand.
func (s *Session) Build(op Op, operands ...Operand) (*Expr, error) {
	want := 2
	if op.IsUnary() {
		want = 1
	} else if !op.IsBinary() {
		return nil, ErrInvalidOperator.With(slog.Int("op", int(op)))
	}

	if len(operands) != want {
		return nil, ErrMalformedOperand.With(
			slog.String("op", op.String()),
			slog.Int("want", want),
			slog.Int("got", len(operands)),
		)
	}

	for i, x := range operands {
		if x == nil || x.Expr() == nil {
			return nil, ErrMalformedOperand.With(
				slog.String("op", op.String()),
				slog.Int("operand", i),
				slog.String("issue", "missing operand"),
			)
		}
	}

	if want == 1 {
		return unary(op, operands[0].Expr()), nil
	}

	l, r := operands[0], operands[1]

	switch op {
	case OpAdd:
		return s.Add(l, r), nil

	case OpSub:
		return s.Sub(l, r), nil

	case OpMul:
		return s.Mul(l, r), nil

	case OpDiv:
		return s.Div(l, r)

	default:
		return binary(op, l.Expr(), r.Expr()), nil
	}
}

func (s *Session) simplified(op Op, result *Expr) *Expr {
	s.logger.Trace("simplified",
		slog.String("op", op.String()),
		slog.String("result", Render(result)),
	)

	return result
}

func isZeroLiteral(e *Expr) bool { return e.kind == KindLiteral && e.value.IsZero() }

// isZero reports whether e is a literal zero or a reference currently bound
// to zero.
func (s *Session) isZero(e *Expr) bool {
	n, ok := s.current(e)

	return ok && n.IsZero()
}

// isOne reports whether e is a literal one or a reference currently bound
// to one.
func (s *Session) isOne(e *Expr) bool {
	n, ok := s.current(e)

	return ok && n.IsOne()
}

// current returns the value of a literal or of a resolvable reference.
// Compound operands have no current value.
func (s *Session) current(e *Expr) (Number, bool) {
	switch e.kind {
	case KindLiteral:
		return e.value, true

	case KindReference:
		n, err := s.Resolve(e)

		return n, err == nil

	default:
		return Number{}, false
	}
}
