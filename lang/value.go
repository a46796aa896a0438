package lang

import (
	"cmp"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Type is a built-in type of the MBDyn math parser.
//
// Types are ordered by promotion: a Boolean is promoted to Integer, Real, or
// String whenever required, an Integer to Real or String, and a Real to
// String.
type Type int

const (
	// TypeBoolean is a boolean number (0 or 1 when promoted).
	TypeBoolean Type = iota

	// TypeInteger is an integer number.
	TypeInteger

	// TypeReal is a real number.
	TypeReal

	// TypeString is a text string.
	TypeString
)

// String returns the keyword used for the type in declarations.
func (t Type) String() string {
	switch t {
	case TypeBoolean:
		return "bool"

	case TypeInteger:
		return "integer"

	case TypeReal:
		return "real"

	case TypeString:
		return "string"

	default:
		return "unknown"
	}
}

// ParseType parses a type keyword. Both "bool" and "boolean" are accepted.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bool", "boolean":
		return TypeBoolean, nil

	case "integer", "int":
		return TypeInteger, nil

	case "real", "float":
		return TypeReal, nil

	case "string":
		return TypeString, nil

	default:
		return 0, ErrInvalidType.With(slog.String("type", s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	v, err := ParseType(string(text))
	if err != nil {
		return err
	}

	*t = v

	return nil
}

// join returns the narrowest type both a and b promote to.
// Booleans take part in arithmetic as integers.
func join(a, b Type) Type {
	return max(a, b, TypeInteger)
}

// Number is a concrete scalar value: a boolean, integer, real, or string.
// The zero Number is the boolean false.
type Number struct {
	typ Type
	i   int64
	f   float64
	s   string
}

// IntNumber returns an integer Number.
func IntNumber(i int64) Number { return Number{typ: TypeInteger, i: i} }

// RealNumber returns a real Number.
func RealNumber(f float64) Number { return Number{typ: TypeReal, f: f} }

// StringNumber returns a string Number.
func StringNumber(s string) Number { return Number{typ: TypeString, s: s} }

// BoolNumber returns a boolean Number.
func BoolNumber(b bool) Number {
	if b {
		return Number{typ: TypeBoolean, i: 1}
	}

	return Number{typ: TypeBoolean}
}

// Type returns the type of the number.
func (n Number) Type() Type { return n.typ }

// IsNumeric reports whether n is a boolean, integer, or real.
func (n Number) IsNumeric() bool { return n.typ != TypeString }

// Int returns n as an integer. Reals are truncated toward zero and strings
// yield 0.
func (n Number) Int() int64 {
	switch n.typ {
	case TypeReal:
		return int64(n.f)

	case TypeString:
		return 0

	default:
		return n.i
	}
}

// Float returns n as a real. Strings yield NaN.
func (n Number) Float() float64 {
	switch n.typ {
	case TypeReal:
		return n.f

	case TypeString:
		return math.NaN()

	default:
		return float64(n.i)
	}
}

// Bool returns the truth value of n: nonzero numbers and non-empty strings
// are true.
func (n Number) Bool() bool {
	switch n.typ {
	case TypeReal:
		return n.f != 0

	case TypeString:
		return n.s != ""

	default:
		return n.i != 0
	}
}

// IsZero reports whether n is a numeric zero (false counts as zero).
func (n Number) IsZero() bool {
	return n.IsNumeric() && n.Float() == 0
}

// IsOne reports whether n is a numeric one (true counts as one).
func (n Number) IsOne() bool {
	return n.IsNumeric() && n.Float() == 1
}

// String returns the MBDyn spelling of the number.
func (n Number) String() string {
	switch n.typ {
	case TypeBoolean:
		return strconv.FormatBool(n.i != 0)

	case TypeInteger:
		return strconv.FormatInt(n.i, 10)

	case TypeReal:
		return formatReal(n.f)

	default:
		return n.s
	}
}

// Native returns n as a Go value: bool, int64, float64, or string.
func (n Number) Native() any {
	switch n.typ {
	case TypeBoolean:
		return n.i != 0

	case TypeInteger:
		return n.i

	case TypeReal:
		return n.f

	default:
		return n.s
	}
}

// LogValue implements slog.LogValuer.
func (n Number) LogValue() slog.Value {
	return slog.AnyValue(n.Native())
}

// formatReal spells f in its shortest round-trip form. The result always
// has a decimal point or an exponent so it reads back as a real.
func formatReal(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	var s string

	if abs := math.Abs(f); abs == 0 || (abs >= 1e-4 && abs < 1e16) {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	} else {
		s = strconv.FormatFloat(f, 'g', -1, 64)
	}

	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}

// Promote widens n to type t. Narrowing conversions (for example a real
// into an integer) fail with ErrMalformedOperand.
func Promote(n Number, t Type) (Number, error) {
	if n.typ == t {
		return n, nil
	}

	if n.typ > t {
		return Number{}, ErrMalformedOperand.With(
			slog.String("value", n.String()),
			slog.String("from", n.typ.String()),
			slog.String("to", t.String()),
		)
	}

	switch t {
	case TypeInteger:
		return IntNumber(n.i), nil

	case TypeReal:
		return RealNumber(float64(n.i)), nil

	case TypeString:
		if n.typ == TypeBoolean {
			return StringNumber(strconv.FormatInt(n.i, 10)), nil
		}

		return StringNumber(n.String()), nil

	default:
		return Number{}, ErrInvalidType.With(slog.String("type", t.String()))
	}
}

// Compare returns -1, 0, or +1 ordering a against b. Numeric values compare
// by magnitude and strings lexically; comparing a string with a numeric
// value fails with ErrMalformedOperand.
func Compare(a, b Number) (int, error) {
	if a.IsNumeric() != b.IsNumeric() {
		return 0, ErrMalformedOperand.With(
			slog.String("op", "compare"),
			slog.String("left", a.typ.String()),
			slog.String("right", b.typ.String()),
		)
	}

	if !a.IsNumeric() {
		return strings.Compare(a.s, b.s), nil
	}

	if a.typ != TypeReal && b.typ != TypeReal {
		return cmp.Compare(a.i, b.i), nil
	}

	return cmp.Compare(a.Float(), b.Float()), nil
}

// apply evaluates a binary operator on two concrete numbers.
func (op Op) apply(l, r Number) (Number, error) {
	if !l.IsNumeric() || !r.IsNumeric() {
		if op == OpAdd {
			return StringNumber(l.String() + r.String()), nil
		}

		return Number{}, ErrMalformedOperand.With(
			slog.String("op", op.String()),
			slog.String("left", l.String()),
			slog.String("right", r.String()),
		)
	}

	typ := join(l.typ, r.typ)

	switch op {
	case OpAdd:
		if typ == TypeInteger {
			return checked(op, l, r)(addInt(l.i, r.i))
		}

		return RealNumber(l.Float() + r.Float()), nil

	case OpSub:
		if typ == TypeInteger {
			return checked(op, l, r)(subInt(l.i, r.i))
		}

		return RealNumber(l.Float() - r.Float()), nil

	case OpMul:
		if typ == TypeInteger {
			return checked(op, l, r)(mulInt(l.i, r.i))
		}

		return RealNumber(l.Float() * r.Float()), nil

	case OpDiv:
		if r.Float() == 0 {
			return Number{}, ErrDivisionByZero.With(
				slog.String("numerator", l.String()),
				slog.String("denominator", r.String()),
			)
		}

		return RealNumber(l.Float() / r.Float()), nil

	case OpPow:
		if typ == TypeInteger && r.i >= 0 {
			return checked(op, l, r)(ipow(l.i, r.i))
		}

		return RealNumber(math.Pow(l.Float(), r.Float())), nil

	case OpAtan2:
		return RealNumber(math.Atan2(l.Float(), r.Float())), nil

	default:
		return Number{}, ErrInvalidOperator.With(slog.String("op", op.String()))
	}
}

// applyUnary evaluates a unary operator on a concrete number.
func (op Op) applyUnary(x Number) (Number, error) {
	if !x.IsNumeric() {
		return Number{}, ErrMalformedOperand.With(
			slog.String("op", op.String()),
			slog.String("operand", x.String()),
		)
	}

	switch op {
	case OpNeg:
		if x.typ == TypeReal {
			return RealNumber(-x.f), nil
		}

		if x.i == math.MinInt64 {
			return Number{}, ErrMalformedOperand.With(
				slog.String("op", op.String()),
				slog.String("operand", x.String()),
				slog.String("issue", "integer overflow"),
			)
		}

		return IntNumber(-x.i), nil

	case OpSin:
		return RealNumber(math.Sin(x.Float())), nil

	case OpCos:
		return RealNumber(math.Cos(x.Float())), nil

	case OpTan:
		return RealNumber(math.Tan(x.Float())), nil

	case OpAsin:
		return RealNumber(math.Asin(x.Float())), nil

	case OpAcos:
		return RealNumber(math.Acos(x.Float())), nil

	case OpSqrt:
		return RealNumber(math.Sqrt(x.Float())), nil

	default:
		return Number{}, ErrInvalidOperator.With(slog.String("op", op.String()))
	}
}

// checked returns a function converting an integer result of op to a
// Number, failing with ErrMalformedOperand if the result overflowed.
func checked(op Op, l, r Number) func(int64, bool) (Number, error) {
	return func(v int64, ok bool) (Number, error) {
		if !ok {
			return Number{}, ErrMalformedOperand.With(
				slog.String("op", op.String()),
				slog.String("left", l.String()),
				slog.String("right", r.String()),
				slog.String("issue", "integer overflow"),
			)
		}

		return IntNumber(v), nil
	}
}

func addInt(a, b int64) (int64, bool) {
	c := a + b

	return c, (c > a) == (b > 0)
}

func subInt(a, b int64) (int64, bool) {
	c := a - b

	return c, (c < a) == (b > 0)
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}

	c := a * b
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return c, false
	}

	return c, c/b == a
}

// ipow computes base^exp by squaring. exp must be non-negative. It reports
// false if the result overflows.
func ipow(base, exp int64) (int64, bool) {
	result := int64(1)

	for exp > 0 {
		var ok bool

		if exp&1 == 1 {
			if result, ok = mulInt(result, base); !ok {
				return result, false
			}
		}

		exp >>= 1
		if exp == 0 {
			break
		}

		if base, ok = mulInt(base, base); !ok {
			return base, false
		}
	}

	return result, true
}
