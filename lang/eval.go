package lang

import (
	"log/slog"
	"slices"
	"strings"
)

// Resolve evaluates x to a concrete number.
//
// References look up the expression currently bound to the name, so a
// reassignment is visible to every expression that refers to the name. The
// resolved value of a reference is promoted to its declared type.
//
// Resolving an unknown name fails with ErrUnknownIdentifier. A name that
// refers back to itself, directly or through other names, fails with
// ErrReferenceCycle, and a chain of references deeper than the session's
// maximum depth fails with ErrMaxDepthExceeded.
func (s *Session) Resolve(x Operand) (Number, error) {
	if x == nil || x.Expr() == nil {
		return Number{}, ErrMalformedOperand.With(
			slog.String("issue", "missing expression"),
		)
	}

	r := resolver{session: s}

	n, err := r.resolve(x.Expr())
	if err != nil {
		return Number{}, err
	}

	s.logger.Trace("resolved",
		slog.String("expr", Render(x)),
		slog.Any("value", n),
	)

	return n, nil
}

// Index resolves x to an integer. Booleans count as 0 or 1; any other type
// fails with ErrMalformedOperand.
func (s *Session) Index(x Operand) (int64, error) {
	n, err := s.Resolve(x)
	if err != nil {
		return 0, err
	}

	if n.typ != TypeInteger && n.typ != TypeBoolean {
		return 0, ErrMalformedOperand.With(
			slog.String("issue", "not an integer"),
			slog.String("expr", Render(x)),
			slog.String("type", n.typ.String()),
		)
	}

	return n.i, nil
}

// Compare resolves a and b and orders their values, see Compare.
func (s *Session) Compare(a, b Operand) (int, error) {
	l, err := s.Resolve(a)
	if err != nil {
		return 0, err
	}

	r, err := s.Resolve(b)
	if err != nil {
		return 0, err
	}

	return Compare(l, r)
}

// Less reports whether the value of a is less than the value of b.
func (s *Session) Less(a, b Operand) (bool, error) {
	return s.compare(a, b, func(c int) bool { return c < 0 })
}

// LessEqual reports whether the value of a is at most the value of b.
func (s *Session) LessEqual(a, b Operand) (bool, error) {
	return s.compare(a, b, func(c int) bool { return c <= 0 })
}

// Greater reports whether the value of a is greater than the value of b.
func (s *Session) Greater(a, b Operand) (bool, error) {
	return s.compare(a, b, func(c int) bool { return c > 0 })
}

// GreaterEqual reports whether the value of a is at least the value of b.
func (s *Session) GreaterEqual(a, b Operand) (bool, error) {
	return s.compare(a, b, func(c int) bool { return c >= 0 })
}

// Equal reports whether a and b resolve to equal values. This compares
// values, not trees; use (*Expr).Equal for structural equality.
func (s *Session) Equal(a, b Operand) (bool, error) {
	return s.compare(a, b, func(c int) bool { return c == 0 })
}

func (s *Session) compare(a, b Operand, pred func(int) bool) (bool, error) {
	c, err := s.Compare(a, b)
	if err != nil {
		return false, err
	}

	return pred(c), nil
}

// resolver tracks the chain of names being resolved.
type resolver struct {
	session *Session
	chain   []string
}

func (r *resolver) resolve(e *Expr) (Number, error) {
	switch e.kind {
	case KindLiteral:
		return e.value, nil

	case KindReference:
		return r.reference(e.name)

	case KindUnary:
		x, err := r.resolve(e.left)
		if err != nil {
			return Number{}, err
		}

		return e.op.applyUnary(x)

	case KindBinary:
		a, err := r.resolve(e.left)
		if err != nil {
			return Number{}, err
		}

		b, err := r.resolve(e.right)
		if err != nil {
			return Number{}, err
		}

		return e.op.apply(a, b)

	default:
		return Number{}, ErrMalformedOperand.With(
			slog.String("kind", e.kind.String()),
		)
	}
}

func (r *resolver) reference(name string) (Number, error) {
	if slices.Contains(r.chain, name) {
		return Number{}, ErrReferenceCycle.With(
			slog.String("chain", strings.Join(append(slices.Clone(r.chain), name), " → ")),
		)
	}

	if limit := r.session.opts.maxDepth; limit > 0 && len(r.chain) >= limit {
		return Number{}, ErrMaxDepthExceeded.With(
			slog.String("name", name),
			slog.Int("max_depth", limit),
		)
	}

	d, ok := r.session.decls[name]
	if !ok {
		return Number{}, ErrUnknownIdentifier.With(slog.String("name", name))
	}

	r.chain = append(r.chain, name)
	n, err := r.resolve(d.bound)
	r.chain = r.chain[:len(r.chain)-1]

	if err != nil {
		return Number{}, err
	}

	if n.typ == d.typ {
		return n, nil
	}

	p, err := Promote(n, d.typ)
	if err != nil {
		return Number{}, WrapError(err).With(slog.String("name", name))
	}

	return p, nil
}
