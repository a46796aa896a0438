package lang

import (
	"log/slog"
	"slices"
)

// Kind identifies the variant of an expression node.
type Kind int

const (
	// KindLiteral is a concrete number.
	KindLiteral Kind = iota

	// KindReference is a pointer by name into the declaration registry.
	KindReference

	// KindUnary is a unary operator applied to one operand.
	KindUnary

	// KindBinary is a binary operator applied to two operands.
	KindBinary
)

// String returns a string representation of the node kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "Literal"

	case KindReference:
		return "Reference"

	case KindUnary:
		return "Unary"

	case KindBinary:
		return "Binary"

	default:
		return "Unknown"
	}
}

// Op is an operator of a unary or binary node.
type Op int

// Unary operators.
const (
	OpNeg Op = iota
	OpSin
	OpCos
	OpTan
	OpAsin
	OpAcos
	OpSqrt
)

// Binary operators.
const (
	OpAdd Op = iota + 64
	OpSub
	OpMul
	OpDiv
	OpPow
	OpAtan2
)

var opNames = map[Op]string{
	OpNeg:   "neg",
	OpSin:   "sin",
	OpCos:   "cos",
	OpTan:   "tan",
	OpAsin:  "asin",
	OpAcos:  "acos",
	OpSqrt:  "sqrt",
	OpAdd:   "add",
	OpSub:   "sub",
	OpMul:   "mul",
	OpDiv:   "div",
	OpPow:   "pow",
	OpAtan2: "atan2",
}

// String returns the operator name.
func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}

	return "unknown"
}

// IsUnary reports whether op takes one operand.
func (op Op) IsUnary() bool { return op >= OpNeg && op <= OpSqrt }

// IsBinary reports whether op takes two operands.
func (op Op) IsBinary() bool { return op >= OpAdd && op <= OpAtan2 }

// IsFunc reports whether op is spelled as a named function call.
func (op Op) IsFunc() bool {
	return (op.IsUnary() && op != OpNeg) || op == OpAtan2
}

// Functions returns the names of the operators spelled as function calls,
// in sorted order.
func Functions() []string {
	names := make([]string, 0, len(opNames))

	for op, name := range opNames {
		if op.IsFunc() {
			names = append(names, name)
		}
	}

	slices.Sort(names)

	return names
}

// ParseOp returns the operator with the given name.
func ParseOp(name string) (Op, error) {
	for op, s := range opNames {
		if s == name {
			return op, nil
		}
	}

	return 0, ErrInvalidOperator.With(slog.String("op", name))
}

// Expr is a node in an immutable expression tree.
//
// Nodes are never modified after construction, so subtrees may be shared by
// any number of parents. Build trees with the literal constructors, Ref, and
// the combinators of a Session.
type Expr struct {
	kind  Kind
	op    Op
	value Number
	name  string
	left  *Expr // operand of unary nodes
	right *Expr
}

// Operand is implemented by anything that can take part in an expression.
// Both *Expr and *Declaration are operands.
type Operand interface {
	Expr() *Expr
}

// Expr implements Operand.
func (e *Expr) Expr() *Expr { return e }

// Lit returns a literal node holding n.
func Lit(n Number) *Expr { return &Expr{kind: KindLiteral, value: n} }

// Int returns an integer literal.
func Int(i int64) *Expr { return Lit(IntNumber(i)) }

// Real returns a real literal.
func Real(f float64) *Expr { return Lit(RealNumber(f)) }

// Bool returns a boolean literal.
func Bool(b bool) *Expr { return Lit(BoolNumber(b)) }

// Str returns a string literal.
func Str(s string) *Expr { return Lit(StringNumber(s)) }

// Ref returns a reference to the declaration with the given name.
// The name is looked up every time the reference is resolved.
func Ref(name string) *Expr { return &Expr{kind: KindReference, name: name} }

func unary(op Op, x *Expr) *Expr {
	return &Expr{kind: KindUnary, op: op, left: x}
}

func binary(op Op, l, r *Expr) *Expr {
	return &Expr{kind: KindBinary, op: op, left: l, right: r}
}

// Kind returns the node variant.
func (e *Expr) Kind() Kind { return e.kind }

// Op returns the operator of a unary or binary node.
func (e *Expr) Op() Op { return e.op }

// Value returns the payload of a literal node.
func (e *Expr) Value() Number { return e.value }

// Name returns the referenced name of a reference node.
func (e *Expr) Name() string { return e.name }

// Operand returns the operand of a unary node.
func (e *Expr) Operand() *Expr {
	if e.kind != KindUnary {
		return nil
	}

	return e.left
}

// Left returns the left operand of a binary node.
func (e *Expr) Left() *Expr {
	if e.kind != KindBinary {
		return nil
	}

	return e.left
}

// Right returns the right operand of a binary node.
func (e *Expr) Right() *Expr { return e.right }

// IsLiteral reports whether e is a literal node.
func (e *Expr) IsLiteral() bool { return e.kind == KindLiteral }

// String returns the rendered text of the expression.
func (e *Expr) String() string { return Render(e) }

// Equal reports whether e and o are structurally identical trees.
// References compare by name, not by resolved value.
func (e *Expr) Equal(o *Expr) bool {
	if e == o {
		return true
	}

	if e == nil || o == nil || e.kind != o.kind {
		return false
	}

	switch e.kind {
	case KindLiteral:
		return e.value == o.value

	case KindReference:
		return e.name == o.name

	case KindUnary:
		return e.op == o.op && e.left.Equal(o.left)

	default:
		return e.op == o.op && e.left.Equal(o.left) && e.right.Equal(o.right)
	}
}

// References returns the distinct names referenced by e, in the order they
// first appear.
func (e *Expr) References() []string {
	var (
		names []string
		seen  = map[string]struct{}{}
	)

	var walk func(*Expr)

	walk = func(x *Expr) {
		if x == nil {
			return
		}

		switch x.kind {
		case KindReference:
			if _, ok := seen[x.name]; !ok {
				seen[x.name] = struct{}{}
				names = append(names, x.name)
			}

		case KindUnary:
			walk(x.left)

		case KindBinary:
			walk(x.left)
			walk(x.right)
		}
	}

	walk(e)

	return names
}
