package lang

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr/ast"
)

// ParseExpr parses an infix expression and builds it with the session's
// combinators, so simplification and the zero-divisor check apply exactly
// as if the tree had been built by hand.
//
// The accepted syntax is a subset of expr-lang:
//
//	42  1.5  1e-3  true  "text"      literals
//	L  theta_0                         references to declared names
//	-x  +x                             sign
//	a + b  a - b  a * b  a / b         arithmetic
//	a ^ b  a ** b                      power
//	sin(x)  cos  tan  asin  acos  sqrt
//	atan2(y, x)
//
// Anything else fails with ErrInvalidSyntax.
func (s *Session) ParseExpr(source string) (*Expr, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrInvalidSyntax.With(slog.String("issue", "empty expression"))
	}

	node, err := s.parseCached(source)
	if err != nil {
		return nil, err
	}

	return s.lower(node)
}

// MustParseExpr is like ParseExpr but panics on error.
// It is intended for tests and fixed expressions in generator code.
func (s *Session) MustParseExpr(source string) *Expr {
	e, err := s.ParseExpr(source)
	if err != nil {
		panic(err)
	}

	return e
}

var binaryOps = map[string]Op{
	"+":  OpAdd,
	"-":  OpSub,
	"*":  OpMul,
	"/":  OpDiv,
	"^":  OpPow,
	"**": OpPow,
}

// lower converts an expr-lang node into an expression tree.
func (s *Session) lower(node ast.Node) (*Expr, error) {
	switch n := node.(type) {
	case *ast.IntegerNode:
		return Int(int64(n.Value)), nil

	case *ast.FloatNode:
		return Real(n.Value), nil

	case *ast.BoolNode:
		return Bool(n.Value), nil

	case *ast.StringNode:
		return Str(n.Value), nil

	case *ast.IdentifierNode:
		if !isIdentifier(n.Value) {
			return nil, unsupported(node, "invalid identifier")
		}

		return Ref(n.Value), nil

	case *ast.UnaryNode:
		x, err := s.lower(n.Node)
		if err != nil {
			return nil, err
		}

		switch n.Operator {
		case "-":
			return s.Neg(x), nil

		case "+":
			return x, nil

		default:
			return nil, unsupported(node, "unary operator "+n.Operator)
		}

	case *ast.BinaryNode:
		op, ok := binaryOps[n.Operator]
		if !ok {
			return nil, unsupported(node, "binary operator "+n.Operator)
		}

		l, err := s.lower(n.Left)
		if err != nil {
			return nil, err
		}

		r, err := s.lower(n.Right)
		if err != nil {
			return nil, err
		}

		return s.Build(op, l, r)

	case *ast.CallNode:
		return s.lowerCall(n)

	default:
		return nil, unsupported(node, fmt.Sprintf("%T", node))
	}
}

func (s *Session) lowerCall(n *ast.CallNode) (*Expr, error) {
	callee, ok := n.Callee.(*ast.IdentifierNode)
	if !ok {
		return nil, unsupported(n, "callee is not a function name")
	}

	op, err := ParseOp(callee.Value)
	if err != nil || !op.IsFunc() {
		return nil, unsupported(n, "unknown function "+callee.Value)
	}

	args := make([]Operand, len(n.Arguments))

	for i, arg := range n.Arguments {
		x, err := s.lower(arg)
		if err != nil {
			return nil, err
		}

		args[i] = x
	}

	e, err := s.Build(op, args...)
	if err != nil {
		return nil, ErrInvalidSyntax.Wrap(err).With(
			slog.String("function", callee.Value),
		)
	}

	return e, nil
}

func unsupported(node ast.Node, issue string) *Error {
	return ErrInvalidSyntax.With(
		slog.String("issue", issue),
		slog.String("node", node.String()),
	)
}
