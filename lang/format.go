package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Binding strength of each operator, loosest first.
const (
	precSum = iota + 1
	precProduct
	precPower
	precAtom // literals, references, negation, function calls
)

var opSymbols = map[Op]string{
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpPow: "^",
}

func precedence(e *Expr) int {
	if e.kind != KindBinary {
		return precAtom
	}

	switch e.op {
	case OpAdd, OpSub:
		return precSum

	case OpMul, OpDiv:
		return precProduct

	case OpPow:
		return precPower

	default:
		return precAtom
	}
}

// isInfix reports whether e renders as an infix binary operation.
func isInfix(e *Expr) bool {
	return e.kind == KindBinary && !e.op.IsFunc()
}

// isSigned reports whether e renders with a leading minus sign: a negation
// or a negative numeric literal.
func isSigned(e *Expr) bool {
	switch e.kind {
	case KindUnary:
		return e.op == OpNeg

	case KindLiteral:
		return e.value.IsNumeric() && e.value.Float() < 0

	default:
		return false
	}
}

// Render returns the MBDyn spelling of x with the fewest parentheses that
// preserve its structure:
//
//	(a + b) * c     a * b + c     a - (b - c)
//	-(a + b)        a / b ^ 2     a / (b * c)
//	(a + b) ^ 2     (-a) ^ 2      sin(x) ^ 2
//	a - (-1.5)      a * (-b)      a / (-1)
//
// A signed right operand of an infix operator is always parenthesized, so
// no two operator symbols are ever adjacent.
//
// Render is pure; it neither resolves references nor consults a session.
func Render(x Operand) string {
	if x == nil {
		return ""
	}

	e := x.Expr()
	if e == nil {
		return ""
	}

	var sb strings.Builder

	render(&sb, e)

	return sb.String()
}

// RenderList renders each operand and joins them with ", ", the spelling of
// a vector or matrix row.
func RenderList(operands ...Operand) string {
	part := make([]string, len(operands))
	for i, x := range operands {
		part[i] = Render(x)
	}

	return strings.Join(part, ", ")
}

func render(sb *strings.Builder, e *Expr) {
	switch e.kind {
	case KindLiteral:
		sb.WriteString(e.value.String())

	case KindReference:
		sb.WriteString(e.name)

	case KindUnary:
		if e.op == OpNeg {
			sb.WriteByte('-')
			renderChild(sb, e.left, isInfix(e.left) || isSigned(e.left))

			return
		}

		sb.WriteString(e.op.String())
		sb.WriteByte('(')
		render(sb, e.left)
		sb.WriteByte(')')

	case KindBinary:
		if e.op.IsFunc() {
			sb.WriteString(e.op.String())
			sb.WriteByte('(')
			render(sb, e.left)
			sb.WriteString(", ")
			render(sb, e.right)
			sb.WriteByte(')')

			return
		}

		left, right := wrapOperands(e)

		renderChild(sb, e.left, left)
		sb.WriteByte(' ')
		sb.WriteString(opSymbols[e.op])
		sb.WriteByte(' ')
		renderChild(sb, e.right, right)
	}
}

// wrapOperands reports whether the left and right operands of the infix
// node e need parentheses. A signed operand on the right is always wrapped.
func wrapOperands(e *Expr) (left, right bool) {
	l, r := e.left, e.right

	switch e.op {
	case OpAdd:
		right = isSigned(r)

	case OpSub:
		right = (isInfix(r) && precedence(r) <= precSum) || isSigned(r)

	case OpMul:
		left = precedence(l) < precProduct
		right = precedence(r) < precProduct || isSigned(r)

	case OpDiv:
		left = precedence(l) < precProduct
		right = (isInfix(r) && precedence(r) <= precProduct) || isSigned(r)

	case OpPow:
		left = isInfix(l) || isSigned(l)
		right = isInfix(r) || isSigned(r)
	}

	return left, right
}

func renderChild(sb *strings.Builder, e *Expr, wrap bool) {
	if wrap {
		sb.WriteByte('(')
		render(sb, e)
		sb.WriteByte(')')

		return
	}

	render(sb, e)
}

// Format writes every statement emitted so far, one per line.
func (s *Session) Format(_ context.Context, w io.Writer) error {
	for _, st := range s.record {
		if _, err := fmt.Fprintln(w, st.Line); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}

// FormatJSON writes the declarations as JSON to the writer.
func (s *Session) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(s.ToMap(), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(s.ToMap())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the declarations as YAML to the writer.
func (s *Session) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(
		ctx,
		s.ToMap(),
		opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}
