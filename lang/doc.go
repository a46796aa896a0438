// Package lang is the expression and declaration engine of an MBDyn input
// generator. It builds symbolic arithmetic expressions, declares named
// variables, and renders both as MBDyn text.
//
// # Expressions
//
// An [Expr] is an immutable tree of literals, references to declared names,
// and unary or binary operators. Trees are built with the combinators of a
// [Session], which simplify algebraic identities as they build. Operands
// count as zero or one when they are such literals, or references to names
// currently bound to such values:
//
//	s := lang.NewSession()
//	x := s.Add(lang.Ref("L"), lang.Int(0))   // L
//	y := s.Mul(lang.Ref("L"), lang.Int(0))   // 0
//	z := s.Mul(s.Add(lang.Ref("a"), lang.Ref("b")), lang.Ref("c"))
//	lang.Render(z)                           // (a + b) * c
//
// Division resolves its divisor immediately and fails with
// [ErrDivisionByZero] if it is zero.
//
// # Declarations
//
// [Session.Declare] binds a name to an expression and writes one line to the
// session output:
//
//	set: const real L = 1.5;
//	set: real area = L ^ 2;
//	set: area = 2 * L ^ 2;
//
// Redeclaring a name with the same type writes an assignment; with a
// different type it fails with [ErrTypeConflict]. An ifndef declaration of
// an existing name does nothing.
//
// References resolve lazily: [Session.Resolve] always reads the expression
// currently bound to each name, so reassignments are visible everywhere the
// name is used. Reference cycles are reported as [ErrReferenceCycle].
//
// # Sources
//
// Expressions may also be written as text ([Session.ParseExpr]), and whole
// sets of declarations as YAML ([LoadManifest], [Session.Apply]). Parsing is
// done by expr-lang; the MBDyn text this package writes is never read back.
//
// Sessions are not safe for concurrent use. Separate sessions share nothing
// but the parse cache.
package lang
