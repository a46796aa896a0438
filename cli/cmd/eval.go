package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/mbsym/lang"
)

// Eval resolves an expression against the declarations of the source
// manifests and prints its value.
type Eval struct {
	Expr []string `arg:"" help:"Expression to evaluate" name:"expr"`

	Type string `enum:",bool,integer,real,string" help:"Promote the result to this type" short:"t" default:""`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, _, err := newSession(ctx, io.Discard)
	if err != nil {
		return err
	}

	src := strings.Join(e.Expr, " ")

	x, err := s.ParseExpr(src)
	if err != nil {
		return lang.WrapError(err).With(slog.String("command", "eval"))
	}

	n, err := s.Resolve(x)
	if err != nil {
		return lang.WrapError(err).With(
			slog.String("command", "eval"),
			slog.String("expr", src),
		)
	}

	if e.Type != "" {
		typ, err := lang.ParseType(e.Type)
		if err != nil {
			return err
		}

		n, err = lang.Promote(n, typ)
		if err != nil {
			return lang.WrapError(err).With(slog.String("expr", src))
		}
	}

	_, err = fmt.Fprintln(outputFrom(ctx), n)

	return err
}

// Render prints an expression after simplification, in MBDyn syntax.
type Render struct {
	Expr []string `arg:"" help:"Expression to render" name:"expr"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, _, err := newSession(ctx, io.Discard)
	if err != nil {
		return err
	}

	x, err := s.ParseExpr(strings.Join(r.Expr, " "))
	if err != nil {
		return lang.WrapError(err).With(slog.String("command", "render"))
	}

	_, err = fmt.Fprintln(outputFrom(ctx), lang.Render(x))

	return err
}
