package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/mbsym/lang"
	"github.com/ardnew/mbsym/log"
)

// Check applies the source manifests and evaluates their checks, printing
// one result line per check.
type Check struct {
	Expr []string `arg:"" help:"Additional check expressions" name:"expr" optional:""`

	FailFast bool `help:"Stop at the first failing check" short:"x"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, checks, err := newSession(ctx, nil)
	if err != nil {
		return err
	}

	checks = append(checks, c.Expr...)
	if len(checks) == 0 {
		return ErrNoChecks
	}

	out := outputFrom(ctx)

	var failed []string

	for _, src := range checks {
		ok, err := s.Check(ctx, src)

		switch {
		case err != nil && !errors.Is(err, lang.ErrCheckFailed):
			return lang.WrapError(err).With(slog.String("check", src))

		case err != nil:
			log.WarnContext(ctx, "check error", slog.Any("error", err))
			fmt.Fprintf(out, "FAIL  %s\n", src)

			failed = append(failed, src)

		case ok:
			fmt.Fprintf(out, "ok    %s\n", src)

		default:
			fmt.Fprintf(out, "FAIL  %s\n", src)

			failed = append(failed, src)
		}

		if c.FailFast && len(failed) > 0 {
			break
		}
	}

	if len(failed) > 0 {
		return ErrChecksFailed.With(
			slog.Int("failed", len(failed)),
			slog.Int("total", len(checks)),
		)
	}

	return nil
}
