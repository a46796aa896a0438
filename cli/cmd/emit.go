package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/mbsym/log"
)

// Emit applies the source manifests and writes one MBDyn "set:" line per
// declaration as it is made.
type Emit struct {
	Check bool `help:"Run manifest checks after emitting" negatable:""`
}

// Run executes the emit command.
func (e *Emit) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, checks, err := newSession(ctx, outputFrom(ctx))
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "emitted declarations", slog.Int("count", s.Len()))

	if !e.Check || len(checks) == 0 {
		return nil
	}

	return s.CheckAll(ctx, checks)
}
