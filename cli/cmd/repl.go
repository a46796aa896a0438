package cmd

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/ardnew/mbsym/cli/cmd/repl"
	"github.com/ardnew/mbsym/log"
	"github.com/ardnew/mbsym/pkg"
)

// Repl applies the source manifests and starts an interactive session over
// the result.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return ErrNoTerminal
	}

	s, checks, err := newSession(ctx, io.Discard)
	if err != nil {
		return err
	}

	return repl.Run(ctx, s, checks, cacheDir(ctx), log.Default())
}

// cacheDir returns the cache directory named by the parsed command line, or
// the default cache directory.
func cacheDir(ctx context.Context) string {
	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok && dir != "" {
			return dir
		}
	}

	return pkg.CacheDir()
}
