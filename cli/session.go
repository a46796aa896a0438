package cli

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/mbsym/cli/cmd"
	"github.com/ardnew/mbsym/lang"
	"github.com/ardnew/mbsym/log"
	"github.com/ardnew/mbsym/pkg"
)

type sessionConfig struct {
	Include    []string `help:"Add directory to the manifest include search path" placeholder:"DIR" short:"I" type:"path"`
	NoSimplify bool     `help:"Disable eager algebraic simplification"`
	Strict     bool     `help:"Reject re-declaration of const and ifndef names"`
	MaxDepth   int      `default:"${maxDepth}" help:"Maximum reference depth followed during resolution (0 for unlimited)"`
}

func (*sessionConfig) vars() kong.Vars {
	return kong.Vars{
		"maxDepth": strconv.Itoa(lang.DefaultMaxDepth),
	}
}

func (*sessionConfig) group() kong.Group {
	var group kong.Group

	group.Key = "session"
	group.Title = "Session options"
	group.Description = "Included manifests are also searched for in the " +
		pkg.Env("path") + " directory list."

	return group
}

func (f *sessionConfig) settings(ctx context.Context) cmd.Settings {
	s := cmd.Settings{
		Include:    f.Include,
		NoSimplify: f.NoSimplify,
		Strict:     f.Strict,
		MaxDepth:   f.MaxDepth,
	}

	log.DebugContext(ctx, "session settings",
		slog.Any("include", s.Include),
		slog.Bool("simplify", !s.NoSimplify),
		slog.Bool("strict", s.Strict),
		slog.Int("max_depth", s.MaxDepth),
	)

	return s
}
