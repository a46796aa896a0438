package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/mbsym/cli/cmd"
	"github.com/ardnew/mbsym/pkg"
)

// CLI is the top-level command-line interface for mbsym.
type CLI struct {
	Log     logConfig     `embed:"" group:"log"     prefix:"log-"`
	Pprof   pprofConfig   `embed:"" group:"pprof"   prefix:"pprof-"`
	Session sessionConfig `embed:"" group:"session"`

	Source []string `help:"Input manifest file(s) or '-' for stdin" name:"source" short:"s" type:"existingfile"`

	Version kong.VersionFlag `help:"Print version and exit"`

	Init   cmd.Init   `cmd:"" help:"Initialize configuration file"`
	Emit   cmd.Emit   `cmd:"" help:"Emit MBDyn set: statements"        default:"1"`
	Eval   cmd.Eval   `cmd:"" help:"Evaluate an expression"`
	Render cmd.Render `cmd:"" help:"Render a simplified expression"`
	Fmt    cmd.Fmt    `cmd:"" help:"Format declarations"`
	Check  cmd.Check  `cmd:"" help:"Evaluate manifest checks"`
	Repl   cmd.Repl   `cmd:"" help:"Start an interactive session"`
}

// Run executes the mbsym CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cachePath(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cli.Session.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Session.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve(ctx, baseConfig), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSourceFiles(ctx, cli.Source)
	ctx = cmd.WithSettings(ctx, cli.Session.settings(ctx))

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
