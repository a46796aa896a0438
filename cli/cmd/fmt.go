package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/mbsym/lang"
)

// Fmt applies the source manifests and prints the resulting declarations in
// the chosen format.
type Fmt struct {
	Native   Native   `cmd:"" default:"withargs" help:"Format as MBDyn set: statements (default)."`
	JSON     JSON     `cmd:""                    help:"Format as JSON."`
	YAML     YAML     `cmd:""                    help:"Format as YAML."`
	Manifest Manifest `cmd:""                    help:"Format as a manifest that replays every statement."`
}

// Native prints the statement transcript of the session.
type Native struct{}

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, _, err := newSession(ctx, io.Discard)
	if err != nil {
		return err
	}

	return s.Format(ctx, outputFrom(ctx))
}

// JSON prints every declaration with its type, modifier, expression and
// resolved value as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output (0 for compact)" short:"i"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, _, err := newSession(ctx, io.Discard)
	if err != nil {
		return err
	}

	err = s.FormatJSON(ctx, outputFrom(ctx), j.Indent)
	if err != nil {
		return lang.WrapError(err).With(slog.String("format", "json"))
	}

	return nil
}

// YAML prints every declaration with its type, modifier, expression and
// resolved value as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)" short:"i"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, _, err := newSession(ctx, io.Discard)
	if err != nil {
		return err
	}

	err = s.FormatYAML(ctx, outputFrom(ctx), y.Indent)
	if err != nil {
		return lang.WrapError(err).With(slog.String("format", "yaml"))
	}

	return nil
}

// Manifest prints a manifest that reproduces the session when applied.
type Manifest struct{}

// Run executes the fmt manifest command.
func (*Manifest) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, _, err := newSession(ctx, io.Discard)
	if err != nil {
		return err
	}

	return s.Manifest().Encode(ctx, outputFrom(ctx))
}
