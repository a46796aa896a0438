package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/mbsym/lang"
	"github.com/ardnew/mbsym/log"
	"github.com/ardnew/mbsym/pkg"
)

// Settings are the session options shared by every command.
type Settings struct {
	Include    []string
	NoSimplify bool
	Strict     bool
	MaxDepth   int
}

type settingsKey struct{}

// WithSettings returns a new context.Context containing the given settings.
func WithSettings(ctx context.Context, s Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

func settingsFrom(ctx context.Context) Settings {
	s, ok := ctx.Value(settingsKey{}).(Settings)
	if !ok {
		return Settings{MaxDepth: lang.DefaultMaxDepth}
	}

	return s
}

// SearchPath returns the directories searched for included manifests: the
// include directories, then the entries of the MBSYM_PATH environment
// variable. Duplicates and entries that are not directories are dropped.
func SearchPath(include ...string) []string {
	list := mung.Make(
		mung.WithSubjectItems(filepath.SplitList(os.Getenv(pkg.Env("path")))...),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(include...),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(list)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// loader applies manifests to a session, resolving includes through a
// search path. Each file is applied at most once.
type loader struct {
	session *lang.Session
	search  []string
	applied map[string]struct{}
	checks  []string
}

// newSession creates a session from the settings in ctx, writing emitted
// lines to out, and applies every source manifest to it.
// The checks of all manifests are returned in application order.
func newSession(ctx context.Context, out io.Writer) (*lang.Session, []string, error) {
	set := settingsFrom(ctx)

	s := lang.NewSession(
		lang.WithOutput(out),
		lang.WithSimplify(!set.NoSimplify),
		lang.WithStrictConstants(set.Strict),
		lang.WithMaxDepth(set.MaxDepth),
		lang.WithLogger(log.Default()),
	)

	ld := loader{
		session: s,
		search:  SearchPath(set.Include...),
		applied: map[string]struct{}{},
	}

	srcs := sourceFilesFrom(ctx)
	if srcs == nil {
		return s, nil, nil
	}

	defer srcs.Close()

	for path, r := range srcs.All() {
		if err := ld.apply(ctx, path, r); err != nil {
			return nil, nil, err
		}
	}

	return s, ld.checks, nil
}

func (ld *loader) apply(ctx context.Context, path string, r io.Reader) error {
	if path != stdinSource {
		ld.applied[path] = struct{}{}
	}

	m, err := lang.LoadManifest(ctx, r)
	if err != nil {
		return lang.WrapError(err).With(slog.String("file", path))
	}

	base := "."
	if path != stdinSource {
		base = filepath.Dir(path)
	}

	for _, inc := range m.Include {
		if err := ld.include(ctx, base, inc); err != nil {
			return lang.WrapError(err).With(slog.String("file", path))
		}
	}

	log.DebugContext(ctx, "apply manifest",
		slog.String("file", path),
		slog.Int("declarations", len(m.Declarations)),
		slog.Int("checks", len(m.Checks)),
	)

	if err := ld.session.Apply(ctx, m); err != nil {
		return lang.WrapError(err).With(slog.String("file", path))
	}

	ld.checks = append(ld.checks, m.Checks...)

	return nil
}

func (ld *loader) include(ctx context.Context, base, name string) error {
	path, err := ld.find(base, name)
	if err != nil {
		return err
	}

	if _, ok := ld.applied[path]; ok {
		log.DebugContext(ctx, "include skipped",
			slog.String("include", name),
			slog.String("file", path),
		)

		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return lang.ErrReadInput.Wrap(err).With(slog.String("include", name))
	}
	defer f.Close()

	return ld.apply(ctx, path, f)
}

// find resolves an include name. Absolute names are used as is; relative
// names are tried against the including file's directory, then each search
// directory in order.
func (ld *loader) find(base, name string) (string, error) {
	candidates := []string{name}
	if !filepath.IsAbs(name) {
		candidates = []string{filepath.Join(base, name)}
		for _, dir := range ld.search {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}

	for _, c := range candidates {
		info, err := os.Stat(c)
		if err != nil || info.IsDir() {
			continue
		}

		resolved, err := filepath.EvalSymlinks(c)
		if err != nil {
			continue
		}

		abs, err := filepath.Abs(resolved)
		if err != nil {
			continue
		}

		return abs, nil
	}

	return "", ErrIncludeNotFound.With(
		slog.String("include", name),
		slog.String("search", strings.Join(ld.search, string(os.PathListSeparator))),
	)
}
