package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/mbsym/lang"
	"github.com/ardnew/mbsym/pkg"
)

const (
	mainManifest = `
include: [common.yaml, lib.yaml]
declarations:
  - name: area
    type: real
    value: L ^ 2
checks:
  - abs(area - 2.25) < 1e-12
`

	commonManifest = `
include: [main.yaml]
declarations:
  - name: L
    type: real
    modifier: const
    value: 1.5
`

	libManifest = `
declarations:
  - name: N
    modifier: ifndef
    value: 3
checks:
  - N == 3
`
)

// sessionContext returns a context naming the given sources and settings,
// with command output written to out.
func sessionContext(t *testing.T, out *bytes.Buffer, set Settings, sources ...string) context.Context {
	t.Helper()

	if set.MaxDepth == 0 {
		set.MaxDepth = lang.DefaultMaxDepth
	}

	ctx := WithSettings(t.Context(), set)
	ctx = WithSourceFiles(ctx, sources)

	return WithOutput(ctx, out)
}

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestSettingsFrom(t *testing.T) {
	if got := settingsFrom(context.Background()); got.MaxDepth != lang.DefaultMaxDepth {
		t.Errorf("expected default max depth %d, got %d", lang.DefaultMaxDepth, got.MaxDepth)
	}

	want := Settings{Include: []string{"lib"}, NoSimplify: true, Strict: true, MaxDepth: 7}

	got := settingsFrom(WithSettings(context.Background(), want))
	if !slices.Equal(got.Include, want.Include) || got.NoSimplify != want.NoSimplify ||
		got.Strict != want.Strict || got.MaxDepth != want.MaxDepth {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestSearchPath(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	missing := filepath.Join(first, "missing")

	t.Setenv(pkg.Env("path"), second)

	got := SearchPath(first, missing)

	if len(got) == 0 || got[0] != first {
		t.Fatalf("expected %q first, got %v", first, got)
	}

	if !slices.Contains(got, second) {
		t.Errorf("expected %q from environment, got %v", second, got)
	}

	if slices.Contains(got, missing) {
		t.Errorf("expected %q to be dropped, got %v", missing, got)
	}
}

func TestNewSession_Includes(t *testing.T) {
	root, libdir := t.TempDir(), t.TempDir()

	main := writeFile(t, root, "main.yaml", mainManifest)
	writeFile(t, root, "common.yaml", commonManifest)
	writeFile(t, libdir, "lib.yaml", libManifest)

	var buf bytes.Buffer

	ctx := sessionContext(t, &buf, Settings{Include: []string{libdir}}, main)

	s, checks, err := newSession(ctx, outputFrom(ctx))
	if err != nil {
		t.Fatalf("newSession failed: %v", err)
	}

	want := []string{
		"set: const real L = 1.5;",
		"set: ifndef const integer N = 3;",
		"set: real area = L ^ 2;",
	}

	if got := lines(&buf); !slices.Equal(got, want) {
		t.Errorf("expected:\n%s\ngot:\n%s", strings.Join(want, "\n"), strings.Join(got, "\n"))
	}

	if !slices.Equal(checks, []string{"N == 3", "abs(area - 2.25) < 1e-12"}) {
		t.Errorf("unexpected checks %q", checks)
	}

	if s.Len() != 3 {
		t.Errorf("expected 3 declarations, got %d", s.Len())
	}
}

func TestNewSession_IncludeNotFound(t *testing.T) {
	root := t.TempDir()
	main := writeFile(t, root, "main.yaml", mainManifest)
	writeFile(t, root, "common.yaml", commonManifest)

	var buf bytes.Buffer

	ctx := sessionContext(t, &buf, Settings{}, main)

	_, _, err := newSession(ctx, outputFrom(ctx))
	if !errors.Is(err, ErrIncludeNotFound) {
		t.Errorf("expected ErrIncludeNotFound, got %v", err)
	}
}

func TestNewSession_Options(t *testing.T) {
	src := writeFile(t, t.TempDir(), "k.yaml", `
declarations:
  - name: k
    type: integer
    modifier: const
    value: 2 * 1
  - name: k
    type: integer
    value: 3
`)

	var buf bytes.Buffer

	ctx := sessionContext(t, &buf, Settings{NoSimplify: true, Strict: true}, src)

	_, _, err := newSession(ctx, outputFrom(ctx))
	if !errors.Is(err, lang.ErrConstantReassignment) {
		t.Errorf("expected ErrConstantReassignment, got %v", err)
	}

	if got := buf.String(); got != "set: const integer k = 2 * 1;\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestNewSession_InvalidManifest(t *testing.T) {
	src := writeFile(t, t.TempDir(), "bad.yaml", "unknown: 1\n")

	var buf bytes.Buffer

	ctx := sessionContext(t, &buf, Settings{}, src)

	_, _, err := newSession(ctx, outputFrom(ctx))
	if !errors.Is(err, lang.ErrInvalidSyntax) {
		t.Errorf("expected ErrInvalidSyntax, got %v", err)
	}
}

func TestNewSession_NoSources(t *testing.T) {
	s, checks, err := newSession(t.Context(), nil)
	if err != nil {
		t.Fatalf("newSession failed: %v", err)
	}

	if s.Len() != 0 || len(checks) != 0 {
		t.Errorf("expected empty session, got %d declarations and %d checks", s.Len(), len(checks))
	}
}
