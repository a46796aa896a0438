package cmd

import (
	"errors"
	"os"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/ardnew/mbsym/pkg"
)

func TestReplRun_NoTerminal(t *testing.T) {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		t.Skip("stdin is a terminal")
	}

	if err := (&Repl{}).Run(t.Context()); !errors.Is(err, ErrNoTerminal) {
		t.Errorf("expected ErrNoTerminal, got %v", err)
	}
}

func TestCacheDir(t *testing.T) {
	if got := cacheDir(t.Context()); got != pkg.CacheDir() {
		t.Errorf("expected default cache dir %q, got %q", pkg.CacheDir(), got)
	}

	dir := t.TempDir()

	var flags struct{}

	parser, err := kong.New(&flags, kong.Vars{CacheIdentifier: dir})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	if got := cacheDir(WithContext(t.Context(), ktx)); got != dir {
		t.Errorf("expected cache dir %q, got %q", dir, got)
	}
}
