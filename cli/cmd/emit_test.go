package cmd

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/mbsym/lang"
)

func TestEmitRun(t *testing.T) {
	tests := []struct {
		name    string
		check   bool
		extra   string
		wantErr error
	}{
		{name: "emit_only"},
		{name: "emit_and_check", check: true},
		{
			name:    "failing_check",
			check:   true,
			extra:   "checks:\n  - N == 4\n",
			wantErr: lang.ErrCheckFailed,
		},
		{
			name:  "failing_check_ignored",
			extra: "checks:\n  - N == 4\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "lib.yaml", libManifest)
			writeFile(t, dir, "common.yaml", commonManifest)
			main := writeFile(t, dir, "main.yaml", mainManifest)

			sources := []string{main}
			if tt.extra != "" {
				sources = append(sources, writeFile(t, dir, "extra.yaml", tt.extra))
			}

			var buf bytes.Buffer

			err := (&Emit{Check: tt.check}).Run(sessionContext(t, &buf, Settings{}, sources...))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}

			want := []string{
				"set: const real L = 1.5;",
				"set: ifndef const integer N = 3;",
				"set: real area = L ^ 2;",
			}

			if got := lines(&buf); !slices.Equal(got, want) {
				t.Errorf("expected:\n%s\ngot:\n%s",
					strings.Join(want, "\n"), strings.Join(got, "\n"))
			}
		})
	}
}
