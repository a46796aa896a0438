package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

// beamContext returns a session context over the test manifests.
func beamContext(t *testing.T, out *bytes.Buffer) context.Context {
	t.Helper()

	dir := t.TempDir()
	writeFile(t, dir, "common.yaml", commonManifest)
	writeFile(t, dir, "lib.yaml", libManifest)
	main := writeFile(t, dir, "main.yaml", mainManifest)

	return sessionContext(t, out, Settings{Include: []string{dir}}, main)
}

func TestFmtNativeRun(t *testing.T) {
	var buf bytes.Buffer

	if err := (&Native{}).Run(beamContext(t, &buf)); err != nil {
		t.Fatalf("Native.Run failed: %v", err)
	}

	want := []string{
		"set: const real L = 1.5;",
		"set: ifndef const integer N = 3;",
		"set: real area = L ^ 2;",
	}

	if got := lines(&buf); !slices.Equal(got, want) {
		t.Errorf("expected:\n%s\ngot:\n%s", strings.Join(want, "\n"), strings.Join(got, "\n"))
	}
}

type fmtEntry struct {
	Type     string `json:"type"     yaml:"type"`
	Modifier string `json:"modifier" yaml:"modifier"`
	Expr     string `json:"expr"     yaml:"expr"`
	Value    any    `json:"value"    yaml:"value"`
}

func checkEntries(t *testing.T, got map[string]fmtEntry) {
	t.Helper()

	if len(got) != 3 {
		t.Fatalf("expected 3 declarations, got %d", len(got))
	}

	if e := got["L"]; e.Type != "real" || e.Modifier != "const" || e.Expr != "1.5" {
		t.Errorf("unexpected L entry %+v", e)
	}

	if e := got["N"]; e.Type != "integer" || e.Modifier != "ifndef" {
		t.Errorf("unexpected N entry %+v", e)
	}

	if e := got["area"]; e.Expr != "L ^ 2" || e.Value != 2.25 {
		t.Errorf("unexpected area entry %+v", e)
	}
}

func TestFmtJSONRun(t *testing.T) {
	tests := []struct {
		name   string
		indent int
		lines  int
	}{
		{name: "indented", indent: 2, lines: 20},
		{name: "compact", indent: 0, lines: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			if err := (&JSON{Indent: tt.indent}).Run(beamContext(t, &buf)); err != nil {
				t.Fatalf("JSON.Run failed: %v", err)
			}

			if n := len(lines(&buf)); n != tt.lines {
				t.Errorf("expected %d lines, got %d", tt.lines, n)
			}

			var got map[string]fmtEntry
			if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("invalid JSON output: %v", err)
			}

			checkEntries(t, got)
		})
	}
}

func TestFmtYAMLRun(t *testing.T) {
	for _, indent := range []int{0, 2, 4} {
		var buf bytes.Buffer

		if err := (&YAML{Indent: indent}).Run(beamContext(t, &buf)); err != nil {
			t.Fatalf("YAML.Run(indent=%d) failed: %v", indent, err)
		}

		var got map[string]fmtEntry
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid YAML output (indent=%d): %v", indent, err)
		}

		checkEntries(t, got)
	}
}

func TestFmtManifestRun(t *testing.T) {
	var buf bytes.Buffer

	if err := (&Manifest{}).Run(beamContext(t, &buf)); err != nil {
		t.Fatalf("Manifest.Run failed: %v", err)
	}

	path := writeFile(t, t.TempDir(), "replay.yaml", buf.String())

	var replay bytes.Buffer

	if err := (&Emit{}).Run(sessionContext(t, &replay, Settings{}, path)); err != nil {
		t.Fatalf("Emit.Run failed on replay: %v\n%s", err, buf.String())
	}

	want := []string{
		"set: const real L = 1.5;",
		"set: ifndef const integer N = 3;",
		"set: real area = L ^ 2;",
	}

	if got := lines(&replay); !slices.Equal(got, want) {
		t.Errorf("expected:\n%s\ngot:\n%s", strings.Join(want, "\n"), strings.Join(got, "\n"))
	}
}
