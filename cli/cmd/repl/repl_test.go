package repl

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/mbsym/lang"
	"github.com/ardnew/mbsym/log"
)

func testModel(t *testing.T, checks ...string) model {
	t.Helper()

	s := lang.NewSession(lang.WithStrictConstants(true))
	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	return newModel(t.Context(), s, checks, h, log.Make(io.Discard))
}

func TestModel_Evaluate(t *testing.T) {
	m := testModel(t)

	steps := []struct {
		input string
		want  string
	}{
		{"const real L = 1.5", "set: const real L = 1.5;"},
		{"ifndef integer N = 3", "set: ifndef const integer N = 3;"},
		{"ifndef integer N = 4", "skipped: N is already declared"},
		{"w = 0.25", "set: real w = 0.25;"},
		{"w = w * 2", "set: w = w * 2;"},
		{"L * 2", "L * 2 → 3.0 (real)"},
		{"w", "w → 0.5 (real)"},
		{"N + 1", "N + 1 → 4 (integer)"},
		{"L = 2", lang.ErrConstantReassignment.Error()},
		{"integer w = 1", lang.ErrTypeConflict.Error()},
		{"q + 1", lang.ErrUnknownIdentifier.Error()},
		{"double x = 1", ErrInvalidStatement.Error()},
	}

	for _, step := range steps {
		got := stripANSI(strings.Join(m.evaluate(step.input), "\n"))
		if !strings.Contains(got, step.want) {
			t.Errorf("%q: expected output containing %q, got %q", step.input, step.want, got)
		}
	}

	if m.out.Len() != 0 {
		t.Errorf("expected captured output to be drained, got %q", m.out.String())
	}

	if m.session.Len() != 3 {
		t.Errorf("expected 3 declarations, got %d", m.session.Len())
	}
}

func TestModel_ExecuteCommand(t *testing.T) {
	m := testModel(t, "L == 1.5", "L > 2")
	m.evaluate("const real L = 1.5")

	tests := []struct {
		input string
		want  []string
	}{
		{"list", []string{"L const real = 1.5"}},
		{"emit", []string{"set: const real L = 1.5;"}},
		{"check", []string{"ok    L == 1.5", "FAIL  L > 2"}},
		{"check L * 2 == 3", []string{"ok    L * 2 == 3"}},
		{"check", []string{"ok    L == 1.5"}},
		{"strict off", []string{"strict: off"}},
		{"strict", []string{"strict: off"}},
		{"simplify on", []string{"simplify: on"}},
		{"simplify maybe", []string{"expected on or off"}},
		{"bogus", []string{"unknown command: bogus"}},
	}

	for _, tt := range tests {
		var lines []string

		m, lines, _ = m.executeCommand(tt.input)

		got := stripANSI(strings.Join(lines, "\n"))
		for _, want := range tt.want {
			if !strings.Contains(got, want) {
				t.Errorf("%q: expected output containing %q, got %q", tt.input, want, got)
			}
		}
	}

	if m.session.Strict() {
		t.Error("expected strict to be disabled")
	}

	if _, _, cmd := m.executeCommand("quit"); cmd == nil {
		t.Error("expected quit to return a command")
	}
}

func TestModel_HistoryStep(t *testing.T) {
	m := testModel(t)

	for _, e := range []HistoryEntry{
		{Line: "L = 1", Mode: modeEval},
		{Line: "list", Mode: modeCtrl},
		{Line: "L + 1", Mode: modeEval},
	} {
		if _, err := m.history.WriteWithMode(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	m = m.historyStep(-1, false)
	if m.input.Value() != "L + 1" || m.mode != modeEval {
		t.Fatalf("expected eval entry L + 1, got %q in mode %d", m.input.Value(), m.mode)
	}

	m = m.historyStep(-1, false)
	if m.input.Value() != "list" || m.mode != modeCtrl {
		t.Fatalf("expected ctrl entry list, got %q in mode %d", m.input.Value(), m.mode)
	}

	m = m.switchToMode(modeEval)
	m.historyIdx = m.history.Len()

	m = m.historyStep(-1, true)
	m = m.historyStep(-1, true)

	if m.input.Value() != "L = 1" || m.mode != modeEval {
		t.Fatalf("expected eval entry L = 1, got %q in mode %d", m.input.Value(), m.mode)
	}

	m = m.historyStep(1, true)
	m = m.historyStep(1, true)

	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("expected cleared input past newest entry, got %q at %d",
			m.input.Value(), m.historyIdx)
	}
}

func TestEditManifestCommand_Apply(t *testing.T) {
	m := testModel(t)
	m.evaluate("const real L = 1.5")

	cmd := &editManifestCommand{session: m.session, rebuild: m.rebuild}

	tests := []struct {
		name    string
		data    string
		wantErr error
		wantLen int
	}{
		{
			name:    "declarations",
			data:    "declarations:\n  - {name: L, type: real, value: 2.5}\n  - {name: w, type: real, value: L / 10}\n",
			wantLen: 2,
		},
		{
			name:    "include",
			data:    "include: [other.yaml]\n",
			wantErr: ErrEditInclude,
		},
		{
			name:    "unknown_field",
			data:    "bogus: true\n",
			wantErr: lang.ErrInvalidSyntax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := cmd.apply(t.Context(), []byte(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}

			if err != nil {
				return
			}

			if s.Len() != tt.wantLen {
				t.Errorf("expected %d declarations, got %d", tt.wantLen, s.Len())
			}

			if s.Strict() != m.session.Strict() || s.MaxDepth() != m.session.MaxDepth() {
				t.Error("expected rebuilt session to keep options")
			}
		})
	}

	if m.session.Len() != 1 {
		t.Errorf("expected original session untouched, got %d declarations", m.session.Len())
	}
}
