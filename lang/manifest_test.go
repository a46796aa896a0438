package lang

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

const beamManifest = `
declarations:
  - name: L
    type: real
    modifier: const
    value: 1.5
  - name: N
    modifier: ifndef
    value: 3
  - name: area
    type: real
    value: L ^ 2
  - name: label
    type: string
    value: beam
  - name: enabled
    value: true
  - name: N
    modifier: ifndef
    value: 4
checks:
  - abs(area - 2.25) < 1e-12
  - N == 3
  - enabled
`

func TestManifest_Apply(t *testing.T) {
	m, err := LoadManifest(t.Context(), strings.NewReader(beamManifest))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}

	if len(m.Declarations) != 6 || len(m.Checks) != 3 {
		t.Fatalf("expected 6 declarations and 3 checks, got %d and %d",
			len(m.Declarations), len(m.Checks))
	}

	var buf bytes.Buffer

	s := NewSession(WithOutput(&buf))
	if err := s.Apply(t.Context(), m); err != nil {
		t.Fatalf("apply error: %v", err)
	}

	want := []string{
		"set: const real L = 1.5;",
		"set: ifndef const integer N = 3;",
		"set: real area = L ^ 2;",
		`set: string label = "beam";`,
		"set: bool enabled = true;",
	}

	if got := lines(&buf); !slices.Equal(got, want) {
		t.Errorf("expected:\n%s\ngot:\n%s", strings.Join(want, "\n"), strings.Join(got, "\n"))
	}

	if err := s.CheckAll(t.Context(), m.Checks); err != nil {
		t.Errorf("check error: %v", err)
	}
}

func TestManifest_Options(t *testing.T) {
	src := `
simplify: false
strict: true
include: [base.yaml, materials.yaml]
declarations:
  - name: k
    type: integer
    modifier: const
    value: k0 * 1
`

	m, err := LoadManifest(t.Context(), strings.NewReader(src))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}

	if !slices.Equal(m.Include, []string{"base.yaml", "materials.yaml"}) {
		t.Errorf("unexpected includes %v", m.Include)
	}

	var buf bytes.Buffer

	s := NewSession(WithOutput(&buf))
	if err := s.Apply(t.Context(), m); err != nil {
		t.Fatalf("apply error: %v", err)
	}

	if s.Simplify() || !s.Strict() {
		t.Errorf("expected simplify off and strict on, got %v and %v", s.Simplify(), s.Strict())
	}

	if got := buf.String(); got != "set: const integer k = k0 * 1;\n" {
		t.Errorf("unexpected output %q", got)
	}

	_, _, err = s.Declare("k", TypeInteger, ModifierPlain, Int(2))
	if !errors.Is(err, ErrConstantReassignment) {
		t.Errorf("expected ErrConstantReassignment, got %v", err)
	}
}

func TestManifest_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{
			name: "type_conflict",
			src: `
declarations:
  - {name: v, type: real, value: 1}
  - {name: v, type: integer, value: 2}
`,
			want: ErrTypeConflict,
		},
		{
			name: "division_by_zero",
			src: `
declarations:
  - {name: v, type: real, value: 1 / 0}
`,
			want: ErrDivisionByZero,
		},
		{
			name: "bad_type",
			src: `
declarations:
  - {name: v, type: vector, value: 1}
`,
			want: ErrInvalidType,
		},
		{
			name: "bad_modifier",
			src: `
declarations:
  - {name: v, modifier: static, value: 1}
`,
			want: ErrInvalidModifier,
		},
		{
			name: "missing_value",
			src: `
declarations:
  - {name: v, type: real}
`,
			want: ErrMalformedOperand,
		},
		{
			name: "unsupported_value",
			src: `
declarations:
  - {name: v, type: real, value: [1, 2]}
`,
			want: ErrMalformedOperand,
		},
		{
			name: "unknown_inferred",
			src: `
declarations:
  - {name: v, value: w + 1}
`,
			want: ErrUnknownIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := LoadManifest(t.Context(), strings.NewReader(tt.src))
			if err != nil {
				t.Fatalf("load error: %v", err)
			}

			err = quiet().Apply(t.Context(), m)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}

			if !strings.Contains(err.Error(), "name=v") {
				t.Errorf("expected entry name in %q", err.Error())
			}
		})
	}
}

func TestLoadManifest_Invalid(t *testing.T) {
	for _, src := range []string{
		"declarations: {",
		"unknown_key: 1",
	} {
		if _, err := LoadManifest(t.Context(), strings.NewReader(src)); !errors.Is(err, ErrInvalidSyntax) {
			t.Errorf("%q: expected ErrInvalidSyntax, got %v", src, err)
		}
	}
}

func TestManifest_Canceled(t *testing.T) {
	m, err := LoadManifest(t.Context(), strings.NewReader(beamManifest))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	s := quiet()
	if err := s.Apply(ctx, m); err == nil {
		t.Error("expected error from canceled context")
	}

	if s.Len() != 0 {
		t.Errorf("expected no declarations, got %d", s.Len())
	}
}

func TestSession_Manifest(t *testing.T) {
	m, err := LoadManifest(t.Context(), strings.NewReader(beamManifest))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}

	var first bytes.Buffer

	s := NewSession(WithOutput(&first))
	if err := s.Apply(t.Context(), m); err != nil {
		t.Fatalf("apply error: %v", err)
	}

	if _, _, err := s.Declare("N", TypeInteger, ModifierPlain, s.Add(Ref("N"), Int(1))); err != nil {
		t.Fatalf("declare error: %v", err)
	}

	var doc bytes.Buffer
	if err := s.Manifest().Encode(t.Context(), &doc); err != nil {
		t.Fatalf("encode error: %v", err)
	}

	replay, err := LoadManifest(t.Context(), &doc)
	if err != nil {
		t.Fatalf("load error: %v\n%s", err, doc.String())
	}

	var second bytes.Buffer

	r := NewSession(WithOutput(&second))
	if err := r.Apply(t.Context(), replay); err != nil {
		t.Fatalf("replay error: %v", err)
	}

	if got, want := lines(&second), lines(&first); !slices.Equal(got, want) {
		t.Errorf("expected:\n%s\ngot:\n%s", strings.Join(want, "\n"), strings.Join(got, "\n"))
	}

	n, err := r.Resolve(Ref("N"))
	if err != nil || n.Int() != 4 {
		t.Errorf("expected N = 4, got %v (%v)", n, err)
	}
}
