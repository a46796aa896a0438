package lang

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/goccy/go-yaml"
)

const manifestIndent = 2

// Manifest is a YAML document listing declarations to make in order, and
// checks to run against the resulting session.
//
//	simplify: true
//	strict: false
//	include: [materials.yaml]
//	declarations:
//	  - name: L
//	    type: real
//	    modifier: const
//	    value: 1.5
//	  - name: area
//	    type: real
//	    value: L ^ 2
//	checks:
//	  - abs(area - 2.25) < 1e-12
type Manifest struct {
	// Simplify and Strict override the session options when set.
	Simplify *bool `yaml:"simplify,omitempty"`
	Strict   *bool `yaml:"strict,omitempty"`

	// Include names other manifests to apply first. They are located by the
	// caller; Apply does not read files.
	Include []string `yaml:"include,omitempty"`

	Declarations []Entry  `yaml:"declarations,omitempty"`
	Checks       []string `yaml:"checks,omitempty"`
}

// Entry is one declaration of a Manifest.
type Entry struct {
	Name string `yaml:"name"`

	// Type is a type keyword. If empty, the type of the resolved value is
	// used.
	Type string `yaml:"type,omitempty"`

	// Modifier is plain (default), const, or ifndef.
	Modifier string `yaml:"modifier,omitempty"`

	// Value is a number, a boolean, or a string. Strings are expression
	// source, except for entries of type string where they are the text.
	Value any `yaml:"value"`
}

// LoadManifest decodes a manifest from r.
func LoadManifest(ctx context.Context, r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "manifest"))
	}

	var m Manifest

	err = yaml.UnmarshalContext(ctx, data, &m, yaml.DisallowUnknownField())
	if err != nil {
		return nil, ErrInvalidSyntax.Wrap(err).
			With(slog.String("source", "manifest"))
	}

	return &m, nil
}

// Apply declares every entry of m in order, after applying its session
// options. It stops at the first error.
func (s *Session) Apply(ctx context.Context, m *Manifest) error {
	if m.Simplify != nil {
		s.SetSimplify(*m.Simplify)
	}

	if m.Strict != nil {
		s.SetStrict(*m.Strict)
	}

	for i, e := range m.Declarations {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, event, err := s.declareEntry(e)
		if err != nil {
			return WrapError(err).With(
				slog.Int("entry", i),
				slog.String("name", e.Name),
			)
		}

		s.logger.DebugContext(ctx, "manifest entry",
			slog.String("name", e.Name),
			slog.String("event", event.String()),
		)
	}

	return nil
}

func (s *Session) declareEntry(e Entry) (*Declaration, Event, error) {
	mod, err := ParseModifier(e.Modifier)
	if err != nil {
		return nil, 0, err
	}

	var (
		typ      Type
		explicit = e.Type != ""
	)

	if explicit {
		typ, err = ParseType(e.Type)
		if err != nil {
			return nil, 0, err
		}
	}

	value, err := s.entryValue(e.Value, explicit && typ == TypeString)
	if err != nil {
		return nil, 0, err
	}

	if !explicit {
		n, err := s.Resolve(value)
		if err != nil {
			return nil, 0, err
		}

		typ = n.Type()
	}

	return s.Declare(e.Name, typ, mod, value)
}

// entryValue converts a decoded YAML scalar to an expression.
func (s *Session) entryValue(v any, text bool) (*Expr, error) {
	switch v := v.(type) {
	case nil:
		return nil, ErrMalformedOperand.With(slog.String("issue", "missing value"))

	case bool:
		return Bool(v), nil

	case int:
		return Int(int64(v)), nil

	case int64:
		return Int(v), nil

	case uint64:
		if v > math.MaxInt64 {
			return nil, ErrMalformedOperand.With(
				slog.String("issue", "integer overflow"),
				slog.Uint64("value", v),
			)
		}

		return Int(int64(v)), nil

	case float64:
		return Real(v), nil

	case string:
		if text {
			return Str(v), nil
		}

		return s.ParseExpr(v)

	default:
		return nil, ErrMalformedOperand.With(
			slog.String("issue", "unsupported value"),
			slog.String("type", fmt.Sprintf("%T", v)),
		)
	}
}

// Manifest returns a manifest that replays the statements of s in order.
// Applying it to an empty session emits the same lines.
func (s *Session) Manifest() *Manifest {
	simplify := s.Simplify()

	m := Manifest{
		Simplify:     &simplify,
		Declarations: make([]Entry, 0, len(s.record)),
	}

	for _, st := range s.record {
		e := Entry{
			Name:  st.Name,
			Type:  st.Type.String(),
			Value: st.Text,
		}

		if st.Event == EventCreated && st.Modifier != ModifierPlain {
			e.Modifier = st.Modifier.String()
		}

		m.Declarations = append(m.Declarations, e)
	}

	return &m
}

// Encode writes m to w as YAML.
func (m *Manifest) Encode(ctx context.Context, w io.Writer) error {
	data, err := yaml.MarshalContext(ctx, m,
		yaml.Indent(manifestIndent),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	if _, err := w.Write(data); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
