package lang

// This file implements the declaration registry of a Session. Every declared
// name lives in one backing map; the const and ifndef partitions are views
// recorded alongside it. Declaring a name emits one "set:" line to the
// session output.

import (
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"unicode"
)

// Modifier qualifies a declaration.
type Modifier int

const (
	// ModifierPlain declares an ordinary variable.
	ModifierPlain Modifier = iota

	// ModifierConstant declares a const variable.
	ModifierConstant

	// ModifierDefineIfAbsent declares a variable only if the name is not
	// already declared, like a preprocessor include guard.
	ModifierDefineIfAbsent
)

// String returns the modifier name.
func (m Modifier) String() string {
	switch m {
	case ModifierPlain:
		return "plain"

	case ModifierConstant:
		return "const"

	case ModifierDefineIfAbsent:
		return "ifndef"

	default:
		return "unknown"
	}
}

// keyword returns the text written before the type keyword in a declaration.
func (m Modifier) keyword() string {
	switch m {
	case ModifierConstant:
		return "const "

	case ModifierDefineIfAbsent:
		return "ifndef const "

	default:
		return ""
	}
}

// ParseModifier parses a modifier name. The empty string is ModifierPlain.
func ParseModifier(s string) (Modifier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain":
		return ModifierPlain, nil

	case "const", "constant":
		return ModifierConstant, nil

	case "ifndef", "ifndef const", "define":
		return ModifierDefineIfAbsent, nil

	default:
		return 0, ErrInvalidModifier.With(slog.String("modifier", s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Modifier) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Modifier) UnmarshalText(text []byte) error {
	v, err := ParseModifier(string(text))
	if err != nil {
		return err
	}

	*m = v

	return nil
}

// Event describes the outcome of a declaration.
type Event int

const (
	// EventCreated means a new name was declared.
	EventCreated Event = iota

	// EventReassigned means an existing name was bound to a new expression.
	EventReassigned

	// EventSkipped means an ifndef declaration found the name already
	// declared and did nothing.
	EventSkipped
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case EventCreated:
		return "created"

	case EventReassigned:
		return "reassigned"

	case EventSkipped:
		return "skipped"

	default:
		return "unknown"
	}
}

// Declaration is a named, typed binding tracked by a Session.
//
// The bound expression changes when the name is reassigned; references to
// the name always observe the current binding.
type Declaration struct {
	name     string
	typ      Type
	modifier Modifier
	bound    *Expr
}

// Name returns the declared name.
func (d *Declaration) Name() string { return d.name }

// Type returns the declared type.
func (d *Declaration) Type() Type { return d.typ }

// Modifier returns the modifier the name was first declared with.
func (d *Declaration) Modifier() Modifier { return d.modifier }

// Bound returns the expression currently bound to the name.
func (d *Declaration) Bound() *Expr { return d.bound }

// Expr implements Operand. A declaration takes part in expressions as a
// reference to its name.
func (d *Declaration) Expr() *Expr { return Ref(d.name) }

// String returns the declared name, which is how a declaration is spelled
// wherever it is used.
func (d *Declaration) String() string { return d.name }

// LogValue implements slog.LogValuer.
func (d *Declaration) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", d.name),
		slog.String("type", d.typ.String()),
		slog.String("modifier", d.modifier.String()),
		slog.String("expr", Render(d.bound)),
	)
}

// Environment maps declared names to their declarations.
type Environment map[string]*Declaration

// Lookup returns the declaration of name, if any.
func (env Environment) Lookup(name string) (*Declaration, bool) {
	d, ok := env[name]

	return d, ok
}

// Names returns the declared names in lexical order.
func (env Environment) Names() []string {
	return slices.Sorted(maps.Keys(env))
}

// Statement is one line emitted by a Session.
type Statement struct {
	Event Event
	Name  string
	Type  Type
	// Modifier is the modifier of the declaration at the time of the
	// statement.
	Modifier Modifier
	// Text is the rendered right-hand side, without quotes.
	Text string
	// Line is the complete emitted line, without a trailing newline.
	Line string
}

// Declare binds name to value.
//
// An ifndef declaration of a name that already exists does nothing and
// returns the existing declaration with EventSkipped. Otherwise, declaring
// an existing name with the same type rebinds it and emits an assignment;
// a different type fails with ErrTypeConflict. A new name is inserted and a
// declaration line is emitted.
//
// When a reassignment refers to the name being reassigned, that reference
// is bound to the previous expression, so "x = x + 1" increments x.
func (s *Session) Declare(
	name string,
	typ Type,
	mod Modifier,
	value Operand,
) (*Declaration, Event, error) {
	if !isIdentifier(name) {
		return nil, 0, ErrMalformedOperand.With(
			slog.String("issue", "invalid declaration name"),
			slog.String("name", name),
		)
	}

	if typ < TypeBoolean || typ > TypeString {
		return nil, 0, ErrInvalidType.With(slog.Int("type", int(typ)))
	}

	if mod < ModifierPlain || mod > ModifierDefineIfAbsent {
		return nil, 0, ErrInvalidModifier.With(slog.Int("modifier", int(mod)))
	}

	if value == nil || value.Expr() == nil {
		return nil, 0, ErrMalformedOperand.With(
			slog.String("issue", "missing expression"),
			slog.String("name", name),
		)
	}

	expr := value.Expr()

	if d, ok := s.decls[name]; ok {
		if mod == ModifierDefineIfAbsent {
			s.logger.Trace("declare skipped",
				slog.String("name", name),
				slog.String("existing_type", d.typ.String()),
			)

			return d, EventSkipped, nil
		}

		return s.reassign(d, typ, expr)
	}

	d := &Declaration{
		name:     name,
		typ:      typ,
		modifier: mod,
		bound:    expr,
	}

	err := s.emit(EventCreated, d, expr)
	if err != nil {
		return nil, 0, err
	}

	s.decls[name] = d
	s.order = append(s.order, name)

	switch mod {
	case ModifierConstant:
		s.constants[name] = struct{}{}

	case ModifierDefineIfAbsent:
		s.defines[name] = struct{}{}
	}

	s.logger.Trace("declare created", slog.Any("declaration", d))

	return d, EventCreated, nil
}

// DeclareConst declares a const variable.
func (s *Session) DeclareConst(
	name string,
	typ Type,
	value Operand,
) (*Declaration, Event, error) {
	return s.Declare(name, typ, ModifierConstant, value)
}

// DeclareIfAbsent declares a variable unless name is already declared.
func (s *Session) DeclareIfAbsent(
	name string,
	typ Type,
	value Operand,
) (*Declaration, Event, error) {
	return s.Declare(name, typ, ModifierDefineIfAbsent, value)
}

func (s *Session) reassign(
	d *Declaration,
	typ Type,
	expr *Expr,
) (*Declaration, Event, error) {
	if d.typ != typ {
		return nil, 0, ErrTypeConflict.With(
			slog.String("name", d.name),
			slog.String("existing_type", d.typ.String()),
			slog.String("new_type", typ.String()),
		)
	}

	if s.opts.strict {
		if s.IsConstant(d.name) || s.IsDefine(d.name) {
			return nil, 0, ErrConstantReassignment.With(
				slog.String("name", d.name),
				slog.String("modifier", d.modifier.String()),
			)
		}
	}

	err := s.emit(EventReassigned, d, expr)
	if err != nil {
		return nil, 0, err
	}

	d.bound = substitute(expr, d.name, d.bound)

	s.logger.Trace("declare reassigned", slog.Any("declaration", d))

	return d, EventReassigned, nil
}

// emit writes and records the line for a declaration event.
func (s *Session) emit(event Event, d *Declaration, expr *Expr) error {
	text := Render(expr)

	rhs := text
	if d.typ == TypeString {
		rhs = `"` + text + `"`
	}

	var line string

	if event == EventCreated {
		line = fmt.Sprintf("set: %s%s %s = %s;", d.modifier.keyword(), d.typ, d.name, rhs)
	} else {
		line = fmt.Sprintf("set: %s = %s;", d.name, rhs)
	}

	_, err := fmt.Fprintln(s.output, line)
	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("name", d.name))
	}

	s.record = append(s.record, Statement{
		Event:    event,
		Name:     d.name,
		Type:     d.typ,
		Modifier: d.modifier,
		Text:     text,
		Line:     line,
	})

	return nil
}

// substitute returns e with every reference to name replaced by with.
// Subtrees without such a reference are shared, not copied.
func substitute(e *Expr, name string, with *Expr) *Expr {
	switch e.kind {
	case KindReference:
		if e.name == name {
			return with
		}

	case KindUnary:
		if x := substitute(e.left, name, with); x != e.left {
			return unary(e.op, x)
		}

	case KindBinary:
		l := substitute(e.left, name, with)
		r := substitute(e.right, name, with)

		if l != e.left || r != e.right {
			return binary(e.op, l, r)
		}
	}

	return e
}

// Lookup returns the declaration of name, if any.
func (s *Session) Lookup(name string) (*Declaration, bool) {
	return s.decls.Lookup(name)
}

// Env returns a copy of the environment of declared names. Callers consult
// it to find any name declared so far without going through the session.
func (s *Session) Env() Environment {
	return maps.Clone(s.decls)
}

// Len returns the number of declared names.
func (s *Session) Len() int { return len(s.decls) }

// All returns an iterator over all declarations in declaration order.
func (s *Session) All() iter.Seq[*Declaration] {
	return func(yield func(*Declaration) bool) {
		for _, name := range s.order {
			if !yield(s.decls[name]) {
				return
			}
		}
	}
}

// IsConstant reports whether name was declared const.
func (s *Session) IsConstant(name string) bool {
	_, ok := s.constants[name]

	return ok
}

// IsDefine reports whether name was declared ifndef.
func (s *Session) IsDefine(name string) bool {
	_, ok := s.defines[name]

	return ok
}

// Constants returns the names declared const, in lexical order.
func (s *Session) Constants() []string {
	return slices.Sorted(maps.Keys(s.constants))
}

// Defines returns the names declared ifndef, in lexical order.
func (s *Session) Defines() []string {
	return slices.Sorted(maps.Keys(s.defines))
}

// Statements returns a copy of every line emitted so far, in order.
func (s *Session) Statements() []Statement {
	return slices.Clone(s.record)
}

// isIdentifier reports whether name is a valid variable name: a letter or
// underscore followed by letters, digits, or underscores.
func isIdentifier(name string) bool {
	if name == "" {
		return false
	}

	for i, r := range name {
		switch {
		case r == '_', unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}

	return true
}
