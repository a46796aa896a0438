package lang

import (
	"io"
	"os"

	"github.com/ardnew/mbsym/log"
)

// DefaultMaxDepth is the default maximum depth of nested references followed
// while resolving an expression.
// Users may modify this before creating a session to change the default.
var DefaultMaxDepth = 100

// Session is one generation run: it owns the declaration registry, the
// simplification setting, and the writer that receives emitted lines.
//
// A Session is meant for sequential use by a single goroutine. Independent
// sessions share no state and may run concurrently.
type Session struct {
	opts   options
	logger log.Logger // outside options, doesn't affect semantics
	output io.Writer

	decls     Environment  // all declared names
	order     []string     // names in declaration order
	constants map[string]struct{}
	defines   map[string]struct{}
	record    []Statement // every emitted line
}

// options holds session configuration.
type options struct {
	simplify bool
	strict   bool
	maxDepth int
}

// Option configures a Session.
type Option func(*Session)

// WithSimplify enables or disables eager algebraic simplification.
// Simplification is enabled by default.
func WithSimplify(enable bool) Option {
	return func(s *Session) {
		s.opts.simplify = enable
	}
}

// WithStrictConstants rejects any re-declaration of a name that was declared
// const or ifndef. By default such names may be reassigned like any other.
func WithStrictConstants(enable bool) Option {
	return func(s *Session) {
		s.opts.strict = enable
	}
}

// WithMaxDepth sets the maximum reference depth followed during resolution.
func WithMaxDepth(depth int) Option {
	return func(s *Session) {
		s.opts.maxDepth = depth
	}
}

// WithOutput sets the writer that receives one line per declaration.
// If nil, emitted lines are discarded (they are still recorded).
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		if w == nil {
			w = io.Discard
		}

		s.output = w
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession returns an empty session writing declarations to os.Stdout.
func NewSession(opts ...Option) *Session {
	s := &Session{
		opts: options{
			simplify: true,
			maxDepth: DefaultMaxDepth,
		},
		output:    os.Stdout,
		decls:     Environment{},
		constants: map[string]struct{}{},
		defines:   map[string]struct{}{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Simplify reports whether eager simplification is enabled.
func (s *Session) Simplify() bool { return s.opts.simplify }

// SetSimplify changes the simplification setting for subsequently built
// expressions. Existing expressions are not affected.
func (s *Session) SetSimplify(enable bool) { s.opts.simplify = enable }

// Strict reports whether const and ifndef names are protected from
// re-declaration.
func (s *Session) Strict() bool { return s.opts.strict }

// SetStrict changes the strict constants setting.
func (s *Session) SetStrict(enable bool) { s.opts.strict = enable }

// SetOutput redirects emitted lines to w. If w is nil, lines are discarded.
func (s *Session) SetOutput(w io.Writer) {
	WithOutput(w)(s)
}

// MaxDepth returns the maximum reference depth followed during resolution.
func (s *Session) MaxDepth() int { return s.opts.maxDepth }

// Logger returns the session logger.
func (s *Session) Logger() log.Logger { return s.logger }
