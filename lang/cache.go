package lang

import (
	"log/slog"
	"sync"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// globalCache stores parse trees keyed by source text. Parse trees are
// never modified after parsing, so every session may share them.
var globalCache sync.Map

// parsed holds the parse result of one source text.
type parsed struct {
	once sync.Once
	node ast.Node
	err  error
}

// parseCached parses source, or returns the tree parsed by an earlier call
// with the same source.
func (s *Session) parseCached(source string) (ast.Node, error) {
	value, cacheHit := globalCache.LoadOrStore(source, new(parsed))

	entry, ok := value.(*parsed)
	if !ok {
		return nil, ErrInvalidSyntax.
			With(slog.String("issue", "invalid entry type in cache"))
	}

	s.logger.Trace("cache lookup",
		slog.Int("source_length", len(source)),
		slog.Bool("cache_hit", cacheHit),
	)

	entry.once.Do(func() {
		tree, err := parser.Parse(source)
		if err != nil {
			entry.err = ErrInvalidSyntax.Wrap(err).With(
				slog.String("source", source),
			)

			return
		}

		entry.node = tree.Node
	})

	return entry.node, entry.err
}

// ClearCache removes all cached parse trees.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
