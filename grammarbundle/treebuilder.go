package grammarbundle

import (
	"context"

	"github.com/renatahodovan/picireny/replace"
	"github.com/renatahodovan/picireny/tree"
)

// BuildResult is what a [TreeBuilder] returns for one input.
type BuildResult struct {
	// Tree is the parsed tree, populated even when Err is a
	// [reporter.ParsedWithErrors] warning (a best-effort tree from a
	// syntactically broken input, in which case the caller should surface
	// Err as a warning rather than abort the session).
	Tree *tree.Tree

	// Islands records the byte-range → island-grammar mapping the builder
	// discovered while parsing, for later diagnostics.
	Islands *Set

	// Grammar carries every rule's alternatives in the form
	// [replace.Compute] needs, derived by the builder from the same
	// grammar definition it parsed input against. A builder that cannot
	// derive this (e.g. one backed by a pre-generated parser with no
	// grammar introspection available) may leave it nil, in which case
	// the only replacements are manual overrides (Bundle.Replacements and
	// any overrides the caller passes alongside them).
	Grammar replace.Grammar
}

// TreeBuilder is the out-of-scope external collaborator that turns source
// text into a *tree.Tree honoring b's grammar, start rule, and islands.
// picireny never implements one itself (that's an ANTLR invocation, or
// equivalent, the caller's own front-end owns); it only calls through this
// interface.
type TreeBuilder interface {
	// Build parses input according to b, returning the resulting tree. A
	// non-nil error that is a [reporter.ParseFailed] means input could not
	// be parsed at all; a [reporter.ParsedWithErrors] means a best-effort
	// tree was still produced (BuildResult.Tree is non-nil) despite syntax
	// errors, and callers may choose to proceed with it.
	Build(ctx context.Context, b *Bundle, input []byte) (BuildResult, error)
}

// Func adapts a plain function to the TreeBuilder interface.
type Func func(ctx context.Context, b *Bundle, input []byte) (BuildResult, error)

func (f Func) Build(ctx context.Context, b *Bundle, input []byte) (BuildResult, error) {
	return f(ctx, b, input)
}
