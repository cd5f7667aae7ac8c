// Package replace computes, for every rule in a grammar, the shortest
// string that can stand in for any production of that rule — the
// replacement that the tree transformations and the unparser substitute in
// place of a REMOVEd subtree.
package replace

import (
	"errors"
	"iter"
	"slices"
	"sort"

	"github.com/renatahodovan/picireny/internal/toposort"
	"github.com/renatahodovan/picireny/reporter"
)

// Part is one element of a rule alternative.
type Part struct {
	// Optional marks a part coming from a (...)? or (...)* quantifier:
	// it always contributes the empty string to the alternative's length,
	// regardless of what its own minimal replacement would be.
	Optional bool

	// Token is true if Name refers to a token (in which case Literal is
	// its precomputed minimal replacement, supplied by the grammar
	// bundle's lexer description); false if Name refers to another rule
	// (in which case its replacement is resolved by this package).
	Token   bool
	Name    string
	Literal string
}

// Alt is one alternative of a rule, in grammar order (earlier alternatives
// win length ties).
type Alt []Part

// Grammar is the input to [Compute]: every rule's ordered alternatives.
type Grammar map[string][]Alt

// references returns the set of rule names g[rule] depends on.
func (g Grammar) references(rule string) iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := make(map[string]bool)
		for _, alt := range g[rule] {
			for _, part := range alt {
				if part.Token || seen[part.Name] {
					continue
				}
				seen[part.Name] = true
				if !yield(part.Name) {
					return
				}
			}
		}
	}
}

// Compute finds the minimal replacement string for every rule in g,
// honoring any user-supplied overrides (which bypass computation for that
// rule entirely). When some rule has no alternative with a finite-length
// expansion (a left-recursive rule, directly or transitively, with no base
// case), it returns [reporter.ReplacementUnresolvable] naming the
// alphabetically first such rule; the other unresolved rules are not listed.
func Compute(g Grammar, overrides map[string]string) (map[string]string, error) {
	rep := make(map[string]string, len(g))
	resolved := make(map[string]bool, len(g))
	for rule, text := range overrides {
		rep[rule] = text
		resolved[rule] = true
	}

	rules := make([]string, 0, len(g))
	for rule := range g {
		rules = append(rules, rule)
	}
	sort.Strings(rules) // deterministic iteration when nothing else orders it

	// Evaluate in dependency order where the grammar is acyclic; this
	// handles the common case (no rule depends on itself, even
	// indirectly) in one pass without iterating to a fixed point.
	seq, sorter := toposort.Sort(rules, func(r string) string { return r }, g.references)
	for rule := range seq {
		if resolved[rule] {
			continue
		}
		if text, ok := tryResolve(g, rule, resolved, rep); ok {
			rep[rule] = text
			resolved[rule] = true
		}
	}

	// Whatever toposort didn't reach (because of a cycle) or couldn't
	// resolve on the first pass (a rule whose only base-case alternative
	// comes after a recursive one referencing a rule not yet computed)
	// needs fixed-point relaxation: keep sweeping until nothing changes.
	for changed := true; changed; {
		changed = false
		for _, rule := range rules {
			if resolved[rule] {
				continue
			}
			if text, ok := tryResolve(g, rule, resolved, rep); ok {
				rep[rule] = text
				resolved[rule] = true
				changed = true
			}
		}
	}

	var unresolved []string
	for _, rule := range rules {
		if !resolved[rule] {
			unresolved = append(unresolved, rule)
		}
	}
	if len(unresolved) > 0 {
		var cycleErr *toposort.CycleError[string]
		var cycle []string
		if errors.As(sorter.Err(), &cycleErr) {
			cycle = cycleErr.Cycle
		}
		slices.Sort(unresolved)
		return rep, &reporter.ReplacementUnresolvable{Rule: unresolved[0], Cycle: cycle}
	}

	return rep, nil
}

// tryResolve attempts to compute rule's replacement given what has been
// resolved so far, returning ok=false if some alternative's rule
// dependencies aren't resolved yet (not if they're permanently
// unresolvable — that's only known once the fixed point is reached).
func tryResolve(g Grammar, rule string, resolved map[string]bool, rep map[string]string) (string, bool) {
	var best string
	haveBest := false

	for _, alt := range g[rule] {
		text, ok := altReplacement(alt, resolved, rep)
		if !ok {
			continue
		}
		if !haveBest || len(text) < len(best) {
			best = text
			haveBest = true
		}
	}
	return best, haveBest
}

func altReplacement(alt Alt, resolved map[string]bool, rep map[string]string) (string, bool) {
	var out []byte
	for _, part := range alt {
		if part.Optional {
			continue
		}
		if part.Token {
			out = append(out, part.Literal...)
			continue
		}
		if !resolved[part.Name] {
			return "", false
		}
		out = append(out, rep[part.Name]...)
	}
	return string(out), true
}
