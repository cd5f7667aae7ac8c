package grammarbundle

import "github.com/renatahodovan/picireny/internal/interval"

// Island describes one embedded sub-language: a rule in the host grammar
// whose token text is itself parsed by another bundle (which may in turn
// embed further islands, e.g. CSS inside an HTML <style> element inside a
// templating language).
type Island struct {
	// Rule is the name of the host grammar's lexer/parser rule whose
	// matched text contains island content.
	Rule string `yaml:"rule"`

	// Grammar names the bundle (see Bundle.Grammar) that parses this
	// island's content.
	Grammar string `yaml:"grammar"`

	// Start overrides the island bundle's own start rule for this
	// particular embedding, if the same island grammar is entered from a
	// different rule than its standalone start rule.
	Start string `yaml:"start,omitempty"`
}

// Set is a resolved, queryable collection of a bundle's own islands plus
// any islands transitively registered by nested bundles it embeds, indexed
// by host-file byte offset so a [TreeBuilder] can look up which (if any)
// island grammar covers a given span of source text.
type Set struct {
	byRule  map[string]Island
	offsets interval.Map[int, Island]
}

// NewSet indexes islands by rule name for direct TreeBuilder lookups.
func NewSet(islands []Island) *Set {
	s := &Set{byRule: make(map[string]Island, len(islands))}
	for _, isl := range islands {
		s.byRule[isl.Rule] = isl
	}
	return s
}

// ForRule reports the island descriptor for a host rule name, if any.
func (s *Set) ForRule(rule string) (Island, bool) {
	isl, ok := s.byRule[rule]
	return isl, ok
}

// Register records that the half-open byte range [start, end) of the host
// file is covered by island. Used once a [TreeBuilder] has located an
// island token's span, so later queries (e.g. from diagnostics wanting to
// know which grammar owns a byte offset) can use byte-offset lookup instead
// of re-walking the tree.
func (s *Set) Register(start, end int, island Island) {
	if end <= start {
		return
	}
	s.offsets.Insert(start, end-1, island)
}

// At returns the island (if any) whose registered range contains offset.
func (s *Set) At(offset int) (Island, bool) {
	iv := s.offsets.Get(offset)
	if iv.Value == nil {
		return Island{}, false
	}
	return *iv.Value, true
}
