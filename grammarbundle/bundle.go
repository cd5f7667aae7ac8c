// Package grammarbundle describes the external front-end contract: the
// grammar files, start rule, island sub-languages, and manual replacement
// overrides that a [TreeBuilder] needs to turn source text into a
// *tree.Tree, plus a YAML descriptor format for recording that
// configuration on disk. Building the actual parser from a grammar file is
// out of scope (an ANTLR toolchain invocation, or equivalent, is the
// caller's problem); this package only describes and locates the inputs.
package grammarbundle

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/renatahodovan/picireny/reporter"
)

// Bundle is the descriptor for one grammar (and, transitively, any islands
// it embeds): which files define it, which rule to start parsing from, and
// any replacement strings the replacement computer should use verbatim
// instead of deriving them from the grammar.
type Bundle struct {
	// Grammar is this bundle's logical name; islands reference other
	// bundles by this name (see Island.Grammar).
	Grammar string `yaml:"grammar"`

	// Files lists grammar source file glob patterns (e.g. "grammars/*.g4"),
	// resolved relative to the descriptor's directory by [Bundle.ResolveFiles].
	Files []string `yaml:"files"`

	// Start is the name of the rule a [TreeBuilder] should start parsing
	// from.
	Start string `yaml:"start"`

	// Replacements overrides the computed minimal replacement for named
	// rules, bypassing [replace.Compute] for those entries (e.g. because
	// the grammar is left-recursive with no finite base case, or the
	// grammar-derived replacement wouldn't parse in some larger context).
	Replacements map[string]string `yaml:"replacements,omitempty"`

	// Islands lists the sub-language regions embedded in this grammar's
	// tokens, if any.
	Islands []Island `yaml:"islands,omitempty"`
}

// Load reads and parses the YAML grammar bundle descriptor at path.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &reporter.GrammarError{Message: fmt.Sprintf("reading bundle descriptor %s: %v", path, err)}
	}

	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, &reporter.GrammarError{Message: fmt.Sprintf("parsing bundle descriptor %s: %v", path, err)}
	}
	if b.Grammar == "" {
		return nil, &reporter.GrammarError{Message: fmt.Sprintf("bundle descriptor %s: missing grammar name", path)}
	}
	if b.Start == "" {
		return nil, &reporter.GrammarError{Message: fmt.Sprintf("bundle descriptor %s: missing start rule", path)}
	}
	return &b, nil
}

// ResolveFiles expands b.Files' glob patterns relative to baseDir (normally
// the descriptor's own directory) into concrete, sorted, deduplicated file
// paths.
func (b *Bundle) ResolveFiles(baseDir string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range b.Files {
		if !doublestar.ValidatePattern(pattern) {
			return nil, &reporter.GrammarError{Message: fmt.Sprintf("bundle %s: invalid glob pattern %q", b.Grammar, pattern)}
		}
		matches, err := doublestar.FilepathGlob(filepath.Join(baseDir, pattern))
		if err != nil {
			return nil, &reporter.GrammarError{Message: fmt.Sprintf("bundle %s: resolving %q: %v", b.Grammar, pattern, err)}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// Replacement returns b's manual override for rule, if any.
func (b *Bundle) Replacement(rule string) (string, bool) {
	r, ok := b.Replacements[rule]
	return r, ok
}
