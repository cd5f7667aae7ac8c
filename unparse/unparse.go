// Package unparse renders a tree back into the text the oracle consumes, by
// walking children left-to-right and choosing, for every node, between its
// own text and its cached replacement according to the node's State.
package unparse

import "github.com/renatahodovan/picireny/tree"

// Options controls unparse policy that isn't implied by tree shape alone.
type Options struct {
	// PreserveHiddenChannels forces every HiddenToken to contribute its
	// text, regardless of its neighbors' state. Off by default: a hidden
	// token (whitespace, a comment) is only kept when it sits between two
	// still-KEPT tokens in the baseline tree.
	PreserveHiddenChannels bool

	// Override substitutes a state for specific node ids without touching
	// the tree itself. The DDMIN bridge uses this to materialize one
	// candidate's text while leaving the shared tree unmutated, which is
	// what lets it evaluate several candidates concurrently and commit
	// only the winner afterwards.
	Override map[tree.ID]tree.State
}

func (o Options) stateOf(t *tree.Tree, id tree.ID) tree.State {
	if o.Override != nil {
		if s, ok := o.Override[id]; ok {
			return s
		}
	}
	return t.Node(id).State
}

// entry is one unit of contribution to the rendered output: either a true
// leaf of the (possibly REMOVEd) tree, or a pseudo-leaf standing in for a
// subtree whose root was REMOVEd.
type entry struct {
	kind     tree.Kind
	state    tree.State
	text     string
	replaced bool
}

// Text renders id's subtree to text. Position metadata is never
// consulted: only children order and node State determine the result,
// which keeps unparse reproducible across structural rewrites.
func Text(t *tree.Tree, id tree.ID, opts Options) string {
	var entries []entry
	collect(t, id, opts, &entries)

	var out []byte
	for i, e := range entries {
		switch {
		case e.replaced:
			out = append(out, e.text...)

		case e.kind == tree.HiddenToken:
			if opts.PreserveHiddenChannels || betweenKeptTokens(entries, i) {
				out = append(out, e.text...)
			}

		default:
			out = append(out, e.text...)
		}
	}
	return string(out)
}

// collect flattens id's subtree into entries in left-to-right leaf order.
// A node whose (possibly overridden) state is Remove contributes a single
// pseudo-leaf (its cached replacement) instead of being descended into.
func collect(t *tree.Tree, id tree.ID, opts Options, entries *[]entry) {
	n := t.Node(id)
	state := opts.stateOf(t, id)

	if state == tree.Remove {
		*entries = append(*entries, entry{replaced: true, text: n.Replacement})
		return
	}

	if len(n.Children) == 0 {
		*entries = append(*entries, entry{kind: n.Kind, state: state, text: n.Text})
		return
	}

	for _, c := range n.Children {
		collect(t, c, opts, entries)
	}
}

// betweenKeptTokens reports whether the nearest non-hidden-token neighbors
// of entries[i] on both sides are Token entries in state Keep or Hidden
// (a Hidden node unparses as a Keep one would).
func betweenKeptTokens(entries []entry, i int) bool {
	prev, ok := nearestToken(entries, i, -1)
	if !ok {
		return false
	}
	next, ok := nearestToken(entries, i, 1)
	if !ok {
		return false
	}
	return prev.kind == tree.Token && (prev.state == tree.Keep || prev.state == tree.Hidden) &&
		next.kind == tree.Token && (next.state == tree.Keep || next.state == tree.Hidden)
}

func nearestToken(entries []entry, i, dir int) (entry, bool) {
	for j := i + dir; j >= 0 && j < len(entries); j += dir {
		if entries[j].kind != tree.HiddenToken {
			return entries[j], true
		}
	}
	return entry{}, false
}
