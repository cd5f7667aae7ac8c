package hdd

import (
	"context"
	"fmt"
	"strings"

	"github.com/renatahodovan/picireny/oracle"
	"github.com/renatahodovan/picireny/tree"
)

// HoistLevel greedily replaces each node in candidates with one of its own
// same-named descendants — a smaller production of the same nonterminal —
// whenever doing so keeps the oracle Interesting. Search is left-to-right
// over candidates, shallowest descendant first, exactly as the reference
// implementation's MappingMin/HoistingTestBuilder work: it maximizes
// reduction per accepted hoist rather than trying every combination.
//
// Accepted hoists are committed to t (candidate subtrees are spliced out
// in favor of their chosen descendant) before HoistLevel returns; the boolean
// result reports whether anything changed.
func HoistLevel(ctx context.Context, t *tree.Tree, o oracle.Oracle, label string, candidates []tree.ID) (bool, error) {
	mapping := map[tree.ID]tree.ID{}

	for run := 0; ; run++ {
		hoisted := false
		for i, c := range candidates {
			for j, d := range collectHoistables(t, resolve(mapping, c)) {
				trial := cloneMapping(mapping)
				trial[c] = d

				text := unparseWithMapping(t, t.Root(), trial)
				id := fmt.Sprintf("%s/hoist/r%d/n%d/m%d", label, run, i, j)
				v, err := o.Test(ctx, id, []byte(text))
				if err != nil {
					return false, err
				}
				if v == oracle.Interesting {
					mapping = trial
					hoisted = true
					break
				}
			}
			if hoisted {
				break
			}
		}
		if !hoisted {
			break
		}
	}

	if len(mapping) == 0 {
		return false, nil
	}

	newRoot := applyMapping(t, t.Root(), mapping)
	return true, t.SetRoot(newRoot)
}

// collectHoistables returns id's KEEP descendants sharing its Rule name,
// not descending past the first match on any branch (a hoist target is
// never itself hoisted further within the same search) nor past a node
// that isn't KEEP.
func collectHoistables(t *tree.Tree, id tree.ID) []tree.ID {
	n := t.Node(id)
	if n.State != tree.Keep || n.Kind != tree.Rule || n.Name == 0 {
		return nil
	}

	var out []tree.ID
	var walk func(tree.ID)
	walk = func(desc tree.ID) {
		dn := t.Node(desc)
		if dn.Kind == tree.Rule && dn.Name == n.Name {
			out = append(out, desc)
			return
		}
		if dn.State == tree.Keep {
			for _, c := range dn.Children {
				walk(c)
			}
		}
	}
	for _, c := range n.Children {
		walk(c)
	}
	return out
}

func resolve(mapping map[tree.ID]tree.ID, id tree.ID) tree.ID {
	for {
		m, ok := mapping[id]
		if !ok {
			return id
		}
		id = m
	}
}

func cloneMapping(m map[tree.ID]tree.ID) map[tree.ID]tree.ID {
	out := make(map[tree.ID]tree.ID, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// unparseWithMapping renders id's subtree substituting any mapped node
// with its target before recursing into it. Kept deliberately simpler
// than [unparse.Text]'s hidden-channel policy: hoist candidates are always
// Rule nodes, so the substitution never changes which HiddenToken siblings
// are adjacent to which KEEP tokens elsewhere in the tree.
func unparseWithMapping(t *tree.Tree, id tree.ID, mapping map[tree.ID]tree.ID) string {
	id = resolve(mapping, id)
	n := t.Node(id)
	if n.State == tree.Remove {
		return n.Replacement
	}
	if len(n.Children) == 0 {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(unparseWithMapping(t, c, mapping))
	}
	return b.String()
}

// applyMapping physically splices accepted hoists into t: every id
// (transitively) mapped to a replacement is swapped for it, and the
// replacement's own children are recursively processed too so a chain of
// accepted hoists collapses correctly.
func applyMapping(t *tree.Tree, id tree.ID, mapping map[tree.ID]tree.ID) tree.ID {
	id = resolve(mapping, id)
	n := t.Node(id)
	for i, c := range n.Children {
		newChild := applyMapping(t, c, mapping)
		n.Children[i] = newChild
		t.Reparent(newChild, id)
	}
	return id
}
