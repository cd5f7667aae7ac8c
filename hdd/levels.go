package hdd

import (
	"iter"

	"github.com/renatahodovan/picireny/transform"
	"github.com/renatahodovan/picireny/tree"
	"github.com/renatahodovan/picireny/unparse"
)

// LevelEnumerator produces the sequence of node-id groups ("levels") that
// one HDD pass offers to DDMIN, one group at a time. Levels are read
// lazily: the caller is expected to reduce a group (committing new
// KEEP/REMOVE states) before the enumerator computes the next one, since
// later groups depend on what survived earlier ones.
type LevelEnumerator interface {
	Levels(t *tree.Tree, root tree.ID) iter.Seq[[]tree.ID]
}

// BFS is the classic HDD level enumerator: level k is every currently-KEEP,
// reducible node at tree depth k from root, in pre-order. A depth holding
// exactly one node is skipped — DDMIN has nothing to subset there — mirroring
// the reference implementation's own level-skipping loop.
type BFS struct{}

func (BFS) Levels(t *tree.Tree, root tree.ID) iter.Seq[[]tree.ID] {
	return func(yield func([]tree.ID) bool) {
		for depth := 1; ; depth++ {
			var nodes []tree.ID
			collectAtDepth(t, root, depth, &nodes)
			if len(nodes) == 0 {
				return
			}
			if len(nodes) == 1 {
				continue
			}
			if !yield(nodes) {
				return
			}
		}
	}
}

func collectAtDepth(t *tree.Tree, id tree.ID, depth int, out *[]tree.ID) {
	n := t.Node(id)
	if n.State == tree.Remove {
		return
	}
	if depth == 0 {
		if n.State == tree.Keep && t.Reducible(id, false) {
			*out = append(*out, id)
		}
		return
	}
	for _, c := range n.Children {
		collectAtDepth(t, c, depth-1, out)
	}
}

// Recursive is HDDr: an iterative queue-based traversal that treats each
// visited node's own KEEP children as one level. PopFirst/AppendReversed
// select which of the four traversal variants the reference implementation
// parametrizes (breadth-first, syntactically-reversed breadth-first,
// depth-first, syntactically-reversed depth-first).
type Recursive struct {
	PopFirst       bool
	AppendReversed bool
}

func (r Recursive) Levels(t *tree.Tree, root tree.ID) iter.Seq[[]tree.ID] {
	return func(yield func([]tree.ID) bool) {
		queue := []tree.ID{root}
		for len(queue) > 0 {
			var node tree.ID
			if r.PopFirst {
				node, queue = queue[0], queue[1:]
			} else {
				node, queue = queue[len(queue)-1], queue[:len(queue)-1]
			}

			n := t.Node(node)
			if n.State != tree.Keep || len(n.Children) == 0 {
				continue
			}

			var kept []tree.ID
			for _, c := range n.Children {
				if t.Node(c).State == tree.Keep && t.Reducible(c, false) {
					kept = append(kept, c)
				}
			}
			if len(kept) > 0 {
				if !yield(kept) {
					return
				}
			}

			// Read children again: yield may have let the caller commit a
			// reduction that changed some of their states.
			children := t.Node(node).Children
			if r.AppendReversed {
				for i := len(children) - 1; i >= 0; i-- {
					if t.Node(children[i]).State == tree.Keep {
						queue = append(queue, children[i])
					}
				}
			} else {
				for _, c := range children {
					if t.Node(c).State == tree.Keep {
						queue = append(queue, c)
					}
				}
			}
		}
	}
}

// Replacement resolves a node's cached minimal replacement string (I6),
// supplied by the caller since it is `replace` package output, not
// something the tree stores structurally beyond a single field cache.
type Replacement func(tree.ID) string

// CoarseBFS is BFS restricted to the coarse-filtered tree: before each
// pass, nodes whose subtree already unparses to their replacement are
// marked HIDDEN (transform.CoarseFilter) and so excluded from every level.
// Re-run at the start of every Levels call since committed reductions
// change what counts as "already at replacement".
type CoarseBFS struct {
	Replacement Replacement
}

func (c CoarseBFS) Levels(t *tree.Tree, root tree.ID) iter.Seq[[]tree.ID] {
	return coarseFilterThen(t, root, c.Replacement, BFS{}.Levels)
}

// CoarseRecursive is Recursive restricted to the coarse-filtered tree, for
// the same reason as CoarseBFS.
type CoarseRecursive struct {
	Recursive
	Replacement Replacement
}

func (c CoarseRecursive) Levels(t *tree.Tree, root tree.ID) iter.Seq[[]tree.ID] {
	return coarseFilterThen(t, root, c.Replacement, c.Recursive.Levels)
}

func coarseFilterThen(t *tree.Tree, root tree.ID, rep Replacement, next func(*tree.Tree, tree.ID) iter.Seq[[]tree.ID]) iter.Seq[[]tree.ID] {
	return func(yield func([]tree.ID) bool) {
		unparsed := func(id tree.ID) string { return unparse.Text(t, id, unparse.Options{}) }
		if err := transform.CoarseFilter(t, root, unparsed, rep); err != nil {
			return
		}
		for level := range next(t, root) {
			if !yield(level) {
				return
			}
		}
	}
}
