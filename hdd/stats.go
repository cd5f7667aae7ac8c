package hdd

import "github.com/renatahodovan/picireny/tree"

// Count returns the number of KEEP nodes in id's subtree (REMOVE subtrees
// are not descended into). includeRemoved also descends into REMOVE nodes
// and counts every node regardless of state, matching the reference
// implementation's count(..., only_kept=False) mode used for progress
// reporting before a reduction has run.
func Count(t *tree.Tree, id tree.ID, includeRemoved bool) int {
	n := t.Node(id)
	if n.State == tree.Remove && !includeRemoved {
		return 0
	}
	c := 1
	for _, child := range n.Children {
		c += Count(t, child, includeRemoved)
	}
	return c
}

// Height returns the length of the longest KEEP root-to-leaf path in id's
// subtree (1 for a leaf). includeRemoved mirrors Count.
func Height(t *tree.Tree, id tree.ID, includeRemoved bool) int {
	n := t.Node(id)
	if n.State == tree.Remove && !includeRemoved {
		return 0
	}
	best := 0
	for _, child := range n.Children {
		if h := Height(t, child, includeRemoved); h > best {
			best = h
		}
	}
	return best + 1
}

// Shape returns, for each depth from id down to the subtree's height, the
// number of KEEP nodes at that depth — the per-level node counts that a
// Coarse/BFS pass works through, reported so progress logging can say
// "level d/height, n nodes" the way the reference tool's logger does.
func Shape(t *tree.Tree, id tree.ID, includeRemoved bool) []int {
	var shape []int
	var walk func(id tree.ID, depth int)
	walk = func(id tree.ID, depth int) {
		n := t.Node(id)
		if n.State == tree.Remove && !includeRemoved {
			return
		}
		for len(shape) <= depth {
			shape = append(shape, 0)
		}
		shape[depth]++
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	walk(id, 0)
	return shape
}
