// Package transform implements the structural tree rewrites that run once,
// before reduction begins: recursion flattening, unary-rule-chain
// squeezing, marking of unremovable nodes as HIDDEN, the coarse filter used
// by the Coarse HDD variants, and a supplemental empty-node cleanup pass.
//
// Every transform here preserves I1, I2, and I4, and leaves callers
// responsible for recomputing I6 (cached replacement strings) for any node
// whose shape it touched.
package transform

import (
	"github.com/renatahodovan/picireny/tree"
	"github.com/renatahodovan/picireny/walk"
)

// FlattenRecursion collapses left- or right-recursive rule chains —
// Rule(name, [Rule(name, [...]), Y]) and its mirror — into a single wide
// Rule node, so level-based HDD enumeration sees one level instead of a
// tall spine. A node is recognized as the base of such a chain when its
// first (left recursion) or last (right recursion) child is itself a Rule
// of the same name; this is purely a shape rewrite and does not touch
// unparse order.
func FlattenRecursion(t *tree.Tree, root tree.ID) error {
	return flattenNode(t, root)
}

func flattenNode(t *tree.Tree, id tree.ID) error {
	n := t.Node(id)
	if n.Kind == tree.Rule {
		flattenChain(t, id, true)
		flattenChain(t, id, false)
	}
	for _, c := range t.Node(id).Children {
		if err := flattenNode(t, c); err != nil {
			return err
		}
	}
	return nil
}

func flattenChain(t *tree.Tree, id tree.ID, left bool) {
	for {
		n := t.Node(id)
		if len(n.Children) == 0 {
			return
		}

		idx := 0
		if !left {
			idx = len(n.Children) - 1
		}
		spineID := n.Children[idx]
		spine := t.Node(spineID)
		if spine.Kind != tree.Rule || spine.Name != n.Name {
			return
		}

		var newChildren []tree.ID
		if left {
			newChildren = append(append([]tree.ID{}, spine.Children...), n.Children[1:]...)
		} else {
			newChildren = append(append([]tree.ID{}, n.Children[:len(n.Children)-1]...), spine.Children...)
		}
		for _, c := range spine.Children {
			t.Reparent(c, id)
		}
		n.Children = newChildren
	}
}

// Squeeze collapses a chain of unary rule applications R1 -> R2 -> ... ->
// Rk -> child (each Ri having exactly one child) into a single node
// recording only Rk's name. The outer rule names are lost for reduction
// purposes, but unparse is unaffected since the node's children are
// unchanged.
func Squeeze(t *tree.Tree, root tree.ID) error {
	return squeezeNode(t, root)
}

func squeezeNode(t *tree.Tree, id tree.ID) error {
	n := t.Node(id)
	for n.Kind == tree.Rule && len(n.Children) == 1 {
		child := t.Node(n.Children[0])
		if child.Kind != tree.Rule {
			break
		}
		n.Name = child.Name
		n.Children = child.Children
		for _, gc := range child.Children {
			t.Reparent(gc, id)
		}
	}
	for _, c := range t.Node(id).Children {
		if err := squeezeNode(t, c); err != nil {
			return err
		}
	}
	return nil
}

// HideUnremovable transitions every node for which removal would
// necessarily leave the parent grammar-invalid to state HIDDEN: it still
// contributes to unparse, but the HDD engine no longer offers its id to
// DDMIN at any level. replacement must return a node's cached replacement
// string (I6).
//
// A node is considered removable when its replacement is empty, when it
// sits directly under a Quantifier (whose whole point is that its members
// are jointly optional), or when it is itself a Quantifier. ErrorToken
// nodes are always unremovable, per their contract.
func HideUnremovable(t *tree.Tree, root tree.ID, replacement func(tree.ID) string) error {
	return walk.Nodes(t, root, func(id tree.ID) error {
		if id == root {
			return nil
		}
		n := t.Node(id)

		if n.Kind == tree.ErrorToken {
			n.State = tree.Hidden
			return nil
		}
		if n.Kind == tree.HiddenToken {
			return nil // governed by I5, not by this pass
		}

		removable := n.Kind == tree.Quantifier || replacement(id) == ""
		if !removable {
			if parent, ok := t.Parent(id); ok && t.Node(parent).Kind == tree.Quantifier {
				removable = true
			}
		}
		if !removable {
			n.State = tree.Hidden
		}
		return nil
	})
}

// CoarseFilter additionally hides nodes whose subtree already unparses to
// exactly their cached replacement — there is nothing to gain by removing
// them. Used by the Coarse HDD variants; re-run every pass since the tree
// (and hence unparsed text) changes across passes.
func CoarseFilter(t *tree.Tree, root tree.ID, unparsed func(tree.ID) string, replacement func(tree.ID) string) error {
	return walk.Nodes(t, root, func(id tree.ID) error {
		if id == root {
			return nil
		}
		n := t.Node(id)
		if n.State == tree.Hidden {
			return nil
		}
		if unparsed(id) == replacement(id) {
			n.State = tree.Hidden
		}
		return nil
	})
}

// RemoveEmpty prunes Quantifier nodes left with no children (a dead
// optional/repeating group) from their parent's child list. This is a
// cosmetic cleanup — such a node already unparses to nothing — but keeping
// the tree free of them simplifies level enumeration and hoisting.
func RemoveEmpty(t *tree.Tree, root tree.ID) error {
	return removeEmptyNode(t, root)
}

func removeEmptyNode(t *tree.Tree, id tree.ID) error {
	n := t.Node(id)
	kept := n.Children[:0]
	for _, c := range n.Children {
		if err := removeEmptyNode(t, c); err != nil {
			return err
		}
		cn := t.Node(c)
		if cn.Kind == tree.Quantifier && len(cn.Children) == 0 {
			continue
		}
		kept = append(kept, c)
	}
	n.Children = kept
	return nil
}
