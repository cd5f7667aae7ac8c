// Package walk provides enter/exit recursive-descent traversal of a
// picireny parse tree in source order. replace.Apply and the
// HideUnremovable and CoarseFilter transformations use it; the unparser and
// the other transformations recurse on their own.
package walk

import "github.com/renatahodovan/picireny/tree"

// Nodes walks id and its descendants in pre-order, calling enter on the way
// down. It is shorthand for [NodesEnterAndExit] with a nil exit.
func Nodes(t *tree.Tree, id tree.ID, enter func(tree.ID) error) error {
	return NodesEnterAndExit(t, id, enter, nil)
}

// NodesEnterAndExit walks id and its descendants in pre-order, calling
// enter before descending into a node's children and exit (if non-nil)
// after all of them have been visited. Returning a non-nil error from
// either callback aborts the walk and propagates the error to the caller.
func NodesEnterAndExit(t *tree.Tree, id tree.ID, enter, exit func(tree.ID) error) error {
	if err := enter(id); err != nil {
		return err
	}
	for _, child := range t.Node(id).Children {
		if err := NodesEnterAndExit(t, child, enter, exit); err != nil {
			return err
		}
	}
	if exit != nil {
		if err := exit(id); err != nil {
			return err
		}
	}
	return nil
}

// Leaves walks id and its descendants in pre-order, invoking fn only for
// nodes with no children (Token, HiddenToken, ErrorToken, or an empty
// Quantifier/Rule).
func Leaves(t *tree.Tree, id tree.ID, fn func(tree.ID) error) error {
	return Nodes(t, id, func(n tree.ID) error {
		if len(t.Node(n).Children) == 0 {
			return fn(n)
		}
		return nil
	})
}
