package replace

import (
	"github.com/renatahodovan/picireny/tree"
	"github.com/renatahodovan/picireny/walk"
)

// Apply stamps every Rule and Token node under id with its minimal
// replacement string from rep (as produced by [Compute]), so that later
// tree transformations and the unparser have a Node.Replacement to fall
// back on once a node is REMOVEd. Nodes whose name has no entry in rep
// (HiddenToken, ErrorToken, or a rule Compute could not resolve) are left
// with whatever Replacement they already carry.
func Apply(t *tree.Tree, id tree.ID, rep map[string]string) error {
	return walk.Nodes(t, id, func(n tree.ID) error {
		node := t.Node(n)
		if node.Kind != tree.Rule && node.Kind != tree.Token {
			return nil
		}
		name := t.Names.Value(node.Name)
		text, ok := rep[name]
		if !ok {
			return nil
		}
		node.Replacement = text
		return nil
	})
}
