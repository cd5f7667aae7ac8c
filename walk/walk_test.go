package walk_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renatahodovan/picireny/tree"
	"github.com/renatahodovan/picireny/walk"
)

func build(t *testing.T) (*tree.Tree, tree.ID) {
	t.Helper()
	tr := tree.New(nil)

	a := tr.NewNode(tree.Node{Kind: tree.Token, Text: "a"})
	b := tr.NewNode(tree.Node{Kind: tree.Token, Text: "b"})
	inner := tr.NewNode(tree.Node{Kind: tree.Rule, Name: tr.Names.Intern("inner"), Children: []tree.ID{a, b}})
	tr.Link(inner, a)
	tr.Link(inner, b)

	root := tr.NewNode(tree.Node{Kind: tree.Rule, Name: tr.Names.Intern("outer"), Children: []tree.ID{inner}})
	tr.Link(root, inner)
	require.NoError(t, tr.SetRoot(root))

	return tr, root
}

func TestNodesVisitsPreOrder(t *testing.T) {
	t.Parallel()
	tr, root := build(t)

	var visited []string
	err := walk.Nodes(tr, root, func(id tree.ID) error {
		visited = append(visited, tr.Node(id).Text+tr.Node(id).Kind.String())
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, visited, 4) // outer, inner, a, b
}

func TestNodesEnterAndExitOrdering(t *testing.T) {
	t.Parallel()
	tr, root := build(t)

	var events []string
	err := walk.NodesEnterAndExit(tr, root,
		func(id tree.ID) error { events = append(events, "enter:"+tr.Node(id).Kind.String()); return nil },
		func(id tree.ID) error { events = append(events, "exit:"+tr.Node(id).Kind.String()); return nil },
	)
	require.NoError(t, err)
	assert.Equal(t, "enter:Rule", events[0])
	assert.Equal(t, "exit:Rule", events[len(events)-1])
}

func TestNodesPropagatesError(t *testing.T) {
	t.Parallel()
	tr, root := build(t)
	boom := errors.New("boom")

	err := walk.Nodes(tr, root, func(tree.ID) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestLeavesOnlyVisitsChildless(t *testing.T) {
	t.Parallel()
	tr, root := build(t)

	var leaves int
	err := walk.Leaves(tr, root, func(tree.ID) error { leaves++; return nil })
	require.NoError(t, err)
	assert.Equal(t, 2, leaves)
}
