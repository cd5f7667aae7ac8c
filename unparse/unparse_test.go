package unparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renatahodovan/picireny/reporter"
	"github.com/renatahodovan/picireny/tree"
	"github.com/renatahodovan/picireny/unparse"
)

// buildSpaced builds root(a, WS(" "), b) where a and b are kept Tokens and
// WS is a HiddenToken sitting between them.
func buildSpaced(t *testing.T) (*tree.Tree, tree.ID, tree.ID, tree.ID, tree.ID) {
	t.Helper()
	tr := tree.New(nil)
	a := tr.NewNode(tree.Node{Kind: tree.Token, Text: "a"})
	ws := tr.NewNode(tree.Node{Kind: tree.HiddenToken, Text: " "})
	b := tr.NewNode(tree.Node{Kind: tree.Token, Text: "b"})
	root := tr.NewNode(tree.Node{Kind: tree.Rule, Children: []tree.ID{a, ws, b}})
	tr.Link(root, a)
	tr.Link(root, ws)
	tr.Link(root, b)
	require.NoError(t, tr.SetRoot(root))
	return tr, root, a, ws, b
}

func TestUnparseConcatenatesKeptLeaves(t *testing.T) {
	t.Parallel()
	tr := tree.New(nil)
	x := tr.NewNode(tree.Node{Kind: tree.Token, Text: "x"})
	y := tr.NewNode(tree.Node{Kind: tree.Token, Text: "y"})
	root := tr.NewNode(tree.Node{Kind: tree.Rule, Children: []tree.ID{x, y}})
	tr.Link(root, x)
	tr.Link(root, y)
	require.NoError(t, tr.SetRoot(root))

	assert.Equal(t, "xy", unparse.Text(tr, root, unparse.Options{}))
}

func TestUnparseRemovedSubtreeContributesReplacement(t *testing.T) {
	t.Parallel()
	tr := tree.New(nil)
	tok := tr.NewNode(tree.Node{Kind: tree.Token, Text: "123"})
	inner := tr.NewNode(tree.Node{Kind: tree.Rule, Children: []tree.ID{tok}, Replacement: "0"})
	tr.Link(inner, tok)
	root := tr.NewNode(tree.Node{Kind: tree.Rule, Children: []tree.ID{inner}})
	tr.Link(root, inner)
	require.NoError(t, tr.SetRoot(root))

	tr.Node(inner).State = tree.Remove
	assert.Equal(t, "0", unparse.Text(tr, root, unparse.Options{}))
}

func TestUnparseHiddenStateNodeContributesAsKeep(t *testing.T) {
	t.Parallel()
	tr := tree.New(nil)
	tok := tr.NewNode(tree.Node{Kind: tree.Token, Text: "x"})
	root := tr.NewNode(tree.Node{Kind: tree.Rule, Children: []tree.ID{tok}})
	tr.Link(root, tok)
	require.NoError(t, tr.SetRoot(root))

	tr.Node(tok).State = tree.Hidden
	assert.Equal(t, "x", unparse.Text(tr, root, unparse.Options{}))
}

func TestUnparseHiddenTokenKeptBetweenTwoKeptTokens(t *testing.T) {
	t.Parallel()
	tr, root, _, _, _ := buildSpaced(t)
	assert.Equal(t, "a b", unparse.Text(tr, root, unparse.Options{}))
}

func TestUnparseHiddenTokenDroppedWhenNeighborRemoved(t *testing.T) {
	t.Parallel()
	tr, root, _, _, b := buildSpaced(t)
	tr.Node(b).State = tree.Remove
	tr.Node(b).Replacement = ""

	assert.Equal(t, "a", unparse.Text(tr, root, unparse.Options{}))
}

func TestUnparsePreserveHiddenChannelsOverridesDefault(t *testing.T) {
	t.Parallel()
	tr, root, _, _, b := buildSpaced(t)
	tr.Node(b).State = tree.Remove
	tr.Node(b).Replacement = ""

	assert.Equal(t, "a ", unparse.Text(tr, root, unparse.Options{PreserveHiddenChannels: true}))
}

func TestUnparsePositionIsIgnored(t *testing.T) {
	t.Parallel()
	tr := tree.New(nil)
	tok := tr.NewNode(tree.Node{
		Kind: tree.Token, Text: "x",
		Start: reporter.Position{File: "f", Line: 1, Column: 5},
		End:   reporter.Position{File: "f", Line: 1, Column: 6},
	})
	root := tr.NewNode(tree.Node{Kind: tree.Rule, Children: []tree.ID{tok}})
	tr.Link(root, tok)
	require.NoError(t, tr.SetRoot(root))

	assert.Equal(t, "x", unparse.Text(tr, root, unparse.Options{}))
}

func TestUnparseOverrideDoesNotMutateTree(t *testing.T) {
	t.Parallel()
	tr := tree.New(nil)
	x := tr.NewNode(tree.Node{Kind: tree.Token, Text: "x", Replacement: ""})
	y := tr.NewNode(tree.Node{Kind: tree.Token, Text: "y"})
	root := tr.NewNode(tree.Node{Kind: tree.Rule, Children: []tree.ID{x, y}})
	tr.Link(root, x)
	tr.Link(root, y)
	require.NoError(t, tr.SetRoot(root))

	out := unparse.Text(tr, root, unparse.Options{Override: map[tree.ID]tree.State{x: tree.Remove}})
	assert.Equal(t, "y", out)
	assert.Equal(t, tree.Keep, tr.Node(x).State, "override must not mutate the live node")
}
