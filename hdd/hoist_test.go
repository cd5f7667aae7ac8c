package hdd_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renatahodovan/picireny/hdd"
	"github.com/renatahodovan/picireny/oracle"
	"github.com/renatahodovan/picireny/tree"
)

// buildHoistable builds root(expr(expr("1"))) — a unary-wrapped rule whose
// inner expr is a strictly smaller same-named production, the textbook
// hoist candidate.
func buildHoistable(t *testing.T) (*tree.Tree, tree.ID, map[string]tree.ID) {
	t.Helper()
	tr := tree.New(nil)
	ids := map[string]tree.ID{}
	exprName := tr.Names.Intern("expr")

	ids["one"] = tr.NewNode(tree.Node{Kind: tree.Token, Text: "1"})
	ids["inner"] = tr.NewNode(tree.Node{Kind: tree.Rule, Name: exprName, Children: []tree.ID{ids["one"]}})
	tr.Link(ids["inner"], ids["one"])

	ids["outer"] = tr.NewNode(tree.Node{Kind: tree.Rule, Name: exprName, Children: []tree.ID{ids["inner"]}})
	tr.Link(ids["outer"], ids["inner"])

	root := tr.NewNode(tree.Node{Kind: tree.Rule, Children: []tree.ID{ids["outer"]}})
	tr.Link(root, ids["outer"])
	require.NoError(t, tr.SetRoot(root))
	ids["root"] = root
	return tr, root, ids
}

func TestHoistLevelReplacesOuterWithSameNamedDescendant(t *testing.T) {
	t.Parallel()
	tr, root, ids := buildHoistable(t)

	// The oracle only cares that "1" survives; it's agnostic to how many
	// wrapping expr layers remain, so hoisting outer down to inner (and
	// dropping one layer of nesting) must be accepted.
	requiresOne := oracle.Func(func(_ context.Context, _ string, input []byte) (oracle.Verdict, error) {
		if strings.Contains(string(input), "1") {
			return oracle.Interesting, nil
		}
		return oracle.NotInteresting, nil
	})

	changed, err := hdd.HoistLevel(context.Background(), tr, requiresOne, "level0", []tree.ID{ids["outer"]})
	require.NoError(t, err)
	assert.True(t, changed)

	// outer should now be gone from the tree; root's child chain collapsed
	// straight to inner.
	assert.Equal(t, []tree.ID{ids["inner"]}, tr.Node(root).Children)
}

func TestHoistLevelNoOpWhenNoDescendantQualifies(t *testing.T) {
	t.Parallel()
	tr, root, ids := buildHoistable(t)
	_ = root

	neverInteresting := oracle.Func(func(context.Context, string, []byte) (oracle.Verdict, error) {
		return oracle.NotInteresting, nil
	})

	changed, err := hdd.HoistLevel(context.Background(), tr, neverInteresting, "level0", []tree.ID{ids["outer"]})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, tree.Keep, tr.Node(ids["outer"]).State)
}
