package hdd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/renatahodovan/picireny/hdd"
	"github.com/renatahodovan/picireny/tree"
)

func TestCountHeightShapeOverKeepSubtree(t *testing.T) {
	t.Parallel()
	tr, root, ids := buildNested(t)

	assert.Equal(t, 6, hdd.Count(tr, root, false)) // root, a, b, x, y, z
	assert.Equal(t, 3, hdd.Height(tr, root, false))
	assert.Equal(t, []int{1, 2, 3}, hdd.Shape(tr, root, false))

	tr.Node(ids["a"]).State = tree.Remove
	assert.Equal(t, 3, hdd.Count(tr, root, false)) // root, b, z
	assert.Equal(t, 3, hdd.Height(tr, root, false))
}

func TestCountIncludesRemovedWhenRequested(t *testing.T) {
	t.Parallel()
	tr, root, ids := buildNested(t)
	tr.Node(ids["a"]).State = tree.Remove

	assert.Equal(t, 6, hdd.Count(tr, root, true))
}
