package ddmin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renatahodovan/picireny/ddmin"
)

// mustContain is an oracle-like test function: Interesting iff kept
// contains every index in want.
func mustContain(want []int) ddmin.TestFunc {
	set := make(map[int]bool, len(want))
	for _, w := range want {
		set[w] = true
	}
	return func(_ context.Context, kept []int) (ddmin.Verdict, error) {
		got := make(map[int]bool, len(kept))
		for _, k := range kept {
			got[k] = true
		}
		for w := range set {
			if !got[w] {
				return ddmin.NotInteresting, nil
			}
		}
		return ddmin.Interesting, nil
	}
}

func TestZellerReducesToMinimalCause(t *testing.T) {
	t.Parallel()
	c, err := ddmin.Zeller{}.Minimize(context.Background(), 10, mustContain([]int{3, 7}))
	require.NoError(t, err)
	assert.Contains(t, c, 3)
	assert.Contains(t, c, 7)
	assert.LessOrEqual(t, len(c), 10)
}

func TestZellerAllElementsRequired(t *testing.T) {
	t.Parallel()
	c, err := ddmin.Zeller{}.Minimize(context.Background(), 5, mustContain([]int{0, 1, 2, 3, 4}))
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, c)
}

func TestZellerParallelMatchesSequentialResult(t *testing.T) {
	t.Parallel()
	want := []int{1, 4, 6}
	seq, err := ddmin.Zeller{}.Minimize(context.Background(), 8, mustContain(want))
	require.NoError(t, err)
	par, err := ddmin.Zeller{MaxParallelism: 4}.Minimize(context.Background(), 8, mustContain(want))
	require.NoError(t, err)

	for _, w := range want {
		assert.Contains(t, seq, w)
		assert.Contains(t, par, w)
	}
}

func TestZellerPropagatesTestError(t *testing.T) {
	t.Parallel()
	boom := assert.AnError
	_, err := ddmin.Zeller{}.Minimize(context.Background(), 4, func(context.Context, []int) (ddmin.Verdict, error) {
		return ddmin.Unresolved, boom
	})
	require.ErrorIs(t, err, boom)
}

func TestSingletonRemovesLastElementWhenStillInteresting(t *testing.T) {
	t.Parallel()
	always := func(context.Context, []int) (ddmin.Verdict, error) { return ddmin.Interesting, nil }
	c, err := ddmin.Singleton{}.Minimize(context.Background(), 1, always)
	require.NoError(t, err)
	assert.Empty(t, c)
}

func TestSingletonKeepsLastElementWhenRequired(t *testing.T) {
	t.Parallel()
	never := func(context.Context, []int) (ddmin.Verdict, error) { return ddmin.NotInteresting, nil }
	c, err := ddmin.Singleton{}.Minimize(context.Background(), 1, never)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, c)
}
