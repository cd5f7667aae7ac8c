package hdd_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renatahodovan/picireny/hdd"
	"github.com/renatahodovan/picireny/oracle"
	"github.com/renatahodovan/picireny/tree"
)

// countingHandler counts slog records emitted through it, so tests can
// assert that progress logging actually happened without parsing text.
type countingHandler struct{ n *int }

func (h countingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h countingHandler) Handle(context.Context, slog.Record) error {
	*h.n++
	return nil
}
func (h countingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h countingHandler) WithGroup(string) slog.Handler      { return h }

func unparseKept(tr *tree.Tree, id tree.ID) string {
	n := tr.Node(id)
	if n.State == tree.Remove {
		return n.Replacement
	}
	if len(n.Children) == 0 {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(unparseKept(tr, c))
	}
	return b.String()
}

func TestRunBFSReducesToMinimalCause(t *testing.T) {
	t.Parallel()
	tr, root, ids := buildLetters(t)

	requiresB := oracle.Func(func(_ context.Context, _ string, input []byte) (oracle.Verdict, error) {
		if strings.Contains(string(input), "b") {
			return oracle.Interesting, nil
		}
		return oracle.NotInteresting, nil
	})

	result, err := hdd.Run(context.Background(), tr, requiresB, hdd.Opts{})
	require.NoError(t, err)
	assert.True(t, result.Removed)
	assert.Equal(t, "b", unparseKept(tr, root))
	_ = ids
}

func TestRunHDDStarLoopsUntilFixedPoint(t *testing.T) {
	t.Parallel()
	tr, root, _ := buildNested(t)

	requiresZ := oracle.Func(func(_ context.Context, _ string, input []byte) (oracle.Verdict, error) {
		if strings.Contains(string(input), "z") {
			return oracle.Interesting, nil
		}
		return oracle.NotInteresting, nil
	})

	result, err := hdd.Run(context.Background(), tr, requiresZ, hdd.Opts{HDDStar: true})
	require.NoError(t, err)
	assert.True(t, result.Removed)
	assert.Equal(t, "z", unparseKept(tr, root))
	assert.GreaterOrEqual(t, result.Passes, 1)
}

func TestRunReportsProgress(t *testing.T) {
	t.Parallel()
	tr, _, _ := buildLetters(t)

	alwaysInteresting := oracle.Func(func(context.Context, string, []byte) (oracle.Verdict, error) {
		return oracle.Interesting, nil
	})

	count := 0
	logger := slog.New(countingHandler{n: &count})
	_, err := hdd.Run(context.Background(), tr, alwaysInteresting, hdd.Opts{Logger: logger})
	require.NoError(t, err)
	assert.Greater(t, count, 0)
}
