package hdd

import (
	"context"

	"github.com/renatahodovan/picireny/ddmin"
	"github.com/renatahodovan/picireny/tree"
)

// PruneLevel runs minimizer over one level's ids through bridge, committing
// whatever subset survives. When the minimizer converges to a single
// surviving id, it re-tests that element alone for removability via
// ddmin.Singleton (the reference implementation's EmptyDD fallback) —
// Zeller-family algorithms never probe the empty configuration themselves,
// so a lone required-looking element is never actually confirmed required.
//
// Reports whether anything was removed from ids.
func PruneLevel(ctx context.Context, bridge *ddmin.Bridge, minimizer ddmin.DDMIN, ids []tree.ID, label string) (bool, error) {
	if minimizer == nil {
		minimizer = ddmin.Zeller{}
	}
	if len(ids) == 0 {
		return false, nil
	}

	testFn := bridge.Test(ids, label)
	kept, err := minimizer.Minimize(ctx, len(ids), testFn)
	if err != nil {
		return false, err
	}

	if len(kept) == 1 {
		singletonIndex := kept[0]
		result, err := ddmin.Singleton{}.Minimize(ctx, 1, soloTest(testFn, singletonIndex))
		if err != nil {
			return false, err
		}
		if len(result) == 0 {
			kept = nil
		}
	}

	bridge.Commit(ids, kept)
	return len(kept) < len(ids), nil
}

// soloTest adapts a level-wide TestFunc to ddmin.Singleton's single-element
// view: Singleton thinks in terms of "kept" indices into a universe of 1,
// so 0 maps back to the real index that survived minimization.
func soloTest(testFn ddmin.TestFunc, realIndex int) ddmin.TestFunc {
	return func(ctx context.Context, kept []int) (ddmin.Verdict, error) {
		if len(kept) == 0 {
			return testFn(ctx, nil)
		}
		return testFn(ctx, []int{realIndex})
	}
}

// Minimal runs a 1-minimality sweep at the end of every pass, once all of
// the pass's levels have been processed (whether or not they removed
// anything): every surviving reducible node is retested individually for
// outright removability. Levels-based reduction
// alone can miss this because a node's siblings at its own level may have
// changed after it was last tested, and because coarse/hoist passes can
// expose newly-reducible nodes that never appeared in a level group.
//
// Reports whether anything was removed.
func Minimal(ctx context.Context, bridge *ddmin.Bridge, ids []tree.ID, label string) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}

	testFn := bridge.Test(ids, label)
	removedAny := false
	kept := make([]bool, len(ids))
	for i := range kept {
		kept[i] = true
	}

	for i := range ids {
		candidate := keptIndices(kept, i, false)
		v, err := testFn(ctx, candidate)
		if err != nil {
			return false, err
		}
		if v == ddmin.Interesting {
			kept[i] = false
			removedAny = true
		}
	}

	bridge.Commit(ids, keptIndicesAll(kept))
	return removedAny, nil
}

func keptIndices(kept []bool, exclude int, includeExcluded bool) []int {
	var out []int
	for i, k := range kept {
		if i == exclude && !includeExcluded {
			continue
		}
		if k || (i == exclude && includeExcluded) {
			out = append(out, i)
		}
	}
	return out
}

func keptIndicesAll(kept []bool) []int {
	var out []int
	for i, k := range kept {
		if k {
			out = append(out, i)
		}
	}
	return out
}
