package ddmin

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Zeller is the classic ddmin algorithm (Zeller & Hildebrandt, 2002),
// generalized from byte deltas to opaque configuration indices: at each
// granularity, it tries removing an individual chunk of the current
// configuration, then a complement, and only grows the granularity once
// neither move keeps the test Interesting. Ships as the default so a
// reduction session is runnable without wiring an external minimizer.
type Zeller struct {
	// MaxParallelism bounds how many candidates within one round (all
	// subsets, then all complements, of the current granularity) are
	// tested concurrently. <= 1 means sequential, stopping at the first
	// Interesting candidate exactly as the reference algorithm does.
	// Above 1, every candidate in the round is tested and the result is
	// resolved by priority order (lowest index first), never by which
	// goroutine happened to finish first — the returned configuration
	// does not depend on scheduling.
	MaxParallelism int
}

func (z Zeller) Minimize(ctx context.Context, n int, test TestFunc) ([]int, error) {
	c := indexRange(n)
	granularity := 2

	for len(c) >= 2 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		subsets := partition(c, granularity)

		if next, ok, err := z.firstInteresting(ctx, test, subsets); err != nil {
			return nil, err
		} else if ok {
			c = next
			granularity = max(granularity-1, 2)
			continue
		}

		complements := make([][]int, len(subsets))
		for i, s := range subsets {
			complements[i] = complement(c, s)
		}
		if next, ok, err := z.firstInteresting(ctx, test, complements); err != nil {
			return nil, err
		} else if ok {
			c = next
			granularity = max(granularity-1, 2)
			continue
		}

		if granularity >= len(c) {
			break
		}
		granularity = min(granularity*2, len(c))
	}

	return c, nil
}

// firstInteresting evaluates candidates and returns the one at the lowest
// index that tested Interesting, or ok=false if none did. Sequentially
// when MaxParallelism <= 1 (stopping early, as the reference algorithm
// does); otherwise every candidate is submitted up front through a
// semaphore-bounded fan-out and the winner is picked by priority once all
// results are in, so the outcome never depends on completion order.
func (z Zeller) firstInteresting(ctx context.Context, test TestFunc, candidates [][]int) ([]int, bool, error) {
	if z.MaxParallelism <= 1 {
		for _, cand := range candidates {
			if len(cand) == 0 {
				continue
			}
			v, err := test(ctx, cand)
			if err != nil {
				return nil, false, err
			}
			if v == Interesting {
				return cand, true, nil
			}
		}
		return nil, false, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := semaphore.NewWeighted(int64(z.MaxParallelism))
	verdicts := make([]Verdict, len(candidates))
	errs := make([]error, len(candidates))

	var wg sync.WaitGroup
	for i, cand := range candidates {
		if len(cand) == 0 {
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(i int, cand []int) {
			defer sem.Release(1)
			defer wg.Done()
			verdicts[i], errs[i] = test(ctx, cand)
		}(i, cand)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, false, err
		}
	}
	for i, v := range verdicts {
		if v == Interesting {
			return candidates[i], true, nil
		}
	}
	return nil, false, nil
}

// Singleton is the special-case minimizer run once a Zeller pass has
// reduced a configuration to a single remaining element: it tests whether
// dropping that last element, too, is still Interesting (the ddmin
// granularity loop can never reach n=0 on its own since it stops at
// len(c)<2). Corresponds to the reference implementation's EmptyDD.
type Singleton struct{}

func (Singleton) Minimize(ctx context.Context, n int, test TestFunc) ([]int, error) {
	full := indexRange(n)
	if n == 0 {
		return full, nil
	}
	v, err := test(ctx, nil)
	if err != nil {
		return nil, err
	}
	if v == Interesting {
		return nil, nil
	}
	return full, nil
}

func indexRange(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// partition splits c into up to granularity roughly-equal, contiguous
// chunks.
func partition(c []int, granularity int) [][]int {
	if granularity > len(c) {
		granularity = len(c)
	}
	if granularity < 1 {
		granularity = 1
	}
	chunks := make([][]int, 0, granularity)
	base := len(c) / granularity
	rem := len(c) % granularity
	start := 0
	for i := 0; i < granularity; i++ {
		size := base
		if i < rem {
			size++
		}
		if size == 0 {
			continue
		}
		chunks = append(chunks, c[start:start+size])
		start += size
	}
	return chunks
}

// complement returns the elements of c not present in s, in c's order,
// using a set built from s for the membership test.
func complement(c, s []int) []int {
	if len(s) == 0 {
		return append([]int{}, c...)
	}
	inS := make(map[int]bool, len(s))
	for _, v := range s {
		inS[v] = true
	}
	out := make([]int, 0, len(c)-len(s))
	for _, v := range c {
		if !inS[v] {
			out = append(out, v)
		}
	}
	return out
}
