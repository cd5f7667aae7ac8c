package ddmin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/petermattis/goid"

	"github.com/renatahodovan/picireny/oracle"
	"github.com/renatahodovan/picireny/tree"
	"github.com/renatahodovan/picireny/unparse"
)

// Options configures a Bridge.
type Options struct {
	// CacheSize bounds the content-based verdict cache; <= 0 means
	// unbounded.
	CacheSize int

	Unparse unparse.Options

	// Logger receives one debug record per oracle invocation, tagged with
	// the calling goroutine id so that concurrent candidate traces (see
	// MaxParallelism in the DDMIN implementations) can be correlated in
	// logs. Nil disables logging.
	Logger *slog.Logger
}

// Bridge adapts a DDMIN configuration (a subset of a level's node ids to
// keep) into an unparsed candidate text and an oracle verdict: it is what
// turns [DDMIN]'s abstract index-based [TestFunc] contract into a concrete
// test against a picireny tree. Candidates are rendered through an unparse
// override rather than by changing and restoring node states; only
// [Bridge.Commit] writes states to the tree.
type Bridge struct {
	Tree   *tree.Tree
	Oracle oracle.Oracle
	Cache  *Cache
	Opts   Options
}

// NewBridge constructs a Bridge with a cache sized per opts.
func NewBridge(t *tree.Tree, o oracle.Oracle, opts Options) *Bridge {
	return &Bridge{Tree: t, Oracle: o, Cache: NewCache(opts.CacheSize), Opts: opts}
}

// Test returns a [TestFunc] closed over one level's node ids, in
// enumeration order. Each invocation materializes its candidate's text via
// an unparse override — it never mutates b.Tree — so concurrent
// invocations from a parallel [DDMIN] implementation are safe. label
// identifies this level in oracle-facing candidate ids.
func (b *Bridge) Test(ids []tree.ID, label string) TestFunc {
	return func(ctx context.Context, kept []int) (Verdict, error) {
		override := make(map[tree.ID]tree.State, len(ids))
		for _, id := range ids {
			override[id] = tree.Remove
		}
		for _, i := range kept {
			override[ids[i]] = tree.Keep
		}

		opts := b.Opts.Unparse
		opts.Override = override
		text := unparse.Text(b.Tree, b.Tree.Root(), opts)

		key := HashText(text)
		if v, ok := b.Cache.Lookup(key); ok {
			if b.Opts.Logger != nil {
				b.Opts.Logger.Debug("oracle cache hit", "goroutine", goid.Get(), "label", label, "hash", key)
			}
			return v, nil
		}

		id := fmt.Sprintf("%s/%x", label, key)
		if b.Opts.Logger != nil {
			b.Opts.Logger.Debug("oracle test", "goroutine", goid.Get(), "id", id, "bytes", len(text))
		}
		verdict, err := b.Oracle.Test(ctx, id, []byte(text))
		if err != nil {
			return Unresolved, err
		}
		v := fromOracle(verdict)
		b.Cache.Store(key, v)
		return v, nil
	}
}

// Commit applies the winning kept-index set that a [DDMIN.Minimize] call
// returned for ids to the live tree — the one point where this level's
// reduction result is actually written back.
func (b *Bridge) Commit(ids []tree.ID, kept []int) {
	keptSet := make(map[tree.ID]bool, len(kept))
	for _, i := range kept {
		keptSet[ids[i]] = true
	}
	tree.SetStates(b.Tree, ids, keptSet)
}

func fromOracle(v oracle.Verdict) Verdict {
	switch v {
	case oracle.Interesting:
		return Interesting
	case oracle.NotInteresting:
		return NotInteresting
	default:
		return Unresolved
	}
}
