// Package hdd implements the Hierarchical Delta Debugging engine: the
// level-by-level reduction loop that drives an external DDMIN
// implementation (package ddmin) across a parse tree (package tree),
// choosing at each step which nodes are offered as one configuration.
package hdd

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/renatahodovan/picireny/ddmin"
	"github.com/renatahodovan/picireny/oracle"
	"github.com/renatahodovan/picireny/tree"
	"github.com/renatahodovan/picireny/unparse"
)

// Variant selects a LevelEnumerator.
type Variant int

const (
	// VariantBFS is classic HDD: level k is every node at depth k.
	VariantBFS Variant = iota
	// VariantRecursive is HDDr: per-subtree direct-descendant levels.
	VariantRecursive
	// VariantCoarseBFS is BFS restricted to the coarse-filtered tree.
	VariantCoarseBFS
	// VariantCoarseRecursive is Recursive restricted to the coarse-filtered tree.
	VariantCoarseRecursive
)

// NodeTransforms is the set of per-level transforms a pass applies.
type NodeTransforms uint8

const (
	// Prune submits each level's removable ids to DDMIN.
	Prune NodeTransforms = 1 << iota
	// Hoist tries replacing removable non-terminals with same-named descendants.
	Hoist
)

func (t NodeTransforms) has(flag NodeTransforms) bool { return t&flag != 0 }

// RecursiveOptions parametrizes VariantRecursive's traversal order; unused
// for the other variants.
type RecursiveOptions struct {
	PopFirst       bool
	AppendReversed bool
}

// Opts configures one Run.
type Opts struct {
	Variant          Variant
	RecursiveOptions RecursiveOptions
	Transforms       NodeTransforms
	// HDDStar repeats the chosen variant (plus transforms) to a fixed
	// point: an entire pass that removes nothing ends the run.
	HDDStar bool

	// DDMIN is the per-level set minimizer; defaults to ddmin.Zeller{}.
	DDMIN ddmin.DDMIN

	CacheSize int
	Unparse   unparse.Options

	// Logger receives one info record per level ("level d/height, n nodes
	// remaining"), the Go equivalent of the reference tool's
	// logger.info(...) progress calls, plus the per-oracle-call debug
	// records ddmin.Bridge emits. Nil disables logging.
	Logger *slog.Logger
}

// Result reports what one Run accomplished.
type Result struct {
	Passes  int
	Removed bool
}

// Run drives one-shot or HDD* reduction of t against o, per opts.
func Run(ctx context.Context, t *tree.Tree, o oracle.Oracle, opts Opts) (Result, error) {
	if opts.DDMIN == nil {
		opts.DDMIN = ddmin.Zeller{}
	}
	if opts.Transforms == 0 {
		opts.Transforms = Prune
	}

	bridge := ddmin.NewBridge(t, o, ddmin.Options{CacheSize: opts.CacheSize, Unparse: opts.Unparse, Logger: opts.Logger})
	enumerator := levelEnumeratorFor(opts, t)

	var result Result
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		passRemoved, err := runPass(ctx, t, o, bridge, enumerator, opts, result.Passes)
		if err != nil {
			return result, err
		}
		result.Passes++
		if passRemoved {
			result.Removed = true
		}
		if !opts.HDDStar || !passRemoved {
			break
		}
	}

	return result, nil
}

func levelEnumeratorFor(opts Opts, t *tree.Tree) LevelEnumerator {
	replacement := func(id tree.ID) string { return t.Node(id).Replacement }
	switch opts.Variant {
	case VariantRecursive:
		return Recursive(opts.RecursiveOptions)
	case VariantCoarseBFS:
		return CoarseBFS{Replacement: replacement}
	case VariantCoarseRecursive:
		return CoarseRecursive{Recursive: Recursive(opts.RecursiveOptions), Replacement: replacement}
	default:
		return BFS{}
	}
}

func runPass(ctx context.Context, t *tree.Tree, o oracle.Oracle, bridge *ddmin.Bridge, enumerator LevelEnumerator, opts Opts, passIndex int) (bool, error) {
	removedAny := false
	levelIndex := 0
	height := Height(t, t.Root(), false)

	for level := range enumerator.Levels(t, t.Root()) {
		if err := ctx.Err(); err != nil {
			return removedAny, err
		}
		levelIndex++
		if opts.Logger != nil {
			opts.Logger.Info("reducing level", "pass", passIndex, "level", levelIndex, "height", height, "nodes", Count(t, t.Root(), false))
		}

		if opts.Transforms.has(Prune) {
			removed, err := PruneLevel(ctx, bridge, opts.DDMIN, level, levelLabel(passIndex, levelIndex))
			if err != nil {
				return removedAny, err
			}
			if removed {
				removedAny = true
			}
		}

		if opts.Transforms.has(Hoist) {
			hoisted, err := HoistLevel(ctx, t, o, levelLabel(passIndex, levelIndex), level)
			if err != nil {
				return removedAny, err
			}
			if hoisted {
				removedAny = true
			}
		}
	}

	var allReducible []tree.ID
	root := t.Root()
	for _, c := range t.Node(root).Children {
		collectAllReducible(t, c, &allReducible)
	}
	reduced, err := Minimal(ctx, bridge, allReducible, levelLabel(passIndex, -1))
	if err != nil {
		return removedAny, err
	}
	if reduced {
		removedAny = true
	}

	return removedAny, nil
}

// collectAllReducible gathers every surviving reducible node id, the root
// itself excluded: removing the root would collapse the whole tree to its
// (usually empty) replacement, which is never a meaningful reduction.
func collectAllReducible(t *tree.Tree, id tree.ID, out *[]tree.ID) {
	n := t.Node(id)
	if n.State == tree.Remove {
		return
	}
	if n.State == tree.Keep && t.Reducible(id, false) {
		*out = append(*out, id)
	}
	for _, c := range n.Children {
		collectAllReducible(t, c, out)
	}
}

func levelLabel(pass, level int) string {
	if level < 0 {
		return "pass" + strconv.Itoa(pass) + "/minimal"
	}
	return "pass" + strconv.Itoa(pass) + "/level" + strconv.Itoa(level)
}
