// Package picireny implements Hierarchical Delta Debugging: reducing a
// parsed input to the smallest tree, in grammar terms rather than raw
// bytes, for which an oracle still reports the property under test.
//
// Reduce ties together every other package into the pipeline spec.md §2
// describes: a [grammarbundle.TreeBuilder] parses the input, [replace]
// computes the minimal text every rule can fall back to, [transform]
// rewrites the tree into HDD-ready shape, and [hdd] drives the actual
// reduction loop against an [oracle.Oracle].
package picireny

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/renatahodovan/picireny/ddmin"
	"github.com/renatahodovan/picireny/diagnostic"
	"github.com/renatahodovan/picireny/grammarbundle"
	"github.com/renatahodovan/picireny/hdd"
	"github.com/renatahodovan/picireny/oracle"
	"github.com/renatahodovan/picireny/replace"
	"github.com/renatahodovan/picireny/reporter"
	"github.com/renatahodovan/picireny/transform"
	"github.com/renatahodovan/picireny/tree"
	"github.com/renatahodovan/picireny/unparse"
)

// Variant selects the HDD traversal strategy and fixed-point policy Reduce
// drives the tree through, corresponding to one (or, for CoarseFull, two
// chained) [hdd.Run] invocations.
type Variant int

const (
	// Classic runs one BFS-by-level pass (hdd.py's plain hddmin).
	Classic Variant = iota
	// ClassicStar repeats Classic to a fixed point (HDD*).
	ClassicStar
	// Recursive descends subtree-by-subtree instead of level-by-level
	// (hddr.py).
	Recursive
	// Coarse is Classic with replacement-equal subtrees hidden from
	// consideration first (coarse_hdd.py).
	Coarse
	// CoarseRecursive is Recursive with the same coarse filtering.
	CoarseRecursive
	// CoarseFull runs Coarse to a fixed point, then Classic to a fixed
	// point over what remains (coarse_hdd.py's coarse_full_hddmin).
	CoarseFull
)

// Options configures one reduction session, grounded on the shape of
// Compiler in the teacher package this module was built from: one
// required collaborator (here, three: a builder, a bundle, an oracle)
// plus parallelism, diagnostics, and policy knobs.
type Options struct {
	// Builder turns Input into a *tree.Tree. Required.
	Builder grammarbundle.TreeBuilder
	// Bundle describes the grammar Builder parses against. Required.
	Bundle *grammarbundle.Bundle
	// Oracle decides which candidates remain interesting. Required.
	Oracle oracle.Oracle

	Variant          Variant
	RecursiveOptions hdd.RecursiveOptions
	// Hoist additionally enables same-named-descendant hoisting on top
	// of pruning at every level.
	Hoist bool

	// ReplacementOverrides bypasses computed replacements for specific
	// rules, exactly like Bundle.Replacements but supplied by the
	// caller instead of the descriptor file.
	ReplacementOverrides map[string]string

	// MaxParallelism bounds concurrent oracle invocations within a
	// single DDMIN round. <= 1 means sequential.
	MaxParallelism int
	// CacheSize bounds the content-hash verdict cache; <= 0 is
	// unbounded.
	CacheSize int
	// PreserveHiddenChannels forces hidden tokens (whitespace, comments)
	// to always unparse, instead of only between two kept neighbors.
	PreserveHiddenChannels bool

	// Reporter receives diagnostics raised while building the tree or
	// computing replacements. Nil discards everything but fatal errors.
	Reporter reporter.Reporter
	// DiagnosticStyle controls how the diagnostics reaching Reporter are
	// rendered into Result.Diagnostics. Zero defaults to [diagnostic.Simple],
	// since a session never retains a grammar bundle's source text to
	// render a full rustc-style snippet against.
	DiagnosticStyle diagnostic.Style
	// Logger, if non-nil, receives per-pass and per-oracle-call
	// structured log records.
	Logger *slog.Logger
}

// Result is what Reduce produces: the reduced tree alongside its rendered
// text, a unified diff against the original input, and session stats. A
// non-nil error from Reduce still comes with the best Result reached
// before the error aborted the session (spec.md §7).
type Result struct {
	Tree *tree.Tree
	Text string
	Diff string

	// Passes is the number of HDD passes actually run, summed across
	// both halves of CoarseFull.
	Passes int
	// Removed reports whether any pass actually shrank the tree.
	Removed bool

	// Diagnostics holds every error and warning raised during the
	// session, rendered via the diagnostic package, in the order they
	// occurred.
	Diagnostics []string
}

// Reduce runs one reduction session: parse, compute replacements,
// transform, then reduce per opts.Variant.
func Reduce(ctx context.Context, opts Options, input []byte) (Result, error) {
	style := opts.DiagnosticStyle
	if style == 0 {
		style = diagnostic.Simple
	}
	var diagnostics []string
	handler := reporter.NewHandler(diagnosticReporter(style, &diagnostics, opts.Reporter))
	withDiagnostics := func(r Result) Result {
		r.Diagnostics = diagnostics
		return r
	}

	build, err := opts.Builder.Build(ctx, opts.Bundle, input)
	if err != nil {
		var withErrors *reporter.ParsedWithErrors
		if errors.As(err, &withErrors) {
			handler.HandleWarning(reporter.Position{}, withErrors)
		} else {
			return withDiagnostics(Result{}), handler.HandleError(ensurePositioned(err))
		}
	}
	t := build.Tree
	if t == nil {
		return withDiagnostics(Result{}), handler.HandleError(ensurePositioned(&reporter.InvariantViolation{
			Invariant: "I1",
			Detail:    "tree builder returned a nil tree without a ParseFailed error",
		}))
	}

	unparseOpts := unparse.Options{PreserveHiddenChannels: opts.PreserveHiddenChannels}
	original := unparse.Text(t, t.Root(), unparseOpts)

	overrides := mergeOverrides(opts.Bundle, opts.ReplacementOverrides)
	rep := overrides
	if build.Grammar != nil {
		computed, cerr := replace.Compute(build.Grammar, overrides)
		rep = computed
		if cerr != nil {
			return withDiagnostics(Result{Tree: t, Text: original}), handler.HandleError(ensurePositioned(cerr))
		}
	}
	if rep != nil {
		if err := replace.Apply(t, t.Root(), rep); err != nil {
			return withDiagnostics(Result{Tree: t, Text: original}), handler.HandleError(ensurePositioned(err))
		}
	}

	if err := prepareTree(t); err != nil {
		return withDiagnostics(Result{Tree: t, Text: original}), handler.HandleError(ensurePositioned(err))
	}

	hddOpts := hdd.Opts{
		RecursiveOptions: opts.RecursiveOptions,
		Transforms:       hdd.Prune,
		DDMIN:            ddmin.Zeller{MaxParallelism: opts.MaxParallelism},
		CacheSize:        opts.CacheSize,
		Unparse:          unparseOpts,
		Logger:           opts.Logger,
	}
	if opts.Hoist {
		hddOpts.Transforms |= hdd.Hoist
	}

	var result Result
	switch opts.Variant {
	case CoarseFull:
		coarse := hddOpts
		coarse.Variant = hdd.VariantCoarseBFS
		coarse.HDDStar = true
		r1, err := hdd.Run(ctx, t, opts.Oracle, coarse)
		result.Passes += r1.Passes
		result.Removed = result.Removed || r1.Removed
		if err != nil {
			return withDiagnostics(finalize(t, original, unparseOpts, result)), handler.HandleError(ensurePositioned(err))
		}

		classic := hddOpts
		classic.Variant = hdd.VariantBFS
		classic.HDDStar = true
		r2, err := hdd.Run(ctx, t, opts.Oracle, classic)
		result.Passes += r2.Passes
		result.Removed = result.Removed || r2.Removed
		if err != nil {
			return withDiagnostics(finalize(t, original, unparseOpts, result)), handler.HandleError(ensurePositioned(err))
		}

	default:
		hddOpts.Variant, hddOpts.HDDStar = variantOpts(opts.Variant)
		r, err := hdd.Run(ctx, t, opts.Oracle, hddOpts)
		result.Passes = r.Passes
		result.Removed = r.Removed
		if err != nil {
			return withDiagnostics(finalize(t, original, unparseOpts, result)), handler.HandleError(ensurePositioned(err))
		}
	}

	return withDiagnostics(finalize(t, original, unparseOpts, result)), nil
}

// ensurePositioned wraps err in a zero Position if it doesn't already carry
// one, so every error reaching Handler.HandleError takes the
// [reporter.ErrorWithPos] branch and is rendered as a diagnostic.
func ensurePositioned(err error) reporter.ErrorWithPos {
	if ewp, ok := err.(reporter.ErrorWithPos); ok {
		return ewp
	}
	return reporter.Error(reporter.Position{}, err)
}

// diagnosticReporter renders every error and warning handled during a
// session through [diagnostic.Report.Render], appending the result to sink, before
// forwarding to inner (the caller's own Reporter, if any) so a caller's
// abort/continue decision is unaffected by this rendering step.
func diagnosticReporter(style diagnostic.Style, sink *[]string, inner reporter.Reporter) reporter.Reporter {
	render := func(err reporter.ErrorWithPos, warn bool) {
		var report diagnostic.Report
		if warn {
			report.Warn(err, diagnostic.FromPositioned(err))
		} else {
			report.Error(err, diagnostic.FromPositioned(err))
		}
		*sink = append(*sink, report.Render(style))
	}
	return reporter.NewReporter(
		func(err reporter.ErrorWithPos) error {
			render(err, false)
			if inner != nil {
				return inner.Error(err)
			}
			return err
		},
		func(err reporter.ErrorWithPos) {
			render(err, true)
			if inner != nil {
				inner.Warning(err)
			}
		},
	)
}

// mergeOverrides combines a bundle's own manual replacement overrides with
// caller-supplied ones, the latter winning on conflict.
func mergeOverrides(b *grammarbundle.Bundle, extra map[string]string) map[string]string {
	if b == nil || len(b.Replacements) == 0 {
		return extra
	}
	merged := make(map[string]string, len(b.Replacements)+len(extra))
	for k, v := range b.Replacements {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func variantOpts(v Variant) (hdd.Variant, bool) {
	switch v {
	case ClassicStar:
		return hdd.VariantBFS, true
	case Recursive:
		return hdd.VariantRecursive, false
	case Coarse:
		return hdd.VariantCoarseBFS, false
	case CoarseRecursive:
		return hdd.VariantCoarseRecursive, false
	default:
		return hdd.VariantBFS, false
	}
}

// prepareTree runs the transform pipeline every reduction session needs
// before HDD can start: dead quantifier cleanup, recursion flattening,
// chain squeezing, then marking nodes HDD must never offer for removal.
func prepareTree(t *tree.Tree) error {
	root := t.Root()
	if err := transform.RemoveEmpty(t, root); err != nil {
		return err
	}
	if err := transform.FlattenRecursion(t, root); err != nil {
		return err
	}
	if err := transform.Squeeze(t, root); err != nil {
		return err
	}
	replacementOf := func(id tree.ID) string { return t.Node(id).Replacement }
	return transform.HideUnremovable(t, root, replacementOf)
}

func finalize(t *tree.Tree, original string, unparseOpts unparse.Options, result Result) Result {
	result.Tree = t
	result.Text = unparse.Text(t, t.Root(), unparseOpts)
	result.Diff = unifiedDiff(original, result.Text)
	return result
}

func unifiedDiff(before, after string) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "before",
		ToFile:   "after",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return text
}
