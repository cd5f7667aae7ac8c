// Package oracle defines the external interestingness test that drives
// every reduction decision: the one collaborator picireny cannot supply
// itself, since only the user knows what "interesting" means for their bug.
package oracle

import "context"

// Verdict is the result of testing one candidate input.
type Verdict int

const (
	// Unresolved means the test could not be completed (the process
	// crashed for an unrelated reason, or it timed out); callers treat
	// this the same as NotInteresting — conservative, never discards a
	// baseline on an inconclusive signal.
	Unresolved Verdict = iota
	Interesting
	NotInteresting
)

func (v Verdict) String() string {
	switch v {
	case Interesting:
		return "INTERESTING"
	case NotInteresting:
		return "NOT_INTERESTING"
	default:
		return "UNRESOLVED"
	}
}

// Oracle decides whether a candidate input still exhibits the property
// being reduced for (a crash, a compiler diagnostic, a specific output).
// id is a caller-assigned label for the candidate (e.g. a level/index
// prefix), useful for test artifacts or logging; it carries no semantics.
//
// Implementations must be safe for concurrent use: the DDMIN bridge may
// invoke Test from multiple goroutines at once, bounded by
// Options.MaxParallelism.
type Oracle interface {
	Test(ctx context.Context, id string, input []byte) (Verdict, error)
}

// Func adapts a plain function to the Oracle interface.
type Func func(ctx context.Context, id string, input []byte) (Verdict, error)

func (f Func) Test(ctx context.Context, id string, input []byte) (Verdict, error) {
	return f(ctx, id, input)
}
