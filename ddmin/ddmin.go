// Package ddmin provides the black-box configuration minimizer contract
// used by the HDD engine, one concrete implementation of it (the classic
// ddmin algorithm), and the bridge that adapts a subset-of-node-ids
// configuration into unparsed text fed to a user oracle.
package ddmin

import "context"

// Verdict is the result of testing one candidate configuration.
type Verdict int

const (
	// Unresolved means the oracle could not decide (crash, timeout):
	// treated conservatively as NotInteresting by every caller in this
	// package.
	Unresolved Verdict = iota
	Interesting
	NotInteresting
)

// TestFunc evaluates one candidate subset of a configuration of n elements,
// identified by the indices (into the original, level-defining slice) to
// keep. Implementations must tolerate ctx cancellation by returning
// promptly; a returned error aborts the running [DDMIN.Minimize] call.
type TestFunc func(ctx context.Context, kept []int) (Verdict, error)

// DDMIN is the external, replaceable minimizer collaborator: given a
// configuration of n elements and a way to test a subset, return the
// indices of a 1-minimal subset that still tests Interesting (or all n
// indices if none of the elements could be removed).
type DDMIN interface {
	Minimize(ctx context.Context, n int, test TestFunc) ([]int, error)
}
