// Package toposort provides a generic topological sort over a DAG, used by
// the replacement computer to order grammar rules by dependency and to
// detect rule-reference cycles that have no terminating expansion.
package toposort

import (
	"fmt"
	"iter"
	"slices"
)

const (
	unsorted byte = iota
	walking
	sorted
)

// CycleError is returned (via [Sorter.Err]) when the dependency graph
// contains a cycle. Unlike the upstream implementation this is recovered
// rather than panicked: the replacement computer turns it into a
// ReplacementUnresolvable diagnostic instead of crashing the process.
type CycleError[Node any] struct {
	Cycle []Node
}

func (e *CycleError[Node]) Error() string {
	return fmt.Sprintf("toposort: cycle detected: %v", e.Cycle)
}

// Sort sorts a DAG topologically, yielding nodes in dependency order (a node
// is yielded only after everything reachable from it via dag has been
// yielded). Roots are the nodes whose dependencies are being queried; key
// returns a comparable key for each node; dag returns a node's direct
// dependencies.
//
// If the graph contains a cycle, the returned sequence stops short of it;
// inspect the returned *Sorter's Err() after iterating to find out.
func Sort[Node any, Key comparable](
	roots []Node,
	key func(Node) Key,
	dag func(Node) iter.Seq[Node],
) (iter.Seq[Node], *Sorter[Node, Key]) {
	s := &Sorter[Node, Key]{Key: key}
	return s.Sort(roots, dag), s
}

// Sorter is reusable scratch space for a particular stencil of [Sort], which
// needs to allocate memory for book-keeping. This struct allows amortizing
// that cost across many calls, e.g. one per rule in a grammar.
type Sorter[Node any, Key comparable] struct {
	// A function to extract a unique key from each node, for marking.
	Key func(Node) Key

	state     map[Key]byte
	stack     []Node
	err       error
	iterating bool
}

// Err returns the error (if any) from the most recently completed Sort.
func (s *Sorter[Node, Key]) Err() error {
	return s.err
}

// Sort is like [Sort], but reuses allocated resources stored in s.
func (s *Sorter[Node, Key]) Sort(
	roots []Node,
	dag func(Node) iter.Seq[Node],
) iter.Seq[Node] {
	if s.state == nil {
		s.state = make(map[Key]byte)
	}
	s.err = nil

	return func(yield func(Node) bool) {
		if s.iterating {
			panic("internal/toposort: Sort() called reëntrantly")
		}
		s.iterating = true
		defer func() {
			clear(s.state)
			s.stack = s.stack[:0]
			s.iterating = false
		}()

		for _, root := range roots {
			if !s.push(root) {
				return
			}
			// This algorithm is DFS that has been tail-call-optimized into a loop.
			// Each node is visited twice in the loop: once to push its children,
			// and once to pop it and yield it. The state map tracks whether a
			// node has been visited, and if so whether it is mid-walk ("walking",
			// i.e. still on the stack) or fully resolved ("sorted").
			for len(s.stack) > 0 {
				node := s.stack[len(s.stack)-1]
				k := s.Key(node)
				state := s.state[k]

				if state == unsorted {
					s.state[k] = walking
					ok := true
					for child := range dag(node) {
						if !s.push(child) {
							ok = false
							break
						}
					}
					if !ok {
						return
					}
					continue
				}

				s.stack = s.stack[:len(s.stack)-1]
				if state != sorted {
					if !yield(node) {
						return
					}
					s.state[k] = sorted
				}
			}
		}
	}
}

// push pushes v onto the walk stack, returning false (and recording a
// [CycleError] in s.err) if doing so would close a cycle.
func (s *Sorter[Node, Key]) push(v Node) bool {
	k := s.Key(v)
	switch s.state[k] {
	case unsorted:
		s.stack = append(s.stack, v)
		return true

	case walking:
		prev := slices.IndexFunc(s.stack, func(n Node) bool { return s.Key(n) == k })
		cycle := append(slices.Clone(s.stack[prev:]), v)
		s.err = &CycleError[Node]{Cycle: cycle}
		return false

	default: // sorted
		return true
	}
}
