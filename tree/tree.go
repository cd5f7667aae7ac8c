// Package tree defines the in-memory parse tree that picireny reduces: an
// arena of Rule/Quantifier/Token/HiddenToken/ErrorToken nodes addressed by
// stable ids, plus the KEEP/REMOVE/HIDDEN state that the HDD engine toggles
// across reduction passes.
package tree

import (
	"fmt"

	"github.com/renatahodovan/picireny/internal/arena"
	"github.com/renatahodovan/picireny/internal/intern"
	"github.com/renatahodovan/picireny/reporter"
)

// Kind distinguishes the variants of the Node sum type.
type Kind uint8

const (
	// Rule is an internal node for a grammar rule instance.
	Rule Kind = iota
	// Quantifier is an anonymous internal node grouping a contiguous,
	// jointly-optional span of siblings (an optional/repeating block).
	Quantifier
	// Token is a terminal carrying literal source text.
	Token
	// HiddenToken is a terminal on a hidden channel (whitespace, comments).
	HiddenToken
	// ErrorToken is inserted for a parse-error fragment.
	ErrorToken
)

func (k Kind) String() string {
	switch k {
	case Rule:
		return "Rule"
	case Quantifier:
		return "Quantifier"
	case Token:
		return "Token"
	case HiddenToken:
		return "HiddenToken"
	case ErrorToken:
		return "ErrorToken"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// State is the reduction state of a node.
type State uint8

const (
	// Keep means the node contributes its own text/children to unparse.
	Keep State = iota
	// Remove means the node contributes its cached replacement string.
	Remove
	// Hidden means the node is excluded from the set DDMIN considers
	// removable, but still unparses as Keep would.
	Hidden
)

func (s State) String() string {
	switch s {
	case Keep:
		return "KEEP"
	case Remove:
		return "REMOVE"
	case Hidden:
		return "HIDDEN"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// ID is a stable, arena-indexed node identifier. IDs are assigned once, in
// pre-order, when a tree is built, and never reused: transformations may
// reparent or splice nodes, but never renumber a surviving one, so that
// DDMIN configurations computed against one shape of the tree remain valid
// after the engine mutates node state.
type ID = arena.Pointer[Node]

// Node is one element of the parse tree.
//
// Not every field is meaningful for every Kind: Children is empty for
// Token/HiddenToken/ErrorToken, and Text is empty for Rule/Quantifier.
type Node struct {
	ID   ID
	Kind Kind

	// Name is the rule name (Rule) or token type name (Token/HiddenToken);
	// unused (zero) for Quantifier and ErrorToken.
	Name intern.ID

	// Text is the literal source text of a terminal node.
	Text string

	// Children are this node's child ids, in source order.
	Children []ID

	// Start and End locate the node's source span. Column is 0-indexed and
	// points just past the last character for End.
	Start, End reporter.Position

	State State

	// Replacement is the cached minimal string that may substitute for
	// this node's subtree (I6). Recomputed by the replacement computer and
	// by any transformation that changes a node's shape.
	Replacement string
}

// Tree is a parsed, mutable instance of a grammar bundle's output.
//
// A zero Tree is not valid; use [New].
type Tree struct {
	arena   arena.Arena[Node]
	parent  map[ID]ID
	root    ID
	Names   *intern.Table
	Grammar string // the logical grammar name from the bundle, for islands
}

// New creates an empty tree that shares the given intern table with its
// grammar bundle (so rule/token names compare cheaply across trees
// belonging to the same bundle, e.g. island sub-trees).
func New(names *intern.Table) *Tree {
	if names == nil {
		names = new(intern.Table)
	}
	return &Tree{parent: make(map[ID]ID), Names: names}
}

// NewNode allocates a node in the tree's arena and returns its id. Callers
// are expected to call [Tree.AppendChild] (or append to Children directly
// through [Tree.Node] and then call [Tree.Link]) to wire up parentage.
func (t *Tree) NewNode(n Node) ID {
	return t.arena.NewCompressed(n)
}

// Node dereferences id into the node it addresses.
func (t *Tree) Node(id ID) *Node {
	return t.arena.Deref(id)
}

// Root returns the tree's root node id.
func (t *Tree) Root() ID { return t.root }

// SetRoot designates id as the tree's root. id must be of Kind Rule (I1).
func (t *Tree) SetRoot(id ID) error {
	if t.Node(id).Kind != Rule {
		return &reporter.InvariantViolation{Invariant: "I1", Detail: "root must be a Rule node"}
	}
	t.root = id
	return nil
}

// Link records that child's parent is parent, maintaining the non-owning
// parent side-table (I2). It does not append child to parent's Children
// slice; callers manage Children directly and call Link to keep the side
// table in sync.
func (t *Tree) Link(parent, child ID) {
	t.parent[child] = parent
}

// Parent returns the parent of id, and false if id is the root (or
// unlinked).
func (t *Tree) Parent(id ID) (ID, bool) {
	p, ok := t.parent[id]
	return p, ok
}

// Reparent moves child from its current parent's bookkeeping to newParent,
// without touching any Children slice; used by transformations that splice
// subtrees (recursion flattening, squeezing).
func (t *Tree) Reparent(child, newParent ID) {
	t.parent[child] = newParent
}

// AppendChild appends child to parent's Children slice and links it.
func (t *Tree) AppendChild(parent, child ID) {
	n := t.Node(parent)
	n.Children = append(n.Children, child)
	t.Link(parent, child)
}

// Check validates invariants I1 (a Rule root) and I2 (every child records
// its parent) over the whole tree, returning the first violation found.
// No other invariant is checked.
func (t *Tree) Check() error {
	if t.root.Nil() {
		return &reporter.InvariantViolation{Invariant: "I1", Detail: "tree has no root"}
	}
	if t.Node(t.root).Kind != Rule {
		return &reporter.InvariantViolation{Invariant: "I1", Detail: "root is not a Rule node"}
	}

	var walk func(id ID) error
	walk = func(id ID) error {
		n := t.Node(id)
		for _, c := range n.Children {
			if p, ok := t.Parent(c); !ok || p != id {
				return &reporter.InvariantViolation{
					Invariant: "I2",
					Detail:    fmt.Sprintf("child %v of %v does not record it as parent", c, id),
				}
			}
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(t.root)
}

// Reducible reports whether id should be offered to DDMIN as part of the
// configuration space at the current tree shape (I5 and the HIDDEN state
// both exclude a node).
func (t *Tree) Reducible(id ID, includeHidden bool) bool {
	n := t.Node(id)
	if n.Kind == HiddenToken && !includeHidden {
		return false
	}
	return n.State != Hidden
}

// Snapshot captures the State of every id in ids, for later restoration by
// [Tree.Restore].
func (t *Tree) Snapshot(ids []ID) map[ID]State {
	snap := make(map[ID]State, len(ids))
	for _, id := range ids {
		snap[id] = t.Node(id).State
	}
	return snap
}

// Restore resets every id in snap back to its recorded state.
func (t *Tree) Restore(snap map[ID]State) {
	for id, s := range snap {
		t.Node(id).State = s
	}
}

// SetStates sets every id in kept to Keep and every other id in all to
// Remove, the core operation behind a DDMIN test_fn.
func SetStates(tr *Tree, all []ID, kept map[ID]bool) {
	for _, id := range all {
		n := tr.Node(id)
		if kept[id] {
			n.State = Keep
		} else {
			n.State = Remove
		}
	}
}
