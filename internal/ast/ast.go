// Package ast defines the arena-allocated expression tree the parser
// builds and the code generator walks.
//
// The distilled spec's Design Notes prefer, for a Go-like target, "child
// by index into an arena vector" over raw pointers: it "eliminates
// lifetime entanglement ... keeps the AST contiguous ... and lets a
// single clear() reclaim the whole tree." That is exactly what this
// package does: a Node is a flat tagged-variant struct (no interfaces, no
// virtual dispatch — every consumer already switches on Kind, so
// dispatch is monomorphic, per the same Design Notes), and children are
// arena.Ref indices rather than pointers.
package ast

import "github.com/cwbudde/exprjit/internal/arena"

// Kind tags which variant a Node is.
type Kind int

const (
	// KindError is the sentinel produced when a subtree could not be
	// parsed; its presence anywhere in a Tree marks the whole tree
	// unusable for code generation.
	KindError Kind = iota
	KindNumber
	KindVariable
	KindUnary
	KindBinary
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "Error"
	case KindNumber:
		return "Number"
	case KindVariable:
		return "Variable"
	case KindUnary:
		return "Unary"
	case KindBinary:
		return "Binary"
	case KindFunction:
		return "Function"
	default:
		return "Unknown"
	}
}

// UnaryOp distinguishes the two unary operators.
type UnaryOp int

const (
	Positive UnaryOp = iota
	Negative
)

func (op UnaryOp) String() string {
	if op == Negative {
		return "-"
	}
	return "+"
}

// BinaryOp distinguishes the five binary operators.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Pow
)

func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Pow:
		return "^"
	default:
		return "?"
	}
}

// NoRef is the zero-value-distinguishable "absent child" reference.
// Arena refs returned by Alloc are always >= 0, so -1 is never a valid
// allocated reference.
const NoRef arena.Ref = -1

// Node is the tagged-variant expression node. Exactly which fields are
// meaningful depends on Kind:
//
//	KindNumber:   Num
//	KindVariable: (no payload)
//	KindUnary:    UnOp, Left (operand)
//	KindBinary:   BinOp, Left, Right
//	KindFunction: FuncName, Left (argument)
//	KindError:    (no payload)
type Node struct {
	Kind     Kind
	Num      float64
	UnOp     UnaryOp
	BinOp    BinaryOp
	FuncName string
	Left     arena.Ref
	Right    arena.Ref
}

// Tree owns the arena of allocated Nodes plus the root reference and the
// errored flag a parser accumulates while building it. Tree's node
// lifetime is exactly the lifetime of Arena: once Arena is Reset or
// Freed, every Ref in the tree is invalidated (spec §3's "node lifetime
// is exactly the lifetime of the arena that allocated it").
type Tree struct {
	Arena   *arena.Arena[Node]
	Root    arena.Ref
	Errored bool
}

// NewTree creates an empty Tree backed by its own fresh arena.
func NewTree() *Tree {
	return &Tree{Arena: arena.New[Node](arena.DefaultCapacity), Root: NoRef}
}

// Get dereferences ref within t's arena. Panics (via the arena) on an
// invalid ref — a Tree never hands out refs into a different arena.
func (t *Tree) Get(ref arena.Ref) *Node {
	return t.Arena.Get(ref)
}

func (t *Tree) alloc(n Node) arena.Ref {
	ref := t.Arena.Alloc()
	*t.Arena.Get(ref) = n
	return ref
}

// NewNumber allocates a Number node.
func (t *Tree) NewNumber(v float64) arena.Ref {
	return t.alloc(Node{Kind: KindNumber, Num: v, Left: NoRef, Right: NoRef})
}

// NewVariable allocates the sole Variable node kind (the free variable x).
func (t *Tree) NewVariable() arena.Ref {
	return t.alloc(Node{Kind: KindVariable, Left: NoRef, Right: NoRef})
}

// NewUnary allocates a Unary node. operand must be non-NoRef unless it is
// itself the error-propagation case, which callers signal by passing an
// Error node ref, never NoRef (spec §3 invariant: every non-Error,
// non-Number, non-Variable node has all child refs non-nil).
func (t *Tree) NewUnary(op UnaryOp, operand arena.Ref) arena.Ref {
	return t.alloc(Node{Kind: KindUnary, UnOp: op, Left: operand, Right: NoRef})
}

// NewBinary allocates a Binary node.
func (t *Tree) NewBinary(op BinaryOp, left, right arena.Ref) arena.Ref {
	return t.alloc(Node{Kind: KindBinary, BinOp: op, Left: left, Right: right})
}

// NewFunction allocates a Function call node.
func (t *Tree) NewFunction(name string, arg arena.Ref) arena.Ref {
	return t.alloc(Node{Kind: KindFunction, FuncName: name, Left: arg, Right: NoRef})
}

// NewError allocates an Error node and marks the Tree errored. Callers
// should prefer Tree.Error, which does both in one call.
func (t *Tree) NewError() arena.Ref {
	return t.alloc(Node{Kind: KindError, Left: NoRef, Right: NoRef})
}

// Error allocates an Error node and sets Errored, returning the ref so it
// can be used in place of any expression.
func (t *Tree) Error() arena.Ref {
	t.Errored = true
	return t.NewError()
}

// ContainsError reports whether any node reachable from ref is a
// KindError node — the invariant that backs Errored, checkable
// independently for tests (spec §8: "The parser's error flag is set iff
// any node in the produced tree has kind Error").
func (t *Tree) ContainsError(ref arena.Ref) bool {
	if ref == NoRef {
		return false
	}
	n := t.Get(ref)
	if n.Kind == KindError {
		return true
	}
	return t.ContainsError(n.Left) || t.ContainsError(n.Right)
}
