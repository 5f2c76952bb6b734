package list

import (
	"unsafe"

	"github.com/crystalcld/atomic-try-update/internal/pin"
)

// Node is a singly-linked chain element: a value and a raw link to the
// next node. Nodes are only ever created by the structures that own them
// (stack.Stack, claim.Queue); callers never receive an owning *Node[T]
// directly, only values extracted via Iterator.
type Node[T any] struct {
	Value T
	Next  *Node[T]
}

// NewNode allocates a node and pins it.
//
// Between the moment a node is created and the moment some normal
// Go-typed reference to it exists independent of any compound.Atom's
// packed word (a struct field, a local variable), the node may be
// reachable only through integer bits packed inside that word — invisible
// to the garbage collector. NewNode registers a pin so the node survives
// that window; the owning structure must call Retire exactly once, at the
// point a normal reference supersedes the pin (see stack.Stack.Push /
// PopAll for an example).
func NewNode[T any](v T) *Node[T] {
	n := &Node[T]{Value: v}
	pin.Pin(unsafe.Pointer(n))
	return n
}

// Retire releases the pin NewNode registered for n. Safe to call with nil.
func Retire[T any](n *Node[T]) {
	if n != nil {
		pin.Unpin(unsafe.Pointer(n))
	}
}
