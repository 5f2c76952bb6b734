package stack

import (
	"unsafe"

	"github.com/crystalcld/atomic-try-update/compound"
	"github.com/crystalcld/atomic-try-update/internal/obslog"
	"github.com/crystalcld/atomic-try-update/list"
)

type stackHead[T any] struct {
	head *list.Node[T]
}

type stackCodec[T any] struct{}

func (stackCodec[T]) Pack(h *stackHead[T]) uint64 {
	return uint64(uintptr(unsafe.Pointer(h.head)))
}

func (stackCodec[T]) Unpack(w uint64, h *stackHead[T]) {
	h.head = (*list.Node[T])(unsafe.Pointer(uintptr(w)))
}

// Stack is a lock-free LIFO stack. The zero value is not usable; construct
// with NewStack.
type Stack[T any] struct {
	atom   *compound.Atom[stackHead[T], uint64]
	logger *obslog.Logger
}

// NewStack constructs an empty Stack.
func NewStack[T any](opts ...Option) *Stack[T] {
	c := newConfig(opts)
	return &Stack[T]{
		atom:   compound.NewAtom[stackHead[T], uint64](stackCodec[T]{}),
		logger: c.logger,
	}
}

// Push adds v to the top of the stack.
func (s *Stack[T]) Push(v T) {
	node := list.NewNode(v)
	var replaced *list.Node[T]
	compound.Update(s.atom, func(h *stackHead[T]) (bool, struct{}) {
		replaced = h.head
		node.Next = h.head
		h.head = node
		return true, struct{}{}
	})
	// replaced is now reachable only via node.Next (a normal Go pointer
	// field), so the registry no longer needs to root it directly.
	list.Retire(replaced)
}

// PopAll atomically detaches the entire chain and returns a consuming
// iterator over it, in LIFO order (the most recently pushed element
// first). Call Reverse on the result for FIFO order.
//
// This is the only read path this package exposes, deliberately: a
// single-element Pop would need to dereference head.Next through the head
// pointer, which is vulnerable to ABA (see NonceStack). PopAll only
// exchanges the head word with nil and touches no other memory, so
// read-set equivalence is immediate.
func (s *Stack[T]) PopAll() *list.Iterator[T] {
	ret := compound.Update(s.atom, func(h *stackHead[T]) (bool, *list.Node[T]) {
		ret := h.head
		h.head = nil
		return true, ret
	})
	list.Retire(ret)
	return list.NewIterator(ret)
}

// Close drains and discards any remaining elements. Safe to call multiple
// times.
func (s *Stack[T]) Close() {
	s.PopAll().Close()
	s.logger.Debug().Log("stack: closed")
}
