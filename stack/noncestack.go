package stack

import (
	"unsafe"

	"github.com/crystalcld/atomic-try-update/compound"
	"github.com/crystalcld/atomic-try-update/internal/obslog"
	"github.com/crystalcld/atomic-try-update/list"
)

type nonceHead[T any] struct {
	head  *list.Node[T]
	nonce uint64
}

type nonceCodec[T any] struct{}

func (nonceCodec[T]) Pack(h *nonceHead[T]) [2]uint64 {
	return [2]uint64{uint64(uintptr(unsafe.Pointer(h.head))), h.nonce}
}

func (nonceCodec[T]) Unpack(w [2]uint64, h *nonceHead[T]) {
	h.head = (*list.Node[T])(unsafe.Pointer(uintptr(w[0])))
	h.nonce = w[1]
}

// NonceStack is a lock-free stack supporting per-element Pop, at the cost
// of a known use-after-free/ABA bug: Pop dereferences head.Next through a
// link that a racing Pop may have already detached and recycled. A nonce
// is bumped on every mutation to make the window probabilistically
// narrow, not to close it.
//
// This type exists as a documented counter-example to Stack.PopAll, kept
// for parity with the reference implementation. Prefer Stack unless you
// specifically need single-element Pop and can pair it with reclamation
// (hazard pointers, epochs, or a node pool that never returns memory to
// the OS) — none of which this package provides. See DESIGN.md.
type NonceStack[T any] struct {
	atom   *compound.Atom[nonceHead[T], [2]uint64]
	logger *obslog.Logger
}

// NewNonceStack constructs an empty NonceStack.
func NewNonceStack[T any](opts ...Option) *NonceStack[T] {
	c := newConfig(opts)
	return &NonceStack[T]{
		atom:   compound.NewAtom[nonceHead[T], [2]uint64](nonceCodec[T]{}),
		logger: c.logger,
	}
}

func (s *NonceStack[T]) Push(v T) {
	node := list.NewNode(v)
	var replaced *list.Node[T]
	compound.Update(s.atom, func(h *nonceHead[T]) (bool, struct{}) {
		replaced = h.head
		node.Next = h.head
		h.nonce++
		h.head = node
		return true, struct{}{}
	})
	list.Retire(replaced)
}

// Pop removes and returns the top element, or ok=false if the stack was
// empty. See the type doc comment for the ABA caveat.
func (s *NonceStack[T]) Pop() (value T, ok bool) {
	popped := compound.Update(s.atom, func(h *nonceHead[T]) (bool, *list.Node[T]) {
		h.nonce++
		ret := h.head
		if ret == nil {
			return false, nil
		}
		h.head = ret.Next //nolint:govet // documented ABA-vulnerable read, see type doc
		return true, ret
	})
	if popped == nil {
		return value, false
	}
	list.Retire(popped)
	return popped.Value, true
}

// Close drains and discards any remaining elements.
func (s *NonceStack[T]) Close() {
	for {
		if _, ok := s.Pop(); !ok {
			break
		}
	}
	s.logger.Debug().Log("nonce stack: closed")
}
