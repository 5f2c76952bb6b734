package claim

import (
	"unsafe"

	"github.com/crystalcld/atomic-try-update/bits"
	"github.com/crystalcld/atomic-try-update/compound"
	"github.com/crystalcld/atomic-try-update/internal/obslog"
	"github.com/crystalcld/atomic-try-update/list"
)

// Countable is implemented by values pushed onto a Queue, reporting the
// size charged against the queue's running offset (e.g. a byte count).
type Countable interface {
	Count() uint64
}

type countingClaimHead[T Countable] struct {
	next          *list.Node[T]
	countAndClaim bits.FlagU64
}

type claimCodec[T Countable] struct{}

func (claimCodec[T]) Pack(h *countingClaimHead[T]) [2]uint64 {
	return [2]uint64{uint64(uintptr(unsafe.Pointer(h.next))), h.countAndClaim.Raw()}
}

func (claimCodec[T]) Unpack(w [2]uint64, h *countingClaimHead[T]) {
	h.next = (*list.Node[T])(unsafe.Pointer(uintptr(w[0])))
	h.countAndClaim.SetRaw(w[1])
}

// Queue is a lock-free multi-producer claim queue. The zero value is not
// usable; construct with NewQueue.
type Queue[T Countable] struct {
	atom   *compound.Atom[countingClaimHead[T], [2]uint64]
	logger *obslog.Logger
}

// NewQueue constructs an empty Queue.
func NewQueue[T Countable](opts ...Option) *Queue[T] {
	c := newConfig(opts)
	return &Queue[T]{
		atom:   compound.NewAtom[countingClaimHead[T], [2]uint64](claimCodec[T]{}),
		logger: c.logger,
	}
}

type pushResult struct {
	offset        uint64
	acquiredClaim bool
}

// Push enqueues v. It returns the offset assigned to v (the running sum of
// all previously pushed items' sizes) and whether this call acquired the
// claim. If acquiredClaim is true, the caller must drive consumption by
// calling ConsumeOrReleaseClaim until it reports stillHolding=false.
func (q *Queue[T]) Push(v T) (offset uint64, acquiredClaim bool) {
	sz := v.Count()
	node := list.NewNode(v)
	var replaced *list.Node[T]

	res := compound.Update(q.atom, func(h *countingClaimHead[T]) (bool, pushResult) {
		replaced = h.next
		node.Next = h.next
		h.next = node

		oldOffset := h.countAndClaim.GetVal()
		acquiredClaim := !h.countAndClaim.GetFlag()
		h.countAndClaim.SetVal(oldOffset + sz)
		h.countAndClaim.SetFlag(true)
		return true, pushResult{offset: oldOffset, acquiredClaim: acquiredClaim}
	})
	list.Retire(replaced)

	if res.acquiredClaim {
		q.logger.Debug().Uint64("offset", res.offset).Log("claim: acquired claim")
	}
	return res.offset, res.acquiredClaim
}

type consumeResult struct {
	node         *list.Node[T]
	heldClaim    bool
	stillHolding bool
}

// ConsumeOrReleaseClaim detaches the entire pending chain. The caller must
// already hold the claim (from a prior Push that reported acquiredClaim,
// or a prior ConsumeOrReleaseClaim that reported stillHolding). It returns
// a consuming iterator over the detached elements in push (FIFO) order,
// and whether the caller still holds the claim afterward:
//
//   - If the queue was empty, the claim is released and stillHolding is
//     false: the caller must stop consuming.
//   - Otherwise the claim remains held and stillHolding is true: the
//     caller must call ConsumeOrReleaseClaim again after draining the
//     returned iterator.
//
// Panics if the caller did not hold the claim — this indicates a bug in
// the consumption loop, not a recoverable runtime condition.
func (q *Queue[T]) ConsumeOrReleaseClaim() (it *list.Iterator[T], stillHolding bool) {
	res := compound.Update(q.atom, func(h *countingClaimHead[T]) (bool, consumeResult) {
		ret := h.next
		heldClaim := h.countAndClaim.GetFlag()
		h.next = nil
		if ret == nil {
			h.countAndClaim.SetFlag(false)
			return true, consumeResult{node: nil, heldClaim: heldClaim, stillHolding: false}
		}
		return true, consumeResult{node: ret, heldClaim: heldClaim, stillHolding: true}
	})

	if !res.heldClaim {
		panic("claim: ConsumeOrReleaseClaim called without holding the claim")
	}
	list.Retire(res.node)

	if !res.stillHolding {
		q.logger.Debug().Log("claim: released claim")
	}
	return list.NewIterator(res.node).Reverse(), res.stillHolding
}

// GetOffset returns the current running total of all pushed items' sizes.
func (q *Queue[T]) GetOffset() uint64 {
	return compound.Update(q.atom, func(h *countingClaimHead[T]) (bool, uint64) {
		return false, h.countAndClaim.GetVal()
	})
}

// Close drains and discards any remaining elements, unconditionally
// clearing the claim. Unlike ConsumeOrReleaseClaim, Close does not
// require (or check) that the caller holds the claim — it is meant for
// teardown, where no consumption loop is guaranteed to be running.
func (q *Queue[T]) Close() {
	for {
		node := compound.Update(q.atom, func(h *countingClaimHead[T]) (bool, *list.Node[T]) {
			ret := h.next
			h.next = nil
			h.countAndClaim.SetFlag(false)
			return true, ret
		})
		list.Retire(node)
		if node == nil {
			return
		}
		list.NewIterator(node).Close()
	}
}
