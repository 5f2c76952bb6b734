package list

// Iterator is a consuming iterator over a chain of Node[T]. It owns the
// head of the chain: yielding an element transfers ownership of the
// node's value out and drops the node's only remaining reference so it
// becomes ordinary garbage.
type Iterator[T any] struct {
	node *Node[T]
}

// NewIterator wraps head as a consuming iterator. head must not be
// pinned (see Node/Retire) — by the time anything constructs an Iterator
// over it, a normal Go reference (this Iterator) is what keeps the chain
// alive, not the pin registry.
func NewIterator[T any](head *Node[T]) *Iterator[T] {
	return &Iterator[T]{node: head}
}

// Next yields the next value in the chain, or ok=false once exhausted.
func (it *Iterator[T]) Next() (value T, ok bool) {
	if it.node == nil {
		return value, false
	}
	n := it.node
	it.node = n.Next
	n.Next = nil
	return n.Value, true
}

// Reverse relinks the chain in place and returns a new iterator over the
// reversed order, in O(n) with no allocation. it is left empty.
func (it *Iterator[T]) Reverse() *Iterator[T] {
	var reversed *Node[T]
	cur := it.node
	it.node = nil
	for cur != nil {
		next := cur.Next
		cur.Next = reversed
		reversed = cur
		cur = next
	}
	return &Iterator[T]{node: reversed}
}

// Close drains any remaining nodes, discarding their values. Callers that
// don't consume an Iterator to exhaustion should call Close (e.g. via
// defer) to avoid leaving an unbounded chain referenced only transiently.
func (it *Iterator[T]) Close() {
	for {
		if _, ok := it.Next(); !ok {
			return
		}
	}
}
