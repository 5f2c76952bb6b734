package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func chainOf(values ...int) *Node[int] {
	var head *Node[int]
	for i := len(values) - 1; i >= 0; i-- {
		head = &Node[int]{Value: values[i], Next: head}
	}
	return head
}

func drain[T any](it *Iterator[T]) (out []T) {
	for {
		v, ok := it.Next()
		if !ok {
			return
		}
		out = append(out, v)
	}
}

func TestIterator_EmptyYieldsNothing(t *testing.T) {
	t.Parallel()
	it := NewIterator[int](nil)
	_, ok := it.Next()
	assert.False(t, ok)
}

func TestIterator_YieldsInOrder(t *testing.T) {
	t.Parallel()
	it := NewIterator(chainOf(3, 2, 1))
	assert.Equal(t, []int{3, 2, 1}, drain(it))
}

func TestIterator_Reverse_IsInvolutiveAndPreservesMultiset(t *testing.T) {
	t.Parallel()
	it := NewIterator(chainOf(1, 2, 3, 4, 5))
	reversed := it.Reverse()
	assert.Equal(t, []int{5, 4, 3, 2, 1}, drain(reversed))

	it2 := NewIterator(chainOf(1, 2, 3, 4, 5))
	twice := it2.Reverse().Reverse()
	assert.Equal(t, []int{1, 2, 3, 4, 5}, drain(twice))
}

func TestIterator_Close_DrainsRemaining(t *testing.T) {
	t.Parallel()
	it := NewIterator(chainOf(1, 2, 3))
	_, _ = it.Next()
	it.Close()
	_, ok := it.Next()
	assert.False(t, ok)
}
