package stack

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func drainAll(t *testing.T, s *Stack[int]) []int {
	t.Helper()
	var out []int
	it := s.PopAll()
	for {
		v, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func TestStack_Smoke(t *testing.T) {
	t.Parallel()

	s := NewStack[int]()
	_, ok := s.PopAll().Next()
	assert.False(t, ok)

	s.Push(1)
	s.Push(2)
	s.Push(3)
	assert.Equal(t, []int{3, 2, 1}, drainAll(t, s))

	_, ok = s.PopAll().Next()
	assert.False(t, ok)
}

func TestStack_Reverse(t *testing.T) {
	t.Parallel()

	s := NewStack[int]()
	for i := 1; i <= 99; i++ {
		s.Push(i)
	}

	it := s.PopAll().Reverse()
	for i := 1; i <= 99; i++ {
		v, ok := it.Next()
		assert.True(t, ok)
		assert.Equal(t, i, v)
	}
	_, ok := it.Next()
	assert.False(t, ok)
}

func TestStack_Stress(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in -short mode")
	}
	t.Parallel()

	const (
		numThreads = 100
		numInserts = 10_000
	)

	s := NewStack[uint64]()
	var total atomic.Uint64

	var wg sync.WaitGroup
	wg.Add(numThreads)
	for n := 0; n < numThreads; n++ {
		n := uint64(n)
		go func() {
			defer wg.Done()
			var count uint64
			for i := uint64(0); i < numInserts; i++ {
				s.Push(n*numInserts + i)
				if i%17 == 0 {
					it := s.PopAll()
					for {
						if _, ok := it.Next(); !ok {
							break
						}
						count++
					}
				}
			}
			it := s.PopAll()
			for {
				if _, ok := it.Next(); !ok {
					break
				}
				count++
			}
			total.Add(count)
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(numThreads*numInserts), total.Load())
}

func TestNonceStack_Smoke(t *testing.T) {
	t.Parallel()

	s := NewNonceStack[int]()
	_, ok := s.Pop()
	assert.False(t, ok)

	s.Push(1)
	s.Push(2)
	v, ok := s.Pop()
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok = s.Pop()
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = s.Pop()
	assert.False(t, ok)
}

func TestNonceStack_Stress(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in -short mode")
	}
	t.Parallel()

	const total = 250_000
	const numThreads = 100

	s := NewNonceStack[uint64]()
	var pushed, popped atomic.Uint64

	var wg sync.WaitGroup
	wg.Add(numThreads)
	for i := 0; i < numThreads; i++ {
		go func() {
			defer wg.Done()
			for {
				done := true
				val := pushed.Add(1) - 1
				if val < total {
					s.Push(val)
					done = false
				}
				if _, ok := s.Pop(); ok {
					popped.Add(1)
					done = false
				}
				if done {
					return
				}
			}
		}()
	}
	wg.Wait()

	_, ok := s.Pop()
	assert.False(t, ok)
	assert.Equal(t, uint64(total), popped.Load())
}
