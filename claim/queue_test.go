package claim

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

type chunk struct {
	sz uint64
}

func (c chunk) Count() uint64 { return c.sz }

func TestQueue_PushOffsetsAreMonotonic(t *testing.T) {
	t.Parallel()

	q := NewQueue[chunk]()
	off1, claimed1 := q.Push(chunk{sz: 10})
	assert.Equal(t, uint64(0), off1)
	assert.True(t, claimed1)

	off2, claimed2 := q.Push(chunk{sz: 5})
	assert.Equal(t, uint64(10), off2)
	assert.False(t, claimed2)

	assert.Equal(t, uint64(15), q.GetOffset())
}

func TestQueue_ConsumeOrReleaseClaim_FIFOOrder(t *testing.T) {
	t.Parallel()

	q := NewQueue[chunk]()
	_, claimed := q.Push(chunk{sz: 1})
	assert.True(t, claimed)
	_, _ = q.Push(chunk{sz: 2})
	_, _ = q.Push(chunk{sz: 3})

	it, stillHolding := q.ConsumeOrReleaseClaim()
	var got []uint64
	for {
		c, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, c.sz)
	}
	assert.Equal(t, []uint64{1, 2, 3}, got)
	assert.True(t, stillHolding)

	it2, stillHolding2 := q.ConsumeOrReleaseClaim()
	_, ok := it2.Next()
	assert.False(t, ok)
	assert.False(t, stillHolding2)
}

func TestQueue_ConsumeOrReleaseClaim_PanicsWithoutClaim(t *testing.T) {
	t.Parallel()

	q := NewQueue[chunk]()
	_, claimed := q.Push(chunk{sz: 1})
	assert.True(t, claimed)
	it, stillHolding := q.ConsumeOrReleaseClaim()
	it.Close()
	assert.True(t, stillHolding)
	it, stillHolding = q.ConsumeOrReleaseClaim()
	it.Close()
	assert.False(t, stillHolding)

	assert.Panics(t, func() { q.ConsumeOrReleaseClaim() })
}

func counterWorker(t *testing.T, numInserts int, q *Queue[chunk], totalInserted, totalDequeued *atomic.Uint64) {
	t.Helper()
	rng := rand.New(rand.NewSource(rand.Int63()))
	var lastOff uint64
	for i := 0; i < numInserts; i++ {
		count := uint64(10 + rng.Intn(10_000_000-10))
		totalInserted.Add(count)
		off, claimed := q.Push(chunk{sz: count})
		assert.GreaterOrEqual(t, off, lastOff)
		lastOff += count

		if claimed {
			lastDequeueCount := totalDequeued.Load()
			for {
				it, stillHolding := q.ConsumeOrReleaseClaim()
				for {
					c, ok := it.Next()
					if !ok {
						break
					}
					newCount := totalDequeued.Add(c.sz)
					assert.Equal(t, lastDequeueCount+c.sz, newCount)
					lastDequeueCount = newCount
				}
				if !stillHolding {
					break
				}
			}
		}
	}
}

func TestQueue_Stress(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in -short mode")
	}
	t.Parallel()

	const (
		numThreads = 100
		numInserts = 10_000
	)

	q := NewQueue[chunk]()
	var totalInserted, totalDequeued atomic.Uint64

	var wg sync.WaitGroup
	wg.Add(numThreads)
	for i := 0; i < numThreads; i++ {
		go func() {
			defer wg.Done()
			counterWorker(t, numInserts, q, &totalInserted, &totalDequeued)
		}()
	}
	wg.Wait()

	assert.Equal(t, totalInserted.Load(), q.GetOffset())
	assert.Equal(t, totalInserted.Load(), totalDequeued.Load())
}
