package broadcast

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_SendWakesExistingSubscribers(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster[int]()
	const numSubs = 20
	subs := make([]*Subscription[int], numSubs)
	for i := range subs {
		subs[i] = b.Subscribe()
	}

	var wg sync.WaitGroup
	results := make([]int, numSubs)
	wg.Add(numSubs)
	for i, sub := range subs {
		i, sub := i, sub
		go func() {
			defer wg.Done()
			v, err := sub.Recv(context.Background())
			require.NoError(t, err)
			results[i] = v
		}()
	}

	assert.True(t, b.Send(42))
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, 42, r)
	}
}

func TestBroadcaster_LateSubscriberSeesValue(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster[string]()
	assert.True(t, b.Send("hello"))
	assert.False(t, b.Send("second"))

	sub := b.Subscribe()
	v, err := sub.Recv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestBroadcaster_RecvRespectsContext(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster[int]()
	sub := b.Subscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := sub.Recv(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBroadcaster_ConcurrentSendExactlyOneWinner(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster[int]()
	var wg sync.WaitGroup
	const numSenders = 50
	wins := make([]bool, numSenders)
	wg.Add(numSenders)
	for i := 0; i < numSenders; i++ {
		i := i
		go func() {
			defer wg.Done()
			wins[i] = b.Send(i)
		}()
	}
	wg.Wait()

	winCount := 0
	for _, w := range wins {
		if w {
			winCount++
		}
	}
	assert.Equal(t, 1, winCount)
}
