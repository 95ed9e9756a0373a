package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_SlidingWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := NewInMemoryStore()
	s.now = func() time.Time { return now }

	for i := range 3 {
		res, err := s.Allow(ctx, "ip:10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := s.Allow(ctx, "ip:10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 60, res.RetryAfter)

	other, err := s.Allow(ctx, "ip:10.0.0.2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, other.Allowed, "keys are independent")

	now = now.Add(time.Minute + time.Second)
	res, err = s.Allow(ctx, "ip:10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed, "window slid past the old requests")
	assert.Equal(t, 2, res.Remaining)
}

func TestInMemoryStore_Concurrent(t *testing.T) {
	s := NewInMemoryStore()
	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for range 50 {
		wg.Go(func() {
			res, err := s.Allow(context.Background(), "sub:lc-workflow", 20, time.Minute)
			if err == nil && res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	assert.Equal(t, 20, allowed)
}
