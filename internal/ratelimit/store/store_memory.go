// Package store holds the rate limit window backends.
package store

import (
	"context"
	"math"
	"sync"
	"time"

	"tradeverify/internal/ratelimit"
)

// InMemoryStore is a per-process sliding window. Replicas do not share it;
// use RedisStore for that.
type InMemoryStore struct {
	mu      sync.Mutex
	windows map[string]*slidingWindow
	now     func() time.Time
}

type slidingWindow struct {
	timestamps []time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{windows: make(map[string]*slidingWindow), now: time.Now}
}

// Allow records the request when it fits in the window.
func (s *InMemoryStore) Allow(_ context.Context, key string, limit int, window time.Duration) (ratelimit.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w := s.windows[key]
	if w == nil {
		w = &slidingWindow{}
		s.windows[key] = w
	}
	w.cleanup(now.Add(-window))

	if len(w.timestamps) < limit {
		w.timestamps = append(w.timestamps, now)
		return ratelimit.Result{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - len(w.timestamps),
			ResetAt:   w.timestamps[0].Add(window),
		}, nil
	}

	resetAt := w.timestamps[0].Add(window)
	return ratelimit.Result{
		Allowed:    false,
		Limit:      limit,
		ResetAt:    resetAt,
		RetryAfter: retryAfter(resetAt.Sub(now)),
	}, nil
}

// cleanup drops timestamps at or before cutoff.
func (w *slidingWindow) cleanup(cutoff time.Time) {
	i := 0
	for ; i < len(w.timestamps); i++ {
		if w.timestamps[i].After(cutoff) {
			break
		}
	}
	w.timestamps = w.timestamps[i:]
}

func retryAfter(d time.Duration) int {
	return max(1, int(math.Ceil(d.Seconds())))
}
