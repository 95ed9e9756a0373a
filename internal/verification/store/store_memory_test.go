package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeverify/internal/verification"
	"tradeverify/pkg/platform/sentinel"
)

func TestInMemoryCache_ExpiresAfterTTL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewInMemoryCache(10 * time.Minute)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "swift:abc", verification.Result{Kind: verification.KindSwift, Verified: true, Source: "api_ninjas"}))

	got, err := c.Get(ctx, "swift:abc")
	require.NoError(t, err)
	assert.True(t, got.Verified)

	now = now.Add(10 * time.Minute)
	_, err = c.Get(ctx, "swift:abc")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryCache_SetEvictsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewInMemoryCache(time.Minute)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", verification.Result{}))
	require.NoError(t, c.Set(ctx, "b", verification.Result{}))
	now = now.Add(2 * time.Minute)
	require.NoError(t, c.Set(ctx, "c", verification.Result{}))

	assert.Equal(t, 1, c.Len())
}
