package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibin_discovery/models"
)

func TestMatchCache(t *testing.T) {
	api := newFakeAPI()
	api.matches = []models.Match{{MatchID: "m1", Users: []string{"me", "A"}}}
	cache := NewMatchCache(api, time.Minute)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	got, err := cache.Get(ctx, "me")
	require.NoError(t, err)
	assert.Equal(t, api.matches, got)

	_, err = cache.Get(ctx, "me")
	require.NoError(t, err)
	assert.Equal(t, 1, api.matchCalls, "second read is served from the cache")

	cache.Invalidate()
	_, err = cache.Get(ctx, "me")
	require.NoError(t, err)
	assert.Equal(t, 2, api.matchCalls)

	now = now.Add(2 * time.Minute)
	_, err = cache.Get(ctx, "me")
	require.NoError(t, err)
	assert.Equal(t, 3, api.matchCalls, "expired entries are reloaded")
}
