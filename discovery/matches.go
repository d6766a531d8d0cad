package discovery

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"vibin_discovery/models"
)

// MatchLister loads the user's matches
type MatchLister interface {
	Matches(ctx context.Context) ([]models.Match, error)
}

type matchEntry struct {
	matches   []models.Match
	fetchedAt time.Time
}

// MatchCache keeps the match list per user until it is older than ttl or a
// new match invalidates it.
type MatchCache struct {
	api   MatchLister
	ttl   time.Duration
	now   func() time.Time
	cache *lru.Cache[string, matchEntry]
}

func NewMatchCache(api MatchLister, ttl time.Duration) *MatchCache {
	cache, _ := lru.New[string, matchEntry](8) // only fails for a non-positive size
	return &MatchCache{api: api, ttl: ttl, now: time.Now, cache: cache}
}

// Get returns userID's matches, loading them on a miss.
func (m *MatchCache) Get(ctx context.Context, userID string) ([]models.Match, error) {
	if entry, ok := m.cache.Get(userID); ok && m.now().Sub(entry.fetchedAt) < m.ttl {
		return entry.matches, nil
	}
	matches, err := m.api.Matches(ctx)
	if err != nil {
		return nil, err
	}
	m.cache.Add(userID, matchEntry{matches: matches, fetchedAt: m.now()})
	return matches, nil
}

// Invalidate drops every cached list.
func (m *MatchCache) Invalidate() {
	m.cache.Purge()
}
