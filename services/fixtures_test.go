package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vibin_discovery/models"
)

var testNow = time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu   sync.Mutex
	sent map[string][]models.Match
}

func (p *recordingPublisher) PublishMatch(userID string, match models.Match) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sent == nil {
		p.sent = make(map[string][]models.Match)
	}
	p.sent[userID] = append(p.sent[userID], match)
}

func (p *recordingPublisher) For(userID string) []models.Match {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sent[userID]
}

type fixture struct {
	store       *MemoryStore
	discovery   *DiscoveryService
	interaction *InteractionService
	publisher   *recordingPublisher
}

func newFixture(t *testing.T, profiles ...models.UserProfile) *fixture {
	t.Helper()
	store := NewMemoryStore()
	for _, p := range profiles {
		require.NoError(t, store.PutProfile(context.Background(), p))
	}
	log := zap.NewNop()
	discovery := &DiscoveryService{Store: store, Now: func() time.Time { return testNow }, Log: log}
	publisher := &recordingPublisher{}
	ids := 0
	return &fixture{
		store:     store,
		discovery: discovery,
		publisher: publisher,
		interaction: &InteractionService{
			Store:     store,
			Discovery: discovery,
			Publisher: publisher,
			Now:       func() time.Time { return testNow },
			NewID: func() string {
				ids++
				return "match-" + string(rune('0'+ids))
			},
			Log: log,
		},
	}
}

func profile(id, birthDate string) models.UserProfile {
	return models.UserProfile{UserID: id, Name: "name-" + id, BirthDate: birthDate, Photos: []string{id + "/1.jpg"}}
}
