package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"vibin_discovery/models"
)

// MemoryStore is an in-process Store used in dev mode and tests.
type MemoryStore struct {
	mu           sync.RWMutex
	profiles     map[string]models.UserProfile
	preferences  map[string]models.Preferences
	interactions map[string]map[string]models.Interaction // sender -> receiver -> interaction
	matches      []models.Match
	seen         map[string]map[string]time.Time
	lastSwipes   map[string]models.LastSwipe
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:     make(map[string]models.UserProfile),
		preferences:  make(map[string]models.Preferences),
		interactions: make(map[string]map[string]models.Interaction),
		seen:         make(map[string]map[string]time.Time),
		lastSwipes:   make(map[string]models.LastSwipe),
	}
}

func (s *MemoryStore) GetProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) PutProfile(_ context.Context, profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
	return nil
}

// ListProfiles returns profiles ordered by id so scans are deterministic.
func (s *MemoryStore) ListProfiles(_ context.Context) ([]models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.UserProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s *MemoryStore) GetPreferences(_ context.Context, userID string) (*models.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.preferences[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) PutPreferences(_ context.Context, prefs models.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences[prefs.UserID] = prefs
	return nil
}

func (s *MemoryStore) GetInteraction(_ context.Context, senderID, receiverID string) (*models.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.interactions[senderID][receiverID]
	if !ok {
		return nil, ErrNotFound
	}
	return &i, nil
}

func (s *MemoryStore) PutInteraction(_ context.Context, interaction models.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bySender, ok := s.interactions[interaction.SenderID]
	if !ok {
		bySender = make(map[string]models.Interaction)
		s.interactions[interaction.SenderID] = bySender
	}
	bySender[interaction.ReceiverID] = interaction
	return nil
}

func (s *MemoryStore) DeleteInteraction(_ context.Context, senderID, receiverID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.interactions[senderID], receiverID)
	return nil
}

func (s *MemoryStore) ListInteractions(_ context.Context, senderID string) ([]models.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Interaction, 0, len(s.interactions[senderID]))
	for _, i := range s.interactions[senderID] {
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceiverID < out[j].ReceiverID })
	return out, nil
}

func (s *MemoryStore) ListIncomingSuperLikes(_ context.Context, receiverID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for sender, byReceiver := range s.interactions {
		i, ok := byReceiver[receiverID]
		if ok && i.InteractionType == models.InteractionTypeSuperLike && i.Status == models.StatusPending {
			out = append(out, sender)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) CreateMatch(_ context.Context, match models.Match, mine, theirs models.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, i := range []models.Interaction{mine, theirs} {
		stored, ok := s.interactions[i.SenderID][i.ReceiverID]
		if !ok || stored.Status != models.StatusPending {
			return ErrConflict
		}
	}
	s.interactions[mine.SenderID][mine.ReceiverID] = mine
	s.interactions[theirs.SenderID][theirs.ReceiverID] = theirs
	s.matches = append(s.matches, match)
	return nil
}

func (s *MemoryStore) PutMatch(_ context.Context, match models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.matches {
		if s.matches[i].MatchID == match.MatchID {
			s.matches[i] = match
			return nil
		}
	}
	s.matches = append(s.matches, match)
	return nil
}

func (s *MemoryStore) ListMatches(_ context.Context, userID string) ([]models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Match
	for _, m := range s.matches {
		if m.HasUser(userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *MemoryStore) MarkSeen(_ context.Context, viewerID, seenID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byViewer, ok := s.seen[viewerID]
	if !ok {
		byViewer = make(map[string]time.Time)
		s.seen[viewerID] = byViewer
	}
	byViewer[seenID] = at
	return nil
}

func (s *MemoryStore) ListSeen(_ context.Context, viewerID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.seen[viewerID]))
	for id := range s.seen[viewerID] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) GetLastSwipe(_ context.Context, userID string) (*models.LastSwipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	last, ok := s.lastSwipes[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &last, nil
}

func (s *MemoryStore) PutLastSwipe(_ context.Context, swipe models.LastSwipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSwipes[swipe.SenderID] = swipe
	return nil
}

func (s *MemoryStore) DeleteLastSwipe(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lastSwipes, userID)
	return nil
}
