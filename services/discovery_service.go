package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"vibin_discovery/metrics"
	"vibin_discovery/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DiscoveryQuery selects one page of candidates.
type DiscoveryQuery struct {
	Limit   int
	Page    int // 1-based
	Exclude []string
}

// DiscoveryService builds the candidate pages served to the discovery deck.
type DiscoveryService struct {
	Store  Store
	Photos *PhotoService // optional, resolves photo keys into URLs
	Now    func() time.Time
	Log    *zap.Logger
}

func (s *DiscoveryService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// viewerContext loads the viewer's profile and preferences. Missing
// preferences mean no filters.
func (s *DiscoveryService) viewerContext(ctx context.Context, viewerID string) (*models.UserProfile, models.Preferences, error) {
	viewer, err := s.Store.GetProfile(ctx, viewerID)
	if err != nil {
		return nil, models.Preferences{}, fmt.Errorf("failed to fetch viewer profile: %w", err)
	}
	prefs, err := s.Store.GetPreferences(ctx, viewerID)
	switch {
	case errors.Is(err, ErrNotFound):
		return viewer, models.Preferences{UserID: viewerID}, nil
	case err != nil:
		return nil, models.Preferences{}, fmt.Errorf("failed to fetch preferences: %w", err)
	}
	return viewer, *prefs, nil
}

// Candidates returns the page of eligible candidates for viewerID. Profiles the
// viewer already swiped on and ids in q.Exclude are omitted. Candidates who
// super-liked the viewer come first, then never-seen profiles, then seen ones.
func (s *DiscoveryService) Candidates(ctx context.Context, viewerID string, q DiscoveryQuery) ([]models.Candidate, error) {
	start := time.Now()

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	viewer, prefs, err := s.viewerContext(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]struct{}, len(q.Exclude))
	for _, id := range q.Exclude {
		excluded[id] = struct{}{}
	}
	swiped, err := s.Store.ListInteractions(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interactions: %w", err)
	}
	for _, i := range swiped {
		excluded[i.ReceiverID] = struct{}{}
	}

	seenIDs, err := s.Store.ListSeen(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seen markers: %w", err)
	}
	seen := make(map[string]struct{}, len(seenIDs))
	for _, id := range seenIDs {
		seen[id] = struct{}{}
	}

	likers, err := s.Store.ListIncomingSuperLikes(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch incoming super likes: %w", err)
	}
	superLikers := make(map[string]struct{}, len(likers))
	for _, id := range likers {
		superLikers[id] = struct{}{}
	}

	profiles, err := s.Store.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	type ranked struct {
		candidate models.Candidate
		seen      bool
	}
	now := s.now()
	var pool []ranked
	for _, p := range profiles {
		if _, skip := excluded[p.UserID]; skip {
			continue
		}
		if !Eligible(*viewer, prefs, p, now) {
			continue
		}
		c := p.Candidate()
		_, c.SuperLiker = superLikers[p.UserID]
		_, wasSeen := seen[p.UserID]
		pool = append(pool, ranked{candidate: c, seen: wasSeen})
	}

	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].candidate.SuperLiker != pool[j].candidate.SuperLiker {
			return pool[i].candidate.SuperLiker
		}
		return !pool[i].seen && pool[j].seen
	})

	offset := (page - 1) * limit
	out := []models.Candidate{}
	for i := offset; i < len(pool) && len(out) < limit; i++ {
		c := pool[i].candidate
		if s.Photos != nil {
			c.Photos = s.Photos.ResolveAll(ctx, c.Photos)
		}
		out = append(out, c)
	}

	metrics.RecordDiscovery(len(out), time.Since(start).Seconds())
	s.Log.Debug("discovery page built",
		zap.String("viewer", viewerID),
		zap.Int("page", page),
		zap.Int("eligible", len(pool)),
		zap.Int("returned", len(out)))
	return out, nil
}

// CheckEligible returns the target profile when viewerID may swipe on it and
// ErrIneligible otherwise.
func (s *DiscoveryService) CheckEligible(ctx context.Context, viewerID, targetID string) (*models.UserProfile, error) {
	viewer, prefs, err := s.viewerContext(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	target, err := s.Store.GetProfile(ctx, targetID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrIneligible
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch target profile: %w", err)
	}
	if !Eligible(*viewer, prefs, *target, s.now()) {
		return nil, ErrIneligible
	}
	return target, nil
}

// MarkSeen records that seenID was shown to viewerID.
func (s *DiscoveryService) MarkSeen(ctx context.Context, viewerID, seenID string) error {
	if seenID == "" || seenID == viewerID {
		return fmt.Errorf("%w: cannot mark %q as seen", ErrInvalidSwipe, seenID)
	}
	if err := s.Store.MarkSeen(ctx, viewerID, seenID, s.now()); err != nil {
		return fmt.Errorf("failed to mark seen: %w", err)
	}
	return nil
}
