package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"vibin_discovery/models"
)

// MatchService lists a user's matches
type MatchService struct {
	Store  Store
	Photos *PhotoService // optional
	Log    *zap.Logger
}

// List returns userID's matches, newest first, each enriched with the peer's profile.
func (s *MatchService) List(ctx context.Context, userID string) ([]models.Match, error) {
	matches, err := s.Store.ListMatches(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch matches: %w", err)
	}

	out := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		peerID, ok := m.OtherUser(userID)
		if !ok {
			continue
		}
		profile, err := s.Store.GetProfile(ctx, peerID)
		if err != nil {
			s.Log.Warn("failed to fetch match peer", zap.String("peer", peerID), zap.Error(err))
			out = append(out, m)
			continue
		}
		peer := profile.Candidate()
		if s.Photos != nil {
			peer.Photos = s.Photos.ResolveAll(ctx, peer.Photos)
		}
		m.Peer = &peer
		out = append(out, m)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}
