package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vibin_discovery/metrics"
	"vibin_discovery/models"
)

// MatchPublisher pushes a freshly created match to a connected user.
type MatchPublisher interface {
	PublishMatch(userID string, match models.Match)
}

// InteractionService handles swipes (like, pass, super like), matches and undo
type InteractionService struct {
	Store     Store
	Discovery *DiscoveryService
	Publisher MatchPublisher // optional
	Now       func() time.Time
	NewID     func() string
	Log       *zap.Logger
}

func (s *InteractionService) now() string {
	if s.Now != nil {
		return s.Now().UTC().Format(time.RFC3339)
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func (s *InteractionService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// Swipe records userID's decision on req.ToUserID. A like on someone who
// already liked back creates a match, which is returned and published to both users.
func (s *InteractionService) Swipe(ctx context.Context, userID string, req models.SwipeRequest) (*models.SwipeResponse, error) {
	if req.ToUserID == "" || req.ToUserID == userID {
		return nil, fmt.Errorf("%w: bad target", ErrInvalidSwipe)
	}
	if req.Direction != models.DirectionLeft && req.Direction != models.DirectionRight {
		return nil, fmt.Errorf("%w: unsupported direction %q", ErrInvalidSwipe, req.Direction)
	}
	if req.Direction == models.DirectionLeft && req.IsSuperLike {
		return nil, fmt.Errorf("%w: a super like must swipe right", ErrInvalidSwipe)
	}
	interactionType := req.InteractionType()

	target, err := s.Discovery.CheckEligible(ctx, userID, req.ToUserID)
	if err != nil {
		if errors.Is(err, ErrIneligible) {
			metrics.RecordSwipe(interactionType, "ineligible")
			s.Log.Info("swipe on ineligible target", zap.String("user", userID), zap.String("target", req.ToUserID))
		}
		return nil, err
	}

	previous, err := s.Store.GetInteraction(ctx, userID, req.ToUserID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to fetch previous interaction: %w", err)
	}

	now := s.now()
	interaction := models.Interaction{
		SenderID:        userID,
		ReceiverID:      req.ToUserID,
		InteractionType: interactionType,
		Status:          models.StatusPending,
		CreatedAt:       now,
		LastUpdated:     now,
	}
	if !interaction.IsPositive() {
		interaction.Status = models.StatusDeclined
	}

	// stored before looking at the reverse side so that of two simultaneous
	// likes at least one sees the other
	if err := s.Store.PutInteraction(ctx, interaction); err != nil {
		return nil, fmt.Errorf("failed to store interaction: %w", err)
	}

	var (
		match   *models.Match
		created bool
	)
	if interaction.IsPositive() {
		match, created, err = s.matchIfMutual(ctx, interaction, now)
		if err != nil {
			return nil, err
		}
	}

	var matchID *string
	if match != nil {
		id := match.MatchID
		matchID = &id
	}
	if err := s.Store.PutLastSwipe(ctx, models.LastSwipe{
		SenderID:   userID,
		ReceiverID: req.ToUserID,
		MatchID:    matchID,
		Previous:   previous,
		CreatedAt:  now,
	}); err != nil {
		return nil, fmt.Errorf("failed to remember last swipe: %w", err)
	}

	if match == nil {
		metrics.RecordSwipe(interactionType, interaction.Status)
		return &models.SwipeResponse{}, nil
	}

	metrics.RecordSwipe(interactionType, models.StatusMatch)
	forViewer := *match
	peer := target.Candidate()
	forViewer.Peer = &peer
	if !created {
		// the other side's swipe created and published it
		return &models.SwipeResponse{Match: &forViewer}, nil
	}

	metrics.RecordMatch()
	s.Log.Info("match created",
		zap.String("match", match.MatchID),
		zap.String("user", userID),
		zap.String("target", req.ToUserID))

	s.publish(ctx, userID, forViewer)
	if viewer, err := s.Store.GetProfile(ctx, userID); err == nil {
		forTarget := *match
		vc := viewer.Candidate()
		forTarget.Peer = &vc
		s.publish(ctx, req.ToUserID, forTarget)
	}

	return &models.SwipeResponse{Match: &forViewer}, nil
}

// matchIfMutual creates a match when the receiver has a pending like or super
// like on the sender. created is false when a concurrent swipe of the receiver
// matched the pair first; the existing match is returned then.
func (s *InteractionService) matchIfMutual(ctx context.Context, mine models.Interaction, now string) (match *models.Match, created bool, err error) {
	reverse, err := s.Store.GetInteraction(ctx, mine.ReceiverID, mine.SenderID)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch reverse interaction: %w", err)
	}
	if !reverse.IsPositive() {
		return nil, false, nil
	}
	if reverse.Status != models.StatusPending {
		m, err := s.existingMatch(ctx, mine)
		return m, false, err
	}

	matchID := s.newID()
	m := models.Match{
		MatchID:   matchID,
		Users:     []string{mine.SenderID, mine.ReceiverID},
		CreatedAt: now,
	}
	for _, i := range []*models.Interaction{&mine, reverse} {
		i.Status = models.StatusMatch
		i.MatchID = &matchID
		i.LastUpdated = now
	}

	err = s.Store.CreateMatch(ctx, m, mine, *reverse)
	if errors.Is(err, ErrConflict) {
		s.Log.Debug("match raced with the other side", zap.String("user", mine.SenderID), zap.String("target", mine.ReceiverID))
		existing, err := s.existingMatch(ctx, mine)
		return existing, false, err
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create match: %w", err)
	}
	return &m, true, nil
}

// existingMatch returns the match recorded on the sender's interaction, if any.
func (s *InteractionService) existingMatch(ctx context.Context, mine models.Interaction) (*models.Match, error) {
	stored, err := s.Store.GetInteraction(ctx, mine.SenderID, mine.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload interaction: %w", err)
	}
	if stored.Status != models.StatusMatch || stored.MatchID == nil {
		return nil, nil
	}
	return &models.Match{
		MatchID:   *stored.MatchID,
		Users:     []string{mine.SenderID, mine.ReceiverID},
		CreatedAt: stored.LastUpdated,
	}, nil
}

func (s *InteractionService) publish(_ context.Context, userID string, match models.Match) {
	if s.Publisher == nil {
		return
	}
	s.Publisher.PublishMatch(userID, match)
}

// Undo reverts the user's most recent swipe once. It reports false when
// there is nothing to undo or when the swipe already produced a match.
func (s *InteractionService) Undo(ctx context.Context, userID string) (bool, error) {
	last, err := s.Store.GetLastSwipe(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		metrics.RecordUndo(false)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to fetch last swipe: %w", err)
	}
	if last.MatchID != nil {
		metrics.RecordUndo(false)
		s.Log.Info("refusing to undo a match", zap.String("user", userID), zap.String("match", *last.MatchID))
		return false, nil
	}

	if last.Previous != nil {
		err = s.Store.PutInteraction(ctx, *last.Previous)
	} else {
		err = s.Store.DeleteInteraction(ctx, userID, last.ReceiverID)
	}
	if err != nil {
		return false, fmt.Errorf("failed to revert interaction: %w", err)
	}
	if err := s.Store.DeleteLastSwipe(ctx, userID); err != nil {
		return false, fmt.Errorf("failed to clear last swipe: %w", err)
	}

	metrics.RecordUndo(true)
	s.Log.Debug("swipe undone", zap.String("user", userID), zap.String("target", last.ReceiverID))
	return true, nil
}
