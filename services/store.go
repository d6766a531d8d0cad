package services

import (
	"context"
	"time"

	"vibin_discovery/models"
)

// Store persists profiles, interactions, matches and per-user discovery state.
// Lookups of single records return ErrNotFound when the record is absent.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	PutProfile(ctx context.Context, profile models.UserProfile) error
	ListProfiles(ctx context.Context) ([]models.UserProfile, error)

	GetPreferences(ctx context.Context, userID string) (*models.Preferences, error)
	PutPreferences(ctx context.Context, prefs models.Preferences) error

	GetInteraction(ctx context.Context, senderID, receiverID string) (*models.Interaction, error)
	PutInteraction(ctx context.Context, interaction models.Interaction) error
	DeleteInteraction(ctx context.Context, senderID, receiverID string) error
	ListInteractions(ctx context.Context, senderID string) ([]models.Interaction, error)
	// ListIncomingSuperLikes returns the senders with a pending super like on receiverID.
	ListIncomingSuperLikes(ctx context.Context, receiverID string) ([]string, error)

	PutMatch(ctx context.Context, match models.Match) error
	// CreateMatch stores match together with both interactions of the pair in
	// one write. It fails with ErrConflict unless both stored interactions are
	// still pending.
	CreateMatch(ctx context.Context, match models.Match, mine, theirs models.Interaction) error
	ListMatches(ctx context.Context, userID string) ([]models.Match, error)

	MarkSeen(ctx context.Context, viewerID, seenID string, at time.Time) error
	ListSeen(ctx context.Context, viewerID string) ([]string, error)

	GetLastSwipe(ctx context.Context, userID string) (*models.LastSwipe, error)
	PutLastSwipe(ctx context.Context, swipe models.LastSwipe) error
	DeleteLastSwipe(ctx context.Context, userID string) error
}
