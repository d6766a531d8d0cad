package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibin_discovery/models"
)

func candidateIDs(cs []models.Candidate) []string {
	ids := make([]string, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestCandidatesOrdering(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t,
		profile("viewer", "1994-01-01"),
		profile("a", "1995-01-01"),
		profile("b", "1995-01-01"),
		profile("c", "1995-01-01"),
		profile("d", "1995-01-01"),
	)

	// d super liked the viewer, a was already shown
	require.NoError(t, f.store.PutInteraction(ctx, models.Interaction{
		SenderID: "d", ReceiverID: "viewer",
		InteractionType: models.InteractionTypeSuperLike, Status: models.StatusPending,
	}))
	require.NoError(t, f.discovery.MarkSeen(ctx, "viewer", "a"))

	got, err := f.discovery.Candidates(ctx, "viewer", DiscoveryQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "b", "c", "a"}, candidateIDs(got))
	assert.True(t, got[0].SuperLiker)
	assert.Equal(t, models.RoleSelf, got[0].Role)
}

func TestCandidatesExcludesSwipedAndRequested(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t,
		profile("viewer", "1994-01-01"),
		profile("a", "1995-01-01"),
		profile("b", "1995-01-01"),
		profile("c", "1995-01-01"),
	)
	require.NoError(t, f.store.PutInteraction(ctx, models.Interaction{
		SenderID: "viewer", ReceiverID: "a",
		InteractionType: models.InteractionTypePass, Status: models.StatusDeclined,
	}))

	got, err := f.discovery.Candidates(ctx, "viewer", DiscoveryQuery{Exclude: []string{"c"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, candidateIDs(got))
}

func TestCandidatesPagination(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t,
		profile("viewer", "1994-01-01"),
		profile("a", "1995-01-01"),
		profile("b", "1995-01-01"),
		profile("c", "1995-01-01"),
	)

	page1, err := f.discovery.Candidates(ctx, "viewer", DiscoveryQuery{Limit: 2, Page: 1})
	require.NoError(t, err)
	page2, err := f.discovery.Candidates(ctx, "viewer", DiscoveryQuery{Limit: 2, Page: 2})
	require.NoError(t, err)
	page3, err := f.discovery.Candidates(ctx, "viewer", DiscoveryQuery{Limit: 2, Page: 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, candidateIDs(page1))
	assert.Equal(t, []string{"c"}, candidateIDs(page2))
	assert.Empty(t, page3)
	assert.NotNil(t, page3)
}

func TestCandidatesAppliesPreferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t,
		profile("viewer", "1994-01-01"),
		profile("young", "2006-01-01"),
		profile("fits", "1996-01-01"),
	)
	require.NoError(t, f.store.PutPreferences(ctx, models.Preferences{UserID: "viewer", AgeMin: 25, AgeMax: 35}))

	got, err := f.discovery.Candidates(ctx, "viewer", DiscoveryQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"fits"}, candidateIDs(got))
}

func TestCandidatesUnknownViewer(t *testing.T) {
	f := newFixture(t)
	_, err := f.discovery.Candidates(context.Background(), "ghost", DiscoveryQuery{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckEligible(t *testing.T) {
	ctx := context.Background()
	hidden := profile("hidden", "1995-01-01")
	hidden.Hidden = true
	f := newFixture(t, profile("viewer", "1994-01-01"), profile("a", "1995-01-01"), hidden)

	target, err := f.discovery.CheckEligible(ctx, "viewer", "a")
	require.NoError(t, err)
	assert.Equal(t, "a", target.UserID)

	_, err = f.discovery.CheckEligible(ctx, "viewer", "hidden")
	assert.ErrorIs(t, err, ErrIneligible)

	_, err = f.discovery.CheckEligible(ctx, "viewer", "missing")
	assert.ErrorIs(t, err, ErrIneligible)
}

func TestMarkSeenRejectsSelf(t *testing.T) {
	f := newFixture(t, profile("viewer", "1994-01-01"))
	err := f.discovery.MarkSeen(context.Background(), "viewer", "viewer")
	assert.ErrorIs(t, err, ErrInvalidSwipe)
}
