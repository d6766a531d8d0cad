package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibin_discovery/models"
)

func like(to string) models.SwipeRequest {
	return models.SwipeRequest{ToUserID: to, Direction: models.DirectionRight}
}

func TestSwipeLikeIsPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, profile("u1", "1994-01-01"), profile("u2", "1995-01-01"))

	resp, err := f.interaction.Swipe(ctx, "u1", like("u2"))
	require.NoError(t, err)
	assert.Nil(t, resp.Match)

	stored, err := f.store.GetInteraction(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, models.InteractionTypeLike, stored.InteractionType)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestSwipePassIsDeclined(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, profile("u1", "1994-01-01"), profile("u2", "1995-01-01"))

	_, err := f.interaction.Swipe(ctx, "u1", models.SwipeRequest{ToUserID: "u2", Direction: models.DirectionLeft})
	require.NoError(t, err)

	stored, err := f.store.GetInteraction(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, models.InteractionTypePass, stored.InteractionType)
	assert.Equal(t, models.StatusDeclined, stored.Status)
}

func TestSwipeMutualLikeCreatesMatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, profile("u1", "1994-01-01"), profile("u2", "1995-01-01"))

	_, err := f.interaction.Swipe(ctx, "u2", models.SwipeRequest{ToUserID: "u1", Direction: models.DirectionRight, IsSuperLike: true})
	require.NoError(t, err)

	resp, err := f.interaction.Swipe(ctx, "u1", like("u2"))
	require.NoError(t, err)
	require.NotNil(t, resp.Match)
	assert.Equal(t, "match-1", resp.Match.MatchID)
	assert.ElementsMatch(t, []string{"u1", "u2"}, resp.Match.Users)
	require.NotNil(t, resp.Match.Peer)
	assert.Equal(t, "u2", resp.Match.Peer.ID)

	for _, pair := range [][2]string{{"u1", "u2"}, {"u2", "u1"}} {
		i, err := f.store.GetInteraction(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.Equal(t, models.StatusMatch, i.Status)
		require.NotNil(t, i.MatchID)
		assert.Equal(t, "match-1", *i.MatchID)
	}

	matches, err := f.store.ListMatches(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	require.Len(t, f.publisher.For("u1"), 1)
	require.Len(t, f.publisher.For("u2"), 1)
	assert.Equal(t, "u1", f.publisher.For("u2")[0].Peer.ID)
}

func TestSwipeDeclinedReverseDoesNotMatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, profile("u1", "1994-01-01"), profile("u2", "1995-01-01"))

	_, err := f.interaction.Swipe(ctx, "u2", models.SwipeRequest{ToUserID: "u1", Direction: models.DirectionLeft})
	require.NoError(t, err)
	resp, err := f.interaction.Swipe(ctx, "u1", like("u2"))
	require.NoError(t, err)
	assert.Nil(t, resp.Match)
	assert.Empty(t, f.publisher.For("u1"))
}

func TestSwipeValidation(t *testing.T) {
	ctx := context.Background()
	hidden := profile("hidden", "1995-01-01")
	hidden.Hidden = true
	f := newFixture(t, profile("u1", "1994-01-01"), profile("u2", "1995-01-01"), hidden)

	_, err := f.interaction.Swipe(ctx, "u1", like("u1"))
	assert.ErrorIs(t, err, ErrInvalidSwipe)

	_, err = f.interaction.Swipe(ctx, "u1", models.SwipeRequest{ToUserID: "u2", Direction: "up"})
	assert.ErrorIs(t, err, ErrInvalidSwipe)

	_, err = f.interaction.Swipe(ctx, "u1", models.SwipeRequest{ToUserID: "u2", Direction: models.DirectionLeft, IsSuperLike: true})
	assert.ErrorIs(t, err, ErrInvalidSwipe)

	_, err = f.interaction.Swipe(ctx, "u1", like("hidden"))
	assert.ErrorIs(t, err, ErrIneligible)
	_, err = f.store.GetInteraction(ctx, "u1", "hidden")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUndoOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, profile("u1", "1994-01-01"), profile("u2", "1995-01-01"))

	undone, err := f.interaction.Undo(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, undone, "nothing to undo yet")

	_, err = f.interaction.Swipe(ctx, "u1", like("u2"))
	require.NoError(t, err)

	undone, err = f.interaction.Undo(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, undone)
	_, err = f.store.GetInteraction(ctx, "u1", "u2")
	assert.ErrorIs(t, err, ErrNotFound)

	undone, err = f.interaction.Undo(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, undone, "undo does not chain")
}

func TestUndoRestoresPreviousInteraction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, profile("u1", "1994-01-01"), profile("u2", "1995-01-01"))

	_, err := f.interaction.Swipe(ctx, "u1", models.SwipeRequest{ToUserID: "u2", Direction: models.DirectionLeft})
	require.NoError(t, err)
	_, err = f.interaction.Swipe(ctx, "u1", like("u2"))
	require.NoError(t, err)

	undone, err := f.interaction.Undo(ctx, "u1")
	require.NoError(t, err)
	require.True(t, undone)

	restored, err := f.store.GetInteraction(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, models.InteractionTypePass, restored.InteractionType)
}

func TestUndoRefusesMatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, profile("u1", "1994-01-01"), profile("u2", "1995-01-01"))

	_, err := f.interaction.Swipe(ctx, "u2", like("u1"))
	require.NoError(t, err)
	resp, err := f.interaction.Swipe(ctx, "u1", like("u2"))
	require.NoError(t, err)
	require.NotNil(t, resp.Match)

	undone, err := f.interaction.Undo(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, undone)

	i, err := f.store.GetInteraction(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.Equal(t, models.StatusMatch, i.Status)
}

func TestMatchServiceList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, profile("u1", "1994-01-01"), profile("u2", "1995-01-01"))
	_, err := f.interaction.Swipe(ctx, "u2", like("u1"))
	require.NoError(t, err)
	_, err = f.interaction.Swipe(ctx, "u1", like("u2"))
	require.NoError(t, err)

	svc := &MatchService{Store: f.store, Log: f.discovery.Log}
	matches, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.NotNil(t, matches[0].Peer)
	assert.Equal(t, "u2", matches[0].Peer.ID)
	assert.Equal(t, "name-u2", matches[0].Peer.Name)
}

// racingStore runs before once, right ahead of the first CreateMatch.
type racingStore struct {
	*MemoryStore
	before func()
}

func (r *racingStore) CreateMatch(ctx context.Context, match models.Match, mine, theirs models.Interaction) error {
	if before := r.before; before != nil {
		r.before = nil
		before()
	}
	return r.MemoryStore.CreateMatch(ctx, match, mine, theirs)
}

func TestSwipeLosingMatchRaceReturnsExistingMatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, profile("u1", "1994-01-01"), profile("u2", "1995-01-01"))
	_, err := f.interaction.Swipe(ctx, "u2", like("u1"))
	require.NoError(t, err)

	racing := &racingStore{MemoryStore: f.store}
	f.interaction.Store = racing
	var peerResp *models.SwipeResponse
	racing.before = func() {
		// u2 swipes again and completes the match first
		var err error
		peerResp, err = f.interaction.Swipe(ctx, "u2", like("u1"))
		require.NoError(t, err)
	}

	resp, err := f.interaction.Swipe(ctx, "u1", like("u2"))
	require.NoError(t, err)
	require.NotNil(t, peerResp.Match)
	require.NotNil(t, resp.Match)
	assert.Equal(t, peerResp.Match.MatchID, resp.Match.MatchID)
	assert.Equal(t, "u2", resp.Match.Peer.ID)

	matches, err := f.store.ListMatches(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.Len(t, f.publisher.For("u1"), 1, "only the winning swipe publishes")
	assert.Len(t, f.publisher.For("u2"), 1)

	undone, err := f.interaction.Undo(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, undone)
}

func TestConcurrentMutualLikesMatchOnce(t *testing.T) {
	ctx := context.Background()
	for round := 0; round < 50; round++ {
		f := newFixture(t, profile("u1", "1994-01-01"), profile("u2", "1995-01-01"))
		f.interaction.NewID = nil

		start := make(chan struct{})
		var wg sync.WaitGroup
		resps := make([]*models.SwipeResponse, 2)
		errs := make([]error, 2)
		for i, pair := range [][2]string{{"u1", "u2"}, {"u2", "u1"}} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				resps[i], errs[i] = f.interaction.Swipe(ctx, pair[0], like(pair[1]))
			}()
		}
		close(start)
		wg.Wait()
		require.NoError(t, errs[0])
		require.NoError(t, errs[1])

		matches, err := f.store.ListMatches(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, matches, 1, "round %d", round)
		require.True(t, resps[0].Match != nil || resps[1].Match != nil)
		for _, pair := range [][2]string{{"u1", "u2"}, {"u2", "u1"}} {
			i, err := f.store.GetInteraction(ctx, pair[0], pair[1])
			require.NoError(t, err)
			assert.Equal(t, models.StatusMatch, i.Status)
			assert.Equal(t, matches[0].MatchID, *i.MatchID)
		}
	}
}
