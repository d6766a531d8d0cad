package discovery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/time/rate"

	"vibin_discovery/deck"
	"vibin_discovery/models"
)

func newTestRefresher(t *testing.T, api *fakeAPI) *Refresher {
	t.Helper()
	return &Refresher{
		API:       api,
		Deck:      deck.New(deck.DefaultCap),
		Exclusion: deck.NewExclusion(),
		PageSize:  2,
		Lookahead: 1,
		Policy:    DefaultPollPolicy(),
		Limiter:   rate.NewLimiter(rate.Inf, 1),
		Log:       zaptest.NewLogger(t),
	}
}

func TestRefresherMergesOverlappingPages(t *testing.T) {
	api := newFakeAPI()
	api.queue = [][]models.Candidate{cands("A", "B"), cands("B", "C")}
	r := newTestRefresher(t, api)
	ctx := context.Background()

	require.NoError(t, r.Fetch(ctx, ReasonInitial))
	require.NoError(t, r.Fetch(ctx, ReasonLookahead))

	assert.Equal(t, []string{"A", "B", "C"}, r.Deck.IDs())
	reqs := api.pageRequests()
	require.Len(t, reqs, 2)
	for _, req := range reqs {
		assert.Equal(t, 1, req.Page)
		assert.Equal(t, 2, req.Limit)
	}
	assert.Empty(t, reqs[0].Exclude)
	assert.Equal(t, []string{"A", "B"}, reqs[1].Exclude)
}

func TestRefresherSkipsExcludedCandidates(t *testing.T) {
	api := newFakeAPI()
	api.pages[1] = cands("A", "B")
	r := newTestRefresher(t, api)
	r.Exclusion.Add("A")

	require.NoError(t, r.Fetch(context.Background(), ReasonPoll))

	assert.Equal(t, []string{"B"}, r.Deck.IDs())
	assert.Equal(t, []string{"A"}, api.pageRequests()[0].Exclude)
}

func TestRefresherExcludesSwipedAndBufferedCards(t *testing.T) {
	api := newFakeAPI()
	api.queue = [][]models.Candidate{cands("A", "B", "C"), cands("D")}
	r := newTestRefresher(t, api)
	ctx := context.Background()

	require.NoError(t, r.Fetch(ctx, ReasonInitial))
	r.Deck.Advance()
	r.Exclusion.Add("A")
	r.Exclusion.Add("Q")
	require.NoError(t, r.Fetch(ctx, ReasonLookahead))

	reqs := api.pageRequests()
	require.Len(t, reqs, 2)
	assert.Equal(t, 1, reqs[1].Page, "lookahead never walks the page offset")
	assert.Equal(t, []string{"A", "Q", "B", "C"}, reqs[1].Exclude)
	assert.Equal(t, []string{"A", "B", "C", "D"}, r.Deck.IDs())
}

func TestRefresherDropsBatchRequestedBeforeReset(t *testing.T) {
	api := newFakeAPI()
	api.pages[1] = cands("A", "B")
	r := newTestRefresher(t, api)
	api.onFetch = func() { r.Deck.Reset() }

	require.NoError(t, r.Fetch(context.Background(), ReasonPoll))
	assert.Zero(t, r.Deck.Len())

	api.onFetch = nil
	require.NoError(t, r.Fetch(context.Background(), ReasonPoll))
	assert.Equal(t, []string{"A", "B"}, r.Deck.IDs())
}

func TestRefresherReportsErrors(t *testing.T) {
	api := newFakeAPI()
	api.fetchErr = errors.New("boom")
	r := newTestRefresher(t, api)
	var got error
	r.OnError = func(err error) { got = err }

	err := r.Fetch(context.Background(), ReasonPoll)

	require.Error(t, err)
	assert.Equal(t, api.fetchErr, got)
	assert.Zero(t, r.Deck.Len())
}

func TestRefresherTriggerCoalesces(t *testing.T) {
	tests := []struct {
		name  string
		order []Reason
		want  Reason
	}{
		{"refresh replaces lookahead", []Reason{ReasonLookahead, ReasonFilters}, ReasonFilters},
		{"lookahead does not replace refresh", []Reason{ReasonFilters, ReasonLookahead}, ReasonFilters},
		{"first refresh wins", []Reason{ReasonPoll, ReasonForeground}, ReasonPoll},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRefresher(t, newFakeAPI())
			for _, reason := range tt.order {
				r.Trigger(reason)
			}
			require.Len(t, r.triggers, 1)
			assert.Equal(t, tt.want, <-r.triggers)
		})
	}
}

func TestRefresherMaybePrefetch(t *testing.T) {
	r := newTestRefresher(t, newFakeAPI())
	r.Deck.Merge(cands("A", "B", "C"))

	assert.False(t, r.MaybePrefetch())
	r.Deck.Advance()
	assert.True(t, r.MaybePrefetch())
	assert.Equal(t, ReasonLookahead, <-r.triggers)
}

func TestRefresherRunServesTriggers(t *testing.T) {
	api := newFakeAPI()
	api.pages[1] = cands("A", "B")
	r := newTestRefresher(t, api)
	merged := make(chan Reason, 4)
	r.OnMerged = func(reason Reason, _ bool) { merged <- reason }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	r.Trigger(ReasonInitial)
	select {
	case reason := <-merged:
		assert.Equal(t, ReasonInitial, reason)
	case <-time.After(2 * time.Second):
		t.Fatal("trigger not served")
	}
	assert.Equal(t, 2, r.Deck.Len())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestRefresherRunPolls(t *testing.T) {
	api := newFakeAPI()
	api.pages[1] = cands("A")
	r := newTestRefresher(t, api)
	r.Policy = PollPolicy{ShortBelow: 5, MediumBelow: 10, ShortInterval: 5 * time.Millisecond, MediumInterval: time.Hour, LongInterval: time.Hour}
	merged := make(chan Reason, 16)
	r.OnMerged = func(reason Reason, _ bool) {
		select {
		case merged <- reason:
		default:
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case reason := <-merged:
		assert.Equal(t, ReasonPoll, reason)
	case <-time.After(2 * time.Second):
		t.Fatal("no poll")
	}
	cancel()
	<-done
}

func TestPollPolicyInterval(t *testing.T) {
	p := DefaultPollPolicy()
	assert.Equal(t, 20*time.Second, p.Interval(0))
	assert.Equal(t, 20*time.Second, p.Interval(4))
	assert.Equal(t, 45*time.Second, p.Interval(5))
	assert.Equal(t, 45*time.Second, p.Interval(19))
	assert.Equal(t, 90*time.Second, p.Interval(20))
}

func TestReasonString(t *testing.T) {
	assert.Equal(t, "lookahead", ReasonLookahead.String())
	assert.Equal(t, "unknown", Reason(42).String())
}
