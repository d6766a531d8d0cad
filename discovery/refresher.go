package discovery

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"vibin_discovery/client"
	"vibin_discovery/deck"
	"vibin_discovery/models"
)

// Reason says why a fetch was triggered.
type Reason int

const (
	ReasonInitial Reason = iota
	ReasonLookahead
	ReasonPoll
	ReasonForeground
	ReasonFilters
	ReasonIneligible
)

func (r Reason) String() string {
	switch r {
	case ReasonInitial:
		return "initial"
	case ReasonLookahead:
		return "lookahead"
	case ReasonPoll:
		return "poll"
	case ReasonForeground:
		return "foreground"
	case ReasonFilters:
		return "filters"
	case ReasonIneligible:
		return "ineligible"
	default:
		return "unknown"
	}
}

// Fetcher loads discovery pages
type Fetcher interface {
	FetchCandidates(ctx context.Context, p client.Page) ([]models.Candidate, error)
}

// PollPolicy picks the background refresh interval from the number of cards
// still buffered: the fewer remain, the sooner the next poll.
type PollPolicy struct {
	ShortBelow     int
	MediumBelow    int
	ShortInterval  time.Duration
	MediumInterval time.Duration
	LongInterval   time.Duration
}

// DefaultPollPolicy polls every 20s below 5 cards, 45s below 20 and 90s otherwise.
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{
		ShortBelow:     5,
		MediumBelow:    20,
		ShortInterval:  20 * time.Second,
		MediumInterval: 45 * time.Second,
		LongInterval:   90 * time.Second,
	}
}

func (p PollPolicy) Interval(remaining int) time.Duration {
	switch {
	case remaining < p.ShortBelow:
		return p.ShortInterval
	case remaining < p.MediumBelow:
		return p.MediumInterval
	default:
		return p.LongInterval
	}
}

// Refresher keeps the deck filled. Fetches are triggered by the lookahead,
// by the poll timer and by explicit refreshes; every fetch goes through the
// rate limiter and merges through the deck.
type Refresher struct {
	API       Fetcher
	Deck      *deck.Deck
	Exclusion *deck.Exclusion
	PageSize  int
	Lookahead int
	Policy    PollPolicy
	Limiter   *rate.Limiter
	Log       *zap.Logger

	OnMerged func(reason Reason, changed bool)
	OnError  func(err error)

	once     sync.Once
	triggers chan Reason
}

func (r *Refresher) init() {
	r.once.Do(func() {
		r.triggers = make(chan Reason, 1)
		if r.Limiter == nil {
			r.Limiter = rate.NewLimiter(rate.Every(2*time.Second), 2)
		}
	})
}

// Trigger asks Run to fetch. Triggers arriving while one is queued collapse
// into the queued one, except that a refresh replaces a queued lookahead.
func (r *Refresher) Trigger(reason Reason) {
	r.init()
	select {
	case r.triggers <- reason:
		return
	default:
	}
	if reason == ReasonLookahead {
		return
	}
	// swap a queued lookahead for the refresh
	select {
	case queued := <-r.triggers:
		if queued != ReasonLookahead {
			reason = queued
		}
	default:
	}
	select {
	case r.triggers <- reason:
	default:
	}
}

// MaybePrefetch triggers a lookahead fetch when few cards remain.
func (r *Refresher) MaybePrefetch() bool {
	if r.Deck.Remaining() > r.Lookahead {
		return false
	}
	r.Trigger(ReasonLookahead)
	return true
}

// Run serves triggers and the poll timer until ctx is done.
func (r *Refresher) Run(ctx context.Context) error {
	r.init()
	timer := time.NewTimer(r.Policy.Interval(r.Deck.Remaining()))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case reason := <-r.triggers:
			_ = r.Fetch(ctx, reason)
		case <-timer.C:
			_ = r.Fetch(ctx, ReasonPoll)
		}
		timer.Reset(r.Policy.Interval(r.Deck.Remaining()))
	}
}

// exclude lists the swiped and the buffered ids, so the first page of the
// server always continues where the deck ends.
func (r *Refresher) exclude() []string {
	ids := r.Exclusion.IDs()
	for _, id := range r.Deck.IDs() {
		if !r.Exclusion.Has(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Fetch loads the next candidates now and merges them into the deck. The
// first page is always requested: the server drops swiped profiles from its
// ranking, so page offsets shift under a client that keeps swiping.
func (r *Refresher) Fetch(ctx context.Context, reason Reason) error {
	r.init()
	if err := r.Limiter.Wait(ctx); err != nil {
		return err
	}

	epoch := r.Deck.Epoch()
	batch, err := r.API.FetchCandidates(ctx, client.Page{
		Limit:   r.PageSize,
		Page:    1,
		Exclude: r.exclude(),
	})
	if err != nil {
		if errors.Is(err, client.ErrNoCredentials) || errors.Is(err, context.Canceled) {
			return err
		}
		r.Log.Warn("discovery fetch failed", zap.Stringer("reason", reason), zap.Error(err))
		if r.OnError != nil {
			r.OnError(err)
		}
		return err
	}

	fresh := make([]models.Candidate, 0, len(batch))
	for _, c := range batch {
		if !r.Exclusion.Has(c.ID) {
			fresh = append(fresh, c)
		}
	}
	// a batch requested before a reset belongs to the previous deck
	changed := r.Deck.MergeAt(epoch, fresh)
	r.Log.Debug("discovery page merged",
		zap.Stringer("reason", reason),
		zap.Int("received", len(batch)),
		zap.Bool("changed", changed),
		zap.Int("remaining", r.Deck.Remaining()))
	if r.OnMerged != nil {
		r.OnMerged(reason, changed)
	}
	return nil
}
