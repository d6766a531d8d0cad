// Package swipe submits swipes and undo requests for the current card.
package swipe

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vibin_discovery/client"
	"vibin_discovery/deck"
	"vibin_discovery/gesture"
	"vibin_discovery/models"
)

const (
	DefaultTimeout          = 1500 * time.Millisecond
	DefaultMatchNotifyDelay = 600 * time.Millisecond
)

var (
	// ErrBusy is returned while another swipe or undo holds the gesture lock.
	ErrBusy = errors.New("swipe in flight")
	// ErrDeckEmpty is returned when there is no current card.
	ErrDeckEmpty = errors.New("no card to swipe")
	// ErrNoDirection is returned for a snap-back gesture.
	ErrNoDirection = errors.New("gesture did not commit")
	// ErrClosed is returned once the dispatcher was closed.
	ErrClosed = errors.New("dispatcher closed")
)

// API is the part of the discovery client used for swipes and undo
type API interface {
	Swipe(ctx context.Context, req models.SwipeRequest) (*models.SwipeResponse, error)
	Undo(ctx context.Context) (bool, error)
}

// Hooks are notified about swipe outcomes. Nil hooks are skipped.
type Hooks struct {
	OnAdvance         func(index int, c models.Candidate)
	OnCelebrate       func(m models.Match) // right away
	OnMatch           func(m models.Match) // after the notify delay
	OnLogout          func()
	OnIneligible      func(c models.Candidate)
	InvalidateMatches func()
}

// Dispatcher submits swipes. The departure animation and the request run in
// parallel; the deck advances when the animation completes or the timeout
// fires, whichever comes first. The request outcome is reconciled later
// without rolling back the deck.
type Dispatcher struct {
	API              API
	Deck             *deck.Deck
	Exclusion        *deck.Exclusion
	Pending          *deck.Pending
	Lock             *gesture.Lock
	Animator         Animator
	Timeout          time.Duration
	MatchNotifyDelay time.Duration
	Hooks            Hooks
	Log              *zap.Logger

	inflight errgroup.Group
	mu       sync.Mutex
	last     *Record
	closed   bool
}

func (d *Dispatcher) timeout() time.Duration {
	if d.Timeout > 0 {
		return d.Timeout
	}
	return DefaultTimeout
}

func (d *Dispatcher) animator() Animator {
	if d.Animator != nil {
		return d.Animator
	}
	return InstantAnimator{}
}

// Last returns the most recent dispatched swipe.
func (d *Dispatcher) Last() *Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

// Dispatch swipes the current card. Up is sent as a right swipe with the
// super like flag. It returns once the deck advanced; the returned record
// resolves when the server answers.
func (d *Dispatcher) Dispatch(ctx context.Context, dir gesture.Direction) (*Record, error) {
	if dir == gesture.None {
		return nil, ErrNoDirection
	}
	if !d.Lock.TryAcquire() {
		return nil, ErrBusy
	}
	defer d.Lock.Release()

	current, epoch, ok := d.Deck.Top()
	if !ok {
		return nil, ErrDeckEmpty
	}
	excluded := d.Exclusion.Epoch()

	superLike := dir == gesture.Up
	if superLike {
		dir = gesture.Right
	}
	wire := models.DirectionRight
	if dir == gesture.Left {
		wire = models.DirectionLeft
	}

	rec := newRecord(current, dir, superLike)
	req := models.SwipeRequest{ToUserID: current.ID, Direction: wire, IsSuperLike: superLike}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, ErrClosed
	}
	d.Pending.Set(deck.PendingSwipe{Candidate: current, Direction: wire, SuperLike: superLike})
	d.last = rec
	d.inflight.Go(func() error {
		resp, err := d.API.Swipe(ctx, req)
		d.reconcile(ctx, rec, resp, err)
		return nil
	})
	d.mu.Unlock()

	departed := d.animator().Depart(ctx, current, dir)
	timer := time.NewTimer(d.timeout())
	defer timer.Stop()
	select {
	case <-departed:
	case <-timer.C:
		d.Log.Debug("departure animation timed out", zap.String("candidate", current.ID))
	case <-ctx.Done():
	}

	// a reset during the animation replaced the deck; the new one keeps its first card
	index, moved := d.Deck.AdvancePast(epoch, current.ID)
	if !moved {
		d.Pending.ClearIf(current.ID)
		d.Log.Debug("deck replaced during swipe", zap.String("candidate", current.ID))
		return rec, nil
	}
	d.Exclusion.AddAt(excluded, current.ID)
	if d.Hooks.OnAdvance != nil {
		d.Hooks.OnAdvance(index, current)
	}
	return rec, nil
}

// reconcile applies the server answer to a swipe.
func (d *Dispatcher) reconcile(ctx context.Context, rec *Record, resp *models.SwipeResponse, err error) {
	switch {
	case err == nil:
		var match *models.Match
		if resp != nil {
			match = resp.Match
		}
		rec.resolve(Confirmed, match, nil)
		if match != nil {
			d.announce(ctx, *match)
		}

	case errors.Is(err, client.ErrUnauthorized):
		rec.resolve(Failed, nil, err)
		d.Log.Warn("swipe rejected, logging out", zap.Error(err))
		if d.Hooks.OnLogout != nil {
			d.Hooks.OnLogout()
		}

	case errors.Is(err, client.ErrIneligible):
		rec.resolve(Skipped, nil, err)
		d.Log.Debug("candidate no longer eligible", zap.String("candidate", rec.Candidate.ID))
		if d.Hooks.OnIneligible != nil {
			d.Hooks.OnIneligible(rec.Candidate)
		}

	default:
		rec.resolve(Failed, nil, err)
		d.Log.Warn("swipe failed", zap.String("candidate", rec.Candidate.ID), zap.Error(err))
	}
}

func (d *Dispatcher) announce(ctx context.Context, m models.Match) {
	if d.Hooks.InvalidateMatches != nil {
		d.Hooks.InvalidateMatches()
	}
	if d.Hooks.OnCelebrate != nil {
		d.Hooks.OnCelebrate(m)
	}
	if d.Hooks.OnMatch == nil {
		return
	}

	delay := d.MatchNotifyDelay
	if delay <= 0 {
		delay = DefaultMatchNotifyDelay
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
		d.Hooks.OnMatch(m)
	case <-ctx.Done():
	}
}

// Wait blocks until every outstanding swipe request and match notification finished.
func (d *Dispatcher) Wait() {
	_ = d.inflight.Wait()
}

// Close refuses further swipes and waits for the outstanding ones.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.Wait()
}
