package swipe

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"vibin_discovery/client"
	"vibin_discovery/deck"
)

var (
	// ErrNothingToUndo is returned when no swipe is pending.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrUndoRejected is returned when the server declined the undo.
	ErrUndoRejected = errors.New("undo rejected")
)

// Undoer reverts the pending swipe once. It shares the deck, the pending
// swipe and the gesture lock with the dispatcher.
type Undoer struct {
	Dispatcher *Dispatcher
	OnLogout   func()
	Log        *zap.Logger
}

// CanUndo reports whether an undo would be attempted.
func (u *Undoer) CanUndo() bool {
	_, ok := u.Dispatcher.Pending.Get()
	return ok && !u.Dispatcher.Lock.Locked()
}

// Undo asks the server to revert the pending swipe. On success the deck steps
// back one card and the pending swipe is cleared. On failure nothing local changes.
func (u *Undoer) Undo(ctx context.Context) (deck.PendingSwipe, error) {
	d := u.Dispatcher
	if !d.Lock.TryAcquire() {
		return deck.PendingSwipe{}, ErrBusy
	}
	defer d.Lock.Release()

	pending, ok := d.Pending.Get()
	if !ok {
		return deck.PendingSwipe{}, ErrNothingToUndo
	}

	// the server only knows about the swipe once its request answered
	if last := d.Last(); last != nil && last.Candidate.ID == pending.Candidate.ID {
		if err := last.Wait(ctx); err != nil {
			return deck.PendingSwipe{}, err
		}
		if last.State() != Confirmed {
			return deck.PendingSwipe{}, fmt.Errorf("%w: swipe was %s", ErrUndoRejected, last.State())
		}
	}

	undone, err := d.API.Undo(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) && u.OnLogout != nil {
			u.OnLogout()
		}
		return deck.PendingSwipe{}, fmt.Errorf("undo: %w", err)
	}
	if !undone {
		return deck.PendingSwipe{}, ErrUndoRejected
	}

	index := d.Deck.Retreat()
	d.Pending.Clear()
	u.Log.Debug("swipe undone", zap.String("candidate", pending.Candidate.ID), zap.Int("index", index))
	return pending, nil
}
