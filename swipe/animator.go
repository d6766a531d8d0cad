package swipe

import (
	"context"
	"time"

	"vibin_discovery/gesture"
	"vibin_discovery/models"
)

// Animator plays the departure of a swiped card. The returned channel is
// closed when the animation completes. It may never close; the dispatcher
// does not rely on it.
type Animator interface {
	Depart(ctx context.Context, c models.Candidate, dir gesture.Direction) <-chan struct{}
}

// DelayAnimator completes after a fixed duration.
type DelayAnimator struct {
	Duration time.Duration
}

func (a DelayAnimator) Depart(ctx context.Context, _ models.Candidate, _ gesture.Direction) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		t := time.NewTimer(a.Duration)
		defer t.Stop()
		select {
		case <-t.C:
			close(done)
		case <-ctx.Done():
		}
	}()
	return done
}

// InstantAnimator completes immediately.
type InstantAnimator struct{}

func (InstantAnimator) Depart(context.Context, models.Candidate, gesture.Direction) <-chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}
