package swipe

import (
	"context"
	"sync"

	"vibin_discovery/gesture"
	"vibin_discovery/models"
)

// State is the server-side outcome of one swipe.
type State int

const (
	// Pending means the swipe request has not answered yet.
	Pending State = iota
	// Confirmed means the server recorded the swipe.
	Confirmed
	// Skipped means the server refused the candidate as ineligible.
	Skipped
	// Failed means the request failed for any other reason. Local state is not rolled back.
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Record tracks one dispatched swipe. It moves out of Pending exactly once.
type Record struct {
	Candidate models.Candidate
	Direction gesture.Direction // Left or Right
	SuperLike bool

	mu    sync.Mutex
	state State
	match *models.Match
	err   error
	done  chan struct{}
}

func newRecord(c models.Candidate, dir gesture.Direction, superLike bool) *Record {
	return &Record{Candidate: c, Direction: dir, SuperLike: superLike, done: make(chan struct{})}
}

// resolve moves the record to its final state. Later calls are ignored.
func (r *Record) resolve(state State, match *models.Match, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Pending {
		return false
	}
	r.state, r.match, r.err = state, match, err
	close(r.done)
	return true
}

func (r *Record) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Match is the match created by this swipe, if any.
func (r *Record) Match() *models.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.match
}

func (r *Record) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Done is closed once the server answered.
func (r *Record) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the record is resolved or ctx ends.
func (r *Record) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
