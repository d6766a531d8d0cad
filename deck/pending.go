package deck

import (
	"sync"

	"vibin_discovery/models"
)

// PendingSwipe is the most recent swipe, kept so it can be undone once.
type PendingSwipe struct {
	Candidate models.Candidate
	Direction string // models.DirectionLeft or models.DirectionRight
	SuperLike bool
}

// Pending holds at most one PendingSwipe.
type Pending struct {
	mu    sync.Mutex
	swipe *PendingSwipe
}

// Set replaces the pending swipe.
func (p *Pending) Set(s PendingSwipe) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.swipe = &s
}

func (p *Pending) Get() (PendingSwipe, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.swipe == nil {
		return PendingSwipe{}, false
	}
	return *p.swipe, true
}

func (p *Pending) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.swipe = nil
}

// ClearIf drops the pending swipe if it is for candidateID.
func (p *Pending) ClearIf(candidateID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.swipe != nil && p.swipe.Candidate.ID == candidateID {
		p.swipe = nil
	}
}
