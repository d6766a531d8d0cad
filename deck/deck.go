// Package deck holds the local discovery buffer: the ordered candidates,
// the current card, the session exclusion set and the pending swipe.
package deck

import (
	"sync"

	"vibin_discovery/models"
)

// DefaultCap is the default number of candidates retained in memory.
const DefaultCap = 100

// Deck is an ordered, duplicate-free buffer of candidates with a cursor on the
// current card. Entries are only appended, except that swiped entries may be
// trimmed from the front to respect the cap.
type Deck struct {
	mu     sync.RWMutex
	cards  []models.Candidate
	ids    map[string]struct{}
	cursor int
	cap    int
	epoch  uint64
}

// New returns an empty deck retaining at most capacity candidates.
func New(capacity int) *Deck {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &Deck{ids: make(map[string]struct{}), cap: capacity}
}

// Merge appends the candidates of batch that are not buffered yet, keeping
// their order. It reports whether the deck changed.
//
// When the cap would be exceeded, swiped entries are dropped from the front,
// always keeping the card just before the cursor so an undo can return to it.
// If that is not enough the newest incoming candidates are left out; the
// server offers them again later.
func (d *Deck) Merge(batch []models.Candidate) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.merge(batch)
}

// MergeAt is Merge for a batch requested at epoch. Batches requested before
// the last Reset are dropped.
func (d *Deck) MergeAt(epoch uint64, batch []models.Candidate) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if epoch != d.epoch {
		return false
	}
	return d.merge(batch)
}

func (d *Deck) merge(batch []models.Candidate) bool {
	fresh := make([]models.Candidate, 0, len(batch))
	inBatch := make(map[string]struct{}, len(batch))
	for _, c := range batch {
		if c.ID == "" {
			continue
		}
		if _, ok := d.ids[c.ID]; ok {
			continue
		}
		if _, ok := inBatch[c.ID]; ok {
			continue
		}
		inBatch[c.ID] = struct{}{}
		fresh = append(fresh, c)
	}
	if len(fresh) == 0 {
		return false
	}

	dropped := 0
	if over := len(d.cards) + len(fresh) - d.cap; over > 0 {
		dropped = min(over, max(d.cursor-1, 0))
		for _, c := range d.cards[:dropped] {
			delete(d.ids, c.ID)
		}
		d.cards = append([]models.Candidate(nil), d.cards[dropped:]...)
		d.cursor -= dropped
		if over -= dropped; over > 0 {
			fresh = fresh[:len(fresh)-over]
		}
	}

	for _, c := range fresh {
		d.ids[c.ID] = struct{}{}
		d.cards = append(d.cards, c)
	}
	return dropped > 0 || len(fresh) > 0
}

// Current returns the card under the cursor.
func (d *Deck) Current() (models.Candidate, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.cursor >= len(d.cards) {
		return models.Candidate{}, false
	}
	return d.cards[d.cursor], true
}

// Top returns the current card together with the deck epoch.
func (d *Deck) Top() (models.Candidate, uint64, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.cursor >= len(d.cards) {
		return models.Candidate{}, d.epoch, false
	}
	return d.cards[d.cursor], d.epoch, true
}

// Epoch counts resets. Positions and cards read at one epoch mean nothing
// after the next Reset.
func (d *Deck) Epoch() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.epoch
}

// AdvancePast moves the cursor past id if id is still the current card of
// the same epoch. It returns the new index and whether the cursor moved.
func (d *Deck) AdvancePast(epoch uint64, id string) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if epoch != d.epoch || d.cursor >= len(d.cards) || d.cards[d.cursor].ID != id {
		return d.cursor, false
	}
	d.cursor++
	return d.cursor, true
}

// Advance moves the cursor past the current card and returns the new index.
func (d *Deck) Advance() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cursor < len(d.cards) {
		d.cursor++
	}
	return d.cursor
}

// Retreat moves the cursor back one card, never below zero.
func (d *Deck) Retreat() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cursor > 0 {
		d.cursor--
	}
	return d.cursor
}

func (d *Deck) Index() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cursor
}

func (d *Deck) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.cards)
}

// Remaining is the number of cards at or after the cursor.
func (d *Deck) Remaining() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.cards) - d.cursor
}

// Upcoming returns up to n cards starting at the cursor.
func (d *Deck) Upcoming(n int) []models.Candidate {
	d.mu.RLock()
	defer d.mu.RUnlock()
	end := min(d.cursor+n, len(d.cards))
	return append([]models.Candidate(nil), d.cards[d.cursor:end]...)
}

// Snapshot returns a copy of the buffered cards.
func (d *Deck) Snapshot() []models.Candidate {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.Candidate(nil), d.cards...)
}

// IDs returns the buffered ids in deck order.
func (d *Deck) IDs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ids := make([]string, len(d.cards))
	for i, c := range d.cards {
		ids[i] = c.ID
	}
	return ids
}

// Reset empties the deck, rewinds the cursor and starts a new epoch.
func (d *Deck) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.epoch++
	d.cards = nil
	d.ids = make(map[string]struct{})
	d.cursor = 0
}
