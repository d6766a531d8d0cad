package deck

import "sync"

// Exclusion is the set of candidate ids swiped in this session. It only grows
// until Clear, which happens on login and on filter changes.
type Exclusion struct {
	mu    sync.RWMutex
	order []string
	set   map[string]struct{}
	epoch uint64
}

func NewExclusion() *Exclusion {
	return &Exclusion{set: make(map[string]struct{})}
}

// Add inserts id and reports whether it was new.
func (e *Exclusion) Add(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.set[id]; ok || id == "" {
		return false
	}
	e.set[id] = struct{}{}
	e.order = append(e.order, id)
	return true
}

// AddAt is Add for a swipe made at epoch. Nothing is added when the set was
// cleared since.
func (e *Exclusion) AddAt(epoch uint64, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if epoch != e.epoch {
		return false
	}
	if _, ok := e.set[id]; ok || id == "" {
		return false
	}
	e.set[id] = struct{}{}
	e.order = append(e.order, id)
	return true
}

// Epoch counts clears.
func (e *Exclusion) Epoch() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.epoch
}

func (e *Exclusion) Has(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.set[id]
	return ok
}

// IDs returns the excluded ids in insertion order.
func (e *Exclusion) IDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.order...)
}

func (e *Exclusion) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.order)
}

func (e *Exclusion) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.order = nil
	e.set = make(map[string]struct{})
	e.epoch++
}
