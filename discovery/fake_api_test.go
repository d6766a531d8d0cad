package discovery

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"vibin_discovery/client"
	"vibin_discovery/models"
	"vibin_discovery/swipe"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeAPI struct {
	mu sync.Mutex

	pages    map[int][]models.Candidate
	queue    [][]models.Candidate // served in order before pages
	fetchErr error
	requests []client.Page
	onFetch  func()

	swipeFn func(req models.SwipeRequest) (*models.SwipeResponse, error)
	swipes  []models.SwipeRequest
	undone  bool
	undos   int

	matches      []models.Match
	matchCalls   int
	prefs        []models.Preferences
	seen         []string
	creds        client.Credentials
	loggedIn     bool
	logoutCalled int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		pages:    map[int][]models.Candidate{},
		undone:   true,
		creds:    client.Credentials{Token: "tok", UserID: "me"},
		loggedIn: true,
	}
}

func cands(ids ...string) []models.Candidate {
	out := make([]models.Candidate, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Candidate{ID: id, Name: "name-" + id})
	}
	return out
}

func (f *fakeAPI) FetchCandidates(_ context.Context, p client.Page) ([]models.Candidate, error) {
	f.mu.Lock()
	hook := f.onFetch
	f.mu.Unlock()
	if hook != nil {
		hook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, p)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if len(f.queue) > 0 {
		batch := f.queue[0]
		f.queue = f.queue[1:]
		return batch, nil
	}
	return f.pages[p.Page], nil
}

func (f *fakeAPI) Swipe(_ context.Context, req models.SwipeRequest) (*models.SwipeResponse, error) {
	f.mu.Lock()
	f.swipes = append(f.swipes, req)
	fn := f.swipeFn
	f.mu.Unlock()
	if fn == nil {
		return &models.SwipeResponse{}, nil
	}
	return fn(req)
}

func (f *fakeAPI) Undo(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.undos++
	return f.undone, nil
}

func (f *fakeAPI) Matches(context.Context) ([]models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matchCalls++
	return f.matches, nil
}

func (f *fakeAPI) MarkSeenAsync(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, userID)
}

func (f *fakeAPI) UpdatePreferences(_ context.Context, prefs models.Preferences) (*models.Preferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefs = append(f.prefs, prefs)
	return &prefs, nil
}

func (f *fakeAPI) Login(creds client.Credentials) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creds = creds
	f.loggedIn = true
}

func (f *fakeAPI) Logout() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedIn = false
	f.logoutCalled++
}

func (f *fakeAPI) Credentials() (client.Credentials, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creds, f.loggedIn
}

func (f *fakeAPI) seenIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seen...)
}

func (f *fakeAPI) swipeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.swipes)
}

func (f *fakeAPI) pageRequests() []client.Page {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]client.Page(nil), f.requests...)
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Animator = swipe.InstantAnimator{}
	opts.SwipeTimeout = time.Second
	opts.MatchNotifyDelay = 10 * time.Millisecond
	opts.MinGap = time.Millisecond
	opts.Burst = 100
	return opts
}

func newTestSession(t *testing.T, api *fakeAPI) *Session {
	t.Helper()
	s := NewSession(api, testOptions(), zaptest.NewLogger(t))
	t.Cleanup(s.Dispatcher.Wait)
	return s
}

func nextEvent(t *testing.T, s *Session) Event {
	t.Helper()
	select {
	case e := <-s.Events():
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("no session event")
		return Event{}
	}
}
