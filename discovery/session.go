// Package discovery wires the deck, the gesture controller, the swipe
// dispatcher and the refresher into one discovery session.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"vibin_discovery/client"
	"vibin_discovery/config"
	"vibin_discovery/deck"
	"vibin_discovery/gesture"
	"vibin_discovery/models"
	"vibin_discovery/swipe"
)

// API is everything a session needs from the discovery client
type API interface {
	Fetcher
	swipe.API
	MatchLister
	MarkSeenAsync(userID string)
	UpdatePreferences(ctx context.Context, prefs models.Preferences) (*models.Preferences, error)
	Login(creds client.Credentials)
	Logout()
	Credentials() (client.Credentials, bool)
}

// EventKind identifies a session event
type EventKind int

const (
	// EventDeckChanged is sent when a fetch changed the deck.
	EventDeckChanged EventKind = iota
	// EventCelebrate is sent as soon as a swipe produced a match.
	EventCelebrate
	// EventMatch is sent after the notify delay to present the match.
	EventMatch
	// EventSkipped is sent when the server refused a swiped candidate.
	EventSkipped
	// EventLogout is sent when the server rejected the credentials.
	EventLogout
)

// Event is delivered on Events()
type Event struct {
	Kind      EventKind
	Match     *models.Match
	Candidate *models.Candidate
}

const eventBuffer = 32

// Options tune a session
type Options struct {
	PageSize         int
	Cap              int
	Lookahead        int
	SwipeTimeout     time.Duration
	MatchNotifyDelay time.Duration
	MatchCacheTTL    time.Duration
	Animator         swipe.Animator
	Thresholds       gesture.Thresholds
	Poll             PollPolicy
	MinGap           time.Duration
	Burst            int
}

// DefaultOptions mirror the client configuration defaults.
func DefaultOptions() Options {
	return Options{
		PageSize:         20,
		Cap:              deck.DefaultCap,
		Lookahead:        3,
		SwipeTimeout:     swipe.DefaultTimeout,
		MatchNotifyDelay: swipe.DefaultMatchNotifyDelay,
		MatchCacheTTL:    5 * time.Minute,
		Animator:         swipe.DelayAnimator{Duration: 250 * time.Millisecond},
		Thresholds:       gesture.DefaultThresholds(),
		Poll:             DefaultPollPolicy(),
		MinGap:           2 * time.Second,
		Burst:            2,
	}
}

// OptionsFromConfig converts the client configuration.
func OptionsFromConfig(cfg *config.ClientConfig) Options {
	opts := DefaultOptions()
	opts.PageSize = cfg.Deck.PageSize
	opts.Cap = cfg.Deck.Cap
	opts.Lookahead = cfg.Deck.Lookahead
	opts.SwipeTimeout = cfg.Swipe.Timeout
	opts.MatchNotifyDelay = cfg.Swipe.MatchNotifyDelay
	opts.Animator = swipe.DelayAnimator{Duration: cfg.Swipe.Animation}
	opts.Poll = PollPolicy{
		ShortBelow:     cfg.Poll.ShortBelow,
		MediumBelow:    cfg.Poll.MediumBelow,
		ShortInterval:  cfg.Poll.ShortInterval,
		MediumInterval: cfg.Poll.MediumInterval,
		LongInterval:   cfg.Poll.LongInterval,
	}
	opts.MinGap = cfg.Poll.MinGap
	opts.Burst = cfg.Poll.Burst
	return opts
}

// Session is one user's discovery screen.
type Session struct {
	API        API
	Deck       *deck.Deck
	Exclusion  *deck.Exclusion
	Pending    *deck.Pending
	Lock       *gesture.Lock
	Gestures   *gesture.Controller
	Dispatcher *swipe.Dispatcher
	Undoer     *swipe.Undoer
	Refresher  *Refresher
	Matches    *MatchCache

	log    *zap.Logger
	events chan Event

	mu       sync.Mutex
	lastSeen string
}

// NewSession wires a session around api.
func NewSession(api API, opts Options, log *zap.Logger) *Session {
	s := &Session{
		API:       api,
		Deck:      deck.New(opts.Cap),
		Exclusion: deck.NewExclusion(),
		Pending:   &deck.Pending{},
		Lock:      &gesture.Lock{},
		Matches:   NewMatchCache(api, opts.MatchCacheTTL),
		log:       log,
		events:    make(chan Event, eventBuffer),
	}
	s.Gestures = &gesture.Controller{Thresholds: opts.Thresholds, Lock: s.Lock}

	s.Dispatcher = &swipe.Dispatcher{
		API:              api,
		Deck:             s.Deck,
		Exclusion:        s.Exclusion,
		Pending:          s.Pending,
		Lock:             s.Lock,
		Animator:         opts.Animator,
		Timeout:          opts.SwipeTimeout,
		MatchNotifyDelay: opts.MatchNotifyDelay,
		Log:              log.Named("swipe"),
		Hooks: swipe.Hooks{
			OnCelebrate:       func(m models.Match) { s.emit(Event{Kind: EventCelebrate, Match: &m}) },
			OnMatch:           func(m models.Match) { s.emit(Event{Kind: EventMatch, Match: &m}) },
			OnLogout:          s.forceLogout,
			InvalidateMatches: s.Matches.Invalidate,
			OnIneligible: func(c models.Candidate) {
				s.Refresher.Trigger(ReasonIneligible)
				s.emit(Event{Kind: EventSkipped, Candidate: &c})
			},
		},
	}
	s.Undoer = &swipe.Undoer{Dispatcher: s.Dispatcher, OnLogout: s.forceLogout, Log: log.Named("undo")}

	minGap := opts.MinGap
	if minGap <= 0 {
		minGap = time.Millisecond
	}
	s.Refresher = &Refresher{
		API:       api,
		Deck:      s.Deck,
		Exclusion: s.Exclusion,
		PageSize:  opts.PageSize,
		Lookahead: opts.Lookahead,
		Policy:    opts.Poll,
		Limiter:   rate.NewLimiter(rate.Every(minGap), max(opts.Burst, 1)),
		Log:       log.Named("refresh"),
		OnMerged: func(_ Reason, changed bool) {
			if changed {
				s.markCurrentSeen()
				s.emit(Event{Kind: EventDeckChanged})
			}
		},
		OnError: func(err error) {
			if errors.Is(err, client.ErrUnauthorized) {
				s.forceLogout()
			}
		},
	}
	return s
}

// Events delivers matches, logouts and deck changes. Events are dropped when
// nobody reads them.
func (s *Session) Events() <-chan Event {
	return s.events
}

func (s *Session) emit(e Event) {
	select {
	case s.events <- e:
	default:
		s.log.Debug("dropping session event", zap.Int("kind", int(e.Kind)))
	}
}

// Run loads the first page and keeps the deck refreshed until ctx is done.
// Once it returns, swipes fail with swipe.ErrClosed; it waits for the
// outstanding swipe requests first.
func (s *Session) Run(ctx context.Context) error {
	defer s.Dispatcher.Close()
	s.Refresher.Trigger(ReasonInitial)
	err := s.Refresher.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Current returns the card on top of the deck.
func (s *Session) Current() (models.Candidate, bool) {
	return s.Deck.Current()
}

// markCurrentSeen reports the top card to the server once.
func (s *Session) markCurrentSeen() {
	current, ok := s.Deck.Current()
	if !ok {
		return
	}
	s.mu.Lock()
	if current.ID == s.lastSeen {
		s.mu.Unlock()
		return
	}
	s.lastSeen = current.ID
	s.mu.Unlock()
	if _, loggedIn := s.API.Credentials(); loggedIn {
		s.API.MarkSeenAsync(current.ID)
	}
}

// Drag handles a released drag. A snap-back returns swipe.ErrNoDirection and a
// drag during an in-flight swipe returns swipe.ErrBusy.
func (s *Session) Drag(ctx context.Context, g gesture.Gesture) (*swipe.Record, error) {
	dir, ok := s.Gestures.Handle(g)
	if !ok {
		return nil, swipe.ErrBusy
	}
	return s.Swipe(ctx, dir)
}

// Swipe swipes the top card. ctx bounds the swipe request, which outlives this call.
func (s *Session) Swipe(ctx context.Context, dir gesture.Direction) (*swipe.Record, error) {
	rec, err := s.Dispatcher.Dispatch(ctx, dir)
	if err != nil {
		return nil, err
	}
	s.markCurrentSeen()
	s.Refresher.MaybePrefetch()
	return rec, nil
}

// CanUndo reports whether the undo control is enabled.
func (s *Session) CanUndo() bool {
	return s.Undoer.CanUndo()
}

// Undo reverts the last swipe once.
func (s *Session) Undo(ctx context.Context) (deck.PendingSwipe, error) {
	restored, err := s.Undoer.Undo(ctx)
	if err != nil {
		return restored, err
	}
	s.markCurrentSeen()
	return restored, nil
}

// Foreground refreshes when the app returns to the foreground.
func (s *Session) Foreground() {
	s.Refresher.Trigger(ReasonForeground)
}

// SetFilters saves new preferences and restarts discovery with them.
func (s *Session) SetFilters(ctx context.Context, prefs models.Preferences) (*models.Preferences, error) {
	saved, err := s.API.UpdatePreferences(ctx, prefs)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			s.forceLogout()
		}
		return nil, fmt.Errorf("saving filters: %w", err)
	}
	s.restart(ReasonFilters)
	return saved, nil
}

// Login installs credentials and starts a fresh deck.
func (s *Session) Login(creds client.Credentials) {
	s.API.Login(creds)
	s.Matches.Invalidate()
	s.restart(ReasonInitial)
}

// Logout forgets the credentials and the local deck.
func (s *Session) Logout() {
	s.API.Logout()
	s.Matches.Invalidate()
	s.Deck.Reset()
	s.Pending.Clear()
	s.mu.Lock()
	s.lastSeen = ""
	s.mu.Unlock()
}

func (s *Session) forceLogout() {
	s.Logout()
	s.emit(Event{Kind: EventLogout})
}

func (s *Session) restart(reason Reason) {
	// the exclusion is cleared first: a swipe finishing in between then
	// finds a replaced deck and leaves both alone
	s.Exclusion.Clear()
	s.Deck.Reset()
	s.Pending.Clear()
	s.mu.Lock()
	s.lastSeen = ""
	s.mu.Unlock()
	s.Refresher.Trigger(reason)
}

// MatchList returns the user's matches, cached until a new match.
func (s *Session) MatchList(ctx context.Context) ([]models.Match, error) {
	creds, ok := s.API.Credentials()
	if !ok {
		return nil, client.ErrNoCredentials
	}
	return s.Matches.Get(ctx, creds.UserID)
}
