package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"vibin_discovery/client"
	"vibin_discovery/discovery"
	"vibin_discovery/gesture"
	"vibin_discovery/models"
	"vibin_discovery/swipe"
)

const helpText = `commands:
  l | r | u              swipe left, right or super like
  drag DX DY [VX VY]     release a drag gesture
  undo                   revert the last swipe
  fg                     refresh as if the app came to the foreground
  filter key=value ...   update filters (age_min, age_max, distance, religiosity,
                         sect, education, marital_status, smoking, children,
                         relocate, origin)
  matches                list matches
  show                   print the current card
  quit`

var errQuit = errors.New("quit")

type repl struct {
	sess  *discovery.Session
	p     *printer
	prefs models.Preferences
	log   *zap.Logger
}

// run reads commands from in until EOF, quit or ctx is done.
func (r *repl) run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
	}()

	r.p.Print("%s", helpText)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := r.exec(ctx, line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				r.p.Error("%v", err)
			}
		}
	}
}

// exec runs one command line.
func (r *repl) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	switch cmd, args := fields[0], fields[1:]; cmd {
	case "l", "left":
		return r.swipe(ctx, gesture.Left)
	case "r", "right":
		return r.swipe(ctx, gesture.Right)
	case "u", "up", "super":
		return r.swipe(ctx, gesture.Up)
	case "drag":
		g, err := parseGesture(args)
		if err != nil {
			return err
		}
		rec, err := r.sess.Drag(ctx, g)
		if errors.Is(err, swipe.ErrNoDirection) {
			r.p.Info("snapped back")
			return nil
		}
		return r.swiped(rec, err)
	case "undo":
		restored, err := r.sess.Undo(ctx)
		if err != nil {
			return err
		}
		r.p.Success("brought back %s", restored.Candidate.Name)
		r.show()
	case "fg":
		r.sess.Foreground()
	case "filter":
		prefs, err := applyFilters(r.prefs, args)
		if err != nil {
			return err
		}
		saved, err := r.sess.SetFilters(ctx, prefs)
		if err != nil {
			return err
		}
		r.prefs = *saved
		r.p.Success("filters saved, reloading")
	case "matches":
		list, err := r.sess.MatchList(ctx)
		if err != nil {
			return err
		}
		creds, _ := r.sess.API.Credentials()
		r.p.Matches(list, creds.UserID)
	case "show":
		r.show()
	case "help", "?":
		r.p.Print("%s", helpText)
	case "quit", "q", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
	return nil
}

func (r *repl) swipe(ctx context.Context, dir gesture.Direction) error {
	rec, err := r.sess.Swipe(ctx, dir)
	return r.swiped(rec, err)
}

func (r *repl) swiped(rec *swipe.Record, err error) error {
	switch {
	case errors.Is(err, swipe.ErrDeckEmpty):
		r.p.Info("no more candidates right now")
		return nil
	case err != nil:
		return err
	}
	r.log.Debug("swiped", zap.String("candidate", rec.Candidate.ID), zap.Stringer("direction", rec.Direction))
	r.show()
	return nil
}

func (r *repl) show() {
	c, ok := r.sess.Current()
	if !ok {
		r.p.Info("deck is empty, waiting for more candidates")
		return
	}
	r.p.Card(c, r.sess.Deck.Remaining()-1)
}

// watch prints session events until ctx is done.
func (r *repl) watch(ctx context.Context) {
	shown := false
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-r.sess.Events():
			switch e.Kind {
			case discovery.EventMatch:
				r.p.Match(*e.Match)
			case discovery.EventSkipped:
				r.p.Warning("%s is no longer available", e.Candidate.Name)
			case discovery.EventLogout:
				r.p.Error("session expired, request a new token")
			case discovery.EventDeckChanged:
				if !shown {
					shown = true
					r.show()
				}
			}
		}
	}
}

func parseGesture(args []string) (gesture.Gesture, error) {
	if len(args) != 2 && len(args) != 4 {
		return gesture.Gesture{}, fmt.Errorf("drag wants DX DY [VX VY]")
	}
	vals := make([]float64, 4)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return gesture.Gesture{}, fmt.Errorf("drag: %q is not a number", a)
		}
		vals[i] = v
	}
	return gesture.Gesture{DX: vals[0], DY: vals[1], VX: vals[2], VY: vals[3]}, nil
}

// applyFilters returns prefs updated with key=value pairs. An empty value clears the filter.
func applyFilters(prefs models.Preferences, args []string) (models.Preferences, error) {
	if len(args) == 0 {
		return prefs, fmt.Errorf("filter wants key=value pairs")
	}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return prefs, fmt.Errorf("filter: %q is not key=value", arg)
		}
		switch key {
		case "age_min", "age_max", "distance":
			n := 0
			if value != "" {
				var err error
				if n, err = strconv.Atoi(value); err != nil {
					return prefs, fmt.Errorf("filter: %s must be a number", key)
				}
			}
			switch key {
			case "age_min":
				prefs.AgeMin = n
			case "age_max":
				prefs.AgeMax = n
			default:
				prefs.MaxDistanceKm = n
			}
		case "religiosity":
			prefs.Religiosity = value
		case "sect":
			prefs.Sect = value
		case "education":
			prefs.Education = value
		case "marital_status":
			prefs.MaritalStatus = value
		case "smoking":
			prefs.Smoking = value
		case "children":
			prefs.WantsChildren = value
		case "relocate":
			prefs.WillingToRelocate = value
		case "origin":
			prefs.Origin = value
		default:
			return prefs, fmt.Errorf("filter: unknown key %q", key)
		}
	}
	return prefs, nil
}

// login installs the configured token, asking a dev mode server for one when
// only a user id is configured.
func login(ctx context.Context, c *client.Client, sess *discovery.Session, cfg loginConfig) error {
	creds := client.Credentials{Token: cfg.Token, UserID: cfg.UserID}
	if creds.Token == "" {
		if creds.UserID == "" {
			return errNoUser
		}
		var err error
		if creds, err = c.RequestToken(ctx, creds.UserID); err != nil {
			return fmt.Errorf("requesting token: %w", err)
		}
	}
	sess.Login(creds)
	return nil
}

type loginConfig struct {
	Token  string
	UserID string
}
