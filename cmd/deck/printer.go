package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"vibin_discovery/models"
	"vibin_discovery/utils"
)

// printer serializes terminal output; session events print from their own goroutine.
type printer struct {
	mu        sync.Mutex
	out       io.Writer
	useColors bool
	now       func() time.Time
}

func newPrinter(out io.Writer, useColors bool) *printer {
	return &printer{out: out, useColors: useColors, now: time.Now}
}

func (p *printer) write(c *color.Color, format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.useColors && c != nil {
		c.Fprintf(p.out, format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) Print(format string, args ...interface{}) {
	p.write(nil, format, args...)
}

func (p *printer) Info(format string, args ...interface{}) {
	p.write(color.New(color.FgCyan), format, args...)
}

func (p *printer) Success(format string, args ...interface{}) {
	if !p.useColors {
		format = "[OK] " + format
	}
	p.write(color.New(color.FgGreen), format, args...)
}

func (p *printer) Warning(format string, args ...interface{}) {
	if !p.useColors {
		format = "[WARN] " + format
	}
	p.write(color.New(color.FgYellow), format, args...)
}

func (p *printer) Error(format string, args ...interface{}) {
	if !p.useColors {
		format = "[ERROR] " + format
	}
	p.write(color.New(color.FgRed), format, args...)
}

// Card prints the candidate on top of the deck.
func (p *printer) Card(c models.Candidate, remaining int) {
	var b strings.Builder
	b.WriteString(c.Name)
	if age, ok := utils.AgeOn(c.BirthDate, p.now()); ok {
		fmt.Fprintf(&b, ", %d", age)
	}
	if place := joinNonEmpty(", ", c.City, c.Country); place != "" {
		fmt.Fprintf(&b, " (%s)", place)
	}
	if c.IsGuardian() {
		fmt.Fprintf(&b, " [guardian for %s]", c.MotherFor)
	}
	if c.SuperLiker {
		b.WriteString(" *super liked you*")
	}
	p.write(color.New(color.FgWhite, color.Bold), "%s", b.String())
	if details := joinNonEmpty(" | ", c.Profession, c.Education); details != "" {
		p.Print("  %s", details)
	}
	p.write(color.New(color.Faint), "  %d photos, %d more in deck", len(c.Photos), remaining)
}

// Match prints the match banner.
func (p *printer) Match(m models.Match) {
	name := "someone"
	if m.Peer != nil && m.Peer.Name != "" {
		name = m.Peer.Name
	}
	p.write(color.New(color.FgMagenta, color.Bold), "*** It's a match with %s! ***", name)
}

// Matches prints the match list.
func (p *printer) Matches(list []models.Match, self string) {
	if len(list) == 0 {
		p.Info("no matches yet")
		return
	}
	for _, m := range list {
		peer := ""
		for _, u := range m.Users {
			if u != self {
				peer = u
			}
		}
		if m.Peer != nil && m.Peer.Name != "" {
			peer = m.Peer.Name
		}
		p.Print("- %s (since %s)", peer, m.CreatedAt)
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, s := range parts {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, sep)
}
