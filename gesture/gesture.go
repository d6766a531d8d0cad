// Package gesture turns a released drag into a swipe decision.
package gesture

import "sync/atomic"

// Direction is the outcome of a released drag.
type Direction int

const (
	None  Direction = iota // snap back to center
	Left                   // pass
	Right                  // like
	Up                     // super like
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	default:
		return "none"
	}
}

// Gesture is a released drag in screen coordinates: positive DX is to the
// right and negative DY is upward. Velocities are in points per second.
type Gesture struct {
	DX, DY float64
	VX, VY float64
}

// Thresholds decide when a drag commits. A distance beyond Distance commits on
// its own; a distance beyond AssistDistance commits when the release velocity
// in the same direction exceeds Velocity.
type Thresholds struct {
	Horizontal Axis
	Up         Axis
}

// Axis holds the thresholds of one swipe axis.
type Axis struct {
	Distance       float64
	AssistDistance float64
	Velocity       float64
}

// DefaultThresholds are tuned for a phone sized card.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Horizontal: Axis{Distance: 120, AssistDistance: 50, Velocity: 800},
		Up:         Axis{Distance: 150, AssistDistance: 70, Velocity: 900},
	}
}

func (a Axis) commits(distance, velocity float64) bool {
	return distance > a.Distance || (distance > a.AssistDistance && velocity > a.Velocity)
}

// Classify picks the swipe direction. Up is checked first, then right, then left.
func Classify(g Gesture, t Thresholds) Direction {
	switch {
	case t.Up.commits(-g.DY, -g.VY):
		return Up
	case t.Horizontal.commits(g.DX, g.VX):
		return Right
	case t.Horizontal.commits(-g.DX, -g.VX):
		return Left
	default:
		return None
	}
}

// Lock is held while a swipe or undo is in flight.
type Lock struct {
	held atomic.Bool
}

// TryAcquire takes the lock if it is free.
func (l *Lock) TryAcquire() bool {
	return l.held.CompareAndSwap(false, true)
}

func (l *Lock) Release() {
	l.held.Store(false)
}

func (l *Lock) Locked() bool {
	return l.held.Load()
}

// Controller classifies gestures unless a swipe is in flight.
type Controller struct {
	Thresholds Thresholds
	Lock       *Lock
}

// NewController returns a controller with the default thresholds.
func NewController(lock *Lock) *Controller {
	return &Controller{Thresholds: DefaultThresholds(), Lock: lock}
}

// Handle classifies g. It returns false when the gesture is suppressed
// because the lock is held.
func (c *Controller) Handle(g Gesture) (Direction, bool) {
	if c.Lock.Locked() {
		return None, false
	}
	return Classify(g, c.Thresholds), true
}
