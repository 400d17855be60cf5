package physics

import "math"

// Ball is the value stepped by the simulation
// Velocity is owned by the stepping logic; callers read it through Velocity and
// replace it only by building a new value
type Ball struct {
	X, Y float64
	// Ts accumulates dt across in-bounds ticks
	Ts float64

	dx, dy float64
}

// NewBall builds a ball from position, velocity and timestamp
func NewBall(x, y, dx, dy, ts float64) Ball {
	return Ball{X: x, Y: y, Ts: ts, dx: dx, dy: dy}
}

// Velocity returns the per-tick velocity components
func (b Ball) Velocity() (dx, dy float64) {
	return b.dx, b.dy
}

// WithVelocity returns a copy of b moving at (dx, dy)
func (b Ball) WithVelocity(dx, dy float64) Ball {
	b.dx, b.dy = dx, dy
	return b
}

// SpeedSq returns the squared velocity magnitude
func (b Ball) SpeedSq() float64 {
	return b.dx*b.dx + b.dy*b.dy
}

// State is the stepper's view of a ball
type State uint8

const (
	// StateInBounds balls receive a full physics tick
	StateInBounds State = iota
	// StateOutOfBounds balls are clamped back onto the horizontal bound
	StateOutOfBounds
)

func (s State) String() string {
	switch s {
	case StateInBounds:
		return "in-bounds"
	case StateOutOfBounds:
		return "out-of-bounds"
	default:
		return "unknown"
	}
}

// Classify reports which branch Step takes for b
// The test is strict: a ball sitting exactly on XMin or XMax is in bounds
func Classify(b Ball) State {
	if b.X < XMin || b.X > XMax {
		return StateOutOfBounds
	}
	return StateInBounds
}

// Step advances b by one tick and returns the new value
// dt only feeds the Ts accumulator; velocity and position use fixed per-tick constants
func Step(b Ball, dt float64) Ball {
	if Classify(b) == StateOutOfBounds {
		b.X = math.Min(XMax, math.Max(XMin, b.X))
		return b
	}

	ts := b.Ts + dt
	dx := Damping * b.dx
	dy := Damping*b.dy - Gravity
	x := b.X + dx
	y := b.Y + dy

	// Bounce: mirror across the floor, reverse and dampen vertical velocity
	if y < YMin {
		y = YMin + (YMin - y)
		dy = -dy * Restitution
	}

	return Ball{X: x, Y: y, Ts: ts, dx: dx, dy: dy}
}

// Bounced reports whether Step(prev, dt) hit the floor to produce next
// Without a bounce the new vertical velocity is Damping*dy-Gravity; a bounce flips its sign
func Bounced(prev, next Ball) bool {
	if Classify(prev) == StateOutOfBounds {
		return false
	}
	return Damping*prev.dy-Gravity < 0 && next.dy > 0
}
