package physics

import "math"

// Outcome tells why a projection stopped
type Outcome uint8

const (
	// OutcomePresent means the projection caught up with the requested time
	OutcomePresent Outcome = iota
	// OutcomeFuture means the ball's timestamp is already past the requested time
	OutcomeFuture
	// OutcomeResting means the ball came to rest on the ground
	OutcomeResting
	// OutcomeOutOfBounds means the ball left the course; the starting ball is returned
	OutcomeOutOfBounds
	// OutcomeExhausted means MaxProjectionTicks ran out first
	OutcomeExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomePresent:
		return "present"
	case OutcomeFuture:
		return "future"
	case OutcomeResting:
		return "resting"
	case OutcomeOutOfBounds:
		return "out-of-bounds"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Projection is the result of simulating a ball forward in time
type Projection struct {
	Ball    Ball
	Outcome Outcome
	Ticks   int
}

// Resting reports whether the projected ball is stuck on the ground
func (p Projection) Resting() bool {
	return p.Outcome == OutcomeResting
}

// Project steps b in ProjectionTick increments until its timestamp passes now,
// it comes to rest, it leaves the course, or MaxProjectionTicks are spent
// Timestamps are milliseconds; now may be +Inf to find where the ball stops
func Project(b Ball, now float64) Projection {
	if b.Ts > now {
		return Projection{Ball: b, Outcome: OutcomeFuture}
	}

	cur := b
	for i := 1; i <= MaxProjectionTicks; i++ {
		cur = Step(cur, ProjectionTick)

		if cur.X < XMin || cur.X > XMax {
			return Projection{Ball: b, Outcome: OutcomeOutOfBounds, Ticks: i}
		}

		// Magnitude check is on the stepped ball, after any bounce
		if cur.Y < RestHeight && cur.SpeedSq() < RestSpeedSq {
			return Projection{Ball: cur, Outcome: OutcomeResting, Ticks: i}
		}

		if cur.Ts > now {
			return Projection{Ball: cur, Outcome: OutcomePresent, Ticks: i}
		}
	}
	return Projection{Ball: cur, Outcome: OutcomeExhausted, Ticks: MaxProjectionTicks}
}

// Eventual projects b until it stops, regardless of wall-clock time
func Eventual(b Ball) Projection {
	return Project(b, math.Inf(1))
}
