package golf

import (
	"time"

	"github.com/lixenwraith/bouncegolf/physics"
)

type BallID uint64

type LevelID uint64

// Hole is the horizontal span a resting ball must land in
type Hole struct {
	X1 float64 `json:"x1"`
	X2 float64 `json:"x2"`
}

// Contains reports whether x lies within the hole, edges included
func (h Hole) Contains(x float64) bool {
	return x >= h.X1 && x <= h.X2
}

// Level is one round of play
// Domain and Elevation are parallel: the ground passes through (Domain[i], Elevation[i])
type Level struct {
	ID        LevelID   `json:"id"`
	Started   time.Time `json:"started"`
	Hole      Hole      `json:"hole"`
	Domain    []float64 `json:"domain"`
	Elevation []float64 `json:"elevation"`
}

// Ball is the stored state of a player's ball
// Position and velocity describe the ball at Ts, the time of its last stroke or settle
type Ball struct {
	ID       BallID  `json:"id"`
	Level    LevelID `json:"level"`
	Name     string  `json:"name,omitempty"`
	Color    string  `json:"color"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	DX       float64 `json:"dx"`
	DY       float64 `json:"dy"`
	Ts       float64 `json:"ts"`
	Strokes  int     `json:"strokes"`
	Updates  int     `json:"updates"`
	Finished bool    `json:"finished"`
	Grounded bool    `json:"grounded"`
	CPU      bool    `json:"cpu,omitempty"`
}

// Physics returns the simulation value for b
func (b Ball) Physics() physics.Ball {
	return physics.NewBall(b.X, b.Y, b.DX, b.DY, b.Ts)
}

func (b *Ball) place(p physics.Ball) {
	b.X, b.Y, b.Ts = p.X, p.Y, p.Ts
	b.DX, b.DY = p.Velocity()
}

// Millis converts a wall-clock time into a ball timestamp
func Millis(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// FromMillis converts a ball timestamp back into wall-clock time
func FromMillis(ms float64) time.Time {
	return time.UnixMilli(int64(ms))
}
