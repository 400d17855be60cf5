package golf

import (
	"math/rand"
	"time"

	"github.com/lixenwraith/bouncegolf/physics"
)

// Hole placement keeps the cup in the far half of the course, off the wall
const (
	holeMinX   = 400.0
	holeMargin = 50.0
)

// GenerateLevel builds a level starting at started with a randomly placed hole
func GenerateLevel(rng *rand.Rand, started time.Time, holeWidth float64) Level {
	span := physics.XMax - holeMargin - holeWidth - holeMinX
	x1 := holeMinX + rng.Float64()*span
	hole := Hole{X1: x1, X2: x1 + holeWidth}
	domain, elevation := generateTerrain(rng, hole)
	return Level{
		Started:   started,
		Hole:      hole,
		Domain:    domain,
		Elevation: elevation,
	}
}

// CanAdvance reports whether a new level may replace level: the round ran
// longer than roundLength or some ball already finished
func CanAdvance(now time.Time, balls []Ball, level Level, roundLength time.Duration) bool {
	if now.Sub(level.Started) > roundLength {
		return true
	}
	for _, b := range balls {
		if b.Finished {
			return true
		}
	}
	return false
}
