package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DegreesToVector converts a stroke angle into a unit direction
// 0 degrees points straight up, 90 degrees points along +X
func DegreesToVector(deg float64) mgl64.Vec2 {
	rad := deg * 2 * math.Pi / 360
	return mgl64.Vec2{math.Sin(rad), math.Cos(rad)}
}

// Launch returns b moving along angle deg with the given strength
func Launch(b Ball, deg, strength float64) Ball {
	v := DegreesToVector(deg).Mul(strength)
	return b.WithVelocity(v.X(), v.Y())
}
