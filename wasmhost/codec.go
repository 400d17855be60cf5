package wasmhost

import (
	"math"

	"github.com/lixenwraith/bouncegolf/physics"
)

// Field names of a ball object on the host side
const (
	FieldX  = "x"
	FieldY  = "y"
	FieldDX = "dx"
	FieldDY = "dy"
	FieldTs = "ts"
)

// ExportNames lists the globals installed by Register
var ExportNames = []string{"add", "step", "currentPosition", "degreesToVector"}

// FieldReader reads one numeric field of a host object
// Missing or non-numeric fields read as NaN, matching host arithmetic
type FieldReader func(name string) float64

// DecodeBall builds a ball from host object fields
func DecodeBall(get FieldReader) physics.Ball {
	return physics.NewBall(get(FieldX), get(FieldY), get(FieldDX), get(FieldDY), get(FieldTs))
}

// EncodeBall returns the numeric fields of b keyed by host field name
func EncodeBall(b physics.Ball) map[string]any {
	dx, dy := b.Velocity()
	return map[string]any{
		FieldX:  b.X,
		FieldY:  b.Y,
		FieldDX: dx,
		FieldDY: dy,
		FieldTs: b.Ts,
	}
}

// EncodeProjection adds the projection outcome to the encoded ball
func EncodeProjection(p physics.Projection) map[string]any {
	m := EncodeBall(p.Ball)
	m["outcome"] = p.Outcome.String()
	m["isStuckOnGround"] = p.Resting()
	return m
}

// MapReader adapts a decoded JSON-like object to a FieldReader
func MapReader(m map[string]any) FieldReader {
	return func(name string) float64 {
		switch v := m[name].(type) {
		case float64:
			return v
		case int:
			return float64(v)
		default:
			return math.NaN()
		}
	}
}

// StepObject runs one tick over a host object and returns the updated fields
// Fields other than the ball's numeric ones are left for the caller to copy through
func StepObject(get FieldReader, dt float64) map[string]any {
	return EncodeBall(physics.Step(DecodeBall(get), dt))
}

// ProjectObject projects a host object forward to now
func ProjectObject(get FieldReader, now float64) map[string]any {
	return EncodeProjection(physics.Project(DecodeBall(get), now))
}
