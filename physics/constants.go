package physics

// Simulation space bounds, canvas-like 1000x500 units
const (
	XMin = 0.0
	XMax = 1000.0
	YMin = 0.0
	// YMax is the top of the playfield; stepping never consults it, balls may fly above
	YMax = 500.0
)

// Per-tick constants, applied once per Step regardless of dt
const (
	// Damping scales both velocity components every tick
	Damping = 0.99
	// Gravity is subtracted from vertical velocity every tick, after damping
	Gravity = 0.05
	// Restitution scales rebound velocity on a floor bounce
	Restitution = 0.7
)

// Projection parameters
const (
	// ProjectionTick is the dt fed to Step while projecting, in milliseconds
	ProjectionTick = 10.0
	// MaxProjectionTicks bounds a single projection
	MaxProjectionTicks = 1000
	// RestHeight and RestSpeedSq define a ball stuck on the ground
	RestHeight  = 1.0
	RestSpeedSq = 1.0
)
