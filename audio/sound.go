package audio

import "time"

// SoundType identifies a sound effect
type SoundType int

const (
	SoundBounce SoundType = iota // Ball hits the ground
	SoundStroke                  // Club hits the ball
	SoundCup                     // Ball comes to rest in the hole
	soundTypeCount
)

func (s SoundType) String() string {
	switch s {
	case SoundBounce:
		return "bounce"
	case SoundStroke:
		return "stroke"
	case SoundCup:
		return "cup"
	default:
		return "unknown"
	}
}

// Sound timing
const (
	bounceDuration = 60 * time.Millisecond
	bounceAttack   = 2 * time.Millisecond
	bounceRelease  = 50 * time.Millisecond

	strokeDuration = 40 * time.Millisecond
	strokeAttack   = time.Millisecond
	strokeRelease  = 30 * time.Millisecond

	cupNote1Duration = 90 * time.Millisecond
	cupNote2Duration = 220 * time.Millisecond
	cupAttack        = 5 * time.Millisecond
	cupNote1Release  = 40 * time.Millisecond
	cupNote2Release  = 180 * time.Millisecond
)

// Bounce pitch; harder impacts start higher and all fall to bounceFloorHz
const (
	bounceSoftHz  = 120.0
	bounceHardHz  = 220.0
	bounceFloorHz = 70.0
)

// Config controls playback
type Config struct {
	Enabled       bool
	MasterVolume  float64 // 0.0-1.0
	SampleRate    int
	EffectVolumes map[SoundType]float64
}

// DefaultConfig returns the standard mix
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		MasterVolume: 0.5,
		SampleRate:   48000,
		EffectVolumes: map[SoundType]float64{
			SoundBounce: 0.8,
			SoundStroke: 0.6,
			SoundCup:    1.0,
		},
	}
}

func (c *Config) effectVolume(st SoundType) float64 {
	v, ok := c.EffectVolumes[st]
	if !ok {
		return 1.0
	}
	return v
}
