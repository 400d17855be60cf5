package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// tone is a fixed-length wave whose pitch glides from one frequency to another
type tone struct {
	wave     WaveType
	from, to float64
	phase    float64
	position int
	length   int
	rate     beep.SampleRate
}

// NewOscillator creates a steady wave streamer that ends after duration
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, freq, duration, wave, rate)
}

// NewSweep creates a wave streamer gliding from one frequency to another over duration
// The glide is exponential when both ends are positive, linear otherwise
func NewSweep(from, to float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &tone{
		wave:   wave,
		from:   from,
		to:     to,
		length: rate.N(duration),
		rate:   rate,
	}
}

func (t *tone) freqAt(pos int) float64 {
	if t.from == t.to || t.length < 2 {
		return t.from
	}
	frac := float64(pos) / float64(t.length-1)
	if t.from > 0 && t.to > 0 {
		return t.from * math.Pow(t.to/t.from, frac)
	}
	return t.from + (t.to-t.from)*frac
}

// waveSample evaluates one period of w at phase in [0, 1)
func waveSample(w WaveType, phase float64) float64 {
	switch w {
	case WaveSine:
		return math.Sin(2 * math.Pi * phase)
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveSaw:
		return 2 * (phase - 0.5)
	case WaveNoise:
		return rand.Float64()*2 - 1
	}
	return 0
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	n = min(len(samples), t.length-t.position)
	for i := 0; i < n; i++ {
		v := waveSample(t.wave, t.phase)
		samples[i] = [2]float64{v, v}

		t.phase += t.freqAt(t.position) / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return n, n > 0
}

func (t *tone) Err() error { return nil }

// envelope applies linear attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope shapes s with a linear attack and release over duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	releaseStart := e.totalSamples - e.releaseSamples
	if releaseStart < e.attackSamples {
		releaseStart = e.attackSamples
	}

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		} else if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = math.Max(0, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s with a linear gain; zero or less is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// CreateBounceSound generates a falling thock scaled by impact intensity (0-1)
// Intensity sets both loudness and the starting pitch of the glide
func CreateBounceSound(cfg *Config, intensity float64) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	intensity = math.Max(0, math.Min(1, intensity))

	startHz := bounceSoftHz + (bounceHardHz-bounceSoftHz)*intensity
	body := NewEnvelope(NewSweep(startHz, bounceFloorHz, bounceDuration, WaveSine, rate), bounceDuration, bounceAttack, bounceRelease, rate)
	click := NewEnvelope(NewOscillator(0, bounceDuration, WaveNoise, rate), bounceDuration, bounceAttack, bounceRelease/4, rate)

	mixed := beep.Mix(
		newVolume(body, 0.8),
		newVolume(click, 0.2),
	)

	vol := cfg.effectVolume(SoundBounce) * cfg.MasterVolume * intensity
	return newVolume(mixed, vol)
}

// CreateStrokeSound generates a short bright tick for a club hit
func CreateStrokeSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	osc := NewOscillator(1200.0, strokeDuration, WaveSaw, rate)
	shaped := NewEnvelope(osc, strokeDuration, strokeAttack, strokeRelease, rate)

	vol := cfg.effectVolume(SoundStroke) * cfg.MasterVolume
	return newVolume(shaped, vol)
}

// CreateCupSound generates a rising two-note chime
func CreateCupSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	// G5 then C6
	n1 := NewEnvelope(NewOscillator(783.99, cupNote1Duration, WaveSine, rate), cupNote1Duration, cupAttack, cupNote1Release, rate)
	n2 := NewEnvelope(NewOscillator(1046.50, cupNote2Duration, WaveSine, rate), cupNote2Duration, cupAttack, cupNote2Release, rate)

	vol := cfg.effectVolume(SoundCup) * cfg.MasterVolume
	return newVolume(beep.Seq(n1, n2), vol)
}

// SoundEffect returns the streamer for st at full intensity, or nil for an unknown type
func SoundEffect(st SoundType, cfg *Config) beep.Streamer {
	switch st {
	case SoundBounce:
		return CreateBounceSound(cfg, 1.0)
	case SoundStroke:
		return CreateStrokeSound(cfg)
	case SoundCup:
		return CreateCupSound(cfg)
	default:
		return nil
	}
}
