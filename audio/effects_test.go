package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// drain reads s to the end and returns every left-channel sample
func drain(s beep.Streamer) []float64 {
	var out []float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			out = append(out, buf[i][0])
		}
		if !ok {
			return out
		}
	}
}

func peak(samples []float64) float64 {
	m := 0.0
	for _, v := range samples {
		m = math.Max(m, math.Abs(v))
	}
	return m
}

// TestOscillatorLength verifies the oscillator stops after its duration
func TestOscillatorLength(t *testing.T) {
	rate := beep.SampleRate(48000)
	samples := drain(NewOscillator(440, 10*time.Millisecond, WaveSine, rate))

	if len(samples) != rate.N(10*time.Millisecond) {
		t.Errorf("Expected %d samples, got %d", rate.N(10*time.Millisecond), len(samples))
	}
}

// TestOscillatorWaveRange verifies every wave stays within [-1, 1]
func TestOscillatorWaveRange(t *testing.T) {
	rate := beep.SampleRate(48000)
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveSaw, WaveNoise} {
		samples := drain(NewOscillator(300, 20*time.Millisecond, wave, rate))
		if p := peak(samples); p > 1.0 {
			t.Errorf("Expected wave %d within [-1, 1], got peak %f", wave, p)
		}
	}
}

// TestSquareWaveValues verifies square samples are exactly +1 or -1
func TestSquareWaveValues(t *testing.T) {
	samples := drain(NewOscillator(1000, 5*time.Millisecond, WaveSquare, beep.SampleRate(48000)))
	for i, v := range samples {
		if v != 1.0 && v != -1.0 {
			t.Fatalf("Expected +/-1 at sample %d, got %f", i, v)
		}
	}
}

// crossings counts sign changes from negative to non-negative
func crossings(samples []float64) int {
	n := 0
	for i := 1; i < len(samples); i++ {
		if samples[i-1] < 0 && samples[i] >= 0 {
			n++
		}
	}
	return n
}

// TestSweepGlidesDown verifies a falling sweep completes more cycles early than late
func TestSweepGlidesDown(t *testing.T) {
	rate := beep.SampleRate(48000)
	samples := drain(NewSweep(800, 100, 200*time.Millisecond, WaveSine, rate))

	if len(samples) != rate.N(200*time.Millisecond) {
		t.Fatalf("Expected %d samples, got %d", rate.N(200*time.Millisecond), len(samples))
	}
	half := len(samples) / 2
	early, late := crossings(samples[:half]), crossings(samples[half:])
	if early <= late*2 {
		t.Errorf("Expected early cycles (%d) well above late cycles (%d)", early, late)
	}
}

// TestSweepEndpoints verifies the glide starts and ends at the requested pitches
func TestSweepEndpoints(t *testing.T) {
	rate := beep.SampleRate(48000)
	tests := []struct {
		name     string
		from, to float64
		mid      float64
	}{
		{"exponential", 200, 50, 100},
		{"linear to zero", 100, 0, 50},
		{"steady", 440, 440, 440},
	}

	for _, tt := range tests {
		tn := NewSweep(tt.from, tt.to, time.Second, WaveSine, rate).(*tone)
		if got := tn.freqAt(0); math.Abs(got-tt.from) > 1e-9 {
			t.Errorf("%s: Expected start %f, got %f", tt.name, tt.from, got)
		}
		if got := tn.freqAt(tn.length - 1); math.Abs(got-tt.to) > 1e-9 {
			t.Errorf("%s: Expected end %f, got %f", tt.name, tt.to, got)
		}
		mid := tn.freqAt((tn.length - 1) / 2)
		if math.Abs(mid-tt.mid) > 0.01 {
			t.Errorf("%s: Expected midpoint near %f, got %f", tt.name, tt.mid, mid)
		}
	}
}

// TestEnvelopeShape verifies silence at the start and fade at the end
func TestEnvelopeShape(t *testing.T) {
	rate := beep.SampleRate(48000)
	osc := NewOscillator(0, 100*time.Millisecond, WaveSquare, rate) // constant +1
	samples := drain(NewEnvelope(osc, 100*time.Millisecond, 10*time.Millisecond, 20*time.Millisecond, rate))

	if samples[0] != 0 {
		t.Errorf("Expected envelope to start at 0, got %f", samples[0])
	}
	mid := len(samples) / 2
	if samples[mid] != 1.0 {
		t.Errorf("Expected sustain at full level, got %f", samples[mid])
	}
	last := samples[len(samples)-1]
	if last <= 0 || last > 0.01 {
		t.Errorf("Expected release to end near 0, got %f", last)
	}
}

// TestNewVolumeSilent verifies zero volume mutes the stream
func TestNewVolumeSilent(t *testing.T) {
	rate := beep.SampleRate(48000)
	samples := drain(newVolume(NewOscillator(0, 5*time.Millisecond, WaveSquare, rate), 0))

	if p := peak(samples); p != 0 {
		t.Errorf("Expected silence, got peak %f", p)
	}
}

// TestNewVolumeHalf verifies linear gain
func TestNewVolumeHalf(t *testing.T) {
	rate := beep.SampleRate(48000)
	samples := drain(newVolume(NewOscillator(0, 5*time.Millisecond, WaveSquare, rate), 0.5))

	if p := peak(samples); math.Abs(p-0.5) > 1e-9 {
		t.Errorf("Expected peak 0.5, got %f", p)
	}
}

// TestBounceIntensity verifies harder impacts are louder and intensity is clamped
func TestBounceIntensity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EffectVolumes[SoundBounce] = 1.0
	cfg.MasterVolume = 1.0

	soft := peak(drain(CreateBounceSound(cfg, 0.2)))
	hard := peak(drain(CreateBounceSound(cfg, 1.0)))
	over := peak(drain(CreateBounceSound(cfg, 5.0)))
	none := peak(drain(CreateBounceSound(cfg, -1)))

	if soft >= hard {
		t.Errorf("Expected soft bounce (%f) quieter than hard (%f)", soft, hard)
	}
	if over > 1.0 {
		t.Errorf("Expected clamped intensity to stay within [-1, 1], got %f", over)
	}
	if none != 0 {
		t.Errorf("Expected negative intensity to be silent, got %f", none)
	}
}

// TestCupSoundLength verifies the chime plays both notes
func TestCupSoundLength(t *testing.T) {
	cfg := DefaultConfig()
	rate := beep.SampleRate(cfg.SampleRate)
	samples := drain(CreateCupSound(cfg))

	want := rate.N(cupNote1Duration) + rate.N(cupNote2Duration)
	if len(samples) != want {
		t.Errorf("Expected %d samples, got %d", want, len(samples))
	}
}

// TestSoundEffectDispatch verifies known types produce streamers
func TestSoundEffectDispatch(t *testing.T) {
	cfg := DefaultConfig()
	for st := SoundBounce; st < soundTypeCount; st++ {
		if SoundEffect(st, cfg) == nil {
			t.Errorf("Expected streamer for %s", st)
		}
	}
	if SoundEffect(soundTypeCount, cfg) != nil {
		t.Error("Expected nil for unknown sound type")
	}
}
