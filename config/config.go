// Package config loads bouncegolf settings from a TOML file and the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Environment overrides, applied after the file
const (
	EnvAddr         = "BOUNCEGOLF_ADDR"
	EnvDebug        = "BOUNCEGOLF_DEBUG"
	EnvSentryDSN    = "BOUNCEGOLF_SENTRY_DSN"
	EnvStatsAddr    = "BOUNCEGOLF_STATS_ADDR"
	EnvAudioEnabled = "BOUNCEGOLF_AUDIO_ENABLED"
	EnvMasterVolume = "BOUNCEGOLF_MASTER_VOLUME"
)

// Config holds every tunable of the server and the sandbox
type Config struct {
	Server Server `toml:"server"`
	Game   Game   `toml:"game"`
	Log    Log    `toml:"log"`
	Sentry Sentry `toml:"sentry"`
	Stats  Stats  `toml:"stats"`
	Audio  Audio  `toml:"audio"`
}

type Server struct {
	Addr         string `toml:"addr"`
	ReadTimeout  string `toml:"read_timeout"`
	WriteTimeout string `toml:"write_timeout"`
}

// Game tunes rounds and CPU players; durations use time.ParseDuration syntax
type Game struct {
	RoundLength  string  `toml:"round_length"`
	MaxBalls     int     `toml:"max_balls"`
	CPUInterval  string  `toml:"cpu_interval"`
	CPUFirstMove string  `toml:"cpu_first_move"`
	HoleWidth    float64 `toml:"hole_width"`
}

type Log struct {
	Debug bool   `toml:"debug"`
	Dir   string `toml:"dir"`
	// MaxSize is the size in bytes above which the log file is rotated on startup
	MaxSize int64 `toml:"max_size"`
}

type Sentry struct {
	DSN         string `toml:"dsn"`
	Environment string `toml:"environment"`
}

type Stats struct {
	// Addr enables the runtime stats viewer when set
	Addr string `toml:"addr"`
}

type Audio struct {
	Enabled      bool    `toml:"enabled"`
	MasterVolume float64 `toml:"master_volume"`
	SampleRate   int     `toml:"sample_rate"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  "5s",
			WriteTimeout: "10s",
		},
		Game: Game{
			RoundLength:  "20s",
			MaxBalls:     4,
			CPUInterval:  "60s",
			CPUFirstMove: "7s",
			HoleWidth:    30,
		},
		Log: Log{
			Dir:     "logs",
			MaxSize: 10 * 1024 * 1024,
		},
		Sentry: Sentry{
			Environment: "development",
		},
		Audio: Audio{
			Enabled:      true,
			MasterVolume: 0.5,
			SampleRate:   48000,
		},
	}
}

// Load reads path (when not empty) over the defaults, then applies environment overrides
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading config %s", path)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "decoding config %s", path)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveDefault writes the default configuration to path; it refuses to overwrite an existing file
func SaveDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Errorf("config file %s already exists", path)
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "checking config %s", path)
	}

	data, err := toml.Marshal(*Default())
	if err != nil {
		return errors.Wrap(err, "encoding default config")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "writing config %s", path)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if addr := os.Getenv(EnvAddr); addr != "" {
		cfg.Server.Addr = addr
	}
	if debug := os.Getenv(EnvDebug); debug != "" {
		if val, err := strconv.ParseBool(debug); err == nil {
			cfg.Log.Debug = val
		}
	}
	if dsn := os.Getenv(EnvSentryDSN); dsn != "" {
		cfg.Sentry.DSN = dsn
	}
	if addr := os.Getenv(EnvStatsAddr); addr != "" {
		cfg.Stats.Addr = addr
	}
	if enabled := os.Getenv(EnvAudioEnabled); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Audio.Enabled = val
		}
	}
	// Volume is given as 0-100
	if volume := os.Getenv(EnvMasterVolume); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.Audio.MasterVolume = clamp01(float64(val) / 100.0)
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Validate checks durations and ranges
func (c *Config) Validate() error {
	durations := []struct {
		name, value string
	}{
		{"server.read_timeout", c.Server.ReadTimeout},
		{"server.write_timeout", c.Server.WriteTimeout},
		{"game.round_length", c.Game.RoundLength},
		{"game.cpu_interval", c.Game.CPUInterval},
		{"game.cpu_first_move", c.Game.CPUFirstMove},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", d.name)
		}
		if v <= 0 {
			return errors.Errorf("invalid %s: must be positive, got %s", d.name, d.value)
		}
	}
	if c.Game.MaxBalls < 1 {
		return errors.Errorf("invalid game.max_balls: %d", c.Game.MaxBalls)
	}
	if c.Game.HoleWidth <= 0 {
		return errors.Errorf("invalid game.hole_width: %v", c.Game.HoleWidth)
	}
	if c.Audio.SampleRate <= 0 {
		return errors.Errorf("invalid audio.sample_rate: %d", c.Audio.SampleRate)
	}
	c.Audio.MasterVolume = clamp01(c.Audio.MasterVolume)
	return nil
}

// Duration parses a validated duration field, falling back to zero
func Duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
