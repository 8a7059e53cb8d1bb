package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/algoviz/internal/engine"
	"github.com/san-kum/algoviz/internal/sorts"
	"github.com/san-kum/algoviz/internal/trace"
)

const (
	DefaultAddr           = ":3001"
	DefaultBackend        = "http://localhost:3001"
	DefaultSpeedMs        = 50
	MinSpeedMs            = 10
	MaxSpeedMs            = 200
	DefaultSwapMultiplier = 2.0
	DefaultFlashMs        = 500
	DefaultArraySize      = 30
	MinArraySize          = 5
	DefaultMinValue       = 5
	DefaultMaxValue       = 104
	DefaultDataDir        = "data"
)

type Config struct {
	Algorithm string         `yaml:"algorithm"`
	Compare   string         `yaml:"compare"`
	Theme     string         `yaml:"theme"`
	DataDir   string         `yaml:"data_dir"`
	Server    ServerConfig   `yaml:"server"`
	Playback  PlaybackConfig `yaml:"playback"`
	Array     ArrayConfig    `yaml:"array"`
}

type ServerConfig struct {
	Addr           string `yaml:"addr"`
	AllowOrigin    string `yaml:"allow_origin"`
	MaxArrayLength int    `yaml:"max_array_length"`
	Record         bool   `yaml:"record"`
	// Backend is the URL the player uses in remote mode.
	Backend string `yaml:"backend"`
}

type PlaybackConfig struct {
	SpeedMs        int     `yaml:"speed_ms"`
	MaxFrames      int     `yaml:"max_frames"`
	SwapMultiplier float64 `yaml:"swap_multiplier"`
	FlashMs        int     `yaml:"flash_ms"`
}

type ArrayConfig struct {
	Preset string `yaml:"preset"`
	Size   int    `yaml:"size"`
	Min    int    `yaml:"min"`
	Max    int    `yaml:"max"`
	Seed   int64  `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Algorithm: string(sorts.Bubble),
		Compare:   string(sorts.Merge),
		Theme:     "default",
		DataDir:   DefaultDataDir,
		Server: ServerConfig{
			Addr:           DefaultAddr,
			MaxArrayLength: sorts.DefaultMaxArrayLength,
			Backend:        DefaultBackend,
		},
		Playback: PlaybackConfig{
			SpeedMs:        DefaultSpeedMs,
			MaxFrames:      trace.DefaultMaxFrames,
			SwapMultiplier: DefaultSwapMultiplier,
			FlashMs:        DefaultFlashMs,
		},
		Array: ArrayConfig{
			Preset: "random",
			Size:   DefaultArraySize,
			Min:    DefaultMinValue,
			Max:    DefaultMaxValue,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Clamp()
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clamp pulls out-of-range values back into their supported ranges.
func (c *Config) Clamp() {
	c.Playback.SpeedMs = clampInt(c.Playback.SpeedMs, MinSpeedMs, MaxSpeedMs)
	if c.Playback.MaxFrames <= 0 {
		c.Playback.MaxFrames = trace.DefaultMaxFrames
	}
	if c.Playback.SwapMultiplier < 0 {
		c.Playback.SwapMultiplier = 0
	}
	if c.Playback.FlashMs < 0 {
		c.Playback.FlashMs = 0
	}
	if c.Server.MaxArrayLength <= 0 {
		c.Server.MaxArrayLength = sorts.DefaultMaxArrayLength
	}
	c.Array.Size = clampInt(c.Array.Size, MinArraySize, c.Server.MaxArrayLength)
	if c.Array.Max < c.Array.Min {
		c.Array.Min, c.Array.Max = c.Array.Max, c.Array.Min
	}
}

func (c *Config) AlgorithmKind() (sorts.Kind, error) {
	return sorts.ParseKind(c.Algorithm)
}

func (c *Config) CompareKind() (sorts.Kind, error) {
	return sorts.ParseKind(c.Compare)
}

// EngineOptions maps the playback section onto engine options.
func (c *Config) EngineOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.Speed = time.Duration(c.Playback.SpeedMs) * time.Millisecond
	opts.MinSpeed = MinSpeedMs * time.Millisecond
	opts.MaxSpeed = MaxSpeedMs * time.Millisecond
	opts.MaxFrames = c.Playback.MaxFrames
	opts.SwapMultiplier = c.Playback.SwapMultiplier
	opts.FlashDuration = time.Duration(c.Playback.FlashMs) * time.Millisecond
	if k, err := c.AlgorithmKind(); err == nil {
		opts.Algorithm = k
	}
	return opts
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
