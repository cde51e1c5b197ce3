package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/particlesim/internal/particles"
)

const (
	DefaultDuration = 10.0
	DefaultFPS      = 60.0
	DefaultWidth    = 1280.0
	DefaultHeight   = 720.0
)

type Config struct {
	Particles    int     `yaml:"particles"`
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	Rate         float64 `yaml:"rate"`
	MaxFrameTime float64 `yaml:"max_frame_time"`
	Gravity      float64 `yaml:"gravity"`
	RotationRate float64 `yaml:"rotation_rate"`
	Seed         uint64  `yaml:"seed"`

	// headless runs
	Duration float64 `yaml:"duration"`
	FPS      float64 `yaml:"fps"`
	Jitter   float64 `yaml:"jitter"`

	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`
	Sprites   int     `yaml:"sprites"`

	Drag bool `yaml:"drag"`
	Wind bool `yaml:"wind"`
}

// DefaultConfig is a ten second rain run at the reference world settings.
func DefaultConfig() *Config {
	return &Config{
		Particles:    particles.MaxParticles,
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		Rate:         particles.DefaultRate,
		MaxFrameTime: particles.MaxFrameTime,
		Gravity:      particles.GravityAccel,
		RotationRate: particles.RotationRate,
		Duration:     DefaultDuration,
		FPS:          DefaultFPS,
		MinRadius:    particles.MinRadius,
		MaxRadius:    particles.MaxRadius,
		Sprites:      particles.SpriteCount,
	}
}

// Load reads a yaml file over the defaults, so partial files are fine.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a yaml file over a copy of base; base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// World converts to the simulation's construction parameters.
func (c *Config) World() particles.Config {
	wc := particles.Config{
		Particles:    c.Particles,
		Width:        c.Width,
		Height:       c.Height,
		Rate:         c.Rate,
		MaxFrameTime: c.MaxFrameTime,
		Gravity:      c.Gravity,
		RotationRate: c.RotationRate,
		MinRadius:    c.MinRadius,
		MaxRadius:    c.MaxRadius,
		Sprites:      c.Sprites,
		Seed:         c.Seed,
	}
	if c.Drag {
		wc.Loads = append(wc.Loads, particles.Drag)
	}
	if c.Wind {
		wc.Loads = append(wc.Loads, particles.Wind)
	}
	return wc
}

// Validate checks the world parameters plus the headless run settings.
func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("config: particles must be positive, got %d: %w", c.Particles, particles.ErrNoParticles)
	}
	if err := c.World().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Duration < 0 {
		return fmt.Errorf("config: duration must not be negative, got %v", c.Duration)
	}
	if !(c.FPS > 0) {
		return fmt.Errorf("config: fps must be positive, got %v", c.FPS)
	}
	if c.Jitter < 0 || c.Jitter >= 1 {
		return fmt.Errorf("config: jitter must be in [0,1), got %v", c.Jitter)
	}
	return nil
}

// Frames is the number of frames a headless run of Duration takes at FPS.
func (c *Config) Frames() int {
	return int(c.Duration*c.FPS + 0.5)
}
