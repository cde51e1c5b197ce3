package particles

import "math"

// Config describes a world at construction time.
type Config struct {
	Particles    int
	Width        float64
	Height       float64
	Rate         float64 // fixed steps per second
	MaxFrameTime float64 // seconds; larger frame deltas are clamped
	Gravity      float64 // y component of the per-particle gravity force
	RotationRate float64 // radians per second
	MinRadius    float64
	MaxRadius    float64
	Sprites      int
	Seed         uint64
	Loads        []Load
}

// DefaultConfig is the reference world: 1024 particles in a 1280x720 box
// stepped at 120 Hz.
func DefaultConfig() Config {
	return Config{
		Particles:    MaxParticles,
		Width:        1280,
		Height:       720,
		Rate:         DefaultRate,
		MaxFrameTime: MaxFrameTime,
		Gravity:      GravityAccel,
		RotationRate: RotationRate,
		MinRadius:    MinRadius,
		MaxRadius:    MaxRadius,
		Sprites:      SpriteCount,
	}
}

// Step returns the fixed step duration in seconds.
func (c Config) Step() float64 {
	return 1.0 / c.Rate
}

// Validate checks everything except the particle count, which NewWithBodies
// takes from its body list.
func (c Config) Validate() error {
	if !(c.Width > 0) {
		return invalid("width", c.Width, ErrInvalidBounds)
	}
	if !(c.Height > 0) {
		return invalid("height", c.Height, ErrInvalidBounds)
	}
	if !(c.Rate > 0) || math.IsInf(c.Rate, 0) {
		return invalid("rate", c.Rate, ErrInvalidStep)
	}
	if !(c.MaxFrameTime > 0) {
		return invalid("max_frame_time", c.MaxFrameTime, ErrInvalidStep)
	}
	if c.RotationRate < 0 || c.RotationRate*c.Step() >= twoPi {
		return invalid("rotation_rate", c.RotationRate, ErrInvalidRotation)
	}
	return nil
}

func (c Config) validateSpawn() error {
	if c.Particles <= 0 {
		return invalid("particles", c.Particles, ErrNoParticles)
	}
	if !(c.MinRadius > 0) || c.MaxRadius < c.MinRadius {
		return invalid("radius", [2]float64{c.MinRadius, c.MaxRadius}, ErrInvalidRadius)
	}
	if c.Sprites <= 0 {
		return invalid("sprites", c.Sprites, ErrInvalidSprites)
	}
	return nil
}
