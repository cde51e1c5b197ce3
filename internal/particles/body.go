package particles

import (
	"math"

	"github.com/san-kum/particlesim/internal/vecmath"
)

const (
	DefaultRate  = 120
	FixedStep    = 1.0 / DefaultRate
	MaxFrameTime = 0.25

	RotationRate   = 1.0
	GravityAccel   = -9.8
	MassMultiplier = 0.001

	MinRadius    = 16.0
	MaxRadius    = 64.0
	SpriteCount  = 3
	MaxParticles = 1024

	twoPi = 2 * math.Pi
)

// Static is the per-particle data fixed at world creation.
type Static struct {
	Radius  float64
	Mass    float64
	Gravity vecmath.Vec2
	Sprite  uint32
}

// State is the per-particle data advanced every fixed step.
type State struct {
	Speed    float64
	Rotation float64 // radians, [0, 2π)
	Position vecmath.Vec2
	Velocity vecmath.Vec2
	Forces   vecmath.Vec2 // rebuilt every step
}

// Body pairs static data with an initial state for NewWithBodies.
type Body struct {
	Static Static
	State  State
}

// NewStatic derives the mass from the radius.
func NewStatic(radius float64, sprite uint32, gravity vecmath.Vec2) Static {
	return Static{
		Radius:  radius,
		Mass:    radius * MassMultiplier,
		Gravity: gravity,
		Sprite:  sprite,
	}
}

// ComputeLoads clears the accumulated force and applies gravity.
func (s *State) ComputeLoads(gravity vecmath.Vec2) {
	s.Forces = vecmath.Vec2{}
	s.Forces = s.Forces.Add(gravity)
}

// IntegrateEuler advances velocity then position (semi-implicit Euler).
func (s *State) IntegrateEuler(dt, mass float64) {
	a := s.Forces.Div(mass)
	s.Velocity = s.Velocity.Add(a.Scale(dt))
	s.Position = s.Position.Add(s.Velocity.Scale(dt))
	s.Speed = s.Velocity.Len()
}

// AdvanceRotation turns the particle at RotationRate, wrapping once past 2π.
func (s *State) AdvanceRotation(dt float64) {
	s.spin(RotationRate, dt)
}

// spin assumes rate*dt < 2π, so one wrap is enough.
func (s *State) spin(rate, dt float64) {
	s.Rotation += rate * dt
	if s.Rotation >= twoPi {
		s.Rotation -= twoPi
	}
}
