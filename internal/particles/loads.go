package particles

import (
	"math"

	"github.com/san-kum/particlesim/internal/vecmath"
)

const (
	AirDensity = 1.23 // kg/m^3
	DragCoeff  = 0.6
	WindSpeed  = 10.0 // m/s

	dragRadius = 16.0
)

// Load adds an extra force after gravity has been applied. Loads run in
// registration order, see the step length dt and must only touch s.Forces.
type Load func(s *State, st *Static, dt float64)

// Drag opposes the velocity. Not enabled by default; the coefficients have
// not been validated against real trajectories.
func Drag(s *State, st *Static, dt float64) {
	airResistance(s, st, dt, s.Velocity, math.Pi*dragRadius*dragRadius)
}

// Wind is drag against air moving along +x at WindSpeed, scaled by the
// particle's cross-section. Not enabled by default.
func Wind(s *State, st *Static, dt float64) {
	rel := s.Velocity.Sub(vecmath.V(WindSpeed, 0))
	airResistance(s, st, dt, rel, math.Pi*st.Radius*st.Radius)
}

// airResistance pushes rel, the velocity relative to the air, towards zero.
// The force is capped so that a single step of dt at most cancels rel.
func airResistance(s *State, st *Static, dt float64, rel vecmath.Vec2, area float64) {
	speed := rel.Len()
	if speed == 0 {
		return
	}
	mag := 0.5 * AirDensity * speed * area * DragCoeff
	if dt > 0 {
		mag = math.Min(mag, speed*st.Mass/dt)
	}
	s.Forces = s.Forces.Add(rel.Scale(-mag / speed))
}
