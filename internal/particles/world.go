package particles

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/san-kum/particlesim/internal/vecmath"
)

// stepSlack absorbs rounding when the accumulator holds an exact multiple of
// the step, e.g. Update(1.0) at 120 Hz must run 120 steps, not 119.
const stepSlack = 1e-9

// Observer is notified after every completed fixed step.
type Observer interface {
	OnStep(w *World, dt float64)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(w *World, dt float64)

func (f ObserverFunc) OnStep(w *World, dt float64) { f(w, dt) }

// World owns the particles and steps them at a fixed rate. prev and curr
// are index-aligned with statics; renderers blend between them.
type World struct {
	statics []Static
	prev    []State
	curr    []State

	bounds      vecmath.Vec2
	accumulated float64
	step        float64
	maxFrame    float64
	spinRate    float64

	loads     []Load
	observers []Observer

	pcg *rand.PCG
	rng *rand.Rand

	steps        uint64
	recycled     uint64
	lastRecycled int
	simTime      float64
}

// New creates cfg.Particles randomized particles, all starting at the top
// edge at rest.
func New(cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.validateSpawn(); err != nil {
		return nil, err
	}

	w := newWorld(cfg, cfg.Particles)
	gravity := vecmath.V(0, cfg.Gravity)
	for i := 0; i < cfg.Particles; i++ {
		radius := cfg.MinRadius + w.rng.Float64()*(cfg.MaxRadius-cfg.MinRadius)
		sprite := uint32(w.rng.IntN(cfg.Sprites))
		w.statics[i] = NewStatic(radius, sprite, gravity)
		w.curr[i] = w.spawn()
	}
	copy(w.prev, w.curr)
	return w, nil
}

// NewWithBodies creates a world from explicit particles. cfg.Particles and
// the radius/sprite ranges are ignored.
func NewWithBodies(cfg Config, bodies []Body) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(bodies) == 0 {
		return nil, invalid("particles", 0, ErrNoParticles)
	}

	w := newWorld(cfg, len(bodies))
	for i, b := range bodies {
		if !(b.Static.Mass > 0) {
			return nil, invalid(fmt.Sprintf("bodies[%d].mass", i), b.Static.Mass, ErrInvalidMass)
		}
		w.statics[i] = b.Static
		w.curr[i] = b.State
	}
	copy(w.prev, w.curr)
	return w, nil
}

func newWorld(cfg Config, n int) *World {
	pcg := rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)
	return &World{
		statics:  make([]Static, n),
		prev:     make([]State, n),
		curr:     make([]State, n),
		bounds:   vecmath.V(cfg.Width, cfg.Height),
		step:     cfg.Step(),
		maxFrame: cfg.MaxFrameTime,
		spinRate: cfg.RotationRate,
		loads:    append([]Load(nil), cfg.Loads...),
		pcg:      pcg,
		rng:      rand.New(pcg),
	}
}

// AddObserver registers o to run after every fixed step.
func (w *World) AddObserver(o Observer) { w.observers = append(w.observers, o) }

// Update consumes one frame's wall time and returns the interpolation
// fraction in [0, 1). Negative or NaN deltas count as zero.
func (w *World) Update(frameDelta float64) float64 {
	w.accumulated += clampFrame(frameDelta, w.maxFrame)

	for w.accumulated+w.step*stepSlack >= w.step {
		w.Step(w.step)
		w.accumulated -= w.step
	}
	if w.accumulated < 0 {
		w.accumulated = 0
	}

	return w.Alpha()
}

func clampFrame(d, limit float64) float64 {
	if math.IsNaN(d) || d < 0 {
		return 0
	}
	return math.Min(d, limit)
}

// Step advances every particle by dt. Update calls it with the fixed step;
// calling it directly bypasses the accumulator.
func (w *World) Step(dt float64) {
	w.lastRecycled = 0
	for i := range w.curr {
		w.prev[i] = w.curr[i]

		p := &w.curr[i]
		st := &w.statics[i]
		p.ComputeLoads(st.Gravity)
		for _, load := range w.loads {
			load(p, st, dt)
		}
		p.IntegrateEuler(dt, st.Mass)
		p.spin(w.spinRate, dt)

		if w.escaped(p.Position) {
			*p = w.spawn()
			w.prev[i] = *p
			w.recycled++
			w.lastRecycled++
		}
	}

	w.steps++
	w.simTime += dt

	for _, o := range w.observers {
		o.OnStep(w, dt)
	}
}

func (w *World) escaped(p vecmath.Vec2) bool {
	return p.X > w.bounds.X || p.Y < 0
}

// spawn returns a resting state at a random x along the top edge.
func (w *World) spawn() State {
	return State{
		Position: vecmath.V(w.rng.Float64()*w.bounds.X, w.bounds.Y),
		Rotation: w.rng.Float64() * twoPi,
	}
}

// Resize replaces the world bounds. Particles outside the new bounds are
// recycled by the next step that sees them escape.
func (w *World) Resize(width, height float64) {
	w.bounds = vecmath.V(width, height)
}

func (w *World) Len() int               { return len(w.curr) }
func (w *World) Bounds() vecmath.Vec2   { return w.bounds }
func (w *World) Static(i int) Static    { return w.statics[i] }
func (w *World) Current(i int) State    { return w.curr[i] }
func (w *World) Previous(i int) State   { return w.prev[i] }
func (w *World) FixedStep() float64     { return w.step }
func (w *World) Accumulated() float64   { return w.accumulated }
func (w *World) Steps() uint64          { return w.steps }
func (w *World) Recycled() uint64       { return w.recycled }
func (w *World) LastRecycled() int      { return w.lastRecycled }
func (w *World) SimTime() float64       { return w.simTime }
func (w *World) Alpha() float64         { return w.accumulated / w.step }
func (w *World) Statics() []Static      { return w.statics }
func (w *World) CurrentStates() []State { return w.curr }

// MaxStepsPerFrame is the most steps one Update can run. A stalled frame on
// an empty accumulator runs floor(MaxFrameTime/step); leftover time carried
// from earlier frames adds one more when MaxFrameTime is not a whole number
// of steps.
func (w *World) MaxStepsPerFrame() int {
	return int(math.Ceil(w.maxFrame/w.step - stepSlack))
}

// Snapshot is a deep copy of everything Update mutates, random source
// included, so a restored world replays identically. All fields are
// exported; an encoded Snapshot restores the same way.
type Snapshot struct {
	Previous    []State
	Current     []State
	Bounds      vecmath.Vec2
	Accumulated float64
	Steps       uint64
	Recycled    uint64
	SimTime     float64

	// RNG is the marshalled random source. Restore keeps the world's own
	// source when it is nil.
	RNG []byte
}

func (w *World) Snapshot() Snapshot {
	rng, _ := w.pcg.MarshalBinary()
	return Snapshot{
		Previous:    append([]State(nil), w.prev...),
		Current:     append([]State(nil), w.curr...),
		Bounds:      w.bounds,
		Accumulated: w.accumulated,
		Steps:       w.steps,
		Recycled:    w.recycled,
		SimTime:     w.simTime,
		RNG:         rng,
	}
}

func (w *World) Restore(s Snapshot) error {
	if len(s.Current) != len(w.curr) || len(s.Previous) != len(w.prev) {
		return fmt.Errorf("%w: have %d particles, snapshot has %d", ErrSnapshotMismatch, len(w.curr), len(s.Current))
	}
	if s.RNG != nil {
		if err := w.pcg.UnmarshalBinary(s.RNG); err != nil {
			return fmt.Errorf("particles: restore random source: %w", err)
		}
	}
	copy(w.prev, s.Previous)
	copy(w.curr, s.Current)
	w.bounds = s.Bounds
	w.accumulated = s.Accumulated
	w.steps = s.Steps
	w.recycled = s.Recycled
	w.simTime = s.SimTime
	return nil
}
