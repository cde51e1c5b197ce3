package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/particlesim/internal/clock"
	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/metrics"
	"github.com/san-kum/particlesim/internal/particles"
)

// Sample is the world as seen after one rendered frame.
type Sample struct {
	Frame         int
	Time          float64 // simulated seconds
	Alpha         float64
	Steps         uint64
	Recycled      uint64
	MeanSpeed     float64
	MaxSpeed      float64
	KineticEnergy float64
}

type Result struct {
	Scenario string
	Config   config.Config
	Samples  []Sample
	Metrics  map[string]float64
	Steps    uint64
	Recycled uint64
	Wall     time.Duration
}

// FrameFunc is called after every frame with the interpolation fraction.
type FrameFunc func(w *particles.World, alpha float64)

type Experiment struct {
	cfg      *config.Config
	scenario string
	world    *particles.World
	metrics  metrics.Set
	ticker   clock.Ticker
	onFrame  []FrameFunc
}

func New(cfg *config.Config, scenario string) *Experiment {
	return &Experiment{cfg: cfg, scenario: scenario}
}

// Setup builds the world and attaches the metrics. A nil ticker means a
// fixed clock at the configured fps and jitter.
func (e *Experiment) Setup(reg *Registry, set metrics.Set, ticker clock.Ticker) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	w, err := reg.Build(e.scenario, e.cfg.World())
	if err != nil {
		return err
	}
	w.AddObserver(set)

	if ticker == nil {
		ticker = clock.NewFixed(e.cfg.FPS, e.cfg.Jitter, e.cfg.Seed)
	}
	e.world, e.metrics, e.ticker = w, set, ticker

	slog.Debug("world created", "scenario", e.scenario, "particles", w.Len(),
		"bounds", fmt.Sprintf("%gx%g", e.cfg.Width, e.cfg.Height), "seed", e.cfg.Seed)
	return nil
}

func (e *Experiment) OnFrame(fn FrameFunc) { e.onFrame = append(e.onFrame, fn) }

// Run drives the world for cfg.Frames() frames. Cancellation is checked
// between frames.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.world == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	frames := e.cfg.Frames()
	res := &Result{
		Scenario: e.scenario,
		Config:   *e.cfg,
		Samples:  make([]Sample, 0, frames),
	}
	start := time.Now()

	for frame := 0; frame < frames; frame++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		alpha := e.world.Update(e.ticker.Tick())
		res.Samples = append(res.Samples, e.sample(frame, alpha))
		for _, fn := range e.onFrame {
			fn(e.world, alpha)
		}
	}

	res.Wall = time.Since(start)
	res.Metrics = e.metrics.Values()
	res.Steps = e.world.Steps()
	res.Recycled = e.world.Recycled()
	return res, nil
}

func (e *Experiment) sample(frame int, alpha float64) Sample {
	s := Sample{
		Frame:    frame,
		Time:     e.world.SimTime(),
		Alpha:    alpha,
		Steps:    e.world.Steps(),
		Recycled: e.world.Recycled(),
	}
	if m := e.metrics.Get("mean_speed"); m != nil {
		s.MeanSpeed = m.Value()
	}
	if m := e.metrics.Get("max_speed"); m != nil {
		s.MaxSpeed = m.Value()
	}
	if m := e.metrics.Get("kinetic_energy"); m != nil {
		s.KineticEnergy = m.Value()
	}
	return s
}

func (e *Experiment) World() *particles.World { return e.world }
