package particles_test

import (
	"encoding/json"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/particlesim/internal/particles"
	"github.com/san-kum/particlesim/internal/vecmath"
)

func smallWorldConfig() particles.Config {
	cfg := particles.DefaultConfig()
	cfg.Width, cfg.Height = 100, 100
	cfg.Seed = 7
	return cfg
}

func unitBody(pos, vel vecmath.Vec2) particles.Body {
	return particles.Body{
		Static: particles.Static{Radius: 16, Mass: 1, Gravity: vecmath.V(0, particles.GravityAccel)},
		State:  particles.State{Position: pos, Velocity: vel},
	}
}

type stepCounter struct{ n int }

func (c *stepCounter) OnStep(*particles.World, float64) { c.n++ }

var _ = Describe("World", func() {
	var cfg particles.Config

	BeforeEach(func() {
		cfg = smallWorldConfig()
	})

	Describe("construction", func() {
		It("spawns every particle at rest on the top edge", func() {
			cfg.Particles = 64
			w, err := particles.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.Len()).To(Equal(64))

			for i := 0; i < w.Len(); i++ {
				st, cur := w.Static(i), w.Current(i)
				Expect(st.Radius).To(BeNumerically(">=", particles.MinRadius))
				Expect(st.Radius).To(BeNumerically("<", particles.MaxRadius))
				Expect(st.Mass).To(BeNumerically("~", st.Radius*particles.MassMultiplier, 1e-15))
				Expect(st.Sprite).To(BeNumerically("<", particles.SpriteCount))
				Expect(st.Gravity).To(Equal(vecmath.V(0, particles.GravityAccel)))

				Expect(cur.Position.Y).To(Equal(100.0))
				Expect(cur.Position.X).To(BeNumerically(">=", 0))
				Expect(cur.Position.X).To(BeNumerically("<", 100))
				Expect(cur.Velocity).To(Equal(vecmath.Vec2{}))
				Expect(cur.Rotation).To(BeNumerically("<", 2*math.Pi))
				Expect(w.Previous(i)).To(Equal(cur))
			}
		})

		It("is reproducible for a given seed", func() {
			cfg.Particles = 16
			a, _ := particles.New(cfg)
			b, _ := particles.New(cfg)
			Expect(b.Statics()).To(Equal(a.Statics()))
			Expect(b.CurrentStates()).To(Equal(a.CurrentStates()))
		})

		DescribeTable("rejects invalid configuration",
			func(mutate func(*particles.Config), want error) {
				mutate(&cfg)
				_, err := particles.New(cfg)
				Expect(errors.Is(err, want)).To(BeTrue(), "got %v", err)

				var cerr *particles.ConfigError
				Expect(errors.As(err, &cerr)).To(BeTrue())
			},
			Entry("zero particles", func(c *particles.Config) { c.Particles = 0 }, particles.ErrNoParticles),
			Entry("zero width", func(c *particles.Config) { c.Width = 0 }, particles.ErrInvalidBounds),
			Entry("negative height", func(c *particles.Config) { c.Height = -1 }, particles.ErrInvalidBounds),
			Entry("zero rate", func(c *particles.Config) { c.Rate = 0 }, particles.ErrInvalidStep),
			Entry("zero frame clamp", func(c *particles.Config) { c.MaxFrameTime = 0 }, particles.ErrInvalidStep),
			Entry("inverted radius", func(c *particles.Config) { c.MinRadius, c.MaxRadius = 10, 5 }, particles.ErrInvalidRadius),
			Entry("no sprites", func(c *particles.Config) { c.Sprites = 0 }, particles.ErrInvalidSprites),
			Entry("runaway spin", func(c *particles.Config) { c.RotationRate = 1e6 }, particles.ErrInvalidRotation),
		)

		It("rejects massless bodies", func() {
			b := unitBody(vecmath.V(1, 1), vecmath.Vec2{})
			b.Static.Mass = 0
			_, err := particles.NewWithBodies(cfg, []particles.Body{b})
			Expect(err).To(MatchError(particles.ErrInvalidMass))
		})

		It("rejects an empty body list", func() {
			_, err := particles.NewWithBodies(cfg, nil)
			Expect(err).To(MatchError(particles.ErrNoParticles))
		})
	})

	Describe("Update", func() {
		var w *particles.World

		BeforeEach(func() {
			cfg.Particles = 32
			var err error
			w, err = particles.New(cfg)
			Expect(err).NotTo(HaveOccurred())
		})

		It("keeps the interpolation fraction in [0, 1)", func() {
			deltas := []float64{0, 0.001, particles.FixedStep / 2, particles.FixedStep, 0.1, 0.3, 1000, -1, 0.017, 0.0333}
			for _, d := range deltas {
				f := w.Update(d)
				Expect(f).To(BeNumerically(">=", 0), "delta %v", d)
				Expect(f).To(BeNumerically("<", 1), "delta %v", d)
				Expect(w.Accumulated()).To(BeNumerically("<", w.FixedStep()))
				Expect(w.Accumulated()).To(BeNumerically(">=", 0))
			}
		})

		It("does nothing for a zero delta", func() {
			before := w.Update(particles.FixedStep * 2.5)
			snap := w.Snapshot()

			after := w.Update(0)

			Expect(after).To(Equal(before))
			Expect(w.CurrentStates()).To(Equal(snap.Current))
			for i := 0; i < w.Len(); i++ {
				Expect(w.Previous(i)).To(Equal(snap.Previous[i]))
			}
			Expect(w.Steps()).To(Equal(snap.Steps))
		})

		It("treats a negative delta as zero", func() {
			w.Update(particles.FixedStep / 2)
			acc := w.Accumulated()

			w.Update(-3)
			Expect(w.Accumulated()).To(Equal(acc))
			Expect(w.Steps()).To(BeZero())

			w.Update(math.NaN())
			Expect(w.Accumulated()).To(Equal(acc))
		})

		It("clamps a stalled frame to MaxFrameTime worth of steps", func() {
			counter := &stepCounter{}
			w.AddObserver(counter)

			w.Update(1000)

			limit := int(math.Floor(particles.MaxFrameTime/particles.FixedStep + 1e-9))
			Expect(counter.n).To(BeNumerically("<=", limit))
			Expect(counter.n).To(Equal(30))
			Expect(w.MaxStepsPerFrame()).To(Equal(30))
		})

		It("bounds a stalled frame by MaxStepsPerFrame with leftover time", func() {
			// 0.105s is 12.6 steps at 120 Hz
			cfg.MaxFrameTime = 0.105
			fresh, _ := particles.New(cfg)
			Expect(fresh.MaxStepsPerFrame()).To(Equal(13))

			fresh.Update(1000)
			Expect(fresh.Steps()).To(Equal(uint64(12)))

			carried, _ := particles.New(cfg)
			carried.Update(particles.FixedStep * 0.5)
			Expect(carried.Steps()).To(BeZero())

			carried.Update(1000)
			Expect(carried.Steps()).To(Equal(uint64(13)))
			Expect(int(carried.Steps())).To(BeNumerically("<=", carried.MaxStepsPerFrame()))
			Expect(carried.Accumulated()).To(BeNumerically("<", carried.FixedStep()))
			Expect(carried.Accumulated()).To(BeNumerically(">=", 0))
		})

		It("reports the leftover time as the fraction", func() {
			f := w.Update(particles.FixedStep * 1.25)
			Expect(w.Steps()).To(Equal(uint64(1)))
			Expect(f).To(BeNumerically("~", 0.25, 1e-9))
			Expect(w.Alpha()).To(Equal(f))
		})
	})

	Describe("fixed-step determinism", func() {
		run := func(chunks []float64, repeat int) *particles.World {
			c := smallWorldConfig()
			c.Particles = 48
			c.Seed = 42
			w, err := particles.New(c)
			Expect(err).NotTo(HaveOccurred())
			for r := 0; r < repeat; r++ {
				for _, d := range chunks {
					w.Update(d)
				}
			}
			return w
		}

		It("does not depend on how frame time is chunked", func() {
			step := particles.FixedStep
			whole := run([]float64{3 * step}, 80)
			single := run([]float64{step, step, step}, 80)
			halves := run([]float64{1.5 * step, 1.5 * step}, 80)
			uneven := run([]float64{0.5 * step, 2.5 * step}, 80)

			Expect(whole.Steps()).To(Equal(uint64(240)))
			for _, other := range []*particles.World{single, halves, uneven} {
				Expect(other.Steps()).To(Equal(whole.Steps()))
				Expect(other.Recycled()).To(Equal(whole.Recycled()))
				Expect(other.CurrentStates()).To(Equal(whole.CurrentStates()))
			}
			Expect(whole.Recycled()).To(BeNumerically(">", 0), "scenario should exercise recycling")
		})
	})

	Describe("recycling", func() {
		It("resets both snapshots when a particle drops below the floor", func() {
			w, err := particles.NewWithBodies(cfg, []particles.Body{
				unitBody(vecmath.V(50, 0.001), vecmath.V(0, -10)),
			})
			Expect(err).NotTo(HaveOccurred())

			w.Update(particles.FixedStep)

			prev, cur := w.Previous(0), w.Current(0)
			Expect(w.Recycled()).To(Equal(uint64(1)))
			Expect(cur.Position.Y).To(Equal(100.0))
			Expect(cur.Position.X).To(BeNumerically(">=", 0))
			Expect(cur.Position.X).To(BeNumerically("<", 100))
			Expect(cur.Velocity).To(Equal(vecmath.Vec2{}))
			Expect(cur.Forces).To(Equal(vecmath.Vec2{}))
			Expect(cur.Speed).To(BeZero())
			Expect(cur.Rotation).To(BeNumerically(">=", 0))
			Expect(cur.Rotation).To(BeNumerically("<", 2*math.Pi))
			Expect(prev).To(Equal(cur))

			for _, f := range []float64{0, 0.3, 0.99} {
				p := vecmath.Lerp(prev.Position, cur.Position, f)
				Expect(p.X).To(BeNumerically("~", cur.Position.X, 1e-9))
				Expect(p.Y).To(BeNumerically("~", cur.Position.Y, 1e-9))
			}
		})

		It("resets a particle that leaves through the right edge", func() {
			b := unitBody(vecmath.V(99.99, 50), vecmath.V(10, 0))
			b.Static.Gravity = vecmath.Vec2{}
			w, _ := particles.NewWithBodies(cfg, []particles.Body{b})

			w.Step(particles.FixedStep)

			Expect(w.Recycled()).To(Equal(uint64(1)))
			Expect(w.Current(0).Position.Y).To(Equal(100.0))
			Expect(w.Previous(0)).To(Equal(w.Current(0)))
		})

		It("does not reset a particle leaving through the left edge or the top", func() {
			b := unitBody(vecmath.V(0.01, 99.99), vecmath.V(-10, 10))
			b.Static.Gravity = vecmath.Vec2{}
			w, _ := particles.NewWithBodies(cfg, []particles.Body{b})

			w.Step(particles.FixedStep)

			Expect(w.Recycled()).To(BeZero())
			Expect(w.Current(0).Position.X).To(BeNumerically("<", 0))
			Expect(w.Current(0).Position.Y).To(BeNumerically(">", 100))
		})

		It("keeps previous one step behind current otherwise", func() {
			w, _ := particles.NewWithBodies(cfg, []particles.Body{
				unitBody(vecmath.V(50, 100), vecmath.Vec2{}),
			})
			w.Update(particles.FixedStep)
			after1 := w.Current(0)

			w.Update(particles.FixedStep)
			Expect(w.Previous(0)).To(Equal(after1))
			Expect(w.Current(0).Position.Y).To(BeNumerically("<", after1.Position.Y))
		})
	})

	Describe("free fall", func() {
		It("reaches g·1s after one simulated second", func() {
			cfg.MaxFrameTime = 1.0
			w, err := particles.NewWithBodies(cfg, []particles.Body{
				unitBody(vecmath.V(50, 100), vecmath.Vec2{}),
			})
			Expect(err).NotTo(HaveOccurred())

			var ys []float64
			w.AddObserver(particles.ObserverFunc(func(w *particles.World, _ float64) {
				ys = append(ys, w.Current(0).Position.Y)
			}))

			w.Update(1.0)

			Expect(w.Steps()).To(Equal(uint64(120)))
			Expect(w.Current(0).Velocity.Y).To(BeNumerically("~", -9.8, 1e-9))
			Expect(w.Current(0).Velocity.X).To(BeZero())
			Expect(ys).To(HaveLen(120))
			last := 100.0
			for _, y := range ys {
				Expect(y).To(BeNumerically("<", last))
				last = y
			}
			Expect(w.Recycled()).To(BeZero())
		})

		It("matches the clamped path when the second arrives in quarter frames", func() {
			clamped, _ := particles.NewWithBodies(cfg, []particles.Body{
				unitBody(vecmath.V(50, 100), vecmath.Vec2{}),
			})
			for i := 0; i < 4; i++ {
				clamped.Update(0.25)
			}
			Expect(clamped.Steps()).To(Equal(uint64(120)))
			Expect(clamped.Current(0).Velocity.Y).To(BeNumerically("~", -9.8, 1e-9))
		})
	})

	Describe("Resize", func() {
		It("replaces the bounds without moving particles", func() {
			cfg.Particles = 8
			w, _ := particles.New(cfg)
			before := append([]particles.State(nil), w.CurrentStates()...)

			w.Resize(400, 300)

			Expect(w.Bounds()).To(Equal(vecmath.V(400, 300)))
			Expect(w.CurrentStates()).To(Equal(before))
		})

		It("recycles particles outside a shrunk world on the next step", func() {
			b := unitBody(vecmath.V(80, 90), vecmath.Vec2{})
			b.Static.Gravity = vecmath.Vec2{}
			w, _ := particles.NewWithBodies(cfg, []particles.Body{b})

			w.Resize(40, 60)
			w.Step(particles.FixedStep)

			Expect(w.Recycled()).To(Equal(uint64(1)))
			Expect(w.Current(0).Position.Y).To(Equal(60.0))
			Expect(w.Current(0).Position.X).To(BeNumerically("<", 40))
		})
	})

	Describe("Snapshot", func() {
		It("replays identically after Restore", func() {
			cfg.Particles = 24
			w, _ := particles.New(cfg)
			w.Update(0.1)
			snap := w.Snapshot()

			for i := 0; i < 20; i++ {
				w.Update(0.05)
			}
			first := append([]particles.State(nil), w.CurrentStates()...)

			Expect(w.Restore(snap)).To(Succeed())
			Expect(w.CurrentStates()).To(Equal(snap.Current))
			for i := 0; i < 20; i++ {
				w.Update(0.05)
			}
			Expect(w.CurrentStates()).To(Equal(first))
		})

		It("replays identically from an encoded snapshot", func() {
			cfg.Particles = 24
			w, _ := particles.New(cfg)
			for i := 0; i < 30; i++ {
				w.Update(0.05)
			}
			Expect(w.Recycled()).To(BeNumerically(">", 0))

			data, err := json.Marshal(w.Snapshot())
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 30; i++ {
				w.Update(0.05)
			}

			var decoded particles.Snapshot
			Expect(json.Unmarshal(data, &decoded)).To(Succeed())
			Expect(decoded.RNG).NotTo(BeEmpty())

			replay, _ := particles.New(cfg)
			Expect(replay.Restore(decoded)).To(Succeed())
			for i := 0; i < 30; i++ {
				replay.Update(0.05)
			}
			Expect(replay.CurrentStates()).To(Equal(w.CurrentStates()))
			Expect(replay.Recycled()).To(Equal(w.Recycled()))
		})

		It("refuses a snapshot from a different world", func() {
			cfg.Particles = 4
			small, _ := particles.New(cfg)
			cfg.Particles = 5
			big, _ := particles.New(cfg)

			Expect(small.Restore(big.Snapshot())).To(MatchError(particles.ErrSnapshotMismatch))
		})
	})

	Describe("extra loads", func() {
		It("applies registered loads after gravity", func() {
			cfg.Loads = []particles.Load{particles.Wind}
			b := unitBody(vecmath.V(10, 50), vecmath.Vec2{})
			w, _ := particles.NewWithBodies(cfg, []particles.Body{b})

			w.Step(1e-6)

			f := w.Current(0).Forces
			Expect(f.X).To(BeNumerically(">", 0))
			Expect(f.Y).To(Equal(particles.GravityAccel))
		})
	})
})
