package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/particlesim/internal/particles"
	"github.com/san-kum/particlesim/internal/vecmath"
)

func newWorld(t *testing.T, bodies ...particles.Body) *particles.World {
	t.Helper()
	cfg := particles.DefaultConfig()
	cfg.Width, cfg.Height = 100, 100
	w, err := particles.NewWithBodies(cfg, bodies)
	require.NoError(t, err)
	return w
}

func mover(x, y, vx, vy, mass float64) particles.Body {
	return particles.Body{
		Static: particles.Static{Radius: 1, Mass: mass},
		State: particles.State{
			Position: vecmath.V(x, y),
			Velocity: vecmath.V(vx, vy),
		},
	}
}

func TestMeanAndMaxSpeed(t *testing.T) {
	w := newWorld(t, mover(10, 50, 3, 4, 1), mover(20, 50, 0, 1, 1))
	mean, peak := NewMeanSpeed(), NewMaxSpeed()
	w.AddObserver(mean)
	w.AddObserver(peak)

	w.Step(w.FixedStep())

	assert.InDelta(t, 3.0, mean.Value(), 1e-12)
	assert.InDelta(t, 5.0, peak.Value(), 1e-12)

	mean.Reset()
	peak.Reset()
	assert.Zero(t, mean.Value())
	assert.Zero(t, peak.Value())
}

func TestKineticEnergy(t *testing.T) {
	w := newWorld(t, mover(10, 50, 3, 4, 2), mover(20, 50, 0, 2, 0.5))
	ke := NewKineticEnergy()
	w.AddObserver(ke)

	w.Step(w.FixedStep())

	// 0.5*2*25 + 0.5*0.5*4
	assert.InDelta(t, 26.0, ke.Value(), 1e-12)
}

func TestRecycleRate(t *testing.T) {
	// one particle leaves through the right edge on the first step, the
	// other never leaves
	w := newWorld(t, mover(99.9, 50, 120, 0, 1), mover(10, 50, 0, 0, 1))
	rate := NewRecycleRate()
	w.AddObserver(rate)

	for i := 0; i < 120; i++ {
		w.Step(w.FixedStep())
	}

	assert.Equal(t, uint64(1), w.Recycled())
	assert.InDelta(t, 1.0, rate.Value(), 1e-9)

	rate.Reset()
	assert.Zero(t, rate.Value())
}

func TestSet(t *testing.T) {
	w := newWorld(t, mover(10, 50, 3, 4, 1))
	set := Default()
	w.AddObserver(set)

	w.Update(w.FixedStep() * 2)

	values := set.Values()
	require.Len(t, values, 4)
	assert.Equal(t, []string{"kinetic_energy", "max_speed", "mean_speed", "recycle_rate"}, set.Names())
	assert.False(t, math.IsNaN(values["mean_speed"]))
	assert.InDelta(t, 5.0, values["max_speed"], 1e-12)
	assert.NotNil(t, set.Get("kinetic_energy"))
	assert.Nil(t, set.Get("nope"))

	set.Reset()
	for name, v := range set.Values() {
		assert.Zero(t, v, name)
	}
}
