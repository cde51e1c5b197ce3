package metrics

import "github.com/san-kum/particlesim/internal/particles"

// KineticEnergy is the total ½mv² after the latest step.
type KineticEnergy struct {
	value float64
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (e *KineticEnergy) Name() string { return "kinetic_energy" }

func (e *KineticEnergy) OnStep(w *particles.World, _ float64) {
	statics, states := w.Statics(), w.CurrentStates()
	var total float64
	for i := range states {
		v := states[i].Velocity
		total += 0.5 * statics[i].Mass * v.Dot(v)
	}
	e.value = total
}

func (e *KineticEnergy) Value() float64 { return e.value }
func (e *KineticEnergy) Reset()         { e.value = 0 }

// RecycleRate counts particle resets per simulated second since the last
// reset of the metric.
type RecycleRate struct {
	recycled int
	elapsed  float64
}

func NewRecycleRate() *RecycleRate { return &RecycleRate{} }

func (r *RecycleRate) Name() string { return "recycle_rate" }

func (r *RecycleRate) OnStep(w *particles.World, dt float64) {
	r.recycled += w.LastRecycled()
	r.elapsed += dt
}

func (r *RecycleRate) Value() float64 {
	if r.elapsed == 0 {
		return 0
	}
	return float64(r.recycled) / r.elapsed
}

func (r *RecycleRate) Reset() {
	r.recycled = 0
	r.elapsed = 0
}
