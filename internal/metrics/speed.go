package metrics

import (
	"math"

	"github.com/san-kum/particlesim/internal/particles"
)

// MeanSpeed is the average particle speed after the latest step.
type MeanSpeed struct {
	value float64
}

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{} }

func (m *MeanSpeed) Name() string { return "mean_speed" }

func (m *MeanSpeed) OnStep(w *particles.World, _ float64) {
	states := w.CurrentStates()
	if len(states) == 0 {
		return
	}
	var sum float64
	for i := range states {
		sum += states[i].Speed
	}
	m.value = sum / float64(len(states))
}

func (m *MeanSpeed) Value() float64 { return m.value }
func (m *MeanSpeed) Reset()         { m.value = 0 }

// MaxSpeed is the highest speed any particle reached since the last reset.
type MaxSpeed struct {
	value float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) OnStep(w *particles.World, _ float64) {
	for _, s := range w.CurrentStates() {
		m.value = math.Max(m.value, s.Speed)
	}
}

func (m *MaxSpeed) Value() float64 { return m.value }
func (m *MaxSpeed) Reset()         { m.value = 0 }
