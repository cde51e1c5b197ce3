// Package metrics summarizes a running world. Every metric is a
// particles.Observer and updates once per fixed step.
package metrics

import (
	"sort"

	"github.com/san-kum/particlesim/internal/particles"
)

type Metric interface {
	particles.Observer
	Name() string
	Value() float64
	Reset()
}

// Set fans a step out to several metrics.
type Set []Metric

func Default() Set {
	return Set{NewMeanSpeed(), NewMaxSpeed(), NewKineticEnergy(), NewRecycleRate()}
}

func (s Set) OnStep(w *particles.World, dt float64) {
	for _, m := range s {
		m.OnStep(w, dt)
	}
}

func (s Set) Reset() {
	for _, m := range s {
		m.Reset()
	}
}

func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for _, m := range s {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}

func (s Set) Get(name string) Metric {
	for _, m := range s {
		if m.Name() == name {
			return m
		}
	}
	return nil
}
