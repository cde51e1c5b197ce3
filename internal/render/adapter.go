package render

import (
	"golang.org/x/image/math/f64"

	"github.com/san-kum/particlesim/internal/particles"
	"github.com/san-kum/particlesim/internal/vecmath"
)

// Adapter keeps an instance buffer between frames so drawing does not
// allocate once the particle count is known.
type Adapter struct {
	instances []Instance
}

func NewAdapter() *Adapter {
	return &Adapter{}
}

// Build interpolates every particle. The returned slice is reused by the
// next call.
func (a *Adapter) Build(w *particles.World, alpha float64) []Instance {
	n := w.Len()
	if cap(a.instances) < n {
		a.instances = make([]Instance, n)
	}
	a.instances = a.instances[:n]
	for i := range a.instances {
		a.instances[i] = Interpolate(w, i, alpha)
	}
	return a.instances
}

// Projection maps world bounds to clip space with y down.
func Projection(w *particles.World) f64.Mat4 {
	b := w.Bounds()
	return vecmath.Orthographic(0, 0, b.X, b.Y, -1, 1)
}
