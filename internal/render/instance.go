// Package render turns the two world snapshots into per-frame instances.
package render

import (
	"golang.org/x/image/math/f64"

	"github.com/san-kum/particlesim/internal/particles"
	"github.com/san-kum/particlesim/internal/vecmath"
)

// Instance is one particle as drawn this frame. Position is in screen space
// (origin top-left, y down).
type Instance struct {
	Position  vecmath.Vec2
	Rotation  float64
	Scale     float64
	Sprite    uint32
	Speed     float64
	Transform f64.Aff3 // translate ∘ rotate ∘ scale
}

// Interpolate blends particle i between its previous and current state.
// Both snapshots are flipped into screen space before blending.
func Interpolate(w *particles.World, i int, alpha float64) Instance {
	height := w.Bounds().Y
	prev, curr := w.Previous(i), w.Current(i)
	st := w.Static(i)

	pos := vecmath.Lerp(toScreen(prev.Position, height), toScreen(curr.Position, height), alpha)
	rot := vecmath.LerpScalar(prev.Rotation, curr.Rotation, alpha)

	return Instance{
		Position:  pos,
		Rotation:  rot,
		Scale:     st.Radius,
		Sprite:    st.Sprite,
		Speed:     vecmath.LerpScalar(prev.Speed, curr.Speed, alpha),
		Transform: WorldTransform(pos, rot, st.Radius),
	}
}

func toScreen(p vecmath.Vec2, height float64) vecmath.Vec2 {
	return vecmath.V(p.X, height-p.Y)
}

func WorldTransform(pos vecmath.Vec2, rotation, scale float64) f64.Aff3 {
	return vecmath.Chain(
		vecmath.Translate(pos.X, pos.Y),
		vecmath.Rotate(rotation),
		vecmath.UniformScale(scale),
	)
}

// Clip returns proj ∘ world as a row-major 4x4 matrix.
func (in Instance) Clip(proj f64.Mat4) f64.Mat4 {
	return vecmath.MulMat4(proj, vecmath.Promote(in.Transform))
}
