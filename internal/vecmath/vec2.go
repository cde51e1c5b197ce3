// Package vecmath holds the small 2D vector and affine helpers shared by the
// simulation and the render adapters.
package vecmath

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X, Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Div(s float64) Vec2 { return Vec2{v.X / s, v.Y / s} }

func (v Vec2) Neg() Vec2 { return Vec2{-v.X, -v.Y} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns the unit vector along v, or the zero vector when v is zero.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return v.Div(l)
}

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// F64 converts to the x/image vector type.
func (v Vec2) F64() f64.Vec2 { return f64.Vec2{v.X, v.Y} }

// Lerp blends a toward b: a*(1-t) + b*t.
func Lerp(a, b Vec2, t float64) Vec2 {
	return Vec2{
		X: b.X*t + (1-t)*a.X,
		Y: b.Y*t + (1-t)*a.Y,
	}
}

// LerpScalar blends two scalars with the same weighting as Lerp.
func LerpScalar(a, b, t float64) float64 {
	return b*t + (1-t)*a
}

func Saturate(x float64) float64 {
	return Clamp(0, x, 1)
}

func Clamp(lo, x, hi float64) float64 {
	return math.Max(lo, math.Min(x, hi))
}
