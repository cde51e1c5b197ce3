package vecmath

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Affine matrices are row-major 2x3:
//
//	| a00 a01 a02 |
//	| a10 a11 a12 |

func Identity() f64.Aff3 {
	return f64.Aff3{1, 0, 0, 0, 1, 0}
}

func Translate(x, y float64) f64.Aff3 {
	return f64.Aff3{1, 0, x, 0, 1, y}
}

func Rotate(angle float64) f64.Aff3 {
	s, c := math.Sincos(angle)
	return f64.Aff3{c, -s, 0, s, c, 0}
}

func UniformScale(s float64) f64.Aff3 {
	return f64.Aff3{s, 0, 0, 0, s, 0}
}

// Mul composes a and b so that the result applies b first, then a.
func Mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

// Chain composes the transforms left to right, the last one applied first.
func Chain(ms ...f64.Aff3) f64.Aff3 {
	out := Identity()
	for _, m := range ms {
		out = Mul(out, m)
	}
	return out
}

// ApplyPoint transforms a point (translation included).
func ApplyPoint(m f64.Aff3, p Vec2) Vec2 {
	return Vec2{
		X: m[0]*p.X + m[1]*p.Y + m[2],
		Y: m[3]*p.X + m[4]*p.Y + m[5],
	}
}

// ApplyVec transforms a direction (translation ignored).
func ApplyVec(m f64.Aff3, v Vec2) Vec2 {
	return Vec2{
		X: m[0]*v.X + m[1]*v.Y,
		Y: m[3]*v.X + m[4]*v.Y,
	}
}

// Promote embeds a 2D affine transform into a 4x4 row-major matrix.
func Promote(m f64.Aff3) f64.Mat4 {
	return f64.Mat4{
		m[0], m[1], 0, m[2],
		m[3], m[4], 0, m[5],
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}
