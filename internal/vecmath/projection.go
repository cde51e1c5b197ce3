package vecmath

import "golang.org/x/image/math/f64"

// Orthographic builds a row-major orthographic projection. Passing top=0 and
// bottom=height gives a y-down screen space.
func Orthographic(left, top, right, bottom, near, far float64) f64.Mat4 {
	w := right - left
	h := top - bottom
	d := far - near
	return f64.Mat4{
		2 / w, 0, 0, -(right + left) / w,
		0, 2 / h, 0, -(top + bottom) / h,
		0, 0, -2 / d, -(far + near) / d,
		0, 0, 0, 1,
	}
}

// MulMat4 returns a*b for row-major matrices.
func MulMat4(a, b f64.Mat4) f64.Mat4 {
	var out f64.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[r*4+k] * b[k*4+c]
			}
			out[r*4+c] = sum
		}
	}
	return out
}

// ProjectPoint maps a point through a row-major 4x4 matrix with z=0, w=1.
func ProjectPoint(m f64.Mat4, p Vec2) Vec2 {
	x := m[0]*p.X + m[1]*p.Y + m[3]
	y := m[4]*p.X + m[5]*p.Y + m[7]
	w := m[12]*p.X + m[13]*p.Y + m[15]
	if w != 0 && w != 1 {
		x /= w
		y /= w
	}
	return Vec2{X: x, Y: y}
}
