package render

import (
	"math"

	"github.com/san-kum/particlesim/internal/vecmath"
)

// Each sprite id is drawn as a regular polygon inscribed in the unit circle.
var spriteSides = []int{5, 3, 6}

var shapes = buildShapes()

func buildShapes() [][]vecmath.Vec2 {
	out := make([][]vecmath.Vec2, len(spriteSides))
	for i, n := range spriteSides {
		out[i] = regularPolygon(n)
	}
	return out
}

func regularPolygon(n int) []vecmath.Vec2 {
	pts := make([]vecmath.Vec2, n)
	for k := range pts {
		sin, cos := math.Sincos(math.Pi/2 + 2*math.Pi*float64(k)/float64(n))
		pts[k] = vecmath.V(cos, sin)
	}
	return pts
}

// Shape returns the unit outline for a sprite id. The slice is shared.
func Shape(sprite uint32) []vecmath.Vec2 {
	return shapes[int(sprite)%len(shapes)]
}

// Outline writes the sprite outline in screen space into dst.
func (in Instance) Outline(dst []vecmath.Vec2) []vecmath.Vec2 {
	dst = dst[:0]
	for _, p := range Shape(in.Sprite) {
		dst = append(dst, vecmath.ApplyPoint(in.Transform, p))
	}
	return dst
}

// Sides is the vertex count of a sprite's outline.
func Sides(sprite uint32) int {
	return len(Shape(sprite))
}

// PolyAngle is the screen-space angle of the first outline vertex in degrees,
// measured from +x towards +y. A renderer that places vertex k of a regular
// polygon at PolyAngle + k·360/Sides reproduces Outline.
func (in Instance) PolyAngle() float64 {
	centre := vecmath.ApplyPoint(in.Transform, vecmath.V(0, 0))
	first := vecmath.ApplyPoint(in.Transform, Shape(in.Sprite)[0]).Sub(centre)
	return math.Atan2(first.Y, first.X) * 180 / math.Pi
}
