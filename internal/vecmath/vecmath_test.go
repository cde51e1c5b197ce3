package vecmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-12

func TestVec2_Arithmetic(t *testing.T) {
	a := V(1, 2)
	b := V(4, 6)

	assert.Equal(t, V(5, 8), a.Add(b))
	assert.Equal(t, V(3, 4), b.Sub(a))
	assert.Equal(t, V(2, 4), a.Scale(2))
	assert.Equal(t, V(2, 3), b.Div(2))
	assert.Equal(t, V(-1, -2), a.Neg())
	assert.InDelta(t, 16.0, a.Dot(b), eps)
	assert.InDelta(t, 5.0, b.Sub(a).Len(), eps)
}

func TestVec2_Normalize(t *testing.T) {
	n := V(3, 4).Normalize()
	assert.InDelta(t, 1.0, n.Len(), eps)
	assert.InDelta(t, 0.6, n.X, eps)

	assert.Equal(t, Vec2{}, Vec2{}.Normalize())
}

func TestVec2_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		v     Vec2
		valid bool
	}{
		{"zero", Vec2{}, true},
		{"normal", V(1, -2), true},
		{"NaN", V(math.NaN(), 0), false},
		{"+Inf", V(0, math.Inf(1)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.v.IsValid())
		})
	}
}

func TestLerp(t *testing.T) {
	a, b := V(0, 10), V(10, 20)

	assert.Equal(t, a, Lerp(a, b, 0))
	assert.Equal(t, b, Lerp(a, b, 1))
	assert.InDelta(t, 5.0, Lerp(a, b, 0.5).X, eps)
	assert.InDelta(t, 15.0, Lerp(a, b, 0.5).Y, eps)
	assert.InDelta(t, 2.5, LerpScalar(0, 10, 0.25), eps)
}

func TestSaturate(t *testing.T) {
	assert.Equal(t, 0.0, Saturate(-3))
	assert.Equal(t, 1.0, Saturate(7))
	assert.Equal(t, 0.25, Saturate(0.25))
}

func TestTransform_Composition(t *testing.T) {
	m := Chain(Translate(10, 20), Rotate(math.Pi/2), UniformScale(2))

	p := ApplyPoint(m, V(1, 0))
	assert.InDelta(t, 10.0, p.X, 1e-9)
	assert.InDelta(t, 22.0, p.Y, 1e-9)

	v := ApplyVec(m, V(1, 0))
	assert.InDelta(t, 0.0, v.X, 1e-9)
	assert.InDelta(t, 2.0, v.Y, 1e-9)
}

func TestTransform_IdentityIsNeutral(t *testing.T) {
	m := Rotate(0.3)
	assert.Equal(t, m, Mul(Identity(), m))
	assert.Equal(t, m, Mul(m, Identity()))
}

func TestOrthographic_ScreenSpace(t *testing.T) {
	proj := Orthographic(0, 0, 800, 600, -1, 1)

	topLeft := ProjectPoint(proj, V(0, 0))
	assert.InDelta(t, -1.0, topLeft.X, eps)
	assert.InDelta(t, 1.0, topLeft.Y, eps)

	bottomRight := ProjectPoint(proj, V(800, 600))
	assert.InDelta(t, 1.0, bottomRight.X, eps)
	assert.InDelta(t, -1.0, bottomRight.Y, eps)
}

func TestPromoteAndMul(t *testing.T) {
	world := Chain(Translate(5, 5), UniformScale(3))
	m := MulMat4(Orthographic(0, 0, 10, 10, -1, 1), Promote(world))

	center := ProjectPoint(m, V(0, 0))
	assert.InDelta(t, 0.0, center.X, eps)
	assert.InDelta(t, 0.0, center.Y, eps)
}
