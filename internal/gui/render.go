package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/particlesim/internal/render"
	"github.com/san-kum/particlesim/internal/vecmath"
)

// drawParticles draws each interpolated instance as a filled regular polygon,
// optionally with the transformed outline on top.
func (a *App) drawParticles() {
	var outline []vecmath.Vec2
	var strip []rl.Vector2

	for _, in := range a.adapter.Build(a.World, a.Alpha) {
		col := a.colors[a.palette.Index(in.Sprite, in.Speed)]
		centre := rl.NewVector2(float32(in.Position.X), float32(in.Position.Y))
		rl.DrawPoly(centre, int32(render.Sides(in.Sprite)), float32(in.Scale), float32(in.PolyAngle()), col)

		if !a.Outlines {
			continue
		}
		outline = in.Outline(outline)
		strip = strip[:0]
		for _, p := range outline {
			strip = append(strip, rl.NewVector2(float32(p.X), float32(p.Y)))
		}
		strip = append(strip, strip[0])
		rl.DrawLineStrip(strip, ColAccent)
	}
}
