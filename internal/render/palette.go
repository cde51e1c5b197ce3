package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/particlesim/internal/particles"
	"github.com/san-kum/particlesim/internal/vecmath"
)

// LinearColormap returns n colours stepping linearly in RGB from start to end.
func LinearColormap(start, end colorful.Color, n int) []colorful.Color {
	if n <= 1 {
		return []colorful.Color{start}
	}
	out := make([]colorful.Color, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		out[i] = start.BlendRgb(end, t).Clamped()
	}
	return out
}

// Palette colours particles by sprite, brightening with speed.
type Palette struct {
	ramps    [][]colorful.Color
	flat     []colorful.Color
	MaxSpeed float64
}

var spriteBase = []colorful.Color{
	{R: 0.85, G: 0.12, B: 0.10},
	{R: 0.15, G: 0.35, B: 0.90},
	{R: 0.20, G: 0.75, B: 0.25},
}

const rampSize = 16

func NewPalette(sprites int, maxSpeed float64) *Palette {
	p := &Palette{MaxSpeed: maxSpeed}
	for i := 0; i < sprites; i++ {
		base := spriteBase[i%len(spriteBase)]
		if i >= len(spriteBase) {
			h, c, l := base.Hcl()
			base = colorful.Hcl(math.Mod(h+float64(i)*47, 360), c, l).Clamped()
		}
		dark := base.BlendRgb(colorful.Color{}, 0.6)
		light := base.BlendRgb(colorful.Color{R: 1, G: 1, B: 1}, 0.5)
		p.ramps = append(p.ramps, LinearColormap(dark, light, rampSize))
	}
	return p
}

func (p *Palette) Color(sprite uint32, speed float64) colorful.Color {
	if len(p.ramps) == 0 {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return p.Colors()[p.Index(sprite, speed)]
}

// Index locates a colour in the flat table returned by Colors.
func (p *Palette) Index(sprite uint32, speed float64) int {
	if len(p.ramps) == 0 {
		return 0
	}
	t := 1.0
	if p.MaxSpeed > 0 {
		t = vecmath.Saturate(speed / p.MaxSpeed)
	}
	s := int(sprite) % len(p.ramps)
	return s*rampSize + int(math.Round(t*float64(rampSize-1)))
}

// Colors returns every ramp back to back, sprite 0 first.
func (p *Palette) Colors() []colorful.Color {
	if p.flat == nil {
		for _, r := range p.ramps {
			p.flat = append(p.flat, r...)
		}
	}
	return p.flat
}

func (p *Palette) Hex(sprite uint32, speed float64) string {
	return p.Color(sprite, speed).Hex()
}

func (p *Palette) RGB(sprite uint32, speed float64) (r, g, b uint8) {
	return p.Color(sprite, speed).RGB255()
}

// SpeedScale estimates the fastest speed a particle reaches falling the full
// world height from rest. Palettes use it as their MaxSpeed.
func SpeedScale(w *particles.World) float64 {
	h := w.Bounds().Y
	var top float64
	for _, st := range w.Statics() {
		a := st.Gravity.Len() / st.Mass
		top = math.Max(top, math.Sqrt(2*a*h))
	}
	if !(top > 0) || math.IsInf(top, 0) {
		return 1
	}
	return top
}
