package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/particlesim/internal/particles"
	"github.com/san-kum/particlesim/internal/render"
	"github.com/san-kum/particlesim/internal/viz"
)

const svgBackground = "#0a0a0a"

func svgHeader(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, svgBackground)
}

// FrameToSVG draws one frame of instances in screen space. Each sprite outline
// is emitted once in <defs> and placed with the instance's affine transform.
func FrameToSVG(instances []render.Instance, width, height float64, palette *render.Palette) string {
	var sb strings.Builder
	svgHeader(&sb, width, height)

	sb.WriteString("<defs>\n")
	for sprite := uint32(0); sprite < particles.SpriteCount; sprite++ {
		fmt.Fprintf(&sb, `<polygon id="sprite%d" points="`, sprite)
		for i, p := range render.Shape(sprite) {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.4f,%.4f", p.X, p.Y)
		}
		sb.WriteString("\"/>\n")
	}
	sb.WriteString("</defs>\n")

	for _, in := range instances {
		m := in.Transform
		// SVG matrix(a b c d e f) is column-major: x' = a·x + c·y + e
		fmt.Fprintf(&sb, `<use href="#sprite%d" transform="matrix(%.4f %.4f %.4f %.4f %.2f %.2f)" fill="%s"/>
`, in.Sprite%particles.SpriteCount, m[0], m[3], m[1], m[4], m[2], m[5], palette.Hex(in.Sprite, in.Speed))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// CanvasToSVG converts a Braille canvas to SVG format, one circle per dot.
// inks holds a fill colour per canvas ink; cells with an unknown ink are
// drawn white.
func CanvasToSVG(canvas *viz.Canvas, scale float64, inks []string) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	svgHeader(&sb, width, height)

	dotRadius := scale * 0.4
	dx, dy := canvas.Dots()
	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			fill := "#ffffff"
			if ink := canvas.Ink[y/4][x/2]; ink >= 0 && ink < len(inks) {
				fill = inks[ink]
			}
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius, fill)
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots ys against xs as a polyline scaled to fit with a 10%
// margin.
func SeriesToSVG(xs, ys []float64, width, height int, strokeColor string) string {
	n := min(len(xs), len(ys))
	if n < 2 {
		return ""
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 0; i < n; i++ {
		minX, maxX = min(minX, xs[i]), max(maxX, xs[i])
		minY, maxY = min(minY, ys[i]), max(maxY, ys[i])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	svgHeader(&sb, float64(width), float64(height))
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)

	for i := 0; i < n; i++ {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
