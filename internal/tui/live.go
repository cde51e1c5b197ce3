// Package tui renders headless runs as plain ANSI frames, for terminals or
// logs where a full-screen program is not wanted.
package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/particlesim/internal/particles"
	"github.com/san-kum/particlesim/internal/render"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// one glyph per sprite id
var glyphs = []rune{'*', '^', 'o'}

type LiveRenderer struct {
	out       io.Writer
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
	adapter   *render.Adapter
	frames    int
	total     int
}

// NewLiveRenderer draws at most frameRate frames per wall-clock second;
// frameRate <= 0 draws every frame. total is the expected frame count for
// the progress bar.
func NewLiveRenderer(out io.Writer, frameRate, total int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	fmt.Fprint(out, hideCursor)
	return &LiveRenderer{
		out:       out,
		frameRate: frameRate,
		canvas:    canvas,
		adapter:   render.NewAdapter(),
		total:     total,
	}
}

// OnFrame matches experiment.FrameFunc.
func (r *LiveRenderer) OnFrame(w *particles.World, alpha float64) {
	r.frames++
	if r.frameRate > 0 {
		if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) && r.frames < r.total {
			return
		}
		r.lastFrame = time.Now()
	}

	r.clear()
	b := w.Bounds()
	for _, in := range r.adapter.Build(w, alpha) {
		x := int(in.Position.X / b.X * width)
		y := int(in.Position.Y / b.Y * height)
		r.set(x, y, glyphs[int(in.Sprite)%len(glyphs)])
	}
	r.render(w)
}

func (r *LiveRenderer) Close() {
	fmt.Fprint(r.out, showCursor)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) render(w *particles.World) {
	var sb strings.Builder
	sb.WriteString(clearScreen)
	sb.WriteString("+" + strings.Repeat("-", width) + "+\n")
	for _, row := range r.canvas {
		sb.WriteString("|" + string(row) + "|\n")
	}
	sb.WriteString("+" + strings.Repeat("-", width) + "+\n")

	progress := 0.0
	if r.total > 0 {
		progress = float64(r.frames) / float64(r.total)
	}
	bar := int(progress * 30)
	bar = min(max(bar, 0), 30)
	fmt.Fprintf(&sb, "[%s%s] %3.0f%%  t=%.2fs  steps=%d  recycled=%d\n",
		strings.Repeat("#", bar), strings.Repeat(".", 30-bar), progress*100,
		w.SimTime(), w.Steps(), w.Recycled())

	io.WriteString(r.out, sb.String())
}
