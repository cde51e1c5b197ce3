package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/particlesim/internal/vecmath"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of Braille cells. Each cell also carries an ink index;
// the last dot drawn into a cell decides its colour.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Ink           [][]int
}

func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 1), max(h, 1)
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Ink:    make([][]int, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Ink[i] = make([]int, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in sub-pixels.
func (c *Canvas) Dots() (int, int) {
	return c.Width * 2, c.Height * 4
}

// Set lights the sub-pixel (x, y) with the given ink.
func (c *Canvas) Set(x, y, ink int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
	c.Ink[row][col] = ink
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return false
	}
	return c.Grid[row][col]&pixelMap[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Ink[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1, ink int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, ink)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawPolygon outlines a closed polygon given in sub-pixel coordinates.
func (c *Canvas) DrawPolygon(pts []vecmath.Vec2, ink int) {
	if len(pts) == 0 {
		return
	}
	if len(pts) == 1 {
		c.Set(round(pts[0].X), round(pts[0].Y), ink)
		return
	}
	prev := pts[len(pts)-1]
	for _, p := range pts {
		c.DrawLine(round(prev.X), round(prev.Y), round(p.X), round(p.Y), ink)
		prev = p
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render colours every non-empty cell with styles[ink]. Runs of equal ink
// share one styled span.
func (c *Canvas) Render(styles []lipgloss.Style) string {
	var b strings.Builder
	var run []rune
	runInk := -1

	flush := func() {
		if len(run) == 0 {
			return
		}
		if runInk >= 0 && runInk < len(styles) {
			b.WriteString(styles[runInk].Render(string(run)))
		} else {
			b.WriteString(string(run))
		}
		run = run[:0]
	}

	for i, row := range c.Grid {
		for j, r := range row {
			ink := -1
			if r != blank {
				ink = c.Ink[i][j]
			}
			if ink != runInk {
				flush()
				runInk = ink
			}
			run = append(run, r)
		}
		flush()
		runInk = -1
		b.WriteByte('\n')
	}
	return b.String()
}

func round(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
