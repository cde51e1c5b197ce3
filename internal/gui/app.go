package gui

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/particlesim/internal/metrics"
	"github.com/san-kum/particlesim/internal/particles"
	"github.com/san-kum/particlesim/internal/render"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

const (
	maxTelemetry = 200
	minTimeScale = 0.125
	maxTimeScale = 8
)

// App owns the window and drives the world from raylib's frame time.
type App struct {
	World   *particles.World
	Metrics metrics.Set
	Title   string

	Running   bool
	TimeScale float64
	Alpha     float64
	ShowHUD   bool
	Outlines  bool

	initial   particles.Snapshot
	adapter   *render.Adapter
	palette   *render.Palette
	colors    []rl.Color
	telemetry []float64
}

func NewApp(w *particles.World, set metrics.Set, title string) *App {
	if set != nil {
		w.AddObserver(set)
	}
	palette := render.NewPalette(particles.SpriteCount, render.SpeedScale(w))
	colors := make([]rl.Color, 0, len(palette.Colors()))
	for _, c := range palette.Colors() {
		r, g, b := c.RGB255()
		colors = append(colors, rl.NewColor(r, g, b, 255))
	}
	return &App{
		World:     w,
		Metrics:   set,
		Title:     title,
		Running:   true,
		TimeScale: 1,
		Alpha:     w.Alpha(),
		ShowHUD:   true,
		initial:   w.Snapshot(),
		adapter:   render.NewAdapter(),
		palette:   palette,
		colors:    colors,
		telemetry: make([]float64, 0, maxTelemetry),
	}
}

// initWindow opens a resizable window the size of the world.
func initWindow(width, height int32, title string) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(width, height, title)
	rl.SetTargetFPS(int32(particles.DefaultRate))
	rl.SetExitKey(rl.KeyQ)
}

// Run opens the window and blocks until it is closed.
func Run(w *particles.World, set metrics.Set, title string) {
	b := w.Bounds()
	initWindow(int32(b.X), int32(b.Y), title)
	defer rl.CloseWindow()

	NewApp(w, set, title).RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if rl.IsWindowResized() {
		width, height := float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
		a.World.Resize(width, height)
		slog.Debug("window resized", "width", width, "height", height)
	}

	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		a.Running = !a.Running
	case rl.IsKeyPressed(rl.KeyR):
		a.reset()
	case rl.IsKeyPressed(rl.KeyEqual):
		a.TimeScale = min(a.TimeScale*2, maxTimeScale)
	case rl.IsKeyPressed(rl.KeyMinus):
		a.TimeScale = max(a.TimeScale/2, minTimeScale)
	case rl.IsKeyPressed(rl.KeyH):
		a.ShowHUD = !a.ShowHUD
	case rl.IsKeyPressed(rl.KeyO):
		a.Outlines = !a.Outlines
	}

	if !a.Running {
		return
	}
	a.Alpha = a.World.Update(float64(rl.GetFrameTime()) * a.TimeScale)

	if a.Metrics != nil {
		if m := a.Metrics.Get("mean_speed"); m != nil {
			if len(a.telemetry) == maxTelemetry {
				copy(a.telemetry, a.telemetry[1:])
				a.telemetry = a.telemetry[:maxTelemetry-1]
			}
			a.telemetry = append(a.telemetry, m.Value())
		}
	}
}

func (a *App) reset() {
	bounds := a.World.Bounds()
	if err := a.World.Restore(a.initial); err != nil {
		slog.Warn("reset failed", "err", err)
		return
	}
	a.World.Resize(bounds.X, bounds.Y)
	if a.Metrics != nil {
		a.Metrics.Reset()
	}
	a.telemetry = a.telemetry[:0]
	a.Alpha = a.World.Alpha()
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawParticles()
	if a.ShowHUD {
		a.DrawHUD()
		a.DrawTelemetry()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	lines := []string{
		a.Title,
		fmt.Sprintf("time      %.2fs", a.World.SimTime()),
		fmt.Sprintf("steps     %d", a.World.Steps()),
		fmt.Sprintf("alpha     %.2f", a.Alpha),
		fmt.Sprintf("particles %d", a.World.Len()),
		fmt.Sprintf("recycled  %d", a.World.Recycled()),
		fmt.Sprintf("scale     x%.3g", a.TimeScale),
	}
	if !a.Running {
		lines = append(lines, "PAUSED")
	}
	for i, line := range lines {
		col := ColText
		if i == 0 {
			col = ColAccent
		}
		rl.DrawText(line, 16, int32(16+i*20), 18, col)
	}
	rl.DrawText("SPACE pause  R reset  +/- speed  O outlines  H hud  Q quit",
		16, int32(rl.GetScreenHeight()-28), 16, ColTextDim)
	rl.DrawFPS(int32(rl.GetScreenWidth()-90), 16)
}

// DrawTelemetry plots the mean speed history in the top-right corner.
func (a *App) DrawTelemetry() {
	if len(a.telemetry) < 2 {
		return
	}
	const w, h = 200, 60
	x0 := float32(rl.GetScreenWidth() - w - 16)
	y0 := float32(48)

	top := a.telemetry[0]
	for _, v := range a.telemetry {
		top = max(top, v)
	}
	if top == 0 {
		top = 1
	}

	points := make([]rl.Vector2, len(a.telemetry))
	for i, v := range a.telemetry {
		x := x0 + float32(i)/float32(maxTelemetry-1)*w
		y := y0 + h - float32(v/top)*h
		points[i] = rl.NewVector2(x, y)
	}
	rl.DrawLineStrip(points, ColAccent)
	rl.DrawText("mean speed", int32(x0), int32(y0+h+4), 14, ColTextDim)
}
