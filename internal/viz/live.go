package viz

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/particlesim/internal/clock"
	"github.com/san-kum/particlesim/internal/metrics"
	"github.com/san-kum/particlesim/internal/particles"
	"github.com/san-kum/particlesim/internal/render"
	"github.com/san-kum/particlesim/internal/vecmath"
)

const (
	defaultCols     = 80
	defaultRows     = 24
	statsWidth      = 40
	frameRate       = 60
	historyCapacity = 240
	minTimeScale    = 0.125
	maxTimeScale    = 8
	gifPath         = "particles.gif"
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives a world from terminal ticks and draws it on a Braille canvas.
type Model struct {
	title   string
	world   *particles.World
	initial particles.Snapshot
	metrics metrics.Set
	timer   *clock.FrameTimer

	adapter *render.Adapter
	palette *render.Palette
	inks    []lipgloss.Style
	canvas  *Canvas
	outline []vecmath.Vec2

	// world units per Braille dot, fixed at start so a resize changes how
	// much of the world is visible, not the particle size
	unitsPerDot float64

	theme     Theme
	st        styles
	alpha     float64
	running   bool
	timeScale float64
	speeds    []float64
	recorder  *Recorder
	showHelp  bool
	status    string
}

// NewModel wraps w. A nil src uses the system clock.
func NewModel(w *particles.World, set metrics.Set, title string, src clock.Source) Model {
	if set != nil {
		w.AddObserver(set)
	}
	canvas := NewCanvas(defaultCols, defaultRows)
	dotsX, _ := canvas.Dots()
	palette := render.NewPalette(particles.SpriteCount, render.SpeedScale(w))

	inks := make([]lipgloss.Style, 0, len(palette.Colors()))
	for _, c := range palette.Colors() {
		inks = append(inks, lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())))
	}

	m := Model{
		title:       title,
		world:       w,
		initial:     w.Snapshot(),
		metrics:     set,
		timer:       clock.NewFrameTimer(src),
		adapter:     render.NewAdapter(),
		palette:     palette,
		inks:        inks,
		canvas:      canvas,
		unitsPerDot: w.Bounds().X / float64(dotsX),
		theme:       Themes[0],
		st:          newStyles(Themes[0]),
		alpha:       w.Alpha(),
		running:     true,
		timeScale:   1,
		speeds:      make([]float64, 0, historyCapacity),
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recorder != nil {
				m.toggleRecording()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
			if m.running {
				m.timer.Reset()
			}
		case "r":
			m.reset()
		case "+", "=":
			m.timeScale = min(m.timeScale*2, maxTimeScale)
		case "-", "_":
			m.timeScale = max(m.timeScale/2, minTimeScale)
		case "g":
			m.toggleRecording()
		case "t":
			m.theme = NextTheme(m.theme)
			m.st = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width-statsWidth-4, msg.Height-1)

	case TickMsg:
		dt := m.timer.Tick()
		if m.running {
			m.alpha = m.world.Update(dt * m.timeScale)
			m.recordSpeed()
		}
		m.draw()
		if m.recorder != nil {
			m.recorder.Capture(m.canvas)
		}
		return m, tick()
	}
	return m, nil
}

// resize swaps the canvas and grows or shrinks the world to match.
func (m *Model) resize(cols, rows int) {
	m.canvas = NewCanvas(cols, rows)
	dx, dy := m.canvas.Dots()
	width, height := float64(dx)*m.unitsPerDot, float64(dy)*m.unitsPerDot
	m.world.Resize(width, height)
	slog.Debug("window resized", "cols", m.canvas.Width, "rows", m.canvas.Height,
		"width", width, "height", height)
}

func (m *Model) reset() {
	bounds := m.world.Bounds()
	if err := m.world.Restore(m.initial); err != nil {
		m.status = err.Error()
		return
	}
	m.world.Resize(bounds.X, bounds.Y)
	if m.metrics != nil {
		m.metrics.Reset()
	}
	m.speeds = m.speeds[:0]
	m.alpha = m.world.Alpha()
	m.timer.Reset()
}

func (m *Model) toggleRecording() {
	if m.recorder == nil {
		bg, _ := colorful.Hex(string(m.theme.Background))
		m.recorder = NewRecorder(bg, m.palette.Colors())
		m.status = ""
		return
	}
	if err := m.recorder.Save(gifPath); err != nil {
		m.status = err.Error()
	} else {
		m.status = fmt.Sprintf("saved %d frames to %s", m.recorder.Len(), gifPath)
		slog.Info("recording saved", "path", gifPath, "frames", m.recorder.Len())
	}
	m.recorder = nil
}

func (m *Model) recordSpeed() {
	if m.metrics == nil {
		return
	}
	ms := m.metrics.Get("mean_speed")
	if ms == nil {
		return
	}
	if len(m.speeds) == historyCapacity {
		copy(m.speeds, m.speeds[1:])
		m.speeds = m.speeds[:historyCapacity-1]
	}
	m.speeds = append(m.speeds, ms.Value())
}

// draw projects every interpolated instance through the orthographic
// projection and maps clip space onto canvas dots.
func (m *Model) draw() {
	m.canvas.Clear()
	proj := render.Projection(m.world)
	dx, dy := m.canvas.Dots()
	w, h := float64(dx), float64(dy)

	for _, in := range m.adapter.Build(m.world, m.alpha) {
		clip := in.Clip(proj)
		m.outline = m.outline[:0]
		for _, p := range render.Shape(in.Sprite) {
			ndc := vecmath.ProjectPoint(clip, p)
			m.outline = append(m.outline, vecmath.V((ndc.X+1)/2*w, (1-ndc.Y)/2*h))
		}
		m.canvas.DrawPolygon(m.outline, m.palette.Index(in.Sprite, in.Speed))
	}
}

func (m Model) View() string {
	canvasView := m.st.canvas.Render(m.canvas.Render(m.inks))

	var s strings.Builder
	s.WriteString(m.st.header.Render(strings.ToUpper(m.title)) + "\n")

	status := m.st.running.Render("RUNNING")
	if !m.running {
		status = m.st.paused.Render("PAUSED")
	}
	if m.recorder != nil {
		status += "  " + m.st.recording.Render(fmt.Sprintf("● REC %d", m.recorder.Len()))
	}
	s.WriteString(status + "\n\n")

	bounds := m.world.Bounds()
	row := func(label, value string) {
		s.WriteString(m.st.label.Render(label) + m.st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.world.SimTime()))
	row("Steps", fmt.Sprintf("%d", m.world.Steps()))
	row("Alpha", ProgressBar(m.alpha, 10)+fmt.Sprintf(" %.2f", m.alpha))
	row("Particles", fmt.Sprintf("%d", m.world.Len()))
	row("Recycled", fmt.Sprintf("%d", m.world.Recycled()))
	row("Scale", fmt.Sprintf("x%.3g", m.timeScale))
	row("Bounds", fmt.Sprintf("%.0fx%.0f", bounds.X, bounds.Y))

	if m.metrics != nil {
		s.WriteString("\n")
		values := m.metrics.Values()
		for _, name := range m.metrics.Names() {
			row(name, fmt.Sprintf("%.3g", values[name]))
		}
	}

	if len(m.speeds) > 1 {
		chart := asciigraph.Plot(m.speeds,
			asciigraph.Height(4),
			asciigraph.Width(statsWidth-12),
			asciigraph.Caption("mean speed"))
		s.WriteString("\n" + m.st.graph.Render(chart) + "\n")
	}

	if m.status != "" {
		s.WriteString("\n" + m.st.paused.Render(m.status) + "\n")
	}
	s.WriteString(m.st.help.Render("SP:Pause R:Reset Q:Quit\n+/-:Speed G:Record T:Theme ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.st.stats.Render(s.String()))
	if m.showHelp {
		return m.st.overlay.Render(helpText) + "\n" + mainView
	}
	return mainView
}

const helpText = `KEYBOARD SHORTCUTS

Space  pause / resume
R      reset to the first frame
+ / -  double / halve time scale
G      start / stop GIF recording
T      cycle themes
?      toggle this help
Q      quit`

// Run starts the live view full screen.
func Run(w *particles.World, set metrics.Set, title string) error {
	p := tea.NewProgram(NewModel(w, set, title, nil), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
