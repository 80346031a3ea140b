package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dpsim/internal/pendulum"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	statsWidth      = 45

	// canvasStyle padding, in cells.
	padX = 2
	padY = 1
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(padY, padX)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(statsWidth)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type TickMsg time.Time

// Options configure the live host.
type Options struct {
	Title        string
	Dt           float64
	FPS          int
	GrabRadius   float64
	ClearOnReset bool
}

// viewport maps pendulum screen units onto canvas sub-pixels. The pivot sits
// at the canvas center and the full reach of both links fits inside.
type viewport struct {
	origin pendulum.Point
	cx, cy float64
	scale  float64
}

func newViewport(st *pendulum.State, w, h int) viewport {
	cw, ch := float64(w*2), float64(h*4)
	reach := st.L1 + st.L2
	return viewport{
		origin: st.Origin,
		cx:     cw / 2,
		cy:     ch / 2,
		scale:  0.95 * math.Min(cw, ch) / 2 / reach,
	}
}

func (v viewport) toCanvas(p pendulum.Point) (int, int) {
	x := v.cx + (p.X-v.origin.X)*v.scale
	y := v.cy + (p.Y-v.origin.Y)*v.scale
	return int(math.Round(x)), int(math.Round(y))
}

func (v viewport) toWorld(x, y float64) pendulum.Point {
	return pendulum.Point{
		X: v.origin.X + (x-v.cx)/v.scale,
		Y: v.origin.Y + (y-v.cy)/v.scale,
	}
}

// Model steps one pendulum per frame and renders it.
type Model struct {
	st            *pendulum.State
	opts          Options
	t             float64
	width, height int
	canvas        *Canvas
	view          viewport
	running       bool
	dragging      bool
	showEnergy    bool
	energyHistory []float64
	omegaHistory  []float64
}

func NewModel(st *pendulum.State, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 20
	}
	if opts.Title == "" {
		opts.Title = "double pendulum"
	}
	return Model{
		st:            st,
		opts:          opts,
		width:         width,
		height:        height,
		canvas:        NewCanvas(width, height),
		view:          newViewport(st, width, height),
		running:       true,
		showEnergy:    true,
		energyHistory: make([]float64, 0, historyCapacity),
		omegaHistory:  make([]float64, 0, historyCapacity),
	}
}

// Run starts the live host with mouse tracking and blocks until it exits.
func Run(st *pendulum.State, opts Options) error {
	p := tea.NewProgram(NewModel(st, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "c":
			m.st.ClearTrail()
		case "t":
			NextTheme()
		case "e":
			m.showEnergy = !m.showEnergy
		}
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if m.running && !m.dragging {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// mouse implements grab, drag and release of the lower bob. While dragging
// the pendulum is not stepped.
func (m *Model) mouse(msg tea.MouseMsg) {
	p := m.cellToWorld(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && m.st.NearBob(p, m.grabRadius()) {
			m.dragging = true
		}
	case tea.MouseActionMotion:
		if m.dragging {
			m.st.Reangle(p)
		}
	case tea.MouseActionRelease:
		m.dragging = false
	}
}

// grabRadius is never smaller than one terminal cell, so the bob can be
// picked up at any zoom.
func (m *Model) grabRadius() float64 {
	return math.Max(m.opts.GrabRadius, 4/m.view.scale)
}

// cellToWorld returns the pendulum point at the center of a terminal cell.
func (m *Model) cellToWorld(col, row int) pendulum.Point {
	x := float64((col-padX)*2) + 1
	y := float64((row-padY)*4) + 2
	return m.view.toWorld(x, y)
}

// worldToCell is the inverse of cellToWorld up to cell resolution.
func (m *Model) worldToCell(p pendulum.Point) (int, int) {
	x, y := m.view.toCanvas(p)
	return x/2 + padX, y/4 + padY
}

func (m *Model) resize(w, h int) {
	cw := max(w-statsWidth-2*padX-2, 20)
	ch := max(h-2*padY, 10)
	m.width, m.height = cw, ch
	m.canvas = NewCanvas(cw, ch)
	m.view = newViewport(m.st, cw, ch)
}

func (m *Model) step() {
	pendulum.Step(m.st, m.opts.Dt)
	m.t += m.opts.Dt

	m.energyHistory = appendCapped(m.energyHistory, m.st.Energy())
	m.omegaHistory = appendCapped(m.omegaHistory, m.st.Omega2)
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// reset restores the configured angles. The trail is kept unless the host
// was configured to clear it on reset.
func (m *Model) reset() {
	m.st.Reset()
	if m.opts.ClearOnReset {
		m.st.ClearTrail()
	}
	m.t = 0
	m.dragging = false
	m.energyHistory = m.energyHistory[:0]
	m.omegaHistory = m.omegaHistory[:0]
}

func (m *Model) draw() {
	m.canvas.Clear()

	trail := m.st.Trail()
	for i := 0; i < trail.Len(); i++ {
		p := trail.At(i)
		if !p.IsValid() {
			continue
		}
		x, y := m.view.toCanvas(p)
		m.canvas.Set(x, y)
	}

	if !m.st.IsValid() {
		return
	}

	ox, oy := m.view.toCanvas(m.st.Origin)
	j1x, j1y := m.view.toCanvas(m.st.Joint1())
	j2x, j2y := m.view.toCanvas(m.st.Joint2())

	m.canvas.DrawLine(ox, oy, j1x, j1y)
	m.canvas.DrawLine(j1x, j1y, j2x, j2y)
	m.canvas.DrawDisc(j1x, j1y, 1)
	m.canvas.DrawDisc(j2x, j2y, 2)
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()

	theme := CurrentTheme
	canvasView := canvasStyle.Foreground(theme.Rods).Render(m.canvas.String())

	header := lipgloss.NewStyle().Foreground(theme.Title).Bold(true).MarginBottom(1)
	value := lipgloss.NewStyle().Foreground(theme.Text)

	var s strings.Builder
	s.WriteString(header.Render(strings.ToUpper(m.opts.Title)) + "\n")

	switch {
	case m.dragging:
		s.WriteString(StatusDragging.Render("DRAGGING"))
	case !m.st.IsValid():
		s.WriteString(StatusDragging.Render("DIVERGED (r to reset)"))
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING"))
	default:
		s.WriteString(StatusPaused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	energies := finite(m.energyHistory)
	if m.showEnergy && len(energies) > 1 {
		chart := asciigraph.Plot(energies, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, v string) {
		s.WriteString(labelStyle.Render(label) + value.Render(v) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.t))
	row("θ1", fmt.Sprintf("%8.2f°", pendulum.Degrees(m.st.Theta1)))
	row("θ2", fmt.Sprintf("%8.2f°", pendulum.Degrees(m.st.Theta2)))
	row("ω1", fmt.Sprintf("%8.3f rad/s", m.st.Omega1))
	row("ω2", fmt.Sprintf("%8.3f rad/s", m.st.Omega2))
	row("Energy", fmt.Sprintf("%.2f", m.st.Energy()))
	row("Trail", fmt.Sprintf("%d", m.st.Trail().Len()))
	s.WriteString(labelStyle.Render("ω2 hist") + SparklineChart(m.omegaHistory, 24) + "\n")

	s.WriteString("\n" + Separator(statsWidth-6) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause R:Reset C:Clear Q:Quit\nT:Theme  E:Energy  Mouse:Drag bob"))

	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
