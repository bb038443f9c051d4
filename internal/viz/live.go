package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orrery/internal/camera"
	"github.com/san-kum/orrery/internal/physics"
	"github.com/san-kum/orrery/internal/sim"
	"github.com/san-kum/orrery/internal/trajectory"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	maxStepsPerTick = 64

	// Terminal cells are reported in character units; scale them to
	// roughly screen pixels so drag sensitivity matches a window.
	cellPixelsX = 8
	cellPixelsY = 16
)

type TickMsg time.Time

// Model drives a simulator from the bubbletea event loop and draws it through
// the orbit camera.
type Model struct {
	sim           *sim.Simulator
	session       camera.Session
	name          string
	width, height int
	canvas        *Canvas
	running       bool
	stepsPerTick  int
	energy        *trajectory.Ring[float64]
	initialEnergy float64
	err           error
	showHelp      bool
}

func NewModel(s *sim.Simulator, session camera.Session, name string) Model {
	return Model{
		sim:           s,
		session:       session,
		name:          name,
		width:         width,
		height:        height,
		canvas:        NewCanvas(width, height),
		running:       true,
		stepsPerTick:  1,
		energy:        trajectory.New[float64](historyCapacity),
		initialEnergy: physics.TotalEnergy(s.Bodies()),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "up", "k", "+", "=":
			m.apply(camera.ZoomIn{})
		case "down", "j", "-", "_":
			m.apply(camera.ZoomOut{})
		case "]":
			m.stepsPerTick = min(m.stepsPerTick*2, maxStepsPerTick)
		case "[":
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		case "?":
			m.showHelp = !m.showHelp
		default:
			if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
				m.apply(camera.SelectFocus{N: int(key[0] - '0')})
			}
		}

	case tea.MouseMsg:
		if ev, ok := mouseEvent(msg); ok {
			m.apply(ev)
		}

	case tea.WindowSizeMsg:
		m.width = max(msg.Width-46, 20)
		m.height = max(msg.Height-4, 10)
		m.canvas = NewCanvas(m.width, m.height)

	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) apply(ev camera.Event) {
	m.session = m.session.Apply(ev, m.sim.Len())
}

// mouseEvent translates a terminal mouse event into a camera event.
func mouseEvent(msg tea.MouseMsg) (camera.Event, bool) {
	x := float64(msg.X * cellPixelsX)
	y := float64(msg.Y * cellPixelsY)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		return camera.ZoomIn{}, true
	case msg.Button == tea.MouseButtonWheelDown:
		return camera.ZoomOut{}, true
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		return camera.DragStart{X: x, Y: y}, true
	case msg.Action == tea.MouseActionRelease:
		return camera.DragEnd{}, true
	case msg.Action == tea.MouseActionMotion:
		return camera.PointerMove{X: x, Y: y}, true
	}
	return nil, false
}

// step advances the simulation by the current number of ticks per frame.
func (m *Model) step() {
	for i := 0; i < m.stepsPerTick; i++ {
		if err := m.sim.Tick(); err != nil {
			m.err = err
			m.running = false
			return
		}
	}

	e := physics.TotalEnergy(m.sim.Bodies())
	drift := 0.0
	if m.initialEnergy != 0 {
		drift = (e - m.initialEnergy) / math.Abs(m.initialEnergy)
	}
	m.energy.Push(drift)
}

// View renders the TUI interface.
func (m Model) View() string {
	snap := m.sim.Snapshot()
	m.draw(snap)

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(statusError.Render("HALTED") + "\n" + valueStyle.Render(m.err.Error()) + "\n\n")
	case m.running:
		s.WriteString(statusRunning.Render("RUNNING") + fmt.Sprintf("  x%d\n\n", m.stepsPerTick))
	default:
		s.WriteString(statusPaused.Render("PAUSED") + "\n\n")
	}

	if m.energy.Len() > 1 {
		chart := asciigraph.Plot(m.energy.Slice(), asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy drift"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.0f days", snap.Days())) + "\n")
	s.WriteString(labelStyle.Render("Zoom") + valueStyle.Render(fmt.Sprintf("%.2e AU", m.session.Camera.Zoom)) + "\n")
	s.WriteString(labelStyle.Render("Camera") + valueStyle.Render(m.session.Camera.Mode.String()) + "\n")

	s.WriteString("\nBODIES\n")
	for i, b := range snap.Bodies {
		name := b.Name
		if name == "" {
			name = fmt.Sprintf("body %d", i)
		}
		line := fmt.Sprintf("%d %-9s %6.2f AU", i, name, b.DisplayPosition().Len())
		if i == m.session.Focus {
			s.WriteString(focusStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + lipgloss.NewStyle().Foreground(Swatch(b.Color)).Render(line) + "\n")
		}
	}

	if m.showHelp {
		s.WriteString(helpStyle.Render("\ndrag    rotate\n↑/↓     zoom\n0-9     focus body\nspace   pause\n[ ]     slower/faster\nq       quit"))
	} else {
		s.WriteString(helpStyle.Render("\n?:Help SP:Pause Q:Quit"))
	}

	canvasView := canvasStyle.Render(m.canvas.Render())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// draw projects trajectories, rings and bodies onto the canvas.
func (m *Model) draw(snap sim.Snapshot) {
	m.canvas.Clear()
	w, h := m.canvas.PixelSize()

	positions := make([]physics.Vec3, len(snap.Bodies))
	for i, b := range snap.Bodies {
		positions[i] = b.Position
	}
	proj := NewProjector(m.session.View(positions), w, h)

	for _, b := range snap.Bodies {
		drawTrail(m.canvas, proj, b.Trajectory)
	}
	for _, b := range snap.Bodies {
		if b.Rings != nil {
			drawRings(m.canvas, proj, b)
		}
	}
	for _, b := range snap.Bodies {
		x, y, depth, ok := proj.Project(b.DisplayPosition())
		if !ok || !proj.OnScreen(x, y, 0) {
			continue
		}
		r := min(proj.Radius(b.Radius/physics.AU, depth), h/4)
		m.canvas.Disc(x, y, r, Swatch(b.Color))
	}
}

func drawTrail(c *Canvas, proj Projector, pts []physics.Point2) {
	path := make([]physics.Vec3, len(pts))
	for i, p := range pts {
		path[i] = physics.Vec3{p.X, p.Y, 0}
	}
	drawPolyline(c, proj, path, trailColor)
}

// drawRings outlines the inner and outer ring edges in the orbital plane.
func drawRings(c *Canvas, proj Projector, b sim.BodyState) {
	const segments = 48
	center := b.DisplayPosition()
	for _, r := range []float64{b.Rings.Inner, b.Rings.Outer} {
		path := make([]physics.Vec3, segments+1)
		for i := range path {
			a := 2 * math.Pi * float64(i) / segments
			path[i] = center.Add(physics.Vec3{math.Cos(a), math.Sin(a), 0}.Mul(r / physics.AU))
		}
		drawPolyline(c, proj, path, Swatch(b.Color))
	}
}

// drawPolyline joins consecutive visible points. Segments with an end behind
// the eye or far off screen are skipped.
func drawPolyline(c *Canvas, proj Projector, path []physics.Vec3, color lipgloss.Color) {
	px, py, prevOK := 0, 0, false
	for _, p := range path {
		x, y, _, ok := proj.Project(p)
		ok = ok && proj.OnScreen(x, y, 200)
		if ok && prevOK {
			c.DrawLine(px, py, x, y, color)
		}
		px, py, prevOK = x, y, ok
	}
}

// Run starts the live view for s.
func Run(s *sim.Simulator, session camera.Session, name string) error {
	_, err := tea.NewProgram(NewModel(s, session, name), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
