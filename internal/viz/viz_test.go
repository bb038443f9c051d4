package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/orrery/internal/camera"
	"github.com/san-kum/orrery/internal/physics"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)
	w, h := c.PixelSize()
	if w != 8 || h != 8 {
		t.Fatalf("pixel size = %dx%d", w, h)
	}

	c.Set(0, 0, "#ff0000")
	c.Set(1, 3, "")
	if c.Grid[0][0] != 0x2800|0x1|0x80 {
		t.Errorf("cell = %U", c.Grid[0][0])
	}
	if c.Colors[0][0] != "#ff0000" {
		t.Errorf("color = %q", c.Colors[0][0])
	}
	if !c.IsSet(1, 3) || c.IsSet(1, 2) {
		t.Error("IsSet disagrees with Set")
	}

	c.Set(-1, 0, "")
	c.Set(100, 100, "")

	c.Clear()
	if c.IsSet(0, 0) || c.Colors[0][0] != "" {
		t.Error("clear left pixels behind")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 3)
	c.DrawLine(0, 5, 19, 5, "")
	for x := 0; x < 20; x++ {
		if !c.IsSet(x, 5) {
			t.Errorf("pixel %d not set", x)
		}
	}
}

func TestCanvasDisc(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Disc(10, 10, 2, "")
	if !c.IsSet(10, 10) || !c.IsSet(12, 10) || c.IsSet(12, 12) {
		t.Error("disc shape wrong")
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(3, 1)
	c.Set(0, 0, "#00ff00")
	out := c.Render()
	if !strings.HasSuffix(out, "\n") || !strings.Contains(out, "⠀") {
		t.Errorf("unexpected render %q", out)
	}
	if got := c.String(); got != "⠁⠀⠀\n" {
		t.Errorf("String() = %q", got)
	}
}

func TestProjectorCentersTarget(t *testing.T) {
	cam := camera.New(1, camera.DefaultLimits())
	tr := cam.View(physics.Vec3{physics.AU, 0, 0})
	p := NewProjector(tr, 160, 96)

	x, y, depth, ok := p.Project(tr.Target)
	if !ok || x != 80 || y != 48 {
		t.Errorf("target projected to (%d, %d) ok=%v", x, y, ok)
	}
	if depth < 0.99 || depth > 1.01 {
		t.Errorf("depth = %g, want zoom distance 1", depth)
	}

	if _, _, _, ok := p.Project(tr.Eye.Add(tr.Eye.Sub(tr.Target))); ok {
		t.Error("point behind the eye reported visible")
	}

	if r := p.Radius(0.1, 1); r <= 0 {
		t.Errorf("radius = %d", r)
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	s, cfg, err := NewSimulator("earth_sun")
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(s, cfg.Session(s.Len()), "earth_sun")
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelFocusKeys(t *testing.T) {
	m := newTestModel(t)
	if m.session.Focus != 1 {
		t.Fatalf("initial focus %d", m.session.Focus)
	}

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("0")})
	if m.session.Focus != 0 {
		t.Errorf("focus = %d, want 0", m.session.Focus)
	}

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("7")})
	if m.session.Focus != 0 {
		t.Errorf("out of range key moved focus to %d", m.session.Focus)
	}
}

func TestModelZoomKeys(t *testing.T) {
	m := newTestModel(t)
	z := m.session.Camera.Zoom

	m = update(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.session.Camera.Zoom <= z {
		t.Errorf("zoom out: %g -> %g", z, m.session.Camera.Zoom)
	}
	m = update(m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.session.Camera.Zoom >= z {
		t.Errorf("zoom in: %g -> %g", z, m.session.Camera.Zoom)
	}
}

func TestModelMouseDrag(t *testing.T) {
	m := newTestModel(t)

	m = update(m, tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.session.Camera.Mode != camera.Dragging {
		t.Fatal("press did not start a drag")
	}
	m = update(m, tea.MouseMsg{X: 20, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if m.session.Camera.Theta <= 0 {
		t.Errorf("theta = %g after drag right", m.session.Camera.Theta)
	}
	m = update(m, tea.MouseMsg{X: 20, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.session.Camera.Mode != camera.Idle {
		t.Error("release did not end the drag")
	}
}

func TestModelTickAndPause(t *testing.T) {
	m := newTestModel(t)

	m = update(m, TickMsg(time.Now()))
	if m.sim.Ticks() != 1 {
		t.Errorf("ticks = %d after one frame", m.sim.Ticks())
	}

	m = update(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	m = update(m, TickMsg(time.Now()))
	if m.sim.Ticks() != 1 {
		t.Errorf("paused model advanced to %d ticks", m.sim.Ticks())
	}

	m = update(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")})
	m = update(m, TickMsg(time.Now()))
	if m.sim.Ticks() != 3 {
		t.Errorf("ticks = %d, want 3", m.sim.Ticks())
	}
	if m.energy.Len() != 2 {
		t.Errorf("energy samples = %d", m.energy.Len())
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 5; i++ {
		m = update(m, TickMsg(time.Now()))
	}
	out := m.View()
	for _, want := range []string{"EARTH_SUN", "RUNNING", "earth", "5 days"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPickerStartsPreset(t *testing.T) {
	p := newPicker()
	next, _ := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p = next.(picker)
	if p.state != stateSim || p.err != nil {
		t.Fatalf("picker did not start: state=%d err=%v", p.state, p.err)
	}
	if p.liveModel.name != p.presets[0] {
		t.Errorf("started %s, want %s", p.liveModel.name, p.presets[0])
	}
}

func TestPickerKeepsWindowSize(t *testing.T) {
	p := newPicker()
	next, _ := p.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	p = next.(picker)
	next, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p = next.(picker)

	if p.liveModel.width != 74 || p.liveModel.height != 36 {
		t.Errorf("live view is %dx%d, want 74x36", p.liveModel.width, p.liveModel.height)
	}
	if w, h := p.liveModel.canvas.Width, p.liveModel.canvas.Height; w != 74 || h != 36 {
		t.Errorf("canvas is %dx%d, want 74x36", w, h)
	}
}
