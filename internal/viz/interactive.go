package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/sim"
)

const (
	stateMenu = iota
	stateSim
)

// picker lists the presets and hands over to a live Model once one is
// chosen.
type picker struct {
	state, cursor int
	presets       []string
	liveModel     Model
	size          *tea.WindowSizeMsg
	err           error
}

func newPicker() picker {
	return picker{presets: config.ListPresets()}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}

	var key tea.KeyMsg
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = &msg
		return m, nil
	case tea.KeyMsg:
		key = msg
	default:
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.start()
	}
	return m, nil
}

func (m picker) start() (tea.Model, tea.Cmd) {
	name := m.presets[m.cursor]
	s, cfg, err := NewSimulator(name)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.liveModel = NewModel(s, cfg.Session(s.Len()), name)
	if m.size != nil {
		live, _ := m.liveModel.Update(*m.size)
		m.liveModel = live.(Model)
	}
	m.state = stateSim
	return m, m.liveModel.Init()
}

// NewSimulator builds a simulator for the named preset.
func NewSimulator(preset string) (*sim.Simulator, *config.Config, error) {
	cfg, err := config.GetPreset(preset)
	if err != nil {
		return nil, nil, err
	}
	bodies, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	integ, err := cfg.NewIntegrator()
	if err != nil {
		return nil, nil, err
	}
	s, err := sim.New(bodies, integ, cfg.Dt)
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}

func (m picker) View() string {
	if m.state == stateSim {
		return m.liveModel.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("ORRERY") + "\n    " + menuSubtle.Render("gravitational n-body simulator") + "\n    " + menuSubtle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s\n", menuCursor.Render("▸"), menuSelected.Render(name)))
		} else {
			b.WriteString(fmt.Sprintf("      %s\n", menuItem.Render(name)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + statusError.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHint("j/k", "navigate") + keyHint("enter", "select") + keyHint("q", "quit") + "\n")
	return b.String()
}

// RunInteractive shows the preset menu, then the live view.
func RunInteractive() error {
	_, err := tea.NewProgram(newPicker(), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
