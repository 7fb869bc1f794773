package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leaappelsmeier/hydra/permute"
	"github.com/leaappelsmeier/hydra/shader"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F5FD7")).
			Padding(0, 1)

	varStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F5FD7"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// varRow is one selectable variable with the labels it can cycle through.
type varRow struct {
	variable *permute.Variable
	labels   []string
	choice   int
}

type explorerModel struct {
	env      *environment
	rows     []varRow
	stages   []shader.Stage
	stageIdx int
	selected int
	hash     uint32
	genErr   error
	preview  viewport.Model
	ready    bool
}

func runInteractive(env *environment) error {
	model := newExplorerModel(env)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newExplorerModel(env *environment) *explorerModel {
	m := &explorerModel{env: env}

	env.set.Iterate(func(v *permute.Variable) {
		row := varRow{variable: v}

		if v.Type() == permute.TypeBool {
			row.labels = []string{"FALSE", "TRUE"}
		} else {
			for _, allowed := range v.AllowedValues() {
				row.labels = append(row.labels, allowed.Label)
			}
		}

		// start at the registered default
		if d, ok := v.Default(); ok {
			if encoded, err := valueIndex(v, d); err == nil {
				row.choice = encoded
			}
		}

		m.rows = append(m.rows, row)
	})

	// only offer stages that have content
	for stage := shader.Stage(0); stage < shader.NumStages; stage++ {
		if env.shader.Sections[stage].OriginalText() != "" {
			m.stages = append(m.stages, stage)
		}
	}
	if len(m.stages) == 0 {
		m.stages = []shader.Stage{shader.StagePixel}
	}

	return m
}

// valueIndex finds the label index of a raw variable value.
func valueIndex(v *permute.Variable, value int) (int, error) {
	if v.Type() == permute.TypeBool {
		return value & 1, nil
	}
	for i, allowed := range v.AllowedValues() {
		if allowed.Value == value {
			return i, nil
		}
	}
	return 0, fmt.Errorf("value %d is not allowed for '%s'", value, v.Name())
}

func (m *explorerModel) Init() tea.Cmd {
	return nil
}

func (m *explorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := len(m.rows) + 5
		m.preview = viewport.New(msg.Width, max(msg.Height-headerHeight, 3))
		m.ready = true
		m.regenerate()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < len(m.rows)-1 {
				m.selected++
			}

		case "left", "h":
			m.cycle(-1)

		case "right", "l", "enter", " ":
			m.cycle(1)

		case "tab":
			m.stageIdx = (m.stageIdx + 1) % len(m.stages)
			m.regenerate()

		default:
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// cycle steps the selected variable through its allowed labels.
func (m *explorerModel) cycle(direction int) {
	if len(m.rows) == 0 {
		return
	}

	row := &m.rows[m.selected]
	row.choice = (row.choice + direction + len(row.labels)) % len(row.labels)
	m.regenerate()
}

// regenerate finalizes the current choices and refreshes the preview.
func (m *explorerModel) regenerate() {
	if !m.ready {
		return
	}

	var state permute.State
	for _, row := range m.rows {
		if err := state.SetLabel(row.variable, row.labels[row.choice]); err != nil {
			m.genErr = err
			return
		}
	}

	var sel permute.Selection
	if err := m.env.mgr.FinalizeState(&state, &m.env.set, &sel); err != nil {
		m.genErr = err
		return
	}

	values, err := m.env.lib.ValueTable(m.env.shader, m.env.mgr, &sel)
	if err != nil {
		m.genErr = err
		return
	}

	code, err := m.env.lib.GenerateCode(m.env.shader, m.stages[m.stageIdx], values)
	if err != nil {
		m.genErr = err
		return
	}

	m.genErr = nil
	m.hash = sel.Hash()
	m.preview.SetContent(code)
	m.preview.GotoTop()
}

func (m *explorerModel) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder

	stage := m.stages[m.stageIdx]
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s | %s | 0x%08X",
		m.env.shader.Path, stageLabel(stage), m.hash)))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(helpStyle.Render("this shader exposes no permutation variables"))
		b.WriteString("\n")
	}

	for i, row := range m.rows {
		line := fmt.Sprintf("%s = %s",
			varStyle.Render(row.variable.Name()),
			valueStyle.Render(row.labels[row.choice]))

		if i == m.selected {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.genErr != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("generation failed: %v", m.genErr)))
		b.WriteString("\n")
	} else {
		b.WriteString(m.preview.View())
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ select · ←/→ cycle value · tab stage · pgup/pgdn scroll · q quit"))

	return b.String()
}
