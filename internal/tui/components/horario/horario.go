// Package horario is the weekly schedule builder used on the teacher
// assignment form: one optional time block per working day, with a status
// badge comparing assigned hours against the currículo's required weekly
// hours.
package horario

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avaldiviar/colegio/internal/schedule"
)

// ChangedMsg propagates every matrix edit into the parent form state.
type ChangedMsg struct {
	Matrix  schedule.Matrix
	Summary schedule.Summary
}

var (
	dayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(12)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Width(12)

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(12)

	badgeStyles = map[string]lipgloss.Style{
		schedule.Incompleto: lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")).
			Padding(0, 1),
		schedule.Completo: lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("42")).
			Padding(0, 1),
		schedule.Excedido: lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("196")).
			Padding(0, 1),
		schedule.Neutral: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 1),
	}
)

type field int

const (
	fieldNone field = iota
	fieldStart
	fieldEnd
)

type Model struct {
	matrix   schedule.Matrix
	required float64
	cursor   int
	focus    field
	starts   map[schedule.Day]textinput.Model
	ends     map[schedule.Day]textinput.Model

	// singleRow is the edit-one-row mode: the form edits one
	// day/time/room triple directly and the hour totals are skipped
	// entirely.
	singleRow bool
}

func timeInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "HH:MM"
	ti.Prompt = ""
	ti.CharLimit = 5
	ti.Width = 6
	return ti
}

func New(singleRow bool) Model {
	m := Model{
		matrix:    schedule.Matrix{},
		starts:    make(map[schedule.Day]textinput.Model),
		ends:      make(map[schedule.Day]textinput.Model),
		singleRow: singleRow,
	}
	for _, d := range schedule.Days {
		m.starts[d] = timeInput()
		m.ends[d] = timeInput()
	}
	return m
}

// SetRequired installs the weekly hour target, mirrored from the selected
// currículo row.
func (m *Model) SetRequired(hours float64) {
	m.required = hours
}

func (m Model) Matrix() schedule.Matrix { return m.matrix }

// Summary recomputes totals from scratch; only meaningful in create mode.
func (m Model) Summary() schedule.Summary {
	return schedule.Totals(m.matrix, m.required)
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) day() schedule.Day {
	return schedule.Days[m.cursor]
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up":
		if m.focus == fieldNone && m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down":
		if m.focus == fieldNone && m.cursor < len(schedule.Days)-1 {
			m.cursor++
		}
		return m, nil

	case " ":
		if m.focus != fieldNone {
			break
		}
		d := m.day()
		m.matrix.Toggle(d)
		if !m.matrix.Active(d) {
			// Toggling off discards the times; the inputs follow.
			si := m.starts[d]
			si.SetValue("")
			m.starts[d] = si
			ei := m.ends[d]
			ei.SetValue("")
			m.ends[d] = ei
		}
		return m, m.changed()

	case "tab", "enter":
		d := m.day()
		if !m.matrix.Active(d) {
			return m, nil
		}
		switch m.focus {
		case fieldNone:
			m.focus = fieldStart
			ti := m.starts[d]
			cmd := ti.Focus()
			m.starts[d] = ti
			return m, cmd
		case fieldStart:
			ti := m.starts[d]
			ti.Blur()
			m.starts[d] = ti
			m.focus = fieldEnd
			te := m.ends[d]
			cmd := te.Focus()
			m.ends[d] = te
			return m, cmd
		case fieldEnd:
			te := m.ends[d]
			te.Blur()
			m.ends[d] = te
			m.focus = fieldNone
			return m, nil
		}

	case "esc":
		if m.focus == fieldNone {
			break
		}
		d := m.day()
		ti := m.starts[d]
		ti.Blur()
		m.starts[d] = ti
		te := m.ends[d]
		te.Blur()
		m.ends[d] = te
		m.focus = fieldNone
		return m, nil
	}

	if m.focus == fieldNone {
		return m, nil
	}

	// Route the keystroke into the focused time input; the matrix is
	// re-aggregated on every edit.
	d := m.day()
	var cmd tea.Cmd
	switch m.focus {
	case fieldStart:
		ti := m.starts[d]
		ti, cmd = ti.Update(msg)
		m.starts[d] = ti
		m.matrix.SetTime(d, schedule.FieldStart, ti.Value())
	case fieldEnd:
		te := m.ends[d]
		te, cmd = te.Update(msg)
		m.ends[d] = te
		m.matrix.SetTime(d, schedule.FieldEnd, te.Value())
	}
	return m, tea.Batch(cmd, m.changed())
}

func (m Model) changed() tea.Cmd {
	matrix := make(schedule.Matrix, len(m.matrix))
	for d, b := range m.matrix {
		matrix[d] = b
	}
	summary := m.Summary()
	return func() tea.Msg {
		return ChangedMsg{Matrix: matrix, Summary: summary}
	}
}

func (m Model) View() string {
	rows := make([]string, 0, len(schedule.Days)+2)
	for i, d := range schedule.Days {
		mark := "○"
		if m.matrix.Active(d) {
			mark = "●"
		}
		name := mark + " " + d.String()

		var nameCell string
		switch {
		case i == m.cursor:
			nameCell = cursorStyle.Render(name)
		case m.matrix.Active(d):
			nameCell = dayStyle.Render(name)
		default:
			nameCell = inactiveStyle.Render(name)
		}

		if !m.matrix.Active(d) {
			rows = append(rows, nameCell)
			continue
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			nameCell, m.starts[d].View(), "  –  ", m.ends[d].View()))
	}

	if !m.singleRow {
		rows = append(rows, "", m.badge())
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// badge renders the hour classification; a pure function of the computed
// totals.
func (m Model) badge() string {
	s := m.Summary()
	style := badgeStyles[s.Classification]
	switch s.Classification {
	case schedule.Neutral:
		return style.Render(fmt.Sprintf("%.1f h asignadas", s.AssignedHours))
	case schedule.Incompleto:
		return style.Render(fmt.Sprintf("incompleto · faltan %.1f h de %.1f", s.DeficitHours, s.RequiredHours))
	case schedule.Excedido:
		return style.Render(fmt.Sprintf("excedido · %.1f h sobre %.1f", -s.DeficitHours, s.RequiredHours))
	default:
		return style.Render(fmt.Sprintf("completo · %.1f h", s.AssignedHours))
	}
}
