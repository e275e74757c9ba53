// Package alumnos is the student roster tab: a filterable list plus the
// entry points for creating and voiding records. Data loading stays in the
// root model; this component only renders what it is handed.
package alumnos

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avaldiviar/colegio/internal/models"
)

type AddAlumnoMsg struct{}

type RefreshMsg struct{}

type AnularAlumnoMsg struct {
	ID string
}

type Item struct {
	Alumno models.Alumno
}

func (i Item) Title() string {
	title := i.Alumno.FullName()
	if i.Alumno.Estado == "retirado" {
		title = "[RETIRADO] " + title
	}
	return title
}

func (i Item) Description() string {
	desc := "DNI " + i.Alumno.DNI
	if i.Alumno.Apoderado != "" {
		desc += " · apoderado: " + i.Alumno.Apoderado
	}
	if i.Alumno.Flags.BloqueoFinanciero {
		desc += " · bloqueo financiero"
	}
	return desc
}

func (i Item) FilterValue() string {
	return i.Alumno.FullName() + " " + i.Alumno.DNI
}

type KeyMap struct {
	Add     key.Binding
	Refresh key.Binding
	Anular  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "nuevo alumno"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "recargar"),
		),
		Anular: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "retirar"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
	page models.Page[models.Alumno]
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Alumnos"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Refresh, keys.Anular}
	}

	return Model{list: l, keys: keys}
}

// SetPage replaces the roster with a freshly fetched page.
func (m *Model) SetPage(page models.Page[models.Alumno]) {
	m.page = page
	items := make([]list.Item, len(page.Data))
	for i, a := range page.Data {
		items[i] = Item{Alumno: a}
	}
	m.list.SetItems(items)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.list.FilterState() == list.Filtering {
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddAlumnoMsg{} }
		case key.Matches(msg, m.keys.Refresh):
			return m, func() tea.Msg { return RefreshMsg{} }
		case key.Matches(msg, m.keys.Anular):
			if i, ok := m.list.SelectedItem().(Item); ok {
				// The server owns the rule; a record it flagged as
				// financially locked is not offered for voiding.
				if !i.Alumno.Flags.BloqueoFinanciero && i.Alumno.Estado != "retirado" {
					id := i.Alumno.ID
					return m, func() tea.Msg { return AnularAlumnoMsg{ID: id} }
				}
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  Sin alumnos cargados.\n  Presione 'r' para recargar o 'a' para crear uno."
	}
	footer := ""
	if m.page.LastPage > 1 {
		footer = fmt.Sprintf("\n  página %d de %d (%d en total)", m.page.CurrentPage, m.page.LastPage, m.page.Total)
	}
	return m.list.View() + footer
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
