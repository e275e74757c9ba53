// Package matricula is the enrollment tab: four searchable references
// (año, alumno, grado, sección) where sección depends on the chosen grado,
// plus client-side payload validation before the submit round trip.
package matricula

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avaldiviar/colegio/internal/constants"
	"github.com/avaldiviar/colegio/internal/models"
	"github.com/avaldiviar/colegio/internal/tui/components/combobox"
	"github.com/avaldiviar/colegio/internal/validation"
)

// SubmitMsg asks the root model to store the enrollment.
type SubmitMsg struct {
	Payload validation.MatriculaPayload
}

// Fetchers are the per-field search functions, wired from the API client.
type Fetchers struct {
	Anio    combobox.FetchFunc
	Alumno  combobox.FetchFunc
	Grado   combobox.FetchFunc
	Seccion combobox.FetchFunc
}

const (
	fieldAnio = iota
	fieldAlumno
	fieldGrado
	fieldSeccion
	fieldSubmit
	numFields
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(10)

	submitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	submitFocusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true).
				Padding(0, 1)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	dniStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

type Model struct {
	fetchers Fetchers
	anio     combobox.Model
	alumno   combobox.Model
	grado    combobox.Model
	seccion  combobox.Model
	focus    int

	payload validation.MatriculaPayload
	// dni is mirrored from the alumno candidate purely for display.
	dni  string
	errs []validation.FieldError
}

func New(f Fetchers) Model {
	m := Model{fetchers: f}
	m.anio = combobox.New(constants.KindAnio, "Buscar año académico", f.Anio)
	m.alumno = combobox.New(constants.KindAlumno, "Buscar alumno por nombre o DNI", f.Alumno)
	m.grado = combobox.New(constants.KindGrado, "Buscar grado", f.Grado)
	m.seccion = combobox.New(constants.KindSeccion, "Buscar sección", f.Seccion,
		combobox.WithParent("grado_id", "Seleccione un grado primero"))
	return m
}

// Preload seeds a field's browse cache, typically from the recents store.
func (m *Model) Preload(kind string, cands []models.Candidate) {
	switch kind {
	case constants.KindAnio:
		m.anio.Preload(cands)
	case constants.KindAlumno:
		m.alumno.Preload(cands)
	case constants.KindGrado:
		m.grado.Preload(cands)
	}
}

// Reset wipes the form after a successful store.
func (m *Model) Reset() {
	*m = New(m.fetchers)
}

func (m Model) Init() tea.Cmd { return nil }

// FocusFirst puts the cursor on the año field; called when the tab becomes
// active.
func (m Model) FocusFirst() (Model, tea.Cmd) {
	m.focus = fieldAnio
	var cmd tea.Cmd
	m.anio, cmd = m.anio.Focus()
	return m, cmd
}

func (m *Model) focused() *combobox.Model {
	switch m.focus {
	case fieldAnio:
		return &m.anio
	case fieldAlumno:
		return &m.alumno
	case fieldGrado:
		return &m.grado
	case fieldSeccion:
		return &m.seccion
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case combobox.ChosenMsg:
		return m.applyChoice(msg), nil

	case combobox.ClearedMsg:
		switch msg.ID {
		case constants.KindAnio:
			m.payload.AnioID = ""
		case constants.KindAlumno:
			m.payload.AlumnoID = ""
			m.dni = ""
		case constants.KindGrado:
			m.payload.GradoID = ""
			m.payload.SeccionID = ""
			m.seccion.SetParentID("")
		case constants.KindSeccion:
			m.payload.SeccionID = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "shift+tab":
			return m.cycleFocus(msg.String() == "shift+tab")
		case "enter":
			if m.focus == fieldSubmit {
				return m.submit()
			}
		}
	}

	// Everything else goes to every combobox: debounce and fetch results
	// carry their own field id, keystrokes only land on the focused one.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.anio, cmd = m.anio.Update(msg)
	cmds = append(cmds, cmd)
	m.alumno, cmd = m.alumno.Update(msg)
	cmds = append(cmds, cmd)
	m.grado, cmd = m.grado.Update(msg)
	cmds = append(cmds, cmd)
	m.seccion, cmd = m.seccion.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) applyChoice(msg combobox.ChosenMsg) Model {
	switch msg.ID {
	case constants.KindAnio:
		m.payload.AnioID = msg.Candidate.ID
	case constants.KindAlumno:
		m.payload.AlumnoID = msg.Candidate.ID
		m.dni = msg.Candidate.Meta["dni"]
	case constants.KindGrado:
		// Changing the grade invalidates any chosen section.
		if m.payload.GradoID != msg.Candidate.ID {
			m.payload.SeccionID = ""
			m.seccion.SetParentID(msg.Candidate.ID)
		}
		m.payload.GradoID = msg.Candidate.ID
	case constants.KindSeccion:
		m.payload.SeccionID = msg.Candidate.ID
	}
	return m
}

func (m Model) cycleFocus(backwards bool) (Model, tea.Cmd) {
	if f := m.focused(); f != nil {
		*f = f.Blur()
	}
	if backwards {
		m.focus = (m.focus - 1 + numFields) % numFields
	} else {
		m.focus = (m.focus + 1) % numFields
	}
	// Skip a locked sección field.
	if m.focus == fieldSeccion && m.seccion.Locked() {
		if backwards {
			m.focus = fieldGrado
		} else {
			m.focus = fieldSubmit
		}
	}
	if f := m.focused(); f != nil {
		var cmd tea.Cmd
		*f, cmd = f.Focus()
		return m, cmd
	}
	return m, nil
}

func (m Model) submit() (Model, tea.Cmd) {
	m.errs = validation.Struct(m.payload)
	if len(m.errs) > 0 {
		return m, nil
	}
	payload := m.payload
	return m, func() tea.Msg { return SubmitMsg{Payload: payload} }
}

func (m Model) View() string {
	rows := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Año"), m.anio.View()),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Alumno"), m.alumno.View()),
	}
	if m.dni != "" {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(""), dniStyle.Render("DNI "+m.dni)))
	}
	rows = append(rows,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Grado"), m.grado.View()),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Sección"), m.seccion.View()),
		"",
	)

	button := submitStyle.Render("[ Matricular ]")
	if m.focus == fieldSubmit {
		button = submitFocusStyle.Render("[ Matricular ]")
	}
	rows = append(rows, button)

	if len(m.errs) > 0 {
		msgs := make([]string, len(m.errs))
		for i, e := range m.errs {
			msgs[i] = e.Error()
		}
		rows = append(rows, "", errStyle.Render(strings.Join(msgs, " · ")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
