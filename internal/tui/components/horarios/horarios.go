// Package horarios is the course-assignment tab: docente, currículo row and
// sección references plus the weekly schedule builder. The currículo lookup
// depends on the chosen grado and mirrors its required weekly hours into the
// builder.
package horarios

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avaldiviar/colegio/internal/constants"
	"github.com/avaldiviar/colegio/internal/models"
	"github.com/avaldiviar/colegio/internal/schedule"
	"github.com/avaldiviar/colegio/internal/tui/components/combobox"
	"github.com/avaldiviar/colegio/internal/tui/components/horario"
)

// SubmitMsg asks the root model to store the assignment.
type SubmitMsg struct {
	Asignacion models.Asignacion
}

// DocenteChosenMsg asks the root model to load the docente's existing
// assignments so new blocks can be checked for overlaps.
type DocenteChosenMsg struct {
	DocenteID string
}

type Fetchers struct {
	Docente   combobox.FetchFunc
	Grado     combobox.FetchFunc
	Curriculo combobox.FetchFunc
	Seccion   combobox.FetchFunc
}

const (
	fieldDocente = iota
	fieldGrado
	fieldCurriculo
	fieldSeccion
	fieldBuilder
	fieldSubmit
	numFields
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(11)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")).
			Padding(0, 1)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	submitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	submitFocusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true).
				Padding(0, 1)
)

type Model struct {
	fetchers  Fetchers
	docente   combobox.Model
	grado     combobox.Model
	curriculo combobox.Model
	seccion   combobox.Model
	builder   horario.Model
	focus     int

	docenteID   string
	curriculoID string
	seccionID   string
	// existing holds the docente's other assignments, fetched by the root
	// when the docente changes; overlaps against them are display-only.
	existing []models.Asignacion
	errMsg   string
}

func New(f Fetchers) Model {
	m := Model{fetchers: f, builder: horario.New(false)}
	m.docente = combobox.New(constants.KindDocente, "Buscar docente", f.Docente)
	m.grado = combobox.New(constants.KindGrado, "Buscar grado", f.Grado)
	m.curriculo = combobox.New(constants.KindCurriculo, "Buscar curso del plan", f.Curriculo,
		combobox.WithParent("grado_id", "Seleccione un grado primero"),
		combobox.WithDebounce(constants.CurriculumDebounce))
	m.seccion = combobox.New(constants.KindSeccion, "Buscar sección", f.Seccion,
		combobox.WithParent("grado_id", "Seleccione un grado primero"))
	return m
}

func (m *Model) SetExisting(asigs []models.Asignacion) {
	m.existing = asigs
}

func (m *Model) Reset() {
	*m = New(m.fetchers)
}

func (m Model) Init() tea.Cmd { return nil }

func (m *Model) focusedBox() *combobox.Model {
	switch m.focus {
	case fieldDocente:
		return &m.docente
	case fieldGrado:
		return &m.grado
	case fieldCurriculo:
		return &m.curriculo
	case fieldSeccion:
		return &m.seccion
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case combobox.ChosenMsg:
		return m.applyChoice(msg)

	case combobox.ClearedMsg:
		switch msg.ID {
		case constants.KindDocente:
			m.docenteID = ""
			m.existing = nil
		case constants.KindGrado:
			m.curriculoID = ""
			m.seccionID = ""
			m.builder.SetRequired(0)
			m.curriculo.SetParentID("")
			m.seccion.SetParentID("")
		case constants.KindCurriculo:
			m.curriculoID = ""
			m.builder.SetRequired(0)
		case constants.KindSeccion:
			m.seccionID = ""
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
		if m.focus == fieldBuilder {
			var cmd tea.Cmd
			m.builder, cmd = m.builder.Update(msg)
			return m, cmd
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.docente, cmd = m.docente.Update(msg)
	cmds = append(cmds, cmd)
	m.grado, cmd = m.grado.Update(msg)
	cmds = append(cmds, cmd)
	m.curriculo, cmd = m.curriculo.Update(msg)
	cmds = append(cmds, cmd)
	m.seccion, cmd = m.seccion.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) applyChoice(msg combobox.ChosenMsg) (Model, tea.Cmd) {
	switch msg.ID {
	case constants.KindDocente:
		m.docenteID = msg.Candidate.ID
		id := msg.Candidate.ID
		return m, func() tea.Msg { return DocenteChosenMsg{DocenteID: id} }
	case constants.KindGrado:
		m.curriculoID = ""
		m.seccionID = ""
		m.builder.SetRequired(0)
		m.curriculo.SetParentID(msg.Candidate.ID)
		m.seccion.SetParentID(msg.Candidate.ID)
	case constants.KindCurriculo:
		m.curriculoID = msg.Candidate.ID
		// The required weekly hours ride along on the candidate so the
		// builder needs no second request.
		if h, err := strconv.ParseFloat(msg.Candidate.Meta["horas"], 64); err == nil {
			m.builder.SetRequired(h)
		}
	case constants.KindSeccion:
		m.seccionID = msg.Candidate.ID
	}
	return m, nil
}

func (m Model) cycleFocus(backwards bool) (Model, tea.Cmd) {
	if f := m.focusedBox(); f != nil {
		*f = f.Blur()
	}
	step := 1
	if backwards {
		step = numFields - 1
	}
	m.focus = (m.focus + step) % numFields
	for m.isLockedField(m.focus) {
		m.focus = (m.focus + step) % numFields
	}
	if f := m.focusedBox(); f != nil {
		var cmd tea.Cmd
		*f, cmd = f.Focus()
		return m, cmd
	}
	return m, nil
}

func (m Model) isLockedField(i int) bool {
	switch i {
	case fieldCurriculo:
		return m.curriculo.Locked()
	case fieldSeccion:
		return m.seccion.Locked()
	}
	return false
}

func (m Model) submit() (Model, tea.Cmd) {
	switch {
	case m.docenteID == "":
		m.errMsg = "seleccione un docente"
	case m.curriculoID == "":
		m.errMsg = "seleccione un curso del plan"
	case m.seccionID == "":
		m.errMsg = "seleccione una sección"
	case len(m.builder.Matrix()) == 0:
		m.errMsg = "active al menos un día"
	default:
		m.errMsg = ""
	}
	if m.errMsg != "" {
		return m, nil
	}

	asig := models.Asignacion{
		DocenteID:   m.docenteID,
		CurriculoID: m.curriculoID,
		SeccionID:   m.seccionID,
	}
	for _, d := range schedule.Days {
		if b, ok := m.builder.Matrix()[d]; ok {
			asig.Bloques = append(asig.Bloques, models.AsignacionBloque{
				Dia:    int(d),
				Inicio: b.Start,
				Fin:    b.End,
			})
		}
	}
	return m, func() tea.Msg { return SubmitMsg{Asignacion: asig} }
}

// conflicts lists the days where a new block crosses one of the docente's
// existing assignments.
func (m Model) conflicts() []string {
	var out []string
	matrix := m.builder.Matrix()
	for _, asig := range m.existing {
		for _, bloque := range asig.Bloques {
			d := schedule.Day(bloque.Dia)
			nuevo, ok := matrix[d]
			if !ok {
				continue
			}
			if schedule.Overlaps(nuevo, schedule.Block{Start: bloque.Inicio, End: bloque.Fin}) {
				out = append(out, fmt.Sprintf("%s %s–%s", d, bloque.Inicio, bloque.Fin))
			}
		}
	}
	return out
}

func (m Model) View() string {
	rows := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Docente"), m.docente.View()),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Grado"), m.grado.View()),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Curso"), m.curriculo.View()),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Sección"), m.seccion.View()),
		"",
		m.builder.View(),
		"",
	}

	if cs := m.conflicts(); len(cs) > 0 {
		for _, c := range cs {
			rows = append(rows, warnStyle.Render("⚠ cruce con "+c))
		}
		rows = append(rows, "")
	}

	button := submitStyle.Render("[ Guardar asignación ]")
	if m.focus == fieldSubmit {
		button = submitFocusStyle.Render("[ Guardar asignación ]")
	}
	rows = append(rows, button)

	if m.errMsg != "" {
		rows = append(rows, "", errStyle.Render(m.errMsg))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
