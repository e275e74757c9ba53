// Package caja is the cashier tab: an alumno lookup, a concepto lookup whose
// tariff is mirrored into the amount field, and a recent-payments list with
// void support.
package caja

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avaldiviar/colegio/internal/constants"
	"github.com/avaldiviar/colegio/internal/models"
	"github.com/avaldiviar/colegio/internal/tui/components/combobox"
	"github.com/avaldiviar/colegio/internal/validation"
)

// SubmitMsg asks the root model to register the payment and fetch the ticket.
type SubmitMsg struct {
	Payload validation.PagoPayload
}

// AnularPagoMsg asks the root model to void a registered payment. The root
// confirms first; voiding is not undoable.
type AnularPagoMsg struct {
	Pago models.Pago
}

type Fetchers struct {
	Alumno   combobox.FetchFunc
	Concepto combobox.FetchFunc
}

const (
	fieldAlumno = iota
	fieldConcepto
	fieldMonto
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

	historyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	anuladoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)
)

type Model struct {
	fetchers Fetchers
	alumno   combobox.Model
	concepto combobox.Model
	monto    textinput.Model
	focus    int

	alumnoID   string
	conceptoID string
	// recent holds the payments registered in this session, newest first.
	recent []models.Pago
	errs   []validation.FieldError
}

func New(f Fetchers) Model {
	m := Model{fetchers: f}
	m.alumno = combobox.New(constants.KindAlumno, "Buscar alumno por nombre o DNI", f.Alumno)
	m.concepto = combobox.New(constants.KindConcepto, "Buscar concepto de pago", f.Concepto)

	ti := textinput.New()
	ti.Placeholder = "0.00"
	ti.Prompt = "S/ "
	ti.CharLimit = 10
	ti.Width = 10
	m.monto = ti
	return m
}

// Preload seeds a field's browse cache, typically from the recents store.
func (m *Model) Preload(kind string, cands []models.Candidate) {
	switch kind {
	case constants.KindAlumno:
		m.alumno.Preload(cands)
	case constants.KindConcepto:
		m.concepto.Preload(cands)
	}
}

// Record prepends a stored payment to the session history after the backend
// confirms it.
func (m *Model) Record(p models.Pago) {
	m.recent = append([]models.Pago{p}, m.recent...)
}

// MarkAnulado flips the history entry once the backend voids it.
func (m *Model) MarkAnulado(pagoID string) {
	for i := range m.recent {
		if m.recent[i].ID == pagoID {
			m.recent[i].Anulado = true
		}
	}
}

// ResetForm wipes the form fields but keeps the session history.
func (m *Model) ResetForm() {
	recent := m.recent
	*m = New(m.fetchers)
	m.recent = recent
}

func (m Model) Init() tea.Cmd { return nil }

func (m *Model) focusedBox() *combobox.Model {
	switch m.focus {
	case fieldAlumno:
		return &m.alumno
	case fieldConcepto:
		return &m.concepto
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case combobox.ChosenMsg:
		switch msg.ID {
		case constants.KindAlumno:
			m.alumnoID = msg.Candidate.ID
		case constants.KindConcepto:
			m.conceptoID = msg.Candidate.ID
			// The tariff rides along on the candidate; it stays editable
			// for partial payments.
			if tarifa := msg.Candidate.Meta["monto"]; tarifa != "" {
				m.monto.SetValue(tarifa)
			}
		}
		return m, nil

	case combobox.ClearedMsg:
		switch msg.ID {
		case constants.KindAlumno:
			m.alumnoID = ""
		case constants.KindConcepto:
			m.conceptoID = ""
			m.monto.SetValue("")
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
		case "x":
			if m.focus != fieldMonto && !m.isComboOpen() {
				return m.anularSelected()
			}
		}
		if m.focus == fieldMonto {
			var cmd tea.Cmd
			m.monto, cmd = m.monto.Update(msg)
			return m, cmd
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.alumno, cmd = m.alumno.Update(msg)
	cmds = append(cmds, cmd)
	m.concepto, cmd = m.concepto.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) isComboOpen() bool {
	return m.alumno.Focused() || m.concepto.Focused()
}

// anularSelected offers the most recent non-void payment. A richer picker is
// not worth it for a session-local list. Rows without a server id (the PDF
// success path returns no record) cannot be voided and are skipped.
func (m Model) anularSelected() (Model, tea.Cmd) {
	for _, p := range m.recent {
		if !p.Anulado && p.ID != "" {
			pago := p
			return m, func() tea.Msg { return AnularPagoMsg{Pago: pago} }
		}
	}
	return m, nil
}

func (m Model) cycleFocus(backwards bool) (Model, tea.Cmd) {
	if f := m.focusedBox(); f != nil {
		*f = f.Blur()
	}
	if m.focus == fieldMonto {
		m.monto.Blur()
	}
	if backwards {
		m.focus = (m.focus - 1 + numFields) % numFields
	} else {
		m.focus = (m.focus + 1) % numFields
	}
	switch m.focus {
	case fieldMonto:
		return m, m.monto.Focus()
	default:
		if f := m.focusedBox(); f != nil {
			var cmd tea.Cmd
			*f, cmd = f.Focus()
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) submit() (Model, tea.Cmd) {
	monto, err := strconv.ParseFloat(strings.TrimSpace(m.monto.Value()), 64)
	if err != nil {
		monto = 0
	}
	payload := validation.PagoPayload{
		AlumnoID:   m.alumnoID,
		ConceptoID: m.conceptoID,
		Monto:      monto,
	}
	m.errs = validation.Struct(payload)
	if len(m.errs) > 0 {
		return m, nil
	}
	return m, func() tea.Msg { return SubmitMsg{Payload: payload} }
}

func (m Model) View() string {
	rows := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Alumno"), m.alumno.View()),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Concepto"), m.concepto.View()),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Monto"), m.monto.View()),
		"",
	}

	button := submitStyle.Render("[ Registrar pago ]")
	if m.focus == fieldSubmit {
		button = submitFocusStyle.Render("[ Registrar pago ]")
	}
	rows = append(rows, button)

	if len(m.errs) > 0 {
		msgs := make([]string, len(m.errs))
		for i, e := range m.errs {
			msgs[i] = e.Error()
		}
		rows = append(rows, "", errStyle.Render(strings.Join(msgs, " · ")))
	}

	if len(m.recent) > 0 {
		rows = append(rows, "", historyStyle.Render("Pagos de esta sesión ('x' anula el último):"))
		for _, p := range m.recent {
			line := fmt.Sprintf("  %s · S/ %.2f · recibo %s", p.Fecha, p.Monto, p.Recibo)
			if p.Anulado {
				rows = append(rows, anuladoStyle.Render(line+" (anulado)"))
			} else {
				rows = append(rows, historyStyle.Render(line))
			}
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
