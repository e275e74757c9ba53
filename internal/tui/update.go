package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/avaldiviar/colegio/internal/constants"
	"github.com/avaldiviar/colegio/internal/logger"
	"github.com/avaldiviar/colegio/internal/models"
	"github.com/avaldiviar/colegio/internal/tui/components/alumnos"
	"github.com/avaldiviar/colegio/internal/tui/components/caja"
	"github.com/avaldiviar/colegio/internal/tui/components/combobox"
	"github.com/avaldiviar/colegio/internal/tui/components/horarios"
	"github.com/avaldiviar/colegio/internal/tui/components/matricula"
	"github.com/avaldiviar/colegio/internal/validation"
)

type alumnosLoadedMsg struct {
	page models.Page[models.Alumno]
}

type alumnoStoredMsg struct {
	alumno models.Alumno
}

type alumnoRetiradoMsg struct {
	id string
}

type matriculaStoredMsg struct {
	matricula models.Matricula
}

type asignacionesLoadedMsg struct {
	asigs []models.Asignacion
}

type asignacionStoredMsg struct {
	asig models.Asignacion
}

type pagoStoredMsg struct {
	pago       models.Pago
	ticketPath string
}

type pagoAnuladoMsg struct {
	id string
}

type apiErrMsg struct {
	err error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Overlay states swallow everything before the tabs see it.
	if m.state == constants.StateAlumnoForm {
		return m.updateAlumnoForm(msg)
	}
	if m.state == constants.StateConfirmAnular {
		return m.updateConfirmAnular(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.alumnosModel.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.NextTab):
			return m.switchTab((m.state + 1) % constants.NumMainTabs)
		case key.Matches(msg, m.keys.PrevTab):
			return m.switchTab((m.state - 1 + constants.NumMainTabs) % constants.NumMainTabs)
		}
		return m.routeToActive(msg)

	case combobox.ChosenMsg:
		// Every confirmed selection feeds the local recents cache.
		if m.recents != nil {
			if err := m.recents.Touch(msg.ID, msg.Candidate); err != nil {
				logger.Warn("recents update failed", "kind", msg.ID, "error", err)
			}
		}
		return m.routeToActive(msg)

	case alumnos.AddAlumnoMsg:
		m.alumnoForm = &AlumnoFormModel{}
		m.form = newAlumnoForm(m.alumnoForm)
		m.state = constants.StateAlumnoForm
		m.errMsg = ""
		return m, m.form.Init()

	case alumnos.RefreshMsg:
		return m, m.loadAlumnosCmd(1)

	case alumnos.AnularAlumnoMsg:
		m.alumnoToAnular = msg.ID
		m.pagoToAnular = nil
		m.state = constants.StateConfirmAnular
		return m, nil

	case matricula.SubmitMsg:
		return m, m.storeMatriculaCmd(msg.Payload)

	case horarios.DocenteChosenMsg:
		return m, m.loadAsignacionesCmd(msg.DocenteID)

	case horarios.SubmitMsg:
		return m, m.storeAsignacionCmd(msg.Asignacion)

	case caja.SubmitMsg:
		return m, m.storePagoCmd(msg.Payload)

	case caja.AnularPagoMsg:
		pago := msg.Pago
		m.pagoToAnular = &pago
		m.alumnoToAnular = ""
		m.state = constants.StateConfirmAnular
		return m, nil

	case alumnosLoadedMsg:
		m.alumnosModel.SetPage(msg.page)
		return m, nil

	case alumnoStoredMsg:
		m.status = fmt.Sprintf("Alumno %s creado", msg.alumno.FullName())
		m.errMsg = ""
		return m, m.loadAlumnosCmd(1)

	case alumnoRetiradoMsg:
		m.status = "Alumno retirado"
		return m, m.loadAlumnosCmd(1)

	case matriculaStoredMsg:
		m.status = fmt.Sprintf("Matrícula %s registrada", msg.matricula.ID)
		m.errMsg = ""
		m.matriculaModel.Reset()
		return m, nil

	case asignacionesLoadedMsg:
		m.horariosModel.SetExisting(msg.asigs)
		return m, nil

	case asignacionStoredMsg:
		m.status = fmt.Sprintf("Asignación %s guardada", msg.asig.ID)
		m.errMsg = ""
		m.horariosModel.Reset()
		return m, nil

	case pagoStoredMsg:
		m.cajaModel.Record(msg.pago)
		m.cajaModel.ResetForm()
		if msg.ticketPath != "" {
			m.status = fmt.Sprintf("Pago %s registrado · boleta en %s", msg.pago.Recibo, msg.ticketPath)
		} else {
			m.status = fmt.Sprintf("Pago %s registrado", msg.pago.Recibo)
		}
		m.errMsg = ""
		return m, nil

	case pagoAnuladoMsg:
		m.cajaModel.MarkAnulado(msg.id)
		m.status = "Pago anulado"
		return m, nil

	case apiErrMsg:
		m.errMsg = msg.err.Error()
		return m, nil
	}

	// Async leftovers (debounce timers, fetch results, spinner and list
	// ticks) go to every component; each one filters by its own id.
	return m.broadcast(msg)
}

// routeToActive delivers a message to the active tab only; used for
// keystrokes and confirmed selections.
func (m Model) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case constants.StateAlumnos:
		m.alumnosModel, cmd = m.alumnosModel.Update(msg)
	case constants.StateMatricula:
		m.matriculaModel, cmd = m.matriculaModel.Update(msg)
	case constants.StateHorarios:
		m.horariosModel, cmd = m.horariosModel.Update(msg)
	case constants.StateCaja:
		m.cajaModel, cmd = m.cajaModel.Update(msg)
	}
	return m, cmd
}

func (m Model) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.alumnosModel, cmd = m.alumnosModel.Update(msg)
	cmds = append(cmds, cmd)
	m.matriculaModel, cmd = m.matriculaModel.Update(msg)
	cmds = append(cmds, cmd)
	m.horariosModel, cmd = m.horariosModel.Update(msg)
	cmds = append(cmds, cmd)
	m.cajaModel, cmd = m.cajaModel.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) switchTab(next constants.SessionState) (tea.Model, tea.Cmd) {
	m.state = next
	m.status = ""
	m.errMsg = ""
	if next == constants.StateMatricula {
		var cmd tea.Cmd
		m.matriculaModel, cmd = m.matriculaModel.FocusFirst()
		return m, cmd
	}
	return m, nil
}

func (m Model) updateAlumnoForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = constants.StateAlumnos
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		payload := validation.AlumnoPayload{
			Nombres:   m.alumnoForm.Nombres,
			Apellidos: m.alumnoForm.Apellidos,
			DNI:       m.alumnoForm.DNI,
		}
		if errs := validation.Struct(payload); len(errs) > 0 {
			// Keep the operator in the form to correct the value.
			m.errMsg = errs[0].Error()
			m.form.State = huh.StateNormal
			return m, tea.Batch(cmds...)
		}
		alumno := models.Alumno{
			Nombres:   m.alumnoForm.Nombres,
			Apellidos: m.alumnoForm.Apellidos,
			DNI:       m.alumnoForm.DNI,
			Apoderado: m.alumnoForm.Apoderado,
		}
		m.state = constants.StateAlumnos
		return m, m.storeAlumnoCmd(alumno)
	case huh.StateAborted:
		m.state = constants.StateAlumnos
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateConfirmAnular(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "y", "s":
		if m.pagoToAnular != nil {
			id := m.pagoToAnular.ID
			m.pagoToAnular = nil
			m.state = constants.StateCaja
			return m, m.anularPagoCmd(id)
		}
		if m.alumnoToAnular != "" {
			id := m.alumnoToAnular
			m.alumnoToAnular = ""
			m.state = constants.StateAlumnos
			return m, m.anularAlumnoCmd(id)
		}
		m.state = constants.StateAlumnos
		return m, nil
	case "n", "esc":
		if m.pagoToAnular != nil {
			m.state = constants.StateCaja
		} else {
			m.state = constants.StateAlumnos
		}
		m.pagoToAnular = nil
		m.alumnoToAnular = ""
		return m, nil
	}
	return m, nil
}

func (m Model) loadAlumnosCmd(page int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		p, err := client.Alumnos.Index(context.Background(), page, nil)
		if err != nil {
			return apiErrMsg{err: err}
		}
		return alumnosLoadedMsg{page: p}
	}
}

func (m Model) storeAlumnoCmd(in models.Alumno) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		a, err := client.Alumnos.Store(context.Background(), in)
		if err != nil {
			return apiErrMsg{err: err}
		}
		return alumnoStoredMsg{alumno: a}
	}
}

func (m Model) anularAlumnoCmd(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.Alumnos.Destroy(context.Background(), id); err != nil {
			return apiErrMsg{err: err}
		}
		return alumnoRetiradoMsg{id: id}
	}
}

func (m Model) storeMatriculaCmd(p validation.MatriculaPayload) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		mat, err := client.Matriculas.Store(context.Background(), models.Matricula{
			AlumnoID:  p.AlumnoID,
			AnioID:    p.AnioID,
			GradoID:   p.GradoID,
			SeccionID: p.SeccionID,
		})
		if err != nil {
			return apiErrMsg{err: err}
		}
		return matriculaStoredMsg{matricula: mat}
	}
}

func (m Model) loadAsignacionesCmd(docenteID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		asigs, err := client.Matriculas.Asignaciones(context.Background(), docenteID)
		if err != nil {
			// The overlap warning is advisory; losing it must not block
			// the form.
			logger.Warn("asignaciones load failed", "docente", docenteID, "error", err)
			return asignacionesLoadedMsg{}
		}
		return asignacionesLoadedMsg{asigs: asigs}
	}
}

func (m Model) storeAsignacionCmd(in models.Asignacion) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		asig, err := client.Matriculas.StoreAsignacion(context.Background(), in)
		if err != nil {
			return apiErrMsg{err: err}
		}
		return asignacionStoredMsg{asig: asig}
	}
}

func (m Model) storePagoCmd(p validation.PagoPayload) tea.Cmd {
	client := m.client
	dataDir := m.dataDir
	return func() tea.Msg {
		pago, ticket, err := client.Pagos.Store(context.Background(), models.Pago{
			AlumnoID:   p.AlumnoID,
			ConceptoID: p.ConceptoID,
			Monto:      p.Monto,
		})
		if err != nil {
			return apiErrMsg{err: err}
		}
		path := ""
		if len(ticket) > 0 {
			path = saveTicket(dataDir, pago, ticket)
		}
		return pagoStoredMsg{pago: pago, ticketPath: path}
	}
}

func (m Model) anularPagoCmd(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.Pagos.Anular(context.Background(), id); err != nil {
			return apiErrMsg{err: err}
		}
		return pagoAnuladoMsg{id: id}
	}
}

// saveTicket writes the PDF the backend returned alongside the payment.
// Failing to save is logged but does not fail the payment, which the backend
// already committed.
func saveTicket(dataDir string, pago models.Pago, ticket []byte) string {
	dir := filepath.Join(dataDir, "tickets")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("ticket dir creation failed", "dir", dir, "error", err)
		return ""
	}
	name := pago.Recibo
	if name == "" {
		name = pago.ID
	}
	if name == "" {
		// Never collapse distinct tickets onto one ".pdf" file.
		name = uuid.NewString()
	}
	path := filepath.Join(dir, name+".pdf")
	if err := os.WriteFile(path, ticket, 0o644); err != nil {
		logger.Warn("ticket write failed", "path", path, "error", err)
		return ""
	}
	return path
}
