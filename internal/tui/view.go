package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/avaldiviar/colegio/internal/constants"
)

var tabTitles = []string{"Alumnos", "Matrícula", "Horarios", "Caja"}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateAlumnos:
		content = docStyle.Render(m.alumnosModel.View())
	case constants.StateMatricula:
		content = docStyle.Render(m.matriculaModel.View())
	case constants.StateHorarios:
		content = docStyle.Render(m.horariosModel.View())
	case constants.StateCaja:
		content = docStyle.Render(m.cajaModel.View())
	case constants.StateAlumnoForm:
		content = docStyle.Render(m.form.View())
	case constants.StateConfirmAnular:
		content = m.viewConfirmAnular()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m.keys),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	switch {
	case m.errMsg != "":
		return errorStyle.Render("✗ " + m.errMsg)
	case m.status != "":
		return statusStyle.Render("✓ " + m.status)
	}
	return ""
}

func (m Model) viewConfirmAnular() string {
	question := "¿Retirar este alumno?"
	if m.pagoToAnular != nil {
		question = "¿Anular el pago " + m.pagoToAnular.Recibo + "? Esta acción no se puede deshacer."
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(question),
			"",
			"[s] Sí",
			"[n] No",
		),
	)
}
