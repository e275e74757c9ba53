package horarios

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avaldiviar/colegio/internal/api"
	"github.com/avaldiviar/colegio/internal/constants"
	"github.com/avaldiviar/colegio/internal/models"
	"github.com/avaldiviar/colegio/internal/schedule"
	"github.com/avaldiviar/colegio/internal/tui/components/combobox"
)

func noFetch(_ context.Context, _ string, _ api.Filters) ([]models.Candidate, error) {
	return nil, nil
}

func newTestForm() Model {
	return New(Fetchers{Docente: noFetch, Grado: noFetch, Curriculo: noFetch, Seccion: noFetch})
}

func typeTime(t *testing.T, m Model, value string) Model {
	t.Helper()
	for _, r := range value {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func chooseAll(m Model) Model {
	m, _ = m.Update(combobox.ChosenMsg{ID: constants.KindDocente, Candidate: models.Candidate{ID: "9", Label: "Rojas, Luis"}})
	m, _ = m.Update(combobox.ChosenMsg{ID: constants.KindGrado, Candidate: models.Candidate{ID: "3", Label: "Tercero"}})
	m, _ = m.Update(combobox.ChosenMsg{ID: constants.KindCurriculo, Candidate: models.Candidate{
		ID:   "21",
		Meta: map[string]string{"horas": "4"},
	}})
	m, _ = m.Update(combobox.ChosenMsg{ID: constants.KindSeccion, Candidate: models.Candidate{ID: "10", Label: "Sección A"}})
	return m
}

func TestCurriculoChoiceSetsRequiredHours(t *testing.T) {
	m := chooseAll(newTestForm())

	if got := m.builder.Summary(); got.RequiredHours != 4 {
		t.Errorf("required hours = %v", got.RequiredHours)
	}
}

func TestGradeChangeResetsDependents(t *testing.T) {
	m := chooseAll(newTestForm())

	m, _ = m.Update(combobox.ChosenMsg{ID: constants.KindGrado, Candidate: models.Candidate{ID: "4", Label: "Cuarto"}})

	if m.curriculoID != "" || m.seccionID != "" {
		t.Errorf("dependents survived grade change: curriculo=%q seccion=%q", m.curriculoID, m.seccionID)
	}
	if got := m.builder.Summary(); got.RequiredHours != 0 {
		t.Errorf("required hours survived grade change: %v", got.RequiredHours)
	}
}

func TestOverlapWarningAgainstExistingAssignments(t *testing.T) {
	m := chooseAll(newTestForm())
	m.SetExisting([]models.Asignacion{{
		DocenteID: "9",
		Bloques: []models.AsignacionBloque{
			{Dia: int(schedule.Lunes), Inicio: "08:00", Fin: "10:00"},
		},
	}})

	// Inside the builder enter cycles the time inputs; tab would leave the
	// builder and move form focus.
	m.focus = fieldBuilder
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}) // Lunes on
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = typeTime(t, m, "09:00")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = typeTime(t, m, "11:00")

	if view := m.View(); !strings.Contains(view, "cruce") {
		t.Errorf("view lacks overlap warning:\n%s", view)
	}

	// Touching edges are not a cross.
	m.SetExisting([]models.Asignacion{{
		Bloques: []models.AsignacionBloque{
			{Dia: int(schedule.Lunes), Inicio: "11:00", Fin: "12:00"},
		},
	}})
	if view := m.View(); strings.Contains(view, "cruce") {
		t.Errorf("adjacent block flagged as overlap:\n%s", view)
	}
}

func TestSubmitRequiresCompleteForm(t *testing.T) {
	m := newTestForm()
	m.focus = fieldSubmit

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("incomplete form emitted a submit")
	}
	if m.errMsg == "" {
		t.Fatal("no error recorded")
	}
}

func TestSubmitCarriesScheduleBlocks(t *testing.T) {
	m := chooseAll(newTestForm())

	m.focus = fieldBuilder
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = typeTime(t, m, "08:00")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = typeTime(t, m, "10:00")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m.focus = fieldSubmit
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("complete form did not submit")
	}
	msg, ok := cmd().(SubmitMsg)
	if !ok {
		t.Fatalf("cmd produced %T", cmd())
	}
	if msg.Asignacion.DocenteID != "9" || msg.Asignacion.CurriculoID != "21" || msg.Asignacion.SeccionID != "10" {
		t.Errorf("asignacion = %+v", msg.Asignacion)
	}
	if len(msg.Asignacion.Bloques) != 1 {
		t.Fatalf("bloques = %+v", msg.Asignacion.Bloques)
	}
	b := msg.Asignacion.Bloques[0]
	if b.Dia != int(schedule.Lunes) || b.Inicio != "08:00" || b.Fin != "10:00" {
		t.Errorf("bloque = %+v", b)
	}
}
