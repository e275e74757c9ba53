package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/avaldiviar/colegio/internal/api"
	"github.com/avaldiviar/colegio/internal/constants"
	"github.com/avaldiviar/colegio/internal/models"
	"github.com/avaldiviar/colegio/internal/recents"
	"github.com/avaldiviar/colegio/internal/tui/components/alumnos"
	"github.com/avaldiviar/colegio/internal/tui/components/caja"
	"github.com/avaldiviar/colegio/internal/tui/components/horarios"
	"github.com/avaldiviar/colegio/internal/tui/components/matricula"
)

// AlumnoFormModel backs the huh creation form.
type AlumnoFormModel struct {
	Nombres   string
	Apellidos string
	DNI       string
	Apoderado string
}

type Model struct {
	client  *api.Client
	recents *recents.Store
	dataDir string

	state constants.SessionState
	keys  KeyMap
	help  help.Model

	alumnosModel   alumnos.Model
	matriculaModel matricula.Model
	horariosModel  horarios.Model
	cajaModel      caja.Model

	form       *huh.Form
	alumnoForm *AlumnoFormModel

	// Void confirmations; exactly one is set while in StateConfirmAnular.
	pagoToAnular   *models.Pago
	alumnoToAnular string

	status   string
	errMsg   string
	quitting bool
	width    int
	height   int
}

func NewModel(client *api.Client, rec *recents.Store, dataDir string) Model {
	m := Model{
		client:  client,
		recents: rec,
		dataDir: dataDir,
		state:   constants.StateAlumnos,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}

	m.alumnosModel = alumnos.New(0, 0)
	m.matriculaModel = matricula.New(matricula.Fetchers{
		Anio:    client.Anios.Search,
		Alumno:  client.Alumnos.Search,
		Grado:   client.Grados.Search,
		Seccion: client.Secciones.Search,
	})
	m.horariosModel = horarios.New(horarios.Fetchers{
		Docente:   client.Docentes.Search,
		Grado:     client.Grados.Search,
		Curriculo: client.Curriculo.Search,
		Seccion:   client.Secciones.Search,
	})
	m.cajaModel = caja.New(caja.Fetchers{
		Alumno:   client.Alumnos.Search,
		Concepto: client.Conceptos.Search,
	})

	m.preloadRecents()
	return m
}

// preloadRecents seeds the browse caches from the local store so a first
// focus opens instantly instead of hitting the backend.
func (m *Model) preloadRecents() {
	if m.recents == nil {
		return
	}
	for _, kind := range []string{constants.KindAnio, constants.KindAlumno, constants.KindGrado} {
		if cands, err := m.recents.List(kind, constants.RecentSelections); err == nil && len(cands) > 0 {
			m.matriculaModel.Preload(kind, cands)
		}
	}
	for _, kind := range []string{constants.KindAlumno, constants.KindConcepto} {
		if cands, err := m.recents.List(kind, constants.RecentSelections); err == nil && len(cands) > 0 {
			m.cajaModel.Preload(kind, cands)
		}
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadAlumnosCmd(1)
}

func newAlumnoForm(f *AlumnoFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Nombres").
				Value(&f.Nombres),
			huh.NewInput().
				Title("Apellidos").
				Value(&f.Apellidos),
			huh.NewInput().
				Title("DNI").
				CharLimit(8).
				Value(&f.DNI),
			huh.NewInput().
				Title("Apoderado").
				Value(&f.Apoderado),
		),
	)
}
