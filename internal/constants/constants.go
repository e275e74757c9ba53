package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName = "colegio"
	Version = "v0.3.1"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// SearchDebounce is the quiet period after the last keystroke before a
	// remote search is issued.
	SearchDebounce = 500 * time.Millisecond

	// CurriculumDebounce is the shorter quiet period used by the
	// curriculum-by-grade lookup, which backs the schedule form.
	CurriculumDebounce = 300 * time.Millisecond

	// RecentSelections is how many recently used selections are kept per
	// entity kind in the local cache.
	RecentSelections = 8
)

const (
	StateAlumnos SessionState = iota
	StateMatricula
	StateHorarios
	StateCaja
	NumMainTabs

	StateAlumnoForm
	StateConfirmAnular
)

// Entity kinds as the backend names them. Used for search endpoints and the
// recent-selection cache.
const (
	KindAlumno     = "alumno"
	KindAnio       = "anio"
	KindCurso      = "curso"
	KindDocente    = "docente"
	KindGrado      = "grado"
	KindNivel      = "nivel"
	KindPeriodo    = "periodo"
	KindSeccion    = "seccion"
	KindCurriculo  = "curriculo"
	KindRol        = "rol"
	KindConcepto   = "concepto"
)
