package models

// Ref is a minimal {id, label} pair used to seed a searchable selection from
// a record the parent form already holds.
type Ref struct {
	ID    string
	Label string
}

// Candidate is one remote search result offered for selection. It is a
// read-only projection of a backend row; components never mutate it.
type Candidate struct {
	ID    string `json:"id"`
	Label string `json:"label"`

	// Detail is a secondary display line (e.g. a student's guardian, a
	// section's grade).
	Detail string `json:"detail,omitempty"`

	// Disabled marks candidates that may be listed but not chosen outside
	// of filter mode, such as a closed academic year or a full section.
	Disabled bool `json:"disabled,omitempty"`

	// Meta carries denormalized fields the parent form mirrors on
	// selection (e.g. an alumno's "dni", a currículo row's "horas").
	Meta map[string]string `json:"meta,omitempty"`
}

// Capabilities are the opaque per-record flags the backend reports on each
// load. They are never derived or cached client-side; forms only mirror
// them.
type Capabilities struct {
	TieneData         bool `json:"tiene_data"`
	TienePagos        bool `json:"tiene_pagos"`
	BloqueoFinanciero bool `json:"bloqueo_financiero"`
	AnioCerrado       bool `json:"anio_cerrado"`
	Vacantes          int  `json:"vacantes"`
}

// Page is the backend's uniform paginated list envelope.
type Page[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
}

type Alumno struct {
	ID        string       `json:"id"`
	Nombres   string       `json:"nombres"`
	Apellidos string       `json:"apellidos"`
	DNI       string       `json:"dni"`
	Apoderado string       `json:"apoderado"`
	Estado    string       `json:"estado"`
	Flags     Capabilities `json:"flags"`
}

func (a Alumno) FullName() string {
	if a.Apellidos == "" {
		return a.Nombres
	}
	return a.Apellidos + ", " + a.Nombres
}

type AnioAcademico struct {
	ID      string       `json:"id"`
	Nombre  string       `json:"nombre"`
	Inicio  string       `json:"fecha_inicio"`
	Fin     string       `json:"fecha_fin"`
	Cerrado bool         `json:"cerrado"`
	Flags   Capabilities `json:"flags"`
}

type Periodo struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	AnioID string `json:"anio_id"`
	Inicio string `json:"fecha_inicio"`
	Fin    string `json:"fecha_fin"`
}

type Nivel struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

type Grado struct {
	ID      string `json:"id"`
	Nombre  string `json:"nombre"`
	NivelID string `json:"nivel_id"`
}

type Seccion struct {
	ID      string       `json:"id"`
	Nombre  string       `json:"nombre"`
	GradoID string       `json:"grado_id"`
	Aforo   int          `json:"aforo"`
	Flags   Capabilities `json:"flags"`
}

type Curso struct {
	ID      string `json:"id"`
	Nombre  string `json:"nombre"`
	NivelID string `json:"nivel_id"`
}

type Rol struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

type Docente struct {
	ID        string `json:"id"`
	Nombres   string `json:"nombres"`
	Apellidos string `json:"apellidos"`
	DNI       string `json:"dni"`
	RolID     string `json:"rol_id"`
	Estado    string `json:"estado"`
}

// CurriculoFila maps one curso into a grado for an academic year and carries
// the required weekly hours the schedule builder compares against.
type CurriculoFila struct {
	ID             string  `json:"id"`
	AnioID         string  `json:"anio_id"`
	GradoID        string  `json:"grado_id"`
	CursoID        string  `json:"curso_id"`
	CursoNombre    string  `json:"curso_nombre"`
	HorasSemanales float64 `json:"horas_semanales"`
}

type Matricula struct {
	ID        string       `json:"id"`
	AlumnoID  string       `json:"alumno_id"`
	AnioID    string       `json:"anio_id"`
	GradoID   string       `json:"grado_id"`
	SeccionID string       `json:"seccion_id"`
	Fecha     string       `json:"fecha"`
	Estado    string       `json:"estado"`
	Flags     Capabilities `json:"flags"`
}

// Asignacion ties a docente to a currículo row with one time block per day.
type Asignacion struct {
	ID          string             `json:"id"`
	DocenteID   string             `json:"docente_id"`
	CurriculoID string             `json:"curriculo_id"`
	SeccionID   string             `json:"seccion_id"`
	Bloques     []AsignacionBloque `json:"bloques"`
}

type AsignacionBloque struct {
	Dia    int    `json:"dia"` // 1 = Monday .. 5 = Friday
	Inicio string `json:"hora_inicio"`
	Fin    string `json:"hora_fin"`
	Aula   string `json:"aula"`
}

type ConceptoPago struct {
	ID     string       `json:"id"`
	Nombre string       `json:"nombre"`
	Monto  float64      `json:"monto"`
	Estado string       `json:"estado"`
	Flags  Capabilities `json:"flags"`
}

type Pago struct {
	ID         string  `json:"id"`
	AlumnoID   string  `json:"alumno_id"`
	ConceptoID string  `json:"concepto_id"`
	Monto      float64 `json:"monto"`
	Fecha      string  `json:"fecha"`
	Recibo     string  `json:"numero_recibo"`
	Anulado    bool    `json:"anulado"`
}
