package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/avaldiviar/colegio/internal/models"
)

func index[T any](ctx context.Context, c *Client, path string, page int, filters Filters) (models.Page[T], error) {
	var out models.Page[T]
	err := c.get(ctx, path, pageQuery(page, filters), &out)
	return out, err
}

// searchPage fetches the first index page for a combobox query. An empty
// query is the "browse all" page shown on focus.
func searchPage[T any](ctx context.Context, c *Client, path, query string, filters Filters) ([]T, error) {
	merged := Filters{"search": query}
	for k, v := range filters {
		merged[k] = v
	}
	p, err := index[T](ctx, c, path, 1, merged)
	if err != nil {
		return nil, err
	}
	return p.Data, nil
}

type AlumnoService struct{ c *Client }

func (s *AlumnoService) Index(ctx context.Context, page int, filters Filters) (models.Page[models.Alumno], error) {
	return index[models.Alumno](ctx, s.c, "/api/alumnos", page, filters)
}

func (s *AlumnoService) Show(ctx context.Context, id string) (models.Alumno, error) {
	var out models.Alumno
	err := s.c.get(ctx, "/api/alumnos/"+id, nil, &out)
	return out, err
}

func (s *AlumnoService) Store(ctx context.Context, in models.Alumno) (models.Alumno, error) {
	var out models.Alumno
	err := s.c.post(ctx, "/api/alumnos", in, &out)
	return out, err
}

func (s *AlumnoService) Update(ctx context.Context, id string, in models.Alumno) (models.Alumno, error) {
	var out models.Alumno
	err := s.c.put(ctx, "/api/alumnos/"+id, in, &out)
	return out, err
}

func (s *AlumnoService) Destroy(ctx context.Context, id string) error {
	return s.c.delete(ctx, "/api/alumnos/"+id)
}

// Search backs the alumno combobox. The DNI is mirrored into the parent
// form on selection, so it rides along in Meta.
func (s *AlumnoService) Search(ctx context.Context, query string, filters Filters) ([]models.Candidate, error) {
	rows, err := searchPage[models.Alumno](ctx, s.c, "/api/alumnos", query, filters)
	if err != nil {
		return nil, err
	}
	cands := make([]models.Candidate, len(rows))
	for i, a := range rows {
		cands[i] = models.Candidate{
			ID:     a.ID,
			Label:  a.FullName(),
			Detail: "DNI " + a.DNI,
			Meta:   map[string]string{"dni": a.DNI, "apoderado": a.Apoderado},
		}
	}
	return cands, nil
}

type AnioService struct{ c *Client }

func (s *AnioService) Index(ctx context.Context, page int, filters Filters) (models.Page[models.AnioAcademico], error) {
	return index[models.AnioAcademico](ctx, s.c, "/api/anios", page, filters)
}

func (s *AnioService) Show(ctx context.Context, id string) (models.AnioAcademico, error) {
	var out models.AnioAcademico
	err := s.c.get(ctx, "/api/anios/"+id, nil, &out)
	return out, err
}

func (s *AnioService) Store(ctx context.Context, in models.AnioAcademico) (models.AnioAcademico, error) {
	var out models.AnioAcademico
	err := s.c.post(ctx, "/api/anios", in, &out)
	return out, err
}

func (s *AnioService) Update(ctx context.Context, id string, in models.AnioAcademico) (models.AnioAcademico, error) {
	var out models.AnioAcademico
	err := s.c.put(ctx, "/api/anios/"+id, in, &out)
	return out, err
}

// Cerrar closes an academic year. The backend flips anio_cerrado on every
// record that hangs off it; the client just re-reads flags.
func (s *AnioService) Cerrar(ctx context.Context, id string) error {
	return s.c.post(ctx, "/api/anios/"+id+"/cerrar", nil, nil)
}

// Search backs the año combobox. Closed years stay listed (they matter as
// filters) but are not choosable in form mode.
func (s *AnioService) Search(ctx context.Context, query string, filters Filters) ([]models.Candidate, error) {
	rows, err := searchPage[models.AnioAcademico](ctx, s.c, "/api/anios", query, filters)
	if err != nil {
		return nil, err
	}
	cands := make([]models.Candidate, len(rows))
	for i, a := range rows {
		label := a.Nombre
		if a.Cerrado {
			label += " (cerrado)"
		}
		cands[i] = models.Candidate{ID: a.ID, Label: label, Disabled: a.Cerrado}
	}
	return cands, nil
}

type PeriodoService struct{ c *Client }

func (s *PeriodoService) Index(ctx context.Context, page int, filters Filters) (models.Page[models.Periodo], error) {
	return index[models.Periodo](ctx, s.c, "/api/periodos", page, filters)
}

func (s *PeriodoService) Store(ctx context.Context, in models.Periodo) (models.Periodo, error) {
	var out models.Periodo
	err := s.c.post(ctx, "/api/periodos", in, &out)
	return out, err
}

func (s *PeriodoService) Update(ctx context.Context, id string, in models.Periodo) (models.Periodo, error) {
	var out models.Periodo
	err := s.c.put(ctx, "/api/periodos/"+id, in, &out)
	return out, err
}

func (s *PeriodoService) Destroy(ctx context.Context, id string) error {
	return s.c.delete(ctx, "/api/periodos/"+id)
}

// Search backs the periodo combobox, scoped to an academic year via the
// anio_id filter.
func (s *PeriodoService) Search(ctx context.Context, query string, filters Filters) ([]models.Candidate, error) {
	rows, err := searchPage[models.Periodo](ctx, s.c, "/api/periodos", query, filters)
	if err != nil {
		return nil, err
	}
	cands := make([]models.Candidate, len(rows))
	for i, p := range rows {
		cands[i] = models.Candidate{ID: p.ID, Label: p.Nombre, Detail: p.Inicio + " – " + p.Fin}
	}
	return cands, nil
}

type NivelService struct{ c *Client }

func (s *NivelService) Index(ctx context.Context, page int, filters Filters) (models.Page[models.Nivel], error) {
	return index[models.Nivel](ctx, s.c, "/api/niveles", page, filters)
}

func (s *NivelService) Search(ctx context.Context, query string, filters Filters) ([]models.Candidate, error) {
	rows, err := searchPage[models.Nivel](ctx, s.c, "/api/niveles", query, filters)
	if err != nil {
		return nil, err
	}
	cands := make([]models.Candidate, len(rows))
	for i, n := range rows {
		cands[i] = models.Candidate{ID: n.ID, Label: n.Nombre}
	}
	return cands, nil
}

type GradoService struct{ c *Client }

func (s *GradoService) Index(ctx context.Context, page int, filters Filters) (models.Page[models.Grado], error) {
	return index[models.Grado](ctx, s.c, "/api/grados", page, filters)
}

func (s *GradoService) Store(ctx context.Context, in models.Grado) (models.Grado, error) {
	var out models.Grado
	err := s.c.post(ctx, "/api/grados", in, &out)
	return out, err
}

func (s *GradoService) Search(ctx context.Context, query string, filters Filters) ([]models.Candidate, error) {
	rows, err := searchPage[models.Grado](ctx, s.c, "/api/grados", query, filters)
	if err != nil {
		return nil, err
	}
	cands := make([]models.Candidate, len(rows))
	for i, g := range rows {
		cands[i] = models.Candidate{ID: g.ID, Label: g.Nombre}
	}
	return cands, nil
}

type SeccionService struct{ c *Client }

func (s *SeccionService) Index(ctx context.Context, page int, filters Filters) (models.Page[models.Seccion], error) {
	return index[models.Seccion](ctx, s.c, "/api/secciones", page, filters)
}

func (s *SeccionService) Store(ctx context.Context, in models.Seccion) (models.Seccion, error) {
	var out models.Seccion
	err := s.c.post(ctx, "/api/secciones", in, &out)
	return out, err
}

func (s *SeccionService) Update(ctx context.Context, id string, in models.Seccion) (models.Seccion, error) {
	var out models.Seccion
	err := s.c.put(ctx, "/api/secciones/"+id, in, &out)
	return out, err
}

// Search backs the sección combobox. It depends on a grado selection
// (grado_id filter); sections without vacancy are listed but inert in form
// mode.
func (s *SeccionService) Search(ctx context.Context, query string, filters Filters) ([]models.Candidate, error) {
	rows, err := searchPage[models.Seccion](ctx, s.c, "/api/secciones", query, filters)
	if err != nil {
		return nil, err
	}
	cands := make([]models.Candidate, len(rows))
	for i, sec := range rows {
		full := sec.Flags.Vacantes <= 0
		detail := fmt.Sprintf("%d vacantes", sec.Flags.Vacantes)
		if full {
			detail = "sin vacantes"
		}
		cands[i] = models.Candidate{
			ID:       sec.ID,
			Label:    "Sección " + sec.Nombre,
			Detail:   detail,
			Disabled: full,
			Meta:     map[string]string{"vacantes": strconv.Itoa(sec.Flags.Vacantes)},
		}
	}
	return cands, nil
}

type CursoService struct{ c *Client }

func (s *CursoService) Index(ctx context.Context, page int, filters Filters) (models.Page[models.Curso], error) {
	return index[models.Curso](ctx, s.c, "/api/cursos", page, filters)
}

func (s *CursoService) Store(ctx context.Context, in models.Curso) (models.Curso, error) {
	var out models.Curso
	err := s.c.post(ctx, "/api/cursos", in, &out)
	return out, err
}

func (s *CursoService) Search(ctx context.Context, query string, filters Filters) ([]models.Candidate, error) {
	rows, err := searchPage[models.Curso](ctx, s.c, "/api/cursos", query, filters)
	if err != nil {
		return nil, err
	}
	cands := make([]models.Candidate, len(rows))
	for i, cu := range rows {
		cands[i] = models.Candidate{ID: cu.ID, Label: cu.Nombre}
	}
	return cands, nil
}

type DocenteService struct{ c *Client }

func (s *DocenteService) Index(ctx context.Context, page int, filters Filters) (models.Page[models.Docente], error) {
	return index[models.Docente](ctx, s.c, "/api/personal", page, filters)
}

func (s *DocenteService) Store(ctx context.Context, in models.Docente) (models.Docente, error) {
	var out models.Docente
	err := s.c.post(ctx, "/api/personal", in, &out)
	return out, err
}

func (s *DocenteService) Update(ctx context.Context, id string, in models.Docente) (models.Docente, error) {
	var out models.Docente
	err := s.c.put(ctx, "/api/personal/"+id, in, &out)
	return out, err
}

// Search backs the docente combobox; a rol_id filter narrows staff to
// teaching roles.
func (s *DocenteService) Search(ctx context.Context, query string, filters Filters) ([]models.Candidate, error) {
	rows, err := searchPage[models.Docente](ctx, s.c, "/api/personal", query, filters)
	if err != nil {
		return nil, err
	}
	cands := make([]models.Candidate, len(rows))
	for i, d := range rows {
		name := d.Apellidos + ", " + d.Nombres
		cands[i] = models.Candidate{ID: d.ID, Label: name, Detail: "DNI " + d.DNI}
	}
	return cands, nil
}

type RolService struct{ c *Client }

func (s *RolService) Search(ctx context.Context, query string, filters Filters) ([]models.Candidate, error) {
	rows, err := searchPage[models.Rol](ctx, s.c, "/api/roles", query, filters)
	if err != nil {
		return nil, err
	}
	cands := make([]models.Candidate, len(rows))
	for i, r := range rows {
		cands[i] = models.Candidate{ID: r.ID, Label: r.Nombre}
	}
	return cands, nil
}

type CurriculoService struct{ c *Client }

func (s *CurriculoService) Index(ctx context.Context, page int, filters Filters) (models.Page[models.CurriculoFila], error) {
	return index[models.CurriculoFila](ctx, s.c, "/api/curriculo", page, filters)
}

func (s *CurriculoService) Store(ctx context.Context, in models.CurriculoFila) (models.CurriculoFila, error) {
	var out models.CurriculoFila
	err := s.c.post(ctx, "/api/curriculo", in, &out)
	return out, err
}

func (s *CurriculoService) Destroy(ctx context.Context, id string) error {
	return s.c.delete(ctx, "/api/curriculo/"+id)
}

// Search backs the currículo-row combobox on the schedule form. It requires
// a grado_id filter and mirrors the row's required weekly hours so the
// schedule builder can compare against them without a second request.
func (s *CurriculoService) Search(ctx context.Context, query string, filters Filters) ([]models.Candidate, error) {
	rows, err := searchPage[models.CurriculoFila](ctx, s.c, "/api/curriculo", query, filters)
	if err != nil {
		return nil, err
	}
	cands := make([]models.Candidate, len(rows))
	for i, f := range rows {
		cands[i] = models.Candidate{
			ID:     f.ID,
			Label:  f.CursoNombre,
			Detail: strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.1f", f.HorasSemanales), "0"), ".") + " h/semana",
			Meta:   map[string]string{"horas": fmt.Sprintf("%g", f.HorasSemanales)},
		}
	}
	return cands, nil
}

type MatriculaService struct{ c *Client }

func (s *MatriculaService) Index(ctx context.Context, page int, filters Filters) (models.Page[models.Matricula], error) {
	return index[models.Matricula](ctx, s.c, "/api/matriculas", page, filters)
}

func (s *MatriculaService) Show(ctx context.Context, id string) (models.Matricula, error) {
	var out models.Matricula
	err := s.c.get(ctx, "/api/matriculas/"+id, nil, &out)
	return out, err
}

func (s *MatriculaService) Store(ctx context.Context, in models.Matricula) (models.Matricula, error) {
	var out models.Matricula
	err := s.c.post(ctx, "/api/matriculas", in, &out)
	return out, err
}

func (s *MatriculaService) Update(ctx context.Context, id string, in models.Matricula) (models.Matricula, error) {
	var out models.Matricula
	err := s.c.put(ctx, "/api/matriculas/"+id, in, &out)
	return out, err
}

// Anular voids an enrollment. The server decides whether voiding is allowed
// (payments attached, year closed); the client only mirrors the flags.
func (s *MatriculaService) Anular(ctx context.Context, id string) error {
	return s.c.post(ctx, "/api/matriculas/"+id+"/anular", nil, nil)
}

// Asignaciones lists a docente's existing course assignments, used to flag
// schedule overlaps in the builder.
func (s *MatriculaService) Asignaciones(ctx context.Context, docenteID string) ([]models.Asignacion, error) {
	var out []models.Asignacion
	err := s.c.get(ctx, "/api/personal/"+docenteID+"/asignaciones", nil, &out)
	return out, err
}

func (s *MatriculaService) StoreAsignacion(ctx context.Context, in models.Asignacion) (models.Asignacion, error) {
	var out models.Asignacion
	err := s.c.post(ctx, "/api/asignaciones", in, &out)
	return out, err
}

func (s *MatriculaService) UpdateAsignacion(ctx context.Context, id string, in models.Asignacion) (models.Asignacion, error) {
	var out models.Asignacion
	err := s.c.put(ctx, "/api/asignaciones/"+id, in, &out)
	return out, err
}

type ConceptoService struct{ c *Client }

func (s *ConceptoService) Index(ctx context.Context, page int, filters Filters) (models.Page[models.ConceptoPago], error) {
	return index[models.ConceptoPago](ctx, s.c, "/api/conceptos", page, filters)
}

func (s *ConceptoService) Store(ctx context.Context, in models.ConceptoPago) (models.ConceptoPago, error) {
	var out models.ConceptoPago
	err := s.c.post(ctx, "/api/conceptos", in, &out)
	return out, err
}

// Update edits a payment concept. Once payments exist against it the server
// rejects amount changes; tiene_pagos on the record warns the form ahead of
// time.
func (s *ConceptoService) Update(ctx context.Context, id string, in models.ConceptoPago) (models.ConceptoPago, error) {
	var out models.ConceptoPago
	err := s.c.put(ctx, "/api/conceptos/"+id, in, &out)
	return out, err
}

func (s *ConceptoService) Search(ctx context.Context, query string, filters Filters) ([]models.Candidate, error) {
	rows, err := searchPage[models.ConceptoPago](ctx, s.c, "/api/conceptos", query, filters)
	if err != nil {
		return nil, err
	}
	cands := make([]models.Candidate, len(rows))
	for i, co := range rows {
		cands[i] = models.Candidate{
			ID:     co.ID,
			Label:  co.Nombre,
			Detail: fmt.Sprintf("S/ %.2f", co.Monto),
			Meta:   map[string]string{"monto": fmt.Sprintf("%.2f", co.Monto)},
		}
	}
	return cands, nil
}

type PagoService struct{ c *Client }

func (s *PagoService) Index(ctx context.Context, page int, filters Filters) (models.Page[models.Pago], error) {
	return index[models.Pago](ctx, s.c, "/api/pagos", page, filters)
}

// Store records a payment. A client-generated receipt key is sent with the
// request so retries stay idempotent. On success the backend answers with the
// printed ticket as a PDF instead of JSON; in that case the returned bytes
// are the ticket and the Pago echoes the submitted fields, since the PDF body
// carries no decodable record.
func (s *PagoService) Store(ctx context.Context, in models.Pago) (models.Pago, []byte, error) {
	if in.Recibo == "" {
		in.Recibo = uuid.NewString()
	}
	body, contentType, err := s.c.do(ctx, http.MethodPost, "/api/pagos", nil, in)
	if err != nil {
		return models.Pago{}, nil, err
	}
	if strings.HasPrefix(contentType, "application/pdf") {
		return in, body, nil
	}
	var out models.Pago
	if err := decode(body, &out); err != nil {
		return models.Pago{}, nil, err
	}
	return out, nil, nil
}

// Anular voids a payment rather than deleting it; the ledger keeps the row.
func (s *PagoService) Anular(ctx context.Context, id string) error {
	return s.c.post(ctx, "/api/pagos/"+id+"/anular", nil, nil)
}
