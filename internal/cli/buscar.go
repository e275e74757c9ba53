package cli

import (
	"context"
	"fmt"

	"github.com/avaldiviar/colegio/internal/api"
	"github.com/avaldiviar/colegio/internal/constants"
	"github.com/avaldiviar/colegio/internal/models"
)

// BuscarCmd runs one remote search from the terminal, mostly for scripting
// and for checking what the combobox would offer.
type BuscarCmd struct {
	Kind  string `arg:"" help:"Entity kind (alumno, anio, curso, docente, grado, nivel, periodo, seccion, curriculo, rol, concepto)."`
	Query string `arg:"" optional:"" help:"Search text; empty lists the first page."`
	Grado string `help:"Restrict secciones or currículo to a grado id."`
	Nivel string `help:"Restrict grados or cursos to a nivel id."`
}

func (c *BuscarCmd) Run(ctx *Context) error {
	search, err := searchFor(ctx.Client, c.Kind)
	if err != nil {
		return err
	}

	filters := api.Filters{}
	if c.Grado != "" {
		filters["grado_id"] = c.Grado
	}
	if c.Nivel != "" {
		filters["nivel_id"] = c.Nivel
	}

	cands, err := search(context.Background(), c.Query, filters)
	if err != nil {
		return fmt.Errorf("buscar %s: %w", c.Kind, err)
	}
	if len(cands) == 0 {
		fmt.Println("sin resultados")
		return nil
	}
	for _, cand := range cands {
		printCandidate(cand)
	}
	return nil
}

func searchFor(client *api.Client, kind string) (func(context.Context, string, api.Filters) ([]models.Candidate, error), error) {
	switch kind {
	case constants.KindAlumno:
		return client.Alumnos.Search, nil
	case constants.KindAnio:
		return client.Anios.Search, nil
	case constants.KindCurso:
		return client.Cursos.Search, nil
	case constants.KindDocente:
		return client.Docentes.Search, nil
	case constants.KindGrado:
		return client.Grados.Search, nil
	case constants.KindNivel:
		return client.Niveles.Search, nil
	case constants.KindPeriodo:
		return client.Periodos.Search, nil
	case constants.KindSeccion:
		return client.Secciones.Search, nil
	case constants.KindCurriculo:
		return client.Curriculo.Search, nil
	case constants.KindRol:
		return client.Roles.Search, nil
	case constants.KindConcepto:
		return client.Conceptos.Search, nil
	default:
		return nil, fmt.Errorf("tipo desconocido: %q", kind)
	}
}

func printCandidate(c models.Candidate) {
	line := fmt.Sprintf("%-8s %s", c.ID, c.Label)
	if c.Detail != "" {
		line += "  (" + c.Detail + ")"
	}
	if c.Disabled {
		line += "  [no seleccionable]"
	}
	fmt.Println(line)
}
