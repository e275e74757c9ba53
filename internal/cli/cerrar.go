package cli

import (
	"context"
	"fmt"
)

// CerrarAnioCmd closes an academic year. The server decides whether closing
// is allowed; afterwards the year's records go read-only and its candidates
// render as non-selectable.
type CerrarAnioCmd struct {
	ID string `arg:"" help:"Año académico id."`
}

func (c *CerrarAnioCmd) Run(ctx *Context) error {
	anio, err := ctx.Client.Anios.Show(context.Background(), c.ID)
	if err != nil {
		return fmt.Errorf("cerrar-anio: %w", err)
	}
	if anio.Cerrado {
		fmt.Printf("El año %s ya está cerrado.\n", anio.Nombre)
		return nil
	}
	if err := ctx.Client.Anios.Cerrar(context.Background(), c.ID); err != nil {
		return fmt.Errorf("cerrar-anio: %w", err)
	}
	fmt.Printf("Año %s cerrado.\n", anio.Nombre)
	return nil
}
