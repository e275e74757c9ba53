package cli

import (
	"context"
	"fmt"
)

// AnularMatriculaCmd voids an enrollment. The server owns the rule set
// (attached payments, closed year); this surfaces its verdict.
type AnularMatriculaCmd struct {
	ID string `arg:"" help:"Matrícula id."`
}

func (c *AnularMatriculaCmd) Run(ctx *Context) error {
	mat, err := ctx.Client.Matriculas.Show(context.Background(), c.ID)
	if err != nil {
		return fmt.Errorf("anular-matricula: %w", err)
	}
	if mat.Flags.BloqueoFinanciero {
		return fmt.Errorf("anular-matricula: la matrícula %s tiene bloqueo financiero", c.ID)
	}
	if err := ctx.Client.Matriculas.Anular(context.Background(), c.ID); err != nil {
		return fmt.Errorf("anular-matricula: %w", err)
	}
	fmt.Printf("Matrícula %s anulada.\n", c.ID)
	return nil
}
