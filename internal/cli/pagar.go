package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avaldiviar/colegio/internal/models"
	"github.com/avaldiviar/colegio/internal/validation"
)

// PagarCmd registers a payment without entering the TUI and saves the ticket
// the backend returns.
type PagarCmd struct {
	Alumno   string  `required:"" help:"Alumno id."`
	Concepto string  `required:"" help:"Concepto de pago id."`
	Monto    float64 `required:"" help:"Monto en soles."`
	Out      string  `help:"Ticket output path; defaults to <data-dir>/tickets/<recibo>.pdf." type:"path"`
}

func (c *PagarCmd) Run(ctx *Context) error {
	payload := validation.PagoPayload{
		AlumnoID:   c.Alumno,
		ConceptoID: c.Concepto,
		Monto:      c.Monto,
	}
	if errs := validation.Struct(payload); len(errs) > 0 {
		return fmt.Errorf("pagar: %s", errs[0].Error())
	}

	pago, ticket, err := ctx.Client.Pagos.Store(context.Background(), models.Pago{
		AlumnoID:   c.Alumno,
		ConceptoID: c.Concepto,
		Monto:      c.Monto,
	})
	if err != nil {
		return fmt.Errorf("pagar: %w", err)
	}
	fmt.Printf("Pago registrado: recibo %s, S/ %.2f\n", pago.Recibo, pago.Monto)

	if len(ticket) == 0 {
		return nil
	}

	out := c.Out
	if out == "" {
		name := pago.Recibo
		if name == "" {
			name = pago.ID
		}
		out = filepath.Join(ctx.Config.DataDir, "tickets", name+".pdf")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("pagar: preparando directorio de boletas: %w", err)
	}
	if err := os.WriteFile(out, ticket, 0o644); err != nil {
		return fmt.Errorf("pagar: guardando boleta: %w", err)
	}
	fmt.Printf("Boleta guardada en %s\n", out)
	return nil
}
