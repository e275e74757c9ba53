// Package validation checks outgoing form payloads before they hit the
// backend. The server re-validates everything; this only saves a round trip
// for the obvious cases.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError is one per-field validation failure with a message suitable for
// the form footer.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Struct validates a tagged payload struct and flattens the result into
// field errors.
func Struct(v any) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: strings.ToLower(fe.Field()), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "min":
		return fmt.Sprintf("debe ser al menos %s", fe.Param())
	case "max":
		return fmt.Sprintf("no debe exceder %s", fe.Param())
	case "len":
		return fmt.Sprintf("debe tener %s caracteres", fe.Param())
	case "numeric":
		return "debe ser numérico"
	case "gt":
		return fmt.Sprintf("debe ser mayor que %s", fe.Param())
	default:
		return "no es válido"
	}
}

// MatriculaPayload is the client-side shape of an enrollment submission: the
// ids gathered from the comboboxes.
type MatriculaPayload struct {
	AlumnoID  string `validate:"required"`
	AnioID    string `validate:"required"`
	GradoID   string `validate:"required"`
	SeccionID string `validate:"required"`
}

// PagoPayload is a cashier submission.
type PagoPayload struct {
	AlumnoID   string  `validate:"required"`
	ConceptoID string  `validate:"required"`
	Monto      float64 `validate:"required,gt=0"`
}

// AlumnoPayload covers student creation.
type AlumnoPayload struct {
	Nombres   string `validate:"required"`
	Apellidos string `validate:"required"`
	DNI       string `validate:"required,len=8,numeric"`
}
