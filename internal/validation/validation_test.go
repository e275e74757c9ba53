package validation

import "testing"

func TestStruct(t *testing.T) {
	tests := []struct {
		name       string
		payload    any
		wantFields []string
	}{
		{
			name:    "valid pago",
			payload: PagoPayload{AlumnoID: "7", ConceptoID: "2", Monto: 150},
		},
		{
			name:       "pago without amount",
			payload:    PagoPayload{AlumnoID: "7", ConceptoID: "2"},
			wantFields: []string{"monto"},
		},
		{
			name:       "matricula missing dependent ids",
			payload:    MatriculaPayload{AlumnoID: "7", AnioID: "1"},
			wantFields: []string{"gradoid", "seccionid"},
		},
		{
			name:       "alumno with short dni",
			payload:    AlumnoPayload{Nombres: "Ana", Apellidos: "Quispe", DNI: "123"},
			wantFields: []string{"dni"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Struct(tt.payload)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("got %d errors (%v), want %d", len(errs), errs, len(tt.wantFields))
			}
			for i, f := range tt.wantFields {
				if errs[i].Field != f {
					t.Errorf("error %d field = %q, want %q", i, errs[i].Field, f)
				}
				if errs[i].Message == "" {
					t.Errorf("error %d has empty message", i)
				}
			}
		})
	}
}
