package mapping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ahorros/internal/apperrors"
	"github.com/MrJamesThe3rd/ahorros/internal/mapping"
	"github.com/MrJamesThe3rd/ahorros/internal/tabular"
)

func table() tabular.Table {
	return tabular.Table{
		Headers: []string{"Concepto", "Importe", "Tipo"},
		Rows: []tabular.Row{
			{"Concepto": "Nómina", "Importe": "25000", "Tipo": "Ingreso"},
			{"Concepto": "Renta", "Importe": "-8500", "Tipo": "Gasto"},
			{"Concepto": "Café", "Importe": "45"},
		},
	}
}

func TestValidate(t *testing.T) {
	type testCase struct {
		name    string
		mapping mapping.Mapping
		wantErr bool
	}

	tests := []testCase{
		{
			name:    "Name and amount mapped",
			mapping: mapping.Mapping{mapping.FieldName: "Concepto", mapping.FieldAmount: "Importe"},
		},
		{
			name:    "Amount ignored",
			mapping: mapping.Mapping{mapping.FieldName: "Concepto", mapping.FieldAmount: mapping.Ignored},
			wantErr: true,
		},
		{
			name:    "Name missing",
			mapping: mapping.Mapping{mapping.FieldAmount: "Importe", mapping.FieldType: "Tipo"},
			wantErr: true,
		},
		{
			name:    "Unknown column is still accepted",
			mapping: mapping.Mapping{mapping.FieldName: "Nope", mapping.FieldAmount: "Importe"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapping.Validate(tt.mapping)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrMissingRequiredMapping)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestMap(t *testing.T) {
	m := mapping.Mapping{
		mapping.FieldName:     "Concepto",
		mapping.FieldAmount:   "Importe",
		mapping.FieldType:     "Tipo",
		mapping.FieldCategory: mapping.Ignored,
		mapping.FieldDate:     "Fecha",
	}

	got := mapping.Map(table(), m)
	require.Len(t, got, 3)

	assert.Equal(t, mapping.Candidate{Name: "Nómina", Amount: "25000", Type: "Ingreso"}, got[0])
	assert.Equal(t, "Gasto", got[1].Type)
	assert.Equal(t, "", got[2].Type, "missing cell reads as empty")
	assert.Equal(t, "", got[2].Date, "column absent from the table reads as empty")
}

func TestPreview(t *testing.T) {
	m := mapping.Mapping{mapping.FieldName: "Concepto", mapping.FieldAmount: "Importe"}

	assert.Len(t, mapping.Preview(table(), m, 2), 2)
	assert.Len(t, mapping.Preview(table(), m, 10), 3)
}

func TestGuess(t *testing.T) {
	got := mapping.Guess([]string{"Fecha", "Concepto", "Importe", "Notas"})

	assert.Equal(t, "Concepto", got[mapping.FieldName])
	assert.Equal(t, "Importe", got[mapping.FieldAmount])
	assert.Equal(t, "Fecha", got[mapping.FieldDate])
	assert.NotContains(t, got, mapping.FieldCategory)
	assert.NoError(t, mapping.Validate(got))
}

func TestParseField(t *testing.T) {
	f, err := mapping.ParseField(" Amount ")
	require.NoError(t, err)
	assert.Equal(t, mapping.FieldAmount, f)

	_, err = mapping.ParseField("balance")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
