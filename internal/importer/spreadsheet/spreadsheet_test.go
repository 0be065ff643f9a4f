package spreadsheet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/ahorros/internal/apperrors"
	"github.com/MrJamesThe3rd/ahorros/internal/importer/spreadsheet"
)

// workbook builds an xlsx file whose first sheet holds rows, plus an extra
// sheet that must be ignored.
func workbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	_, err := f.NewSheet("Otra")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Otra", "A1", "ignorar"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	return buf.Bytes()
}

func TestParser_Parse(t *testing.T) {
	payload := workbook(t, [][]any{
		{"Nombre", "Monto", "Categoría"},
		{"Nómina", 25000, "Trabajo"},
		{},
		{"Renta", -8500},
		{nil, nil, "Vivienda"},
	})

	table, err := spreadsheet.NewParser().Parse(payload)
	require.NoError(t, err)

	assert.Equal(t, []string{"Nombre", "Monto", "Categoría"}, table.Headers)
	require.Equal(t, 3, table.Len())
	assert.Equal(t, "25000", table.Rows[0].Get("Monto"))
	assert.Equal(t, "", table.Rows[1].Get("Categoría"), "missing cell defaults to empty")
	assert.Equal(t, "", table.Rows[2].Get("Nombre"))
	assert.Equal(t, "Vivienda", table.Rows[2].Get("Categoría"))
}

func TestParser_Empty(t *testing.T) {
	type testCase struct {
		name    string
		rows    [][]any
		wantErr error
	}

	tests := []testCase{
		{name: "No rows", rows: nil, wantErr: apperrors.ErrEmptySpreadsheet},
		{name: "Header only", rows: [][]any{{"Nombre", "Monto"}}, wantErr: apperrors.ErrEmptySpreadsheet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := spreadsheet.NewParser().Parse(workbook(t, tt.rows))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParser_NotAWorkbook(t *testing.T) {
	_, err := spreadsheet.NewParser().Parse([]byte("name,amount\nx,1\n"))
	assert.ErrorIs(t, err, apperrors.ErrUnknownFormat)

	var perr *apperrors.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, spreadsheet.Format, perr.Format)
}
