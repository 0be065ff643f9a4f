package backup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ahorros/internal/apperrors"
	"github.com/MrJamesThe3rd/ahorros/internal/importer/backup"
)

func TestParser_Parse(t *testing.T) {
	type testCase struct {
		name    string
		payload string
		wantErr bool
	}

	tests := []testCase{
		{
			name: "Valid backup",
			payload: `{"meta":{"version":"1.0.0","currency":"MXN"},"settings":{"userName":"Ana"},
				"transactions":[{"id":"txn_1","name":"Luz","amount":450,"category":"Servicios","type":"expense","recurrence":"fixed","createdAt":"2025-03-01T10:00:00.000Z"}],
				"goals":[]}`,
		},
		{name: "Not JSON", payload: `name,amount`, wantErr: true},
		{name: "Top level list", payload: `[]`, wantErr: true},
		{name: "Missing goals", payload: `{"meta":{},"transactions":[]}`, wantErr: true},
		{name: "Transactions not a list", payload: `{"meta":{},"transactions":{},"goals":[]}`, wantErr: true},
		{name: "Meta null", payload: `{"meta":null,"transactions":[],"goals":[]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := backup.NewParser().Parse([]byte(tt.payload))
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidBackupFormat)

				var perr *apperrors.ParseError
				assert.ErrorAs(t, err, &perr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "1.0.0", doc.Meta.Version)
			require.Len(t, doc.Transactions, 1)
			assert.Equal(t, "450", doc.Transactions[0].Amount.String())
			assert.NotNil(t, doc.Goals)
		})
	}
}
