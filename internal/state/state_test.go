package state_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ahorros/internal/apperrors"
	"github.com/MrJamesThe3rd/ahorros/internal/state"
	"github.com/MrJamesThe3rd/ahorros/internal/transaction"
)

func TestDefault(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	doc := state.Default(now)

	assert.Equal(t, state.Version, doc.Meta.Version)
	assert.Equal(t, "MXN", doc.Meta.Currency)
	assert.Equal(t, now, doc.Meta.CreatedAt)
	assert.Equal(t, "Usuario", doc.Settings.UserName)
	assert.Equal(t, 11.0, doc.Settings.MonthlyInterestRate)
	assert.Equal(t, 3, doc.Settings.EmergencyFundMonths)
	assert.NotNil(t, doc.Transactions)
	assert.NotNil(t, doc.Goals)
	assert.True(t, doc.Compatible())
}

func TestDocument_JSONShape(t *testing.T) {
	doc := state.Default(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	doc.Transactions = append(doc.Transactions, transaction.Transaction{
		ID: "txn_abc123", Name: "Renta", Amount: decimal.RequireFromString("8500.5"),
		Category: "Vivienda", Type: transaction.TypeExpense, Recurrence: transaction.RecurrenceFixed,
		CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	})

	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))

	assert.Contains(t, generic, "meta")
	assert.Contains(t, generic, "settings")

	txs := generic["transactions"].([]any)
	first := txs[0].(map[string]any)
	assert.Equal(t, 8500.5, first["amount"], "amounts are JSON numbers")
	assert.Equal(t, "2026-01-02T00:00:00Z", first["createdAt"])
}

func TestDocument_DecodesBrowserBackup(t *testing.T) {
	raw := `{
	  "meta": {"version": "1.0.0", "createdAt": "2025-03-01T10:00:00.000Z", "updatedAt": "2025-03-02T10:00:00.000Z", "currency": "MXN"},
	  "settings": {"userName": "Ana", "monthlyInterestRate": 10.5, "emergencyFundMonths": 6},
	  "transactions": [{"id": "txn_k2j4x1", "name": "Luz", "amount": 450, "category": "Servicios", "type": "expense", "recurrence": "fixed", "createdAt": "2025-03-01T10:00:00.000Z"}],
	  "goals": [{"id": "goal_a1b2c3", "name": "Viaje", "targetAmount": 30000, "currentAmount": 1200.5, "icon": "◎", "createdAt": "2025-03-01T10:00:00.000Z"}]
	}`

	var doc state.Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.True(t, doc.Compatible())
	assert.Equal(t, 6, doc.Settings.EmergencyFundMonths)
	assert.Equal(t, "450", doc.Transactions[0].Amount.String())
	assert.Equal(t, "1200.5", doc.Goals[0].CurrentAmount.String())
}

func TestDocument_Clone(t *testing.T) {
	doc := state.Default(time.Now())
	doc.Transactions = append(doc.Transactions, transaction.Transaction{ID: "txn_1"})

	clone := doc.Clone()
	clone.Transactions[0].ID = "changed"
	clone.Transactions = append(clone.Transactions, transaction.Transaction{ID: "txn_2"})

	assert.Equal(t, "txn_1", doc.Transactions[0].ID)
	assert.Len(t, doc.Transactions, 1)

	empty := state.Document{}.Clone()
	assert.NotNil(t, empty.Transactions)
	assert.NotNil(t, empty.Goals)
}

func TestSettingsUpdate_Apply(t *testing.T) {
	months := 6
	got := state.SettingsUpdate{EmergencyFundMonths: &months}.Apply(state.Default(time.Now()).Settings)

	assert.Equal(t, 6, got.EmergencyFundMonths)
	assert.Equal(t, "Usuario", got.UserName)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name     string
		settings state.Settings
		wantErr  bool
	}{
		{name: "defaults", settings: state.Default(time.Now()).Settings},
		{name: "zero rate", settings: state.Settings{EmergencyFundMonths: 1}},
		{name: "no emergency months", settings: state.Settings{MonthlyInterestRate: 5}, wantErr: true},
		{name: "negative rate", settings: state.Settings{EmergencyFundMonths: 3, MonthlyInterestRate: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.settings.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}

			assert.NoError(t, err)
		})
	}
}
