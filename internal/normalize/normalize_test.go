package normalize_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ahorros/internal/mapping"
	"github.com/MrJamesThe3rd/ahorros/internal/normalize"
	"github.com/MrJamesThe3rd/ahorros/internal/transaction"
)

var importedAt = time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

func newNormalizer() *normalize.Normalizer {
	seq := 0

	return normalize.New(
		normalize.WithClock(func() time.Time { return importedAt }),
		normalize.WithIDs(func() string {
			seq++
			return fmt.Sprintf("txn_%d", seq)
		}),
		normalize.WithLocation(time.UTC),
	)
}

func TestNormalizer_Normalize(t *testing.T) {
	type testCase struct {
		name   string
		input  mapping.Candidate
		verify func(t *testing.T, tx transaction.Transaction)
	}

	tests := []testCase{
		{
			name:  "Currency symbols and separators are stripped",
			input: mapping.Candidate{Name: "Bono", Amount: "$1,200.50"},
			verify: func(t *testing.T, tx transaction.Transaction) {
				assert.True(t, decimal.RequireFromString("1200.50").Equal(tx.Amount))
				assert.Equal(t, transaction.TypeIncome, tx.Type)
			},
		},
		{
			name:  "Negative amount without type is an expense",
			input: mapping.Candidate{Name: "Súper", Amount: "-500"},
			verify: func(t *testing.T, tx transaction.Transaction) {
				assert.Equal(t, "500", tx.Amount.String())
				assert.Equal(t, transaction.TypeExpense, tx.Type)
			},
		},
		{
			name:  "Unsigned amount without type is income",
			input: mapping.Candidate{Name: "Venta", Amount: "500"},
			verify: func(t *testing.T, tx transaction.Transaction) {
				assert.Equal(t, "500", tx.Amount.String())
				assert.Equal(t, transaction.TypeIncome, tx.Type)
			},
		},
		{
			name:  "Income marker in raw type wins over negative sign",
			input: mapping.Candidate{Name: "Reembolso", Amount: "-300", Type: "INGRESO extra"},
			verify: func(t *testing.T, tx transaction.Transaction) {
				assert.Equal(t, transaction.TypeIncome, tx.Type)
				assert.Equal(t, "300", tx.Amount.String())
			},
		},
		{
			name:  "Fixed income marker",
			input: mapping.Candidate{Name: "Sueldo", Amount: "-10", Type: "Fijo +"},
			verify: func(t *testing.T, tx transaction.Transaction) {
				assert.Equal(t, transaction.TypeIncome, tx.Type)
			},
		},
		{
			name:  "Positive amount typed as expense still counts as income",
			input: mapping.Candidate{Name: "Luz", Amount: "450", Type: "Gasto"},
			verify: func(t *testing.T, tx transaction.Transaction) {
				assert.Equal(t, transaction.TypeIncome, tx.Type)
			},
		},
		{
			name:  "Defaults applied",
			input: mapping.Candidate{Amount: "-80", Name: "  "},
			verify: func(t *testing.T, tx transaction.Transaction) {
				assert.Equal(t, transaction.DefaultName, tx.Name)
				assert.Equal(t, transaction.DefaultCategory, tx.Category)
				assert.Equal(t, transaction.RecurrenceVariable, tx.Recurrence)
				assert.Equal(t, importedAt, tx.CreatedAt)
				assert.Equal(t, "txn_1", tx.ID)
			},
		},
		{
			name:  "Recurrence coerced",
			input: mapping.Candidate{Name: "Renta", Amount: "-8500", Recurrence: "Fija"},
			verify: func(t *testing.T, tx transaction.Transaction) {
				assert.Equal(t, transaction.RecurrenceFixed, tx.Recurrence)
			},
		},
		{
			name:  "Day-first date",
			input: mapping.Candidate{Name: "Gas", Amount: "-600", Date: "05/03/2026"},
			verify: func(t *testing.T, tx transaction.Transaction) {
				assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), tx.CreatedAt)
			},
		},
		{
			name:  "ISO date",
			input: mapping.Candidate{Name: "Gas", Amount: "-600", Date: "2026-03-05T10:00:00Z"},
			verify: func(t *testing.T, tx transaction.Transaction) {
				assert.Equal(t, time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC), tx.CreatedAt.UTC())
			},
		},
		{
			name:  "Unreadable date falls back to import time",
			input: mapping.Candidate{Name: "Gas", Amount: "-600", Date: "mañana"},
			verify: func(t *testing.T, tx transaction.Transaction) {
				assert.Equal(t, importedAt, tx.CreatedAt)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, report := newNormalizer().Normalize([]mapping.Candidate{tt.input})
			require.Len(t, txs, 1)
			assert.Equal(t, 1, report.Accepted)
			tt.verify(t, txs[0])
		})
	}
}

func TestNormalizer_RejectsRows(t *testing.T) {
	cands := []mapping.Candidate{
		{Name: "Cero", Amount: "0"},
		{Name: "Vacío", Amount: ""},
		{Name: "Texto", Amount: "abc"},
		{Name: "Bueno", Amount: "-1"},
		{Name: "Solo signo", Amount: "$ ,"},
	}

	txs, report := newNormalizer().Normalize(cands)
	require.Len(t, txs, 1)
	assert.Equal(t, "Bueno", txs[0].Name)

	assert.Equal(t, 5, report.Total)
	assert.Equal(t, 1, report.Accepted)
	assert.Equal(t, 4, report.Rejected)
	require.Len(t, report.Rejections, 4)
	assert.Equal(t, 0, report.Rejections[0].Row)
	assert.Equal(t, "amount must be greater than zero", report.Rejections[0].Reason)
	assert.Equal(t, "amount is empty", report.Rejections[1].Reason)
	assert.Contains(t, report.Rejections[2].Reason, "not a number")
	assert.Equal(t, 4, report.Rejections[3].Row)
}

func TestNormalizer_DateFallbackCounted(t *testing.T) {
	_, report := newNormalizer().Normalize([]mapping.Candidate{
		{Name: "A", Amount: "1", Date: "nope"},
		{Name: "B", Amount: "1", Date: "2026-01-01"},
	})

	assert.Equal(t, 1, report.DateFallbacks)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "$1,200.50", want: "1200.5", ok: true},
		{in: " -1 000 ", want: "-1000", ok: true},
		{in: "12abc", want: "0", ok: false},
		{in: "", want: "0", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := normalize.ParseAmount(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
