package finance_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ahorros/internal/finance"
	"github.com/MrJamesThe3rd/ahorros/internal/goal"
	"github.com/MrJamesThe3rd/ahorros/internal/state"
	"github.com/MrJamesThe3rd/ahorros/internal/transaction"
)

var fixedTime = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tx(typ transaction.Type, rec transaction.Recurrence, category, amount string) transaction.Transaction {
	return transaction.Transaction{Type: typ, Recurrence: rec, Category: category, Amount: d(amount)}
}

func fixture() []transaction.Transaction {
	return []transaction.Transaction{
		tx(transaction.TypeIncome, transaction.RecurrenceFixed, "Trabajo", "25000"),
		tx(transaction.TypeExpense, transaction.RecurrenceFixed, "Vivienda", "8500"),
		tx(transaction.TypeExpense, transaction.RecurrenceVariable, "Alimentación", "3200.50"),
		tx(transaction.TypeExpense, transaction.RecurrenceFixed, "Servicios", "1500"),
		tx(transaction.TypeIncome, transaction.RecurrenceVariable, "Freelance", "4000"),
		tx(transaction.TypeExpense, transaction.RecurrenceVariable, "Vivienda", "300"),
	}
}

func TestTotals(t *testing.T) {
	txs := fixture()

	assert.Equal(t, "29000", finance.TotalIncome(txs).String())
	assert.Equal(t, "13500.5", finance.TotalExpenses(txs).String())
	assert.Equal(t, "15499.5", finance.MonthlySavings(txs).String())

	assert.True(t, finance.TotalIncome(nil).IsZero())
}

func TestMonthsToGoal(t *testing.T) {
	type testCase struct {
		name      string
		remaining string
		savings   string
		want      int
		wantKnown bool
	}

	tests := []testCase{
		{name: "Exact division", remaining: "1000", savings: "250", want: 4, wantKnown: true},
		{name: "Rounds up", remaining: "1001", savings: "250", want: 5, wantKnown: true},
		{name: "Zero savings", remaining: "1000", savings: "0"},
		{name: "Negative savings", remaining: "1000", savings: "-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, known := finance.MonthsToGoal(d(tt.remaining), d(tt.savings))
			assert.Equal(t, tt.wantKnown, known)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFutureValue(t *testing.T) {
	assert.InDelta(t, 12682.50, finance.FutureValue(1000, 12, 12), 0.01)
	assert.Equal(t, 0.0, finance.FutureValue(0, 12, 12))
	assert.Equal(t, 0.0, finance.FutureValue(-5, 12, 12))
	assert.Equal(t, 0.0, finance.FutureValue(1000, 12, 0))
	assert.Equal(t, 12000.0, finance.FutureValue(1000, 0, 12))
}

func TestEmergencyFundTarget(t *testing.T) {
	txs := []transaction.Transaction{
		tx(transaction.TypeExpense, transaction.RecurrenceFixed, "Vivienda", "8000"),
		tx(transaction.TypeExpense, transaction.RecurrenceFixed, "Servicios", "2000"),
		tx(transaction.TypeExpense, transaction.RecurrenceVariable, "Ropa", "999"),
		tx(transaction.TypeIncome, transaction.RecurrenceFixed, "Trabajo", "50000"),
	}

	assert.Equal(t, "30000", finance.EmergencyFundTarget(txs, 3).String())
	assert.Equal(t, "60000", finance.EmergencyFundTarget(txs, 6).String())
	assert.Equal(t, "30000", finance.EmergencyFundTarget(txs, 0).String(), "non-positive months fall back to 3")
}

func TestExpensesByCategory(t *testing.T) {
	got := finance.ExpensesByCategory(fixture())

	require.Len(t, got, 3)
	assert.Equal(t, "Vivienda", got[0].Category)
	assert.Equal(t, "8800", got[0].Total.String())
	assert.Equal(t, "Alimentación", got[1].Category)
	assert.Equal(t, "Servicios", got[2].Category)
}

func TestProjection(t *testing.T) {
	points := finance.Projection(1000, 12, 12)

	require.Len(t, points, 13)
	assert.Equal(t, finance.ProjectionPoint{Month: 0}, points[0])
	assert.Equal(t, 1000.0, points[1].WithInterest)
	assert.Equal(t, 12000.0, points[12].WithoutInterest)
	assert.InDelta(t, 12682.50, points[12].WithInterest, 0.01)
	assert.InDelta(t, 682.50, finance.InterestGain(points), 0.01)

	assert.Len(t, finance.Projection(1000, 12, -1), 1)
}

func TestGoalProgress(t *testing.T) {
	g := goal.Goal{Name: "Viaje", TargetAmount: d("1000"), CurrentAmount: d("250")}

	status := finance.GoalProgress(g, d("250"))
	assert.Equal(t, 25.0, status.Percent)
	assert.Equal(t, "750", status.Remaining.String())
	assert.True(t, status.MonthsKnown)
	assert.Equal(t, 3, status.MonthsLeft)

	status = finance.GoalProgress(g, d("-1"))
	assert.False(t, status.MonthsKnown)

	g.CurrentAmount = d("1000")
	status = finance.GoalProgress(g, d("0"))
	assert.True(t, status.MonthsKnown)
	assert.Equal(t, 0, status.MonthsLeft)
	assert.Equal(t, 100.0, status.Percent)
}

func TestSummarize(t *testing.T) {
	doc := state.Default(fixedTime)
	doc.Transactions = fixture()
	doc.Goals = []goal.Goal{{Name: "Viaje", TargetAmount: d("31000"), CurrentAmount: d("0")}}

	s := finance.Summarize(doc)

	assert.Equal(t, "MXN", s.Currency)
	assert.Equal(t, "15499.5", s.Savings.String())
	assert.Equal(t, 53.4, s.SavingsRate)
	assert.Equal(t, 46.6, s.ExpenseRatio)
	assert.Equal(t, 3, s.EmergencyFund.Months)
	assert.Equal(t, "30000", s.EmergencyFund.Target.String())
	assert.True(t, s.EmergencyFund.NeededKnown)
	assert.Equal(t, 2, s.EmergencyFund.MonthsNeeded)
	require.Len(t, s.Goals, 1)
	assert.Equal(t, 3, s.Goals[0].MonthsLeft)
	assert.Equal(t, 6, s.TransactionCount)
}

func TestSummarize_NoIncome(t *testing.T) {
	doc := state.Default(fixedTime)
	doc.Transactions = []transaction.Transaction{tx(transaction.TypeExpense, transaction.RecurrenceFixed, "Vivienda", "100")}

	s := finance.Summarize(doc)

	assert.Zero(t, s.SavingsRate)
	assert.False(t, s.EmergencyFund.NeededKnown)
	assert.Empty(t, s.Goals)
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{amount: "1234.5", currency: "MXN", want: "$1,234.50"},
		{amount: "-8500", currency: "MXN", want: "-$8,500.00"},
		{amount: "0.005", currency: "MXN", want: "$0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.amount+tt.currency, func(t *testing.T) {
			assert.Equal(t, tt.want, finance.FormatCurrency(d(tt.amount), tt.currency))
		})
	}

	assert.Equal(t, "+$10.00", finance.FormatSigned(d("10"), "MXN"))
}
