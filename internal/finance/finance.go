// Package finance holds the pure calculators behind the dashboard, the goal
// cards and the simulator. Nothing here reads or writes state.
package finance

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ahorros/internal/transaction"
)

// DefaultEmergencyFundMonths is used when no positive month count is given.
const DefaultEmergencyFundMonths = 3

func TotalIncome(txs []transaction.Transaction) decimal.Decimal {
	return sumWhere(txs, func(t transaction.Transaction) bool { return t.Type == transaction.TypeIncome })
}

func TotalExpenses(txs []transaction.Transaction) decimal.Decimal {
	return sumWhere(txs, func(t transaction.Transaction) bool { return t.Type == transaction.TypeExpense })
}

// MonthlySavings is income minus expenses. It can be negative.
func MonthlySavings(txs []transaction.Transaction) decimal.Decimal {
	return TotalIncome(txs).Sub(TotalExpenses(txs))
}

// MonthsToGoal returns ceil(remaining / savings). The second value is false
// when savings is zero or negative, in which case the goal is never reached.
func MonthsToGoal(remaining, savings decimal.Decimal) (int, bool) {
	if !savings.IsPositive() {
		return 0, false
	}

	return int(remaining.Div(savings).Ceil().IntPart()), true
}

// FutureValue is the ordinary annuity future value of pmt paid at the end of
// each month for months months at annualRatePercent, compounded monthly.
func FutureValue(pmt, annualRatePercent float64, months int) float64 {
	if pmt <= 0 || months <= 0 {
		return 0
	}

	r := annualRatePercent / 100 / 12
	if r == 0 {
		return pmt * float64(months)
	}

	return pmt * ((math.Pow(1+r, float64(months)) - 1) / r)
}

// EmergencyFundTarget is the sum of fixed expenses times months.
func EmergencyFundTarget(txs []transaction.Transaction, months int) decimal.Decimal {
	if months <= 0 {
		months = DefaultEmergencyFundMonths
	}

	fixed := sumWhere(txs, func(t transaction.Transaction) bool {
		return t.Type == transaction.TypeExpense && t.Recurrence == transaction.RecurrenceFixed
	})

	return fixed.Mul(decimal.NewFromInt(int64(months)))
}

// EmergencyFundMonthsNeeded is how long the current savings take to build
// the fund.
func EmergencyFundMonthsNeeded(target, savings decimal.Decimal) (int, bool) {
	return MonthsToGoal(target, savings)
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// ExpensesByCategory sums expenses per category in first-seen order.
func ExpensesByCategory(txs []transaction.Transaction) []CategoryTotal {
	var out []CategoryTotal

	index := make(map[string]int)

	for _, t := range txs {
		if t.Type != transaction.TypeExpense {
			continue
		}

		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, CategoryTotal{Category: t.Category})
		}

		out[i].Total = out[i].Total.Add(t.Amount)
	}

	return out
}

type ProjectionPoint struct {
	Month           int     `json:"month"`
	WithInterest    float64 `json:"withInterest"`
	WithoutInterest float64 `json:"withoutInterest"`
}

// Projection returns the simulator series for months 0 through months, with
// and without interest, rounded to cents.
func Projection(pmt, annualRatePercent float64, months int) []ProjectionPoint {
	if months < 0 {
		months = 0
	}

	out := make([]ProjectionPoint, 0, months+1)

	for i := 0; i <= months; i++ {
		out = append(out, ProjectionPoint{
			Month:           i,
			WithInterest:    round2(FutureValue(pmt, annualRatePercent, i)),
			WithoutInterest: round2(pmt * float64(i)),
		})
	}

	return out
}

// InterestGain is the difference between the last two projected values.
func InterestGain(points []ProjectionPoint) float64 {
	if len(points) == 0 {
		return 0
	}

	last := points[len(points)-1]

	return round2(last.WithInterest - last.WithoutInterest)
}

// FormatCurrency renders amount with the symbol and separators of the given
// ISO currency code, rounded to the currency's minor unit.
func FormatCurrency(amount decimal.Decimal, currency string) string {
	cur := money.New(0, currency).Currency()
	minor := amount.Shift(int32(cur.Fraction)).Round(0)

	return cur.Formatter().Format(minor.IntPart())
}

// FormatSigned is FormatCurrency with an explicit + for positive amounts.
func FormatSigned(amount decimal.Decimal, currency string) string {
	if amount.IsPositive() {
		return "+" + FormatCurrency(amount, currency)
	}

	return FormatCurrency(amount, currency)
}

func sumWhere(txs []transaction.Transaction, keep func(transaction.Transaction) bool) decimal.Decimal {
	sum := decimal.Zero

	for _, t := range txs {
		if keep(t) {
			sum = sum.Add(t.Amount)
		}
	}

	return sum
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
