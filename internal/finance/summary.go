package finance

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ahorros/internal/goal"
	"github.com/MrJamesThe3rd/ahorros/internal/state"
)

type GoalStatus struct {
	Goal      goal.Goal       `json:"goal"`
	Percent   float64         `json:"percent"`
	Remaining decimal.Decimal `json:"remaining"`
	// MonthsLeft is only meaningful when MonthsKnown is true.
	MonthsLeft  int  `json:"monthsLeft"`
	MonthsKnown bool `json:"monthsKnown"`
}

// GoalProgress projects a goal against the current monthly savings. A goal
// that is already reached needs zero months.
func GoalProgress(g goal.Goal, savings decimal.Decimal) GoalStatus {
	status := GoalStatus{
		Goal:      g,
		Percent:   g.Progress(),
		Remaining: g.Remaining(),
	}

	if !status.Remaining.IsPositive() {
		status.MonthsKnown = true
		return status
	}

	status.MonthsLeft, status.MonthsKnown = MonthsToGoal(status.Remaining, savings)

	return status
}

type EmergencyFund struct {
	Months       int             `json:"months"`
	Target       decimal.Decimal `json:"target"`
	MonthsNeeded int             `json:"monthsNeeded"`
	NeededKnown  bool            `json:"neededKnown"`
}

// Summary is everything the dashboard shows.
type Summary struct {
	Currency         string          `json:"currency"`
	Income           decimal.Decimal `json:"income"`
	Expenses         decimal.Decimal `json:"expenses"`
	Savings          decimal.Decimal `json:"savings"`
	SavingsRate      float64         `json:"savingsRate"`
	ExpenseRatio     float64         `json:"expenseRatio"`
	EmergencyFund    EmergencyFund   `json:"emergencyFund"`
	ByCategory       []CategoryTotal `json:"byCategory"`
	Goals            []GoalStatus    `json:"goals"`
	TransactionCount int             `json:"transactionCount"`
}

func Summarize(doc state.Document) Summary {
	txs := doc.Transactions
	income := TotalIncome(txs)
	expenses := TotalExpenses(txs)
	savings := income.Sub(expenses)

	months := doc.Settings.EmergencyFundMonths
	if months <= 0 {
		months = DefaultEmergencyFundMonths
	}

	fund := EmergencyFund{Months: months, Target: EmergencyFundTarget(txs, months)}
	fund.MonthsNeeded, fund.NeededKnown = EmergencyFundMonthsNeeded(fund.Target, savings)

	s := Summary{
		Currency:         doc.Meta.Currency,
		Income:           income,
		Expenses:         expenses,
		Savings:          savings,
		EmergencyFund:    fund,
		ByCategory:       ExpensesByCategory(txs),
		Goals:            make([]GoalStatus, 0, len(doc.Goals)),
		TransactionCount: len(txs),
	}

	if income.IsPositive() {
		s.SavingsRate = percentOf(savings, income)
		s.ExpenseRatio = percentOf(expenses, income)
	}

	for _, g := range doc.Goals {
		s.Goals = append(s.Goals, GoalProgress(g, savings))
	}

	return s
}

// percentOf returns part/whole as a percentage with one decimal.
func percentOf(part, whole decimal.Decimal) float64 {
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
}
