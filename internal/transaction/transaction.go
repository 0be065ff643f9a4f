package transaction

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type represents the direction of a transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Recurrence tells recurring obligations apart from ad hoc movements.
type Recurrence string

const (
	RecurrenceFixed    Recurrence = "fixed"
	RecurrenceVariable Recurrence = "variable"
)

// Placeholders used when an imported row has no name or category.
const (
	DefaultName     = "Sin nombre"
	DefaultCategory = "Otro"
)

var (
	IncomeCategories = []string{"Trabajo", "Freelance", "Inversiones", "Negocio", "Regalo", "Otro"}

	ExpenseCategories = []string{
		"Vivienda", "Alimentación", "Transporte", "Salud", "Educación",
		"Entretenimiento", "Ropa", "Servicios", "Tecnología", "Deudas", "Otro",
	}
)

// Transaction represents a single income or expense. Amount is always a
// positive magnitude; the sign lives in Type.
type Transaction struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Category   string          `json:"category"`
	Type       Type            `json:"type"`
	Recurrence Recurrence      `json:"recurrence"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Signed returns the amount with income positive and expenses negative.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}

	return t.Amount
}

// Categories returns the entry vocabulary for the given type.
func Categories(t Type) []string {
	if t == TypeIncome {
		return IncomeCategories
	}

	return ExpenseCategories
}

// IsCategory reports whether category belongs to the vocabulary of t.
func IsCategory(t Type, category string) bool {
	return slices.Contains(Categories(t), category)
}

func NewID() string {
	return "txn_" + uuid.NewString()
}

// SortByNewest orders transactions by CreatedAt, newest first. Ties keep
// their stored order.
func SortByNewest(txs []Transaction) {
	slices.SortStableFunc(txs, func(a, b Transaction) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
