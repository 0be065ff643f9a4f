package goal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultIcon = "◎"

// Goal is a savings target. CurrentAmount never exceeds TargetAmount after
// an accepted deposit.
type Goal struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Icon          string          `json:"icon"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Remaining is how much is still missing to reach the target; never negative.
func (g Goal) Remaining() decimal.Decimal {
	r := g.TargetAmount.Sub(g.CurrentAmount)
	if r.IsNegative() {
		return decimal.Zero
	}

	return r
}

// Progress returns the completed percentage, capped at 100.
func (g Goal) Progress() float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}

	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).InexactFloat64()

	return min(100, max(0, pct))
}

func (g Goal) Reached() bool {
	return g.TargetAmount.IsPositive() && !g.CurrentAmount.LessThan(g.TargetAmount)
}

func NewID() string {
	return "goal_" + uuid.NewString()
}
