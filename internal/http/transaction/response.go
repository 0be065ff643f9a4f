package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ahorros/internal/transaction"
)

type transactionResponse struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Amount     decimal.Decimal        `json:"amount"`
	Category   string                 `json:"category"`
	Type       transaction.Type       `json:"type"`
	Recurrence transaction.Recurrence `json:"recurrence"`
	CreatedAt  time.Time              `json:"createdAt"`
}

type categoriesResponse struct {
	Income  []string `json:"income"`
	Expense []string `json:"expense"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:         tx.ID,
		Name:       tx.Name,
		Amount:     tx.Amount,
		Category:   tx.Category,
		Type:       tx.Type,
		Recurrence: tx.Recurrence,
		CreatedAt:  tx.CreatedAt,
	}
}

func toResponseList(txs []transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i := range txs {
		resp[i] = toResponse(&txs[i])
	}

	return resp
}
