package transaction

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ahorros/internal/apperrors"
)

var ErrNotFound = fmt.Errorf("transaction: %w", apperrors.ErrNotFound)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	ListTransactions(ctx context.Context) ([]Transaction, error)
	// UpdateTransactions runs fn over the stored collection and persists the
	// returned slice as a single document write.
	UpdateTransactions(ctx context.Context, fn func([]Transaction) ([]Transaction, error)) error
}

type Service struct {
	repo     Repository
	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

type CreateParams struct {
	Name       string          `validate:"required"`
	Amount     decimal.Decimal `validate:"-"`
	Category   string          `validate:"required"`
	Type       Type            `validate:"oneof=income expense"`
	Recurrence Recurrence      `validate:"oneof=fixed variable"`
	Date       time.Time       `validate:"-"`
}

// UpdateParams carries a partial edit; nil fields are left untouched.
type UpdateParams struct {
	Name       *string
	Amount     *decimal.Decimal
	Category   *string
	Type       *Type
	Recurrence *Recurrence
	Date       *time.Time
}

// ListFilter narrows List. StartDate and EndDate bound CreatedAt inclusively.
type ListFilter struct {
	Type      *Type
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	params.Name = strings.TrimSpace(params.Name)

	if err := s.validateEntry(params); err != nil {
		return nil, err
	}

	date := params.Date
	if date.IsZero() {
		date = s.now()
	}

	tx := Transaction{
		ID:         NewID(),
		Name:       params.Name,
		Amount:     params.Amount,
		Category:   params.Category,
		Type:       params.Type,
		Recurrence: params.Recurrence,
		CreatedAt:  date,
	}

	err := s.repo.UpdateTransactions(ctx, func(txs []Transaction) ([]Transaction, error) {
		return append(txs, tx), nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	return &tx, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Transaction, error) {
	txs, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	i := slices.IndexFunc(txs, func(t Transaction) bool { return t.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}

	return &txs[i], nil
}

func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Transaction, error) {
	var updated Transaction

	err := s.repo.UpdateTransactions(ctx, func(txs []Transaction) ([]Transaction, error) {
		i := slices.IndexFunc(txs, func(t Transaction) bool { return t.ID == id })
		if i < 0 {
			return nil, ErrNotFound
		}

		tx := applyUpdate(txs[i], params)

		if err := s.validateEntry(CreateParams{
			Name:       tx.Name,
			Amount:     tx.Amount,
			Category:   tx.Category,
			Type:       tx.Type,
			Recurrence: tx.Recurrence,
		}); err != nil {
			return nil, err
		}

		txs[i] = tx
		updated = tx

		return txs, nil
	})
	if err != nil {
		return nil, fmt.Errorf("updating transaction %s: %w", id, err)
	}

	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.UpdateTransactions(ctx, func(txs []Transaction) ([]Transaction, error) {
		i := slices.IndexFunc(txs, func(t Transaction) bool { return t.ID == id })
		if i < 0 {
			return nil, ErrNotFound
		}

		return slices.Delete(txs, i, i+1), nil
	})
	if err != nil {
		return fmt.Errorf("deleting transaction %s: %w", id, err)
	}

	return nil
}

// List returns the transactions matching filter, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Transaction, error) {
	txs, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]Transaction, 0, len(txs))

	for _, t := range txs {
		if filter.Type != nil && t.Type != *filter.Type {
			continue
		}

		if filter.StartDate != nil && t.CreatedAt.Before(*filter.StartDate) {
			continue
		}

		if filter.EndDate != nil && t.CreatedAt.After(*filter.EndDate) {
			continue
		}

		if search != "" &&
			!strings.Contains(strings.ToLower(t.Name), search) &&
			!strings.Contains(strings.ToLower(t.Category), search) {
			continue
		}

		out = append(out, t)
	}

	SortByNewest(out)

	return out, nil
}

// Append stores an already normalized batch, e.g. the output of an import.
// Categories are not checked against the entry vocabulary.
func (s *Service) Append(ctx context.Context, batch []Transaction) error {
	if len(batch) == 0 {
		return nil
	}

	for _, t := range batch {
		if !t.Amount.IsPositive() {
			return fmt.Errorf("%w: transaction %q has non-positive amount", apperrors.ErrValidation, t.Name)
		}
	}

	err := s.repo.UpdateTransactions(ctx, func(txs []Transaction) ([]Transaction, error) {
		return append(txs, batch...), nil
	})
	if err != nil {
		return fmt.Errorf("appending %d transactions: %w", len(batch), err)
	}

	return nil
}

func (s *Service) validateEntry(params CreateParams) error {
	if err := s.validate.Struct(params); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if !params.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}

	if !IsCategory(params.Type, params.Category) {
		return fmt.Errorf("%w: category %q is not valid for %s", apperrors.ErrValidation, params.Category, params.Type)
	}

	return nil
}

func applyUpdate(tx Transaction, params UpdateParams) Transaction {
	if params.Name != nil {
		tx.Name = strings.TrimSpace(*params.Name)
	}

	if params.Amount != nil {
		tx.Amount = *params.Amount
	}

	if params.Category != nil {
		tx.Category = *params.Category
	}

	if params.Type != nil {
		tx.Type = *params.Type
	}

	if params.Recurrence != nil {
		tx.Recurrence = *params.Recurrence
	}

	if params.Date != nil {
		tx.CreatedAt = *params.Date
	}

	return tx
}
