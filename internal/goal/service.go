package goal

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

var ErrNotFound = fmt.Errorf("goal: %w", apperrors.ErrNotFound)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=goal
type Repository interface {
	ListGoals(ctx context.Context) ([]Goal, error)
	UpdateGoals(ctx context.Context, fn func([]Goal) ([]Goal, error)) error
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
	Name          string          `validate:"required"`
	TargetAmount  decimal.Decimal `validate:"-"`
	CurrentAmount decimal.Decimal `validate:"-"`
	Icon          string          `validate:"omitempty,max=16"`
}

type UpdateParams struct {
	Name          *string
	TargetAmount  *decimal.Decimal
	CurrentAmount *decimal.Decimal
	Icon          *string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Goal, error) {
	params.Name = strings.TrimSpace(params.Name)

	if err := s.validateEntry(params); err != nil {
		return nil, err
	}

	icon := params.Icon
	if icon == "" {
		icon = DefaultIcon
	}

	g := Goal{
		ID:            NewID(),
		Name:          params.Name,
		TargetAmount:  params.TargetAmount,
		CurrentAmount: params.CurrentAmount,
		Icon:          icon,
		CreatedAt:     s.now(),
	}

	err := s.repo.UpdateGoals(ctx, func(goals []Goal) ([]Goal, error) {
		return append(goals, g), nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating goal: %w", err)
	}

	return &g, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Goal, error) {
	goals, err := s.repo.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}

	i := slices.IndexFunc(goals, func(g Goal) bool { return g.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}

	return &goals[i], nil
}

func (s *Service) List(ctx context.Context) ([]Goal, error) {
	goals, err := s.repo.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}

	return goals, nil
}

func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Goal, error) {
	return s.modify(ctx, id, func(g Goal) (Goal, error) {
		if params.Name != nil {
			g.Name = strings.TrimSpace(*params.Name)
		}

		if params.TargetAmount != nil {
			g.TargetAmount = *params.TargetAmount
		}

		if params.CurrentAmount != nil {
			g.CurrentAmount = *params.CurrentAmount
		}

		if params.Icon != nil {
			g.Icon = *params.Icon
		}

		err := s.validateEntry(CreateParams{
			Name:          g.Name,
			TargetAmount:  g.TargetAmount,
			CurrentAmount: g.CurrentAmount,
			Icon:          g.Icon,
		})

		return g, err
	})
}

// Deposit adds amount to the goal's savings. Deposits larger than what is
// still missing are rejected, and the result is clamped to the target.
func (s *Service) Deposit(ctx context.Context, id string, amount decimal.Decimal) (*Goal, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: deposit must be greater than zero", apperrors.ErrValidation)
	}

	return s.modify(ctx, id, func(g Goal) (Goal, error) {
		if amount.GreaterThan(g.Remaining()) {
			return g, fmt.Errorf("%w: deposit exceeds the remaining %s", apperrors.ErrValidation, g.Remaining())
		}

		g.CurrentAmount = decimal.Min(g.TargetAmount, g.CurrentAmount.Add(amount))

		return g, nil
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.UpdateGoals(ctx, func(goals []Goal) ([]Goal, error) {
		i := slices.IndexFunc(goals, func(g Goal) bool { return g.ID == id })
		if i < 0 {
			return nil, ErrNotFound
		}

		return slices.Delete(goals, i, i+1), nil
	})
	if err != nil {
		return fmt.Errorf("deleting goal %s: %w", id, err)
	}

	return nil
}

func (s *Service) modify(ctx context.Context, id string, fn func(Goal) (Goal, error)) (*Goal, error) {
	var updated Goal

	err := s.repo.UpdateGoals(ctx, func(goals []Goal) ([]Goal, error) {
		i := slices.IndexFunc(goals, func(g Goal) bool { return g.ID == id })
		if i < 0 {
			return nil, ErrNotFound
		}

		g, err := fn(goals[i])
		if err != nil {
			return nil, err
		}

		goals[i] = g
		updated = g

		return goals, nil
	})
	if err != nil {
		return nil, fmt.Errorf("updating goal %s: %w", id, err)
	}

	return &updated, nil
}

func (s *Service) validateEntry(params CreateParams) error {
	if err := s.validate.Struct(params); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if !params.TargetAmount.IsPositive() {
		return fmt.Errorf("%w: target amount must be greater than zero", apperrors.ErrValidation)
	}

	if params.CurrentAmount.IsNegative() {
		return fmt.Errorf("%w: current amount cannot be negative", apperrors.ErrValidation)
	}

	return nil
}
