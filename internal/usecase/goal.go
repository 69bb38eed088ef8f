package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	"github.com/PankiTrejd/naracki/internal/domain/model"
	"github.com/PankiTrejd/naracki/internal/domain/repository"
)

// GoalUseCase manages the savings goal.
type GoalUseCase struct {
	goals repository.GoalRepository
}

// NewGoalUseCase constructs GoalUseCase.
func NewGoalUseCase(goals repository.GoalRepository) *GoalUseCase {
	return &GoalUseCase{goals: goals}
}

// Get returns the goal or nil when none is provisioned.
func (u *GoalUseCase) Get(ctx context.Context) (*model.Goal, error) {
	return u.goals.Get(ctx)
}

// Update overwrites the set fields of the goal.
func (u *GoalUseCase) Update(ctx context.Context, id int64, update model.GoalUpdate) (*model.Goal, error) {
	if err := ValidateGoalUpdate(update); err != nil {
		return nil, err
	}
	return u.goals.Update(ctx, id, update)
}

// AddToCurrent adds amount to the saved total.
func (u *GoalUseCase) AddToCurrent(ctx context.Context, id int64, amount decimal.Decimal) (*model.Goal, error) {
	if amount.IsZero() {
		return nil, domainErrors.Validationf("amount must not be zero")
	}
	return u.goals.AddToCurrent(ctx, id, amount)
}
