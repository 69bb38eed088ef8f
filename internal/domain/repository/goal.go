package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/PankiTrejd/naracki/internal/domain/model"
)

// GoalRepository manages the singleton savings goal.
type GoalRepository interface {
	Get(ctx context.Context) (*model.Goal, error)
	Update(ctx context.Context, id int64, update model.GoalUpdate) (*model.Goal, error)
	AddToCurrent(ctx context.Context, id int64, delta decimal.Decimal) (*model.Goal, error)
}
