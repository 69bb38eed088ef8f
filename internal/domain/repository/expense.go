package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/PankiTrejd/naracki/internal/domain/model"
)

// ExpenseRepository manages the expense ledger.
type ExpenseRepository interface {
	Create(ctx context.Context, draft model.ExpenseDraft) (*model.Expense, error)
	List(ctx context.Context) ([]model.Expense, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
