package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	"github.com/PankiTrejd/naracki/internal/domain/model"
	"github.com/PankiTrejd/naracki/internal/domain/repository"
)

// ExpenseUseCase manages the append-only expense ledger.
type ExpenseUseCase struct {
	expenses repository.ExpenseRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewExpenseUseCase constructs ExpenseUseCase.
func NewExpenseUseCase(expenses repository.ExpenseRepository, logger *slog.Logger) *ExpenseUseCase {
	return &ExpenseUseCase{expenses: expenses, logger: logger, now: time.Now}
}

// Create records a new expense.
func (u *ExpenseUseCase) Create(ctx context.Context, draft model.ExpenseDraft) (*model.Expense, error) {
	draft.Description = strings.TrimSpace(draft.Description)
	if err := ValidateExpenseDraft(draft); err != nil {
		return nil, err
	}
	return u.expenses.Create(ctx, draft)
}

// List returns all expenses, newest first.
func (u *ExpenseUseCase) List(ctx context.Context) ([]model.Expense, error) {
	return u.expenses.List(ctx)
}

// Delete removes an expense while it is inside the delete window.
func (u *ExpenseUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	expense, err := u.expenses.Get(ctx, id)
	if err != nil {
		return err
	}
	if !expense.Deletable(u.now()) {
		u.logger.Info("expense delete refused",
			slog.String("expense_id", id.String()),
			slog.Time("created_at", expense.CreatedAt),
		)
		return domainErrors.ErrDeleteWindowExpired
	}
	return u.expenses.Delete(ctx, id)
}
