package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	"github.com/PankiTrejd/naracki/internal/domain/model"
)

const selectExpense = `SELECT id, description, amount::text, date, timestamp, notes FROM expenses`

var newExpenseID = uuid.New

func scanExpense(row pgx.Row) (model.Expense, error) {
	var (
		e      model.Expense
		amount string
	)
	if err := row.Scan(&e.ID, &e.Description, &amount, &e.Date, &e.CreatedAt, &e.Notes); err != nil {
		return model.Expense{}, err
	}
	value, err := parseMoney("amount", amount)
	if err != nil {
		return model.Expense{}, err
	}
	e.Amount = value
	return e, nil
}

func (r *expenseRepository) Create(ctx context.Context, draft model.ExpenseDraft) (*model.Expense, error) {
	const query = `INSERT INTO expenses (id, description, amount, date, notes)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING timestamp`

	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	e := model.Expense{
		ID:          newExpenseID(),
		Description: draft.Description,
		Amount:      draft.Amount,
		Date:        draft.Date,
		Notes:       draft.Notes,
	}
	if err := r.storage.pool.QueryRow(ctx, query, e.ID, e.Description, e.Amount, e.Date, e.Notes).Scan(&e.CreatedAt); err != nil {
		return nil, translate("create expense", err)
	}
	return &e, nil
}

func (r *expenseRepository) List(ctx context.Context) ([]model.Expense, error) {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	rows, err := r.storage.pool.Query(ctx, selectExpense+` ORDER BY timestamp DESC`)
	if err != nil {
		return nil, translate("list expenses", err)
	}
	defer rows.Close()

	result := []model.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, translate("list expenses", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list expenses", err)
	}
	return result, nil
}

func (r *expenseRepository) Get(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	e, err := scanExpense(r.storage.pool.QueryRow(ctx, selectExpense+` WHERE id = $1`, id))
	if err != nil {
		return nil, translate("get expense", err)
	}
	return &e, nil
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return translate("delete expense", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete expense: %w", domainErrors.ErrNotFound)
	}
	return nil
}
