package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/PankiTrejd/naracki/internal/domain/model"
)

const goalColumns = `id, name, goal_amount::text, current_amount::text, image_url`

func scanGoal(row pgx.Row) (*model.Goal, error) {
	var (
		g               model.Goal
		target, current string
		err             error
	)
	if err := row.Scan(&g.ID, &g.Name, &target, &current, &g.ImageURL); err != nil {
		return nil, err
	}
	if g.GoalAmount, err = parseMoney("goal_amount", target); err != nil {
		return nil, err
	}
	if g.CurrentAmount, err = parseMoney("current_amount", current); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *goalRepository) Get(ctx context.Context) (*model.Goal, error) {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	g, err := scanGoal(r.storage.pool.QueryRow(ctx, `SELECT `+goalColumns+` FROM goal_tracker ORDER BY id LIMIT 1`))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate("get goal", err)
	}
	return g, nil
}

func (r *goalRepository) Update(ctx context.Context, id int64, update model.GoalUpdate) (*model.Goal, error) {
	const query = `UPDATE goal_tracker SET
                       name = COALESCE($1, name),
                       goal_amount = COALESCE($2, goal_amount),
                       current_amount = COALESCE($3, current_amount),
                       image_url = COALESCE($4, image_url)
                   WHERE id = $5
                   RETURNING ` + goalColumns

	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	g, err := scanGoal(r.storage.pool.QueryRow(ctx, query, update.Name, update.GoalAmount, update.CurrentAmount, update.ImageURL, id))
	if err != nil {
		return nil, translate("update goal", err)
	}
	return g, nil
}

func (r *goalRepository) AddToCurrent(ctx context.Context, id int64, delta decimal.Decimal) (*model.Goal, error) {
	const lockQuery = `SELECT current_amount::text FROM goal_tracker WHERE id = $1 FOR UPDATE`
	const updateQuery = `UPDATE goal_tracker SET current_amount = $1 WHERE id = $2 RETURNING ` + goalColumns

	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	var goal *model.Goal
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var raw string
		if err := tx.QueryRow(ctx, lockQuery, id).Scan(&raw); err != nil {
			return err
		}
		current, err := parseMoney("current_amount", raw)
		if err != nil {
			return err
		}

		goal, err = scanGoal(tx.QueryRow(ctx, updateQuery, current.Add(delta), id))
		return err
	})
	if err != nil {
		return nil, translate("add to goal", err)
	}
	return goal, nil
}
