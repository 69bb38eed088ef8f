package postgres

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PankiTrejd/naracki/internal/domain/model"
)

func (r *dashboardRepository) Summary(ctx context.Context, from, to time.Time) (*model.DashboardSummary, error) {
	const query = `SELECT
                       (SELECT COUNT(*) FROM orders WHERE timestamp >= $1 AND timestamp < $2),
                       (SELECT COALESCE(SUM(total_price), 0)::text FROM orders WHERE timestamp >= $1 AND timestamp < $2),
                       (SELECT COALESCE(SUM(amount), 0)::text FROM expenses WHERE date >= $1::date AND date < $2::date)`

	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	summary := model.DashboardSummary{From: from, To: to}
	var (
		revenue, expenses string
		err               error
	)
	if err := r.storage.pool.QueryRow(ctx, query, from, to).Scan(&summary.Orders, &revenue, &expenses); err != nil {
		return nil, translate("dashboard summary", err)
	}
	if summary.Revenue, err = parseMoney("revenue", revenue); err != nil {
		return nil, translate("dashboard summary", err)
	}
	if summary.Expenses, err = parseMoney("expenses", expenses); err != nil {
		return nil, translate("dashboard summary", err)
	}

	summary.Profit = summary.Revenue.Sub(summary.Expenses)
	summary.AverageOrder = decimal.Zero
	if summary.Orders > 0 {
		summary.AverageOrder = summary.Revenue.Div(decimal.NewFromInt(summary.Orders)).Round(2)
	}
	return &summary, nil
}
