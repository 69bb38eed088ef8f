package repository

import (
	"context"
	"time"

	"github.com/PankiTrejd/naracki/internal/domain/model"
)

// DashboardRepository aggregates figures for the dashboard.
type DashboardRepository interface {
	Summary(ctx context.Context, from, to time.Time) (*model.DashboardSummary, error)
}
