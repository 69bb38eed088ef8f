package usecase

import (
	"context"
	"time"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	"github.com/PankiTrejd/naracki/internal/domain/model"
	"github.com/PankiTrejd/naracki/internal/domain/repository"
)

// DashboardUseCase computes business figures.
type DashboardUseCase struct {
	dashboard repository.DashboardRepository
	now       func() time.Time
}

// NewDashboardUseCase constructs DashboardUseCase.
func NewDashboardUseCase(dashboard repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{dashboard: dashboard, now: time.Now}
}

// Summary aggregates [from, to). Missing bounds default to the current month.
func (u *DashboardUseCase) Summary(ctx context.Context, from, to *time.Time) (*model.DashboardSummary, error) {
	now := u.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0)
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}
	if !start.Before(end) {
		return nil, domainErrors.Validationf("from must be before to")
	}
	return u.dashboard.Summary(ctx, start, end)
}
