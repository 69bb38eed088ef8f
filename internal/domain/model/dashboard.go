package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummary aggregates business figures over [From, To).
type DashboardSummary struct {
	From         time.Time
	To           time.Time
	Orders       int64
	Revenue      decimal.Decimal
	Expenses     decimal.Decimal
	Profit       decimal.Decimal
	AverageOrder decimal.Decimal
}
