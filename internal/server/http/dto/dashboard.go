package dto

import (
	"time"

	"github.com/PankiTrejd/naracki/internal/domain/model"
)

// DashboardSummaryResponse is the wire form of dashboard figures.
type DashboardSummaryResponse struct {
	From         time.Time `json:"from"`
	To           time.Time `json:"to"`
	Orders       int64     `json:"orders"`
	Revenue      Money     `json:"revenue"`
	Expenses     Money     `json:"expenses"`
	Profit       Money     `json:"profit"`
	AverageOrder Money     `json:"averageOrder"`
}

// NewDashboardSummaryResponse converts a summary.
func NewDashboardSummaryResponse(s model.DashboardSummary) DashboardSummaryResponse {
	return DashboardSummaryResponse{
		From:         s.From,
		To:           s.To,
		Orders:       s.Orders,
		Revenue:      NewMoney(s.Revenue),
		Expenses:     NewMoney(s.Expenses),
		Profit:       NewMoney(s.Profit),
		AverageOrder: NewMoney(s.AverageOrder),
	}
}

// ToModel converts the wire form back into a domain summary.
func (r DashboardSummaryResponse) ToModel() model.DashboardSummary {
	return model.DashboardSummary{
		From:         r.From,
		To:           r.To,
		Orders:       r.Orders,
		Revenue:      r.Revenue.Decimal,
		Expenses:     r.Expenses.Decimal,
		Profit:       r.Profit.Decimal,
		AverageOrder: r.AverageOrder.Decimal,
	}
}
