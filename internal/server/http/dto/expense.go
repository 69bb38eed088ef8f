package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	"github.com/PankiTrejd/naracki/internal/domain/model"
)

// ExpenseRequest describes a new expense.
type ExpenseRequest struct {
	Description string  `json:"description"`
	Amount      *Money  `json:"amount"`
	Date        string  `json:"date"`
	Notes       *string `json:"notes,omitempty"`
}

// ExpenseResponse is the wire form of an expense.
type ExpenseResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      Money     `json:"amount"`
	Date        string    `json:"date"`
	Timestamp   time.Time `json:"timestamp"`
	Notes       *string   `json:"notes,omitempty"`
}

// ToDraft converts the request into a domain draft.
func (r ExpenseRequest) ToDraft() (model.ExpenseDraft, error) {
	if r.Amount == nil {
		return model.ExpenseDraft{}, domainErrors.Validationf("amount is required")
	}
	date, err := time.Parse(model.DateLayout, strings.TrimSpace(r.Date))
	if err != nil {
		return model.ExpenseDraft{}, domainErrors.Validationf("date must be YYYY-MM-DD")
	}
	return model.ExpenseDraft{
		Description: r.Description,
		Amount:      r.Amount.Decimal,
		Date:        date,
		Notes:       r.Notes,
	}, nil
}

// NewExpenseResponse converts an expense.
func NewExpenseResponse(e model.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID.String(),
		Description: e.Description,
		Amount:      NewMoney(e.Amount),
		Date:        e.Date.Format(model.DateLayout),
		Timestamp:   e.CreatedAt,
		Notes:       e.Notes,
	}
}

// NewExpenseResponses converts a list, never returning nil.
func NewExpenseResponses(expenses []model.Expense) []ExpenseResponse {
	out := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, NewExpenseResponse(e))
	}
	return out
}

// ToModel converts the wire form back into a domain expense.
func (r ExpenseResponse) ToModel() (model.Expense, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return model.Expense{}, err
	}
	date, err := time.Parse(model.DateLayout, r.Date)
	if err != nil {
		return model.Expense{}, err
	}
	return model.Expense{
		ID:          id,
		Description: r.Description,
		Amount:      r.Amount.Decimal,
		Date:        date,
		CreatedAt:   r.Timestamp,
		Notes:       r.Notes,
	}, nil
}
