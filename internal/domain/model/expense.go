package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseDeleteWindow bounds how long after creation an expense may be deleted.
const ExpenseDeleteWindow = 30 * time.Minute

// DateLayout is the wire and storage format of calendar days.
const DateLayout = "2006-01-02"

// Expense is an entry of the append-only expense ledger.
type Expense struct {
	ID          uuid.UUID
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	CreatedAt   time.Time
	Notes       *string
}

// ExpenseDraft holds fields of a new expense.
type ExpenseDraft struct {
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Notes       *string
}

// Deletable reports whether the expense is still inside the delete window at now.
func (e Expense) Deletable(now time.Time) bool {
	return now.Sub(e.CreatedAt) <= ExpenseDeleteWindow
}
