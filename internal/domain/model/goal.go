package model

import "github.com/shopspring/decimal"

// Goal is the singleton savings target.
type Goal struct {
	ID            int64
	Name          string
	GoalAmount    decimal.Decimal
	CurrentAmount decimal.Decimal
	ImageURL      *string
}

// GoalUpdate lists goal fields to overwrite; nil fields are kept.
type GoalUpdate struct {
	Name          *string
	GoalAmount    *decimal.Decimal
	CurrentAmount *decimal.Decimal
	ImageURL      *string
}

// Empty reports whether no field is set.
func (u GoalUpdate) Empty() bool {
	return u.Name == nil && u.GoalAmount == nil && u.CurrentAmount == nil && u.ImageURL == nil
}

// Progress returns the current amount as a percentage of the goal, capped at 100.
func (g Goal) Progress() decimal.Decimal {
	if !g.GoalAmount.IsPositive() {
		return decimal.Zero
	}
	p := g.CurrentAmount.Div(g.GoalAmount).Mul(decimal.NewFromInt(100)).Round(2)
	if p.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	return p
}
