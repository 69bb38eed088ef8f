package dto

import "github.com/PankiTrejd/naracki/internal/domain/model"

// GoalResponse is the wire form of the savings goal.
type GoalResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	GoalAmount    Money   `json:"goalAmount"`
	CurrentAmount Money   `json:"currentAmount"`
	ImageURL      *string `json:"imageUrl"`
	Progress      Money   `json:"progress"`
}

// GoalUpdateRequest lists goal fields to overwrite.
type GoalUpdateRequest struct {
	Name          *string `json:"name,omitempty"`
	GoalAmount    *Money  `json:"goalAmount,omitempty"`
	CurrentAmount *Money  `json:"currentAmount,omitempty"`
	ImageURL      *string `json:"imageUrl,omitempty"`
}

// GoalAddRequest is the body of POST /api/goal/{id}/add.
type GoalAddRequest struct {
	Amount *Money `json:"amount"`
}

// ToModel converts the request into a domain update.
func (r GoalUpdateRequest) ToModel() model.GoalUpdate {
	u := model.GoalUpdate{Name: r.Name, ImageURL: r.ImageURL}
	if r.GoalAmount != nil {
		u.GoalAmount = &r.GoalAmount.Decimal
	}
	if r.CurrentAmount != nil {
		u.CurrentAmount = &r.CurrentAmount.Decimal
	}
	return u
}

// NewGoalResponse converts a goal.
func NewGoalResponse(g model.Goal) GoalResponse {
	return GoalResponse{
		ID:            g.ID,
		Name:          g.Name,
		GoalAmount:    NewMoney(g.GoalAmount),
		CurrentAmount: NewMoney(g.CurrentAmount),
		ImageURL:      g.ImageURL,
		Progress:      NewMoney(g.Progress()),
	}
}

// ToModel converts the wire form back into a domain goal.
func (r GoalResponse) ToModel() model.Goal {
	return model.Goal{
		ID:            r.ID,
		Name:          r.Name,
		GoalAmount:    r.GoalAmount.Decimal,
		CurrentAmount: r.CurrentAmount.Decimal,
		ImageURL:      r.ImageURL,
	}
}
