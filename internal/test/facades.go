package test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PankiTrejd/naracki/internal/domain/model"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	SubmitFn       func(context.Context, model.OrderDraft, []model.UploadedFile) (*model.OrderReceipt, []model.Attachment, error)
	AttachFn       func(context.Context, uuid.UUID, []model.UploadedFile) ([]model.Attachment, error)
	OrdersFn       func(context.Context, model.OrderFilter) (*model.OrderPage, error)
	OrderFn        func(context.Context, uuid.UUID) (*model.Order, error)
	UpdateStatusFn func(context.Context, uuid.UUID, model.OrderStatus) error
	TrackingFn     func(context.Context, uuid.UUID, string) error
	DeleteFn       func(context.Context, uuid.UUID) error
}

// SubmitOrder delegates to SubmitFn or returns a receipt numbered 1.
func (s OrderFacadeStub) SubmitOrder(ctx context.Context, draft model.OrderDraft, files []model.UploadedFile) (*model.OrderReceipt, []model.Attachment, error) {
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, draft, files)
	}
	return &model.OrderReceipt{ID: uuid.New(), SequenceNumber: 1}, nil, nil
}

// AttachFiles delegates to AttachFn or echoes one attachment per file.
func (s OrderFacadeStub) AttachFiles(ctx context.Context, orderID uuid.UUID, files []model.UploadedFile) ([]model.Attachment, error) {
	if s.AttachFn != nil {
		return s.AttachFn(ctx, orderID, files)
	}
	out := make([]model.Attachment, 0, len(files))
	for _, f := range files {
		out = append(out, model.Attachment{
			ID:      uuid.New(),
			OrderID: orderID,
			Type:    model.AttachmentTypeFor(f.ContentType),
			URL:     "https://files.test/" + model.AttachmentKey(orderID, f.Name),
			Name:    f.Name,
		})
	}
	return out, nil
}

// Orders returns an empty page unless overridden.
func (s OrderFacadeStub) Orders(ctx context.Context, filter model.OrderFilter) (*model.OrderPage, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, filter)
	}
	return &model.OrderPage{}, nil
}

// Order returns a new order with the requested id unless overridden.
func (s OrderFacadeStub) Order(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID)
	}
	return &model.Order{ID: orderID, SequenceNumber: 1, Status: model.OrderStatusNew}, nil
}

// UpdateOrderStatus delegates to UpdateStatusFn.
func (s OrderFacadeStub) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, status)
	}
	return nil
}

// SetTrackingCode delegates to TrackingFn.
func (s OrderFacadeStub) SetTrackingCode(ctx context.Context, orderID uuid.UUID, code string) error {
	if s.TrackingFn != nil {
		return s.TrackingFn(ctx, orderID, code)
	}
	return nil
}

// DeleteOrder delegates to DeleteFn.
func (s OrderFacadeStub) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, orderID)
	}
	return nil
}

// ExpenseFacadeStub simulates the expense ledger.
type ExpenseFacadeStub struct {
	ExpensesFn func(context.Context) ([]model.Expense, error)
	CreateFn   func(context.Context, model.ExpenseDraft) (*model.Expense, error)
	DeleteFn   func(context.Context, uuid.UUID) error
}

// Expenses returns no expenses unless overridden.
func (s ExpenseFacadeStub) Expenses(ctx context.Context) ([]model.Expense, error) {
	if s.ExpensesFn != nil {
		return s.ExpensesFn(ctx)
	}
	return nil, nil
}

// CreateExpense echoes the draft as a stored expense.
func (s ExpenseFacadeStub) CreateExpense(ctx context.Context, draft model.ExpenseDraft) (*model.Expense, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, draft)
	}
	return &model.Expense{
		ID:          uuid.New(),
		Description: draft.Description,
		Amount:      draft.Amount,
		Date:        draft.Date,
		CreatedAt:   time.Now(),
		Notes:       draft.Notes,
	}, nil
}

// DeleteExpense delegates to DeleteFn.
func (s ExpenseFacadeStub) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

// GoalFacadeStub keeps a goal in memory.
type GoalFacadeStub struct {
	mu      sync.Mutex
	Current *model.Goal
	Err     error
}

// Goal returns the stored goal.
func (s *GoalFacadeStub) Goal(context.Context) (*model.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Current, nil
}

// UpdateGoal overwrites set fields of the stored goal.
func (s *GoalFacadeStub) UpdateGoal(_ context.Context, id int64, update model.GoalUpdate) (*model.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Current == nil {
		s.Current = &model.Goal{}
	}
	s.Current.ID = id
	if update.Name != nil {
		s.Current.Name = *update.Name
	}
	if update.GoalAmount != nil {
		s.Current.GoalAmount = *update.GoalAmount
	}
	if update.CurrentAmount != nil {
		s.Current.CurrentAmount = *update.CurrentAmount
	}
	if update.ImageURL != nil {
		s.Current.ImageURL = update.ImageURL
	}
	goal := *s.Current
	return &goal, nil
}

// AddToGoal increments the stored current amount.
func (s *GoalFacadeStub) AddToGoal(_ context.Context, id int64, amount decimal.Decimal) (*model.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Current == nil {
		s.Current = &model.Goal{}
	}
	s.Current.ID = id
	s.Current.CurrentAmount = s.Current.CurrentAmount.Add(amount)
	goal := *s.Current
	return &goal, nil
}

// DashboardFacadeStub returns fixed dashboard figures.
type DashboardFacadeStub struct {
	SummaryFn func(context.Context, *time.Time, *time.Time) (*model.DashboardSummary, error)
	HealthErr error
}

// DashboardSummary delegates to SummaryFn or returns zero figures.
func (s DashboardFacadeStub) DashboardSummary(ctx context.Context, from, to *time.Time) (*model.DashboardSummary, error) {
	if s.SummaryFn != nil {
		return s.SummaryFn(ctx, from, to)
	}
	return &model.DashboardSummary{}, nil
}

// Health returns HealthErr.
func (s DashboardFacadeStub) Health(context.Context) error {
	return s.HealthErr
}

// OperationsFacadeStub combines all facade stubs.
type OperationsFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
	ExpenseFacadeStub
	*GoalFacadeStub
	DashboardFacadeStub
}

// NewOperationsFacadeStub returns a stub with auth disabled and an empty goal store.
func NewOperationsFacadeStub() *OperationsFacadeStub {
	return &OperationsFacadeStub{
		AuthFacadeStub: AuthFacadeStub{Disabled: true},
		GoalFacadeStub: &GoalFacadeStub{},
	}
}
