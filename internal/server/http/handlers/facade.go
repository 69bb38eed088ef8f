package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PankiTrejd/naracki/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	AuthEnabled() bool
	Login(ctx context.Context, password string) (string, error)
	ParseToken(token string) (string, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	SubmitOrder(ctx context.Context, draft model.OrderDraft, files []model.UploadedFile) (*model.OrderReceipt, []model.Attachment, error)
	AttachFiles(ctx context.Context, orderID uuid.UUID, files []model.UploadedFile) ([]model.Attachment, error)
	Orders(ctx context.Context, filter model.OrderFilter) (*model.OrderPage, error)
	Order(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error
	SetTrackingCode(ctx context.Context, orderID uuid.UUID, code string) error
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}

// ExpenseFacade provides expense ledger operations.
type ExpenseFacade interface {
	Expenses(ctx context.Context) ([]model.Expense, error)
	CreateExpense(ctx context.Context, draft model.ExpenseDraft) (*model.Expense, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) error
}

// GoalFacade provides savings goal operations.
type GoalFacade interface {
	Goal(ctx context.Context) (*model.Goal, error)
	UpdateGoal(ctx context.Context, id int64, update model.GoalUpdate) (*model.Goal, error)
	AddToGoal(ctx context.Context, id int64, amount decimal.Decimal) (*model.Goal, error)
}

// DashboardFacade provides dashboard figures and service health.
type DashboardFacade interface {
	DashboardSummary(ctx context.Context, from, to *time.Time) (*model.DashboardSummary, error)
	Health(ctx context.Context) error
}

// OperationsFacade aggregates the full set of operations used across handlers.
type OperationsFacade interface {
	AuthFacade
	OrderFacade
	ExpenseFacade
	GoalFacade
	DashboardFacade
}
