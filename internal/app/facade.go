package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PankiTrejd/naracki/internal/domain/model"
	"github.com/PankiTrejd/naracki/internal/usecase"
)

// HealthChecker reports whether the backing database is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// OrderCounter counts created orders.
type OrderCounter interface {
	OrderCreated()
}

// OperationsFacade exposes the use cases to the transport and worker layers.
type OperationsFacade struct {
	auth      *usecase.AuthUseCase
	orders    *usecase.OrderUseCase
	expenses  *usecase.ExpenseUseCase
	goals     *usecase.GoalUseCase
	dashboard *usecase.DashboardUseCase
	shipments *usecase.ShipmentUseCase
	health    HealthChecker
	counter   OrderCounter
}

// NewOperationsFacade wires use cases into one facade.
func NewOperationsFacade(
	auth *usecase.AuthUseCase,
	orders *usecase.OrderUseCase,
	expenses *usecase.ExpenseUseCase,
	goals *usecase.GoalUseCase,
	dashboard *usecase.DashboardUseCase,
	shipments *usecase.ShipmentUseCase,
	health HealthChecker,
	counter OrderCounter,
) *OperationsFacade {
	return &OperationsFacade{
		auth:      auth,
		orders:    orders,
		expenses:  expenses,
		goals:     goals,
		dashboard: dashboard,
		shipments: shipments,
		health:    health,
		counter:   counter,
	}
}

func (f *OperationsFacade) AuthEnabled() bool {
	return f.auth.Enabled()
}

func (f *OperationsFacade) Login(ctx context.Context, password string) (string, error) {
	return f.auth.Login(ctx, password)
}

func (f *OperationsFacade) ParseToken(token string) (string, error) {
	return f.auth.ParseToken(token)
}

// SubmitOrder counts every order that received a receipt, including ones
// whose attachments partially failed.
func (f *OperationsFacade) SubmitOrder(ctx context.Context, draft model.OrderDraft, files []model.UploadedFile) (*model.OrderReceipt, []model.Attachment, error) {
	receipt, attachments, err := f.orders.Submit(ctx, draft, files)
	if receipt != nil && f.counter != nil {
		f.counter.OrderCreated()
	}
	return receipt, attachments, err
}

func (f *OperationsFacade) AttachFiles(ctx context.Context, orderID uuid.UUID, files []model.UploadedFile) ([]model.Attachment, error) {
	return f.orders.AttachFiles(ctx, orderID, files)
}

func (f *OperationsFacade) Orders(ctx context.Context, filter model.OrderFilter) (*model.OrderPage, error) {
	return f.orders.List(ctx, filter)
}

func (f *OperationsFacade) Order(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	return f.orders.Get(ctx, orderID)
}

func (f *OperationsFacade) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error {
	return f.orders.UpdateStatus(ctx, orderID, status)
}

func (f *OperationsFacade) SetTrackingCode(ctx context.Context, orderID uuid.UUID, code string) error {
	return f.orders.SetTrackingCode(ctx, orderID, code)
}

func (f *OperationsFacade) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	return f.orders.Delete(ctx, orderID)
}

func (f *OperationsFacade) Expenses(ctx context.Context) ([]model.Expense, error) {
	return f.expenses.List(ctx)
}

func (f *OperationsFacade) CreateExpense(ctx context.Context, draft model.ExpenseDraft) (*model.Expense, error) {
	return f.expenses.Create(ctx, draft)
}

func (f *OperationsFacade) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	return f.expenses.Delete(ctx, id)
}

func (f *OperationsFacade) Goal(ctx context.Context) (*model.Goal, error) {
	return f.goals.Get(ctx)
}

func (f *OperationsFacade) UpdateGoal(ctx context.Context, id int64, update model.GoalUpdate) (*model.Goal, error) {
	return f.goals.Update(ctx, id, update)
}

func (f *OperationsFacade) AddToGoal(ctx context.Context, id int64, amount decimal.Decimal) (*model.Goal, error) {
	return f.goals.AddToCurrent(ctx, id, amount)
}

func (f *OperationsFacade) DashboardSummary(ctx context.Context, from, to *time.Time) (*model.DashboardSummary, error) {
	return f.dashboard.Summary(ctx, from, to)
}

func (f *OperationsFacade) Health(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

func (f *OperationsFacade) ShipmentsForDispatch(ctx context.Context, limit int) ([]model.Shipment, error) {
	return f.shipments.Pending(ctx, limit)
}

func (f *OperationsFacade) DispatchShipment(ctx context.Context, shipment model.Shipment) (*model.Booking, error) {
	return f.shipments.Dispatch(ctx, shipment)
}
