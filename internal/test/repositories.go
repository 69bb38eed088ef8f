package test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	"github.com/PankiTrejd/naracki/internal/domain/model"
)

// OrderRepositoryStub allows tests to customize behaviour.
type OrderRepositoryStub struct {
	CreateFn          func(context.Context, model.OrderDraft) (*model.OrderReceipt, error)
	AddAttachmentsFn  func(context.Context, uuid.UUID, []model.Attachment) ([]model.Attachment, error)
	ListFn            func(context.Context, model.OrderFilter) (*model.OrderPage, error)
	GetFn             func(context.Context, uuid.UUID) (*model.Order, error)
	AttachmentKeysFn  func(context.Context, uuid.UUID) ([]string, error)
	UpdateStatusFn    func(context.Context, uuid.UUID, model.OrderStatus) error
	SetTrackingCodeFn func(context.Context, uuid.UUID, string) error
	DeleteFn          func(context.Context, uuid.UUID) error

	Drafts      []model.OrderDraft
	Attached    []model.Attachment
	Filters     []model.OrderFilter
	Deleted     []uuid.UUID
	StatusCalls []OrderStatusCall
}

// OrderStatusCall stores information about UpdateStatus invocations.
type OrderStatusCall struct {
	OrderID uuid.UUID
	Status  model.OrderStatus
}

// Create tracks invocations and returns configured responses.
func (s *OrderRepositoryStub) Create(ctx context.Context, draft model.OrderDraft) (*model.OrderReceipt, error) {
	s.Drafts = append(s.Drafts, draft)
	if s.CreateFn != nil {
		return s.CreateFn(ctx, draft)
	}
	return &model.OrderReceipt{ID: uuid.New(), SequenceNumber: int64(len(s.Drafts))}, nil
}

// AddAttachments records stored attachments.
func (s *OrderRepositoryStub) AddAttachments(ctx context.Context, orderID uuid.UUID, attachments []model.Attachment) ([]model.Attachment, error) {
	if s.AddAttachmentsFn != nil {
		return s.AddAttachmentsFn(ctx, orderID, attachments)
	}
	stored := make([]model.Attachment, len(attachments))
	for i, a := range attachments {
		a.OrderID = orderID
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		stored[i] = a
	}
	s.Attached = append(s.Attached, stored...)
	return stored, nil
}

// List returns an empty page unless overridden.
func (s *OrderRepositoryStub) List(ctx context.Context, filter model.OrderFilter) (*model.OrderPage, error) {
	s.Filters = append(s.Filters, filter)
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}
	return &model.OrderPage{Orders: []model.Order{}}, nil
}

// Get returns a New order with the requested id and its recorded attachments
// unless overridden.
func (s *OrderRepositoryStub) Get(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, orderID)
	}
	attachments := []model.Attachment{}
	for _, a := range s.Attached {
		if a.OrderID == orderID {
			attachments = append(attachments, a)
		}
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusNew, Attachments: attachments}, nil
}

// AttachmentKeys returns keys of attachments recorded by AddAttachments.
func (s *OrderRepositoryStub) AttachmentKeys(ctx context.Context, orderID uuid.UUID) ([]string, error) {
	if s.AttachmentKeysFn != nil {
		return s.AttachmentKeysFn(ctx, orderID)
	}
	var keys []string
	for _, a := range s.Attached {
		if a.OrderID == orderID {
			keys = append(keys, a.ObjectKey)
		}
	}
	return keys, nil
}

// UpdateStatus records update invocations.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, status)
	}
	s.StatusCalls = append(s.StatusCalls, OrderStatusCall{OrderID: orderID, Status: status})
	return nil
}

// SetTrackingCode applies override when provided.
func (s *OrderRepositoryStub) SetTrackingCode(ctx context.Context, orderID uuid.UUID, code string) error {
	if s.SetTrackingCodeFn != nil {
		return s.SetTrackingCodeFn(ctx, orderID, code)
	}
	return nil
}

// Delete records deleted ids.
func (s *OrderRepositoryStub) Delete(ctx context.Context, orderID uuid.UUID) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, orderID)
	}
	s.Deleted = append(s.Deleted, orderID)
	return nil
}

// ExpenseRepositoryStub keeps expenses in memory.
type ExpenseRepositoryStub struct {
	Items map[uuid.UUID]model.Expense
	Err   error
	Now   func() time.Time
}

// NewExpenseRepositoryStub constructs stub repository with initialized map.
func NewExpenseRepositoryStub() *ExpenseRepositoryStub {
	return &ExpenseRepositoryStub{Items: make(map[uuid.UUID]model.Expense)}
}

// Create stores the expense stamped with Now.
func (s *ExpenseRepositoryStub) Create(ctx context.Context, draft model.ExpenseDraft) (*model.Expense, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Items == nil {
		s.Items = make(map[uuid.UUID]model.Expense)
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	e := model.Expense{
		ID:          uuid.New(),
		Description: draft.Description,
		Amount:      draft.Amount,
		Date:        draft.Date,
		CreatedAt:   now(),
		Notes:       draft.Notes,
	}
	s.Items[e.ID] = e
	return &e, nil
}

// List returns stored expenses in no particular order.
func (s *ExpenseRepositoryStub) List(ctx context.Context) ([]model.Expense, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.Expense, 0, len(s.Items))
	for _, e := range s.Items {
		out = append(out, e)
	}
	return out, nil
}

// Get fetches expense by identifier or returns not found.
func (s *ExpenseRepositoryStub) Get(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if e, ok := s.Items[id]; ok {
		return &e, nil
	}
	return nil, domainErrors.ErrNotFound
}

// Delete removes expense or returns not found.
func (s *ExpenseRepositoryStub) Delete(ctx context.Context, id uuid.UUID) error {
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Items[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Items, id)
	return nil
}

// GoalRepositoryStub holds a single goal guarded by a mutex.
type GoalRepositoryStub struct {
	mu   sync.Mutex
	Goal *model.Goal
	Err  error
}

// Get returns a copy of the stored goal or nil.
func (s *GoalRepositoryStub) Get(ctx context.Context) (*model.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Goal == nil {
		return nil, nil
	}
	g := *s.Goal
	return &g, nil
}

// Update applies non-nil fields.
func (s *GoalRepositoryStub) Update(ctx context.Context, id int64, update model.GoalUpdate) (*model.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Goal == nil || s.Goal.ID != id {
		return nil, domainErrors.ErrNotFound
	}
	if update.Name != nil {
		s.Goal.Name = *update.Name
	}
	if update.GoalAmount != nil {
		s.Goal.GoalAmount = *update.GoalAmount
	}
	if update.CurrentAmount != nil {
		s.Goal.CurrentAmount = *update.CurrentAmount
	}
	if update.ImageURL != nil {
		s.Goal.ImageURL = update.ImageURL
	}
	g := *s.Goal
	return &g, nil
}

// AddToCurrent adds delta to the current amount atomically.
func (s *GoalRepositoryStub) AddToCurrent(ctx context.Context, id int64, delta decimal.Decimal) (*model.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Goal == nil || s.Goal.ID != id {
		return nil, domainErrors.ErrNotFound
	}
	s.Goal.CurrentAmount = s.Goal.CurrentAmount.Add(delta)
	g := *s.Goal
	return &g, nil
}

// DashboardRepositoryStub returns configured summaries.
type DashboardRepositoryStub struct {
	SummaryFn func(context.Context, time.Time, time.Time) (*model.DashboardSummary, error)
	Calls     [][2]time.Time
}

// Summary records the requested range.
func (s *DashboardRepositoryStub) Summary(ctx context.Context, from, to time.Time) (*model.DashboardSummary, error) {
	s.Calls = append(s.Calls, [2]time.Time{from, to})
	if s.SummaryFn != nil {
		return s.SummaryFn(ctx, from, to)
	}
	return &model.DashboardSummary{From: from, To: to}, nil
}

// ShipmentCompletion stores information about Complete invocations.
type ShipmentCompletion struct {
	OrderID      uuid.UUID
	TrackingCode string
}

// ShipmentFailure stores information about Fail invocations.
type ShipmentFailure struct {
	OrderID    uuid.UUID
	Reason     string
	RetryAfter time.Duration
}

// ShipmentRepositoryStub serves queued batches and records outcomes.
type ShipmentRepositoryStub struct {
	mu sync.Mutex

	Batches     [][]model.Shipment
	SelectFn    func(context.Context, int, int, time.Duration) ([]model.Shipment, error)
	CompleteErr error
	// CompleteFailures makes only the first n Complete calls return CompleteErr.
	CompleteFailures int
	Completed        []ShipmentCompletion
	Failed           []ShipmentFailure
	Recorded         []ShipmentRecord
}

// ShipmentRecord stores information about RecordBooking invocations.
type ShipmentRecord struct {
	OrderID    uuid.UUID
	Reference  string
	Reason     string
	RetryAfter time.Duration
}

// SelectBatchForDispatch pops the next configured batch.
func (s *ShipmentRepositoryStub) SelectBatchForDispatch(ctx context.Context, limit, maxAttempts int, lease time.Duration) ([]model.Shipment, error) {
	if s.SelectFn != nil {
		return s.SelectFn(ctx, limit, maxAttempts, lease)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Batches) == 0 {
		return nil, nil
	}
	batch := s.Batches[0]
	s.Batches = s.Batches[1:]
	return batch, nil
}

// Complete records a successful booking.
func (s *ShipmentRepositoryStub) Complete(ctx context.Context, orderID uuid.UUID, trackingCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Completed = append(s.Completed, ShipmentCompletion{OrderID: orderID, TrackingCode: trackingCode})
	if s.CompleteFailures > 0 && len(s.Completed) > s.CompleteFailures {
		return nil
	}
	return s.CompleteErr
}

// Fail records a failed booking.
func (s *ShipmentRepositoryStub) Fail(ctx context.Context, orderID uuid.UUID, reason string, retryAfter time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failed = append(s.Failed, ShipmentFailure{OrderID: orderID, Reason: reason, RetryAfter: retryAfter})
	return nil
}

// RecordBooking records a booking whose tracking code was not stored.
func (s *ShipmentRepositoryStub) RecordBooking(ctx context.Context, orderID uuid.UUID, reference, reason string, retryAfter time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Recorded = append(s.Recorded, ShipmentRecord{OrderID: orderID, Reference: reference, Reason: reason, RetryAfter: retryAfter})
	return nil
}

// Snapshot returns copies of recorded outcomes.
func (s *ShipmentRepositoryStub) Snapshot() ([]ShipmentCompletion, []ShipmentFailure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ShipmentCompletion(nil), s.Completed...), append([]ShipmentFailure(nil), s.Failed...)
}
