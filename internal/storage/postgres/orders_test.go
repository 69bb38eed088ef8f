package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	"github.com/PankiTrejd/naracki/internal/domain/model"
)

var orderColumns = []string{"id", "order_number", "customer_name", "street", "city", "phone_number",
	"total_price", "notes", "timestamp", "status", "tracking_code"}

var attachmentColumns = []string{"id", "order_id", "type", "url", "name", "object_key"}

func fixedOrderID(t *testing.T, id uuid.UUID) {
	t.Helper()
	prev := newOrderID
	newOrderID = func() uuid.UUID { return id }
	t.Cleanup(func() { newOrderID = prev })
}

func TestOrderRepositoryCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	id := uuid.New()
	fixedOrderID(t, id)
	price := decimal.NewFromInt(1500)
	draft := model.OrderDraft{
		CustomerName: "A",
		Address:      model.Address{Street: "S", City: "C"},
		PhoneNumber:  "070",
		TotalPrice:   price,
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").WithArgs(id, "A", "S", "C", "070", price, (*string)(nil)).
		WillReturnRows(pgxmockv3.NewRows([]string{"order_number"}).AddRow(int64(41)))
	mock.ExpectCommit()

	receipt, err := repo.Create(context.Background(), draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.ID != id || receipt.SequenceNumber != 41 || receipt.TrackingCode != nil {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}

	options := model.ShipmentOptions{
		ShipmentType:            "standard",
		ShipmentTypeValue:       "1",
		PackageValue:            price,
		NumberOfPackages:        1,
		ShippingPaymentMethod:   "receiver",
		CommissionPaymentMethod: "sender",
	}
	draft.Shipment = &options

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").WithArgs(id, "A", "S", "C", "070", price, (*string)(nil)).
		WillReturnRows(pgxmockv3.NewRows([]string{"order_number"}).AddRow(int64(42)))
	mock.ExpectExec("INSERT INTO shipment_requests").WithArgs(id, toShipmentPayload(options)).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectCommit()

	receipt, err = repo.Create(context.Background(), draft)
	if err != nil || receipt.SequenceNumber != 42 {
		t.Fatalf("unexpected result: %+v err=%v", receipt, err)
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").WithArgs(id, "A", "S", "C", "070", price, (*string)(nil)).
		WillReturnRows(pgxmockv3.NewRows([]string{"order_number"}).AddRow(int64(43)))
	mock.ExpectExec("INSERT INTO shipment_requests").WithArgs(id, toShipmentPayload(options)).
		WillReturnError(errors.New("insert"))
	mock.ExpectRollback()
	if _, err := repo.Create(context.Background(), draft); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").WithArgs(id, "A", "S", "C", "070", price, (*string)(nil)).
		WillReturnError(&pgconn.PgError{Code: "23514"})
	mock.ExpectRollback()
	if _, err := repo.Create(context.Background(), draft); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	mock.ExpectBegin().WillReturnError(errors.New("begin"))
	if _, err := repo.Create(context.Background(), draft); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryAddAttachments(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	orderID := uuid.New()
	first := model.Attachment{ID: uuid.New(), Type: model.AttachmentTypeImage, URL: "https://cdn/a.png", Name: "a.png", ObjectKey: "attachments/x/a.png"}
	second := model.Attachment{ID: uuid.New(), Type: model.AttachmentTypeDocument, URL: "https://cdn/b.pdf", Name: "b.pdf", ObjectKey: "attachments/x/b.pdf"}

	mock.ExpectExec("INSERT INTO attachments").WithArgs(
		first.ID, orderID, "image", first.URL, first.Name, first.ObjectKey,
		second.ID, orderID, "document", second.URL, second.Name, second.ObjectKey,
	).WillReturnResult(pgxmockv3.NewResult("INSERT", 2))

	stored, err := repo.AddAttachments(context.Background(), orderID, []model.Attachment{first, second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stored) != 2 || stored[0].OrderID != orderID || stored[1].Name != "b.pdf" {
		t.Fatalf("unexpected attachments: %+v", stored)
	}

	stored, err = repo.AddAttachments(context.Background(), orderID, nil)
	if err != nil || len(stored) != 0 || stored == nil {
		t.Fatalf("expected empty non-nil slice, got %v err=%v", stored, err)
	}

	mock.ExpectExec("INSERT INTO attachments").WithArgs(
		first.ID, orderID, "image", first.URL, first.Name, first.ObjectKey,
	).WillReturnError(&pgconn.PgError{Code: "23503"})
	if _, err := repo.AddAttachments(context.Background(), orderID, []model.Attachment{first}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for missing order, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryList(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	newer, older := uuid.New(), uuid.New()
	now := time.Now()
	notes := "fragile"
	status := model.OrderStatusNew
	attachmentID := uuid.New()

	mock.ExpectQuery("SELECT COUNT").WithArgs("New").
		WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(int64(5)))
	mock.ExpectQuery("FROM orders WHERE status").WithArgs("New", 2, 0).WillReturnRows(
		pgxmockv3.NewRows(orderColumns).
			AddRow(newer, int64(9), "A", "S", "C", "070", "1500.00", &notes, now, "New", nil).
			AddRow(older, int64(8), "B", "S2", "C2", "071", "99.90", nil, now.Add(-time.Hour), "New", nil),
	)
	mock.ExpectQuery("FROM attachments").WithArgs([]string{newer.String(), older.String()}).WillReturnRows(
		pgxmockv3.NewRows(attachmentColumns).
			AddRow(attachmentID, newer, "image", "https://cdn/a.png", "a.png", "attachments/a.png"),
	)

	page, err := repo.List(context.Background(), model.OrderFilter{Status: &status, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 5 || len(page.Orders) != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
	first := page.Orders[0]
	if first.ID != newer || first.Address.Street != "S" || first.Address.City != "C" || *first.Notes != "fragile" {
		t.Fatalf("unexpected first order: %+v", first)
	}
	if !first.TotalPrice.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected total 1500, got %s", first.TotalPrice)
	}
	if len(first.Attachments) != 1 || first.Attachments[0].Type != model.AttachmentTypeImage {
		t.Fatalf("unexpected attachments: %+v", first.Attachments)
	}
	if page.Orders[1].Attachments == nil || len(page.Orders[1].Attachments) != 0 {
		t.Fatalf("expected empty attachment slice, got %v", page.Orders[1].Attachments)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryListWithoutFilter(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	mock.ExpectQuery("SELECT COUNT").WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery("ORDER BY timestamp DESC").WithArgs(50, 100).WillReturnRows(pgxmockv3.NewRows(orderColumns))

	page, err := repo.List(context.Background(), model.OrderFilter{Limit: 50, Offset: 100})
	if err != nil || page.Total != 0 || page.Orders == nil || len(page.Orders) != 0 {
		t.Fatalf("unexpected page: %+v err=%v", page, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryListErrors(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	id := uuid.New()
	now := time.Now()
	filter := model.OrderFilter{Limit: 10}

	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("count"))
	if _, err := repo.List(context.Background(), filter); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	mock.ExpectQuery("SELECT COUNT").WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("ORDER BY timestamp DESC").WithArgs(10, 0).WillReturnError(errors.New("query"))
	if _, err := repo.List(context.Background(), filter); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	mock.ExpectQuery("SELECT COUNT").WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("ORDER BY timestamp DESC").WithArgs(10, 0).WillReturnRows(
		pgxmockv3.NewRows(orderColumns).AddRow(id, int64(1), "A", "S", "C", "070", "1.500,00", nil, now, "New", nil),
	)
	if _, err := repo.List(context.Background(), filter); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected malformed numeric to be rejected, got %v", err)
	}

	mock.ExpectQuery("SELECT COUNT").WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("ORDER BY timestamp DESC").WithArgs(10, 0).WillReturnRows(
		pgxmockv3.NewRows(orderColumns).AddRow(id, int64(1), "A", "S", "C", "070", "10", nil, now, "Shipped", nil),
	)
	if _, err := repo.List(context.Background(), filter); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected unknown status to be rejected, got %v", err)
	}

	mock.ExpectQuery("SELECT COUNT").WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectQuery("ORDER BY timestamp DESC").WithArgs(10, 0).WillReturnRows(
		pgxmockv3.NewRows(orderColumns).
			AddRow(id, int64(1), "A", "S", "C", "070", "10", nil, now, "New", nil).
			AddRow(uuid.New(), int64(2), "A", "S", "C", "070", "10", nil, now, "New", nil).
			RowError(1, errors.New("row err")),
	)
	if _, err := repo.List(context.Background(), filter); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected row error, got %v", err)
	}

	mock.ExpectQuery("SELECT COUNT").WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("ORDER BY timestamp DESC").WithArgs(10, 0).WillReturnRows(
		pgxmockv3.NewRows(orderColumns).AddRow(id, int64(1), "A", "S", "C", "070", "10", nil, now, "New", nil),
	)
	mock.ExpectQuery("FROM attachments").WithArgs([]string{id.String()}).WillReturnError(errors.New("attachments"))
	if _, err := repo.List(context.Background(), filter); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected attachment error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryGet(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	id := uuid.New()
	code := "MK123"
	now := time.Now()

	mock.ExpectQuery("FROM orders WHERE id").WithArgs(id).WillReturnRows(
		pgxmockv3.NewRows(orderColumns).AddRow(id, int64(3), "A", "S", "C", "070", "20.50", nil, now, "Accepted", &code),
	)
	mock.ExpectQuery("FROM attachments").WithArgs([]string{id.String()}).WillReturnRows(pgxmockv3.NewRows(attachmentColumns))

	order, err := repo.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusAccepted || *order.TrackingCode != "MK123" || order.TotalPrice.String() != "20.5" {
		t.Fatalf("unexpected order: %+v", order)
	}

	mock.ExpectQuery("FROM orders WHERE id").WithArgs(id).WillReturnError(pgx.ErrNoRows)
	if _, err := repo.Get(context.Background(), id); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryAttachmentKeys(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	id := uuid.New()
	mock.ExpectQuery("SELECT object_key FROM attachments").WithArgs(id).WillReturnRows(
		pgxmockv3.NewRows([]string{"object_key"}).AddRow("attachments/1/a.png").AddRow("attachments/1/b.pdf"),
	)
	keys, err := repo.AttachmentKeys(context.Background(), id)
	if err != nil || len(keys) != 2 || keys[1] != "attachments/1/b.pdf" {
		t.Fatalf("unexpected keys: %v err=%v", keys, err)
	}

	mock.ExpectQuery("SELECT object_key FROM attachments").WithArgs(id).WillReturnError(errors.New("query"))
	if _, err := repo.AttachmentKeys(context.Background(), id); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryAttachmentKeysRowsError(t *testing.T) {
	storage := &Storage{pool: &rowsErrorPool{rows: &errorRows{err: errors.New("rows err")}}, timeout: time.Second}
	repo := &orderRepository{storage: storage}

	if _, err := repo.AttachmentKeys(context.Background(), uuid.New()); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestOrderRepositoryMutations(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{storage: storage}

	id := uuid.New()

	mock.ExpectExec("UPDATE orders SET status").WithArgs("Accepted", id).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.UpdateStatus(context.Background(), id, model.OrderStatusAccepted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("UPDATE orders SET status").WithArgs("Done", id).WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	if err := repo.UpdateStatus(context.Background(), id, model.OrderStatusDone); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectExec("UPDATE orders SET tracking_code").WithArgs("MK1", id).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.SetTrackingCode(context.Background(), id, "MK1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("UPDATE orders SET tracking_code").WithArgs("MK1", id).WillReturnError(errors.New("update"))
	if err := repo.SetTrackingCode(context.Background(), id, "MK1"); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	mock.ExpectExec("DELETE FROM orders").WithArgs(id).WillReturnResult(pgxmockv3.NewResult("DELETE", 1))
	if err := repo.Delete(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("DELETE FROM orders").WithArgs(id).WillReturnResult(pgxmockv3.NewResult("DELETE", 0))
	if err := repo.Delete(context.Background(), id); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
