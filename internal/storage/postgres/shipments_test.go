package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
)

var shipmentColumns = []string{"order_id", "order_number", "customer_name", "city", "phone_number", "street", "notes", "payload", "attempts", "booked_reference"}

func TestShipmentRepositorySelectBatch(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &shipmentRepository{storage: storage}

	first, second := uuid.New(), uuid.New()
	payload := shipmentPayload{ShipmentType: "standard", PackageValue: decimal.NewFromInt(1500), NumberOfPackages: 1}

	mock.ExpectBegin()
	mock.ExpectQuery("FROM shipment_requests s").WithArgs(5, 10).WillReturnRows(
		pgxmockv3.NewRows(shipmentColumns).
			AddRow(first, int64(7), "A", "Skopje", "070", "Main 1", "call first", payload, 0, "").
			AddRow(second, int64(8), "B", "Bitola", "071", "Side 2", "", payload, 2, "TRK-8"),
	)
	mock.ExpectExec("UPDATE shipment_requests").WithArgs(int64(30000), []string{first.String(), second.String()}).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 2))
	mock.ExpectCommit()

	shipments, err := repo.SelectBatchForDispatch(context.Background(), 10, 5, 30*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shipments) != 2 {
		t.Fatalf("expected 2 shipments, got %d", len(shipments))
	}
	s := shipments[0]
	if s.OrderID != first || s.SequenceNumber != 7 || s.Receiver.City != "Skopje" || s.Receiver.Address != "Main 1" || s.Note != "call first" {
		t.Fatalf("unexpected shipment: %+v", s)
	}
	if s.Options.ShipmentType != "standard" || !s.Options.PackageValue.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("unexpected options: %+v", s.Options)
	}
	if shipments[1].Attempts != 2 || shipments[1].BookedReference != "TRK-8" {
		t.Fatalf("expected attempts and booked reference to be loaded, got %+v", shipments[1])
	}

	mock.ExpectBegin()
	mock.ExpectQuery("FROM shipment_requests s").WithArgs(5, 10).WillReturnRows(pgxmockv3.NewRows(shipmentColumns))
	mock.ExpectCommit()
	shipments, err = repo.SelectBatchForDispatch(context.Background(), 10, 5, time.Second)
	if err != nil || len(shipments) != 0 {
		t.Fatalf("expected empty batch, got %v err=%v", shipments, err)
	}

	mock.ExpectBegin()
	mock.ExpectQuery("FROM shipment_requests s").WithArgs(5, 10).WillReturnError(errors.New("query"))
	mock.ExpectRollback()
	if _, err := repo.SelectBatchForDispatch(context.Background(), 10, 5, time.Second); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectQuery("FROM shipment_requests s").WithArgs(5, 10).WillReturnRows(
		pgxmockv3.NewRows(shipmentColumns).AddRow("bad", int64(7), "A", "Skopje", "070", "Main 1", "", payload, 0, ""),
	)
	mock.ExpectRollback()
	if _, err := repo.SelectBatchForDispatch(context.Background(), 10, 5, time.Second); err == nil {
		t.Fatal("expected scan error")
	}

	mock.ExpectBegin()
	mock.ExpectQuery("FROM shipment_requests s").WithArgs(5, 10).WillReturnRows(
		pgxmockv3.NewRows(shipmentColumns).AddRow(first, int64(7), "A", "Skopje", "070", "Main 1", "", payload, 0, ""),
	)
	mock.ExpectExec("UPDATE shipment_requests").WithArgs(int64(1000), []string{first.String()}).WillReturnError(errors.New("lease"))
	mock.ExpectRollback()
	if _, err := repo.SelectBatchForDispatch(context.Background(), 10, 5, time.Second); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected lease error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestShipmentRepositorySelectBatchRowsError(t *testing.T) {
	rows := &errorRows{err: errors.New("rows err")}
	storage := &Storage{pool: &rowsErrorTxPool{tx: &rowsErrorTx{rows: rows}}, timeout: time.Second}
	repo := &shipmentRepository{storage: storage}

	if _, err := repo.SelectBatchForDispatch(context.Background(), 1, 1, time.Second); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestShipmentRepositoryComplete(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &shipmentRepository{storage: storage}

	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET tracking_code").WithArgs("REF-1", id).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("DELETE FROM shipment_requests").WithArgs(id).WillReturnResult(pgxmockv3.NewResult("DELETE", 1))
	mock.ExpectCommit()
	if err := repo.Complete(context.Background(), id, "REF-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET tracking_code").WithArgs("REF-1", id).WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectRollback()
	if err := repo.Complete(context.Background(), id, "REF-1"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET tracking_code").WithArgs("REF-1", id).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("DELETE FROM shipment_requests").WithArgs(id).WillReturnError(errors.New("delete"))
	mock.ExpectRollback()
	if err := repo.Complete(context.Background(), id, "REF-1"); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestShipmentRepositoryFail(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &shipmentRepository{storage: storage}

	id := uuid.New()

	mock.ExpectExec("UPDATE shipment_requests").WithArgs("courier down", int64(60000), id).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.Fail(context.Background(), id, "courier down", time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("UPDATE shipment_requests").WithArgs("courier down", int64(60000), id).WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	if err := repo.Fail(context.Background(), id, "courier down", time.Minute); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectExec("UPDATE shipment_requests").WithArgs("courier down", int64(60000), id).WillReturnError(errors.New("update"))
	if err := repo.Fail(context.Background(), id, "courier down", time.Minute); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestShipmentRepositoryRecordBooking(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &shipmentRepository{storage: storage}

	id := uuid.New()

	mock.ExpectExec("SET booked_reference").WithArgs("TRK-7", "db down", int64(30000), id).WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.RecordBooking(context.Background(), id, "TRK-7", "db down", 30*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("SET booked_reference").WithArgs("TRK-7", "db down", int64(30000), id).WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	if err := repo.RecordBooking(context.Background(), id, "TRK-7", "db down", 30*time.Second); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectExec("SET booked_reference").WithArgs("TRK-7", "db down", int64(30000), id).WillReturnError(errors.New("update"))
	if err := repo.RecordBooking(context.Background(), id, "TRK-7", "db down", 30*time.Second); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
