package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/PankiTrejd/naracki/internal/domain/model"
)

// ShipmentRepository tracks courier bookings waiting to be dispatched.
type ShipmentRepository interface {
	SelectBatchForDispatch(ctx context.Context, limit, maxAttempts int, lease time.Duration) ([]model.Shipment, error)
	Complete(ctx context.Context, orderID uuid.UUID, trackingCode string) error
	Fail(ctx context.Context, orderID uuid.UUID, reason string, retryAfter time.Duration) error
	RecordBooking(ctx context.Context, orderID uuid.UUID, reference, reason string, retryAfter time.Duration) error
}
