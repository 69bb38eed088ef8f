package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/PankiTrejd/naracki/internal/adapter/courier"
	"github.com/PankiTrejd/naracki/internal/config"
	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	"github.com/PankiTrejd/naracki/internal/domain/model"
	"github.com/PankiTrejd/naracki/internal/domain/repository"
)

const (
	shipmentLease    = 2 * time.Minute
	baseBackoff      = 30 * time.Second
	maxBackoff       = time.Hour
	completeAttempts = 3
	completePause    = 200 * time.Millisecond
)

// ShipmentUseCase books pending shipments with the courier.
type ShipmentUseCase struct {
	shipments repository.ShipmentRepository
	courier   courier.Client
	policy    model.RetryPolicy
	lease     time.Duration
	pause     time.Duration
	logger    *slog.Logger
}

// NewShipmentUseCase constructs ShipmentUseCase.
func NewShipmentUseCase(shipments repository.ShipmentRepository, client courier.Client, cfg *config.Config, logger *slog.Logger) *ShipmentUseCase {
	return &ShipmentUseCase{
		shipments: shipments,
		courier:   client,
		policy:    model.RetryPolicy{MaxAttempts: cfg.Courier.MaxAttempts, Backoff: baseBackoff},
		lease:     shipmentLease,
		pause:     completePause,
		logger:    logger,
	}
}

// Pending leases up to limit shipments that are due for booking.
func (u *ShipmentUseCase) Pending(ctx context.Context, limit int) ([]model.Shipment, error) {
	return u.shipments.SelectBatchForDispatch(ctx, limit, u.policy.MaxAttempts, u.lease)
}

// Dispatch books s and stores the outcome. Failures are rescheduled with
// backoff. A shipment the courier already accepted is only completed.
func (u *ShipmentUseCase) Dispatch(ctx context.Context, s model.Shipment) (*model.Booking, error) {
	booking := &model.Booking{Reference: s.BookedReference}
	if s.BookedReference == "" {
		var err error
		if booking, err = u.courier.Book(ctx, s); err != nil {
			return nil, u.reschedule(ctx, s, err)
		}
	}

	if err := u.complete(ctx, s.OrderID, booking.Reference); err != nil {
		delay := retryDelay(u.policy, s.Attempts, err)
		attrs := []any{
			slog.String("order_id", s.OrderID.String()),
			slog.String("tracking_code", booking.Reference),
			slog.String("error", err.Error()),
		}
		if recErr := u.shipments.RecordBooking(ctx, s.OrderID, booking.Reference, err.Error(), delay); recErr != nil {
			u.logger.Error("booked shipment could not be recorded", attrs...)
			return booking, errors.Join(err, recErr)
		}
		u.logger.Warn("tracking code not stored", append(attrs, slog.Duration("retry_in", delay))...)
		return booking, err
	}
	u.logger.Info("shipment booked",
		slog.String("order_id", s.OrderID.String()),
		slog.String("tracking_code", booking.Reference),
	)
	return booking, nil
}

func (u *ShipmentUseCase) reschedule(ctx context.Context, s model.Shipment, err error) error {
	delay := retryDelay(u.policy, s.Attempts, err)
	if failErr := u.shipments.Fail(ctx, s.OrderID, err.Error(), delay); failErr != nil {
		return errors.Join(err, failErr)
	}

	attrs := []any{
		slog.String("order_id", s.OrderID.String()),
		slog.Int("attempt", s.Attempts+1),
		slog.String("error", err.Error()),
	}
	if s.Attempts+1 >= u.policy.MaxAttempts {
		u.logger.Error("shipment booking abandoned", attrs...)
	} else {
		u.logger.Warn("shipment booking failed", append(attrs, slog.Duration("retry_in", delay))...)
	}
	return err
}

// complete stores the tracking code with a few quick retries. Not found is
// final.
func (u *ShipmentUseCase) complete(ctx context.Context, orderID uuid.UUID, reference string) error {
	var err error
	for attempt := 0; attempt < completeAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return errors.Join(err, ctx.Err())
			case <-time.After(u.pause):
			}
		}
		if err = u.shipments.Complete(ctx, orderID, reference); err == nil || errors.Is(err, domainErrors.ErrNotFound) {
			return err
		}
	}
	return err
}

// retryDelay doubles the base backoff per attempt. A courier supplied
// Retry-After wins; rejected payloads wait the maximum.
func retryDelay(policy model.RetryPolicy, attempts int, err error) time.Duration {
	var tooMany courier.TooManyRequestsError
	if errors.As(err, &tooMany) && tooMany.RetryAfter > 0 {
		return tooMany.RetryAfter
	}
	if errors.Is(err, courier.ErrRejected) {
		return maxBackoff
	}

	delay := policy.Backoff
	for i := 0; i < attempts && delay < maxBackoff; i++ {
		delay *= 2
	}
	return min(delay, maxBackoff)
}
