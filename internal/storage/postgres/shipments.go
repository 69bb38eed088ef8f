package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	"github.com/PankiTrejd/naracki/internal/domain/model"
)

func (r *shipmentRepository) SelectBatchForDispatch(ctx context.Context, limit, maxAttempts int, lease time.Duration) ([]model.Shipment, error) {
	const selectQuery = `SELECT s.order_id, o.order_number, o.customer_name, o.city, o.phone_number, o.street,
                                COALESCE(o.notes, ''), s.payload, s.attempts, COALESCE(s.booked_reference, '')
                         FROM shipment_requests s
                         JOIN orders o ON o.id = s.order_id
                         WHERE s.next_attempt_at <= NOW() AND s.attempts < $1
                         ORDER BY s.created_at
                         LIMIT $2
                         FOR UPDATE OF s SKIP LOCKED`
	const leaseQuery = `UPDATE shipment_requests
                        SET next_attempt_at = NOW() + $1 * INTERVAL '1 millisecond'
                        WHERE order_id = ANY($2::uuid[])`

	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	var shipments []model.Shipment
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, maxAttempts, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				s       model.Shipment
				payload shipmentPayload
			)
			if err := rows.Scan(&s.OrderID, &s.SequenceNumber, &s.Receiver.Name, &s.Receiver.City,
				&s.Receiver.PhoneNumber, &s.Receiver.Address, &s.Note, &payload, &s.Attempts, &s.BookedReference); err != nil {
				return err
			}
			s.Options = payload.options()
			shipments = append(shipments, s)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		rows.Close()

		if len(shipments) == 0 {
			return nil
		}
		ids := make([]uuid.UUID, len(shipments))
		for i, s := range shipments {
			ids[i] = s.OrderID
		}
		_, err = tx.Exec(ctx, leaseQuery, lease.Milliseconds(), idStrings(ids))
		return err
	})
	if err != nil {
		return nil, translate("select shipments", err)
	}
	return shipments, nil
}

func (r *shipmentRepository) Complete(ctx context.Context, orderID uuid.UUID, trackingCode string) error {
	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE orders SET tracking_code = $1 WHERE id = $2`, trackingCode, orderID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}
		_, err = tx.Exec(ctx, `DELETE FROM shipment_requests WHERE order_id = $1`, orderID)
		return err
	})
	return translate("complete shipment", err)
}

func (r *shipmentRepository) Fail(ctx context.Context, orderID uuid.UUID, reason string, retryAfter time.Duration) error {
	const query = `UPDATE shipment_requests
                   SET attempts = attempts + 1,
                       last_error = $1,
                       next_attempt_at = NOW() + $2 * INTERVAL '1 millisecond'
                   WHERE order_id = $3`

	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	tag, err := r.storage.pool.Exec(ctx, query, reason, retryAfter.Milliseconds(), orderID)
	if err != nil {
		return translate("fail shipment", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("fail shipment: %w", domainErrors.ErrNotFound)
	}
	return nil
}

// RecordBooking keeps the courier reference of a booking whose tracking code
// was not stored, so the next attempt completes it without booking again.
func (r *shipmentRepository) RecordBooking(ctx context.Context, orderID uuid.UUID, reference, reason string, retryAfter time.Duration) error {
	const query = `UPDATE shipment_requests
                   SET booked_reference = $1,
                       attempts = attempts + 1,
                       last_error = $2,
                       next_attempt_at = NOW() + $3 * INTERVAL '1 millisecond'
                   WHERE order_id = $4`

	ctx, cancel := r.storage.withTimeout(ctx)
	defer cancel()

	tag, err := r.storage.pool.Exec(ctx, query, reference, reason, retryAfter.Milliseconds(), orderID)
	if err != nil {
		return translate("record booking", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record booking: %w", domainErrors.ErrNotFound)
	}
	return nil
}
