package test

import (
	"context"
	"strconv"
	"sync"

	"github.com/PankiTrejd/naracki/internal/domain/model"
)

// CourierStub books shipments through an override or returns "TRK-<sequence>".
type CourierStub struct {
	mu sync.Mutex

	BookFn func(context.Context, model.Shipment) (*model.Booking, error)
	Booked []model.Shipment
}

// Book records the shipment.
func (s *CourierStub) Book(ctx context.Context, shipment model.Shipment) (*model.Booking, error) {
	s.mu.Lock()
	s.Booked = append(s.Booked, shipment)
	s.mu.Unlock()
	if s.BookFn != nil {
		return s.BookFn(ctx, shipment)
	}
	return &model.Booking{Reference: "TRK-" + strconv.FormatInt(shipment.SequenceNumber, 10)}, nil
}

// Calls returns the number of recorded bookings.
func (s *CourierStub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Booked)
}
