package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/PankiTrejd/naracki/internal/adapter/courier"
	"github.com/PankiTrejd/naracki/internal/domain/model"
	"github.com/PankiTrejd/naracki/internal/metrics"
)

// ShipmentFacade exposes the subset of application functionality required by the dispatcher.
type ShipmentFacade interface {
	ShipmentsForDispatch(ctx context.Context, limit int) ([]model.Shipment, error)
	DispatchShipment(ctx context.Context, shipment model.Shipment) (*model.Booking, error)
}

// BookingRecorder counts booking outcomes.
type BookingRecorder interface {
	ObserveBooking(outcome string)
}

// ShipmentDispatcher polls pending shipments and books them with the courier concurrently.
type ShipmentDispatcher struct {
	facade       ShipmentFacade
	recorder     BookingRecorder
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Shipment
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewShipmentDispatcher constructs the dispatcher worker pool.
func NewShipmentDispatcher(facade ShipmentFacade, recorder BookingRecorder, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *ShipmentDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &ShipmentDispatcher{
		facade:       facade,
		recorder:     recorder,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Shipment, batchSize*workers),
	}
}

// Start launches background dispatching.
func (d *ShipmentDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}

	d.wg.Add(1)
	go d.poll(runCtx)
}

// Stop waits for in-flight bookings to finish.
func (d *ShipmentDispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *ShipmentDispatcher) poll(ctx context.Context) {
	defer d.wg.Done()
	defer close(d.jobs)
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.fetchAndEnqueue(ctx)
		}
	}
}

func (d *ShipmentDispatcher) fetchAndEnqueue(ctx context.Context) {
	shipments, err := d.facade.ShipmentsForDispatch(ctx, d.batchSize)
	if err != nil {
		if ctx.Err() == nil {
			d.logger.Error("fetch shipments for dispatch failed", slog.String("error", err.Error()))
		}
		return
	}
	for _, s := range shipments {
		select {
		case <-ctx.Done():
			return
		case d.jobs <- s:
		}
	}
}

func (d *ShipmentDispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-d.jobs:
			if !ok {
				return
			}
			d.handleShipment(ctx, s)
		}
	}
}

func (d *ShipmentDispatcher) handleShipment(ctx context.Context, s model.Shipment) {
	if _, err := d.facade.DispatchShipment(ctx, s); err != nil {
		d.recorder.ObserveBooking(metrics.BookingFailed)

		var tooMany courier.TooManyRequestsError
		if errors.As(err, &tooMany) {
			d.logger.Warn("courier rate limited", slog.Duration("retry_after", tooMany.RetryAfter))
			sleep(ctx, tooMany.RetryAfter)
		}
		return
	}
	d.recorder.ObserveBooking(metrics.BookingBooked)
}

func sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
