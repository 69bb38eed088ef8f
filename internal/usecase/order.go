package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/PankiTrejd/naracki/internal/adapter/objectstore"
	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	"github.com/PankiTrejd/naracki/internal/domain/model"
	"github.com/PankiTrejd/naracki/internal/domain/repository"
)

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders repository.OrderRepository
	files  objectstore.Store
	logger *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, files objectstore.Store, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, files: files, logger: logger}
}

// Submit creates an order and stores its files. When some uploads fail the
// receipt is still returned together with the error, so the caller can retry
// the attachments alone.
func (u *OrderUseCase) Submit(ctx context.Context, draft model.OrderDraft, files []model.UploadedFile) (*model.OrderReceipt, []model.Attachment, error) {
	if err := ValidateOrderDraft(draft); err != nil {
		return nil, nil, err
	}
	if err := ValidateFiles(files); err != nil {
		return nil, nil, err
	}

	receipt, err := u.orders.Create(ctx, draft)
	if err != nil {
		return nil, nil, err
	}
	u.logger.Info("order created",
		slog.String("order_id", receipt.ID.String()),
		slog.Int64("sequence_number", receipt.SequenceNumber),
		slog.Bool("shipment", draft.Shipment != nil),
	)

	attachments, err := u.attach(ctx, receipt.ID, files)
	if err != nil {
		return receipt, attachments, fmt.Errorf("order %s created, attachments incomplete: %w", receipt.ID, err)
	}
	return receipt, attachments, nil
}

// AttachFiles stores files for an existing order.
func (u *OrderUseCase) AttachFiles(ctx context.Context, orderID uuid.UUID, files []model.UploadedFile) ([]model.Attachment, error) {
	if len(files) == 0 {
		return nil, domainErrors.Validationf("no files supplied")
	}
	if err := ValidateFiles(files); err != nil {
		return nil, err
	}
	order, err := u.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	for _, existing := range order.Attachments {
		for _, f := range files {
			if model.AttachmentName(existing.Name) == model.AttachmentName(f.Name) {
				return nil, domainErrors.Validationf("file %q is already attached", existing.Name)
			}
		}
	}
	return u.attach(ctx, orderID, files)
}

// attach uploads every file and records the ones that made it. Upload errors
// are joined and returned after the successful uploads are persisted.
func (u *OrderUseCase) attach(ctx context.Context, orderID uuid.UUID, files []model.UploadedFile) ([]model.Attachment, error) {
	uploaded := make([]model.Attachment, 0, len(files))
	var failures []error
	for _, f := range files {
		name := model.AttachmentName(f.Name)
		key := model.AttachmentKey(orderID, name)
		url, err := u.files.Put(ctx, key, f.Data, f.ContentType)
		if err != nil {
			u.logger.Warn("attachment upload failed",
				slog.String("order_id", orderID.String()),
				slog.String("file", name),
				slog.String("error", err.Error()),
			)
			failures = append(failures, fmt.Errorf("upload %s: %w", name, err))
			continue
		}
		uploaded = append(uploaded, model.Attachment{
			Type:      model.AttachmentTypeFor(f.ContentType),
			URL:       url,
			Name:      name,
			ObjectKey: key,
		})
	}

	stored := []model.Attachment{}
	if len(uploaded) > 0 {
		var err error
		stored, err = u.orders.AddAttachments(ctx, orderID, uploaded)
		if err != nil {
			return nil, errors.Join(append([]error{err}, failures...)...)
		}
	}
	if len(failures) > 0 {
		return stored, errors.Join(failures...)
	}
	return stored, nil
}

// List returns one page of orders.
func (u *OrderUseCase) List(ctx context.Context, filter model.OrderFilter) (*model.OrderPage, error) {
	filter, err := normalizeOrderFilter(filter)
	if err != nil {
		return nil, err
	}
	return u.orders.List(ctx, filter)
}

// Get returns a single order with its attachments.
func (u *OrderUseCase) Get(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	return u.orders.Get(ctx, orderID)
}

// UpdateStatus moves the order to status. Any transition between known statuses is allowed.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error {
	if !status.Valid() {
		return domainErrors.Validationf("unknown status %q", status)
	}
	return u.orders.UpdateStatus(ctx, orderID, status)
}

// SetTrackingCode stores the courier tracking code of the order.
func (u *OrderUseCase) SetTrackingCode(ctx context.Context, orderID uuid.UUID, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return domainErrors.Validationf("tracking code is required")
	}
	return u.orders.SetTrackingCode(ctx, orderID, code)
}

// Delete removes attachment files on a best-effort basis, then the order itself.
func (u *OrderUseCase) Delete(ctx context.Context, orderID uuid.UUID) error {
	keys, err := u.orders.AttachmentKeys(ctx, orderID)
	if err != nil {
		return err
	}

	for _, key := range keys {
		if err := u.files.Delete(ctx, key); err != nil {
			u.logger.Warn("attachment file delete failed",
				slog.String("order_id", orderID.String()),
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := u.orders.Delete(ctx, orderID); err != nil {
		return err
	}
	u.logger.Info("order deleted", slog.String("order_id", orderID.String()), slog.Int("files", len(keys)))
	return nil
}
