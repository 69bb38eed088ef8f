package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/PankiTrejd/naracki/internal/domain/model"
)

// OrderRepository describes persistence operations with orders and their attachments.
type OrderRepository interface {
	Create(ctx context.Context, draft model.OrderDraft) (*model.OrderReceipt, error)
	AddAttachments(ctx context.Context, orderID uuid.UUID, attachments []model.Attachment) ([]model.Attachment, error)
	List(ctx context.Context, filter model.OrderFilter) (*model.OrderPage, error)
	Get(ctx context.Context, orderID uuid.UUID) (*model.Order, error)
	AttachmentKeys(ctx context.Context, orderID uuid.UUID) ([]string, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error
	SetTrackingCode(ctx context.Context, orderID uuid.UUID, code string) error
	Delete(ctx context.Context, orderID uuid.UUID) error
}
