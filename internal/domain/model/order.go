package model

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus describes order lifecycle.
type OrderStatus string

const (
	OrderStatusNew      OrderStatus = "New"
	OrderStatusAccepted OrderStatus = "Accepted"
	OrderStatusDone     OrderStatus = "Done"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusAccepted, OrderStatusDone:
		return true
	default:
		return false
	}
}

// Address is the postal destination of an order.
type Address struct {
	Street string
	City   string
}

// Order describes a customer shipment request.
type Order struct {
	ID             uuid.UUID
	SequenceNumber int64
	CustomerName   string
	Address        Address
	PhoneNumber    string
	TotalPrice     decimal.Decimal
	Notes          *string
	Timestamp      time.Time
	Status         OrderStatus
	TrackingCode   *string
	Attachments    []Attachment
}

// OrderDraft holds caller supplied fields of a new order.
type OrderDraft struct {
	CustomerName string
	Address      Address
	PhoneNumber  string
	TotalPrice   decimal.Decimal
	Notes        *string
	Shipment     *ShipmentOptions
}

// OrderReceipt carries identity fields assigned on creation.
type OrderReceipt struct {
	ID             uuid.UUID
	SequenceNumber int64
	TrackingCode   *string
}

const (
	DefaultOrderPageSize = 50
	MaxOrderPageSize     = 200
)

// OrderFilter narrows and paginates order listings.
type OrderFilter struct {
	Status *OrderStatus
	Limit  int
	Offset int
}

// OrderPage is one page of orders plus the filtered total.
type OrderPage struct {
	Orders []Order
	Total  int64
}

// AttachmentType classifies stored files.
type AttachmentType string

const (
	AttachmentTypeImage    AttachmentType = "image"
	AttachmentTypeDocument AttachmentType = "document"
)

// AttachmentTypeFor derives the attachment type from a MIME type.
func AttachmentTypeFor(contentType string) AttachmentType {
	if strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return AttachmentTypeImage
	}
	return AttachmentTypeDocument
}

// Attachment is a file stored in object storage and owned by an order.
type Attachment struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Type      AttachmentType
	URL       string
	Name      string
	ObjectKey string
}

// UploadedFile is raw file content received with an order.
type UploadedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// AttachmentName reduces a client supplied file name to the base name used in
// object keys.
func AttachmentName(name string) string {
	return path.Base("/" + strings.TrimSpace(name))
}

// AttachmentKey returns the object storage key for a file of an order.
func AttachmentKey(orderID uuid.UUID, name string) string {
	return "attachments/" + orderID.String() + "/" + AttachmentName(name)
}
