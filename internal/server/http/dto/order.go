package dto

import (
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	"github.com/PankiTrejd/naracki/internal/domain/model"
)

// Address is the nested address object of an order.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
}

// ShipmentRequest carries courier options of a new order.
type ShipmentRequest struct {
	ShipmentType            string `json:"shipmentType"`
	ShipmentTypeValue       string `json:"shipmentTypeValue,omitempty"`
	PackageValue            *Money `json:"packageValue,omitempty"`
	NumberOfPackages        int    `json:"numberOfPackages,omitempty"`
	ShippingPaymentMethod   string `json:"shippingPaymentMethod,omitempty"`
	CommissionPaymentMethod string `json:"commissionPaymentMethod,omitempty"`
}

// OrderRequest describes a new order.
type OrderRequest struct {
	CustomerName string           `json:"customerName"`
	Address      Address          `json:"address"`
	PhoneNumber  string           `json:"phoneNumber"`
	TotalPrice   *Money           `json:"totalPrice"`
	Notes        *string          `json:"notes,omitempty"`
	Shipment     *ShipmentRequest `json:"shipment,omitempty"`
}

// FilePayload is an attachment sent inline as base64.
type FilePayload struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data string `json:"data"`
}

// CreateOrderRequest is the JSON body of POST /api/orders.
type CreateOrderRequest struct {
	Order OrderRequest  `json:"order"`
	Files []FilePayload `json:"files,omitempty"`
}

// OrderReceiptResponse is returned after an order is created.
type OrderReceiptResponse struct {
	ID             string  `json:"id"`
	SequenceNumber int64   `json:"sequenceNumber"`
	TrackingCode   *string `json:"trackingCode,omitempty"`
}

// AttachmentResponse describes a stored file.
type AttachmentResponse struct {
	ID      string `json:"id"`
	OrderID string `json:"orderId"`
	Type    string `json:"type"`
	URL     string `json:"url"`
	Name    string `json:"name"`
}

// OrderResponse is the wire form of an order.
type OrderResponse struct {
	ID             string               `json:"id"`
	SequenceNumber int64                `json:"sequenceNumber"`
	CustomerName   string               `json:"customerName"`
	Address        Address              `json:"address"`
	PhoneNumber    string               `json:"phoneNumber"`
	TotalPrice     Money                `json:"totalPrice"`
	Notes          *string              `json:"notes,omitempty"`
	Timestamp      time.Time            `json:"timestamp"`
	Status         string               `json:"status"`
	TrackingCode   *string              `json:"trackingCode,omitempty"`
	Attachments    []AttachmentResponse `json:"attachments"`
}

// OrderListResponse is one page of orders.
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
}

// StatusRequest is the body of PUT /api/orders/{id}/status.
type StatusRequest struct {
	Status string `json:"status"`
}

// TrackingRequest is the body of PUT /api/orders/{id}/tracking.
type TrackingRequest struct {
	TrackingCode string `json:"trackingCode"`
}

// ToDraft converts the request into a domain draft.
func (r OrderRequest) ToDraft() (model.OrderDraft, error) {
	if r.TotalPrice == nil {
		return model.OrderDraft{}, domainErrors.Validationf("total price is required")
	}
	draft := model.OrderDraft{
		CustomerName: r.CustomerName,
		Address:      model.Address{Street: r.Address.Street, City: r.Address.City},
		PhoneNumber:  r.PhoneNumber,
		TotalPrice:   r.TotalPrice.Decimal,
		Notes:        r.Notes,
	}
	if s := r.Shipment; s != nil {
		opts := &model.ShipmentOptions{
			ShipmentType:            s.ShipmentType,
			ShipmentTypeValue:       s.ShipmentTypeValue,
			NumberOfPackages:        s.NumberOfPackages,
			ShippingPaymentMethod:   s.ShippingPaymentMethod,
			CommissionPaymentMethod: s.CommissionPaymentMethod,
		}
		if s.PackageValue != nil {
			opts.PackageValue = s.PackageValue.Decimal
		} else {
			opts.PackageValue = draft.TotalPrice
		}
		draft.Shipment = opts
	}
	return draft, nil
}

// NewReceiptResponse converts a receipt.
func NewReceiptResponse(r model.OrderReceipt) OrderReceiptResponse {
	return OrderReceiptResponse{ID: r.ID.String(), SequenceNumber: r.SequenceNumber, TrackingCode: r.TrackingCode}
}

// NewAttachmentResponses converts attachments, never returning nil.
func NewAttachmentResponses(attachments []model.Attachment) []AttachmentResponse {
	out := make([]AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		out = append(out, AttachmentResponse{
			ID:      a.ID.String(),
			OrderID: a.OrderID.String(),
			Type:    string(a.Type),
			URL:     a.URL,
			Name:    a.Name,
		})
	}
	return out
}

// NewOrderResponse converts an order.
func NewOrderResponse(o model.Order) OrderResponse {
	return OrderResponse{
		ID:             o.ID.String(),
		SequenceNumber: o.SequenceNumber,
		CustomerName:   o.CustomerName,
		Address:        Address{Street: o.Address.Street, City: o.Address.City},
		PhoneNumber:    o.PhoneNumber,
		TotalPrice:     NewMoney(o.TotalPrice),
		Notes:          o.Notes,
		Timestamp:      o.Timestamp,
		Status:         string(o.Status),
		TrackingCode:   o.TrackingCode,
		Attachments:    NewAttachmentResponses(o.Attachments),
	}
}

// NewOrderListResponse converts a page.
func NewOrderListResponse(p model.OrderPage) OrderListResponse {
	out := OrderListResponse{Orders: make([]OrderResponse, 0, len(p.Orders)), Total: p.Total}
	for _, o := range p.Orders {
		out.Orders = append(out.Orders, NewOrderResponse(o))
	}
	return out
}

// ToModel converts the wire form back into a domain order.
func (r OrderResponse) ToModel() (model.Order, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return model.Order{}, err
	}
	o := model.Order{
		ID:             id,
		SequenceNumber: r.SequenceNumber,
		CustomerName:   r.CustomerName,
		Address:        model.Address{Street: r.Address.Street, City: r.Address.City},
		PhoneNumber:    r.PhoneNumber,
		TotalPrice:     r.TotalPrice.Decimal,
		Notes:          r.Notes,
		Timestamp:      r.Timestamp,
		Status:         model.OrderStatus(r.Status),
		TrackingCode:   r.TrackingCode,
		Attachments:    make([]model.Attachment, 0, len(r.Attachments)),
	}
	for _, a := range r.Attachments {
		att, err := a.ToModel()
		if err != nil {
			return model.Order{}, err
		}
		o.Attachments = append(o.Attachments, att)
	}
	return o, nil
}

// ToModel converts the wire form back into a domain attachment.
func (r AttachmentResponse) ToModel() (model.Attachment, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return model.Attachment{}, err
	}
	orderID, err := uuid.Parse(r.OrderID)
	if err != nil {
		return model.Attachment{}, err
	}
	return model.Attachment{ID: id, OrderID: orderID, Type: model.AttachmentType(r.Type), URL: r.URL, Name: r.Name}, nil
}
