package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShipmentOptions describe how the courier should carry an order.
type ShipmentOptions struct {
	ShipmentType            string
	ShipmentTypeValue       string
	PackageValue            decimal.Decimal
	NumberOfPackages        int
	ShippingPaymentMethod   string
	CommissionPaymentMethod string
}

// Receiver is the delivery party of a shipment.
type Receiver struct {
	Name        string
	City        string
	PhoneNumber string
	Address     string
}

// Shipment is a pending courier booking for an order.
type Shipment struct {
	OrderID        uuid.UUID
	SequenceNumber int64
	Receiver       Receiver
	Options        ShipmentOptions
	Note           string
	Attempts       int
	// BookedReference is set when the courier accepted the shipment but the
	// tracking code could not be stored yet.
	BookedReference string
}

// Booking is the courier response for a booked shipment.
type Booking struct {
	Reference string
	Message   string
}

// RetryPolicy controls rescheduling of failed bookings.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}
