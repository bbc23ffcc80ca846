package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusAssigned  OrderStatus = "ASSIGNED"
	StatusInTransit OrderStatus = "IN_TRANSIT"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCanceled  OrderStatus = "CANCELED"
)

// Terminal reports whether no further transition is allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCanceled
}

// CanTransitionTo reports whether the fulfillment state machine permits
// moving from s to next. Cancellation is allowed from any non-terminal
// state; everything else is strictly forward.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	switch next {
	case StatusCanceled:
		return true
	case StatusAssigned:
		return s == StatusPending || s == StatusAssigned
	case StatusInTransit:
		return s == StatusAssigned
	case StatusDelivered:
		return s == StatusInTransit
	default:
		return false
	}
}

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCard   PaymentMethod = "CARD"
	PaymentWallet PaymentMethod = "WALLET"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentWallet:
		return true
	}
	return false
}

// Order is a persisted purchase record. Amount is computed once at
// creation and never recomputed afterwards.
type Order struct {
	ID                   uuid.UUID       `json:"id" db:"id"`
	OrderNumber          string          `json:"orderNumber" db:"order_number"`
	CustomerID           uuid.UUID       `json:"customerId" db:"customer_id"`
	AddressID            uuid.UUID       `json:"addressId" db:"address_id"`
	Status               OrderStatus     `json:"status" db:"status"`
	Amount               decimal.Decimal `json:"amount" db:"amount"`
	PaymentMethod        PaymentMethod   `json:"paymentMethod" db:"payment_method"`
	ShiftID              uuid.UUID       `json:"shiftId" db:"shift_id"`
	DeliveryInstructions string          `json:"deliveryInstructions,omitempty" db:"delivery_instructions"`
	DriverID             *uuid.UUID      `json:"driverId,omitempty" db:"driver_id"`
	CancelReason         *string         `json:"cancelReason,omitempty" db:"cancel_reason"`
	CreatedAt            time.Time       `json:"createdAt" db:"created_at"`
}

// OrderItem is a line item with the product price captured at order
// time, decoupled from the live product price.
type OrderItem struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID string          `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"`
}
