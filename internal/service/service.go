package service

import (
	"context"
	"strings"

	"dukkan/internal/checkout"
	"dukkan/internal/model"
	"dukkan/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartService reconciles the optimistic client cart with the server's
// durable copy.
type CartService interface {
	// Sync sets the server-side quantity for one product with
	// full-replace semantics. A quantity of zero or less removes the
	// product.
	Sync(ctx context.Context, userID uuid.UUID, productID, productName string, price decimal.Decimal, quantity int) error
	Get(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// CheckoutService turns a validated checkout into a persisted order.
type CheckoutService interface {
	// Readiness evaluates the submission gate for the current inputs.
	Readiness(ctx context.Context, userID uuid.UUID, addressID *uuid.UUID, shiftID string, payment model.PaymentMethod, termsAccepted bool) (checkout.Readiness, error)
	// PlaceOrder runs the full order creation workflow. Expected
	// validation failures come back as *ValidationError; auth and
	// empty-cart conditions as their redirect-signal domain errors.
	PlaceOrder(ctx context.Context, userID uuid.UUID, input checkout.CheckoutInput) (*PlaceOrderResult, error)
}

// FulfillmentService drives order status transitions.
type FulfillmentService interface {
	AssignDriver(ctx context.Context, orderID, driverID uuid.UUID) error
	StartTrip(ctx context.Context, orderID, driverID uuid.UUID, lat, lng float64) error
	UpdateCoordinates(ctx context.Context, orderID, driverID uuid.UUID, lat, lng float64) error
	CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) error
	DeliverOrder(ctx context.Context, orderID uuid.UUID) error
}

// PlaceOrderResult is returned to the caller for the confirmation
// redirect.
type PlaceOrderResult struct {
	OrderNumber string        `json:"orderNumber"`
	Quote       pricing.Quote `json:"quote"`
}

// ValidationError carries the complete field-error list from a failed
// payload validation. It is an expected outcome, not an infrastructure
// failure.
type ValidationError struct {
	Fields []checkout.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}
