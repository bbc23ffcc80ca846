package model

import (
	"time"

	"github.com/google/uuid"
)

// ActiveTrip links one driver to one in-progress order and holds the
// driver's live position. The active_trips table enforces at most one
// row per driver and one per order.
type ActiveTrip struct {
	OrderID     uuid.UUID `json:"orderId" db:"order_id"`
	DriverID    uuid.UUID `json:"driverId" db:"driver_id"`
	OrderNumber string    `json:"orderNumber" db:"order_number"`
	Latitude    float64   `json:"latitude" db:"latitude"`
	Longitude   float64   `json:"longitude" db:"longitude"`
	StartedAt   time.Time `json:"startedAt" db:"started_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
