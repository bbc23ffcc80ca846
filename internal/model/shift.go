package model

import (
	"time"

	"github.com/google/uuid"
)

// Shift is a delivery time window. Read-only from the checkout
// workflow's perspective.
type Shift struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	StartTime time.Time `json:"startTime" db:"start_time"`
	EndTime   time.Time `json:"endTime" db:"end_time"`
}
