package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	NotificationTypeOrder   = "ORDER"
	NotificationTypeSupport = "SUPPORT"
)

// UserNotification is a durable in-app notification record, created as
// a best-effort side effect of order-lifecycle transitions.
type UserNotification struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	Type      string    `json:"type" db:"type"`
	Read      bool      `json:"read" db:"read"`
	ActionURL string    `json:"actionUrl,omitempty" db:"action_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
