package model

import (
	"time"

	"github.com/google/uuid"
)

// UserRole distinguishes the audiences of order-lifecycle events.
type UserRole string

const (
	RoleCustomer UserRole = "CUSTOMER"
	RoleAdmin    UserRole = "ADMIN"
	RoleMarketer UserRole = "MARKETER"
	RoleDriver   UserRole = "DRIVER"
)

// User is an account as seen by the order workflow. IsOtp marks a
// phone-verified ("activated") account; unverified accounts cannot
// submit orders.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FullName  string    `json:"fullName" db:"full_name"`
	Phone     string    `json:"phone" db:"phone"`
	Role      UserRole  `json:"role" db:"role"`
	IsOtp     bool      `json:"isOtp" db:"is_otp"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
