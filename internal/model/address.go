package model

import (
	"github.com/google/uuid"
)

// Address is a delivery address owned by a user. At most one address
// per user carries IsDefault.
type Address struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	UserID               uuid.UUID `json:"userId" db:"user_id"`
	Label                string    `json:"label" db:"label"`
	District             string    `json:"district" db:"district"`
	Street               string    `json:"street" db:"street"`
	BuildingNumber       string    `json:"buildingNumber" db:"building_number"`
	Floor                string    `json:"floor,omitempty" db:"floor"`
	ApartmentNumber      string    `json:"apartmentNumber,omitempty" db:"apartment_number"`
	Landmark             string    `json:"landmark,omitempty" db:"landmark"`
	DeliveryInstructions string    `json:"deliveryInstructions,omitempty" db:"delivery_instructions"`
	Latitude             *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude            *float64  `json:"longitude,omitempty" db:"longitude"`
	IsDefault            bool      `json:"isDefault" db:"is_default"`
}

// HasCoordinates is the canonical checkout-ready predicate: submission
// requires only a pinned map location.
func (a *Address) HasCoordinates() bool {
	return a != nil && a.Latitude != nil && a.Longitude != nil
}

// MissingDetails lists the address fields recommended for delivery
// accuracy that are absent. A non-empty result does not block checkout;
// it is surfaced as a warning.
func (a *Address) MissingDetails() []string {
	if a == nil {
		return nil
	}
	var missing []string
	if a.District == "" {
		missing = append(missing, "district")
	}
	if a.Street == "" {
		missing = append(missing, "street")
	}
	if a.BuildingNumber == "" {
		missing = append(missing, "buildingNumber")
	}
	return missing
}
