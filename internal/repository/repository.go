package repository

import (
	"context"

	"dukkan/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CartRepository persists the server-side cart.
type CartRepository interface {
	// Sync sets (not increments) the quantity for one product. A
	// quantity below the minimum removes the row. Idempotent.
	Sync(ctx context.Context, item model.CartItem) error
	Get(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)
	// Clear removes all rows for the user within the given transaction.
	Clear(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error
	// Empty removes all rows for the user outside any transaction.
	Empty(ctx context.Context, userID uuid.UUID) error
}

// OrderRepository persists orders and their line items.
type OrderRepository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error
	CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)
	GetByNumber(ctx context.Context, orderNumber string) (*model.Order, error)
	// AssignDriver sets driver and ASSIGNED status in one statement,
	// guarded on the current status. Returns false when the guard failed.
	AssignDriver(ctx context.Context, orderID, driverID uuid.UUID) (bool, error)
	// UpdateStatus moves the order to the given status only when its
	// current status is one of the allowed ones. Returns false when the
	// guard failed.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, allowed []model.OrderStatus, to model.OrderStatus) (bool, error)
	// Cancel records the reason and flips the status, guarded against
	// terminal states.
	Cancel(ctx context.Context, orderID uuid.UUID, reason string) (bool, error)
}

// TripRepository persists active trips (one per driver, one per order).
type TripRepository interface {
	// StartIfIdle inserts the trip row only when the driver has no
	// other active trip and the order has none. A single conditional
	// insert; returns false when the row already existed.
	StartIfIdle(ctx context.Context, trip *model.ActiveTrip) (bool, error)
	UpdateCoordinates(ctx context.Context, orderID, driverID uuid.UUID, lat, lng float64) (bool, error)
	GetByOrder(ctx context.Context, orderID uuid.UUID) (*model.ActiveTrip, error)
	GetByDriver(ctx context.Context, driverID uuid.UUID) (*model.ActiveTrip, error)
	// DeleteByOrder removes the trip row. Absence is not an error; the
	// boolean reports whether a row was removed.
	DeleteByOrder(ctx context.Context, orderID uuid.UUID) (bool, error)
	ListActive(ctx context.Context) ([]model.ActiveTrip, error)
}

// UserRepository reads accounts and addresses.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// UpdateProfile syncs name and phone captured at checkout onto the
	// stored profile.
	UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phone string) error
	// GetAddressForUser resolves an address only when it belongs to the
	// given user. Returns nil when not found or not owned.
	GetAddressForUser(ctx context.Context, addressID, userID uuid.UUID) (*model.Address, error)
	ListByRoles(ctx context.Context, roles ...model.UserRole) ([]model.User, error)
}

// ShiftRepository reads delivery time windows.
type ShiftRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Shift, error)
}

// NotificationRepository persists in-app notification records.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.UserNotification) error
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.UserNotification, error)
}
