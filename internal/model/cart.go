package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart quantity bounds. A sync with quantity below the minimum removes
// the row instead of storing it.
const (
	MinCartQuantity = 1
	MaxCartQuantity = 99
)

// CartItem is one row of the server-side cart, keyed by (user, product).
// The client holds its own optimistic copy; this representation is the
// durable one the checkout reads.
type CartItem struct {
	UserID      uuid.UUID       `json:"userId" db:"user_id"`
	ProductID   string          `json:"productId" db:"product_id"`
	ProductName string          `json:"productName" db:"product_name"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Quantity    int             `json:"quantity" db:"quantity"`
}
