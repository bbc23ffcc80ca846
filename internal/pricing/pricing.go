// Package pricing computes checkout totals. Defaults are compile-time
// constants; a settings file (local JSON or S3 object) may override
// them at startup only. Totals are computed once at order creation and
// never recomputed later.
package pricing

import (
	"dukkan/internal/model"

	"github.com/shopspring/decimal"
)

// Default pricing settings.
var (
	DefaultFreeShippingThreshold = decimal.NewFromInt(200)
	DefaultDeliveryFee           = decimal.NewFromInt(25)
	DefaultTaxRate               = decimal.NewFromFloat(0.15)
)

// Settings are the knobs of the quote computation.
type Settings struct {
	FreeShippingThreshold decimal.Decimal `json:"freeShippingThreshold"`
	DeliveryFee           decimal.Decimal `json:"deliveryFee"`
	TaxRate               decimal.Decimal `json:"taxRate"`
}

// DefaultSettings returns the compiled-in pricing settings.
func DefaultSettings() Settings {
	return Settings{
		FreeShippingThreshold: DefaultFreeShippingThreshold,
		DeliveryFee:           DefaultDeliveryFee,
		TaxRate:               DefaultTaxRate,
	}
}

// Quote is the priced breakdown of a cart.
type Quote struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

// Quote prices a cart: subtotal is the sum of price x quantity, the
// delivery fee is waived at or above the free-shipping threshold, and
// tax applies to subtotal plus fee, rounded to two decimal places.
func (s Settings) Quote(items []model.CartItem) Quote {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	fee := s.DeliveryFee
	if subtotal.GreaterThanOrEqual(s.FreeShippingThreshold) {
		fee = decimal.Zero
	}

	tax := subtotal.Add(fee).Mul(s.TaxRate).Round(2)

	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       subtotal.Add(fee).Add(tax),
	}
}
