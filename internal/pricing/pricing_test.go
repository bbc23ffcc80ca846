package pricing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dukkan/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cart(prices map[string]float64, quantities map[string]int) []model.CartItem {
	var items []model.CartItem
	for id, price := range prices {
		items = append(items, model.CartItem{
			ProductID: id,
			Price:     decimal.NewFromFloat(price),
			Quantity:  quantities[id],
		})
	}
	return items
}

func TestQuote(t *testing.T) {
	settings := DefaultSettings()

	tests := []struct {
		name     string
		items    []model.CartItem
		subtotal string
		fee      string
		tax      string
		total    string
	}{
		{
			name:     "below free shipping threshold",
			items:    cart(map[string]float64{"p1": 75}, map[string]int{"p1": 2}),
			subtotal: "150",
			fee:      "25",
			tax:      "26.25",
			total:    "201.25",
		},
		{
			name:     "above free shipping threshold",
			items:    cart(map[string]float64{"p1": 125}, map[string]int{"p1": 2}),
			subtotal: "250",
			fee:      "0",
			tax:      "37.5",
			total:    "287.5",
		},
		{
			name:     "exactly at threshold waives fee",
			items:    cart(map[string]float64{"p1": 200}, map[string]int{"p1": 1}),
			subtotal: "200",
			fee:      "0",
			tax:      "30",
			total:    "230",
		},
		{
			name:     "empty cart",
			items:    nil,
			subtotal: "0",
			fee:      "25",
			tax:      "3.75",
			total:    "28.75",
		},
		{
			name:     "tax rounds to two decimal places",
			items:    cart(map[string]float64{"p1": 0.33}, map[string]int{"p1": 3}),
			subtotal: "0.99",
			fee:      "25",
			tax:      "3.9", // (0.99 + 25) * 0.15 = 3.8985 -> 3.90
			total:    "29.89",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := settings.Quote(tt.items)

			assert.True(t, quote.Subtotal.Equal(decimal.RequireFromString(tt.subtotal)),
				"subtotal: got %s", quote.Subtotal)
			assert.True(t, quote.DeliveryFee.Equal(decimal.RequireFromString(tt.fee)),
				"fee: got %s", quote.DeliveryFee)
			assert.True(t, quote.Tax.Equal(decimal.RequireFromString(tt.tax)),
				"tax: got %s", quote.Tax)
			assert.True(t, quote.Total.Equal(decimal.RequireFromString(tt.total)),
				"total: got %s", quote.Total)
		})
	}
}

func TestQuote_MultipleItems(t *testing.T) {
	items := []model.CartItem{
		{ProductID: "p1", Price: decimal.NewFromFloat(49.5), Quantity: 2},
		{ProductID: "p2", Price: decimal.NewFromFloat(17), Quantity: 3},
	}

	quote := DefaultSettings().Quote(items)

	// 99 + 51 = 150, below threshold
	assert.True(t, quote.Subtotal.Equal(decimal.NewFromInt(150)))
	assert.True(t, quote.DeliveryFee.Equal(decimal.NewFromInt(25)))
	assert.True(t, quote.Total.Equal(decimal.RequireFromString("201.25")))
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pricing.json")
	content := `{"freeShippingThreshold": "300", "deliveryFee": "30", "taxRate": "0.05"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loader := NewFileLoader(zerolog.Nop())
	settings, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	assert.True(t, settings.FreeShippingThreshold.Equal(decimal.NewFromInt(300)))
	assert.True(t, settings.DeliveryFee.Equal(decimal.NewFromInt(30)))
	assert.True(t, settings.TaxRate.Equal(decimal.RequireFromString("0.05")))
}

func TestFileLoader_PartialOverrideKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pricing.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"deliveryFee": "10"}`), 0o644))

	loader := NewFileLoader(zerolog.Nop())
	settings, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	assert.True(t, settings.DeliveryFee.Equal(decimal.NewFromInt(10)))
	assert.True(t, settings.FreeShippingThreshold.Equal(DefaultFreeShippingThreshold))
	assert.True(t, settings.TaxRate.Equal(DefaultTaxRate))
}

func TestFileLoader_Errors(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load(context.Background(), "does-not-exist.json")
		require.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))

		_, err := loader.Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse settings")
	})

	t.Run("negative tax rate", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "neg.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"taxRate": "-0.1"}`), 0o644))

		_, err := loader.Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tax rate must not be negative")
	})
}
