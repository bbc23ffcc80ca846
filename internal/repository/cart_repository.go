package repository

import (
	"context"
	"fmt"

	"dukkan/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements CartRepository using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// Sync sets the quantity for one product with full-replace semantics.
func (r *cartRepository) Sync(ctx context.Context, item model.CartItem) error {
	if item.Quantity < model.MinCartQuantity {
		query := `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`
		if _, err := r.pool.Exec(ctx, query, item.UserID, item.ProductID); err != nil {
			r.logger.Error().
				Err(err).
				Str("user_id", item.UserID.String()).
				Str("product_id", item.ProductID).
				Msg("failed to remove cart item")
			return fmt.Errorf("failed to remove cart item: %w", err)
		}
		return nil
	}

	if item.Quantity > model.MaxCartQuantity {
		return model.ErrInvalidQuantity
	}

	query := `
		INSERT INTO cart_items (user_id, product_id, product_name, price, quantity)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET product_name = EXCLUDED.product_name,
		              price = EXCLUDED.price,
		              quantity = EXCLUDED.quantity
	`

	_, err := r.pool.Exec(ctx, query, item.UserID, item.ProductID, item.ProductName, item.Price, item.Quantity)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", item.UserID.String()).
			Str("product_id", item.ProductID).
			Msg("failed to sync cart item")
		return fmt.Errorf("failed to sync cart item: %w", err)
	}

	r.logger.Debug().
		Str("user_id", item.UserID.String()).
		Str("product_id", item.ProductID).
		Int("quantity", item.Quantity).
		Msg("cart item synced")

	return nil
}

// Get retrieves all cart rows for the user.
func (r *cartRepository) Get(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	query := `
		SELECT user_id, product_id, product_name, price, quantity
		FROM cart_items
		WHERE user_id = $1
		ORDER BY product_id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.UserID, &item.ProductID, &item.ProductName, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cart rows: %w", err)
	}

	return items, nil
}

// Clear removes all cart rows for the user within the transaction.
func (r *cartRepository) Clear(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	_, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	r.logger.Debug().Str("user_id", userID.String()).Msg("cart cleared")
	return nil
}

// Empty removes all cart rows for the user.
func (r *cartRepository) Empty(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to empty cart")
		return fmt.Errorf("failed to empty cart: %w", err)
	}
	return nil
}
