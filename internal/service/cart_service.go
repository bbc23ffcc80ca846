package service

import (
	"context"
	"errors"

	"dukkan/internal/model"
	"dukkan/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cartService implements CartService.
type cartService struct {
	cartRepo repository.CartRepository
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(cartRepo repository.CartRepository, logger zerolog.Logger) CartService {
	return &cartService{
		cartRepo: cartRepo,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// Sync sets the server-side quantity for one product. The operation is
// idempotent: repeating it with the same arguments leaves the cart
// unchanged.
func (s *cartService) Sync(ctx context.Context, userID uuid.UUID, productID, productName string, price decimal.Decimal, quantity int) error {
	if productID == "" {
		return model.ErrCartSyncFailed
	}

	err := s.cartRepo.Sync(ctx, model.CartItem{
		UserID:      userID,
		ProductID:   productID,
		ProductName: productName,
		Price:       price,
		Quantity:    quantity,
	})
	if err != nil {
		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			return domainErr
		}
		s.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID).
			Msg("cart sync failed")
		return model.ErrCartSyncFailed
	}

	return nil
}

// Get retrieves the server-side cart.
func (s *cartService) Get(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	items, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to load cart")
		return nil, model.ErrInternal
	}
	return items, nil
}

// Clear empties the server-side cart.
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.cartRepo.Empty(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart")
		return model.ErrInternal
	}
	return nil
}
