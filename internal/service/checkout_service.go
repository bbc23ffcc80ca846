package service

import (
	"context"
	"fmt"
	"time"

	"dukkan/internal/cache"
	"dukkan/internal/checkout"
	"dukkan/internal/model"
	"dukkan/internal/notify"
	"dukkan/internal/ordernum"
	"dukkan/internal/pricing"
	"dukkan/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	userRepo   repository.UserRepository
	cartRepo   repository.CartRepository
	shiftRepo  repository.ShiftRepository
	orderRepo  repository.OrderRepository
	generator  ordernum.Generator
	settings   pricing.Settings
	validator  *checkout.Validator
	dispatcher *notify.Dispatcher
	cache      cache.Invalidator
	logger     zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	userRepo repository.UserRepository,
	cartRepo repository.CartRepository,
	shiftRepo repository.ShiftRepository,
	orderRepo repository.OrderRepository,
	generator ordernum.Generator,
	settings pricing.Settings,
	dispatcher *notify.Dispatcher,
	invalidator cache.Invalidator,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		userRepo:   userRepo,
		cartRepo:   cartRepo,
		shiftRepo:  shiftRepo,
		orderRepo:  orderRepo,
		generator:  generator,
		settings:   settings,
		validator:  checkout.NewValidator(),
		dispatcher: dispatcher,
		cache:      invalidator,
		logger:     logger.With().Str("service", "checkout").Logger(),
	}
}

// Readiness evaluates the submission gate for the current inputs.
func (s *checkoutService) Readiness(ctx context.Context, userID uuid.UUID, addressID *uuid.UUID, shiftID string, payment model.PaymentMethod, termsAccepted bool) (checkout.Readiness, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return checkout.Readiness{}, model.ErrInternal
	}

	var address *model.Address
	if addressID != nil {
		address, err = s.userRepo.GetAddressForUser(ctx, *addressID, userID)
		if err != nil {
			return checkout.Readiness{}, model.ErrInternal
		}
	}

	items, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return checkout.Readiness{}, model.ErrInternal
	}

	return checkout.Evaluate(checkout.Input{
		User:          user,
		Address:       address,
		ShiftID:       shiftID,
		PaymentMethod: payment,
		TermsAccepted: termsAccepted,
		CartSize:      len(items),
	}), nil
}

// PlaceOrder runs the order creation workflow. Steps are strictly
// sequential: each depends on the previous one succeeding.
func (s *checkoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, input checkout.CheckoutInput) (*PlaceOrderResult, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to resolve user")
		return nil, model.ErrInternal
	}
	if user == nil {
		return nil, model.ErrNotAuthenticated
	}

	items, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to load cart")
		return nil, model.ErrInternal
	}
	if len(items) == 0 {
		return nil, model.ErrEmptyCart
	}

	if fieldErrors := s.validator.Validate(&input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	// Validation guarantees both IDs parse.
	addressID := uuid.MustParse(input.AddressID)
	shiftID := uuid.MustParse(input.ShiftID)

	// Ownership re-check: a mismatched address is tampering, not a
	// fallback case.
	address, err := s.userRepo.GetAddressForUser(ctx, addressID, userID)
	if err != nil {
		return nil, model.ErrInternal
	}
	if address == nil {
		s.logger.Warn().
			Str("user_id", userID.String()).
			Str("address_id", addressID.String()).
			Msg("checkout address not owned by user")
		return nil, model.ErrAddressNotOwned
	}

	if input.FullName != user.FullName || input.Phone != user.Phone {
		if err := s.userRepo.UpdateProfile(ctx, userID, input.FullName, input.Phone); err != nil {
			return nil, model.ErrInternal
		}
	}

	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return nil, model.ErrInternal
	}
	if shift == nil {
		return nil, model.ErrShiftNotFound
	}

	quote := s.settings.Quote(items)

	orderNumber, err := s.generator.Next(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate order number")
		return nil, model.ErrInternal
	}

	order := &model.Order{
		ID:                   uuid.New(),
		OrderNumber:          orderNumber,
		CustomerID:           userID,
		AddressID:            addressID,
		Status:               model.StatusPending,
		Amount:               quote.Total,
		PaymentMethod:        input.PaymentMethod,
		ShiftID:              shiftID,
		DeliveryInstructions: address.DeliveryInstructions,
		CreatedAt:            time.Now(),
	}

	orderItems := make([]model.OrderItem, len(items))
	for i, item := range items {
		orderItems[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, model.ErrInternal
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.Create(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_number", orderNumber).Msg("failed to persist order")
		return nil, model.ErrInternal
	}

	if err = s.orderRepo.CreateItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().Err(err).Str("order_number", orderNumber).Msg("failed to persist order items")
		return nil, model.ErrInternal
	}

	// The cart is cleared in the same transaction as the order: a
	// refresh after confirmation starts from an empty cart.
	if err = s.cartRepo.Clear(ctx, tx, userID); err != nil {
		return nil, model.ErrInternal
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_number", orderNumber).Msg("failed to commit order")
		return nil, model.ErrInternal
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", orderNumber).
		Str("amount", quote.Total.String()).
		Int("item_count", len(orderItems)).
		Msg("order created")

	s.notifyAdmins(ctx, order)

	s.cache.Invalidate(ctx, cache.TagHome, cache.TagDashboardOrders, cache.UserTag(userID.String()))

	return &PlaceOrderResult{OrderNumber: orderNumber, Quote: quote}, nil
}

// notifyAdmins fans the new-order event out to admins and marketers.
// Best-effort: any failure here is logged and swallowed.
func (s *checkoutService) notifyAdmins(ctx context.Context, order *model.Order) {
	admins, err := s.userRepo.ListByRoles(ctx, model.RoleAdmin, model.RoleMarketer)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to list admins for new-order notification")
		return
	}

	recipients := make([]uuid.UUID, len(admins))
	for i, admin := range admins {
		recipients[i] = admin.ID
	}

	s.dispatcher.Dispatch(ctx, recipients, notify.Event{
		Name:      notify.EventNewOrder,
		Title:     "طلب جديد",
		Body:      fmt.Sprintf("طلب جديد رقم %s بقيمة %s ريال", order.OrderNumber, order.Amount.String()),
		Type:      model.NotificationTypeOrder,
		ActionURL: "/dashboard/orders/" + order.ID.String(),
		Data: map[string]string{
			"orderId":     order.ID.String(),
			"orderNumber": order.OrderNumber,
		},
	})
}
