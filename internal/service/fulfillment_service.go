package service

import (
	"context"
	"time"

	"dukkan/internal/cache"
	"dukkan/internal/model"
	"dukkan/internal/notify"
	"dukkan/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// fulfillmentService implements FulfillmentService.
type fulfillmentService struct {
	orderRepo  repository.OrderRepository
	tripRepo   repository.TripRepository
	userRepo   repository.UserRepository
	dispatcher *notify.Dispatcher
	cache      cache.Invalidator
	logger     zerolog.Logger
}

// NewFulfillmentService creates a new fulfillment service.
func NewFulfillmentService(
	orderRepo repository.OrderRepository,
	tripRepo repository.TripRepository,
	userRepo repository.UserRepository,
	dispatcher *notify.Dispatcher,
	invalidator cache.Invalidator,
	logger zerolog.Logger,
) FulfillmentService {
	return &fulfillmentService{
		orderRepo:  orderRepo,
		tripRepo:   tripRepo,
		userRepo:   userRepo,
		dispatcher: dispatcher,
		cache:      invalidator,
		logger:     logger.With().Str("service", "fulfillment").Logger(),
	}
}

// AssignDriver sets the driver and ASSIGNED status atomically.
func (s *fulfillmentService) AssignDriver(ctx context.Context, orderID, driverID uuid.UUID) error {
	driver, err := s.userRepo.GetByID(ctx, driverID)
	if err != nil {
		return model.ErrInternal
	}
	if driver == nil || driver.Role != model.RoleDriver {
		return model.ErrNotOrderDriver
	}

	ok, err := s.orderRepo.AssignDriver(ctx, orderID, driverID)
	if err != nil {
		return model.ErrInternal
	}
	if !ok {
		return s.transitionFailure(ctx, orderID)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("driver_id", driverID.String()).
		Msg("driver assigned")

	s.dispatcher.Dispatch(ctx, []uuid.UUID{driverID}, notify.Event{
		Name:      notify.EventNewOrder,
		Title:     "طلب جديد مسند إليك",
		Body:      "لديك طلب توصيل جديد، يرجى مراجعة قائمة الرحلات",
		Type:      model.NotificationTypeOrder,
		ActionURL: "/driver/trips",
		Data:      map[string]string{"orderId": orderID.String()},
	})

	s.cache.Invalidate(ctx, cache.TagDashboardOrders)

	return nil
}

// StartTrip moves an assigned order into transit. The one-active-trip-
// per-driver invariant is enforced by the conditional insert, not by a
// separate read.
func (s *fulfillmentService) StartTrip(ctx context.Context, orderID, driverID uuid.UUID, lat, lng float64) error {
	order, _, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return model.ErrInternal
	}
	if order == nil {
		return model.ErrOrderNotFound
	}
	if order.DriverID == nil || *order.DriverID != driverID {
		return model.ErrNotOrderDriver
	}
	if !order.Status.CanTransitionTo(model.StatusInTransit) {
		return model.ErrInvalidTransition
	}

	started, err := s.tripRepo.StartIfIdle(ctx, &model.ActiveTrip{
		OrderID:     orderID,
		DriverID:    driverID,
		OrderNumber: order.OrderNumber,
		Latitude:    lat,
		Longitude:   lng,
		StartedAt:   time.Now(),
	})
	if err != nil {
		return model.ErrInternal
	}
	if !started {
		return model.ErrActiveTripExists
	}

	ok, err := s.orderRepo.UpdateStatus(ctx, orderID, []model.OrderStatus{model.StatusAssigned}, model.StatusInTransit)
	if err != nil || !ok {
		// The order moved under us; release the trip row so the driver
		// is not stuck with a phantom trip.
		if _, delErr := s.tripRepo.DeleteByOrder(ctx, orderID); delErr != nil {
			s.logger.Error().Err(delErr).Str("order_id", orderID.String()).Msg("failed to release trip row")
		}
		if err != nil {
			return model.ErrInternal
		}
		return model.ErrInvalidTransition
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("driver_id", driverID.String()).
		Str("order_number", order.OrderNumber).
		Msg("trip started")

	s.dispatcher.Dispatch(ctx, []uuid.UUID{order.CustomerID}, notify.Event{
		Name:      notify.EventTripStarted,
		Title:     "طلبك في الطريق",
		Body:      "انطلق السائق بطلبك رقم " + order.OrderNumber,
		Type:      model.NotificationTypeOrder,
		ActionURL: "/orders/" + order.OrderNumber,
		Data: map[string]string{
			"orderId":     orderID.String(),
			"orderNumber": order.OrderNumber,
		},
	})

	s.cache.Invalidate(ctx, cache.TagDashboardOrders, cache.UserTag(order.CustomerID.String()))

	return nil
}

// UpdateCoordinates records a driver location ping for the trip keyed
// by (order, driver).
func (s *fulfillmentService) UpdateCoordinates(ctx context.Context, orderID, driverID uuid.UUID, lat, lng float64) error {
	ok, err := s.tripRepo.UpdateCoordinates(ctx, orderID, driverID, lat, lng)
	if err != nil {
		return model.ErrInternal
	}
	if !ok {
		return model.ErrTripNotFound
	}
	return nil
}

// CancelOrder cancels any non-terminal order, recording the reason and
// cleaning up the trip row when one exists.
func (s *fulfillmentService) CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) error {
	order, _, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return model.ErrInternal
	}
	if order == nil {
		return model.ErrOrderNotFound
	}

	ok, err := s.orderRepo.Cancel(ctx, orderID, reason)
	if err != nil {
		return model.ErrInternal
	}
	if !ok {
		return model.ErrInvalidTransition
	}

	// The trip row may not exist when canceling before a trip started.
	if _, err := s.tripRepo.DeleteByOrder(ctx, orderID); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to delete trip row on cancel")
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("order_number", order.OrderNumber).
		Str("reason", reason).
		Msg("order canceled")

	s.notifyAdmins(ctx, notify.Event{
		Name:      notify.EventOrderCanceled,
		Title:     "تم إلغاء طلب",
		Body:      "ألغي الطلب رقم " + order.OrderNumber + ": " + reason,
		Type:      model.NotificationTypeOrder,
		ActionURL: "/dashboard/orders/" + orderID.String(),
		Data: map[string]string{
			"orderId":     orderID.String(),
			"orderNumber": order.OrderNumber,
			"reason":      reason,
		},
	})

	s.cache.Invalidate(ctx, cache.TagHome, cache.TagDashboardOrders, cache.UserTag(order.CustomerID.String()))

	return nil
}

// DeliverOrder completes an in-transit order.
func (s *fulfillmentService) DeliverOrder(ctx context.Context, orderID uuid.UUID) error {
	order, _, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return model.ErrInternal
	}
	if order == nil {
		return model.ErrOrderNotFound
	}

	ok, err := s.orderRepo.UpdateStatus(ctx, orderID, []model.OrderStatus{model.StatusInTransit}, model.StatusDelivered)
	if err != nil {
		return model.ErrInternal
	}
	if !ok {
		return model.ErrInvalidTransition
	}

	if _, err := s.tripRepo.DeleteByOrder(ctx, orderID); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to delete trip row on delivery")
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("order_number", order.OrderNumber).
		Msg("order delivered")

	s.dispatcher.Dispatch(ctx, []uuid.UUID{order.CustomerID}, notify.Event{
		Name:      notify.EventOrderDelivered,
		Title:     "تم توصيل طلبك",
		Body:      "وصل طلبك رقم " + order.OrderNumber + "، شكراً لتسوقك معنا",
		Type:      model.NotificationTypeOrder,
		ActionURL: "/orders/" + order.OrderNumber,
		Data: map[string]string{
			"orderId":     orderID.String(),
			"orderNumber": order.OrderNumber,
		},
	})

	s.cache.Invalidate(ctx, cache.TagDashboardOrders, cache.UserTag(order.CustomerID.String()))

	return nil
}

// notifyAdmins fans an event out to admins and marketers, best-effort.
func (s *fulfillmentService) notifyAdmins(ctx context.Context, event notify.Event) {
	admins, err := s.userRepo.ListByRoles(ctx, model.RoleAdmin, model.RoleMarketer)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to list admins for notification")
		return
	}

	recipients := make([]uuid.UUID, len(admins))
	for i, admin := range admins {
		recipients[i] = admin.ID
	}

	s.dispatcher.Dispatch(ctx, recipients, event)
}

// transitionFailure distinguishes a missing order from a blocked
// transition after a guarded update affected no rows.
func (s *fulfillmentService) transitionFailure(ctx context.Context, orderID uuid.UUID) error {
	order, _, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return model.ErrInternal
	}
	if order == nil {
		return model.ErrOrderNotFound
	}
	return model.ErrInvalidTransition
}
