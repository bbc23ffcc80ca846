// Command tripsweep flags trips whose drivers have gone quiet. It is
// meant to run on a schedule (cron or a container job): it lists the
// active trips, and for every trip without a location ping inside the
// threshold it raises a support alert to admins and marketers.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"dukkan/internal/config"
	"dukkan/internal/database"
	"dukkan/internal/model"
	"dukkan/internal/notify"
	"dukkan/internal/repository"

	"github.com/google/uuid"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	staleAfter := flag.Duration("stale-after", 15*time.Minute, "flag trips without a location ping for this long")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Dur("stale_after", *staleAfter).Msg("starting trip sweep")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	tripRepo := repository.NewTripRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	notificationRepo := repository.NewNotificationRepository(pool, logger)

	dispatcher := notify.NewDispatcher(
		notificationRepo,
		nil,
		nil,
		time.Duration(cfg.Push.Timeout)*time.Second,
		logger,
	)

	trips, err := tripRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active trips: %w", err)
	}

	admins, err := userRepo.ListByRoles(ctx, model.RoleAdmin, model.RoleMarketer)
	if err != nil {
		return fmt.Errorf("failed to list admins: %w", err)
	}
	recipients := make([]uuid.UUID, len(admins))
	for i, admin := range admins {
		recipients[i] = admin.ID
	}

	cutoff := time.Now().Add(-*staleAfter)
	stale := 0
	for _, trip := range trips {
		lastSeen := trip.UpdatedAt
		if lastSeen.IsZero() {
			lastSeen = trip.StartedAt
		}
		if lastSeen.After(cutoff) {
			continue
		}
		stale++

		logger.Warn().
			Str("order_number", trip.OrderNumber).
			Str("driver_id", trip.DriverID.String()).
			Time("last_seen", lastSeen).
			Msg("stale trip detected")

		dispatcher.Dispatch(ctx, recipients, notify.Event{
			Name:  notify.EventSupportAlert,
			Title: "رحلة متوقفة",
			Body:  "لم يصل تحديث موقع للطلب رقم " + trip.OrderNumber + " منذ فترة، يرجى التواصل مع السائق",
			Type:  model.NotificationTypeOrder,
			Data: map[string]string{
				"orderId":     trip.OrderID.String(),
				"orderNumber": trip.OrderNumber,
				"driverId":    trip.DriverID.String(),
			},
		})
	}

	logger.Info().
		Int("active_trips", len(trips)).
		Int("stale_trips", stale).
		Msg("trip sweep completed")

	return nil
}
