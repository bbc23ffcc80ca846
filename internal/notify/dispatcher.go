// Package notify fans order-lifecycle events out to their audiences.
// Dispatch is always best-effort: failures are logged and reported in
// the per-recipient result list, never returned as an error, so a slow
// or broken channel can never fail the order operation that triggered
// it.
package notify

import (
	"context"
	"sync"
	"time"

	"dukkan/internal/model"
	"dukkan/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event names published to the realtime dashboard channel.
const (
	EventNewOrder       = "new-order"
	EventTripStarted    = "trip-started"
	EventOrderCanceled  = "order-canceled"
	EventOrderDelivered = "order-delivered"
	EventSupportAlert   = "support-alert"
)

// Delivery channels.
const (
	ChannelInApp    = "inapp"
	ChannelPush     = "push"
	ChannelRealtime = "realtime"
)

// Event is one order-lifecycle occurrence to deliver.
type Event struct {
	Name      string            `json:"event"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Type      string            `json:"type"`
	ActionURL string            `json:"actionUrl,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
}

// DeliveryResult is the outcome for one recipient on one channel.
type DeliveryResult struct {
	UserID  uuid.UUID
	Channel string
	Err     error
}

// Pusher delivers a push notification to one user. Implementations
// must respect context deadlines.
type Pusher interface {
	Push(ctx context.Context, userID uuid.UUID, event Event) error
}

// Realtime publishes a named event on one user's dashboard channel.
type Realtime interface {
	Publish(ctx context.Context, userID uuid.UUID, event Event) error
}

// Dispatcher delivers events over the durable in-app channel and the
// external channels. Either external channel may be absent.
type Dispatcher struct {
	notifications repository.NotificationRepository
	pusher        Pusher
	realtime      Realtime
	timeout       time.Duration
	logger        zerolog.Logger
}

// NewDispatcher creates a dispatcher. pusher and realtime may be nil
// when the corresponding transport is not configured; timeout bounds
// each external delivery call.
func NewDispatcher(
	notifications repository.NotificationRepository,
	pusher Pusher,
	realtime Realtime,
	timeout time.Duration,
	logger zerolog.Logger,
) *Dispatcher {
	return &Dispatcher{
		notifications: notifications,
		pusher:        pusher,
		realtime:      realtime,
		timeout:       timeout,
		logger:        logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch delivers the event to every recipient concurrently. One
// recipient's failure never blocks another's delivery. The returned
// results are for observability; callers must not fail on them.
func (d *Dispatcher) Dispatch(ctx context.Context, recipients []uuid.UUID, event Event) []DeliveryResult {
	if len(recipients) == 0 {
		return nil
	}

	var (
		mu      sync.Mutex
		results []DeliveryResult
		wg      sync.WaitGroup
	)

	record := func(r DeliveryResult) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}

	for _, userID := range recipients {
		wg.Add(1)
		go func(userID uuid.UUID) {
			defer wg.Done()
			for _, r := range d.deliver(ctx, userID, event) {
				record(r)
			}
		}(userID)
	}

	wg.Wait()

	for _, r := range results {
		if r.Err != nil {
			d.logger.Warn().
				Err(r.Err).
				Str("user_id", r.UserID.String()).
				Str("channel", r.Channel).
				Str("event", event.Name).
				Msg("notification delivery failed")
		}
	}

	return results
}

// deliver sends the event to one recipient over all channels.
func (d *Dispatcher) deliver(ctx context.Context, userID uuid.UUID, event Event) []DeliveryResult {
	var results []DeliveryResult

	inApp := &model.UserNotification{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     event.Title,
		Body:      event.Body,
		Type:      event.Type,
		ActionURL: event.ActionURL,
		CreatedAt: time.Now(),
	}
	results = append(results, DeliveryResult{
		UserID:  userID,
		Channel: ChannelInApp,
		Err:     d.notifications.Create(ctx, inApp),
	})

	if d.pusher != nil {
		pushCtx, cancel := context.WithTimeout(ctx, d.timeout)
		err := d.pusher.Push(pushCtx, userID, event)
		cancel()
		results = append(results, DeliveryResult{UserID: userID, Channel: ChannelPush, Err: err})
	}

	if d.realtime != nil {
		rtCtx, cancel := context.WithTimeout(ctx, d.timeout)
		err := d.realtime.Publish(rtCtx, userID, event)
		cancel()
		results = append(results, DeliveryResult{UserID: userID, Channel: ChannelRealtime, Err: err})
	}

	return results
}
