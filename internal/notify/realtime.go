package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// redisRealtime publishes dashboard events over Redis pub/sub, one
// channel per admin user. Delivery is at-most-once: subscribers not
// listening at publish time miss the event, which is acceptable for
// dashboard toasts backed by the durable in-app records.
type redisRealtime struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

// NewRedisRealtime creates a realtime publisher on the given client.
func NewRedisRealtime(client *redis.Client, prefix string, logger zerolog.Logger) Realtime {
	return &redisRealtime{
		client: client,
		prefix: prefix,
		logger: logger.With().Str("component", "realtime").Logger(),
	}
}

// Publish sends the event on the user's channel.
func (r *redisRealtime) Publish(ctx context.Context, userID uuid.UUID, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal realtime event: %w", err)
	}

	channel := fmt.Sprintf("%s:%s", r.prefix, userID)
	if err := r.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish realtime event: %w", err)
	}

	r.logger.Debug().
		Str("channel", channel).
		Str("event", event.Name).
		Msg("realtime event published")

	return nil
}
