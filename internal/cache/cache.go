// Package cache invalidates cached views after order mutations so
// subsequent reads reflect the new state. Invalidation is best-effort;
// a failed invalidation only leaves a view briefly stale.
package cache

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// Well-known view tags.
const (
	TagHome            = "home"
	TagDashboardOrders = "dashboard:orders"
)

// UserTag returns the per-user cached-view tag.
func UserTag(userID string) string {
	return "user:" + userID
}

// Invalidator drops cached views by tag.
type Invalidator interface {
	Invalidate(ctx context.Context, tags ...string)
}

// redisInvalidator deletes tag keys from Redis.
type redisInvalidator struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisInvalidator creates a Redis-backed invalidator.
func NewRedisInvalidator(client *redis.Client, logger zerolog.Logger) Invalidator {
	return &redisInvalidator{
		client: client,
		logger: logger.With().Str("component", "cache").Logger(),
	}
}

func (r *redisInvalidator) Invalidate(ctx context.Context, tags ...string) {
	if len(tags) == 0 {
		return
	}

	keys := make([]string, len(tags))
	for i, tag := range tags {
		keys[i] = "cache:" + tag
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Warn().Err(err).Strs("tags", tags).Msg("cache invalidation failed")
		return
	}

	r.logger.Debug().Strs("tags", tags).Msg("cache invalidated")
}

// nopInvalidator is used when no cache backend is configured.
type nopInvalidator struct{}

// NewNopInvalidator returns an invalidator that does nothing.
func NewNopInvalidator() Invalidator {
	return nopInvalidator{}
}

func (nopInvalidator) Invalidate(context.Context, ...string) {}
