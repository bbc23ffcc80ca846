package repository

import (
	"context"
	"fmt"

	"dukkan/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// notificationRepository implements NotificationRepository using PostgreSQL.
type notificationRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewNotificationRepository creates a new PostgreSQL-backed notification repository.
func NewNotificationRepository(pool *pgxpool.Pool, logger zerolog.Logger) NotificationRepository {
	return &notificationRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "notification").Logger(),
	}
}

// Create inserts an in-app notification record.
func (r *notificationRepository) Create(ctx context.Context, n *model.UserNotification) error {
	query := `
		INSERT INTO user_notifications (id, user_id, title, body, type, read, action_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		n.ID, n.UserID, n.Title, n.Body, n.Type, n.Read, n.ActionURL, n.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", n.UserID.String()).
			Str("type", n.Type).
			Msg("failed to create notification")
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// ListForUser retrieves a user's notifications, newest first.
func (r *notificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.UserNotification, error) {
	query := `
		SELECT id, user_id, title, body, type, read, action_url, created_at
		FROM user_notifications
		WHERE user_id = $1 AND ($2 = FALSE OR read = FALSE)
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID, unreadOnly)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list notifications")
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.UserNotification
	for rows.Next() {
		var n model.UserNotification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Type, &n.Read, &n.ActionURL, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notification rows: %w", err)
	}

	return notifications, nil
}
